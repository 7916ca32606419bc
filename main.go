// Copyright (c) 2025 Visvasity LLC

// For example, given this snippet,
//
//   package records
//
//   import "github.com/visvasity/spangen/spans"
//
//   type Token struct {
//   	Text spans.Marker
//   	Kind int
//   }
//
//   type Line struct {
//   	Num   int
//   	Text  spans.Marker
//   	Head  Token
//   	Words []spans.Marker
//   	Quote [2]spans.Marker
//   	Raw   spans.Marker `span:"-"`
//   }
//
// running this command
//
//   spangen gen -inpkg ./records -outdir ./texts Line
//
// will create files line.spangen.go and token.spangen.go in the ./texts
// directory with the following interface:
//
//   //
//   // Token nested record type
//   //
//
//   type TokenSpans[T spans.Text] struct {
//   	Text T
//   	Kind int
//   }
//
//   func MaterializeToken[T spans.Text](v *records.Token, buf T) TokenSpans[T]
//   func ShiftToken(v *records.Token, delta int64)
//
//   //
//   // Line record type
//   //
//
//   type LineSpans[T spans.Text] struct {
//   	Num   int
//   	Text  T
//   	Head  records.Token
//   	Words spans.View[T]
//   	Quote [2]spans.Marker
//   	Raw   spans.Marker `span:"-"`
//   }
//
//   func MaterializeLine[T spans.Text](v *records.Line, buf T) LineSpans[T]
//   func ShiftLine(v *records.Line, delta int64)
//
// Marker fields become slices of the buffer and marker slices become lazy
// spans.View values. Nested records, slices of records and marker arrays are
// copied as they are by MaterializeX, but ShiftX moves their markers too. Unexported fields are
// not part of the generated code.

package main

import (
	"context"

	"github.com/scott-cotton/cli"
)

const usageText = `spangen - generates marker materialization code for Go struct types

Usage:
  spangen gen -inpkg <pkg> -outdir <dir> [-outpkg <name>] [-v] types...
  spangen describe -inpkg <pkg> types...

Examples:
  spangen gen -inpkg ./input -outdir ./output Sample Line
  spangen describe -inpkg ./input Line`

func main() {
	cli.MainContext(context.Background(), mainCommand())
}

func mainCommand() *cli.Command {
	return cli.NewCommand("spangen").
		WithSynopsis("spangen - marker materialization code generator").
		WithDescription(usageText).
		WithSubs(
			genCommand(),
			describeCommand(),
		)
}
