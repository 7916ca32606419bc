// Copyright (c) 2025 Visvasity LLC

package main

import (
	"fmt"
	"go/types"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/scott-cotton/cli"

	"github.com/visvasity/spangen/typecheck"
)

type describeConfig struct {
	*cli.Command

	InPkg   string `cli:"name=inpkg desc='package path/name for the type definitions' default=."`
	NoColor bool   `cli:"name=no-color desc='disable colored output'"`
}

func describeCommand() *cli.Command {
	cfg := &describeConfig{InPkg: "."}
	opts, _ := cli.StructOpts(cfg)
	return cli.NewCommandAt(&cfg.Command, "describe").
		WithSynopsis("describe -inpkg <pkg> types... - print how record fields are classified").
		WithOpts(opts...).
		WithRun(cfg.run)
}

func (cfg *describeConfig) run(cc *cli.Context, args []string) error {
	args, err := cfg.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: usage: spangen describe -inpkg <pkg> types...", cli.ErrUsage)
	}
	if cfg.NoColor {
		color.NoColor = true
	}

	pkg, err := loadPackage(cfg.InPkg)
	if err != nil {
		return err
	}
	checker := typecheck.New()
	for _, name := range args {
		tn, ok := pkg.Types.Scope().Lookup(name).(*types.TypeName)
		if !ok {
			return fmt.Errorf("typename %q doesn't exist", name)
		}
		rdata, err := checker.Check(tn)
		if err != nil {
			return err
		}
		describeRecord(cc.Out, rdata, types.RelativeTo(pkg.Types))
	}
	return nil
}

var kindColors = map[string]func(string, ...any) string{
	typecheck.KindMarker:      color.GreenString,
	typecheck.KindMarkers:     color.CyanString,
	typecheck.KindMarkerArray: color.BlueString,
	typecheck.KindRecord:      color.MagentaString,
	typecheck.KindRecords:     color.HiMagentaString,
	typecheck.KindValue:       color.WhiteString,
}

func describeRecord(w io.Writer, rdata *typecheck.RecordData, qf types.Qualifier) {
	bold := color.New(color.Bold)
	bold.Fprintf(w, "%s.%s:\n", rdata.PkgName, rdata.StructName)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, fdata := range rdata.Fields {
		kind := kindColors[fdata.Kind]("%s", fdata.Kind)
		if !fdata.Exported {
			kind = color.YellowString("skipped")
		}
		fmt.Fprintf(tw, "\t%s\t%s\t%s\n", fdata.FieldName, kind, types.TypeString(fdata.Type, qf))
	}
	tw.Flush()
}
