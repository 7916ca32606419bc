// Copyright (c) 2025 Visvasity LLC

// Package input holds marker records used to exercise the spangen generator.
package input

import "github.com/visvasity/spangen/spans"

type Sample struct {
	I    int
	B    spans.Marker
	L    int64
	Barr []spans.Marker
}

type TokenKind int

const (
	TokenWord TokenKind = iota + 1
	TokenNumber
	TokenPunct
)

type Token struct {
	Text spans.Marker
	Kind TokenKind
}

type Markers []spans.Marker

// Line is one line of a document with its words and an optional quoted
// section.
type Line struct {
	Num   int
	Text  spans.Marker
	Head  Token
	Words Markers
	Quote [2]spans.Marker

	// Raw is kept as a marker even after materialization.
	Raw spans.Marker `span:"-" json:"raw"`

	Labels map[string]string

	comment spans.Marker
}

type Document struct {
	Name  spans.Marker
	Lines []Line
	Title Token
}

func (l *Line) Comment() spans.Marker {
	return l.comment
}

func (l *Line) SetComment(m spans.Marker) {
	l.comment = m
}

// Pair is a generic record; its instances are shifted by reflection.
type Pair[M any] struct {
	First  M
	Second M
}

// Section is a tree of headed parts.
type Section struct {
	Heading Token
	Range   Pair[spans.Marker]
	Bounds  struct {
		Open  spans.Marker
		Close spans.Marker
	}
	Parts []Section
}
