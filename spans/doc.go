// Copyright (c) 2025 Visvasity LLC

// Package spans describes slices of a large buffer as position-independent
// markers and turns them back into slices when the buffer is available.
//
// A Marker is a (Pos, Len) pair. Records that hold markers instead of slices
// can be copied, stored and moved around without keeping the buffer alive.
// Given the buffer again, a record is materialized into a concrete record in
// which every Marker field is replaced by the slice it denotes and every
// []Marker field by a lazy View over those slices:
//
//	type Line struct {
//		Num   int
//		Text  spans.Marker
//		Words []spans.Marker
//	}
//
//	type LineText struct {
//		Num   int
//		Text  string
//		Words spans.View[string]
//	}
//
//	c := spans.NewTextCursor(doc)
//	line := Line{Num: 1, Text: c.Marker(), Words: spans.Split(c, " ")}
//	...
//	lt, err := spans.Materialize[LineText](line, doc)
//
// The concrete type can also be synthesized at runtime with Mirror, or
// generated at build time with the spangen command.
//
// Passing an incompatible buffer is a programmer error: markers outside of
// the buffer panic with an error wrapping ErrOutOfRange, and shifting a marker
// below zero panics with an error wrapping ErrNegativePosition.
package spans
