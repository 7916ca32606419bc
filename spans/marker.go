// Copyright (c) 2025 Visvasity LLC

package spans

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrOutOfRange       = errors.New("marker is out of range")
	ErrNegativePosition = errors.New("marker position would be negative")
)

// Marker identifies the sub-range [Pos, Pos+Len) of some buffer without
// holding a reference to it.
type Marker struct {
	Pos uint64
	Len uint64
}

// End returns the exclusive end offset of the marker.
func (m Marker) End() uint64 {
	return m.Pos + m.Len
}

func (m Marker) Empty() bool {
	return m.Len == 0
}

func (m Marker) String() string {
	return fmt.Sprintf("[%d:%d]", m.Pos, m.End())
}

// Sub returns the marker for the range [i, j) relative to the start of m.
func (m Marker) Sub(i, j uint64) Marker {
	if i > j || j > m.Len {
		panic(fmt.Errorf("sub-range [%d:%d] of marker %v: %w", i, j, m, ErrOutOfRange))
	}
	return Marker{Pos: m.Pos + i, Len: j - i}
}

// Shift moves the marker position by delta. Length is unchanged.
func (m *Marker) Shift(delta int64) {
	if delta < 0 {
		d := uint64(-delta) // -MinInt64 wraps to 1<<63, which is still correct
		if d > m.Pos {
			panic(fmt.Errorf("shifting marker %v by %d: %w", *m, delta, ErrNegativePosition))
		}
		m.Pos -= d
		return
	}
	if uint64(delta) > math.MaxUint64-m.End() {
		panic(fmt.Errorf("shifting marker %v by %d: %w", *m, delta, ErrOutOfRange))
	}
	m.Pos += uint64(delta)
}

// Shifted returns a copy of m moved by delta.
func (m Marker) Shifted(delta int64) Marker {
	m.Shift(delta)
	return m
}

// Span returns the smallest marker that covers both first and last.
func Span(first, last Marker) Marker {
	pos := min(first.Pos, last.Pos)
	return Marker{Pos: pos, Len: max(first.End(), last.End()) - pos}
}

// checkRange panics unless m lies within a buffer of n elements.
func (m Marker) checkRange(n int) {
	if m.End() < m.Pos || m.End() > uint64(n) {
		panic(fmt.Errorf("marker %v exceeds buffer length %d: %w", m, n, ErrOutOfRange))
	}
}

// Slice returns buf[m.Pos:m.End()] without copying.
func Slice[S ~[]E, E any](m Marker, buf S) S {
	m.checkRange(len(buf))
	return buf[m.Pos:m.End():m.End()]
}

// Substr returns the text in buf denoted by m without copying. Byte slice
// results have their capacity limited to their length.
func Substr[T Text](m Marker, buf T) T {
	m.checkRange(len(buf))
	return clipText(buf[m.Pos:m.End()])
}
