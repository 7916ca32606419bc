// Copyright (c) 2025 Visvasity LLC

package spans

import "fmt"

// Cursor wraps a buffer and tracks the absolute offset of its current view in
// the buffer it was created from. It supports the usual traversal operations
// of the buffer itself and can report the view as a Marker at any time.
//
// Cursor is a value type; copying it duplicates the cursor. The zero value is
// an empty cursor at offset zero.
type Cursor[B, E any] struct {
	acc access[B, E]
	pos uint64
	buf B
}

// NewCursor returns a cursor over the sequence s positioned at offset zero.
func NewCursor[S ~[]E, E any](s S) Cursor[S, E] {
	return Cursor[S, E]{acc: seqAccess[S, E]{}, buf: s}
}

// NewTextCursor returns a cursor over the text t positioned at offset zero.
func NewTextCursor[T Text](t T) Cursor[T, byte] {
	return Cursor[T, byte]{acc: textAccess[T]{}, buf: t}
}

func (c Cursor[B, E]) accessor() access[B, E] {
	if c.acc == nil {
		return accessFor[B, E]()
	}
	return c.acc
}

func (c Cursor[B, E]) Empty() bool {
	return c.Len() == 0
}

func (c Cursor[B, E]) Len() int {
	return c.accessor().Len(c.buf)
}

// Pos returns the absolute offset of the cursor's view.
func (c Cursor[B, E]) Pos() uint64 {
	return c.pos
}

// Buffer returns the remaining, unconsumed view.
func (c Cursor[B, E]) Buffer() B {
	return c.buf
}

// Marker returns the marker for the remaining view, in the coordinates of the
// original buffer.
func (c Cursor[B, E]) Marker() Marker {
	return Marker{Pos: c.pos, Len: uint64(c.Len())}
}

func (c Cursor[B, E]) At(i int) E {
	return c.accessor().At(c.buf, i)
}

func (c Cursor[B, E]) Front() E {
	return c.At(0)
}

func (c Cursor[B, E]) Back() E {
	return c.At(c.Len() - 1)
}

func (c *Cursor[B, E]) PopFront() {
	c.PopFrontN(1)
}

func (c *Cursor[B, E]) PopBack() {
	c.PopBackN(1)
}

// PopFrontN drops the first n elements of the view.
func (c *Cursor[B, E]) PopFrontN(n int) {
	if n < 0 || n > c.Len() {
		panic(fmt.Sprintf("cannot pop %d elements from the front of a cursor with %d", n, c.Len()))
	}
	c.buf = c.accessor().Slice(c.buf, n, c.Len())
	c.pos += uint64(n)
}

// PopBackN drops the last n elements of the view.
func (c *Cursor[B, E]) PopBackN(n int) {
	if n < 0 || n > c.Len() {
		panic(fmt.Sprintf("cannot pop %d elements from the back of a cursor with %d", n, c.Len()))
	}
	c.buf = c.accessor().Slice(c.buf, 0, c.Len()-n)
}

// Sub returns a cursor over elements [i, j) of the view. Markers produced by
// the result stay in the coordinates of the original buffer.
func (c Cursor[B, E]) Sub(i, j int) Cursor[B, E] {
	if i < 0 || i > j || j > c.Len() {
		panic(fmt.Sprintf("cursor sub-range [%d:%d] is out of range [0:%d]", i, j, c.Len()))
	}
	return Cursor[B, E]{acc: c.accessor(), pos: c.pos + uint64(i), buf: c.accessor().Slice(c.buf, i, j)}
}

// Save returns an independent copy of the cursor.
func (c Cursor[B, E]) Save() Cursor[B, E] {
	return c
}

// Take consumes the next n elements and returns their marker.
func (c *Cursor[B, E]) Take(n int) Marker {
	m := c.Sub(0, n).Marker()
	c.PopFrontN(n)
	return m
}

// TakeWhile consumes the longest prefix whose elements satisfy pred and
// returns its marker.
func (c *Cursor[B, E]) TakeWhile(pred func(E) bool) Marker {
	n := 0
	for n < c.Len() && pred(c.At(n)) {
		n++
	}
	return c.Take(n)
}

// SkipWhile drops the longest prefix whose elements satisfy pred and returns
// its length.
func (c *Cursor[B, E]) SkipWhile(pred func(E) bool) int {
	return int(c.TakeWhile(pred).Len)
}

// HasPrefix reports whether the view starts with prefix.
func HasPrefix[B any, E comparable](c Cursor[B, E], prefix B) bool {
	n := c.accessor().Len(prefix)
	if n > c.Len() {
		return false
	}
	for i := 0; i < n; i++ {
		if c.At(i) != c.accessor().At(prefix, i) {
			return false
		}
	}
	return true
}
