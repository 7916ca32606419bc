// Copyright (c) 2025 Visvasity LLC

package spans

import (
	"fmt"
	"iter"
)

// View presents a sequence of markers as the sequence of buffer slices they
// denote. Slices are computed only when an element is observed, so creating
// a View costs the same for any number of markers.
//
// View is a value type; copying it yields an independent traversal over the
// same markers and buffer. The zero value is an empty view.
type View[B any] struct {
	sl      slicer[B]
	buf     B
	markers []Marker
}

// NewView returns a view over markers resolved against the sequence buf.
func NewView[S ~[]E, E any](markers []Marker, buf S) View[S] {
	return View[S]{sl: seqAccess[S, E]{}, buf: buf, markers: markers}
}

// NewTextView returns a view over markers resolved against the text buf.
func NewTextView[T Text](markers []Marker, buf T) View[T] {
	return View[T]{sl: textAccess[T]{}, buf: buf, markers: markers}
}

func newView[B any](sl slicer[B], markers []Marker, buf B) View[B] {
	return View[B]{sl: sl, buf: buf, markers: markers}
}

func (v View[B]) Len() int {
	return len(v.markers)
}

func (v View[B]) Empty() bool {
	return len(v.markers) == 0
}

// At returns the slice for the i-th marker of the view.
func (v View[B]) At(i int) B {
	if i < 0 || i >= len(v.markers) {
		panic(fmt.Sprintf("view index %d is out of range [0:%d]", i, len(v.markers)))
	}
	m := v.markers[i]
	sl := v.sl
	if sl == nil {
		sl = slicerFor[B]()
	}
	m.checkRange(sl.Len(v.buf))
	return sl.Slice(v.buf, int(m.Pos), int(m.End()))
}

func (v View[B]) Front() B {
	return v.At(0)
}

func (v View[B]) Back() B {
	return v.At(len(v.markers) - 1)
}

func (v *View[B]) PopFront() {
	if len(v.markers) == 0 {
		panic("PopFront on an empty view")
	}
	v.markers = v.markers[1:]
}

func (v *View[B]) PopBack() {
	if len(v.markers) == 0 {
		panic("PopBack on an empty view")
	}
	v.markers = v.markers[:len(v.markers)-1]
}

// Sub returns the view over elements [i, j) of v. Markers are shared, not
// copied.
func (v View[B]) Sub(i, j int) View[B] {
	if i < 0 || i > j || j > len(v.markers) {
		panic(fmt.Sprintf("view sub-range [%d:%d] is out of range [0:%d]", i, j, len(v.markers)))
	}
	v.markers = v.markers[i:j:j]
	return v
}

// Save returns an independent copy of the view.
func (v View[B]) Save() View[B] {
	return v
}

// Markers returns the markers backing the view.
func (v View[B]) Markers() []Marker {
	return v.markers
}

func (v View[B]) All() iter.Seq2[int, B] {
	return func(yield func(int, B) bool) {
		for i := 0; i < v.Len(); i++ {
			if !yield(i, v.At(i)) {
				return
			}
		}
	}
}

// Backward iterates from the last element to the first.
func (v View[B]) Backward() iter.Seq2[int, B] {
	return func(yield func(int, B) bool) {
		for i := v.Len() - 1; i >= 0; i-- {
			if !yield(i, v.At(i)) {
				return
			}
		}
	}
}

// Collect resolves every marker eagerly. Only slice headers are allocated;
// buffer contents are never copied.
func (v View[B]) Collect() []B {
	xs := make([]B, 0, len(v.markers))
	for _, x := range v.All() {
		xs = append(xs, x)
	}
	return xs
}

func (v View[B]) String() string {
	return fmt.Sprintf("%v", v.Collect())
}
