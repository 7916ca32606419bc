// Copyright (c) 2025 Visvasity LLC

package spans

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestViewLazyAccess(t *testing.T) {
	const doc = "0123456789012345"
	ms := []Marker{{Pos: 0, Len: 2}, {Pos: 1, Len: 2}, {Pos: 2, Len: 2}}
	v := NewTextView(ms, doc)

	require.Equal(t, 3, v.Len())
	require.Equal(t, "01", v.Front())
	require.Equal(t, "23", v.Back())
	require.Equal(t, "12", v.At(1))
	require.Panics(t, func() { v.At(3) })
	require.Equal(t, []string{"01", "12", "23"}, v.Collect())

	for i, x := range v.All() {
		require.Equal(t, Substr(ms[i], doc), x)
	}
}

func TestViewIsLazy(t *testing.T) {
	// A bad marker only fails when its element is observed.
	ms := []Marker{{Pos: 0, Len: 1}, {Pos: 100, Len: 1}}
	v := NewTextView(ms, "abc")
	require.Equal(t, "a", v.Front())
	require.ErrorIs(t, panicErr(t, func() { v.Back() }), ErrOutOfRange)
}

func TestViewSubAndSave(t *testing.T) {
	const doc = "hi there this is a sentence"
	v := NewTextView(SplitText(doc, " "), doc)

	tail := v.Sub(1, v.Len())
	require.Equal(t, []string{"there", "this", "is", "a", "sentence"}, tail.Collect())

	saved := tail.Save()
	tail.PopFront()
	tail.PopBack()
	require.Equal(t, []string{"this", "is", "a"}, tail.Collect())
	require.Equal(t, 5, saved.Len())
	require.Equal(t, 6, v.Len())

	mid := saved.Sub(1, 3)
	require.Equal(t, []string{"this", "is"}, mid.Collect())
	require.Panics(t, func() { saved.Sub(2, 6) })

	var back []string
	for _, x := range v.Backward() {
		back = append(back, x)
	}
	require.Equal(t, []string{"sentence", "a", "is", "this", "there", "hi"}, back)
}

func TestViewPopEmpty(t *testing.T) {
	v := NewTextView(nil, "abc")
	require.True(t, v.Empty())
	require.Empty(t, v.Collect())
	require.Panics(t, func() { v.PopFront() })
	require.Panics(t, func() { v.PopBack() })
}

func TestViewOverSequence(t *testing.T) {
	buf := []float64{0.5, 1.5, 2.5, 3.5}
	v := NewView([]Marker{{Pos: 1, Len: 2}, {Pos: 3, Len: 1}}, buf)
	if diff := cmp.Diff([][]float64{{1.5, 2.5}, {3.5}}, v.Collect()); diff != "" {
		t.Errorf("view mismatch (-want +got):\n%s", diff)
	}

	// Elements alias the buffer.
	v.At(1)[0] = 9
	require.Equal(t, 9.0, buf[3])
}

func TestViewEarlyBreak(t *testing.T) {
	v := NewTextView([]Marker{{Pos: 0, Len: 1}, {Pos: 1, Len: 1}, {Pos: 2, Len: 1}}, "xyz")
	var seen []string
	for _, x := range v.All() {
		seen = append(seen, x)
		if len(seen) == 2 {
			break
		}
	}
	require.Equal(t, []string{"x", "y"}, seen)
}

func TestViewZeroValue(t *testing.T) {
	var v View[string]
	require.True(t, v.Empty())
	require.Equal(t, 0, v.Len())
	require.Empty(t, v.Collect())
	require.Empty(t, v.Sub(0, 0).Collect())
	require.Panics(t, func() { v.Front() })
}

func TestViewElementsDoNotGrowIntoBuffer(t *testing.T) {
	buf := []byte("ab,cd")
	v := NewTextView([]Marker{{Pos: 0, Len: 2}, {Pos: 3, Len: 2}}, buf)
	require.Equal(t, 2, cap(v.Front()))
	_ = append(v.Front(), '!')
	require.Equal(t, "ab,cd", string(buf))

	ints := []int{1, 2, 3, 4}
	iv := NewView([]Marker{{Pos: 0, Len: 1}}, ints)
	_ = append(iv.Front(), 9)
	require.Equal(t, []int{1, 2, 3, 4}, ints)
}
