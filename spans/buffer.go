// Copyright (c) 2025 Visvasity LLC

package spans

import (
	"fmt"
	"reflect"
)

// Text is the set of byte-sequence buffer types.
type Text interface {
	~string | ~[]byte
}

// Seq is the set of random-access sequence buffer types with element type E.
type Seq[E any] interface {
	~[]E
}

// slicer is the part of the buffer model that views need.
type slicer[B any] interface {
	Len(B) int
	Slice(B, int, int) B
}

// access is the part of the buffer model that cursors need.
type access[B, E any] interface {
	slicer[B]
	At(B, int) E
}

type seqAccess[S ~[]E, E any] struct{}

func (seqAccess[S, E]) Len(s S) int           { return len(s) }
func (seqAccess[S, E]) At(s S, i int) E       { return s[i] }
func (seqAccess[S, E]) Slice(s S, i, j int) S { return s[i:j:j] }

type textAccess[T Text] struct{}

func (textAccess[T]) Len(t T) int           { return len(t) }
func (textAccess[T]) At(t T, i int) byte    { return t[i] }
func (textAccess[T]) Slice(t T, i, j int) T { return clipText(t[i:j]) }

// clipText limits the capacity of byte slices to their length, so appending to
// a slice of a buffer never writes into the buffer.
func clipText[T Text](t T) T {
	switch p := any(&t).(type) {
	case *string:
	case *[]byte:
		*p = (*p)[:len(*p):len(*p)]
	default:
		if v := reflect.ValueOf(&t).Elem(); v.Kind() == reflect.Slice {
			v.Set(v.Slice3(0, v.Len(), v.Len()))
		}
	}
	return t
}

// reflectAccess slices any string or slice kind through reflection. It backs
// buffer types that are only known at runtime.
type reflectAccess[B any] struct{}

func (reflectAccess[B]) Len(b B) int {
	return reflect.ValueOf(&b).Elem().Len()
}

func (reflectAccess[B]) Slice(b B, i, j int) B {
	return sliceRange(reflect.ValueOf(&b).Elem(), i, j).Interface().(B)
}

type reflectElemAccess[B, E any] struct {
	reflectAccess[B]
}

func (reflectElemAccess[B, E]) At(b B, i int) E {
	v := reflect.ValueOf(&b).Elem()
	if v.Kind() == reflect.String {
		return any(v.String()[i]).(E)
	}
	return v.Index(i).Interface().(E)
}

// slicerFor returns the cheapest slicer for buffer type B.
func slicerFor[B any]() slicer[B] {
	var zero B
	switch any(zero).(type) {
	case string:
		return any(textAccess[string]{}).(slicer[B])
	case []byte:
		return any(seqAccess[[]byte, byte]{}).(slicer[B])
	}
	return reflectAccess[B]{}
}

// accessFor returns the cheapest accessor for buffer type B with elements of
// type E.
func accessFor[B, E any]() access[B, E] {
	if a, ok := slicerFor[B]().(access[B, E]); ok {
		return a
	}
	return reflectElemAccess[B, E]{}
}

// checkBufferKind returns ErrBufferKind unless t can back markers.
func checkBufferKind(t reflect.Type) error {
	switch t.Kind() {
	case reflect.String, reflect.Slice:
		return nil
	}
	return fmt.Errorf("buffer type %v: %w", t, ErrBufferKind)
}

// sliceValue returns buf[m.Pos:m.End()] for a reflected buffer.
func sliceValue(m Marker, buf reflect.Value) reflect.Value {
	m.checkRange(buf.Len())
	return sliceRange(buf, int(m.Pos), int(m.End()))
}

// sliceRange returns v[i:j], with the capacity of slice kinds limited to j.
func sliceRange(v reflect.Value, i, j int) reflect.Value {
	if v.Kind() == reflect.Slice {
		return v.Slice3(i, j, j)
	}
	return v.Slice(i, j)
}
