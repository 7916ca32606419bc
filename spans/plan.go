// Copyright (c) 2025 Visvasity LLC

package spans

import (
	"reflect"
	"sync"
)

// TagName is the struct tag key read by the engine. A field tagged
// `span:"-"` is always copied verbatim, even if it holds markers.
const TagName = "span"

type fieldKind int

const (
	valueField fieldKind = iota
	markerField
	markersField
	markerArrayField
	recordField
	recordsField
)

func (k fieldKind) String() string {
	switch k {
	case markerField:
		return "marker"
	case markersField:
		return "markers"
	case markerArrayField:
		return "marker-array"
	case recordField:
		return "record"
	case recordsField:
		return "records"
	}
	return "value"
}

var (
	markerType  = reflect.TypeFor[Marker]()
	markersType = reflect.TypeFor[[]Marker]()
)

// classify decides how a struct field participates in materialization and
// shifting. Only the declared type counts: a field is a marker only if it is
// declared as Marker, not if it merely looks like one.
func classify(sf reflect.StructField) fieldKind {
	if sf.Tag.Get(TagName) == "-" {
		return valueField
	}
	t := sf.Type
	switch {
	case t == markerType:
		return markerField
	case t.Kind() == reflect.Slice && t.Elem() == markerType:
		return markersField
	case t.Kind() == reflect.Array && t.Elem() == markerType:
		return markerArrayField
	case t.Kind() == reflect.Struct:
		return recordField
	case t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Struct:
		return recordsField
	}
	return valueField
}

type planMap struct {
	sync.Map // key -> plan
}

func (pm *planMap) loadOrBuild(key any, build func() any) any {
	if x, ok := pm.Load(key); ok {
		return x
	}
	x, _ := pm.LoadOrStore(key, build())
	return x
}

// structValue returns the struct addressed by v, dereferencing one pointer.
func structValue(v reflect.Value) (reflect.Value, error) {
	if v.Kind() == reflect.Interface {
		v = v.Elem()
	}
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return reflect.Value{}, ErrNotStruct
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return reflect.Value{}, ErrNotStruct
	}
	return v, nil
}

func markersOf(v reflect.Value) []Marker {
	if v.Type() != markersType {
		v = v.Convert(markersType)
	}
	return v.Interface().([]Marker)
}
