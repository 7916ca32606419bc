// Copyright (c) 2025 Visvasity LLC

package spans

import (
	"fmt"
	"reflect"
)

type shiftOp struct {
	kind fieldKind
	idx  int
}

var shiftPlans planMap // reflect.Type -> []shiftOp

// ShiftMarkers moves every marker in ms by delta, in place.
func ShiftMarkers(ms []Marker, delta int64) {
	for i := range ms {
		ms[i].Shift(delta)
	}
}

// Shift moves every marker reachable from the struct pointed to by rec by
// delta. It shifts Marker fields, the elements of []Marker and [N]Marker
// fields, and, recursively, the markers of nested struct fields and of the
// elements of struct slices. Pointers, maps and interfaces are not followed,
// and fields tagged `span:"-"` are left alone.
//
// Slices are shifted in place, so other slices sharing their backing array
// observe the shift too.
func Shift(rec any, delta int64) error {
	v := reflect.ValueOf(rec)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("shift target %T: %w", rec, ErrNotStructPtr)
	}
	shiftValue(v.Elem(), delta)
	return nil
}

func shiftValue(v reflect.Value, delta int64) {
	for _, op := range shiftPlanFor(v.Type()) {
		f := v.Field(op.idx)
		switch op.kind {
		case markerField:
			f.Addr().Interface().(*Marker).Shift(delta)
		case markersField, markerArrayField:
			for i := 0; i < f.Len(); i++ {
				f.Index(i).Addr().Interface().(*Marker).Shift(delta)
			}
		case recordField:
			shiftValue(f, delta)
		case recordsField:
			for i := 0; i < f.Len(); i++ {
				shiftValue(f.Index(i), delta)
			}
		}
	}
}

func shiftPlanFor(t reflect.Type) []shiftOp {
	return shiftPlans.loadOrBuild(t, func() any {
		var ops []shiftOp
		for i := 0; i < t.NumField(); i++ {
			sf := t.Field(i)
			if !sf.IsExported() {
				continue
			}
			kind := classify(sf)
			switch kind {
			case valueField:
				continue
			case recordField:
				if len(shiftPlanFor(sf.Type)) == 0 {
					continue
				}
			case recordsField:
				// Element plans are looked up while shifting; the element
				// type may be t itself.
			}
			ops = append(ops, shiftOp{kind: kind, idx: i})
		}
		return ops
	}).([]shiftOp)
}
