// Copyright (c) 2025 Visvasity LLC

package spans

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	ErrShape        = errors.New("record and concrete types do not mirror each other")
	ErrNotStruct    = errors.New("expected struct")
	ErrNotStructPtr = errors.New("expected pointer to struct")
	ErrBufferKind   = errors.New("unsupported buffer kind")
)

type fieldOp struct {
	kind  fieldKind // valueField, markerField or markersField
	src   int
	dst   int
	conv  bool // slices need a conversion to the destination type
	eager bool // markers resolve into a plain slice instead of a View
}

type materializeKey struct {
	rec, con, buf reflect.Type
}

type materializePlan struct {
	ops []fieldOp
	err error
}

var materializePlans planMap

// Materialize returns a value of the concrete type C in which every field of
// C is filled from the same-named field of rec:
//
//   - Marker fields become the slice of buf they denote; the C field must
//     accept a B.
//   - []Marker fields become a View[B], or, if the C field is a slice, an
//     eagerly resolved slice of B.
//   - All other fields are copied verbatim.
//
// The record type R may be a struct or a pointer to one. Every exported field
// of R must have a counterpart in C and vice versa; otherwise an error
// wrapping ErrShape is returned. The shape check is done once per type
// combination.
//
// Buffer contents are never copied. A marker outside of buf panics with an
// error wrapping ErrOutOfRange.
func Materialize[C, R, B any](rec R, buf B) (C, error) {
	var out C
	rv, err := structValue(reflect.ValueOf(&rec).Elem())
	if err != nil {
		return out, fmt.Errorf("record type %T: %w", rec, err)
	}
	cv := reflect.ValueOf(&out).Elem()
	if cv.Kind() != reflect.Struct {
		return out, fmt.Errorf("concrete type %v: %w", cv.Type(), ErrNotStruct)
	}
	bt := reflect.TypeFor[B]()
	if err := checkBufferKind(bt); err != nil {
		return out, err
	}

	key := materializeKey{rec: rv.Type(), con: cv.Type(), buf: bt}
	plan := materializePlans.loadOrBuild(key, func() any {
		ops, err := buildMaterializePlan(key, reflect.TypeFor[View[B]]())
		return &materializePlan{ops: ops, err: err}
	}).(*materializePlan)
	if plan.err != nil {
		return out, plan.err
	}

	applyPlan(plan.ops, rv, cv, buf)
	return out, nil
}

// MustMaterialize is like Materialize but panics on a shape error.
func MustMaterialize[C, R, B any](rec R, buf B) C {
	out, err := Materialize[C](rec, buf)
	if err != nil {
		panic(err)
	}
	return out
}

func buildMaterializePlan(key materializeKey, viewType reflect.Type) ([]fieldOp, error) {
	rt, ct := key.rec, key.con
	used := make(map[int]bool)

	var ops []fieldOp
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		cf, ok := ct.FieldByName(sf.Name)
		if !ok || len(cf.Index) != 1 {
			return nil, fmt.Errorf("concrete type %v has no field %q: %w", ct, sf.Name, ErrShape)
		}
		op := fieldOp{src: i, dst: cf.Index[0]}
		used[op.dst] = true

		switch classify(sf) {
		case markerField:
			ok, conv := accepts(key.buf, cf.Type)
			if !ok {
				return nil, fmt.Errorf("marker field %q cannot hold %v in concrete type %v (found %v): %w", sf.Name, key.buf, ct, cf.Type, ErrShape)
			}
			op.kind, op.conv = markerField, conv
		case markersField:
			op.kind = markersField
			if cf.Type == viewType {
				break
			}
			if cf.Type.Kind() != reflect.Slice {
				return nil, fmt.Errorf("markers field %q must be %v or a slice in concrete type %v (found %v): %w", sf.Name, viewType, ct, cf.Type, ErrShape)
			}
			ok, conv := accepts(key.buf, cf.Type.Elem())
			if !ok {
				return nil, fmt.Errorf("markers field %q elements cannot hold %v in concrete type %v (found %v): %w", sf.Name, key.buf, ct, cf.Type, ErrShape)
			}
			op.eager, op.conv = true, conv
		default:
			if !sf.Type.AssignableTo(cf.Type) {
				return nil, fmt.Errorf("field %q of type %v is not assignable to %v in concrete type %v: %w", sf.Name, sf.Type, cf.Type, ct, ErrShape)
			}
			op.kind = valueField
		}
		ops = append(ops, op)
	}

	for j := 0; j < ct.NumField(); j++ {
		if cf := ct.Field(j); cf.IsExported() && !used[j] {
			return nil, fmt.Errorf("concrete field %q has no counterpart in record type %v: %w", cf.Name, rt, ErrShape)
		}
	}
	return ops, nil
}

// accepts reports whether slices of type from can be stored in a field of
// type to, and whether a conversion is needed. Conversions are only allowed
// between types of the same kind, so no data is ever copied.
func accepts(from, to reflect.Type) (ok, conv bool) {
	if from.AssignableTo(to) {
		return true, false
	}
	if from.Kind() == to.Kind() && from.ConvertibleTo(to) {
		return true, true
	}
	return false, false
}

func applyPlan[B any](ops []fieldOp, rv, cv reflect.Value, buf B) {
	bv := reflect.ValueOf(&buf).Elem()
	var sl slicer[B]

	for _, op := range ops {
		src, dst := rv.Field(op.src), cv.Field(op.dst)
		switch op.kind {
		case markerField:
			x := sliceValue(src.Interface().(Marker), bv)
			if op.conv {
				x = x.Convert(dst.Type())
			}
			dst.Set(x)

		case markersField:
			ms := markersOf(src)
			if !op.eager {
				if sl == nil {
					sl = slicerFor[B]()
				}
				dst.Set(reflect.ValueOf(newView(sl, ms, buf)))
				continue
			}
			if ms == nil {
				continue
			}
			xs := reflect.MakeSlice(dst.Type(), len(ms), len(ms))
			for i, m := range ms {
				x := sliceValue(m, bv)
				if op.conv {
					x = x.Convert(dst.Type().Elem())
				}
				xs.Index(i).Set(x)
			}
			dst.Set(xs)

		default:
			dst.Set(src)
		}
	}
}
