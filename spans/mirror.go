// Copyright (c) 2025 Visvasity LLC

package spans

import (
	"fmt"
	"reflect"
)

type mirrorKey struct {
	rec, buf reflect.Type
}

type mirrorPlan struct {
	typ reflect.Type
	ops []fieldOp
	err error
}

var mirrorPlans planMap

// MirrorType returns the concrete type synthesized for the record type rt
// with buffer type B. Marker fields become B and []Marker fields become
// View[B]; every other exported field keeps its type and tag. Unexported
// fields are dropped.
func MirrorType[B any](rt reflect.Type) (reflect.Type, error) {
	p := mirrorPlanFor[B](rt)
	return p.typ, p.err
}

// Mirror materializes rec into a value of its synthesized concrete type (see
// MirrorType). It is meant for callers that cannot name the concrete type,
// e.g. to print or encode a materialized record.
func Mirror[B any](rec any, buf B) (any, error) {
	rv, err := structValue(reflect.ValueOf(rec))
	if err != nil {
		return nil, fmt.Errorf("record type %T: %w", rec, err)
	}
	p := mirrorPlanFor[B](rv.Type())
	if p.err != nil {
		return nil, p.err
	}
	cv := reflect.New(p.typ).Elem()
	applyPlan(p.ops, rv, cv, buf)
	return cv.Interface(), nil
}

func mirrorPlanFor[B any](rt reflect.Type) *mirrorPlan {
	key := mirrorKey{rec: rt, buf: reflect.TypeFor[B]()}
	return mirrorPlans.loadOrBuild(key, func() any {
		typ, ops, err := buildMirror(key, reflect.TypeFor[View[B]]())
		return &mirrorPlan{typ: typ, ops: ops, err: err}
	}).(*mirrorPlan)
}

func buildMirror(key mirrorKey, viewType reflect.Type) (reflect.Type, []fieldOp, error) {
	if key.rec.Kind() != reflect.Struct {
		return nil, nil, fmt.Errorf("record type %v: %w", key.rec, ErrNotStruct)
	}
	if err := checkBufferKind(key.buf); err != nil {
		return nil, nil, err
	}

	var (
		fields []reflect.StructField
		ops    []fieldOp
	)
	for i := 0; i < key.rec.NumField(); i++ {
		sf := key.rec.Field(i)
		if !sf.IsExported() {
			continue
		}
		op := fieldOp{src: i, dst: len(fields)}
		cf := reflect.StructField{Name: sf.Name, Type: sf.Type, Tag: sf.Tag}

		switch classify(sf) {
		case markerField:
			op.kind, cf.Type = markerField, key.buf
		case markersField:
			op.kind, cf.Type = markersField, viewType
		default:
			op.kind = valueField
		}
		fields = append(fields, cf)
		ops = append(ops, op)
	}
	return reflect.StructOf(fields), ops, nil
}
