// Copyright (c) 2025 Visvasity LLC

package typecheck

import (
	"errors"
	"fmt"
	"go/types"
	"reflect"

	"golang.org/x/tools/go/types/typeutil"
)

// SpansPkgPath is the import path of the package defining the Marker type.
const SpansPkgPath = "github.com/visvasity/spangen/spans"

// TagName is the struct tag key; a field tagged `span:"-"` is a plain value.
const TagName = "span"

// Field kinds.
const (
	KindMarker      = "marker"       // spans.Marker
	KindMarkers     = "markers"      // []spans.Marker or a named type of it
	KindMarkerArray = "marker-array" // [N]spans.Marker
	KindRecord      = "record"       // a struct type holding markers
	KindRecords     = "records"      // a slice of record elements
	KindValue       = "value"        // anything else
)

type FieldData struct {
	Index     int
	FieldName string
	Embedded  bool
	Exported  bool

	Kind string // One of [marker|markers|marker-array|record|records|value]

	Type types.Type
	Tag  string

	// Record is set for record and records kind fields. For records fields
	// it describes the slice element type.
	Record *RecordData

	// Recursive is true for records fields whose element type was still being
	// checked, like the children of a tree node.
	Recursive bool
}

type RecordData struct {
	// StructName is empty for anonymous struct types.
	StructName string

	// Instance is true for instantiations of generic struct types.
	Instance bool

	PkgPath string
	PkgName string

	Fields []*FieldData

	// HasMarkers is true if any exported field holds markers, directly or
	// through a nested record.
	HasMarkers bool
}

// MarkerFields returns the exported fields holding markers, nested records
// included.
func (r *RecordData) MarkerFields() []*FieldData {
	var fs []*FieldData
	for _, f := range r.Fields {
		if f.Exported && f.Kind != KindValue {
			fs = append(fs, f)
		}
	}
	return fs
}

type Checker struct {
	checked  typeutil.Map // types.Type -> *RecordData
	checking typeutil.Map // types.Type -> *RecordData
	failed   typeutil.Map // types.Type -> error

	recordDataMap map[string]*RecordData
}

func New() *Checker {
	return &Checker{
		recordDataMap: make(map[string]*RecordData),
	}
}

// RecordDataMap returns the records checked so far, keyed by their name.
func (c *Checker) RecordDataMap() map[string]*RecordData {
	return c.recordDataMap
}

func typenameKey(tn *types.TypeName) string {
	pkg := tn.Pkg()
	if pkg == nil {
		return tn.Name()
	}
	return pkg.Path() + "." + tn.Name()
}

// IsMarker reports whether t is the spans.Marker type.
func IsMarker(t types.Type) bool {
	named, ok := types.Unalias(t).(*types.Named)
	if !ok {
		return false
	}
	obj := named.Obj()
	return obj.Name() == "Marker" && obj.Pkg() != nil && obj.Pkg().Path() == SpansPkgPath
}

// IsMarkers reports whether t is a slice of spans.Marker values.
func IsMarkers(t types.Type) bool {
	s, ok := t.Underlying().(*types.Slice)
	return ok && IsMarker(s.Elem())
}

func isMarkerArray(t types.Type) bool {
	a, ok := t.Underlying().(*types.Array)
	return ok && IsMarker(a.Elem())
}

// Check scans the input struct type, and every struct type nested in it by
// value, and classifies their fields.
func (c *Checker) Check(typename *types.TypeName) (*RecordData, error) {
	named, ok := types.Unalias(typename.Type()).(*types.Named)
	if !ok {
		return nil, fmt.Errorf("input type (%v) is not a named type", typename)
	}
	return c.checkNamed(named)
}

func (c *Checker) checkNamed(named *types.Named) (rdata *RecordData, status error) {
	if v := c.checked.At(named); v != nil {
		return v.(*RecordData), nil
	}
	if v := c.failed.At(named); v != nil {
		return nil, fmt.Errorf("struct type is not supported: %w", v.(error))
	}
	if v := c.checking.At(named); v != nil {
		return v.(*RecordData), errPending
	}

	stype, ok := named.Underlying().(*types.Struct)
	if !ok {
		return nil, fmt.Errorf("underlying type of %v is not a struct", named)
	}
	instance := named.TypeArgs().Len() != 0
	if tps := named.TypeParams(); !instance && tps != nil && tps.Len() != 0 {
		return nil, fmt.Errorf("generic struct type (%v) is not supported", named)
	}

	obj := named.Obj()
	rdata = &RecordData{StructName: obj.Name(), Instance: instance}
	if pkg := obj.Pkg(); pkg != nil {
		rdata.PkgPath = pkg.Path()
		rdata.PkgName = pkg.Name()
	}

	c.checking.Set(named, rdata)
	defer func() {
		if status == nil {
			c.checked.Set(named, rdata)
		} else {
			c.failed.Set(named, status)
		}
		c.checking.Delete(named)
	}()

	if err := c.collectFields(rdata, stype); err != nil {
		return nil, err
	}
	if instance {
		return rdata, nil
	}

	c.recordDataMap[typenameKey(obj)] = rdata
	return rdata, nil
}

func (c *Checker) checkStruct(stype *types.Struct) (*RecordData, error) {
	rdata := new(RecordData)
	if err := c.collectFields(rdata, stype); err != nil {
		return nil, err
	}
	return rdata, nil
}

func (c *Checker) collectFields(rdata *RecordData, stype *types.Struct) error {
	for i := 0; i < stype.NumFields(); i++ {
		fdata, err := c.collectField(stype, i)
		if err != nil {
			return err
		}
		if fdata.Exported && fdata.Kind != KindValue && !fdata.Recursive {
			rdata.HasMarkers = true
		}
		rdata.Fields = append(rdata.Fields, fdata)
	}
	return nil
}

// errPending is returned with the partial record data of a named struct type
// that is still being checked.
var errPending = errors.New("record is being checked")

// checkRecord returns the record data for a struct type, or nil if t is not a
// struct type.
func (c *Checker) checkRecord(t types.Type) (*RecordData, error) {
	switch t := types.Unalias(t).(type) {
	case *types.Named:
		if _, ok := t.Underlying().(*types.Struct); !ok {
			return nil, nil
		}
		return c.checkNamed(t)
	case *types.Struct:
		return c.checkStruct(t)
	}
	return nil, nil
}

func (c *Checker) collectField(stype *types.Struct, i int) (*FieldData, error) {
	field := stype.Field(i)
	fdata := &FieldData{
		Index:     i,
		FieldName: field.Name(),
		Embedded:  field.Embedded(),
		Exported:  field.Exported(),
		Type:      field.Type(),
		Tag:       stype.Tag(i),
		Kind:      KindValue,
	}

	ftype := field.Type()
	switch {
	case reflect.StructTag(fdata.Tag).Get(TagName) == "-":
		return fdata, nil
	case IsMarker(ftype):
		fdata.Kind = KindMarker
	case IsMarkers(ftype):
		fdata.Kind = KindMarkers
	case isMarkerArray(ftype):
		fdata.Kind = KindMarkerArray
	default:
		if s, ok := ftype.Underlying().(*types.Slice); ok {
			rdata, err := c.checkRecord(s.Elem())
			if errors.Is(err, errPending) {
				fdata.Kind = KindRecords
				fdata.Record = rdata
				fdata.Recursive = true
				return fdata, nil
			}
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", field.Name(), err)
			}
			if rdata != nil && rdata.HasMarkers {
				fdata.Kind = KindRecords
				fdata.Record = rdata
			}
			return fdata, nil
		}

		rdata, err := c.checkRecord(ftype)
		if errors.Is(err, errPending) {
			return nil, fmt.Errorf("field %q: struct type (%v) with recursive references is not supported", field.Name(), ftype)
		}
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", field.Name(), err)
		}
		if rdata != nil && rdata.HasMarkers {
			fdata.Kind = KindRecord
			fdata.Record = rdata
		}
	}
	return fdata, nil
}
