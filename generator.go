// Copyright (c) 2025 Visvasity LLC

package main

import (
	"bytes"
	"fmt"
	"go/format"
	"go/types"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"golang.org/x/tools/go/packages"

	"github.com/visvasity/spangen/typecheck"
)

type Generator struct {
	logger log.Logger

	checker *typecheck.Checker

	pkg     *packages.Package
	pkgName string

	// samePkg is true when the generated files belong to the input package.
	samePkg bool

	// typeParam is the name of the buffer type parameter in generated code.
	typeParam string

	bufferMap map[string]*bytes.Buffer

	// importsMap holds a mapping from a package path name to list of typename
	// keys in the bufferMap that needs to import the package name. For example,
	//
	//   importsMap["github.com/visvasity/spangen/spans"]["Line"] = ""
	//
	// entry indicates an import statement like,
	//
	//   import "github.com/visvasity/spangen/spans"
	//
	// in the generated file named "line.spangen.go".
	importsMap map[string]map[string]string
}

func newGenerator(logger log.Logger, pkg *packages.Package, pkgName string, samePkg bool) *Generator {
	g := &Generator{
		logger:     logger,
		checker:    typecheck.New(),
		pkg:        pkg,
		pkgName:    pkgName,
		samePkg:    samePkg,
		bufferMap:  make(map[string]*bytes.Buffer),
		importsMap: make(map[string]map[string]string),
	}
	g.typeParam = "T"
	if samePkg {
		g.typeParam = pickTypeParam(pkg.Types.Scope())
	}
	return g
}

// pickTypeParam returns a type parameter name that doesn't shadow any
// package level name.
func pickTypeParam(scope *types.Scope) string {
	for _, name := range []string{"T", "B", "Buf"} {
		if scope.Lookup(name) == nil {
			return name
		}
	}
	for i := 0; ; i++ {
		name := fmt.Sprintf("T%d", i)
		if scope.Lookup(name) == nil {
			return name
		}
	}
}

func spansTypeName(typeName string) string {
	return typeName + "Spans"
}

func materializeFuncName(typeName string) string {
	return "Materialize" + typeName
}

func shiftFuncName(typeName string) string {
	return "Shift" + typeName
}

func (g *Generator) getBuffer(typeName string) *bytes.Buffer {
	if b, ok := g.bufferMap[typeName]; ok {
		return b
	}
	b := new(bytes.Buffer)
	g.bufferMap[typeName] = b
	return b
}

func (g *Generator) addImport(typeName string, importName, packagePath string) error {
	vmap, ok := g.importsMap[packagePath]
	if !ok {
		vmap = make(map[string]string)
		g.importsMap[packagePath] = vmap
	}

	x, ok := vmap[typeName]
	if !ok {
		vmap[typeName] = importName
		return nil
	}

	if x != importName {
		return fmt.Errorf("multiple different import names for package %q by type %q", packagePath, typeName)
	}
	return nil
}

func (g *Generator) P(typeName string, v ...any) {
	buf := g.getBuffer(typeName)
	for _, x := range v {
		fmt.Fprint(buf, x)
	}
	fmt.Fprintln(buf)
}

func (g *Generator) GetTypes() []string {
	names := slices.Collect(maps.Keys(g.bufferMap))
	slices.Sort(names)
	return names
}

func (g *Generator) GetSource(typeName string) []byte {
	buf := g.getSourceWithImports(typeName)

	src, err := format.Source(buf.Bytes())
	if err != nil {
		// Should never happen, but can arise when developing this code.
		// The user can compile the output to see the error.
		level.Warn(g.logger).Log("msg", "internal error: invalid Go generated", "type", typeName, "err", err)
		level.Warn(g.logger).Log("msg", "compile the package to analyze the error")
		return buf.Bytes()
	}
	return src
}

func (g *Generator) getImports(typeName string) [][2]string {
	var imports [][2]string
	for pkgPath, vmap := range g.importsMap {
		imp, ok := vmap[typeName]
		if !ok {
			continue
		}
		imports = append(imports, [2]string{imp, pkgPath})
	}
	slices.SortFunc(imports, func(a, b [2]string) int {
		return strings.Compare(a[1], b[1])
	})
	return imports
}

func (g *Generator) getSourceWithImports(typeName string) *bytes.Buffer {
	buf := new(bytes.Buffer)

	fmt.Fprintln(buf, "// Code generated by github.com/visvasity/spangen. DO NOT EDIT.")
	fmt.Fprintln(buf)
	fmt.Fprintln(buf, "package", g.pkgName)
	fmt.Fprintln(buf)

	imports := g.getImports(typeName)
	if len(imports) != 0 {
		fmt.Fprintln(buf, "import (")
		for _, imp := range imports {
			if len(imp[0]) == 0 {
				fmt.Fprintf(buf, "%q\n", imp[1])
			} else {
				fmt.Fprintf(buf, "%s %q\n", imp[0], imp[1])
			}
		}
		fmt.Fprintln(buf, ")")
	}

	io.Copy(buf, g.getBuffer(typeName))
	return buf
}

// qualifier returns a types.Qualifier that records the imports needed by the
// file generated for typeName.
func (g *Generator) qualifier(typeName string) types.Qualifier {
	return func(pkg *types.Package) string {
		if g.samePkg && pkg.Path() == g.pkg.PkgPath {
			return ""
		}
		g.addImport(typeName, "", pkg.Path())
		return pkg.Name()
	}
}

// localRecord returns true if the generator emits code for the nested record.
func (g *Generator) localRecord(rdata *typecheck.RecordData) bool {
	return rdata.StructName != "" && !rdata.Instance && rdata.PkgPath == g.pkg.PkgPath
}

func (g *Generator) recordTypeName(typeName string, rdata *typecheck.RecordData) string {
	if g.samePkg {
		return rdata.StructName
	}
	g.addImport(typeName, "", rdata.PkgPath)
	return rdata.PkgName + "." + rdata.StructName
}

func (g *Generator) generate(typeName string) error {
	scope := g.pkg.Types.Scope()
	object := scope.Lookup(typeName)
	if object == nil {
		return fmt.Errorf("typename %q doesn't exist", typeName)
	}
	tn, ok := object.(*types.TypeName)
	if !ok {
		return fmt.Errorf("generator type %q is not a typename", typeName)
	}
	rdata, err := g.checker.Check(tn)
	if err != nil {
		return err
	}
	return g.generateRecord(rdata)
}

func (g *Generator) generateRecord(rdata *typecheck.RecordData) error {
	typeName := rdata.StructName
	if _, ok := g.bufferMap[typeName]; ok {
		return nil
	}
	g.getBuffer(typeName)

	// Generate code for all nested records first.
	for _, fdata := range rdata.Fields {
		if !fdata.Exported || fdata.Record == nil || !g.localRecord(fdata.Record) {
			continue
		}
		if err := g.generateRecord(fdata.Record); err != nil {
			return err
		}
	}

	if !rdata.HasMarkers {
		level.Warn(g.logger).Log("msg", "record has no marker fields", "type", typeName)
	}
	for _, fdata := range rdata.Fields {
		if !fdata.Exported && fdata.Kind != typecheck.KindValue {
			level.Warn(g.logger).Log("msg", "unexported marker field is skipped", "type", typeName, "field", fdata.FieldName)
		}
	}

	if err := g.addImport(typeName, "", typecheck.SpansPkgPath); err != nil {
		return err
	}
	if err := g.generateSpansType(rdata); err != nil {
		return err
	}
	if err := g.generateMaterializeFunc(rdata); err != nil {
		return err
	}
	if err := g.generateShiftFunc(rdata); err != nil {
		return err
	}
	level.Debug(g.logger).Log("msg", "generated record", "type", typeName, "fields", len(rdata.Fields))
	return nil
}

func quoteTag(tag string) string {
	if strconv.CanBackquote(tag) {
		return "`" + tag + "`"
	}
	return strconv.Quote(tag)
}

func (g *Generator) generateSpansType(rdata *typecheck.RecordData) error {
	typeName := rdata.StructName
	tp := g.typeParam
	qf := g.qualifier(typeName)

	g.P(typeName)
	g.P(typeName, "// ", spansTypeName(typeName), " is the materialized form of ", g.recordTypeName(typeName, rdata), ".")
	g.P(typeName, "type ", spansTypeName(typeName), "[", tp, " spans.Text] struct {")
	for _, fdata := range rdata.Fields {
		if !fdata.Exported {
			continue
		}
		var ftype string
		switch fdata.Kind {
		case typecheck.KindMarker:
			ftype = tp
		case typecheck.KindMarkers:
			ftype = "spans.View[" + tp + "]"
		default:
			ftype = types.TypeString(fdata.Type, qf)
		}
		if len(fdata.Tag) == 0 {
			g.P(typeName, "  ", fdata.FieldName, " ", ftype)
		} else {
			g.P(typeName, "  ", fdata.FieldName, " ", ftype, " ", quoteTag(fdata.Tag))
		}
	}
	g.P(typeName, "}")
	return nil
}

func (g *Generator) generateMaterializeFunc(rdata *typecheck.RecordData) error {
	typeName := rdata.StructName
	tp := g.typeParam
	spansType := spansTypeName(typeName) + "[" + tp + "]"

	g.P(typeName)
	g.P(typeName, "// ", materializeFuncName(typeName), " returns v with every marker replaced by the slice of buf")
	g.P(typeName, "// it denotes. It panics if a marker is outside of buf.")
	g.P(typeName, "func ", materializeFuncName(typeName), "[", tp, " spans.Text](v *", g.recordTypeName(typeName, rdata), ", buf ", tp, ") ", spansType, " {")
	g.P(typeName, "  return ", spansType, "{")
	for _, fdata := range rdata.Fields {
		if !fdata.Exported {
			continue
		}
		switch fdata.Kind {
		case typecheck.KindMarker:
			g.P(typeName, "    ", fdata.FieldName, ": spans.Substr(v.", fdata.FieldName, ", buf),")
		case typecheck.KindMarkers:
			g.P(typeName, "    ", fdata.FieldName, ": spans.NewTextView(v.", fdata.FieldName, ", buf),")
		default:
			g.P(typeName, "    ", fdata.FieldName, ": v.", fdata.FieldName, ",")
		}
	}
	g.P(typeName, "  }")
	g.P(typeName, "}")
	return nil
}

func (g *Generator) generateShiftFunc(rdata *typecheck.RecordData) error {
	typeName := rdata.StructName

	g.P(typeName)
	g.P(typeName, "// ", shiftFuncName(typeName), " moves every marker of v by delta.")
	g.P(typeName, "// It panics if a marker would move below position zero.")
	g.P(typeName, "func ", shiftFuncName(typeName), "(v *", g.recordTypeName(typeName, rdata), ", delta int64) {")
	for _, fdata := range rdata.MarkerFields() {
		switch fdata.Kind {
		case typecheck.KindMarker:
			g.P(typeName, "  v.", fdata.FieldName, ".Shift(delta)")
		case typecheck.KindMarkers:
			g.P(typeName, "  spans.ShiftMarkers(v.", fdata.FieldName, ", delta)")
		case typecheck.KindMarkerArray:
			g.P(typeName, "  for i := range v.", fdata.FieldName, " {")
			g.P(typeName, "    v.", fdata.FieldName, "[i].Shift(delta)")
			g.P(typeName, "  }")
		case typecheck.KindRecord:
			g.generateShiftRecord(typeName, fdata.Record, "v."+fdata.FieldName)
		case typecheck.KindRecords:
			g.P(typeName, "  for i := range v.", fdata.FieldName, " {")
			g.generateShiftRecord(typeName, fdata.Record, "v."+fdata.FieldName+"[i]")
			g.P(typeName, "  }")
		}
	}
	g.P(typeName, "}")
	return nil
}

// generateShiftRecord emits the statement shifting the nested record at expr.
// Records without generated code are shifted by reflection.
func (g *Generator) generateShiftRecord(typeName string, rdata *typecheck.RecordData, expr string) {
	if g.localRecord(rdata) {
		g.P(typeName, "  ", shiftFuncName(rdata.StructName), "(&", expr, ", delta)")
		return
	}
	g.P(typeName, "  if err := spans.Shift(&", expr, ", delta); err != nil {")
	g.P(typeName, "    panic(err)")
	g.P(typeName, "  }")
}
