// Copyright (c) 2025 Visvasity LLC

package spans

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type sample struct {
	I    int
	B    Marker
	L    int64
	Barr []Marker
}

type sampleText struct {
	I    int
	B    string
	L    int64
	Barr View[string]
}

type sampleEager struct {
	L    int64
	I    int
	Barr []string
	B    string
}

func newSample() sample {
	return sample{
		I:    7,
		B:    Marker{Pos: 0, Len: 10},
		L:    42,
		Barr: []Marker{{Pos: 0, Len: 2}, {Pos: 1, Len: 2}, {Pos: 2, Len: 2}},
	}
}

func TestMaterializeSample(t *testing.T) {
	const doc = "0123456789012345"
	rec := newSample()

	out, err := Materialize[sampleText](rec, doc)
	require.NoError(t, err)
	require.Equal(t, 7, out.I)
	require.Equal(t, int64(42), out.L)
	require.Equal(t, "0123456789", out.B)
	require.Equal(t, []string{"01", "12", "23"}, out.Barr.Collect())

	// Pointer records work too and produce the same result.
	out2, err := Materialize[sampleText](&rec, doc)
	require.NoError(t, err)
	require.Equal(t, out.Barr.Collect(), out2.Barr.Collect())
	require.Equal(t, out.B, out2.B)
}

func TestMaterializeEager(t *testing.T) {
	const doc = "0123456789012345"
	out, err := Materialize[sampleEager](newSample(), doc)
	require.NoError(t, err)
	require.Equal(t, sampleEager{I: 7, L: 42, B: "0123456789", Barr: []string{"01", "12", "23"}}, out)
}

func TestMaterializeSequenceMatchesMarkers(t *testing.T) {
	const doc = "the quick brown fox jumps over the lazy dog"
	rec := newSample()
	rec.B = Marker{Pos: 4, Len: 5}
	rec.Barr = SplitText(doc, " ")

	out := MustMaterialize[sampleText](rec, doc)
	require.Equal(t, len(rec.Barr), out.Barr.Len())
	for i, x := range out.Barr.All() {
		require.Equal(t, Substr(rec.Barr[i], doc), x)
	}
	require.Equal(t, strings.Fields(doc), out.Barr.Collect())
	require.Equal(t, "quick", out.B)
}

type byteRecord struct {
	Key    Marker
	Values []Marker
	Note   string `span:"-"`
}

type label []byte

type byteConcrete struct {
	Key    label
	Values View[[]byte]
	Note   string
}

func TestMaterializeBytesAliasBuffer(t *testing.T) {
	buf := []byte("key=v1,v2")
	rec := byteRecord{
		Key:    Marker{Pos: 0, Len: 3},
		Values: []Marker{{Pos: 4, Len: 2}, {Pos: 7, Len: 2}},
		Note:   "n",
	}
	out, err := Materialize[byteConcrete](rec, buf)
	require.NoError(t, err)
	require.Equal(t, label("key"), out.Key)
	require.Equal(t, "n", out.Note)

	out.Values.At(1)[1] = '3'
	require.Equal(t, "key=v1,v3", string(buf))
}

type byteEager struct {
	Key    []byte
	Values [][]byte
	Note   string
}

func TestMaterializedBytesDoNotGrowIntoBuffer(t *testing.T) {
	buf := []byte("key=v1,v2")
	rec := byteRecord{
		Key:    Marker{Pos: 0, Len: 3},
		Values: []Marker{{Pos: 4, Len: 2}, {Pos: 7, Len: 2}},
	}
	out, err := Materialize[byteConcrete](rec, buf)
	require.NoError(t, err)
	_ = append(out.Key, '!')
	_ = append(out.Values.Front(), '!')
	require.Equal(t, "key=v1,v2", string(buf))

	eager, err := Materialize[byteEager](rec, buf)
	require.NoError(t, err)
	_ = append(eager.Key, '!')
	_ = append(eager.Values[0], '!')
	require.Equal(t, "key=v1,v2", string(buf))
	require.Equal(t, 2, cap(eager.Values[0]))
}

type intConcrete struct {
	Key    []int
	Values View[[]int]
	Note   string
}

func TestMaterializeIntBuffer(t *testing.T) {
	buf := []int{10, 11, 12, 13, 14}
	rec := byteRecord{
		Key:    Marker{Pos: 0, Len: 2},
		Values: []Marker{{Pos: 1, Len: 2}, {Pos: 3, Len: 2}, {Pos: 4, Len: 3}},
	}
	out, err := Materialize[intConcrete](rec, buf)
	require.NoError(t, err)
	require.Equal(t, []int{10, 11}, out.Key)
	require.Equal(t, 3, out.Values.Len())
	require.Equal(t, []int{13, 14}, out.Values.At(1))
	require.Equal(t, [][]int{{11, 12}, {13, 14}}, out.Values.Sub(0, 2).Collect())
	require.ErrorIs(t, panicErr(t, func() { out.Values.At(2) }), ErrOutOfRange)
	require.ErrorIs(t, panicErr(t, func() { out.Values.Collect() }), ErrOutOfRange)

	// Elements alias the buffer but appends never write into it.
	out.Values.At(0)[0] = 21
	_ = append(out.Key, 99)
	_ = append(out.Values.Front(), 99)
	require.Equal(t, []int{10, 21, 12, 13, 14}, buf)
}

type Doc string

type docConcrete struct {
	Key    Doc
	Values View[Doc]
	Note   string
}

func TestMaterializeNamedStringBuffer(t *testing.T) {
	buf := Doc("key=v1,v2")
	rec := byteRecord{
		Key:    Marker{Pos: 0, Len: 3},
		Values: []Marker{{Pos: 4, Len: 2}, {Pos: 7, Len: 2}},
		Note:   "n",
	}
	out, err := Materialize[docConcrete](rec, buf)
	require.NoError(t, err)
	require.Equal(t, docConcrete{Key: "key", Values: out.Values, Note: "n"}, out)
	require.Equal(t, Doc("v2"), out.Values.At(1))
	require.Equal(t, []Doc{"v1", "v2"}, out.Values.Collect())
	require.Equal(t, []Doc{"v2"}, out.Values.Sub(1, 2).Collect())

	rec.Values = append(slices.Clone(rec.Values), Marker{Pos: 8, Len: 5})
	out, err = Materialize[docConcrete](rec, buf)
	require.NoError(t, err)
	require.Equal(t, Doc("v1"), out.Values.Front())
	require.ErrorIs(t, panicErr(t, func() { out.Values.Back() }), ErrOutOfRange)
}

type ignoredMarker struct {
	Raw Marker `span:"-"`
	M   Marker
}

type ignoredConcrete struct {
	Raw Marker
	M   string
}

func TestMaterializeHonorsTag(t *testing.T) {
	rec := ignoredMarker{Raw: Marker{Pos: 1, Len: 1}, M: Marker{Pos: 1, Len: 1}}
	out, err := Materialize[ignoredConcrete](rec, "abc")
	require.NoError(t, err)
	require.Equal(t, ignoredConcrete{Raw: Marker{Pos: 1, Len: 1}, M: "b"}, out)
}

func TestMaterializeShapeErrors(t *testing.T) {
	type missing struct {
		I    int
		B    string
		Barr View[string]
	}
	type extra struct {
		I     int
		B     string
		L     int64
		Barr  View[string]
		Extra bool
	}
	type wrongMarker struct {
		I    int
		B    int
		L    int64
		Barr View[string]
	}
	type wrongView struct {
		I    int
		B    string
		L    int64
		Barr View[[]byte]
	}
	type wrongValue struct {
		I    string
		B    string
		L    int64
		Barr View[string]
	}
	type copyingConversion struct {
		I    int
		B    []byte
		L    int64
		Barr View[string]
	}

	rec := newSample()
	check := func(err error) {
		t.Helper()
		require.ErrorIs(t, err, ErrShape)
	}
	_, err := Materialize[missing](rec, "0123456789abcdef")
	check(err)
	_, err = Materialize[extra](rec, "0123456789abcdef")
	check(err)
	_, err = Materialize[wrongMarker](rec, "0123456789abcdef")
	check(err)
	_, err = Materialize[wrongView](rec, "0123456789abcdef")
	check(err)
	_, err = Materialize[wrongValue](rec, "0123456789abcdef")
	check(err)
	_, err = Materialize[copyingConversion](rec, "0123456789abcdef")
	check(err)

	// Cached plans return the same error.
	_, err = Materialize[missing](rec, "0123456789abcdef")
	check(err)

	require.Panics(t, func() { MustMaterialize[missing](rec, "0123456789abcdef") })
}

func TestMaterializeKindErrors(t *testing.T) {
	_, err := Materialize[sampleText](42, "abc")
	require.ErrorIs(t, err, ErrNotStruct)

	_, err = Materialize[sampleText]((*sample)(nil), "abc")
	require.ErrorIs(t, err, ErrNotStruct)

	_, err = Materialize[int](newSample(), "abc")
	require.ErrorIs(t, err, ErrNotStruct)

	_, err = Materialize[sampleText](newSample(), 42)
	require.ErrorIs(t, err, ErrBufferKind)
}

func TestMaterializeOutOfRangePanics(t *testing.T) {
	rec := newSample()
	err := panicErr(t, func() { Materialize[sampleText](rec, "short") })
	require.ErrorIs(t, err, ErrOutOfRange)

	// Sequence elements are checked lazily.
	rec.B = Marker{}
	rec.Barr = append(rec.Barr, Marker{Pos: 40, Len: 1})
	out, err := Materialize[sampleText](rec, "0123456789")
	require.NoError(t, err)
	require.Equal(t, "01", out.Barr.Front())
	require.ErrorIs(t, panicErr(t, func() { out.Barr.Back() }), ErrOutOfRange)

	err = panicErr(t, func() { Materialize[sampleEager](rec, "0123456789") })
	require.ErrorIs(t, err, ErrOutOfRange)
}

func TestMirror(t *testing.T) {
	const doc = "0123456789012345"
	x, err := Mirror(newSample(), doc)
	require.NoError(t, err)

	v := reflect.ValueOf(x)
	require.Equal(t, 4, v.NumField())
	require.Equal(t, 7, v.FieldByName("I").Interface())
	require.Equal(t, int64(42), v.FieldByName("L").Interface())
	require.Equal(t, "0123456789", v.FieldByName("B").Interface())
	barr, ok := v.FieldByName("Barr").Interface().(View[string])
	require.True(t, ok)
	require.Equal(t, []string{"01", "12", "23"}, barr.Collect())

	require.Equal(t, "{7 0123456789 42 [01 12 23]}", fmt.Sprint(x))

	typ, err := MirrorType[string](reflect.TypeFor[sample]())
	require.NoError(t, err)
	require.Equal(t, reflect.TypeOf(x), typ)
}

type withHidden struct {
	Name   Marker `json:"name"`
	hidden int
	Inner  struct{ X Marker }
}

func TestMirrorDropsUnexportedAndKeepsTags(t *testing.T) {
	rec := withHidden{Name: Marker{Pos: 1, Len: 2}, hidden: 3}
	rec.Inner.X = Marker{Pos: 0, Len: 1}

	typ, err := MirrorType[[]byte](reflect.TypeOf(rec))
	require.NoError(t, err)
	require.Equal(t, 2, typ.NumField())
	f, ok := typ.FieldByName("Name")
	require.True(t, ok)
	require.Equal(t, reflect.TypeFor[[]byte](), f.Type)
	require.Equal(t, `json:"name"`, string(f.Tag))

	// Nested records are copied verbatim.
	f, ok = typ.FieldByName("Inner")
	require.True(t, ok)
	require.Equal(t, reflect.TypeOf(rec.Inner), f.Type)

	x, err := Mirror(&rec, []byte("abc"))
	require.NoError(t, err)
	require.Equal(t, []byte("bc"), reflect.ValueOf(x).Field(0).Bytes())

	_, err = Mirror("not a record", "abc")
	require.ErrorIs(t, err, ErrNotStruct)
	_, err = MirrorType[string](reflect.TypeFor[int]())
	require.ErrorIs(t, err, ErrNotStruct)
	_, err = Mirror(rec, 3.5)
	require.ErrorIs(t, err, ErrBufferKind)
}
