package llvm

import (
	"testing"

	"github.com/llir/llvm/ir/types"
)

func TestResolve(t *testing.T) {
	cases := []struct {
		kind Kind
		want types.Type
	}{
		{KindBoolean, types.I1},
		{KindByte, types.I8},
		{KindShort, types.I16},
		{KindChar, types.I16},
		{KindInt, types.I32},
		{KindLong, types.I64},
		{KindFloat, types.Float},
		{KindDouble, types.Double},
		{KindVoid, types.Void},
	}
	for _, tc := range cases {
		if got := Resolve(tc.kind); got != tc.want {
			t.Errorf("Resolve(%s) = %s, want %s", tc.kind, got, tc.want)
		}
	}
	if !IsObject(Resolve(KindObject)) {
		t.Errorf("Resolve(object) must be tracked")
	}
	if !IsRawPointer(Resolve(KindRawPointer)) {
		t.Errorf("Resolve(rawpointer) must be untracked")
	}
	if got := ResolveStack(KindChar); got != types.I32 {
		t.Errorf("ResolveStack(char) = %s, want i32", got)
	}
}

func TestResolve_IllegalIsFatal(t *testing.T) {
	e := mustPanicInvariant(t, func() { Resolve(KindIllegal) })
	if e.Op != "resolve" {
		t.Fatalf("Op = %q, want resolve", e.Op)
	}
}

func TestVoidElementIsFatal(t *testing.T) {
	mustPanicInvariant(t, func() { PointerType(types.Void, Tracked) })
	mustPanicInvariant(t, func() { ArrayType(types.Void, 2) })
	mustPanicInvariant(t, func() { FunctionType(types.I32, false, types.Void) })
}

func TestCompatible(t *testing.T) {
	cases := []struct {
		name string
		a, b types.Type
		want bool
	}{
		{"same int", types.I32, types.I32, true},
		{"int widths", types.I32, types.I64, false},
		{"float double", types.Float, types.Double, false},
		{"double double", types.Double, types.Double, true},
		{"int float", types.I32, types.Float, false},
		{"tracked tracked", PointerType(types.I32, Tracked), PointerType(types.I32, Tracked), true},
		{"tracked untracked", PointerType(types.I32, Tracked), PointerType(types.I32, Untracked), false},
		{"pointee width", PointerType(types.I32, Untracked), PointerType(types.I64, Untracked), false},
		{"nested pointee", PointerType(ObjectType(), Untracked), PointerType(RawPointerType(), Untracked), false},
	}
	for _, tc := range cases {
		if got := Compatible(tc.a, tc.b); got != tc.want {
			t.Errorf("%s: Compatible(%s, %s) = %v, want %v", tc.name, tc.a, tc.b, got, tc.want)
		}
		if got := Compatible(tc.b, tc.a); got != tc.want {
			t.Errorf("%s: Compatible is not symmetric", tc.name)
		}
	}
}

func TestClassify(t *testing.T) {
	c := Classify(types.I16)
	if c.Class != ClassInteger || c.Bits != 16 {
		t.Fatalf("Classify(i16) = %+v", c)
	}
	if !Classify(types.Float).IsFloating() || !Classify(types.Double).IsFloating() {
		t.Fatalf("reals must classify as floating")
	}
	p := Classify(PointerType(types.I64, Tracked))
	if !p.Tracked() || p.Pointee != types.I64 {
		t.Fatalf("Classify(tracked i64*) = %+v", p)
	}
	if Classify(StructType(types.I32)).Class != ClassOther {
		t.Fatalf("structs classify as other")
	}
}

func TestClassify_ForeignAddressSpaceIsFatal(t *testing.T) {
	p := types.NewPointer(types.I8)
	p.AddrSpace = 3
	mustPanicInvariant(t, func() { Classify(p) })
}

func TestIntrinsicSignature(t *testing.T) {
	cases := []struct {
		t    types.Type
		want string
	}{
		{types.I32, "i32"},
		{types.I1, "i1"},
		{types.Float, "f32"},
		{types.Double, "f64"},
		{types.Void, "isVoid"},
		{ObjectType(), "p1i8"},
		{RawPointerType(), "p0i8"},
		{PointerType(PointerType(types.I64, Untracked), Tracked), "p1p0i64"},
		{VectorType(types.Float, 4), "v4f32"},
		{FunctionType(types.I32, false, types.I64, types.Double), "f_i32i64f64f"},
	}
	for _, tc := range cases {
		if got := IntrinsicSignature(tc.t); got != tc.want {
			t.Errorf("IntrinsicSignature(%s) = %q, want %q", tc.t, got, tc.want)
		}
	}
	if IntrinsicSignature(ObjectType()) == IntrinsicSignature(RawPointerType()) {
		t.Errorf("distinct address spaces must yield distinct names")
	}
	mustPanicInvariant(t, func() { IntrinsicSignature(StructType(types.I8)) })
}
