package llvm

import (
	"testing"

	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
)

func TestConstInteger_WrapsToWidth(t *testing.T) {
	if got := ConstInteger(255, 8).X.Int64(); got != -1 {
		t.Fatalf("ConstInteger(255, 8) = %d, want -1", got)
	}
	if got := ConstInteger(3, 1).X.Int64(); got != 1 {
		t.Fatalf("ConstInteger(3, 1) = %d, want 1", got)
	}
	if got := ConstByte(-5); got.Typ != types.I8 || got.X.Int64() != -5 {
		t.Fatalf("ConstByte(-5) = %v", got)
	}
}

func TestConstNull(t *testing.T) {
	n := ConstNull(ObjectType())
	if !IsObject(n.Type()) {
		t.Fatalf("null of object type must stay tracked")
	}
	mustPanicInvariant(t, func() { ConstNull(types.I32) })
}

func TestConstString_IsNulTerminated(t *testing.T) {
	s := ConstString("hi")
	if s.Typ.Len != 3 || s.X[2] != 0 {
		t.Fatalf("ConstString(hi) = %v", s)
	}
}

func TestConstVector(t *testing.T) {
	v := ConstVector(ConstInt(1), ConstInt(2), ConstInt(3))
	if v.Typ.Len != 3 || v.Typ.ElemType != types.I32 {
		t.Fatalf("vector type = %s", v.Typ)
	}
	mustPanicInvariant(t, func() { ConstVector(ConstInt(1), ConstLong(2)) })
	mustPanicInvariant(t, func() { ConstVector() })
}

func TestConstZero(t *testing.T) {
	if _, ok := ConstZero(ArrayType(types.I8, 4)).(*constant.ZeroInitializer); !ok {
		t.Fatalf("aggregate zero must be zeroinitializer")
	}
	if _, ok := ConstZero(ObjectType()).(*constant.Null); !ok {
		t.Fatalf("pointer zero must be null")
	}
	mustPanicInvariant(t, func() { ConstZero(types.Void) })
}
