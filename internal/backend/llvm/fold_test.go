package llvm

import (
	"testing"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
)

func TestAdd_ConstantOperandsFold(t *testing.T) {
	b := newTestBuilder(t, Options{}, types.I32, types.I32, types.I32)

	sum := b.Add(ConstInt(2), ConstInt(3))
	c, ok := sum.(*constant.Int)
	if !ok || c.X.Int64() != 5 {
		t.Fatalf("Add(2, 3) = %v, want constant 5", sum)
	}
	if n := len(insts(b)); n != 0 {
		t.Fatalf("folding emitted %d instructions", n)
	}

	if _, ok := b.Add(b.Param(0), b.Param(1)).(*ir.InstAdd); !ok {
		t.Fatalf("Add of parameters must emit an add")
	}
}

func TestFoldInt(t *testing.T) {
	cases := []struct {
		name string
		op   binOp
		x, y *constant.Int
		want int64
	}{
		{"wrap", opAdd, ConstByte(127), ConstByte(1), -128},
		{"sub", opSub, ConstInt(2), ConstInt(5), -3},
		{"mul", opMul, ConstShort(300), ConstShort(300), 24464},
		{"sdiv", opDiv, ConstInt(-7), ConstInt(2), -3},
		{"srem", opRem, ConstInt(-7), ConstInt(2), -1},
		{"udiv", opUDiv, ConstByte(-2), ConstByte(2), 127},
		{"shl", opShl, ConstInt(1), ConstInt(4), 16},
		{"ashr", opAShr, ConstByte(-8), ConstByte(1), -4},
		{"lshr", opLShr, ConstByte(-8), ConstByte(1), 124},
		{"xor", opXor, ConstInt(6), ConstInt(3), 5},
	}
	for _, tc := range cases {
		got, ok := foldInt(tc.op, tc.x, tc.y)
		if !ok {
			t.Errorf("%s: not folded", tc.name)
			continue
		}
		if got.X.Int64() != tc.want {
			t.Errorf("%s: got %d, want %d", tc.name, got.X.Int64(), tc.want)
		}
	}
}

func TestFoldInt_DeclinesUndefined(t *testing.T) {
	cases := []struct {
		name string
		op   binOp
		x, y *constant.Int
	}{
		{"div by zero", opDiv, ConstInt(1), ConstInt(0)},
		{"urem by zero", opURem, ConstInt(1), ConstInt(0)},
		{"min / -1", opDiv, ConstInt(-1 << 31), ConstInt(-1)},
		{"oversized shift", opShl, ConstInt(1), ConstInt(32)},
	}
	for _, tc := range cases {
		if _, ok := foldInt(tc.op, tc.x, tc.y); ok {
			t.Errorf("%s: folded", tc.name)
		}
	}
}

func TestDiv_ByZeroConstantEmits(t *testing.T) {
	b := newTestBuilder(t, Options{}, types.Void)
	if _, ok := b.Div(ConstInt(1), ConstInt(0)).(*ir.InstSDiv); !ok {
		t.Fatalf("division by constant zero must be emitted, not folded")
	}
}

func TestCompare_ConstantOperandsFold(t *testing.T) {
	b := newTestBuilder(t, Options{}, types.Void)
	lt := b.Compare(CondLT, ConstInt(-1), ConstInt(1), false).(*constant.Int)
	bt := b.Compare(CondBT, ConstInt(-1), ConstInt(1), false).(*constant.Int)
	if lt.X.Int64() != 1 {
		t.Errorf("-1 <s 1 folded to %v", lt.X)
	}
	if bt.X.Int64() != 0 {
		t.Errorf("-1 <u 1 folded to %v", bt.X)
	}
	if len(insts(b)) != 0 {
		t.Fatalf("constant compares emitted instructions")
	}
}

func TestConvert_ConstantFolds(t *testing.T) {
	b := newTestBuilder(t, Options{}, types.Void)
	if got := b.Convert(ConstBool(true), 32).(*constant.Int); got.X.Int64() != 1 {
		t.Errorf("zext true = %v, want 1", got.X)
	}
	if got := b.Convert(ConstByte(-1), 32).(*constant.Int); got.X.Int64() != -1 {
		t.Errorf("sext -1 = %v, want -1", got.X)
	}
	if got := b.Convert(ConstInt(0x1ff), 8).(*constant.Int); got.X.Int64() != -1 {
		t.Errorf("trunc 0x1ff = %v, want -1", got.X)
	}
}
