package llvm

import (
	"math/big"

	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// Constant construction never touches the cursor or any block.

func ConstBool(x bool) *constant.Int {
	return constant.NewBool(x)
}

func ConstByte(x int8) *constant.Int {
	return constant.NewInt(types.I8, int64(x))
}

func ConstShort(x int16) *constant.Int {
	return constant.NewInt(types.I16, int64(x))
}

// ConstChar builds an unsigned 16-bit constant.
func ConstChar(x uint16) *constant.Int {
	return constant.NewInt(types.I16, int64(x))
}

func ConstInt(x int32) *constant.Int {
	return constant.NewInt(types.I32, int64(x))
}

func ConstLong(x int64) *constant.Int {
	return constant.NewInt(types.I64, x)
}

// ConstInteger builds an integer constant of the given width, wrapping x to it.
func ConstInteger(x int64, bits int) *constant.Int {
	t := IntegerType(bits)
	return &constant.Int{Typ: t, X: wrapInt(big.NewInt(x), t.BitSize)}
}

func ConstFloat(x float32) *constant.Float {
	return constant.NewFloat(types.Float, float64(x))
}

func ConstDouble(x float64) *constant.Float {
	return constant.NewFloat(types.Double, x)
}

// ConstNull is the null value of a pointer type in either address space.
func ConstNull(t types.Type) *constant.Null {
	p, ok := t.(*types.PointerType)
	if !ok {
		fatalTypes("const null", "null requires a pointer type", t)
	}
	return constant.NewNull(p)
}

// ConstZero is the all-zero value of t.
func ConstZero(t types.Type) constant.Constant {
	switch kindOf(t) {
	case tkInteger:
		return constant.NewInt(t.(*types.IntType), 0)
	case tkFloat, tkDouble:
		return constant.NewFloat(t.(*types.FloatType), 0)
	case tkPointer:
		return constant.NewNull(t.(*types.PointerType))
	case tkArray, tkStruct, tkVector:
		return constant.NewZeroInitializer(t)
	default:
		fatalTypes("const zero", "type has no zero value", t)
		return nil
	}
}

// ConstString is the NUL-terminated byte array holding s.
func ConstString(s string) *constant.CharArray {
	return constant.NewCharArrayFromString(s + "\x00")
}

// ConstVector packs constants of one element type into a vector constant.
func ConstVector(elems ...value.Value) *constant.Vector {
	if len(elems) == 0 {
		fatalf("const vector", "empty vector")
	}
	cs := make([]constant.Constant, len(elems))
	for i, e := range elems {
		c, ok := e.(constant.Constant)
		if !ok {
			fatalValues("const vector", "element is not a constant", e)
		}
		if !Compatible(elems[0].Type(), e.Type()) {
			fatalValues("const vector", "mixed element types", elems[0], e)
		}
		cs[i] = c
	}
	return &constant.Vector{Typ: VectorType(elems[0].Type(), len(cs)), Elems: cs}
}
