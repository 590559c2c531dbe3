package llvm

import "github.com/llir/llvm/ir/value"

// Not flips every bit of an integer.
func (b *Builder) Not(x value.Value) value.Value {
	bits := requireInteger("not", x)
	return b.bitwise(opXor, x, ConstInteger(-1, bits))
}

func (b *Builder) And(x, y value.Value) value.Value { return b.bitwise(opAnd, x, y) }
func (b *Builder) Or(x, y value.Value) value.Value  { return b.bitwise(opOr, x, y) }
func (b *Builder) Xor(x, y value.Value) value.Value { return b.bitwise(opXor, x, y) }

// Shl shifts left. The amount is converted to x's width first.
func (b *Builder) Shl(x, amount value.Value) value.Value { return b.shift(opShl, x, amount) }

// Shr is the arithmetic right shift.
func (b *Builder) Shr(x, amount value.Value) value.Value { return b.shift(opAShr, x, amount) }

// UShr is the logical right shift.
func (b *Builder) UShr(x, amount value.Value) value.Value { return b.shift(opLShr, x, amount) }

func (b *Builder) bitwise(op binOp, x, y value.Value) value.Value {
	requireInteger(op.String(), x)
	return b.binary(op, x, y)
}

func (b *Builder) shift(op binOp, x, amount value.Value) value.Value {
	bits := requireInteger(op.String(), x)
	requireInteger(op.String(), amount)
	return b.binary(op, x, b.Convert(amount, bits))
}
