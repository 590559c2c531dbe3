package llvm

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// Neg negates an integer (0 - x) or a real (fneg).
func (b *Builder) Neg(x value.Value) value.Value {
	c := Classify(x.Type())
	switch {
	case c.Class == ClassInteger:
		return b.binary(opSub, ConstZero(x.Type()), x)
	case c.IsFloating():
		return put(b, "neg", ir.NewFNeg(x))
	default:
		fatalTypes("neg", "invalid negation type", x.Type())
		return nil
	}
}

func (b *Builder) Add(x, y value.Value) value.Value { return b.binary(opAdd, x, y) }
func (b *Builder) Sub(x, y value.Value) value.Value { return b.binary(opSub, x, y) }
func (b *Builder) Mul(x, y value.Value) value.Value { return b.binary(opMul, x, y) }

// Div is signed integer or real division.
func (b *Builder) Div(x, y value.Value) value.Value { return b.binary(opDiv, x, y) }

// Rem is signed integer or real remainder.
func (b *Builder) Rem(x, y value.Value) value.Value { return b.binary(opRem, x, y) }

// UDiv is unsigned division; integers only.
func (b *Builder) UDiv(x, y value.Value) value.Value { return b.binary(opUDiv, x, y) }

// URem is unsigned remainder; integers only.
func (b *Builder) URem(x, y value.Value) value.Value { return b.binary(opURem, x, y) }

// binary checks compatibility, folds constant integers and otherwise picks
// the integer or floating-point opcode from the operand classification.
func (b *Builder) binary(op binOp, x, y value.Value) value.Value {
	name := op.String()
	requireCompatible(name, x, y)
	c := Classify(x.Type())
	switch {
	case c.Class == ClassInteger:
		if folded, ok := foldInt(op, x, y); ok {
			return folded
		}
		return put(b, name, intInst(op, x, y))
	case c.IsFloating():
		return put(b, name, realInst(op, x, y))
	default:
		fatalValues(name, "invalid binary operation arguments", x, y)
		return nil
	}
}

func intInst(op binOp, x, y value.Value) valueInst {
	switch op {
	case opAdd:
		return ir.NewAdd(x, y)
	case opSub:
		return ir.NewSub(x, y)
	case opMul:
		return ir.NewMul(x, y)
	case opDiv:
		return ir.NewSDiv(x, y)
	case opRem:
		return ir.NewSRem(x, y)
	case opUDiv:
		return ir.NewUDiv(x, y)
	case opURem:
		return ir.NewURem(x, y)
	case opAnd:
		return ir.NewAnd(x, y)
	case opOr:
		return ir.NewOr(x, y)
	case opXor:
		return ir.NewXor(x, y)
	case opShl:
		return ir.NewShl(x, y)
	case opAShr:
		return ir.NewAShr(x, y)
	case opLShr:
		return ir.NewLShr(x, y)
	}
	fatalf(op.String(), "no integer opcode")
	return nil
}

func realInst(op binOp, x, y value.Value) valueInst {
	switch op {
	case opAdd:
		return ir.NewFAdd(x, y)
	case opSub:
		return ir.NewFSub(x, y)
	case opMul:
		return ir.NewFMul(x, y)
	case opDiv:
		return ir.NewFDiv(x, y)
	case opRem:
		return ir.NewFRem(x, y)
	}
	fatalValues(op.String(), "operation is not defined on floating-point operands", x, y)
	return nil
}

func (b *Builder) Abs(x value.Value) value.Value   { return b.realIntrinsic("fabs", x) }
func (b *Builder) Log(x value.Value) value.Value   { return b.realIntrinsic("log", x) }
func (b *Builder) Log10(x value.Value) value.Value { return b.realIntrinsic("log10", x) }
func (b *Builder) Sqrt(x value.Value) value.Value  { return b.realIntrinsic("sqrt", x) }
func (b *Builder) Cos(x value.Value) value.Value   { return b.realIntrinsic("cos", x) }
func (b *Builder) Sin(x value.Value) value.Value   { return b.realIntrinsic("sin", x) }
func (b *Builder) Exp(x value.Value) value.Value   { return b.realIntrinsic("exp", x) }

// Pow raises x to y; both must be the same real type.
func (b *Builder) Pow(x, y value.Value) value.Value {
	requireCompatible("pow", x, y)
	return b.realIntrinsic("pow", x, y)
}

// Bswap reverses the bytes of an integer.
func (b *Builder) Bswap(x value.Value) value.Value {
	requireInteger("bswap", x)
	return b.intrinsicOp("bswap", x.Type(), x)
}

// Ctlz counts leading zeros; a zero input is undefined.
func (b *Builder) Ctlz(x value.Value) value.Value {
	requireInteger("ctlz", x)
	return b.intrinsicOp("ctlz", x.Type(), x, ConstBool(true))
}

// Cttz counts trailing zeros; a zero input is undefined.
func (b *Builder) Cttz(x value.Value) value.Value {
	requireInteger("cttz", x)
	return b.intrinsicOp("cttz", x.Type(), x, ConstBool(true))
}

func (b *Builder) realIntrinsic(name string, args ...value.Value) value.Value {
	if !Classify(args[0].Type()).IsFloating() {
		fatalValues(name, "operand is not a real", args...)
	}
	return b.intrinsicOp(name, args[0].Type(), args...)
}

// intrinsicOp calls llvm.<name>.<sig of ret>, declaring it on first use.
func (b *Builder) intrinsicOp(name string, ret types.Type, args ...value.Value) value.Value {
	params := make([]types.Type, len(args))
	for i, a := range args {
		params[i] = a.Type()
	}
	f := b.intrinsic("llvm."+name+"."+IntrinsicSignature(ret), ret, params...)
	return put(b, name, ir.NewCall(f, args...))
}

func requireInteger(op string, v value.Value) int {
	c := Classify(v.Type())
	if c.Class != ClassInteger {
		fatalValues(op, "operand is not an integer", v)
	}
	return c.Bits
}
