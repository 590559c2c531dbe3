package llvm

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// Bitcast reinterprets v as t. Compatible types return v unchanged. A
// pointer bitcast never changes the address space.
func (b *Builder) Bitcast(v value.Value, t types.Type) value.Value {
	if Compatible(v.Type(), t) {
		return v
	}
	from, to := Classify(v.Type()), Classify(t)
	if from.Class == ClassPointer && to.Class == ClassPointer && from.Space != to.Space {
		fatalTypes("bitcast", "bitcast cannot change the address space", v.Type(), t)
	}
	return put(b, "bitcast", ir.NewBitCast(v, t))
}

// AddrSpaceCast moves a pointer between the tracked and untracked spaces.
func (b *Builder) AddrSpaceCast(v value.Value, t types.Type) value.Value {
	if Classify(v.Type()).Class != ClassPointer || Classify(t).Class != ClassPointer {
		fatalTypes("addrspacecast", "operands must be pointers", v.Type(), t)
	}
	return put(b, "addrspacecast", ir.NewAddrSpaceCast(v, t))
}

func (b *Builder) IntToPtr(v value.Value, t types.Type) value.Value {
	requireInteger("inttoptr", v)
	if Classify(t).Class != ClassPointer {
		fatalTypes("inttoptr", "target is not a pointer", t)
	}
	return put(b, "inttoptr", ir.NewIntToPtr(v, t))
}

func (b *Builder) PtrToInt(v value.Value, t types.Type) value.Value {
	if Classify(v.Type()).Class != ClassPointer {
		fatalValues("ptrtoint", "operand is not a pointer", v)
	}
	if Classify(t).Class != ClassInteger {
		fatalTypes("ptrtoint", "target is not an integer", t)
	}
	return put(b, "ptrtoint", ir.NewPtrToInt(v, t))
}

func (b *Builder) FPToSI(v value.Value, t types.Type) value.Value {
	if !Classify(v.Type()).IsFloating() || Classify(t).Class != ClassInteger {
		fatalTypes("fptosi", "expected real to integer", v.Type(), t)
	}
	return put(b, "fptosi", ir.NewFPToSI(v, t))
}

func (b *Builder) SIToFP(v value.Value, t types.Type) value.Value {
	if Classify(v.Type()).Class != ClassInteger || !Classify(t).IsFloating() {
		fatalTypes("sitofp", "expected integer to real", v.Type(), t)
	}
	return put(b, "sitofp", ir.NewSIToFP(v, t))
}

// FPCast converts between float and double; equal types pass through.
func (b *Builder) FPCast(v value.Value, t types.Type) value.Value {
	from, to := Classify(v.Type()), Classify(t)
	if !from.IsFloating() || !to.IsFloating() {
		fatalTypes("fpcast", "expected real to real", v.Type(), t)
	}
	switch {
	case from.Class == to.Class:
		return v
	case from.Class == ClassFloat:
		return put(b, "fpcast", ir.NewFPExt(v, t))
	default:
		return put(b, "fpcast", ir.NewFPTrunc(v, t))
	}
}

// Convert changes the width of an integer: identity at equal width,
// zero-extension of booleans, sign-extension otherwise, truncation when narrowing.
func (b *Builder) Convert(v value.Value, bits int) value.Value {
	from := requireInteger("convert", v)
	switch {
	case from < bits && from == 1:
		return b.ZExt(v, bits)
	case from < bits:
		return b.SExt(v, bits)
	case from > bits:
		return b.Trunc(v, bits)
	default:
		return v
	}
}

func (b *Builder) Trunc(v value.Value, bits int) value.Value {
	if from := requireInteger("trunc", v); from <= bits {
		fatalValues("trunc", "target width is not narrower", v)
	}
	if folded, ok := foldConvert(v, bits, false); ok {
		return folded
	}
	return put(b, "trunc", ir.NewTrunc(v, IntegerType(bits)))
}

func (b *Builder) SExt(v value.Value, bits int) value.Value {
	if from := requireInteger("sext", v); from >= bits {
		fatalValues("sext", "target width is not wider", v)
	}
	if folded, ok := foldConvert(v, bits, true); ok {
		return folded
	}
	return put(b, "sext", ir.NewSExt(v, IntegerType(bits)))
}

func (b *Builder) ZExt(v value.Value, bits int) value.Value {
	if from := requireInteger("zext", v); from >= bits {
		fatalValues("zext", "target width is not wider", v)
	}
	if folded, ok := foldConvert(v, bits, false); ok {
		return folded
	}
	return put(b, "zext", ir.NewZExt(v, IntegerType(bits)))
}
