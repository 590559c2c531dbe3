package llvm

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/value"
)

// Every atomic operation is sequentially consistent.
const seqCst = enum.AtomicOrderingSeqCst

// Fence emits a full memory fence.
func (b *Builder) Fence() {
	b.emit("fence", ir.NewFence(seqCst))
}

// Cmpxchg compares the value at address with expected and, if equal, stores
// replacement. The result is the {old value, success} pair.
func (b *Builder) Cmpxchg(address, expected, replacement value.Value) value.Value {
	ac := requirePointer("cmpxchg", address)
	requireCompatible("cmpxchg", expected, replacement)
	addr := b.Bitcast(address, PointerType(expected.Type(), ac.Space))
	return put(b, "cmpxchg", ir.NewCmpXchg(addr, expected, replacement, seqCst, seqCst))
}

// AtomicXchg stores v at address and returns the previous value.
func (b *Builder) AtomicXchg(address, v value.Value) value.Value {
	return b.atomicRMW("atomic xchg", enum.AtomicOpXChg, address, v)
}

// AtomicAdd adds v to the value at address and returns the previous value.
func (b *Builder) AtomicAdd(address, v value.Value) value.Value {
	return b.atomicRMW("atomic add", enum.AtomicOpAdd, address, v)
}

// atomicRMW lowers pointer operands through an integer of the target pointer
// width; the previous value comes back as a raw pointer and is registered
// again when the operand was tracked.
func (b *Builder) atomicRMW(name string, op enum.AtomicOp, address, v value.Value) value.Value {
	ac := requirePointer(name, address)
	vc := Classify(v.Type())
	switch {
	case vc.Class == ClassInteger:
	case vc.Class == ClassPointer:
	case vc.IsFloating() && op == enum.AtomicOpXChg:
	default:
		fatalValues(name, "unsupported operand type", v)
	}
	opType := v.Type()
	operand := v
	if vc.Class == ClassPointer {
		opType = IntegerType(b.opts.PointerBits)
		operand = b.PtrToInt(v, opType)
	}
	addr := b.Bitcast(address, PointerType(opType, ac.Space))
	old := value.Value(put(b, name, ir.NewAtomicRMW(op, addr, operand, seqCst)))
	if vc.Class != ClassPointer {
		return old
	}
	raw := b.IntToPtr(old, RawPointerType())
	if vc.Space == Tracked {
		return b.promote(raw, v.Type())
	}
	return b.Bitcast(raw, v.Type())
}
