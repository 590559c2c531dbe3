package llvm

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// Cond is an abstract comparison condition. BT/BE/AT/AE are the unsigned
// below/above variants.
type Cond uint8

const (
	CondEQ Cond = iota
	CondNE
	CondLT
	CondLE
	CondGT
	CondGE
	CondBT
	CondBE
	CondAT
	CondAE
)

func (c Cond) String() string {
	switch c {
	case CondEQ:
		return "eq"
	case CondNE:
		return "ne"
	case CondLT:
		return "lt"
	case CondLE:
		return "le"
	case CondGT:
		return "gt"
	case CondGE:
		return "ge"
	case CondBT:
		return "bt"
	case CondBE:
		return "be"
	case CondAT:
		return "at"
	case CondAE:
		return "ae"
	default:
		return "cond"
	}
}

func (c Cond) intPredicate() enum.IPred {
	switch c {
	case CondEQ:
		return enum.IPredEQ
	case CondNE:
		return enum.IPredNE
	case CondLT:
		return enum.IPredSLT
	case CondLE:
		return enum.IPredSLE
	case CondGT:
		return enum.IPredSGT
	case CondGE:
		return enum.IPredSGE
	case CondBT:
		return enum.IPredULT
	case CondBE:
		return enum.IPredULE
	case CondAT:
		return enum.IPredUGT
	case CondAE:
		return enum.IPredUGE
	}
	fatalf("compare", "unknown condition %d", c)
	return 0
}

// realPredicate maps c to an ordered or, when unordered is set, unordered
// floating-point predicate. Unsigned conditions have no float form.
func (c Cond) realPredicate(unordered bool) enum.FPred {
	var ord, unord enum.FPred
	switch c {
	case CondEQ:
		ord, unord = enum.FPredOEQ, enum.FPredUEQ
	case CondNE:
		ord, unord = enum.FPredONE, enum.FPredUNE
	case CondLT:
		ord, unord = enum.FPredOLT, enum.FPredULT
	case CondLE:
		ord, unord = enum.FPredOLE, enum.FPredULE
	case CondGT:
		ord, unord = enum.FPredOGT, enum.FPredUGT
	case CondGE:
		ord, unord = enum.FPredOGE, enum.FPredUGE
	default:
		fatalf("compare", "condition %s is not defined on floating-point operands", c)
	}
	if unordered {
		return unord
	}
	return ord
}

// Compare emits a comparison of two compatible operands. unordered only
// matters for floating-point operands, where it makes NaN compare true.
func (b *Builder) Compare(cond Cond, x, y value.Value, unordered bool) value.Value {
	requireCompatible("compare", x, y)
	c := Classify(x.Type())
	switch c.Class {
	case ClassInteger:
		if folded, ok := foldCompare(cond, x, y); ok {
			return folded
		}
		return put(b, "compare", ir.NewICmp(cond.intPredicate(), x, y))
	case ClassPointer:
		return put(b, "compare", ir.NewICmp(cond.intPredicate(), x, y))
	case ClassFloat, ClassDouble:
		return put(b, "compare", ir.NewFCmp(cond.realPredicate(unordered), x, y))
	default:
		fatalValues("compare", "operands are neither integers, reals nor pointers", x, y)
		return nil
	}
}

// ICmp emits an integer or pointer comparison regardless of classification.
func (b *Builder) ICmp(cond Cond, x, y value.Value) value.Value {
	requireCompatible("icmp", x, y)
	switch Classify(x.Type()).Class {
	case ClassInteger, ClassPointer:
	default:
		fatalValues("icmp", "operands are not integers or pointers", x, y)
	}
	return b.Compare(cond, x, y, false)
}

// IsNull compares a pointer against the null of its own type.
func (b *Builder) IsNull(ptr value.Value) value.Value {
	if Classify(ptr.Type()).Class != ClassPointer {
		fatalValues("is null", "operand is not a pointer", ptr)
	}
	return put(b, "is null", ir.NewICmp(enum.IPredEQ, ptr, ConstNull(ptr.Type())))
}

// Select picks x when cond holds and y otherwise.
func (b *Builder) Select(cond, x, y value.Value) value.Value {
	requireBool("select", cond)
	requireCompatible("select", x, y)
	return put(b, "select", ir.NewSelect(cond, x, y))
}

func requireCompatible(op string, x, y value.Value) {
	if x == nil || y == nil {
		fatalValues(op, "nil operand", x, y)
	}
	if !Compatible(x.Type(), y.Type()) {
		fatalValues(op, "incompatible operand types", x, y)
	}
}

func requireBool(op string, v value.Value) {
	t, ok := v.Type().(*types.IntType)
	if !ok || t.BitSize != 1 {
		fatalValues(op, "condition must be i1", v)
	}
}
