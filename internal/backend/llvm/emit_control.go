package llvm

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// Br terminates the current block with a jump to target.
func (b *Builder) Br(target *ir.Block) {
	b.requireOwnBlock("br", target)
	b.terminate("br", ir.NewBr(target))
}

// CondBr jumps to then when cond holds and to els otherwise.
func (b *Builder) CondBr(cond value.Value, then, els *ir.Block) {
	requireBool("condbr", cond)
	b.requireOwnBlock("condbr", then)
	b.requireOwnBlock("condbr", els)
	b.terminate("condbr", ir.NewCondBr(cond, then, els))
}

// Switch dispatches on v. Case values are integer constants of v's type and
// must be distinct.
func (b *Builder) Switch(v value.Value, def *ir.Block, values []value.Value, blocks []*ir.Block) {
	requireInteger("switch", v)
	b.requireOwnBlock("switch", def)
	if len(values) != len(blocks) {
		fatalf("switch", "%d case values for %d case blocks", len(values), len(blocks))
	}
	seen := make(map[string]struct{}, len(values))
	cases := make([]*ir.Case, len(values))
	for i, cv := range values {
		c, ok := cv.(*constant.Int)
		if !ok {
			fatalValues("switch", "case value is not an integer constant", cv)
		}
		if !Compatible(c.Type(), v.Type()) {
			fatalValues("switch", "case value type differs from the condition", v, cv)
		}
		key := c.X.String()
		if _, dup := seen[key]; dup {
			fatalValues("switch", "duplicate case value", cv)
		}
		seen[key] = struct{}{}
		b.requireOwnBlock("switch", blocks[i])
		cases[i] = ir.NewCase(c, blocks[i])
	}
	b.terminate("switch", ir.NewSwitch(v, def, cases...))
}

// Ret returns v from the main function.
func (b *Builder) Ret(v value.Value) {
	ret := b.requireFunction("ret").Sig.RetType
	if !Compatible(ret, v.Type()) {
		fatalTypes("ret", "return value does not match the signature", ret, v.Type())
	}
	b.terminate("ret", ir.NewRet(v))
}

// RetVoid returns from a void main function.
func (b *Builder) RetVoid() {
	ret := b.requireFunction("ret").Sig.RetType
	if kindOf(ret) != tkVoid {
		fatalTypes("ret", "function does not return void", ret)
	}
	b.terminate("ret", ir.NewRet(nil))
}

// Unreachable marks the current block as impossible to reach.
func (b *Builder) Unreachable() {
	b.terminate("unreachable", ir.NewUnreachable())
}

// Phi merges values arriving from blocks; both slices must be the same length.
func (b *Builder) Phi(t types.Type, values []value.Value, blocks []*ir.Block) *ir.InstPhi {
	requireNonVoid("phi", t)
	phi := &ir.InstPhi{Typ: t}
	b.addIncoming(phi, values, blocks)
	return put(b, "phi", phi)
}

// AddIncoming appends further incoming pairs to phi.
func (b *Builder) AddIncoming(phi *ir.InstPhi, values []value.Value, blocks []*ir.Block) {
	b.addIncoming(phi, values, blocks)
}

func (b *Builder) addIncoming(phi *ir.InstPhi, values []value.Value, blocks []*ir.Block) {
	if len(values) != len(blocks) {
		fatalf("phi", "%d incoming values for %d incoming blocks", len(values), len(blocks))
	}
	for i, v := range values {
		if !Compatible(phi.Typ, v.Type()) {
			fatalTypes("phi", "incoming value does not match the phi type", phi.Typ, v.Type())
		}
		b.requireOwnBlock("phi", blocks[i])
		phi.Incs = append(phi.Incs, ir.NewIncoming(v, blocks[i]))
	}
}

func (b *Builder) requireOwnBlock(op string, blk *ir.Block) {
	if blk == nil || blk.Parent != b.requireFunction(op) {
		fatalf(op, "target block does not belong to the main function")
	}
}
