package samples

import (
	"strconv"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"gcir/internal/backend/llvm"
)

func entry(b *llvm.Builder, name string, ret types.Type, params ...types.Type) {
	b.CreateFunction(name, llvm.FunctionType(ret, false, params...))
	b.PositionAtEnd(b.AppendBlock("entry"))
}

func buildAdd(b *llvm.Builder) {
	entry(b, "add", types.I32, types.I32, types.I32)
	b.Ret(b.Add(b.Param(0), b.Param(1)))
}

// tracked_load(i8* container) reads the object stored in the container's
// second slot.
func buildTrackedLoad(b *llvm.Builder) {
	entry(b, "tracked_load", llvm.ObjectType(), llvm.RawPointerType())
	slots := b.Bitcast(b.Param(0), llvm.PointerType(llvm.RawPointerType(), llvm.Untracked))
	slot := b.GEP(slots, llvm.ConstLong(1))
	b.Ret(b.Load(slot, llvm.ObjectType()))
}

// pointer_xchg(i8* slot, obj) swaps obj into slot and returns the old reference.
func buildPointerXchg(b *llvm.Builder) {
	entry(b, "pointer_xchg", llvm.ObjectType(), llvm.RawPointerType(), llvm.ObjectType())
	b.Ret(b.AtomicXchg(b.Param(0), b.Param(1)))
}

func buildSafepoint(b *llvm.Builder) {
	entry(b, "safepoint", llvm.ObjectType(), llvm.ObjectType(), llvm.ObjectType())
	poll := b.Function("gc_safepoint_poll", llvm.FunctionType(types.Void, false))
	id := b.NextPatchpointID()
	b.CallWithPatchpoint(poll, id)
	b.Stackmap(id, b.Param(0), b.Param(1))

	null := llvm.ConstNull(llvm.ObjectType())
	isNull := b.Compare(llvm.CondEQ, b.Param(0), null, false)
	b.Ret(b.Select(isNull, b.Param(1), b.Param(0)))
}

// classify(i32 x) maps 0, 1 and 2 to 10, 20 and 30 and anything else to -1.
func buildSwitch(b *llvm.Builder) {
	entry(b, "classify", types.I32, types.I32)
	def := b.AppendBlock("default")
	join := b.AppendBlock("join")

	var values []value.Value
	var blocks []*ir.Block
	var results []value.Value
	for i := 0; i < 3; i++ {
		blk := b.AppendBlock("case" + strconv.Itoa(i))
		values = append(values, llvm.ConstInt(int32(i)))
		blocks = append(blocks, blk)
		results = append(results, llvm.ConstInt(int32(10*(i+1))))
	}
	b.Switch(b.Param(0), def, values, blocks)
	for _, blk := range blocks {
		b.PositionAtEnd(blk)
		b.Br(join)
	}
	b.PositionAtEnd(def)
	b.Br(join)

	b.PositionAtEnd(join)
	phi := b.Phi(types.I32, results, blocks)
	b.AddIncoming(phi, []value.Value{llvm.ConstInt(-1)}, []*ir.Block{def})
	b.Ret(phi)
}

func buildMath(b *llvm.Builder) {
	entry(b, "math", types.Double, types.Double, types.I64)
	x, bits := b.Param(0), b.Param(1)
	root := b.Sqrt(x)
	powered := b.Pow(root, llvm.ConstDouble(3))
	swapped := b.Bswap(bits)
	leading := b.Ctlz(swapped)
	b.Ret(b.Add(powered, b.SIToFP(leading, types.Double)))
}

func buildGlobals(b *llvm.Builder) {
	entry(b, "globals", types.I64)
	root := b.ExternalObject("gc_root")
	b.ExternalSymbol("runtime_table")
	counter := b.UniqueGlobal("call_counter", types.I64, true)

	prev := b.AtomicAdd(counter, llvm.ConstLong(1))
	obj := b.Load(root, llvm.ObjectType())
	printf := b.Function("printf", llvm.FunctionType(types.I32, true, llvm.RawPointerType()))
	b.Call(printf, b.GlobalStringPtr("root=%p calls=%ld\n"), obj, prev)
	b.Ret(prev)
}
