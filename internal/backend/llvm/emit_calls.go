package llvm

import (
	"strconv"

	"fortio.org/safecast"
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"gcir/internal/trace"
)

// statepointIDAttr is the call-site attribute read by the safepoint pass.
const statepointIDAttr = "statepoint-id"

// Call calls callee with args. Argument types must match the callee's signature.
func (b *Builder) Call(callee value.Value, args ...value.Value) *ir.InstCall {
	sig := calleeSignature(callee)
	if len(args) < len(sig.Params) || (!sig.Variadic && len(args) != len(sig.Params)) {
		fatalf("call", "%s expects %d arguments, got %d", callee.Ident(), len(sig.Params), len(args))
	}
	for i, p := range sig.Params {
		if !Compatible(p, args[i].Type()) {
			fatalTypes("call", "argument "+strconv.Itoa(i)+" does not match the parameter type", p, args[i].Type())
		}
	}
	call := ir.NewCall(callee, args...)
	if kindOf(sig.RetType) == tkVoid {
		b.emit("call", call)
		return call
	}
	return put(b, "call", call)
}

// CallWithPatchpoint emits a call that may reach a safepoint, tagged with id.
func (b *Builder) CallWithPatchpoint(callee value.Value, id uint64, args ...value.Value) *ir.InstCall {
	call := b.Call(callee, args...)
	call.FuncAttrs = append(call.FuncAttrs, ir.AttrPair{Key: statepointIDAttr, Value: strconv.FormatUint(id, 10)})
	trace.Point(b.tracer, trace.ScopeFunction, "patchpoint", "id="+strconv.FormatUint(id, 10), b.span.ID())
	return call
}

// NextPatchpointID draws a fresh id from the process-wide counter.
func (b *Builder) NextPatchpointID() uint64 {
	return b.opts.Patchpoints.Next()
}

// Stackmap records the values live at patch point id. The record reaches
// the stack-map table when the builder finishes.
func (b *Builder) Stackmap(id uint64, live ...value.Value) {
	n, err := safecast.Conv[int64](id)
	if err != nil {
		fatalf("stackmap", "patch point id %d out of range: %v", id, err)
	}
	f := b.Function("llvm.experimental.stackmap", FunctionType(types.Void, true, types.I64, types.I32))
	args := append([]value.Value{ConstLong(n), ConstInt(0)}, live...)
	b.emit("stackmap", ir.NewCall(f, args...))
	b.pending = append(b.pending, pendingStackmap{id: id, live: live})
}

// Setjmp saves the execution context into buf.
func (b *Builder) Setjmp(buf value.Value) value.Value {
	requireRaw("setjmp", buf)
	f := b.intrinsic("llvm.eh.sjlj.setjmp", types.I32, RawPointerType())
	return put(b, "setjmp", ir.NewCall(f, buf))
}

// Longjmp restores the context saved in buf.
func (b *Builder) Longjmp(buf value.Value) {
	requireRaw("longjmp", buf)
	f := b.intrinsic("llvm.eh.sjlj.longjmp", types.Void, RawPointerType())
	b.emit("longjmp", ir.NewCall(f, buf))
}

// Debugtrap emits a debugger trap.
func (b *Builder) Debugtrap() {
	f := b.intrinsic("llvm.debugtrap", types.Void)
	b.emit("debugtrap", ir.NewCall(f))
}

func calleeSignature(callee value.Value) *types.FuncType {
	if f, ok := callee.(*ir.Func); ok {
		return f.Sig
	}
	if p, ok := callee.Type().(*types.PointerType); ok {
		if sig, ok := p.ElemType.(*types.FuncType); ok {
			return sig
		}
	}
	fatalValues("call", "callee is not a function", callee)
	return nil
}

func requireRaw(op string, v value.Value) {
	if !sameType(v.Type(), RawPointerType()) {
		fatalValues(op, "buffer must be a raw byte pointer", v)
	}
}
