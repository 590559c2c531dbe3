package llvm

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"gcir/internal/trace"
)

// registerThunkName is the helper whose return value the safepoint pass
// recognizes as a newly observed object reference.
const registerThunkName = "__gc_register"

// emitRegisterThunk emits, once per module, an always-inlined function that
// casts a raw pointer to a tracked one and returns it. It must exist before
// the main function is declared.
func (b *Builder) emitRegisterThunk() {
	if b.register != nil {
		return
	}
	if b.main != nil {
		fatalf("gc thunk", "registration thunk must precede the main function")
	}
	raw := ir.NewParam("raw", RawPointerType())
	f := b.mod.NewFunc(registerThunkName, ObjectType(), raw)
	f.Linkage = enum.LinkageLinkOnceODR
	f.FuncAttrs = append(f.FuncAttrs, enum.FuncAttrAlwaysInline)
	if b.opts.TrackPointers {
		f.GC = b.opts.GCStrategy
	}
	body := f.NewBlock("main")
	cast := body.NewAddrSpaceCast(raw, ObjectType())
	body.NewRet(cast)

	b.register = f
	b.funcs[registerThunkName] = f
	trace.Point(b.tracer, trace.ScopeFunction, "gc thunk", registerThunkName, b.parent)
}

// RegisterObject returns ptr as a tracked object reference. Already tracked
// values pass through. Untracked values are routed through the registration
// thunk when tracking is enabled, or a bare address-space cast otherwise.
func (b *Builder) RegisterObject(ptr value.Value) value.Value {
	c := Classify(ptr.Type())
	if c.Class != ClassPointer {
		fatalValues("register object", "operand is not a pointer", ptr)
	}
	if c.Space == Tracked {
		return ptr
	}
	raw := ptr
	if !sameType(ptr.Type(), RawPointerType()) {
		raw = put(b, "register object", ir.NewBitCast(ptr, RawPointerType()))
	}
	if !b.opts.TrackPointers {
		return put(b, "register object", ir.NewAddrSpaceCast(raw, ObjectType()))
	}
	return put(b, "register object", ir.NewCall(b.register, raw))
}

// promote retypes a tracked i8 reference to the tracked pointer type want.
func (b *Builder) promote(v value.Value, want types.Type) value.Value {
	obj := b.RegisterObject(v)
	if sameType(obj.Type(), want) {
		return obj
	}
	return put(b, "register object", ir.NewBitCast(obj, want))
}
