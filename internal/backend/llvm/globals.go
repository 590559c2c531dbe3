package llvm

import (
	"strconv"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"gcir/internal/trace"
)

// Function returns the module-level function name, declaring it with sig on
// first use. Asking again with a different signature is fatal.
func (b *Builder) Function(name string, sig *types.FuncType) *ir.Func {
	if f, ok := b.funcs[name]; ok {
		if !sameType(f.Sig, sig) {
			fatalTypes("function", "conflicting signature for @"+name, f.Sig, sig)
		}
		return f
	}
	if _, ok := b.globals[name]; ok {
		fatalf("function", "@%s is already declared as a global", name)
	}
	params := make([]*ir.Param, len(sig.Params))
	for i, pt := range sig.Params {
		params[i] = ir.NewParam("", pt)
	}
	f := b.mod.NewFunc(name, sig.RetType, params...)
	f.Sig.Variadic = sig.Variadic
	f.Linkage = enum.LinkageExternal
	b.funcs[name] = f
	trace.Point(b.tracer, trace.ScopeInstruction, "declare", name, b.span.ID())
	return f
}

// intrinsic returns the intrinsic name with signature ret(params...).
func (b *Builder) intrinsic(name string, ret types.Type, params ...types.Type) *ir.Func {
	return b.Function(name, FunctionType(ret, false, params...))
}

// ExternalObject returns the managed external global name. Its address is tracked.
func (b *Builder) ExternalObject(name string) *ir.Global {
	return b.global("external object", name, ObjectType(), Tracked, enum.LinkageExternal, nil)
}

// ExternalSymbol returns the raw external global name.
func (b *Builder) ExternalSymbol(name string) *ir.Global {
	return b.global("external symbol", name, RawPointerType(), Untracked, enum.LinkageExternal, nil)
}

// UniqueGlobal returns a linker-coalesced global of type t, placed in the
// tracked address space when t is an object reference.
func (b *Builder) UniqueGlobal(name string, t types.Type, zeroInit bool) *ir.Global {
	requireNonVoid("unique global", t)
	var init constant.Constant
	if zeroInit {
		init = ConstZero(t)
	}
	return b.global("unique global", name, t, spaceFor(IsObject(t)), enum.LinkageLinkOnceODR, init)
}

// global returns the cached global name or declares it in space. A cached
// global must agree in type and linkage; a name held by a function is fatal.
func (b *Builder) global(op, name string, content types.Type, space AddrSpace, linkage enum.Linkage, init constant.Constant) *ir.Global {
	want := PointerType(content, space)
	if g, ok := b.globals[name]; ok {
		if !sameType(g.Typ, want) || g.Linkage != linkage {
			fatalTypes(op, "conflicting declaration of @"+name, g.Typ, want)
		}
		return g
	}
	if _, ok := b.funcs[name]; ok {
		fatalf(op, "@%s is already declared as a function", name)
	}
	var g *ir.Global
	if init != nil {
		g = b.mod.NewGlobalDef(name, init)
	} else {
		g = b.mod.NewGlobal(name, content)
	}
	g.AddrSpace = space.llvmSpace()
	g.Typ = want
	g.Linkage = linkage
	b.globals[name] = g
	trace.Point(b.tracer, trace.ScopeInstruction, "global", name, b.span.ID())
	return g
}

// GlobalStringPtr stores s in a private constant and returns an i8* to its first byte.
func (b *Builder) GlobalStringPtr(s string) value.Value {
	data := ConstString(s)
	g := b.global("string", b.nextStringName(), data.Typ, Untracked, enum.LinkagePrivate, data)
	g.Immutable = true
	zero := constant.NewInt(types.I64, 0)
	return constant.NewGetElementPtr(data.Typ, g, zero, zero)
}

// nextStringName skips .str.N names the caller already took.
func (b *Builder) nextStringName() string {
	for {
		name := ".str." + strconv.Itoa(b.strings)
		b.strings++
		_, isGlobal := b.globals[name]
		_, isFunc := b.funcs[name]
		if !isGlobal && !isFunc {
			return name
		}
	}
}
