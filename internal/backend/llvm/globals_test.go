package llvm

import (
	"strings"
	"testing"

	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
)

func TestFunction_Idempotent(t *testing.T) {
	b := newTestBuilder(t, Options{}, types.Void)
	sig := FunctionType(types.I32, false, types.I64)
	if b.Function("ext", sig) != b.Function("ext", sig) {
		t.Fatalf("Function must return the cached declaration")
	}
	mustPanicInvariant(t, func() { b.Function("ext", FunctionType(types.I64, false)) })
	mustPanicInvariant(t, func() { b.Function("f", FunctionType(types.I32, false)) })
}

func TestGlobals_AddressSpaces(t *testing.T) {
	b := newTestBuilder(t, Options{}, types.Void)

	obj := b.ExternalObject("managed_root")
	if !IsObject(obj.ContentType) || !IsObject(obj.Type()) {
		t.Fatalf("external object = %s in %s", obj.ContentType, obj.Type())
	}
	sym := b.ExternalSymbol("raw_symbol")
	if !IsRawPointer(sym.Type()) || sym.Linkage != enum.LinkageExternal {
		t.Fatalf("external symbol = %s linkage %v", sym.Type(), sym.Linkage)
	}
	if b.ExternalObject("managed_root") != obj {
		t.Fatalf("globals must be cached by name")
	}

	counter := b.UniqueGlobal("counter", types.I64, true)
	if counter.Linkage != enum.LinkageLinkOnceODR || counter.Init == nil || !IsRawPointer(counter.Type()) {
		t.Fatalf("unique global = %s linkage %v init %v", counter.Type(), counter.Linkage, counter.Init)
	}
	root := b.UniqueGlobal("root", ObjectType(), false)
	if !IsObject(root.Type()) || root.Init != nil {
		t.Fatalf("object global = %s init %v", root.Type(), root.Init)
	}
}

func TestGlobalStringPtr(t *testing.T) {
	b := newTestBuilder(t, Options{}, types.Void)
	p := b.GlobalStringPtr("hi")
	if !IsRawPointer(p.Type()) {
		t.Fatalf("string pointer type = %s", p.Type())
	}
	g := b.Module().Globals[0]
	if g.Name() != ".str.0" || g.Linkage != enum.LinkagePrivate || !g.Immutable {
		t.Fatalf("string global = %s linkage %v const %v", g.Name(), g.Linkage, g.Immutable)
	}
	b.GlobalStringPtr("again")
	if b.Module().Globals[1].Name() != ".str.1" {
		t.Fatalf("second string = %s", b.Module().Globals[1].Name())
	}
}

func TestGlobals_PrintedAddressSpace(t *testing.T) {
	b := newTestBuilder(t, Options{TrackPointers: true}, ObjectType())
	root := b.ExternalObject("root")
	b.UniqueGlobal("slot", ObjectType(), true)
	b.ExternalSymbol("raw")
	b.Ret(b.Load(root, ObjectType()))

	if root.AddrSpace != Tracked.llvmSpace() {
		t.Fatalf("external object addrspace = %v", root.AddrSpace)
	}
	out := b.Module().String()
	for _, want := range []string{
		"@root = external addrspace(1) global",
		"@slot = linkonce_odr addrspace(1) global",
		"@raw = external global",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("module lacks %q:\n%s", want, out)
		}
	}
}

func TestGlobals_NameClashes(t *testing.T) {
	b := newTestBuilder(t, Options{}, types.Void)
	b.ExternalObject("root")

	mustPanicInvariant(t, func() { b.UniqueGlobal("f", types.I64, true) })
	mustPanicInvariant(t, func() { b.UniqueGlobal("root", types.I64, true) })
	mustPanicInvariant(t, func() { b.ExternalSymbol("root") })
	mustPanicInvariant(t, func() { b.Function("root", FunctionType(types.Void, false)) })

	b.UniqueGlobal(".str.0", types.I32, true)
	b.GlobalStringPtr("hi")
	if _, ok := b.globals[".str.1"]; !ok {
		t.Fatalf("string constant must skip the taken name .str.0")
	}
	if len(b.Module().Globals) != 3 {
		t.Fatalf("module globals = %d, want 3", len(b.Module().Globals))
	}
}
