package llvm

import (
	"context"
	"testing"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
)

func TestRegisterThunk_Shape(t *testing.T) {
	b, err := NewBuilder(context.Background(), testOptions(Options{TrackPointers: true}))
	if err != nil {
		t.Fatalf("NewBuilder: %v", err)
	}
	funcs := b.Module().Funcs
	if len(funcs) != 1 || funcs[0].Name() != "__gc_register" {
		t.Fatalf("module functions = %v", funcs)
	}
	thunk := funcs[0]
	if thunk.Linkage != enum.LinkageLinkOnceODR || thunk.GC != DefaultGCStrategy {
		t.Fatalf("thunk linkage %v gc %q", thunk.Linkage, thunk.GC)
	}
	hasInline := false
	for _, a := range thunk.FuncAttrs {
		if a == enum.FuncAttrAlwaysInline {
			hasInline = true
		}
	}
	if !hasInline {
		t.Fatalf("thunk must be alwaysinline")
	}
	if len(thunk.Blocks) != 1 || thunk.Blocks[0].Name() != "main" {
		t.Fatalf("thunk body = %v", thunk.Blocks)
	}
	body := thunk.Blocks[0]
	if _, ok := body.Insts[0].(*ir.InstAddrSpaceCast); !ok || len(body.Insts) != 1 {
		t.Fatalf("thunk instructions = %v", body.Insts)
	}
	if _, ok := body.Term.(*ir.TermRet); !ok {
		t.Fatalf("thunk terminator = %T", body.Term)
	}
}

func TestNoThunkWithoutTracking(t *testing.T) {
	b := newTestBuilder(t, Options{}, types.Void)
	if len(b.Module().Funcs) != 1 || b.MainFunction().GC != "" {
		t.Fatalf("untracked module must hold only the main function without a GC strategy")
	}
}

func TestRegisterObject(t *testing.T) {
	b := newTestBuilder(t, Options{TrackPointers: true}, types.Void, ObjectType(), PointerType(types.I64, Untracked), types.I64)
	if got := b.RegisterObject(b.Param(0)); got != b.Param(0) {
		t.Fatalf("tracked value must pass through")
	}
	got := b.RegisterObject(b.Param(1))
	if !IsObject(got.Type()) {
		t.Fatalf("result type = %s", got.Type())
	}
	if _, ok := insts(b)[0].(*ir.InstBitCast); !ok {
		t.Fatalf("typed raw pointer must be cast to i8* first, got %T", insts(b)[0])
	}
	mustPanicInvariant(t, func() { b.RegisterObject(b.Param(2)) })
}
