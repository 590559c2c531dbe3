package llvm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
)

func TestNewBuilder_RejectsPointerWidth(t *testing.T) {
	if _, err := NewBuilder(context.Background(), testOptions(Options{PointerBits: 16})); err == nil {
		t.Fatalf("expected error for 16-bit pointers")
	}
}

func TestNewBuilder_RequiresPatchpointCounter(t *testing.T) {
	if _, err := NewBuilder(context.Background(), Options{}); err == nil {
		t.Fatalf("expected error without a patch-point counter")
	}
	if _, err := Build(context.Background(), Options{}, func(*Builder) {}); err == nil {
		t.Fatalf("Build must reject options without a patch-point counter")
	}
}

func TestBuilders_ShareCounterIDs(t *testing.T) {
	opts := testOptions(Options{})
	first := newTestBuilder(t, opts, types.Void)
	second := newTestBuilder(t, opts, types.Void)
	if a, b := first.NextPatchpointID(), second.NextPatchpointID(); a == b {
		t.Fatalf("builders sharing a counter issued the same id %d", a)
	}
	if opts.Patchpoints.Issued() != 2 {
		t.Fatalf("issued = %d, want 2", opts.Patchpoints.Issued())
	}
}

func TestBuild_ReturnsModule(t *testing.T) {
	mod, err := Build(context.Background(), testOptions(Options{}), func(b *Builder) {
		b.CreateFunction("add", FunctionType(types.I32, false, types.I32, types.I32))
		b.PositionAtEnd(b.AppendBlock("entry"))
		b.Ret(b.Add(b.Param(0), b.Param(1)))
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	out := mod.String()
	if !strings.Contains(out, "define external i32 @add(i32 %0, i32 %1)") || !strings.Contains(out, "noinline") {
		t.Fatalf("unexpected module:\n%s", out)
	}
}

func TestBuild_InvariantViolationFails(t *testing.T) {
	mod, err := Build(context.Background(), testOptions(Options{}), func(b *Builder) {
		b.CreateFunction("f", FunctionType(types.Void, false))
		b.Param(0)
	})
	if mod != nil {
		t.Fatalf("failed build must not return a module")
	}
	if !errors.Is(err, ErrBuildFailed) {
		t.Fatalf("err = %v, want ErrBuildFailed", err)
	}
	var ie *InvariantError
	if !errors.As(err, &ie) || ie.Op != "param" {
		t.Fatalf("err = %v, want param invariant", err)
	}
}

func TestBuilder_PoisonedAfterFailure(t *testing.T) {
	b := newTestBuilder(t, Options{}, types.Void)
	if err := b.Run(func(b *Builder) { b.Param(3) }); err == nil {
		t.Fatalf("expected failure")
	}
	if !b.Failed() {
		t.Fatalf("Failed() = false after violation")
	}
	if err := b.Run(func(b *Builder) { b.RetVoid() }); !errors.Is(err, ErrBuildFailed) {
		t.Fatalf("poisoned builder ran again: %v", err)
	}
	if _, err := b.Finish(); !errors.Is(err, ErrBuildFailed) {
		t.Fatalf("Finish on poisoned builder: %v", err)
	}
}

func TestFinish_RequiresTerminatedBlocks(t *testing.T) {
	b := newTestBuilder(t, Options{}, types.Void)
	if _, err := b.Finish(); err == nil || !strings.Contains(err.Error(), "no terminator") {
		t.Fatalf("Finish err = %v", err)
	}
}

func TestFinish_RequiresFunction(t *testing.T) {
	b, err := NewBuilder(context.Background(), testOptions(Options{}))
	if err != nil {
		t.Fatalf("NewBuilder: %v", err)
	}
	if _, err := b.Finish(); !errors.Is(err, ErrBuildFailed) {
		t.Fatalf("Finish err = %v", err)
	}
}

func TestRun_RepanicsForeignPanics(t *testing.T) {
	b := newTestBuilder(t, Options{}, types.Void)
	defer func() {
		if r := recover(); r != "boom" {
			t.Fatalf("recovered %v, want boom", r)
		}
	}()
	_ = b.Run(func(*Builder) { panic("boom") })
}

func TestCreateFunction_Once(t *testing.T) {
	b := newTestBuilder(t, Options{TrackPointers: true}, types.Void)
	f := b.MainFunction()
	if f.GC != DefaultGCStrategy {
		t.Fatalf("GC = %q", f.GC)
	}
	if f.Linkage != enum.LinkageExternal {
		t.Fatalf("Linkage = %v", f.Linkage)
	}
	mustPanicInvariant(t, func() { b.CreateFunction("g", FunctionType(types.Void, false)) })
	if b.FunctionName() != "f" || !b.Tracking() {
		t.Fatalf("accessors: name %q tracking %v", b.FunctionName(), b.Tracking())
	}
}

func TestModuleCarriesTarget(t *testing.T) {
	b, err := NewBuilder(context.Background(), testOptions(Options{TargetTriple: "x86_64-unknown-linux-gnu", DataLayout: "e-m:e"}))
	if err != nil {
		t.Fatalf("NewBuilder: %v", err)
	}
	if b.Module().TargetTriple != "x86_64-unknown-linux-gnu" || b.Module().DataLayout != "e-m:e" {
		t.Fatalf("module target = %q / %q", b.Module().TargetTriple, b.Module().DataLayout)
	}
}
