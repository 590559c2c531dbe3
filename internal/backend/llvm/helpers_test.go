package llvm

import (
	"context"
	"testing"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"

	"gcir/internal/patchpoint"
)

// testOptions gives opts a fresh patch-point counter when it has none.
func testOptions(opts Options) Options {
	if opts.Patchpoints == nil {
		opts.Patchpoints = patchpoint.NewCounter()
	}
	return opts
}

// newTestBuilder creates f(params...) ret with an entry block under the cursor.
func newTestBuilder(t *testing.T, opts Options, ret types.Type, params ...types.Type) *Builder {
	t.Helper()
	b, err := NewBuilder(context.Background(), testOptions(opts))
	if err != nil {
		t.Fatalf("NewBuilder: %v", err)
	}
	b.CreateFunction("f", FunctionType(ret, false, params...))
	b.PositionAtEnd(b.AppendBlock("entry"))
	return b
}

func mustPanicInvariant(t *testing.T, fn func()) *InvariantError {
	t.Helper()
	var got *InvariantError
	func() {
		defer func() {
			r := recover()
			e, ok := r.(*InvariantError)
			if !ok {
				t.Fatalf("expected *InvariantError panic, got %#v", r)
			}
			got = e
		}()
		fn()
	}()
	return got
}

func insts(b *Builder) []ir.Instruction {
	return b.CurrentBlock().Insts
}

func lastInst(t *testing.T, b *Builder) ir.Instruction {
	t.Helper()
	is := insts(b)
	if len(is) == 0 {
		t.Fatalf("no instructions emitted")
	}
	return is[len(is)-1]
}
