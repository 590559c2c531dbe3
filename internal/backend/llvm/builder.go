package llvm

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"gcir/internal/patchpoint"
	"gcir/internal/stackmap"
	"gcir/internal/trace"
)

// DefaultGCStrategy is the collector strategy attached to the main function when tracking.
const DefaultGCStrategy = "statepoint-example"

// Options configures one Builder. A Builder compiles exactly one function.
type Options struct {
	// TrackPointers enables the GC tracking protocol for the whole unit.
	TrackPointers bool
	// GCStrategy names the collector; defaults to DefaultGCStrategy.
	GCStrategy string
	// PointerBits is the target pointer width used for pointer atomics (32 or 64, default 64).
	PointerBits int
	TargetTriple string
	DataLayout   string
	// Patchpoints is the process-wide id source. Required: every builder of
	// a process must draw from the same counter.
	Patchpoints *patchpoint.Counter
	// Stackmaps receives the live-value records at Finish. Optional.
	Stackmaps *stackmap.Table
}

func (o Options) withDefaults() (Options, error) {
	if o.GCStrategy == "" {
		o.GCStrategy = DefaultGCStrategy
	}
	switch o.PointerBits {
	case 0:
		o.PointerBits = 64
	case 32, 64:
	default:
		return o, fmt.Errorf("llvm: unsupported pointer width %d (expected 32 or 64)", o.PointerBits)
	}
	if o.Patchpoints == nil {
		return o, errors.New("llvm: no patch-point counter")
	}
	return o, nil
}

// cursor is the insertion point. index < 0 appends to block; otherwise the
// next instruction is inserted before block.Insts[index].
type cursor struct {
	block *ir.Block
	index int
}

type pendingStackmap struct {
	id   uint64
	live []value.Value
}

// valueInst is an instruction that also produces a value.
type valueInst interface {
	ir.Instruction
	value.Value
}

// Builder constructs one module around a single main function. It is not
// safe for concurrent use; run one Builder per goroutine.
type Builder struct {
	opts   Options
	tracer trace.Tracer
	parent uint64
	span   *trace.Span

	mod      *ir.Module
	main     *ir.Func
	register *ir.Func
	cur      cursor

	funcs   map[string]*ir.Func
	globals map[string]*ir.Global
	strings int

	pending []pendingStackmap
	emitted int

	failed   *InvariantError
	finished bool
}

// NewBuilder returns a builder with an empty module. With tracking enabled
// the registration thunk is emitted before anything else.
func NewBuilder(ctx context.Context, opts Options) (*Builder, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}
	mod := ir.NewModule()
	mod.TargetTriple = opts.TargetTriple
	mod.DataLayout = opts.DataLayout

	b := &Builder{
		opts:    opts,
		tracer:  trace.FromContext(ctx),
		parent:  trace.CurrentSpan(ctx),
		mod:     mod,
		cur:     cursor{index: -1},
		funcs:   make(map[string]*ir.Func),
		globals: make(map[string]*ir.Global),
	}
	if opts.TrackPointers {
		b.emitRegisterThunk()
	}
	return b, nil
}

// Build creates a builder, runs fn against it and finishes the module. Any
// invariant violation raised inside fn is returned as an error wrapping
// ErrBuildFailed and no module is produced.
func Build(ctx context.Context, opts Options, fn func(*Builder)) (*ir.Module, error) {
	b, err := NewBuilder(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := b.Run(fn); err != nil {
		return nil, err
	}
	return b.Finish()
}

// Run calls fn and recovers an invariant violation into an error. After a
// failure the builder is poisoned and Finish refuses to return the module.
func (b *Builder) Run(fn func(*Builder)) (err error) {
	if b.failed != nil {
		return b.failure()
	}
	defer func() {
		if e := recoverInvariant(recover()); e != nil {
			b.failed = e
			b.span.End("failed: " + e.Op)
			err = b.failure()
		}
	}()
	fn(b)
	return nil
}

func (b *Builder) failure() error {
	return fmt.Errorf("%w: %w", ErrBuildFailed, b.failed)
}

// Failed reports whether an invariant violation has been recovered.
func (b *Builder) Failed() bool {
	return b.failed != nil
}

// Finish validates the module and returns it. Every block of every defined
// function must be terminated. Stack-map records are committed here, once
// local identifiers have been assigned.
func (b *Builder) Finish() (*ir.Module, error) {
	if b.failed != nil {
		return nil, b.failure()
	}
	if b.finished {
		return b.mod, nil
	}
	if err := b.Run((*Builder).verify); err != nil {
		return nil, err
	}
	for _, f := range b.mod.Funcs {
		if len(f.Blocks) == 0 {
			continue
		}
		if err := f.AssignIDs(); err != nil {
			return nil, fmt.Errorf("llvm: assign ids in %s: %w", f.Ident(), err)
		}
	}
	b.commitStackmaps()
	b.finished = true
	b.span.WithExtra("instructions", strconv.Itoa(b.emitted)).
		WithExtra("blocks", strconv.Itoa(len(b.main.Blocks))).
		End("")
	return b.mod, nil
}

func (b *Builder) verify() {
	if b.main == nil {
		fatalf("finish", "no function was created")
	}
	for _, f := range b.mod.Funcs {
		for _, blk := range f.Blocks {
			if blk.Term == nil {
				fatalf("finish", "block %s in %s has no terminator", blockName(blk), f.Ident())
			}
		}
	}
}

func (b *Builder) commitStackmaps() {
	if b.opts.Stackmaps == nil {
		return
	}
	for _, p := range b.pending {
		live := make([]string, len(p.live))
		for i, v := range p.live {
			live[i] = v.Ident()
		}
		b.opts.Stackmaps.Add(stackmap.Record{Function: b.main.Name(), ID: p.id, Live: live})
	}
}

// CreateFunction declares the main function and makes it the insertion
// target. It may be called once per builder.
func (b *Builder) CreateFunction(name string, sig *types.FuncType) *ir.Func {
	if b.main != nil {
		fatalf("create function", "function %s already created", b.main.Ident())
	}
	if _, taken := b.funcs[name]; taken {
		fatalf("create function", "name %q already declared in module", name)
	}
	if _, taken := b.globals[name]; taken {
		fatalf("create function", "name %q already declared as a global", name)
	}
	if sig == nil {
		fatalf("create function", "nil signature")
	}
	params := make([]*ir.Param, len(sig.Params))
	for i, pt := range sig.Params {
		params[i] = ir.NewParam("", pt)
	}
	f := b.mod.NewFunc(name, sig.RetType, params...)
	f.Sig.Variadic = sig.Variadic
	f.Linkage = enum.LinkageExternal
	f.FuncAttrs = append(f.FuncAttrs, enum.FuncAttrNoInline)
	if b.opts.TrackPointers {
		f.GC = b.opts.GCStrategy
	}
	b.main = f
	b.funcs[name] = f
	b.span = trace.Begin(b.tracer, trace.ScopeFunction, "function:"+name, b.parent)
	return f
}

func (b *Builder) requireFunction(op string) *ir.Func {
	if b.main == nil {
		fatalf(op, "no function created")
	}
	return b.main
}

// AppendBlock adds a block to the main function. The cursor does not move.
func (b *Builder) AppendBlock(name string) *ir.Block {
	return b.requireFunction("append block").NewBlock(name)
}

// PositionAtEnd moves the cursor to the end of blk.
func (b *Builder) PositionAtEnd(blk *ir.Block) {
	if blk == nil || blk.Parent != b.main {
		fatalf("position", "block does not belong to the main function")
	}
	b.cur = cursor{block: blk, index: -1}
}

// PositionAtStart moves the cursor before the first instruction of the entry block.
func (b *Builder) PositionAtStart() {
	f := b.requireFunction("position")
	if len(f.Blocks) == 0 {
		fatalf("position", "function %s has no entry block", f.Ident())
	}
	b.cur = cursor{block: f.Blocks[0], index: 0}
}

// CurrentBlock returns the block under the cursor, or nil.
func (b *Builder) CurrentBlock() *ir.Block {
	return b.cur.block
}

// BlockTerminator returns blk's terminator, or nil if it is still open.
func (b *Builder) BlockTerminator(blk *ir.Block) ir.Terminator {
	return blk.Term
}

// Param returns the i-th formal parameter of the main function.
func (b *Builder) Param(i int) *ir.Param {
	f := b.requireFunction("param")
	if i < 0 || i >= len(f.Params) {
		fatalf("param", "index %d out of range [0, %d)", i, len(f.Params))
	}
	return f.Params[i]
}

// MainFunction returns the function being built, or nil before CreateFunction.
func (b *Builder) MainFunction() *ir.Func {
	return b.main
}

// Module returns the module under construction.
func (b *Builder) Module() *ir.Module {
	return b.mod
}

// FunctionName returns the main function's name, or "" before CreateFunction.
func (b *Builder) FunctionName() string {
	if b.main == nil {
		return ""
	}
	return b.main.Name()
}

// Tracking reports whether the GC tracking protocol is enabled.
func (b *Builder) Tracking() bool {
	return b.opts.TrackPointers
}

// SetValueName names a local value or global.
func (b *Builder) SetValueName(v value.Named, name string) {
	v.SetName(name)
}

func (b *Builder) insertionBlock(op string) *ir.Block {
	if b.cur.block == nil {
		fatalf(op, "cursor is not positioned")
	}
	return b.cur.block
}

// emit places inst at the cursor. Appending to a terminated block is fatal.
func (b *Builder) emit(op string, inst ir.Instruction) {
	blk := b.insertionBlock(op)
	if b.cur.index < 0 {
		if blk.Term != nil {
			fatalf(op, "block %s already has a terminator", blockName(blk))
		}
		blk.Insts = append(blk.Insts, inst)
	} else {
		blk.Insts = slices.Insert(blk.Insts, b.cur.index, inst)
		b.cur.index++
	}
	b.emitted++
	trace.Point(b.tracer, trace.ScopeInstruction, op, "", b.span.ID())
}

func put[T valueInst](b *Builder, op string, inst T) T {
	b.emit(op, inst)
	return inst
}

func (b *Builder) terminate(op string, term ir.Terminator) {
	blk := b.insertionBlock(op)
	if blk.Term != nil {
		fatalf(op, "block %s already has a terminator", blockName(blk))
	}
	blk.Term = term
	b.emitted++
}

func blockName(blk *ir.Block) string {
	if name := blk.Name(); name != "" {
		return "%" + name
	}
	return "<unnamed block>"
}
