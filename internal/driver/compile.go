package driver

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/llir/llvm/ir"
	"golang.org/x/sync/errgroup"

	"gcir/internal/backend/llvm"
	"gcir/internal/patchpoint"
	"gcir/internal/stackmap"
	"gcir/internal/trace"
)

// Job is one compilation unit: Build receives a fresh Builder and must
// create exactly one function in it.
type Job struct {
	Name  string
	Build func(*llvm.Builder)
}

// Result is the outcome of one job. Exactly one of Module and Err is set.
type Result struct {
	Name    string
	Module  *ir.Module
	IR      string
	Err     error
	Elapsed time.Duration
}

// Options configures Compile.
type Options struct {
	// Builder is copied into every job. Nil Patchpoints and Stackmaps are
	// replaced by a counter and table shared across the batch.
	Builder llvm.Options
	// Jobs bounds the number of concurrently running builders; <= 0 means GOMAXPROCS.
	Jobs int
	// Observer, when set, is called from worker goroutines as jobs start and end.
	Observer PhaseObserver
}

// Batch holds the results of Compile in job order.
type Batch struct {
	Results     []Result
	Stackmaps   *stackmap.Table
	Patchpoints *patchpoint.Counter
}

// Failed returns the results that carry an error.
func (b *Batch) Failed() []Result {
	var out []Result
	for _, r := range b.Results {
		if r.Err != nil {
			out = append(out, r)
		}
	}
	return out
}

// Compile runs jobs concurrently, one Builder per job. A failing job does
// not cancel its siblings; the returned error joins every job failure and
// the batch is returned either way.
func Compile(ctx context.Context, opts Options, jobs []Job) (*Batch, error) {
	if err := checkJobs(jobs); err != nil {
		return nil, err
	}
	bopts := opts.Builder
	if bopts.Patchpoints == nil {
		bopts.Patchpoints = patchpoint.NewCounter()
	}
	if bopts.Stackmaps == nil {
		bopts.Stackmaps = stackmap.NewTable()
	}
	batch := &Batch{
		Results:     make([]Result, len(jobs)),
		Stackmaps:   bopts.Stackmaps,
		Patchpoints: bopts.Patchpoints,
	}
	if len(jobs) == 0 {
		return batch, nil
	}

	span := trace.Begin(trace.FromContext(ctx), trace.ScopeDriver, "compile", trace.CurrentSpan(ctx))
	ctx = trace.WithSpan(ctx, span)

	limit := opts.Jobs
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(limit, len(jobs)))

	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			// индекс i уникален для горутины, мьютекс не нужен
			batch.Results[i] = runJob(gctx, bopts, job, opts.Observer)
			return nil
		})
	}
	_ = g.Wait()

	var errs []error
	for _, r := range batch.Results {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.Name, r.Err))
		}
	}
	span.WithExtra("jobs", strconv.Itoa(len(jobs))).
		WithExtra("failed", strconv.Itoa(len(errs))).
		End("")
	return batch, errors.Join(errs...)
}

func runJob(ctx context.Context, opts llvm.Options, job Job, observe PhaseObserver) Result {
	res := Result{Name: job.Name}
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}
	observe.Emit(PhaseEvent{Name: job.Name, Status: PhaseStart})
	start := time.Now()

	span := trace.Begin(trace.FromContext(ctx), trace.ScopeDriver, "job:"+job.Name, trace.CurrentSpan(ctx))
	mod, err := llvm.Build(trace.WithSpan(ctx, span), opts, job.Build)
	res.Elapsed = time.Since(start)
	if err != nil {
		res.Err = err
		span.End("failed")
	} else {
		res.Module = mod
		res.IR = mod.String()
		span.End("")
	}
	observe.Emit(PhaseEvent{Name: job.Name, Status: PhaseEnd, Elapsed: res.Elapsed, Err: res.Err})
	return res
}

func checkJobs(jobs []Job) error {
	seen := make(map[string]struct{}, len(jobs))
	for i, job := range jobs {
		if job.Name == "" {
			return fmt.Errorf("job %d has no name", i)
		}
		if job.Build == nil {
			return fmt.Errorf("job %s has no build function", job.Name)
		}
		key := fileStem(job.Name)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("duplicate job name %q", job.Name)
		}
		seen[key] = struct{}{}
	}
	return nil
}
