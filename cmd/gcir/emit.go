package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"gcir/internal/driver"
	"gcir/internal/observ"
	"gcir/internal/project"
	"gcir/internal/samples"
	"gcir/internal/trace"
)

var emitCmd = &cobra.Command{
	Use:   "emit [sample...]",
	Short: "Compile built-in samples to LLVM IR",
	Long:  "Compile the named samples (all when none are given) and write one .ll file per sample",
	RunE:  runEmit,
}

func init() {
	registerEmitFlags(emitCmd.Flags())
}

func registerEmitFlags(fs *pflag.FlagSet) {
	fs.String("out", "", "output directory (overrides [build].output)")
	fs.Int("jobs", 0, "concurrent builders (overrides [build].jobs)")
	fs.Bool("track-pointers", true, "enable GC pointer tracking (overrides [gc].track-pointers)")
	fs.Int("pointer-bits", 0, "target pointer width, 32 or 64 (overrides [target].pointer-bits)")
	fs.Bool("stackmaps", false, "write the stack-map sidecar (overrides [build].stackmaps)")
	fs.Bool("stdout", false, "print IR instead of writing files")
	fs.String("ui", "auto", "progress view (auto|on|off)")
}

func runEmit(cmd *cobra.Command, args []string) error {
	tracer, cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()
	span := trace.Begin(tracer, trace.ScopeDriver, "gcir emit", 0)
	ctx := trace.WithSpan(cmd.Context(), span)

	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	toStdout, err := cmd.Flags().GetBool("stdout")
	if err != nil {
		return fmt.Errorf("failed to get stdout flag: %w", err)
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readToggle("ui", uiValue)
	if err != nil {
		return err
	}

	timer := observ.NewTimer()
	phase := timer.Begin("config")
	cfg, err := project.Discover(".")
	if err != nil {
		return err
	}
	if err := applyEmitFlags(cmd.Flags(), &cfg); err != nil {
		return err
	}
	jobs, err := samples.Jobs(args)
	if err != nil {
		return err
	}
	timer.End(phase, configNote(cfg))

	opts := driver.Options{Builder: cfg.BuilderOptions(), Jobs: cfg.Build.Jobs}
	if showTimings {
		opts.Observer = func(ev driver.PhaseEvent) {
			if ev.Status == driver.PhaseEnd {
				timer.Record(ev.Name, ev.Elapsed, "")
			}
		}
	}

	phase = timer.Begin("compile")
	var batch *driver.Batch
	var compileErr error
	if !toStdout && !quiet && mode.enabledFor(os.Stdout) {
		batch, compileErr = runCompileWithUI(ctx, "gcir emit", opts, jobs)
	} else {
		batch, compileErr = driver.Compile(ctx, opts, jobs)
	}
	timer.End(phase, fmt.Sprintf("%d jobs", len(jobs)))
	if batch == nil {
		span.End("failed")
		return compileErr
	}

	out := cmd.OutOrStdout()
	if toStdout {
		printIR(out, batch.Results)
	} else {
		phase = timer.Begin("write")
		table := batch.Stackmaps
		if !cfg.Build.Stackmaps {
			table = nil
		}
		written, err := driver.WriteOutputs(cfg.Build.Output, batch.Results, table)
		timer.End(phase, fmt.Sprintf("%d files", len(written)))
		if err != nil {
			span.End("failed")
			return err
		}
		if !quiet {
			fmt.Fprintf(out, "wrote %d files to %s\n", len(written), cfg.Build.Output)
		}
	}
	if showTimings {
		printTimings(cmd.ErrOrStderr(), timer)
	}
	if compileErr != nil {
		dumpRing(cmd.ErrOrStderr(), tracer)
		span.End("failed")
		return compileErr
	}
	span.End("")
	return nil
}

// applyEmitFlags overrides cfg with the flags the user set explicitly.
func applyEmitFlags(flags *pflag.FlagSet, cfg *project.Config) error {
	var err error
	if flags.Changed("out") {
		if cfg.Build.Output, err = flags.GetString("out"); err != nil {
			return err
		}
	}
	if flags.Changed("jobs") {
		if cfg.Build.Jobs, err = flags.GetInt("jobs"); err != nil {
			return err
		}
	}
	if flags.Changed("track-pointers") {
		if cfg.GC.TrackPointers, err = flags.GetBool("track-pointers"); err != nil {
			return err
		}
	}
	if flags.Changed("pointer-bits") {
		if cfg.Target.PointerBits, err = flags.GetInt("pointer-bits"); err != nil {
			return err
		}
	}
	if flags.Changed("stackmaps") {
		if cfg.Build.Stackmaps, err = flags.GetBool("stackmaps"); err != nil {
			return err
		}
	}
	if cfg.Build.Output == "" {
		return fmt.Errorf("--out must not be empty")
	}
	return cfg.Validate()
}

func configNote(cfg project.Config) string {
	if cfg.Path == "" {
		return "defaults"
	}
	return cfg.Path
}

func printIR(out io.Writer, results []driver.Result) {
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		fmt.Fprintf(out, "; sample %s\n%s\n", r.Name, r.IR)
	}
}
