package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"gcir/internal/version"
)

var rootCmd = &cobra.Command{
	Use:           "gcir",
	Short:         "GC-aware LLVM IR construction toolkit",
	Long:          `gcir builds LLVM IR modules whose object references are tracked for a statepoint-based collector`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		mode, err := cmd.Root().PersistentFlags().GetString("color")
		if err != nil {
			return fmt.Errorf("failed to get color flag: %w", err)
		}
		return applyColorMode(mode)
	},
}

// main registers subcommands and persistent flags, then executes the root command.
// A failing command prints its error in red and exits with status 1.
func main() {
	rootCmd.Version = version.Current().Version

	rootCmd.AddCommand(emitCmd)
	rootCmd.AddCommand(samplesCmd)
	rootCmd.AddCommand(versionCmd)

	registerPersistentFlags(rootCmd.PersistentFlags())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.New(color.FgRed, color.Bold).Sprint("error: ")+err.Error())
		os.Exit(1)
	}
}

// registerPersistentFlags defines the flags shared by every subcommand.
func registerPersistentFlags(fs *pflag.FlagSet) {
	// Глобальные флаги
	fs.String("color", "auto", "colorize output (auto|on|off)")
	fs.Bool("quiet", false, "suppress non-essential output")
	fs.Bool("timings", false, "show timing information")
	fs.String("trace", "", "write trace events to file (- for stderr, *.ndjson for NDJSON)")
	fs.String("trace-level", "off", "trace level (off|phase|detail|debug)")
	fs.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	fs.Int("trace-ring-size", 4096, "events kept by the ring tracer")
}

func applyColorMode(value string) error {
	mode, err := readToggle("color", value)
	if err != nil {
		return err
	}
	color.NoColor = !mode.enabledFor(os.Stdout) || (mode == toggleAuto && os.Getenv("NO_COLOR") != "")
	return nil
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
