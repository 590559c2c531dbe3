package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"gcir/internal/samples"
)

var samplesCmd = &cobra.Command{
	Use:   "samples",
	Short: "List built-in samples",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		printSampleList(cmd.OutOrStdout(), samples.All())
		return nil
	},
}

func printSampleList(out io.Writer, list []samples.Sample) {
	width := 0
	for _, s := range list {
		width = max(width, runewidth.StringWidth(s.Name))
	}
	name := color.New(color.FgCyan, color.Bold)
	for _, s := range list {
		fmt.Fprintf(out, "  %s  %s\n", name.Sprint(runewidth.FillRight(s.Name, width)), s.Description)
	}
}
