package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"gcir/internal/observ"
)

var (
	timingTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	timingNameStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	timingNestedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	timingTotalStyle  = lipgloss.NewStyle().Bold(true)
)

func printTimings(out io.Writer, timer *observ.Timer) {
	if out == nil || timer == nil {
		return
	}
	fmt.Fprint(out, renderTimings(timer.Report()))
}

func renderTimings(report observ.Report) string {
	var b strings.Builder
	b.WriteString(timingTitleStyle.Render("timings"))
	b.WriteString("\n")
	for _, p := range report.Phases {
		style := timingNameStyle
		name := p.Name
		if p.Nested {
			style = timingNestedStyle
			name = "  " + name
		}
		line := fmt.Sprintf("  %s %8.2f ms", style.Render(fmt.Sprintf("%-20s", name)), p.DurationMS)
		if p.Note != "" {
			line += "  " + p.Note
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString(timingTotalStyle.Render(fmt.Sprintf("  %-20s %8.2f ms", "total", report.TotalMS)))
	b.WriteString("\n")
	return b.String()
}
