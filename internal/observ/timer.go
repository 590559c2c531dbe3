package observ

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Phase records the duration of one CLI phase or one compiled job.
type Phase struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Note  string
	// Nested phases run inside a top-level phase and are excluded from the total.
	Nested bool
}

// Timer tracks phase durations. It is safe for concurrent use, so driver
// workers may Record job timings while the CLI holds an open phase.
type Timer struct {
	mu     sync.Mutex
	phases []Phase
}

// NewTimer creates a new empty Timer.
func NewTimer() *Timer { return &Timer{phases: make([]Phase, 0, 8)} }

// Begin starts a new phase and returns its index.
func (t *Timer) Begin(name string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.phases = append(t.phases, Phase{Name: name, Start: time.Now()})
	return len(t.phases) - 1
}

// End finishes a phase by its index.
func (t *Timer) End(idx int, note string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if idx < 0 || idx >= len(t.phases) {
		return
	}
	p := &t.phases[idx]
	p.Dur = time.Since(p.Start)
	p.Note = note
}

// Record adds a finished nested phase measured elsewhere.
func (t *Timer) Record(name string, dur time.Duration, note string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.phases = append(t.phases, Phase{Name: name, Start: time.Now().Add(-dur), Dur: dur, Note: note, Nested: true})
}

// Summary returns a human-readable string summarizing all tracked phases.
func (t *Timer) Summary() string {
	report := t.Report()
	var sb strings.Builder
	sb.WriteString("timings:\n")
	for _, p := range report.Phases {
		name := p.Name
		if p.Nested {
			name = "  " + name
		}
		fmt.Fprintf(&sb, "  %-20s %7.2f ms", name, p.DurationMS)
		if p.Note != "" {
			sb.WriteString("  // " + p.Note)
		}
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "  %-20s %7.2f ms\n", "total", report.TotalMS)
	return sb.String()
}

// PhaseReport is the serializable view of one phase.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
	Nested     bool    `json:"nested,omitempty"`
}

// Report aggregates the timer.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

// Report returns the phases in start order. The total sums top-level phases only.
func (t *Timer) Report() Report {
	t.mu.Lock()
	phases := make([]Phase, len(t.phases))
	copy(phases, t.phases)
	t.mu.Unlock()
	if len(phases) == 0 {
		return Report{}
	}
	report := Report{Phases: make([]PhaseReport, len(phases))}
	var total time.Duration
	for i, phase := range phases {
		if !phase.Nested {
			total += phase.Dur
		}
		report.Phases[i] = PhaseReport{
			Name:       phase.Name,
			DurationMS: durationToMillis(phase.Dur),
			Note:       phase.Note,
			Nested:     phase.Nested,
		}
	}
	report.TotalMS = durationToMillis(total)
	return report
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
