package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"gcir/internal/driver"
)

const (
	statusQueued   = "queued"
	statusBuilding = "building"
	statusDone     = "done"
	statusError    = "error"
)

type progressModel struct {
	title    string
	events   <-chan driver.PhaseEvent
	spinner  spinner.Model
	prog     progress.Model
	items    []jobItem
	index    map[string]int
	finished int
	width    int
	done     bool
}

type jobItem struct {
	name    string
	status  string
	elapsed string
}

type eventMsg driver.PhaseEvent
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders job progress
// until events is closed.
func NewProgressModel(title string, jobs []string, events <-chan driver.PhaseEvent) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	items := make([]jobItem, 0, len(jobs))
	index := make(map[string]int, len(jobs))
	for i, name := range jobs {
		items = append(items, jobItem{name: name, status: statusQueued})
		index[name] = i
	}
	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		items:   items,
		index:   index,
		width:   80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(driver.PhaseEvent(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		pm, cmd := m.prog.Update(msg)
		m.prog = pm.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := fmt.Sprintf("%s (%d/%d)", m.title, m.finished, len(m.items))
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	nameWidth := max(m.width-12-14, 20)
	for _, item := range m.items {
		status := styleStatus(item.status).Render(fmt.Sprintf("%10s", item.status))
		fmt.Fprintf(&b, "  %s %s %s\n", status, pad(truncate(item.name, nameWidth), nameWidth), item.elapsed)
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")
	return b.String()
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev driver.PhaseEvent) tea.Cmd {
	idx, ok := m.index[ev.Name]
	if !ok {
		return nil
	}
	item := &m.items[idx]
	switch ev.Status {
	case driver.PhaseStart:
		item.status = statusBuilding
		return nil
	case driver.PhaseEnd:
		if item.status == statusDone || item.status == statusError {
			return nil
		}
		item.status = statusDone
		if ev.Err != nil {
			item.status = statusError
		}
		item.elapsed = fmt.Sprintf("%.2f ms", float64(ev.Elapsed.Microseconds())/1000)
		m.finished++
	}
	return m.prog.SetPercent(float64(m.finished) / float64(len(m.items)))
}

func styleStatus(status string) lipgloss.Style {
	switch status {
	case statusDone:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case statusError:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case statusBuilding:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}

func pad(value string, width int) string {
	return runewidth.FillRight(value, width)
}
