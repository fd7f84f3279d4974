// Package tui holds the terminal front-ends: the live progress view of a
// running simulation and the ascii charts of recorded signals.
package tui

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/blocksim/internal/experiment"
)

var ErrAborted = errors.New("tui: watch aborted before the simulation finished")

type doneMsg struct {
	result *experiment.Result
	err    error
}

type model struct {
	name    string
	signals []string

	progress *Progress
	run      func() (*experiment.Result, error)

	step    int
	total   int
	simTime float64
	started time.Time

	done    bool
	aborted bool
	result  *experiment.Result
	err     error

	width  int
	height int
}

func newModel(name string, signals []string, progress *Progress, run func() (*experiment.Result, error)) model {
	return model{
		name:     name,
		signals:  signals,
		progress: progress,
		run:      run,
		started:  time.Now(),
		width:    80,
		height:   24,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.simulate(), m.wait())
}

func (m model) simulate() tea.Cmd {
	return func() tea.Msg {
		res, err := m.run()
		m.progress.Close()
		return doneMsg{result: res, err: err}
	}
}

func (m model) wait() tea.Cmd {
	return func() tea.Msg {
		p, ok := <-m.progress.C()
		if !ok {
			return nil
		}
		return p
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.aborted = !m.done
			return m, tea.Quit
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case ProgressMsg:
		m.step, m.total, m.simTime = msg.Step, msg.Total, msg.Time
		return m, m.wait()
	case doneMsg:
		m.done = true
		m.result, m.err = msg.result, msg.err
		if m.result != nil && m.result.Len() > 0 {
			m.step, m.total = m.result.Len()-1, m.result.Len()
			m.simTime = m.result.Times[len(m.result.Times)-1]
		}
		return m, tea.Quit
	}
	return m, nil
}

func (m model) fraction() float64 {
	if m.total <= 1 {
		return 0
	}
	f := float64(m.step) / float64(m.total-1)
	if f > 1 {
		f = 1
	}
	return f
}

func (m model) View() string {
	var b strings.Builder

	statusIcon, statusText := green.Render("●"), green.Render("running")
	switch {
	case m.err != nil:
		statusIcon, statusText = red.Render("✕"), red.Render("failed")
	case m.done:
		statusIcon, statusText = cyan.Render("✓"), cyan.Render("done")
	case m.aborted:
		statusIcon, statusText = yellow.Render("○"), yellow.Render("detached")
	}
	b.WriteString(fmt.Sprintf("\n   %s %s  %s\n", statusIcon, white.Render(m.name), statusText))

	barWidth := 36
	filled := int(m.fraction() * float64(barWidth))
	bar := cyan.Render(strings.Repeat("━", filled)) + dimmer.Render(strings.Repeat("─", barWidth-filled))
	b.WriteString(fmt.Sprintf("   %s %s  %s\n\n",
		bar,
		dim.Render(fmt.Sprintf("%3.0f%%", 100*m.fraction())),
		dim.Render(fmt.Sprintf("t=%.2f  %d/%d", m.simTime, m.step+1, m.total))))

	if m.err != nil {
		b.WriteString("   " + red.Render(m.err.Error()) + "\n")
		return b.String()
	}
	if !m.done {
		b.WriteString(dim.Render("   q detach") + "\n")
		return b.String()
	}

	width := m.width - 12
	if width < 20 {
		width = 20
	}
	chart, err := Chart(m.result.Result, m.signals, width, 8)
	if err != nil {
		b.WriteString("   " + red.Render(err.Error()) + "\n")
	} else {
		b.WriteString(chart)
	}
	b.WriteString(renderMetrics(m.result.Metrics))
	b.WriteString(dim.Render(fmt.Sprintf("   %d ticks in %s", m.result.Len(), m.result.Duration.Round(time.Microsecond))) + "\n")
	return b.String()
}

func renderMetrics(ms map[string]float64) string {
	if len(ms) == 0 {
		return ""
	}
	names := make([]string, 0, len(ms))
	for name := range ms {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		b.WriteString("   " + dim.Render(fmt.Sprintf("%-20s", name)) + magenta.Render(fmt.Sprintf("%.6g", ms[name])) + "\n")
	}
	b.WriteString("\n")
	return b.String()
}

// Watch runs exp under a progress view and returns its result once the
// simulation finishes. Quitting early leaves the simulation running in the
// background and returns ErrAborted.
func Watch(exp *experiment.Experiment, signals []string, opts ...tea.ProgramOption) (*experiment.Result, error) {
	total := exp.Config().Steps()
	progress := NewProgress(total / 200)
	exp.Diagram().AddObserver(progress)

	name := exp.Config().Name
	if name == "" {
		name = "simulation"
	}

	final, err := tea.NewProgram(newModel(name, signals, progress, exp.Run), opts...).Run()
	if err != nil {
		return nil, err
	}

	m := final.(model)
	if !m.done {
		return nil, ErrAborted
	}
	return m.result, m.err
}
