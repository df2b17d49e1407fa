package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/theCapypara/nix-jetbrains-plugins/internal/generator"
	"github.com/theCapypara/nix-jetbrains-plugins/internal/i18n"
)

var (
	progressCountStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("42")).
				Bold(true)

	progressPluginStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252"))
)

type progressMsg generator.Progress

type generateDoneMsg struct {
	summary *generator.Summary
	err     error
}

// ProgressModel renders a spinner and plugin counter while a
// generation run is in flight.
type ProgressModel struct {
	spinner  spinner.Model
	events   <-chan generator.Progress
	result   <-chan generateDoneMsg
	done     int
	total    int
	current  string
	finished bool
	summary  *generator.Summary
	err      error
}

func newProgressModel(events <-chan generator.Progress, result <-chan generateDoneMsg) ProgressModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return ProgressModel{
		spinner: sp,
		events:  events,
		result:  result,
	}
}

func (m ProgressModel) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		select {
		case ev, ok := <-m.events:
			if !ok {
				return <-m.result
			}
			return progressMsg(ev)
		case done := <-m.result:
			return done
		}
	}
}

func (m ProgressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitForEvent())
}

func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.err = fmt.Errorf("interrupted")
			m.finished = true
			return m, tea.Quit
		}
		return m, nil

	case progressMsg:
		m.done = msg.Done
		m.total = msg.Total
		m.current = msg.PluginID
		return m, m.waitForEvent()

	case generateDoneMsg:
		m.summary = msg.summary
		m.err = msg.err
		m.finished = true
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m ProgressModel) View() string {
	if m.finished {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(i18n.T("GenerateProgress", nil))
	b.WriteString(" ")
	b.WriteString(progressCountStyle.Render(fmt.Sprintf("%d/%d", m.done, m.total)))
	if m.current != "" {
		b.WriteString("  ")
		b.WriteString(progressPluginStyle.Render(m.current))
	}
	b.WriteString("\n")
	return b.String()
}

// RunGenerate drives a generation run behind a spinner. The run
// callback executes on its own goroutine; progress events feed the
// display until the run returns.
func RunGenerate(gen *generator.Generator, run func() (*generator.Summary, error)) (*generator.Summary, error) {
	events := make(chan generator.Progress, 16)
	result := make(chan generateDoneMsg, 1)

	gen.OnProgress = func(p generator.Progress) {
		// Drop events rather than block workers on a stalled display.
		select {
		case events <- p:
		default:
		}
	}

	go func() {
		summary, err := run()
		close(events)
		result <- generateDoneMsg{summary: summary, err: err}
	}()

	model := newProgressModel(events, result)
	p := tea.NewProgram(model)

	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}

	m := finalModel.(ProgressModel)
	if m.err != nil {
		return m.summary, m.err
	}
	return m.summary, nil
}
