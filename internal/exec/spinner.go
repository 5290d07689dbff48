package exec

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// RunWithSpinner runs a command while showing a progress spinner on stderr.
// Long dependency installs feel broken without feedback.
func (e *Executor) RunWithSpinner(ctx context.Context, message string, cmd Command) (*Result, error) {
	type outcome struct {
		res *Result
		err error
	}
	done := make(chan outcome, 1)

	go func() {
		res, err := e.Run(ctx, cmd)
		done <- outcome{res, err}
	}()

	m := newSpinnerModel(message)
	p := tea.NewProgram(m, tea.WithOutput(os.Stderr))

	go func() {
		_, _ = p.Run()
	}()

	out := <-done

	p.Send(spinnerDoneMsg{failed: out.err != nil || !out.res.Ok()})
	// Give the spinner a beat to render its final state.
	time.Sleep(50 * time.Millisecond)
	p.Quit()

	return out.res, out.err
}

type spinnerModel struct {
	spinner spinner.Model
	message string
	done    bool
	failed  bool
}

type spinnerDoneMsg struct {
	failed bool
}

func newSpinnerModel(message string) *spinnerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return &spinnerModel{spinner: s, message: message}
}

func (m *spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m *spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinnerDoneMsg:
		m.done = true
		m.failed = msg.failed
		return m, tea.Quit
	case spinner.TickMsg:
		if !m.done {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m *spinnerModel) View() string {
	if m.done {
		if m.failed {
			return fmt.Sprintf("✗ %s\n", m.message)
		}
		return fmt.Sprintf("✓ %s\n", m.message)
	}
	return fmt.Sprintf("%s %s...", m.spinner.View(), m.message)
}
