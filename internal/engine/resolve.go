package engine

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Resolution is the caller's verdict on a single conflicted path.
type Resolution int

const (
	// ResolutionReport leaves the path untouched and keeps it in the
	// report's conflict list.
	ResolutionReport Resolution = iota
	// ResolutionOverwrite replaces the user's content with the rendered
	// content.
	ResolutionOverwrite
	// ResolutionSkip leaves the path untouched and records it as skipped.
	ResolutionSkip
	// ResolutionCancel stops resolving; all remaining conflicts stay
	// reported.
	ResolutionCancel
)

// Resolver decides what happens to conflicted paths. The engine itself
// never overwrites a conflict; it consults the resolver the caller
// supplied.
type Resolver interface {
	Resolve(path string, existing, planned []byte) (Resolution, error)
}

// ReportResolver leaves every conflict in the report. This is the
// default: destructive merges never happen silently.
type ReportResolver struct{}

func (ReportResolver) Resolve(string, []byte, []byte) (Resolution, error) {
	return ResolutionReport, nil
}

// ForceResolver overwrites every conflict without prompting.
type ForceResolver struct{}

func (ForceResolver) Resolve(string, []byte, []byte) (Resolution, error) {
	return ResolutionOverwrite, nil
}

// SkipResolver skips every conflict without prompting.
type SkipResolver struct{}

func (SkipResolver) Resolve(string, []byte, []byte) (Resolution, error) {
	return ResolutionSkip, nil
}

// NewResolver maps the upgrade command's flags onto a resolver.
// force and skip are mutually exclusive.
func NewResolver(force, skip, interactive bool) (Resolver, error) {
	if force && skip {
		return nil, fmt.Errorf("--force cannot be combined with --skip-conflicts")
	}
	switch {
	case force:
		return ForceResolver{}, nil
	case skip:
		return SkipResolver{}, nil
	case interactive:
		return &InteractiveResolver{}, nil
	default:
		return ReportResolver{}, nil
	}
}

// InteractiveResolver shows a menu per conflict with an optional diff
// view.
type InteractiveResolver struct{}

var (
	conflictWarnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("yellow")).Bold(true)
	conflictTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("white")).Bold(true)
	conflictPickStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan")).Bold(true)
	conflictMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Resolve prompts for a decision. Choosing "show diff" prints the diff
// and re-opens the menu, so the user can review it more than once.
func (r *InteractiveResolver) Resolve(path string, existing, planned []byte) (Resolution, error) {
	for {
		model := newConflictMenu(path)
		p := tea.NewProgram(model)
		final, err := p.Run()
		if err != nil {
			return ResolutionCancel, fmt.Errorf("conflict menu: %w", err)
		}

		m := final.(conflictMenu)
		if m.selected == nil {
			return ResolutionCancel, nil
		}
		if *m.selected == choiceDiff {
			fmt.Println(Diff(path, existing, planned))
			continue
		}

		switch *m.selected {
		case choiceSkip:
			return ResolutionSkip, nil
		case choiceOverwrite:
			return ResolutionOverwrite, nil
		default:
			return ResolutionCancel, nil
		}
	}
}

type menuChoice int

const (
	choiceDiff menuChoice = iota
	choiceSkip
	choiceOverwrite
	choiceCancel
)

type conflictMenu struct {
	path     string
	choices  []string
	cursor   int
	selected *menuChoice
}

func newConflictMenu(path string) conflictMenu {
	return conflictMenu{
		path: path,
		choices: []string{
			"Show diff and decide",
			"Skip (keep your version)",
			"Overwrite (take the generated version)",
			"Cancel (leave remaining conflicts reported)",
		},
	}
}

func (m conflictMenu) Init() tea.Cmd {
	return nil
}

func (m conflictMenu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.choices)-1 {
				m.cursor++
			}
		case "enter":
			choice := menuChoice(m.cursor)
			m.selected = &choice
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m conflictMenu) View() string {
	var b strings.Builder
	b.WriteString(conflictWarnStyle.Render("⚠ Conflict: ") + conflictTitleStyle.Render(m.path) + "\n")
	b.WriteString(conflictMutedStyle.Render("    This file was edited locally and the template changed too.") + "\n\n")
	b.WriteString(conflictMutedStyle.Render("    [↑/↓] Navigate    [Enter] Select    [q] Cancel") + "\n\n")
	for i, choice := range m.choices {
		if m.cursor == i {
			b.WriteString("    " + conflictPickStyle.Render("> "+choice) + "\n")
		} else {
			b.WriteString("      " + choice + "\n")
		}
	}
	return b.String()
}
