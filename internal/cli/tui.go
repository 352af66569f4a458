package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/searchlab/pkg/pipeline"
	"github.com/matzehuels/searchlab/pkg/problems/puzzle"
	"github.com/matzehuels/searchlab/pkg/problems/queens"
)

// Stepper styles
var (
	stepBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 2)
	stepActionStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	stepDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// StepperModel - Interactive path replay
// =============================================================================

// StepperModel is the bubbletea model for walking a solution path one
// state at a time.
type StepperModel struct {
	Solution *pipeline.Solution
	Index    int

	view func(string) string
}

// NewStepperModel creates a stepper positioned at the initial state. view
// renders a state label; nil prints labels as they are.
func NewStepperModel(sol *pipeline.Solution, view func(string) string) StepperModel {
	if view == nil {
		view = func(s string) string { return s }
	}
	return StepperModel{Solution: sol, view: view}
}

func (m StepperModel) Init() tea.Cmd {
	return nil
}

func (m StepperModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	last := len(m.Solution.Steps) - 1
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "right", "l", " ", "n":
		if m.Index < last {
			m.Index++
		}
	case "left", "h", "p":
		if m.Index > 0 {
			m.Index--
		}
	case "home", "g":
		m.Index = 0
	case "end", "G":
		m.Index = last
	}
	return m, nil
}

func (m StepperModel) View() string {
	var b strings.Builder
	sol := m.Solution

	b.WriteString(StyleTitle.Render(fmt.Sprintf("%s · %s", sol.Domain, sol.Strategy)))
	b.WriteString("\n")
	b.WriteString(stepDimStyle.Render("←/→ step  home/end jump  q quit"))
	b.WriteString("\n\n")

	action := "initial state"
	if m.Index > 0 {
		action = sol.Actions[m.Index-1]
	}
	b.WriteString(stepActionStyle.Render(action))
	b.WriteString("\n")
	b.WriteString(stepBoxStyle.Render(m.view(sol.Steps[m.Index])))
	b.WriteString("\n\n")
	b.WriteString(stepDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Index, len(sol.Steps)-1)))
	if m.Index == len(sol.Steps)-1 {
		b.WriteString(" " + StyleSuccess.Render("goal, cost "+strconv.FormatFloat(sol.Cost, 'f', -1, 64)))
	}
	b.WriteString("\n")
	return b.String()
}

// runStepper runs the stepper until the user quits or ctx is canceled.
func runStepper(ctx context.Context, sol *pipeline.Solution, view func(string) string) error {
	p := tea.NewProgram(NewStepperModel(sol, view), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// stateView returns a renderer that draws domain states as boards. Labels
// that fail to parse are shown unchanged.
func stateView(opts pipeline.Options) func(string) string {
	switch opts.Domain {
	case pipeline.DomainPuzzle:
		return func(s string) string {
			b, err := puzzle.Parse(s)
			if err != nil {
				return s
			}
			return b.Grid()
		}
	case pipeline.DomainQueens:
		n := opts.N
		if n == 0 {
			n = pipeline.DefaultQueens
		}
		return func(s string) string {
			p, err := queens.New(n)
			if err != nil {
				return s
			}
			b := p.Initial()
			for _, f := range strings.Fields(s) {
				col, err := strconv.Atoi(f)
				if err != nil {
					return s
				}
				b = b.Place(col)
			}
			return b.Grid()
		}
	default:
		return func(s string) string { return s }
	}
}
