package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/searchlab/pkg/pipeline"
)

func testSolution() *pipeline.Solution {
	return &pipeline.Solution{
		Domain:   pipeline.DomainGraph,
		Strategy: "astar",
		Status:   "found",
		Steps:    []string{"A", "E", "D", "G"},
		Actions:  []string{"A -> E (3)", "E -> D (6)", "D -> G (1)"},
		Cost:     10,
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "home":
		return tea.KeyMsg{Type: tea.KeyHome}
	case "end":
		return tea.KeyMsg{Type: tea.KeyEnd}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestStepperNavigation(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want int
	}{
		{"initial", nil, 0},
		{"forward", []string{"right", "l"}, 2},
		{"clamped at goal", []string{"right", "right", "right", "right", "right"}, 3},
		{"clamped at start", []string{"left", "h"}, 0},
		{"back", []string{"end", "left"}, 2},
		{"home", []string{"right", "right", "home"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m tea.Model = NewStepperModel(testSolution(), nil)
			for _, k := range tt.keys {
				m, _ = m.Update(key(k))
			}
			if got := m.(StepperModel).Index; got != tt.want {
				t.Errorf("Index = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestStepperQuit(t *testing.T) {
	m := NewStepperModel(testSolution(), nil)
	if _, cmd := m.Update(key("q")); cmd == nil {
		t.Error("q should return a quit command")
	}
	if _, cmd := m.Update(key("right")); cmd != nil {
		t.Error("right should not return a command")
	}
}

func TestStepperView(t *testing.T) {
	var m tea.Model = NewStepperModel(testSolution(), strings.ToLower)

	view := m.View()
	if !strings.Contains(view, "initial state") || !strings.Contains(view, "[0/3]") {
		t.Errorf("initial view missing header:\n%s", view)
	}

	m, _ = m.Update(key("end"))
	view = m.View()
	for _, want := range []string{"D -> G (1)", "g", "[3/3]", "goal, cost 10"} {
		if !strings.Contains(view, want) {
			t.Errorf("goal view missing %q:\n%s", want, view)
		}
	}
}

func TestStateView(t *testing.T) {
	tests := []struct {
		name  string
		opts  pipeline.Options
		state string
		want  string
	}{
		{
			name:  "puzzle",
			opts:  pipeline.Options{Domain: pipeline.DomainPuzzle},
			state: "123 405 678",
			want:  "1 2 3\n4 _ 5\n6 7 8",
		},
		{
			name:  "puzzle unparsable",
			opts:  pipeline.Options{Domain: pipeline.DomainPuzzle},
			state: "abc",
			want:  "abc",
		},
		{
			name:  "queens partial",
			opts:  pipeline.Options{Domain: pipeline.DomainQueens, N: 4},
			state: "1 3",
			want:  "0 1 0 0\n0 0 0 1\n0 0 0 0\n0 0 0 0",
		},
		{
			name:  "queens empty",
			opts:  pipeline.Options{Domain: pipeline.DomainQueens, N: 2},
			state: "",
			want:  "0 0\n0 0",
		},
		{
			name:  "graph",
			opts:  pipeline.Options{Domain: pipeline.DomainGraph},
			state: "Arad",
			want:  "Arad",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stateView(tt.opts)(tt.state); got != tt.want {
				t.Errorf("stateView(%s)(%q) = %q, want %q", tt.opts.Domain, tt.state, got, tt.want)
			}
		})
	}
}
