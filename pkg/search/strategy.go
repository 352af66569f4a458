package search

import (
	"strings"

	"github.com/matzehuels/searchlab/pkg/errors"
)

// Strategy selects the frontier discipline of a search run.
type Strategy int

const (
	// BFS expands states in discovery order.
	BFS Strategy = iota
	// DFS expands the most recently discovered state first.
	DFS
	// Greedy expands the state with the smallest heuristic estimate.
	Greedy
	// AStar expands the state with the smallest accumulated cost plus estimate.
	AStar
)

var strategyNames = [...]string{
	BFS:    "bfs",
	DFS:    "dfs",
	Greedy: "greedy",
	AStar:  "astar",
}

var strategyAliases = map[string]Strategy{
	"bfs":    BFS,
	"dfs":    DFS,
	"greedy": Greedy,
	"gbfs":   Greedy,
	"astar":  AStar,
	"a*":     AStar,
}

// Strategies lists every strategy in declaration order.
func Strategies() []Strategy {
	return []Strategy{BFS, DFS, Greedy, AStar}
}

// String returns the canonical lower-case name ("bfs", "dfs", "greedy", "astar").
func (s Strategy) String() string {
	if !s.Valid() {
		return "unknown"
	}
	return strategyNames[s]
}

// Valid reports whether s is one of the defined strategies.
func (s Strategy) Valid() bool {
	return s >= BFS && s <= AStar
}

// Informed reports whether s orders its frontier by a heuristic.
func (s Strategy) Informed() bool {
	return s == Greedy || s == AStar
}

// MarshalText implements encoding.TextMarshaler.
func (s Strategy) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidStrategy, "unknown strategy %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Strategy) UnmarshalText(text []byte) error {
	v, err := ParseStrategy(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseStrategy maps a case-insensitive name to a Strategy. Besides the
// canonical names it accepts "gbfs" and "a*".
func ParseStrategy(name string) (Strategy, error) {
	if s, ok := strategyAliases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return s, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidStrategy, "unknown strategy %q (want bfs, dfs, greedy or astar)", name)
}
