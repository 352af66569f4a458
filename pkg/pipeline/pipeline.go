// Package pipeline turns declarative solve requests into search runs.
//
// The same [Options] value drives the CLI, the HTTP API and the compare
// command: it names a domain (graph, waterjug, puzzle, queens), the domain
// parameters and a strategy. A [Runner] validates the options, builds the
// domain problem, runs the engine with the requested limits and returns a
// domain-independent [Solution]. Solutions are cached by a digest of the
// problem and the strategy.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	sol, err := runner.Execute(ctx, pipeline.Options{
//	    Domain:   pipeline.DomainWaterJug,
//	    Strategy: "bfs",
//	    CapA:     4, CapB: 3, Target: 2,
//	})
//
// Run every strategy on the same problem concurrently:
//
//	sols, err := runner.Compare(ctx, opts, search.Strategies())
package pipeline

import (
	"encoding/json"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/searchlab/pkg/cache"
	"github.com/matzehuels/searchlab/pkg/errors"
	"github.com/matzehuels/searchlab/pkg/search"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultStrategy is used when Options.Strategy is empty.
	DefaultStrategy = "astar"

	// DefaultMaxExpansions bounds a run when Options.MaxExpansions is 0.
	// The 8-puzzle has 181440 states per parity class, so this leaves
	// ample room for every built-in domain.
	DefaultMaxExpansions = 1_000_000

	// DefaultTimeout bounds a run when Options.Timeout is 0.
	DefaultTimeout = 30 * time.Second

	// DefaultQueens is the board size when Options.N is 0.
	DefaultQueens = 8

	// DefaultBoard is the puzzle start when Options.Board is empty.
	DefaultBoard = "123405678"
)

// discard is the logger options fall back to when none is given.
var discard = log.NewWithOptions(io.Discard, log.Options{})

// Domain names a problem family.
type Domain string

const (
	DomainGraph    Domain = "graph"
	DomainWaterJug Domain = "waterjug"
	DomainPuzzle   Domain = "puzzle"
	DomainQueens   Domain = "queens"
)

// Domains lists the supported domains in display order.
func Domains() []Domain {
	return []Domain{DomainGraph, DomainWaterJug, DomainPuzzle, DomainQueens}
}

// ValidateDomain checks that d is a supported domain.
func ValidateDomain(d Domain) error {
	for _, known := range Domains() {
		if d == known {
			return nil
		}
	}
	return errors.New(errors.ErrCodeInvalidDomain, "invalid domain: %q (must be one of: graph, waterjug, puzzle, queens)", d)
}

// =============================================================================
// Options - Solve Request
// =============================================================================

// Options describes one solve request. It supports JSON serialization for
// API requests.
type Options struct {
	Domain        Domain        `json:"domain"`
	Strategy      string        `json:"strategy,omitempty"`
	MaxExpansions int           `json:"max_expansions,omitempty"`
	Timeout       time.Duration `json:"timeout,omitempty"`
	Refresh       bool          `json:"refresh,omitempty"`

	// Graph options. Exactly one of Graph (an inline JSON document) and
	// GraphFile must be set.
	Graph     json.RawMessage `json:"graph,omitempty"`
	GraphFile string          `json:"graph_file,omitempty"`
	Start     string          `json:"start,omitempty"`
	Goal      string          `json:"goal,omitempty"`

	// Water jug options. They have no defaults; zero capacities are
	// rejected.
	CapA   int `json:"cap_a,omitempty"`
	CapB   int `json:"cap_b,omitempty"`
	Target int `json:"target,omitempty"`

	// Puzzle options.
	Board string `json:"board,omitempty"`

	// Queens options. All enumerates every solution instead of stopping at
	// the first one.
	N   int  `json:"n,omitempty"`
	All bool `json:"all,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	strategy  search.Strategy
	validated bool
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := ValidateDomain(o.Domain); err != nil {
		return err
	}
	if o.Strategy == "" {
		o.Strategy = DefaultStrategy
	}
	s, err := search.ParseStrategy(o.Strategy)
	if err != nil {
		return err
	}

	if o.MaxExpansions < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "max_expansions must be >= 0, got %d", o.MaxExpansions)
	}
	if o.MaxExpansions == 0 {
		o.MaxExpansions = DefaultMaxExpansions
	}
	if o.Timeout < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "timeout must be >= 0, got %s", o.Timeout)
	}
	if o.Timeout == 0 {
		o.Timeout = DefaultTimeout
	}

	switch o.Domain {
	case DomainGraph:
		if len(o.Graph) == 0 && o.GraphFile == "" {
			return errors.New(errors.ErrCodeInvalidInput, "graph or graph_file is required")
		}
		if len(o.Graph) > 0 && o.GraphFile != "" {
			return errors.New(errors.ErrCodeInvalidInput, "graph and graph_file are mutually exclusive")
		}
	case DomainPuzzle:
		if o.Board == "" {
			o.Board = DefaultBoard
		}
	case DomainQueens:
		if o.N == 0 {
			o.N = DefaultQueens
		}
	}
	if o.All {
		if o.Domain != DomainQueens {
			return errors.New(errors.ErrCodeUnsupported, "all is only supported for the queens domain")
		}
		// Enumeration always runs depth-first to exhaustion.
		s = search.DFS
	}
	o.strategy = s
	o.Strategy = s.String()

	if o.Logger == nil {
		o.Logger = discard
	}
	o.validated = true
	return nil
}

// SearchStrategy returns the parsed strategy. Valid after
// ValidateAndSetDefaults.
func (o *Options) SearchStrategy() search.Strategy { return o.strategy }

// WithStrategy returns a copy of o that runs s. The copy must be validated
// again.
func (o Options) WithStrategy(s search.Strategy) Options {
	o.Strategy = s.String()
	o.validated = false
	return o
}

// SolutionKeyOpts returns cache key options for the search parameters.
func (o *Options) SolutionKeyOpts() cache.SolutionKeyOpts {
	return cache.SolutionKeyOpts{
		Strategy:      o.Strategy,
		MaxExpansions: o.MaxExpansions,
	}
}

// =============================================================================
// Solution - Domain-independent Result
// =============================================================================

// Solution is the outcome of a solve request with states rendered as text.
type Solution struct {
	RunID    string `json:"run_id"`
	Domain   Domain `json:"domain"`
	Strategy string `json:"strategy"`
	Status   string `json:"status"`

	// Steps are the states from the initial state to the goal. Actions[i]
	// describes the transition from Steps[i] to Steps[i+1] and StepCosts[i]
	// is the cost of that transition.
	Steps     []string  `json:"steps,omitempty"`
	Actions   []string  `json:"actions,omitempty"`
	StepCosts []float64 `json:"step_costs,omitempty"`
	Cost      float64   `json:"cost"`

	// Solutions lists every solution when Options.All is set.
	Solutions []string `json:"solutions,omitempty"`

	Stats    Stats         `json:"stats"`
	Duration time.Duration `json:"duration"`
	Cached   bool          `json:"cached"`
}

// Found reports whether a goal was reached.
func (s *Solution) Found() bool { return s.Status == search.StatusFound.String() }

// Moves returns the number of transitions on the solution path.
func (s *Solution) Moves() int {
	if len(s.Steps) == 0 {
		return 0
	}
	return len(s.Steps) - 1
}

// Stats mirrors search.Stats for serialization.
type Stats struct {
	Expanded    int `json:"expanded"`
	Generated   int `json:"generated"`
	MaxFrontier int `json:"max_frontier"`
}
