package cache

import "strings"

// SolutionKeyOpts are the inputs that determine a search solution besides the
// problem itself.
type SolutionKeyOpts struct {
	Strategy      string `json:"strategy"`
	MaxExpansions int    `json:"max_expansions,omitempty"`
}

// RenderKeyOpts are the inputs that determine a rendered graph image.
type RenderKeyOpts struct {
	Format        string   `json:"format"`
	Path          []string `json:"path,omitempty"`
	ShowHeuristic bool     `json:"show_heuristic,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	// SolutionKey identifies a solution for a problem digest, usually the
	// hash of the problem's canonical encoding.
	SolutionKey(domain, problemHash string, opts SolutionKeyOpts) string
	// RenderKey identifies a rendered graph for a graph digest.
	RenderKey(graphHash string, opts RenderKeyOpts) string
}

// DefaultKeyer produces keys of the form "kind:domain:sha256".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default key scheme.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) SolutionKey(domain, problemHash string, opts SolutionKeyOpts) string {
	return hashKey("solution:"+strings.ToLower(domain), problemHash, opts)
}

func (DefaultKeyer) RenderKey(graphHash string, opts RenderKeyOpts) string {
	return hashKey("render:"+strings.ToLower(opts.Format), graphHash, opts)
}
