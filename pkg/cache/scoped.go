package cache

// ScopedKeyer wraps a Keyer with a prefix so that several deployments or
// users can share one backend without colliding.
//
//	serverKeyer := NewScopedKeyer(NewDefaultKeyer(), "api:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer falls back
// to DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// SolutionKey generates a prefixed solution key.
func (k *ScopedKeyer) SolutionKey(domain, problemHash string, opts SolutionKeyOpts) string {
	return k.prefix + k.inner.SolutionKey(domain, problemHash, opts)
}

// RenderKey generates a prefixed render key.
func (k *ScopedKeyer) RenderKey(graphHash string, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(graphHash, opts)
}
