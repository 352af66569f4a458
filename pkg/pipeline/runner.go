package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/searchlab/pkg/cache"
	"github.com/matzehuels/searchlab/pkg/observability"
	"github.com/matzehuels/searchlab/pkg/search"
)

// Runner executes solve requests with caching.
// Both CLI and API use it so that caching and logging behave the same.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	// TTL is the lifetime of cached solutions; 0 uses cache.TTLSolution.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute validates opts, builds the problem and runs the search, consulting
// the cache first unless opts.Refresh is set.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Solution, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	j, err := build(&opts)
	if err != nil {
		return nil, err
	}
	key := r.Keyer.SolutionKey(string(opts.Domain), j.digest, opts.SolutionKeyOpts())
	runID := uuid.NewString()
	logger := opts.Logger.With("run", runID[:8], "domain", opts.Domain, "strategy", opts.Strategy)

	if !opts.Refresh {
		if sol, ok := r.lookup(ctx, key); ok {
			sol.RunID = runID
			sol.Cached = true
			logger.Debug("solution from cache", "status", sol.Status)
			return sol, nil
		}
	}

	runCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	start := time.Now()
	sol, err := j.run(runCtx, opts.SearchStrategy(), search.WithMaxExpansions(opts.MaxExpansions))
	if err != nil {
		logger.Warn("search failed", "err", err, "duration", time.Since(start))
		return nil, err
	}
	sol.RunID = runID
	sol.Domain = opts.Domain
	sol.Strategy = opts.Strategy
	sol.Duration = time.Since(start)

	logger.Info("search finished",
		"status", sol.Status,
		"cost", sol.Cost,
		"expanded", sol.Stats.Expanded,
		"duration", sol.Duration)

	r.store(ctx, key, sol)
	return sol, nil
}

func (r *Runner) lookup(ctx context.Context, key string) (*Solution, bool) {
	hooks := observability.Cache()
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		if err != nil {
			r.Logger.Warn("cache read failed", "err", err)
		}
		hooks.OnCacheMiss(ctx, "solution")
		return nil, false
	}
	var sol Solution
	if err := json.Unmarshal(data, &sol); err != nil {
		hooks.OnCacheMiss(ctx, "solution")
		return nil, false
	}
	hooks.OnCacheHit(ctx, "solution")
	return &sol, true
}

func (r *Runner) store(ctx context.Context, key string, sol *Solution) {
	data, err := json.Marshal(sol)
	if err != nil {
		return
	}
	ttl := r.TTL
	if ttl == 0 {
		ttl = cache.TTLSolution
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "solution", len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if the caller left the
// discard default in place.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil || opts.Logger == discard {
		opts.Logger = r.Logger
	}
}

// String summarizes a solution on one line.
func (s *Solution) String() string {
	if !s.Found() {
		return fmt.Sprintf("%s/%s: exhausted after %d expansions", s.Domain, s.Strategy, s.Stats.Expanded)
	}
	if len(s.Solutions) > 0 {
		return fmt.Sprintf("%s/%s: %d solutions", s.Domain, s.Strategy, len(s.Solutions))
	}
	return fmt.Sprintf("%s/%s: %d moves, cost %g, %d expansions", s.Domain, s.Strategy, s.Moves(), s.Cost, s.Stats.Expanded)
}
