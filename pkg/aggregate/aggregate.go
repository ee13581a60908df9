package aggregate

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// SourceResult records the outcome of a single source fetch
type SourceResult struct {
	// Source is the caller-supplied source name
	Source string
	// Err is the fetch error, nil on success
	Err error
	// FellBack is true when the default value was used
	FellBack bool
	// Duration is how long the fetch took
	Duration time.Duration
}

// Group fans out independent source fetches and collects per-source
// outcomes. A failed or slow source degrades to its fallback value; the
// group as a whole never fails.
type Group struct {
	timeout time.Duration
	wg      sync.WaitGroup

	mu      sync.Mutex
	results []SourceResult
}

// NewGroup creates a Group. perSourceTimeout caps each fetch; zero means
// the fetch runs with the caller's context deadline only.
func NewGroup(perSourceTimeout time.Duration) *Group {
	return &Group{timeout: perSourceTimeout}
}

// Assign launches fetch for a named source and writes the result into dst.
// On error, timeout, or panic, dst receives fallback instead. dst must not
// be read until Wait returns.
func Assign[T any](ctx context.Context, g *Group, dst *T, source string, fallback T, fetch func(context.Context) (T, error)) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()

		start := time.Now()

		fctx := ctx
		var cancel context.CancelFunc
		if g.timeout > 0 {
			fctx, cancel = context.WithTimeout(ctx, g.timeout)
			defer cancel()
		}

		value, err := safeFetch(fctx, fetch)
		if err != nil {
			value = fallback
		}

		*dst = value
		g.record(SourceResult{
			Source:   source,
			Err:      err,
			FellBack: err != nil,
			Duration: time.Since(start),
		})
	}()
}

// safeFetch runs fetch, converting a panic into an error so one bad
// source cannot take down the aggregation
func safeFetch[T any](ctx context.Context, fetch func(context.Context) (T, error)) (value T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("source panicked: %v", r)
		}
	}()
	return fetch(ctx)
}

func (g *Group) record(r SourceResult) {
	g.mu.Lock()
	g.results = append(g.results, r)
	g.mu.Unlock()
}

// Wait blocks until every assigned source has finished and returns the
// per-source outcomes
func (g *Group) Wait() []SourceResult {
	g.wg.Wait()
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]SourceResult, len(g.results))
	copy(out, g.results)
	return out
}

// Degraded reports whether any source fell back to its default
func Degraded(results []SourceResult) bool {
	for _, r := range results {
		if r.FellBack {
			return true
		}
	}
	return false
}

// FailedSources returns the names of sources that fell back
func FailedSources(results []SourceResult) []string {
	var failed []string
	for _, r := range results {
		if r.FellBack {
			failed = append(failed, r.Source)
		}
	}
	return failed
}
