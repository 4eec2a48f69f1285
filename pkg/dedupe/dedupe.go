// Package dedupe collapses duplicate concurrent operations. An invocation
// whose key matches one already in flight joins the pending call instead of
// starting a new one, and a settled result stays observable for a short
// window so near-simultaneous repeats (a double-fired UI handler, say) see
// the same outcome rather than re-triggering the remote operation.
package dedupe

import (
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultWindow is how long a settled result remains observable.
const DefaultWindow = 500 * time.Millisecond

// gcThreshold bounds how large the settled-result table may grow before a
// Do call sweeps expired entries.
const gcThreshold = 64

type settled struct {
	val any
	err error
	at  time.Time
}

// Group deduplicates calls by key. The zero value is not usable; use New.
type Group struct {
	window time.Duration
	flight singleflight.Group

	mu     sync.Mutex
	recent map[string]settled
}

// New returns a Group that keeps settled results for the given window. A
// non-positive window falls back to DefaultWindow.
func New(window time.Duration) *Group {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Group{
		window: window,
		recent: make(map[string]settled),
	}
}

// Do invokes fn unless an equal-keyed call is pending or settled within the
// window, in which case that call's result is returned instead. Errors are
// deduplicated the same way as values: a rejected call's repeat observes
// the same rejection.
func (g *Group) Do(key string, fn func() (any, error)) (any, error) {
	g.mu.Lock()
	if s, ok := g.recent[key]; ok {
		if time.Since(s.at) < g.window {
			g.mu.Unlock()
			return s.val, s.err
		}
		delete(g.recent, key)
	}
	if len(g.recent) > gcThreshold {
		g.sweepLocked()
	}
	g.mu.Unlock()

	val, err, _ := g.flight.Do(key, func() (any, error) {
		val, err := fn()
		g.mu.Lock()
		g.recent[key] = settled{val: val, err: err, at: time.Now()}
		g.mu.Unlock()
		return val, err
	})
	return val, err
}

// Forget drops any settled result for key so the next call runs fn again.
// Pending calls are unaffected.
func (g *Group) Forget(key string) {
	g.mu.Lock()
	delete(g.recent, key)
	g.mu.Unlock()
}

// sweepLocked removes expired settled results. Caller holds g.mu.
func (g *Group) sweepLocked() {
	now := time.Now()
	for k, s := range g.recent {
		if now.Sub(s.at) >= g.window {
			delete(g.recent, k)
		}
	}
}

// Do is the typed convenience form of Group.Do.
func Do[T any](g *Group, key string, fn func() (T, error)) (T, error) {
	val, err := g.Do(key, func() (any, error) {
		return fn()
	})
	if val == nil {
		var zero T
		return zero, err
	}
	return val.(T), err
}
