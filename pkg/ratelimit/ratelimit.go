package ratelimit

import (
	"sync"
	"time"
)

// pruneThreshold is the number of tracked keys above which Allow sweeps idle ones.
const pruneThreshold = 1024

// Limiter is a sliding-window counter keyed by client.
type Limiter struct {
	mu      sync.Mutex
	hits    map[string][]time.Time
	window  time.Duration
	maxHits int
	now     func() time.Time
}

func NewLimiter(window time.Duration, maxHits int) *Limiter {
	return &Limiter{
		hits:    make(map[string][]time.Time),
		window:  window,
		maxHits: maxHits,
		now:     time.Now,
	}
}

// Allow records a hit for key when it fits in the window. When it does not,
// the returned duration is how long until the oldest hit leaves the window.
func (l *Limiter) Allow(key string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	windowStart := now.Add(-l.window)

	if len(l.hits) > pruneThreshold {
		l.prune(windowStart)
	}

	valid := l.hits[key][:0]
	for _, hit := range l.hits[key] {
		if hit.After(windowStart) {
			valid = append(valid, hit)
		}
	}

	if len(valid) >= l.maxHits {
		l.hits[key] = valid
		if len(valid) == 0 {
			return false, l.window
		}
		return false, valid[0].Sub(windowStart)
	}

	l.hits[key] = append(valid, now)
	return true, 0
}

// Prune drops keys with no hits left in the window.
func (l *Limiter) Prune() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.prune(l.now().Add(-l.window))
}

func (l *Limiter) prune(windowStart time.Time) {
	for key, hits := range l.hits {
		if len(hits) == 0 || !hits[len(hits)-1].After(windowStart) {
			delete(l.hits, key)
		}
	}
}
