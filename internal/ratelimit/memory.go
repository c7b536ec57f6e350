package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryLimiter keeps per-identifier request timestamps in process memory.
// State lives for the lifetime of the instance and is never persisted.
type MemoryLimiter struct {
	mu      sync.Mutex
	entries map[string][]time.Time
	cfg     Config
	now     func() time.Time
}

func NewMemoryLimiter(cfg Config) *MemoryLimiter {
	return &MemoryLimiter{
		entries: make(map[string][]time.Time),
		cfg:     cfg.withDefaults(),
		now:     time.Now,
	}
}

// WithClock replaces the time source. Used by tests to simulate time.
func (l *MemoryLimiter) WithClock(now func() time.Time) *MemoryLimiter {
	l.now = now
	return l
}

func (l *MemoryLimiter) Quota() int { return l.cfg.Quota }

func (l *MemoryLimiter) Window() time.Duration { return l.cfg.Window }

// Allow drops timestamps older than the window, rejects when the remaining
// count has reached the quota, and otherwise records now and admits.
// The whole check runs under the lock so concurrent calls for one
// identifier cannot both take the last slot.
func (l *MemoryLimiter) Allow(_ context.Context, identifier string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	recent := l.live(l.entries[identifier], now)
	if len(recent) >= l.cfg.Quota {
		return false, nil
	}

	l.entries[identifier] = append(recent, now)
	return true, nil
}

// Sweep forgets identifiers with no timestamps left inside the window and
// returns how many were removed.
func (l *MemoryLimiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	removed := 0
	for id, timestamps := range l.entries {
		if len(l.live(timestamps, now)) == 0 {
			delete(l.entries, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked identifiers.
func (l *MemoryLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// live returns a new slice with the timestamps strictly younger than the window.
func (l *MemoryLimiter) live(timestamps []time.Time, now time.Time) []time.Time {
	recent := make([]time.Time, 0, len(timestamps)+1)
	for _, ts := range timestamps {
		if now.Sub(ts) < l.cfg.Window {
			recent = append(recent, ts)
		}
	}
	return recent
}

// RunSweeper calls Sweep every interval until ctx is done.
func (l *MemoryLimiter) RunSweeper(ctx context.Context, interval time.Duration, onSweep func(removed, remaining int)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed := l.Sweep()
			if onSweep != nil {
				onSweep(removed, l.Len())
			}
		}
	}
}
