package ratelimit

import (
	"context"
	"sync"
	"time"
)

type window struct {
	count   int
	resetAt time.Time
}

// MemoryLimiter keeps counters in a mutex-guarded map. Limits are per process.
type MemoryLimiter struct {
	mu        sync.Mutex
	max       int
	window    time.Duration
	windows   map[string]*window
	now       func() time.Time
	lastSweep time.Time
}

func NewMemoryLimiter(max int, win time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		max:     max,
		window:  win,
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

func (m *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.sweep(now)

	w, ok := m.windows[key]
	if !ok || !now.Before(w.resetAt) {
		w = &window{resetAt: now.Add(m.window)}
		m.windows[key] = w
	}
	w.count++
	return w.count <= m.max, nil
}

// sweep drops expired windows at most once per window length.
func (m *MemoryLimiter) sweep(now time.Time) {
	if now.Sub(m.lastSweep) < m.window {
		return
	}
	for key, w := range m.windows {
		if !now.Before(w.resetAt) {
			delete(m.windows, key)
		}
	}
	m.lastSweep = now
}

func (m *MemoryLimiter) Close() error { return nil }
