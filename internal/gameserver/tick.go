package gameserver

import (
	"context"
	"slices"
	"sync"
	"time"
)

// TickManager runs a periodic tick for each registered level. Callbacks run
// sequentially on the manager's goroutine in level id order.
//
// Invariant: each callback is invoked at most once per interval.
type TickManager struct {
	interval time.Duration
	now      func() time.Time
	mu       sync.Mutex
	ticks    map[string]func(time.Time)
}

// NewTickManager returns a manager that fires ticks every interval.
//
// Precondition: interval must be > 0.
func NewTickManager(interval time.Duration) *TickManager {
	if interval <= 0 {
		panic("gameserver.NewTickManager: interval must be > 0")
	}
	return &TickManager{
		interval: interval,
		now:      time.Now,
		ticks:    make(map[string]func(time.Time)),
	}
}

// Interval returns the tick period.
func (m *TickManager) Interval() time.Duration { return m.interval }

// RegisterTick registers a callback for levelID. Replaces any existing
// callback.
func (m *TickManager) RegisterTick(levelID string, fn func(now time.Time)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ticks[levelID] = fn
}

// TickAll invokes every registered callback once with now.
func (m *TickManager) TickAll(now time.Time) {
	m.mu.Lock()
	ids := make([]string, 0, len(m.ticks))
	for id := range m.ticks {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	callbacks := make([]func(time.Time), len(ids))
	for i, id := range ids {
		callbacks[i] = m.ticks[id]
	}
	m.mu.Unlock()
	for _, fn := range callbacks {
		fn(now)
	}
}

// Run ticks until ctx is cancelled.
//
// Postcondition: Returns nil once ctx is done.
func (m *TickManager) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			m.TickAll(m.now())
		}
	}
}
