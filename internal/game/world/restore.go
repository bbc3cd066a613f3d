package world

import (
	"slices"
	"sync"
	"time"

	"github.com/cory-johannsen/giftrun/internal/game/level"
)

// restoreEntry is one scheduled brick restore.
type restoreEntry struct {
	at      level.Point
	readyAt time.Time
}

// RestoreQueue holds brick restores keyed by deadline. It is polled, never
// timer driven: Due hands back whatever has come due at the given instant.
// It is safe for concurrent use.
type RestoreQueue struct {
	mu      sync.Mutex
	pending []restoreEntry
}

// NewRestoreQueue returns an empty queue.
func NewRestoreQueue() *RestoreQueue {
	return &RestoreQueue{}
}

// Schedule enqueues a restore of p at now+delay. No-op when delay <= 0.
//
// Postcondition: an entry with readyAt = now+delay is pending iff delay > 0.
func (q *RestoreQueue) Schedule(p level.Point, now time.Time, delay time.Duration) {
	if delay <= 0 {
		return
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = append(q.pending, restoreEntry{at: p, readyAt: now.Add(delay)})
}

// Due removes and returns every entry whose deadline is <= now, earliest
// deadline first; equal deadlines keep scheduling order.
func (q *RestoreQueue) Due(now time.Time) []level.Point {
	q.mu.Lock()
	var ready, future []restoreEntry
	for _, e := range q.pending {
		if !e.readyAt.After(now) {
			ready = append(ready, e)
		} else {
			future = append(future, e)
		}
	}
	q.pending = future
	q.mu.Unlock()

	slices.SortStableFunc(ready, func(a, b restoreEntry) int {
		return a.readyAt.Compare(b.readyAt)
	})
	out := make([]level.Point, len(ready))
	for i, e := range ready {
		out[i] = e.at
	}
	return out
}

// Len returns the number of pending restores.
func (q *RestoreQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Next returns the earliest pending deadline.
func (q *RestoreQueue) Next() (time.Time, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	var next time.Time
	for i, e := range q.pending {
		if i == 0 || e.readyAt.Before(next) {
			next = e.readyAt
		}
	}
	return next, len(q.pending) > 0
}
