package cache

import (
	"context"
	"sync"
	"time"
)

// IsStale reports whether a value computed at computedAt has outlived ttl at now
func IsStale(now, computedAt time.Time, ttl time.Duration) bool {
	return !now.Before(computedAt.Add(ttl))
}

// Memo is a time-gated single-slot cache: the value is recomputed at most once
// per ttl window unless invalidated.
type Memo[T any] struct {
	ttl time.Duration
	now func() time.Time

	mu         sync.Mutex
	value      T
	computedAt time.Time
	valid      bool
}

// NewMemo creates an empty memo
func NewMemo[T any](ttl time.Duration) *Memo[T] {
	return &Memo[T]{ttl: ttl, now: time.Now}
}

// WithClock replaces the wall clock, for tests
func (m *Memo[T]) WithClock(now func() time.Time) *Memo[T] {
	m.now = now
	return m
}

// Get returns the cached value, running compute when the slot is empty or stale.
// compute reports when its value was built; a value taken from a shared tier
// keeps its original build time, and a zero time means now. A failed compute
// leaves the slot empty.
func (m *Memo[T]) Get(ctx context.Context, compute func(ctx context.Context) (T, time.Time, error)) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if m.valid && !IsStale(now, m.computedAt, m.ttl) {
		return m.value, nil
	}

	value, builtAt, err := compute(ctx)
	if err != nil {
		var zero T
		m.value, m.valid = zero, false
		return zero, err
	}
	if builtAt.IsZero() {
		builtAt = now
	}
	m.value, m.computedAt, m.valid = value, builtAt, true
	return value, nil
}

// Invalidate drops the cached value
func (m *Memo[T]) Invalidate() {
	m.InvalidateIf(func(T) bool { return true })
}

// InvalidateIf drops the cached value when drop reports true for it
func (m *Memo[T]) InvalidateIf(drop func(T) bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.valid && drop(m.value) {
		var zero T
		m.value, m.valid = zero, false
	}
}
