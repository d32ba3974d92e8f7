// Package cache provides a small in-process TTL cache for configuration that
// is read on every request but changes rarely. It is deliberately tiny: a
// single cached value with get/set/invalidate, safe for concurrent use, so it
// can be unit-tested and later swapped for a distributed cache.
package cache

import (
	"sync"
	"time"
)

// Value caches a single value of type T for at most a TTL. The zero-ish state
// (nothing set, or expired, or invalidated) reports a miss.
type Value[T any] struct {
	mu       sync.RWMutex
	data     T
	storedAt time.Time
	present  bool

	ttl time.Duration
	now func() time.Time // overridable in tests
}

// NewValue creates an empty cache with the given TTL. A non-positive TTL
// disables caching entirely (every Get is a miss).
func NewValue[T any](ttl time.Duration) *Value[T] {
	return &Value[T]{ttl: ttl, now: time.Now}
}

// Get returns the cached value and whether it is still fresh.
func (v *Value[T]) Get() (T, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	var zero T
	if !v.present || v.ttl <= 0 {
		return zero, false
	}
	if v.now().Sub(v.storedAt) > v.ttl {
		return zero, false
	}
	return v.data, true
}

// Set stores a fresh value.
func (v *Value[T]) Set(data T) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.data = data
	v.storedAt = v.now()
	v.present = true
}

// Invalidate discards the cached value. Administrative writes call this
// synchronously after persisting a config change so stale policy is never
// served for longer than the write itself.
func (v *Value[T]) Invalidate() {
	v.mu.Lock()
	defer v.mu.Unlock()
	var zero T
	v.data = zero
	v.present = false
}

// TTL returns the configured time-to-live.
func (v *Value[T]) TTL() time.Duration {
	return v.ttl
}
