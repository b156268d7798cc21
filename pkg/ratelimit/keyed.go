// Package ratelimit spaces out calls per key.
package ratelimit

import (
	"container/list"
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type entry struct {
	key     string
	limiter *rate.Limiter
}

// KeyedLimiter holds one limiter per key, each allowing a call every interval.
// At most capacity keys are tracked; the least recently used key is dropped
// when a new one arrives.
type KeyedLimiter struct {
	mu       sync.Mutex
	interval time.Duration
	capacity int
	order    *list.List
	entries  map[string]*list.Element
}

// NewKeyedLimiter creates a KeyedLimiter. A non-positive capacity means 1.
func NewKeyedLimiter(interval time.Duration, capacity int) *KeyedLimiter {
	if capacity <= 0 {
		capacity = 1
	}
	return &KeyedLimiter{
		interval: interval,
		capacity: capacity,
		order:    list.New(),
		entries:  make(map[string]*list.Element, capacity),
	}
}

// Wait blocks until a call for key is allowed or ctx is done.
func (k *KeyedLimiter) Wait(ctx context.Context, key string) error {
	return k.limiter(key).Wait(ctx)
}

// Allow reports whether a call for key may happen now, consuming the slot if so.
func (k *KeyedLimiter) Allow(key string) bool {
	return k.limiter(key).Allow()
}

// Len returns the number of tracked keys.
func (k *KeyedLimiter) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.order.Len()
}

func (k *KeyedLimiter) limiter(key string) *rate.Limiter {
	k.mu.Lock()
	defer k.mu.Unlock()

	if el, ok := k.entries[key]; ok {
		k.order.MoveToFront(el)
		return el.Value.(*entry).limiter
	}

	if k.order.Len() >= k.capacity {
		oldest := k.order.Back()
		k.order.Remove(oldest)
		delete(k.entries, oldest.Value.(*entry).key)
	}

	limit := rate.Inf
	if k.interval > 0 {
		limit = rate.Every(k.interval)
	}
	e := &entry{key: key, limiter: rate.NewLimiter(limit, 1)}
	k.entries[key] = k.order.PushFront(e)
	return e.limiter
}
