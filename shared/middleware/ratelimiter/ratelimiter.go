// Package ratelimiter implements per-identity token buckets.
package ratelimiter

import (
	"context"
	"sync"
	"time"
)

type bucket struct {
	mu         sync.Mutex
	tokens     float64
	lastRefill time.Time
	lastSeen   time.Time
}

// Limiter holds one token bucket per identity. Buckets idle for longer than
// idleTTL are dropped by Sweep.
type Limiter struct {
	mu       sync.RWMutex
	buckets  map[string]*bucket
	rate     float64 // tokens per second
	capacity float64
	idleTTL  time.Duration
	now      func() time.Time
}

func New(rate float64, capacity int, idleTTL time.Duration) *Limiter {
	return &Limiter{
		buckets:  make(map[string]*bucket),
		rate:     rate,
		capacity: float64(capacity),
		idleTTL:  idleTTL,
		now:      time.Now,
	}
}

func (l *Limiter) get(identity string, now time.Time) *bucket {
	l.mu.RLock()
	b, ok := l.buckets[identity]
	l.mu.RUnlock()
	if ok {
		return b
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if b, ok = l.buckets[identity]; ok {
		return b
	}
	b = &bucket{tokens: l.capacity, lastRefill: now, lastSeen: now}
	l.buckets[identity] = b
	return b
}

// Allow takes one token from the identity's bucket.
func (l *Limiter) Allow(identity string) bool {
	now := l.now()
	b := l.get(identity, now)

	b.mu.Lock()
	defer b.mu.Unlock()

	b.tokens += now.Sub(b.lastRefill).Seconds() * l.rate
	if b.tokens > l.capacity {
		b.tokens = l.capacity
	}
	b.lastRefill = now
	b.lastSeen = now

	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// Sweep drops idle buckets and returns how many were removed.
func (l *Limiter) Sweep() int {
	cutoff := l.now().Add(-l.idleTTL)

	l.mu.Lock()
	defer l.mu.Unlock()
	removed := 0
	for id, b := range l.buckets {
		b.mu.Lock()
		idle := b.lastSeen.Before(cutoff)
		b.mu.Unlock()
		if idle {
			delete(l.buckets, id)
			removed++
		}
	}
	return removed
}

// Run sweeps every interval until ctx is done.
func (l *Limiter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Sweep()
		}
	}
}

func (l *Limiter) size() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.buckets)
}
