// Package ratelimit implements a token-bucket limiter used to pace calls
// to the upstream market-data provider.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

type bucket struct {
	tokens     float64
	capacity   float64
	refillRate float64 // tokens per second
	last       time.Time
}

type Limiter struct {
	mu sync.Mutex
	m  map[string]*bucket
}

func New() *Limiter { return &Limiter{m: make(map[string]*bucket)} }

// Allow returns true if one token can be consumed for key.
func (l *Limiter) Allow(key string, capacity, refillPerSec float64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.take(key, capacity, refillPerSec)
}

// Wait blocks until a token is available for key or the context ends.
func (l *Limiter) Wait(ctx context.Context, key string, capacity, refillPerSec float64) error {
	for {
		l.mu.Lock()
		ok := l.take(key, capacity, refillPerSec)
		l.mu.Unlock()
		if ok {
			return nil
		}

		// Interval to accrue one token, bounded so ctx stays responsive.
		delay := time.Second
		if refillPerSec > 0 {
			delay = time.Duration(float64(time.Second) / refillPerSec)
		}
		if delay > time.Second {
			delay = time.Second
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}

func (l *Limiter) take(key string, capacity, refillPerSec float64) bool {
	now := time.Now()
	b, ok := l.m[key]
	if !ok {
		b = &bucket{tokens: capacity, capacity: capacity, refillRate: refillPerSec, last: now}
		l.m[key] = b
	}
	if elapsed := now.Sub(b.last).Seconds(); elapsed > 0 {
		b.tokens += elapsed * b.refillRate
		if b.tokens > b.capacity {
			b.tokens = b.capacity
		}
		b.last = now
	}
	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}
