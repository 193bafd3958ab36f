package retry

import (
	"context"
	"sync"
	"time"
)

// RateLimiter is a token bucket limiter. The bucket starts full and
// refills at refillRate tokens per second.
type RateLimiter struct {
	mu         sync.Mutex
	tokens     float64
	maxTokens  float64
	refillRate float64
	lastRefill time.Time
}

// NewRateLimiter creates a limiter allowing ratePerSecond requests
// per second with a burst capacity of the same size.
func NewRateLimiter(ratePerSecond float64) *RateLimiter {
	return &RateLimiter{
		tokens:     ratePerSecond,
		maxTokens:  ratePerSecond,
		refillRate: ratePerSecond,
		lastRefill: time.Now(),
	}
}

// Wait blocks until a token is available or the context is cancelled.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	for {
		if d := rl.take(); d <= 0 {
			return nil
		} else {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(d):
			}
		}
	}
}

// take consumes a token if one is available, otherwise returns how
// long to wait before trying again.
func (rl *RateLimiter) take() time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(rl.lastRefill).Seconds()
	rl.tokens += elapsed * rl.refillRate
	if rl.tokens > rl.maxTokens {
		rl.tokens = rl.maxTokens
	}
	rl.lastRefill = now

	if rl.tokens >= 1 {
		rl.tokens--
		return 0
	}

	deficit := 1 - rl.tokens
	return time.Duration(deficit / rl.refillRate * float64(time.Second))
}
