package httpapi

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// keyedLimiter hands out a token-bucket limiter per key (client IP, account
// email). Buckets idle past the expiry window are swept so the map stays
// bounded.
type keyedLimiter struct {
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	entries map[string]*limiterEntry

	lastSweep time.Time
	now       func() time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

const limiterIdleExpiry = 10 * time.Minute

func newKeyedLimiter(limit rate.Limit, burst int) *keyedLimiter {
	return &keyedLimiter{
		limit:   limit,
		burst:   burst,
		entries: make(map[string]*limiterEntry),
		now:     time.Now,
	}
}

// Allow reports whether an event for key may proceed now.
func (k *keyedLimiter) Allow(key string) bool {
	k.mu.Lock()
	defer k.mu.Unlock()

	now := k.now()
	if now.Sub(k.lastSweep) > limiterIdleExpiry {
		for key, e := range k.entries {
			if now.Sub(e.lastSeen) > limiterIdleExpiry {
				delete(k.entries, key)
			}
		}
		k.lastSweep = now
	}

	e, ok := k.entries[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(k.limit, k.burst)}
		k.entries[key] = e
	}
	e.lastSeen = now

	return e.limiter.Allow()
}
