package session

import (
	"context"
	"sync"
	"time"
)

// MemoryRegistry is the in-process single-use claim on exchange codes.
// Codes are worthless minutes after the redirect completes, so entries
// older than the TTL are dropped lazily to keep the map bounded.
type MemoryRegistry struct {
	mu      sync.Mutex
	ttl     time.Duration
	claimed map[string]time.Time
}

func NewMemoryRegistry(ttl time.Duration) *MemoryRegistry {
	return &MemoryRegistry{
		ttl:     ttl,
		claimed: make(map[string]time.Time),
	}
}

// Claim marks the code as consumed. The first caller per code wins; every
// later caller gets false, even within the TTL of the same redirect.
func (r *MemoryRegistry) Claim(_ context.Context, code string) (bool, error) {
	now := time.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	for c, at := range r.claimed {
		if r.ttl > 0 && now.Sub(at) > r.ttl {
			delete(r.claimed, c)
		}
	}

	if _, taken := r.claimed[code]; taken {
		return false, nil
	}

	r.claimed[code] = now

	return true, nil
}
