package session

import (
	"sync"
	"time"
)

// Context owns the current identity for the lifetime of a signed-in
// session. It is created empty, begun on a successful exchange or a
// prior-session restore, and ended on logout or auth failure. Nothing else
// holds the identity as ambient global state.
type Context struct {
	mu        sync.RWMutex
	identity  *Identity
	expiresAt time.Time
}

func NewContext() *Context {
	return &Context{}
}

// Begin installs the identity. When the session token is a JWT its expiry
// bounds the session; otherwise the session lives until End.
func (c *Context) Begin(identity *Identity) {
	var expiresAt time.Time
	if exp, ok := TokenExpiry(identity.SessionToken); ok {
		expiresAt = exp
	}

	c.mu.Lock()
	c.identity = identity
	c.expiresAt = expiresAt
	c.mu.Unlock()
}

// Current returns the signed-in identity, or false when signed out or
// expired.
func (c *Context) Current() (*Identity, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.identity == nil {
		return nil, false
	}

	if !c.expiresAt.IsZero() && time.Now().After(c.expiresAt) {
		return nil, false
	}

	return c.identity, true
}

// End tears the session down.
func (c *Context) End() {
	c.mu.Lock()
	c.identity = nil
	c.expiresAt = time.Time{}
	c.mu.Unlock()
}
