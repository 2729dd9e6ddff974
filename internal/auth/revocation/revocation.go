// Package revocation tracks session tokens that were ended before their
// natural expiry. Entries are keyed by the token's jti and only need to
// live until the token would have expired anyway.
package revocation

import (
	"context"
	"time"
)

// Backend identifiers accepted by configuration.
const (
	BackendNone   = "none"
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// List is a deny list of token ids.
type List interface {
	// Revoke denies jti for ttl. A non-positive ttl is a no-op.
	Revoke(ctx context.Context, jti string, ttl time.Duration) error

	// IsRevoked reports whether jti is currently denied.
	IsRevoked(ctx context.Context, jti string) (bool, error)

	// Ping checks the backend is reachable.
	Ping(ctx context.Context) error
}

// Noop never revokes anything. Sessions then end only by expiry, and
// logout just clears the cookie.
type Noop struct{}

func (Noop) Revoke(context.Context, string, time.Duration) error { return nil }
func (Noop) IsRevoked(context.Context, string) (bool, error)     { return false, nil }
func (Noop) Ping(context.Context) error                          { return nil }
