package store

import "context"

type ctxKey struct{}

// WithConn stores the request scoped connection on ctx.
func WithConn(ctx context.Context, c Conn) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

// ConnFromContext returns the connection put there by WithConn.
func ConnFromContext(ctx context.Context) (Conn, bool) {
	c, ok := ctx.Value(ctxKey{}).(Conn)
	return c, ok
}
