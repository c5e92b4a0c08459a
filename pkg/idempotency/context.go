package idempotency

import "context"

type contextKey struct{}

// FromContext retrieves the idempotency key from context.
func FromContext(ctx context.Context) (string, bool) {
	key, ok := ctx.Value(contextKey{}).(string)

	return key, ok && key != ""
}

// WithKey returns a new context carrying the idempotency key.
func WithKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, contextKey{}, key)
}
