package callerctx

import (
	"context"
	"strings"
)

type contextKey struct{}

// WithEmail stores the authenticated caller's email on the context.
// The identity layer in front of the service is responsible for having
// verified it.
func WithEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, contextKey{}, strings.ToLower(strings.TrimSpace(email)))
}

func EmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(contextKey{}).(string)
	if !ok || email == "" {
		return "", false
	}
	return email, true
}
