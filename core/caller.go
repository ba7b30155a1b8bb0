package core

import "context"

type callerKey struct{}

// WithCaller context with the principal performing the call
func WithCaller(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, callerKey{}, userID)
}

// CallerFrom get the caller from context
func CallerFrom(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(callerKey{}).(string)
	return userID, ok && userID != ""
}
