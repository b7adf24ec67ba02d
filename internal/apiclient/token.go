package apiclient

import "context"

type contextKey string

const tokenKey contextKey = "bearer_token"

// ContextWithToken attaches the bearer token calls made with ctx will send.
func ContextWithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey, token)
}

// TokenFromContext returns the bearer token on ctx, or "".
func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}
