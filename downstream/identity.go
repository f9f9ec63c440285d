package downstream

import "context"

// IdentityHeader is the header carrying the authenticated principal's name
// on every downstream call.
const IdentityHeader = "X-Authenticated-User"

// contextKey is used for context values in this package.
type contextKey string

const identityKey contextKey = "caller-identity"

// WithIdentity returns a context carrying the caller's authenticated
// principal name. An empty name is treated as anonymous.
func WithIdentity(ctx context.Context, principal string) context.Context {
	if principal == "" {
		return ctx
	}
	return context.WithValue(ctx, identityKey, principal)
}

// IdentityFromContext returns the authenticated principal name, if any.
func IdentityFromContext(ctx context.Context) (string, bool) {
	principal, ok := ctx.Value(identityKey).(string)
	return principal, ok && principal != ""
}
