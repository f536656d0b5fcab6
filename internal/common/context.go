package common

import "context"

// UserContext carries the authenticated identity through a request.
type UserContext struct {
	Username string
	Role     string
}

type userContextKey struct{}

// WithUserContext returns a context carrying the given user identity.
func WithUserContext(ctx context.Context, uc *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey{}, uc)
}

// UserContextFrom extracts the user identity from a context, if present.
func UserContextFrom(ctx context.Context) (*UserContext, bool) {
	uc, ok := ctx.Value(userContextKey{}).(*UserContext)
	return uc, ok && uc != nil
}
