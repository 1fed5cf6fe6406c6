package auth

import (
	"context"

	"github.com/labstack/echo/v4"
)

// Identity is the signed-in user attached to a request.
type Identity struct {
	UserID    uint   `json:"user_id"`
	Username  string `json:"username"`
	Role      string `json:"role,omitempty"`
	SessionID string `json:"-"`
}

type identityCtxKey struct{}

// IdentityContextKey is the echo context key holding the Identity.
const IdentityContextKey = "identity"

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey{}, id)
}

// IdentityFromContext returns the identity stored in ctx, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityCtxKey{}).(Identity)
	return id, ok
}

// CurrentIdentity returns the identity resolved by the session middleware.
func CurrentIdentity(c echo.Context) (Identity, bool) {
	id, ok := c.Get(IdentityContextKey).(Identity)
	return id, ok
}
