package middleware

// identity.go carries the authenticated user on the request context.

import (
	"context"

	"github.com/iliyamo/session-auth/internal/model"
)

type userKey struct{}

// WithUser returns a copy of ctx carrying u.
func WithUser(ctx context.Context, u model.User) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

// UserFrom returns the user stored by SessionAuth. ok is false on routes
// the gate does not protect.
func UserFrom(ctx context.Context) (model.User, bool) {
	u, ok := ctx.Value(userKey{}).(model.User)
	return u, ok
}
