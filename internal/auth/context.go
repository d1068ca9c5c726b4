// Package auth covers password hashing, token handling and the authenticated
// principal of a request.
package auth

import "context"

// Principal is the authenticated caller.
type Principal struct {
	UserID int64
	Email  string
	Role   string
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom reports false for anonymous requests.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
