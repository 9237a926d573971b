package middleware

import (
	"context"

	pkgAuth "github.com/angelmondragon/gigboard-backend/pkg/auth"
)

type principalKey struct{}

// WithPrincipal stores the authenticated caller on ctx.
func WithPrincipal(ctx context.Context, p pkgAuth.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext reports the caller set by Auth, if any.
func PrincipalFromContext(ctx context.Context) (pkgAuth.Principal, bool) {
	if ctx == nil {
		return pkgAuth.Principal{}, false
	}
	p, ok := ctx.Value(principalKey{}).(pkgAuth.Principal)
	return p, ok
}

// UserIDFromContext is "" for requests that did not pass through Auth.
func UserIDFromContext(ctx context.Context) string {
	p, _ := PrincipalFromContext(ctx)
	return p.UserID
}

func WithUserID(ctx context.Context, userID string) context.Context {
	return WithPrincipal(ctx, pkgAuth.Principal{UserID: userID})
}
