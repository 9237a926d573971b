package middleware

import (
	"errors"
	"net/http"

	"github.com/angelmondragon/gigboard-backend/api/responses"
	pkgAuth "github.com/angelmondragon/gigboard-backend/pkg/auth"
	pkgerrors "github.com/angelmondragon/gigboard-backend/pkg/errors"
	"github.com/angelmondragon/gigboard-backend/pkg/logger"
)

// Auth resolves the request principal with the configured strategy and seeds
// the context with it.
func Auth(authenticator pkgAuth.Authenticator, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if authenticator == nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "authenticator unavailable"))
				return
			}

			principal, err := authenticator.Authenticate(r)
			if err != nil {
				msg := "invalid credentials"
				if errors.Is(err, pkgAuth.ErrMissingCredentials) {
					msg = "missing credentials"
				}
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthenticated, err, msg))
				return
			}

			ctx := WithPrincipal(r.Context(), principal)
			if logg != nil {
				ctx = logg.WithUserID(ctx, principal.UserID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
