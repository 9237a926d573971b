package controllers

import (
	"net/http"

	"github.com/angelmondragon/gigboard-backend/api/middleware"
	"github.com/angelmondragon/gigboard-backend/api/responses"
	"github.com/angelmondragon/gigboard-backend/api/validators"
	"github.com/angelmondragon/gigboard-backend/internal/claims"
	pkgerrors "github.com/angelmondragon/gigboard-backend/pkg/errors"
	"github.com/angelmondragon/gigboard-backend/pkg/logger"
)

// ClaimCreate opens a pending charge for a gig on behalf of the caller.
func ClaimCreate(svc claims.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "claim service unavailable"))
			return
		}

		var input claims.CreateClaimInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		charge, err := svc.Create(ctx, middleware.UserIDFromContext(ctx), input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, charge)
	}
}
