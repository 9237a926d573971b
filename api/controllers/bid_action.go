package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/gigboard-backend/api/middleware"
	"github.com/angelmondragon/gigboard-backend/api/responses"
	"github.com/angelmondragon/gigboard-backend/api/validators"
	"github.com/angelmondragon/gigboard-backend/internal/bids"
	pkgerrors "github.com/angelmondragon/gigboard-backend/pkg/errors"
	"github.com/angelmondragon/gigboard-backend/pkg/logger"
)

type bidRef struct {
	id     uuid.UUID
	caller string
}

// bidAction resolves {bidId} and the caller before running fn.
func bidAction(svc bids.Service, logg *logger.Logger, fn func(*http.Request, bids.Service, bidRef) (*bids.BidDTO, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "bid service unavailable"))
			return
		}
		bidID, err := validators.ParseUUIDParam(r, "bidId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if logg != nil {
			ctx = logg.WithBidID(ctx, bidID.String())
			r = r.WithContext(ctx)
		}

		bid, err := fn(r, svc, bidRef{id: bidID, caller: middleware.UserIDFromContext(ctx)})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, bid)
	}
}
