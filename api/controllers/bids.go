package controllers

import (
	"net/http"

	"github.com/angelmondragon/gigboard-backend/api/middleware"
	"github.com/angelmondragon/gigboard-backend/api/responses"
	"github.com/angelmondragon/gigboard-backend/api/validators"
	"github.com/angelmondragon/gigboard-backend/internal/bids"
	pkgerrors "github.com/angelmondragon/gigboard-backend/pkg/errors"
	"github.com/angelmondragon/gigboard-backend/pkg/logger"
)

func BidCreate(svc bids.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "bid service unavailable"))
			return
		}
		gigID, err := validators.ParseUUIDParam(r, "gigId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		var input bids.CreateBidInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		bid, err := svc.Create(ctx, gigID, middleware.UserIDFromContext(ctx), input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, bid)
	}
}

// BidListByGig shows the author every bid and other callers only their own.
func BidListByGig(svc bids.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "bid service unavailable"))
			return
		}
		gigID, err := validators.ParseUUIDParam(r, "gigId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		list, err := svc.ListByGig(ctx, gigID, middleware.UserIDFromContext(ctx))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func BidListMine(svc bids.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "bid service unavailable"))
			return
		}
		list, err := svc.ListByUser(ctx, middleware.UserIDFromContext(ctx))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func BidGet(svc bids.Service, logg *logger.Logger) http.HandlerFunc {
	return bidAction(svc, logg, func(r *http.Request, s bids.Service, bid bidRef) (*bids.BidDTO, error) {
		return s.Get(r.Context(), bid.id, bid.caller)
	})
}

func BidUpdate(svc bids.Service, logg *logger.Logger) http.HandlerFunc {
	return bidAction(svc, logg, func(r *http.Request, s bids.Service, bid bidRef) (*bids.BidDTO, error) {
		var input bids.UpdateBidInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			return nil, err
		}
		return s.Update(r.Context(), bid.id, bid.caller, input)
	})
}

func BidCounter(svc bids.Service, logg *logger.Logger) http.HandlerFunc {
	return bidAction(svc, logg, func(r *http.Request, s bids.Service, bid bidRef) (*bids.BidDTO, error) {
		var input bids.CounterBidInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			return nil, err
		}
		return s.Counter(r.Context(), bid.id, bid.caller, input)
	})
}

func BidReject(svc bids.Service, logg *logger.Logger) http.HandlerFunc {
	return bidAction(svc, logg, func(r *http.Request, s bids.Service, bid bidRef) (*bids.BidDTO, error) {
		return s.Reject(r.Context(), bid.id, bid.caller)
	})
}

// BidAccept accepts the bid and opens its charge.
func BidAccept(svc bids.Service, logg *logger.Logger) http.HandlerFunc {
	return bidAction(svc, logg, func(r *http.Request, s bids.Service, bid bidRef) (*bids.BidDTO, error) {
		return s.Accept(r.Context(), bid.id, bid.caller)
	})
}
