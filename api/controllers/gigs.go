package controllers

import (
	"net/http"

	"github.com/angelmondragon/gigboard-backend/api/middleware"
	"github.com/angelmondragon/gigboard-backend/api/responses"
	"github.com/angelmondragon/gigboard-backend/api/validators"
	"github.com/angelmondragon/gigboard-backend/internal/gigs"
	pkgerrors "github.com/angelmondragon/gigboard-backend/pkg/errors"
	"github.com/angelmondragon/gigboard-backend/pkg/logger"
	"github.com/angelmondragon/gigboard-backend/pkg/pagination"
)

const maxSearchLen = 100

// GigList returns gigs newest first with optional tag, text and payout filters.
func GigList(svc gigs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "gig service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		minPayout, err := validators.ParseQueryInt64(r, "minPayout")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		maxPayout, err := validators.ParseQueryInt64(r, "maxPayout")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		query := r.URL.Query()
		result, err := svc.List(ctx, gigs.ListFilter{
			Tag:       validators.SanitizeString(query.Get("tag"), maxSearchLen),
			Query:     validators.SanitizeString(query.Get("q"), maxSearchLen),
			MinPayout: minPayout,
			MaxPayout: maxPayout,
			Limit:     limit,
			Cursor:    validators.SanitizeString(query.Get("cursor"), 0),
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func GigTags(svc gigs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "gig service unavailable"))
			return
		}
		tags, err := svc.Tags(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, tags)
	}
}

func GigGet(svc gigs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "gig service unavailable"))
			return
		}
		gigID, err := validators.ParseUUIDParam(r, "gigId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		gig, err := svc.Get(ctx, gigID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, gig)
	}
}

// GigCreate publishes a gig authored by the caller.
func GigCreate(svc gigs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "gig service unavailable"))
			return
		}

		var input gigs.CreateGigInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		gig, err := svc.Create(ctx, middleware.UserIDFromContext(ctx), input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, gig)
	}
}
