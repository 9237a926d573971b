package webhooks

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/angelmondragon/gigboard-backend/api/responses"
	"github.com/angelmondragon/gigboard-backend/internal/webhooks/paystack"
	"github.com/angelmondragon/gigboard-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/gigboard-backend/pkg/errors"
	"github.com/angelmondragon/gigboard-backend/pkg/logger"
)

type signatureVerifier interface {
	Verify(raw []byte, signature string) error
}

type PaystackReconciler interface {
	Reconcile(ctx context.Context, event paystack.Event) (paystack.Result, error)
}

// PaystackWebhook authenticates the raw body before decoding it, then hands
// the event to the reconciler.
func PaystackWebhook(verifier signatureVerifier, reconciler PaystackReconciler, cfg config.PaystackConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if verifier == nil || reconciler == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "paystack webhook unavailable"))
			return
		}

		payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, cfg.MaxBodyBytes))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInvalidPayload, "webhook body too large"))
				return
			}
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInvalidPayload, err, "read request body"))
			return
		}

		if err := verifier.Verify(payload, r.Header.Get(cfg.SignatureHeader)); err != nil {
			if logg != nil {
				logg.Warn(logg.WithField(ctx, "reason", err.Error()), "paystack.signature.rejected")
			}
			responses.WriteError(ctx, logg, w, err)
			return
		}

		event, err := paystack.ParseEvent(payload)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := reconciler.Reconcile(ctx, event)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"result": string(result)})
	}
}
