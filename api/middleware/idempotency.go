package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/angelmondragon/gigboard-backend/api/responses"
	"github.com/angelmondragon/gigboard-backend/api/validators"
	pkgerrors "github.com/angelmondragon/gigboard-backend/pkg/errors"
	"github.com/angelmondragon/gigboard-backend/pkg/logger"
	pkgredis "github.com/angelmondragon/gigboard-backend/pkg/redis"
)

const (
	IdempotencyKeyHeader    = "Idempotency-Key"
	IdempotentReplayHeader  = "Idempotent-Replayed"
	maxIdempotencyKeyLength = 255
)

// storedResponse is what Redis holds under an idempotency key. A record with
// Pending set marks a request that is still executing.
type storedResponse struct {
	Pending     bool   `json:"pending,omitempty"`
	RequestHash string `json:"request_hash"`
	Status      int    `json:"status,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Body        []byte `json:"body,omitempty"`
}

// Idempotency makes the wrapped route safe to retry. A request carrying an
// Idempotency-Key reserves the key before the handler runs; a repeat with the
// same body gets the stored response back, a repeat with a different body is
// rejected. 5xx responses release the key so the client may retry.
// Requests without the header are not tracked.
func Idempotency(store pkgredis.IdempotencyStore, ttl time.Duration, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientKey := strings.TrimSpace(r.Header.Get(IdempotencyKeyHeader))
			if store == nil || clientKey == "" {
				next.ServeHTTP(w, r)
				return
			}
			ctx := r.Context()
			if len(clientKey) > maxIdempotencyKeyLength {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "Idempotency-Key is too long"))
				return
			}

			body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, validators.MaxBodyBytes))
			var tooLarge *http.MaxBytesError
			switch {
			case errors.As(err, &tooLarge):
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "request body too large").
					WithDetails(map[string]any{"limitBytes": tooLarge.Limit}))
				return
			case err != nil:
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read request body"))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			// The path carries the resource id, so one key may be reused across bids.
			key := store.IdempotencyKey(UserIDFromContext(ctx)+"|"+r.Method+"|"+r.URL.Path, clientKey)
			hash := requestHash(body)

			reservation, _ := json.Marshal(storedResponse{Pending: true, RequestHash: hash})
			reserved, err := store.SetNX(ctx, key, string(reservation), ttl)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reserve idempotency key"))
				return
			}
			if !reserved {
				replay(w, r, store, key, hash, logg)
				return
			}

			// Unless a response is recorded below, the reservation is dropped,
			// including when the handler panics.
			recorded := false
			defer func() {
				if recorded {
					return
				}
				if err := store.Del(ctx, key); err != nil && logg != nil {
					logg.Error(ctx, "idempotency.release_failed", err)
				}
			}()

			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			var captured bytes.Buffer
			ww.Tee(&captured)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			if status >= http.StatusInternalServerError {
				return
			}
			recorded = true

			record, _ := json.Marshal(storedResponse{
				RequestHash: hash,
				Status:      status,
				ContentType: ww.Header().Get("Content-Type"),
				Body:        captured.Bytes(),
			})
			if err := store.Set(ctx, key, string(record), ttl); err != nil && logg != nil {
				logg.Error(ctx, "idempotency.record.persist_failed", err)
			}
		})
	}
}

func replay(w http.ResponseWriter, r *http.Request, store pkgredis.IdempotencyStore, key, hash string, logg *logger.Logger) {
	ctx := r.Context()
	raw, err := store.Get(ctx, key)
	if errors.Is(err, redis.Nil) || (err == nil && raw == "") {
		// expired between SETNX and GET
		responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeConflict, "idempotent request state changed, retry"))
		return
	}
	if err != nil {
		responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check idempotency"))
		return
	}

	var stored storedResponse
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode idempotency record"))
		return
	}
	switch {
	case stored.RequestHash != hash:
		responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeIdempotency, "idempotency key reused with different request body"))
	case stored.Pending:
		responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeConflict, "a request with this idempotency key is still in progress"))
	default:
		if stored.ContentType != "" {
			w.Header().Set("Content-Type", stored.ContentType)
		}
		w.Header().Set(IdempotentReplayHeader, "true")
		w.WriteHeader(stored.Status)
		_, _ = w.Write(stored.Body)
	}
}

func requestHash(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}
