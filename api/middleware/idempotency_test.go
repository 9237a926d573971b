package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/gigboard-backend/api/validators"
	pkgerrors "github.com/angelmondragon/gigboard-backend/pkg/errors"
)

type fakeStore struct {
	data map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string]string)}
}

func (f *fakeStore) Get(_ context.Context, key string) (string, error) {
	if v, ok := f.data[key]; ok {
		return v, nil
	}
	return "", redis.Nil
}

func (f *fakeStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	f.data[key] = fmt.Sprint(value)
	return nil
}

func (f *fakeStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, ok := f.data[key]; ok {
		return false, nil
	}
	f.data[key] = fmt.Sprint(value)
	return true, nil
}

func (f *fakeStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.data, key)
	}
	return nil
}

func (f *fakeStore) IdempotencyKey(scope, id string) string {
	return fmt.Sprintf("fake:%s:%s", scope, id)
}

func posterRequest(path, key string, body io.Reader) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, body)
	if key != "" {
		req.Header.Set(IdempotencyKeyHeader, key)
	}
	return req.WithContext(WithUserID(req.Context(), "poster1"))
}

func errorCodeOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return payload.Error.Code
}

func TestIdempotencyPassesThroughWithoutKey(t *testing.T) {
	store := newFakeStore()
	calls := 0
	handler := Idempotency(store, time.Hour, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), posterRequest("/api/v1/bids/1/accept", "", nil))
	}
	assert.Equal(t, 2, calls)
	assert.Empty(t, store.data)
}

func TestIdempotencyReplaysStoredResponse(t *testing.T) {
	store := newFakeStore()
	calls := 0
	handler := Idempotency(store, time.Hour, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"data":{"status":"accepted"}}`))
	}))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, posterRequest("/api/v1/bids/1/accept", "abc", strings.NewReader(`{}`)))
	require.Equal(t, http.StatusOK, first.Code)
	assert.Empty(t, first.Header().Get(IdempotentReplayHeader))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, posterRequest("/api/v1/bids/1/accept", "abc", strings.NewReader(`{}`)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "true", rec.Header().Get(IdempotentReplayHeader))
	assert.Equal(t, `{"data":{"status":"accepted"}}`, rec.Body.String())
	assert.Equal(t, 1, calls)
}

func TestIdempotencyKeyIsScopedToPath(t *testing.T) {
	store := newFakeStore()
	calls := 0
	handler := Idempotency(store, time.Hour, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), posterRequest("/api/v1/bids/1/accept", "same", nil))
	handler.ServeHTTP(httptest.NewRecorder(), posterRequest("/api/v1/bids/2/accept", "same", nil))
	assert.Equal(t, 2, calls)
}

func TestIdempotencyReleasesKeyOnServerError(t *testing.T) {
	store := newFakeStore()
	calls := 0
	handler := Idempotency(store, time.Hour, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	for i := 0; i < 2; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), posterRequest("/api/v1/claims", "retry-me", strings.NewReader(`{}`)))
	}
	assert.Equal(t, 2, calls)
	assert.Empty(t, store.data)
}

func TestIdempotencyDetectsBodyChange(t *testing.T) {
	store := newFakeStore()
	handler := Idempotency(store, time.Hour, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), posterRequest("/api/v1/claims", "xyz", strings.NewReader(`{"gigId":"a"}`)))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, posterRequest("/api/v1/claims", "xyz", strings.NewReader(`{"gigId":"b"}`)))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, string(pkgerrors.CodeIdempotency), errorCodeOf(t, rec))
}

func TestIdempotencyRejectsInFlightDuplicate(t *testing.T) {
	store := newFakeStore()
	var handler http.Handler
	var inner *httptest.ResponseRecorder
	handler = Idempotency(store, time.Hour, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// a duplicate arrives while the first request is still running
		if inner == nil {
			inner = httptest.NewRecorder()
			handler.ServeHTTP(inner, posterRequest("/api/v1/claims", "dup", strings.NewReader(`{}`)))
		}
		w.WriteHeader(http.StatusCreated)
	}))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, posterRequest("/api/v1/claims", "dup", strings.NewReader(`{}`)))

	assert.Equal(t, http.StatusCreated, first.Code)
	require.NotNil(t, inner)
	assert.Equal(t, http.StatusConflict, inner.Code)
	assert.Equal(t, string(pkgerrors.CodeConflict), errorCodeOf(t, inner))
}

func TestIdempotencyRejectsOversizedKey(t *testing.T) {
	handler := Idempotency(newFakeStore(), time.Hour, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, posterRequest("/api/v1/claims", strings.Repeat("k", maxIdempotencyKeyLength+1), nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestIdempotencyReleasesKeyWhenHandlerPanics(t *testing.T) {
	store := newFakeStore()
	calls := 0
	handler := Recoverer(nil)(Idempotency(store, time.Hour, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			panic("boom")
		}
		w.WriteHeader(http.StatusCreated)
	})))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, posterRequest("/api/v1/claims", "panicky", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusInternalServerError, first.Code)
	assert.Empty(t, store.data)

	retry := httptest.NewRecorder()
	handler.ServeHTTP(retry, posterRequest("/api/v1/claims", "panicky", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusCreated, retry.Code)
	assert.Equal(t, 2, calls)
}

func TestIdempotencyRejectsOversizedBody(t *testing.T) {
	store := newFakeStore()
	handler := Idempotency(store, time.Hour, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	body := strings.NewReader(`{"pad":"` + strings.Repeat("x", validators.MaxBodyBytes) + `"}`)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, posterRequest("/api/v1/claims", "big", body))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, string(pkgerrors.CodeValidation), errorCodeOf(t, rec))
	assert.Empty(t, store.data)
}
