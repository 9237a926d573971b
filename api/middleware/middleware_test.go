package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/gigboard-backend/pkg/logger"
)

func logLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var lines []map[string]any
	for _, raw := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if raw == "" {
			continue
		}
		var line map[string]any
		require.NoError(t, json.Unmarshal([]byte(raw), &line))
		lines = append(lines, line)
	}
	return lines
}

func TestLoggingRecordsStatusAndRoute(t *testing.T) {
	buf := &bytes.Buffer{}
	logg := logger.New(logger.Options{ServiceName: "test", Output: buf})

	r := chi.NewRouter()
	r.Use(Logging(logg))
	r.Get("/gigs/{gigId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short"))
	})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/gigs/42", nil))

	lines := logLines(t, buf)
	require.Len(t, lines, 1)
	line := lines[0]
	assert.Equal(t, "request.complete", line["message"])
	assert.Equal(t, "info", line["level"])
	assert.EqualValues(t, http.StatusTeapot, line["status"])
	assert.EqualValues(t, 5, line["bytes"])
	assert.Equal(t, "/gigs/{gigId}", line["route"])
	assert.Equal(t, "/gigs/42", line["path"])
}

func TestLoggingWarnsOnServerError(t *testing.T) {
	buf := &bytes.Buffer{}
	logg := logger.New(logger.Options{ServiceName: "test", Output: buf})
	handler := Logging(logg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/x", nil))

	lines := logLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "warn", lines[0]["level"])
}

func TestRequestIDPropagatesOrMints(t *testing.T) {
	var seen string
	handler := RequestID(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = w.Header().Get(requestIDHeader)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "req-7")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, "req-7", rec.Header().Get(requestIDHeader))
	assert.Equal(t, "req-7", seen)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, strings.Repeat("x", maxRequestIDLen+1))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Len(t, rec.Header().Get(requestIDHeader), 36)
}

func TestRecovererWritesInternalError(t *testing.T) {
	handler := Recoverer(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)
}

func TestRecovererRepanicsAbort(t *testing.T) {
	handler := Recoverer(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))
	assert.Panics(t, func() {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}

func TestPrincipalRoundTrip(t *testing.T) {
	ctx := WithUserID(httptest.NewRequest(http.MethodGet, "/", nil).Context(), "poster1")
	p, ok := PrincipalFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "poster1", p.UserID)

	_, ok = PrincipalFromContext(httptest.NewRequest(http.MethodGet, "/", nil).Context())
	assert.False(t, ok)
	assert.Empty(t, UserIDFromContext(nil))
}

func TestRequestIDRejectsControlCharacters(t *testing.T) {
	var fromChi string
	handler := RequestID(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromChi = chimw.GetReqID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "bad id")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	minted := rec.Header().Get(requestIDHeader)
	assert.NotEqual(t, "bad id", minted)
	assert.Equal(t, minted, fromChi)
}

func TestCORSAnswersPreflight(t *testing.T) {
	reached := false
	handler := CORS([]string{"https://app.example"})(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		reached = true
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/bids", nil)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", IdempotencyKeyHeader)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.False(t, reached)
	assert.Equal(t, "https://app.example", rec.Header().Get("Access-Control-Allow-Origin"))
}
