package responses

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/angelmondragon/gigboard-backend/pkg/errors"
	"github.com/angelmondragon/gigboard-backend/pkg/logger"
)

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorBody {
	t.Helper()
	var body ErrorEnvelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body.Error
}

func TestWriteSuccess(t *testing.T) {
	w := httptest.NewRecorder()
	WriteSuccessStatus(w, http.StatusCreated, map[string]string{"hello": "world"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"data":{"hello":"world"}}`, w.Body.String())
}

func TestWriteErrorExposesClientErrors(t *testing.T) {
	w := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeInvalidState, "bid is accepted").
		WithDetails(map[string]string{"status": "accepted"})
	WriteError(context.Background(), nil, w, err)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, "INVALID_STATE", body.Code)
	assert.Equal(t, "bid is accepted", body.Message)
	assert.Equal(t, map[string]any{"status": "accepted"}, body.Details)
	assert.False(t, body.Retryable)
}

func TestWriteErrorHidesStorageDetails(t *testing.T) {
	buf := &bytes.Buffer{}
	logg := logger.New(logger.Options{ServiceName: "test", Output: buf})

	w := httptest.NewRecorder()
	err := pkgerrors.Wrap(pkgerrors.CodeStorage, errors.New("dial tcp: refused"), "insert charge").
		WithDetails(map[string]string{"dsn": "secret"})
	WriteError(context.Background(), logg, w, err)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, "storage unavailable", body.Message)
	assert.Nil(t, body.Details)
	assert.True(t, body.Retryable)
	assert.Contains(t, buf.String(), "dial tcp: refused")
	assert.NotContains(t, w.Body.String(), "secret")
}

func TestWriteErrorWrapsUntypedErrors(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(context.Background(), nil, w, errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, "INTERNAL_ERROR", body.Code)
	assert.Equal(t, "internal server error", body.Message)
}
