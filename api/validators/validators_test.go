package validators

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/angelmondragon/gigboard-backend/pkg/errors"
)

type sampleBody struct {
	Title  string `json:"title" validate:"required"`
	Amount int64  `json:"amount" validate:"gt=0"`
}

func TestDecodeJSONBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"x","amount":5}`))
	var body sampleBody
	require.NoError(t, DecodeJSONBody(req, &body))
	assert.Equal(t, int64(5), body.Amount)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"x","amount":0}`))
	err := DecodeJSONBody(req, &sampleBody{})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Equal(t, map[string]string{"amount": "must be greater than 0"}, typed.Details())

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"x","amount":1,"extra":true}`))
	assert.True(t, pkgerrors.IsCode(DecodeJSONBody(req, &sampleBody{}), pkgerrors.CodeValidation))
}

func TestParseQueryHelpers(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?limit=20&min=100&bad=x&q=%20paint%20", nil)

	limit, err := ParseQueryInt(req, "limit", 50, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, 20, limit)

	_, err = ParseQueryInt(req, "min", 50, 1, 10)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	min, err := ParseQueryInt64(req, "min")
	require.NoError(t, err)
	require.NotNil(t, min)
	assert.Equal(t, int64(100), *min)

	missing, err := ParseQueryInt64(req, "max")
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = ParseQueryInt64(req, "bad")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	assert.Equal(t, "pai", SanitizeString(req.URL.Query().Get("q"), 3))
}

func TestParseUUIDParam(t *testing.T) {
	id := uuid.New()
	rc := chi.NewRouteContext()
	rc.URLParams.Add("bidId", id.String())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))

	got, err := ParseUUIDParam(req, "bidId")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = ParseUUIDParam(req, "gigId")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

type gigLike struct {
	Title string   `json:"title" validate:"notblank,max=5"`
	Tags  []string `json:"tags,omitempty" validate:"omitempty,dive,max=3"`
	Skip  string   `json:"-"`
}

func TestDecodeJSONBodyFieldMessages(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"   ","tags":["toolong"]}`))
	err := DecodeJSONBody(req, &gigLike{})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, map[string]string{
		"title":   "must not be blank",
		"tags[0]": "must be at most 3",
	}, typed.Details())
}

func TestDecodeJSONBodyRejectsTrailingAndOversized(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"a"}{"title":"b"}`))
	assert.True(t, pkgerrors.IsCode(DecodeJSONBody(req, &gigLike{}), pkgerrors.CodeValidation))

	huge := `{"title":"` + strings.Repeat("a", MaxBodyBytes) + `"}`
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(huge))
	err := DecodeJSONBody(req, &gigLike{})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, "request body too large", typed.Message())
}
