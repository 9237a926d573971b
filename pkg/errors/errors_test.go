package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		status    int
		retryable bool
		expose    bool
		details   bool
	}{
		{CodeValidation, http.StatusBadRequest, false, true, true},
		{CodeInvalidPayload, http.StatusBadRequest, false, true, true},
		{CodeUnauthenticated, http.StatusUnauthorized, false, true, false},
		{CodeForbidden, http.StatusForbidden, false, true, false},
		{CodeNotFound, http.StatusNotFound, false, true, false},
		{CodeInvalidState, http.StatusUnprocessableEntity, false, true, true},
		{CodeIdempotency, http.StatusConflict, false, true, true},
		{CodeStorage, http.StatusServiceUnavailable, true, false, false},
		{CodeDependency, http.StatusServiceUnavailable, true, false, true},
		{CodeInternal, http.StatusInternalServerError, true, false, false},
	}
	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		assert.Equal(t, tt.status, meta.HTTPStatus, tt.code)
		assert.Equal(t, tt.retryable, meta.Retryable, tt.code)
		assert.Equal(t, tt.expose, meta.ExposeMessage, tt.code)
		assert.Equal(t, tt.details, meta.DetailsAllowed, tt.code)
		assert.NotEmpty(t, meta.PublicMessage, tt.code)
	}

	assert.Equal(t, MetadataFor(CodeInternal), MetadataFor("SOMETHING_UNKNOWN"))
}

func TestErrorConstructors(t *testing.T) {
	base := New(CodeValidation, "missing foo")
	assert.Equal(t, CodeValidation, base.Code())
	assert.Equal(t, "missing foo", base.Message())
	assert.Nil(t, base.Details())
	assert.Equal(t, "VALIDATION_ERROR: missing foo", base.Error())

	assert.Same(t, base, base.WithDetails(map[string]any{"field": "foo"}))
	assert.NotNil(t, base.Details())

	cause := stdErrors.New("boom")
	wrapped := Wrap(CodeStorage, cause, "insert bid")
	assert.ErrorIs(t, wrapped, cause)
	assert.Equal(t, "STORAGE_FAILURE: insert bid: boom", wrapped.Error())

	var nilErr *Error
	assert.Equal(t, CodeInternal, nilErr.Code())
	assert.Nil(t, nilErr.WithDetails("x"))
}

func TestAsAndIsCodeFollowWrappedChain(t *testing.T) {
	err := fmt.Errorf("accept: %w", New(CodeInvalidState, "bid is accepted"))
	require.NotNil(t, As(err))
	assert.True(t, IsCode(err, CodeInvalidState))
	assert.False(t, IsCode(err, CodeNotFound))
	assert.False(t, IsCode(stdErrors.New("plain"), CodeInternal))
	assert.Nil(t, As(nil))
}

func TestDumpCapturesChain(t *testing.T) {
	d := Dump(Wrap(CodeStorage, stdErrors.New("connection refused"), "load bid"))
	assert.Equal(t, CodeStorage, d.Code)
	assert.Len(t, d.Chain, 2)
	assert.Nil(t, d.DB)
	assert.NotContains(t, d.Fields(), "db_sqlstate")

	assert.Equal(t, ErrorDump{}, Dump(nil))
}

func TestDumpReadsDriverErrors(t *testing.T) {
	pgx := Wrap(CodeStorage, &pgconn.PgError{Code: "23505", ConstraintName: "ux_ledger_entries_type_reference"}, "append")
	d := Dump(pgx)
	require.NotNil(t, d.DB)
	assert.Equal(t, "23505", d.DB.SQLState)
	assert.Equal(t, "ux_ledger_entries_type_reference", d.Fields()["db_constraint"])

	pqErr := fmt.Errorf("insert: %w", &pq.Error{Code: "23503", Table: "bids"})
	d = Dump(pqErr)
	require.NotNil(t, d.DB)
	assert.Equal(t, "23503", d.DB.SQLState)
	assert.Equal(t, "bids", d.DB.Table)
}
