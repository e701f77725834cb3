package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainErrorPassthrough(t *testing.T) {
	original := NewForbidden("access denied")
	converted := ToDomainError(original)
	require.NotNil(t, converted)
	assert.Equal(t, "FORBIDDEN", converted.Code)
	assert.Equal(t, http.StatusForbidden, converted.HTTPStatus)

	// wrapped domain errors still unwrap to themselves
	wrapped := fmt.Errorf("handling request: %w", original)
	converted = ToDomainError(wrapped)
	assert.Equal(t, "FORBIDDEN", converted.Code)
}

func TestToDomainErrorNoRows(t *testing.T) {
	converted := ToDomainError(pgx.ErrNoRows)
	require.NotNil(t, converted)
	assert.Equal(t, "NOT_FOUND", converted.Code)
	assert.Equal(t, http.StatusNotFound, converted.HTTPStatus)

	converted = ToDomainError(fmt.Errorf("loading ticket: %w", pgx.ErrNoRows))
	assert.Equal(t, http.StatusNotFound, converted.HTTPStatus)
}

func TestToDomainErrorUnknownBecomesInternal(t *testing.T) {
	cause := errors.New("connection reset")
	converted := ToDomainError(cause)
	require.NotNil(t, converted)
	assert.Equal(t, "INTERNAL_ERROR", converted.Code)
	assert.Equal(t, http.StatusInternalServerError, converted.HTTPStatus)
	// the cause is kept for logs but the message stays generic
	assert.Equal(t, "internal server error", converted.Message)
	assert.ErrorIs(t, converted, cause)

	assert.Nil(t, ToDomainError(nil))
}

func TestInvalidCredentialsIsBadRequest(t *testing.T) {
	converted := ToDomainError(NewInvalidCredentials())
	assert.Equal(t, http.StatusBadRequest, converted.HTTPStatus)
	assert.Equal(t, "INVALID_CREDENTIALS", converted.Code)
}
