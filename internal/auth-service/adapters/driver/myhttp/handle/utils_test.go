package handle

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"user-auth/internal/auth-service/core/myerrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{myerrors.NewValidation("bad", nil), http.StatusBadRequest},
		{myerrors.ErrUsernameTaken, http.StatusBadRequest},
		{myerrors.ErrInvalidCredentials, http.StatusBadRequest},
		{myerrors.ErrInvalidToken, http.StatusUnauthorized},
		{myerrors.ErrMissingToken, http.StatusUnauthorized},
		{myerrors.ErrUserBlocked, http.StatusForbidden},
		{myerrors.ErrUserNotFound, http.StatusNotFound},
		{fmt.Errorf("wrapped: %w", myerrors.ErrEmailNotFound), http.StatusNotFound},
		{myerrors.Internal(errors.New("x")), http.StatusInternalServerError},
		{errors.New("unclassified"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}

func TestWriteError_Payload(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, myerrors.NewValidation("invalid signup data", map[string][]string{
		"email": {"Enter a valid email address."},
	}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "invalid signup data", body["error"])
	assert.EqualValues(t, 400, body["code"])
	assert.Equal(t, "validation", body["kind"])
	assert.Equal(t, map[string]any{"email": []any{"Enter a valid email address."}}, body["fields"])
	assert.NotContains(t, body, "field")
}

func TestWriteError_HidesInternalCause(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, myerrors.Internal(errors.New("pq: password authentication failed")))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password authentication")

	rec = httptest.NewRecorder()
	WriteError(rec, errors.New("raw driver error"))
	assert.NotContains(t, rec.Body.String(), "raw driver error")
}

func TestWriteError_ConflictField(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, myerrors.ErrEmailRegistered)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "email", body["field"])
	assert.Equal(t, "conflict", body["kind"])
}
