package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructors(t *testing.T) {
	cause := errors.New("conn reset")
	tests := []struct {
		name       string
		err        *AppError
		wantCode   string
		wantStatus int
	}{
		{"validation", Validation("bad %s", "status"), CodeValidation, http.StatusBadRequest},
		{"not found", NotFound("indent %s not found", "IND01"), CodeNotFound, http.StatusNotFound},
		{"transient", Transient(cause), CodeTransient, http.StatusServiceUnavailable},
		{"internal", Internal(cause), CodeInternal, http.StatusInternalServerError},
		{"unauthorized", Unauthorized("invalid credentials"), CodeUnauthorized, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCode, tt.err.Code)
			assert.Equal(t, tt.wantStatus, HTTPStatus(tt.err))
		})
	}
}

func TestPredicatesSeeThroughWrapping(t *testing.T) {
	err := fmt.Errorf("update indent: %w", NotFound("row 7 not found"))

	assert.True(t, IsNotFound(err))
	assert.False(t, IsValidation(err))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(err))
	assert.Equal(t, "row 7 not found", PublicMessage(err))
}

func TestTransientUnwrapsCause(t *testing.T) {
	cause := errors.New("timeout")
	err := Transient(cause)

	assert.True(t, IsTransient(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "database temporarily unavailable: timeout", err.Error())
}

func TestDegraded(t *testing.T) {
	err := Degraded("issued_quantity", errors.New("view missing"))
	assert.True(t, IsDegraded(err))
	assert.Contains(t, err.Error(), "issued_quantity")
}

func TestUnknownErrorIsInternal(t *testing.T) {
	err := errors.New("boom")
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(err))
	assert.Equal(t, "internal server error", PublicMessage(err))
}
