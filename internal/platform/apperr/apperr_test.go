// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/realty/internal/platform/apperr"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name       string
		err        *apperr.AppError
		wantStatus int
		wantCode   string
	}{
		{"not found", apperr.NotFound("Propiedad"), http.StatusNotFound, "NOT_FOUND"},
		{"validation", apperr.ValidationError("Datos inválidos"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"rate limited", apperr.RateLimited(60), http.StatusTooManyRequests, "RATE_LIMITED"},
		{"unprocessable", apperr.Unprocessable("No se puede"), http.StatusUnprocessableEntity, "UNPROCESSABLE"},
		{"internal", apperr.Internal(errors.New("boom")), http.StatusInternalServerError, "INTERNAL_ERROR"},
		{"bad gateway", apperr.BadGateway("Caído", nil), http.StatusBadGateway, "BAD_GATEWAY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, tt.err.HTTPStatus)
			assert.Equal(t, tt.wantCode, tt.err.Code)
			assert.NotEmpty(t, tt.err.Error())
		})
	}

	assert.Equal(t, "No encontrado: Propiedad", apperr.NotFound("Propiedad").Message)
	assert.Contains(t, apperr.RateLimited(60).Message, "60s")
}

func TestInternal_HidesCause(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := apperr.Internal(cause)

	assert.NotContains(t, err.Error(), "connection refused")
	assert.ErrorIs(t, err, cause)
}

func TestAs(t *testing.T) {
	wrapped := fmt.Errorf("loading owners: %w", apperr.Conflict("Duplicado"))

	found := apperr.As(wrapped)
	require.NotNil(t, found)
	assert.Equal(t, http.StatusConflict, found.HTTPStatus)
	assert.True(t, apperr.IsAppError(wrapped))

	assert.Nil(t, apperr.As(errors.New("plain")))
	assert.False(t, apperr.IsAppError(nil))
}
