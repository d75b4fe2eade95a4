// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/taibuivan/realty/internal/platform/apperr"
)

// Error is a failed backend call.
//
// Status is 0 when no response was received (DNS, refused connection,
// timeout); Cause then holds the transport error.
type Error struct {
	Method  string
	Path    string
	Status  int
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s %s: %s", e.Method, e.Path, e.Message)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, e.Message)
}

// Unwrap exposes the transport cause.
func (e *Error) Unwrap() error { return e.Cause }

// As extracts the [*Error] from err's chain. It returns nil if not found.
func As(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return nil
}

// StatusOf returns the backend status carried by err, or 0.
func StatusOf(err error) int {
	if apiErr := As(err); apiErr != nil {
		return apiErr.Status
	}
	return 0
}

// IsUnauthorized reports whether the backend rejected the bearer token.
func IsUnauthorized(err error) bool {
	return StatusOf(err) == http.StatusUnauthorized
}

// IsNotFound reports whether the backend answered 404.
func IsNotFound(err error) bool {
	return StatusOf(err) == http.StatusNotFound
}

// errorBody covers the error shapes the backend uses. Message may be a
// string or a list of validation messages.
type errorBody struct {
	Message json.RawMessage `json:"message"`
	Error   string          `json:"error"`
}

func newStatusError(method, path string, response *http.Response) *Error {
	apiErr := &Error{
		Method:  method,
		Path:    path,
		Status:  response.StatusCode,
		Message: http.StatusText(response.StatusCode),
	}

	raw, err := io.ReadAll(io.LimitReader(response.Body, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return apiErr
	}

	var body errorBody
	if json.Unmarshal(raw, &body) != nil {
		return apiErr
	}

	if message := decodeMessage(body.Message); message != "" {
		apiErr.Message = message
	} else if body.Error != "" {
		apiErr.Message = body.Error
	}
	return apiErr
}

func decodeMessage(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var single string
	if json.Unmarshal(raw, &single) == nil {
		return single
	}

	var many []string
	if json.Unmarshal(raw, &many) == nil {
		return strings.Join(many, "; ")
	}
	return ""
}

// ToAppError maps a backend failure to the user-facing error shown by pages.
// Backend messages for client errors are passed through; server and
// transport failures get a generic message.
func ToAppError(err error) *apperr.AppError {
	if appErr := apperr.As(err); appErr != nil {
		return appErr
	}

	apiErr := As(err)
	if apiErr == nil {
		return apperr.Internal(err)
	}

	switch {
	case apiErr.Status == 0:
		return apperr.BadGateway("El servicio no está disponible. Intenta de nuevo.", err)
	case apiErr.Status == http.StatusUnauthorized:
		return apperr.Unauthorized(apiErr.Message)
	case apiErr.Status == http.StatusForbidden:
		return apperr.Forbidden(apiErr.Message)
	case apiErr.Status == http.StatusNotFound:
		return apperr.NotFound("Recurso")
	case apiErr.Status == http.StatusConflict:
		return apperr.Conflict(apiErr.Message)
	case apiErr.Status == http.StatusUnprocessableEntity:
		return apperr.Unprocessable(apiErr.Message)
	case apiErr.Status < 500:
		return apperr.ValidationError(apiErr.Message)
	default:
		return apperr.BadGateway("El servicio respondió con un error. Intenta de nuevo.", err)
	}
}
