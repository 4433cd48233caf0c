package types

import (
	"net/http"

	appErr "github.com/collabhub/engine/pkg/errors"
)

// FromAppError converts an error into the API error envelope. Internal
// detail is never leaked: unknown and internal errors get a generic message.
func FromAppError(err error) *APIError {
	if err == nil {
		return nil
	}
	if e, ok := err.(*appErr.AppError); ok {
		switch e.Code {
		case appErr.CodeInternal, appErr.CodeUnknown:
			return &APIError{Code: string(e.Code), Message: "internal error"}
		default:
			return &APIError{Code: string(e.Code), Message: e.Message}
		}
	}
	return &APIError{Code: string(appErr.CodeUnknown), Message: "internal error"}
}

// StatusFor maps error codes onto HTTP statuses.
func StatusFor(err error) int {
	e, ok := err.(*appErr.AppError)
	if !ok {
		return http.StatusInternalServerError
	}
	switch e.Code {
	case appErr.CodeInvalid:
		return http.StatusBadRequest
	case appErr.CodeUnauthorized:
		return http.StatusUnauthorized
	case appErr.CodeForbidden:
		return http.StatusForbidden
	case appErr.CodeNotFound:
		return http.StatusNotFound
	case appErr.CodeConflict, appErr.CodeInvalidState:
		return http.StatusConflict
	case appErr.CodeUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
