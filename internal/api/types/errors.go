package types

import (
	"errors"
	"net/http"

	appErr "github.com/gridtrade/exchange/pkg/errors"
)

// StatusForError maps service error codes onto HTTP statuses.
func StatusForError(err error) int {
	switch {
	case appErr.IsCode(err, appErr.CodeInvalid),
		appErr.IsCode(err, appErr.CodeInsufficientSupply):
		return http.StatusBadRequest
	case appErr.IsCode(err, appErr.CodeNotFound):
		return http.StatusNotFound
	case appErr.IsCode(err, appErr.CodeForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// MessageForError extracts the client-facing message, hiding internal detail.
func MessageForError(err error) string {
	var ae *appErr.AppError
	if errors.As(err, &ae) && ae.Code != appErr.CodeInternal && ae.Code != appErr.CodeUnknown {
		return ae.Message
	}
	return "internal server error"
}
