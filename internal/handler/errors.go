package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/rolegate/rolegate/internal/handler/dto"
)

// writeError writes an error response in the API's error shape.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error: dto.ErrorDetail{Code: code, Message: message},
	})
}

// writeInternalError maps an unexpected error to a generic response.
// The error itself is never sent to the client; callers log it.
func writeInternalError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		writeError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "service temporarily unavailable")
	default:
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
