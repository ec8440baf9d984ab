package handler

import (
	"net/http"

	"github.com/miradev/mira/internal/domain"
	"github.com/miradev/mira/internal/middleware"
)

// ErrorStatus maps domain error codes to HTTP status codes.
func ErrorStatus(err error) int {
	switch domain.ErrorCode(err) {
	case domain.EINVALID:
		return http.StatusBadRequest
	case domain.EUNAUTHORIZED:
		return http.StatusUnauthorized
	case domain.EFORBIDDEN:
		return http.StatusForbidden
	case domain.ENOTFOUND:
		return http.StatusNotFound
	case domain.ECONFLICT:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// RespondError logs the error and writes its user-facing message with the
// mapped status. Internal details never reach the client.
func RespondError(w http.ResponseWriter, r *http.Request, err error) {
	status := ErrorStatus(err)
	logger := middleware.GetLogger(r.Context())

	attrs := []any{
		"error", err.Error(),
		"code", domain.ErrorCode(err),
		"status", status,
	}
	if status >= 500 {
		logger.Error("request failed", attrs...)
	} else {
		logger.Info("request rejected", attrs...)
	}

	http.Error(w, domain.ErrorMessage(err), status)
}
