package api

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pkgcycle/pkg/errors"
)

type errorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err's code to an HTTP status. Errors without a code are
// internal and their message is not exposed.
func writeError(w http.ResponseWriter, logger *log.Logger, err error) {
	var e *errors.Error
	if !stderrors.As(err, &e) {
		logger.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{
			Code:    errors.ErrCodeInternal,
			Message: "internal error",
		})
		return
	}
	status := statusFor(e.Code)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "code", e.Code, "error", err)
	}
	writeJSON(w, status, errorBody{Code: e.Code, Message: errors.UserMessage(err)})
}

func statusFor(code errors.Code) int {
	switch {
	case code.Invalid():
		return http.StatusBadRequest
	case code.NotFound():
		return http.StatusNotFound
	case code == errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func notFound(format string, args ...any) error {
	return errors.New(errors.ErrCodeNotFound, format, args...)
}
