package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	apperrors "github.com/solune/storefront/pkg/errors"
	"github.com/solune/storefront/pkg/logger"
	"github.com/solune/storefront/pkg/validator"
)

// Response is the standard JSON envelope used by every endpoint. Success
// responses carry Data; failures carry a stable Code plus a human message.
type Response struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Code    string            `json:"code,omitempty"`
	Data    any               `json:"data,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
// If encoding fails, headers are already sent so nothing can be done.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteData writes a success envelope with the given status and payload.
func WriteData(w http.ResponseWriter, status int, data any) {
	WriteJSON(w, status, Response{Success: true, Data: data})
}

// WriteMessage writes a success envelope carrying both a message and a payload.
func WriteMessage(w http.ResponseWriter, status int, message string, data any) {
	WriteJSON(w, status, Response{Success: true, Message: message, Data: data})
}

// WriteError maps an error to the failure envelope and status taxonomy.
// Validation-class failures (4xx) are resolved locally and never logged;
// store, timeout, and uncategorized errors are logged with request context
// through the request-scoped logger before a generic message is returned.
func WriteError(w http.ResponseWriter, r *http.Request, err error, fallback *slog.Logger) {
	l := logger.FromContext(r.Context())
	if l == slog.Default() {
		l = fallback
	}

	status := apperrors.HTTPStatus(err)
	code := apperrors.Code(err)

	message := "an internal error occurred"
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		message = appErr.Message
	} else if status < http.StatusInternalServerError {
		message = err.Error()
	}

	if status >= http.StatusInternalServerError {
		l.ErrorContext(r.Context(), "request failed",
			slog.String("error", err.Error()),
			slog.String("code", code),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
		// Never leak internal detail on 5xx.
		if code == apperrors.CodeInternalError {
			message = "an internal error occurred"
		}
	}

	WriteJSON(w, status, Response{Success: false, Message: message, Code: code})
}

// WriteValidationError writes the failure envelope for a request validation
// error, attaching the field-level error map when available.
func WriteValidationError(w http.ResponseWriter, err error) {
	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		WriteJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Message: "request validation failed",
			Code:    apperrors.CodeValidationError,
			Fields:  valErr.Fields(),
		})
		return
	}

	WriteJSON(w, http.StatusBadRequest, Response{
		Success: false,
		Message: err.Error(),
		Code:    apperrors.CodeValidationError,
	})
}

// ParseUUID validates that param is a well-formed UUID. On failure it writes
// a 400 response with code INVALID_ID and returns false, signaling the
// caller to return early.
func ParseUUID(w http.ResponseWriter, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(param)
	if err != nil {
		appErr := apperrors.InvalidID(param)
		WriteJSON(w, appErr.Status, Response{
			Success: false,
			Message: appErr.Message,
			Code:    appErr.Code,
		})
		return uuid.Nil, false
	}
	return id, true
}
