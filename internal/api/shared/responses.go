package shared

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/taskflow-app/taskflow-api/internal/domain"
)

// Envelope is the uniform response body shape shared by every endpoint,
// success or failure:
//
//	{success, message?, data?, errors?: [{field, message}]}
type Envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message,omitempty"`
	Data    any                 `json:"data,omitempty"`
	Errors  []domain.FieldError `json:"errors,omitempty"`
}

// RespondWithJSON writes a JSON response with the given status code and body.
func RespondWithJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// RespondWithData writes a success envelope carrying the given payload.
// An empty message is omitted from the body.
func RespondWithData(w http.ResponseWriter, r *http.Request, status int, message string, data any) {
	RespondWithJSON(w, r, status, Envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// RespondWithError writes a failure envelope with the given message.
func RespondWithError(w http.ResponseWriter, r *http.Request, status int, message string) {
	traceID := GetTraceID(r.Context())

	slog.Debug("sending error response",
		"status_code", status,
		"message", message,
		"trace_id", traceID,
		"path", r.URL.Path,
		"method", r.Method)

	RespondWithJSON(w, r, status, Envelope{
		Success: false,
		Message: message,
	})
}

// RespondWithFieldErrors writes a failure envelope carrying field-level
// validation errors alongside the generic "Validation failed" message.
func RespondWithFieldErrors(w http.ResponseWriter, r *http.Request, fields []domain.FieldError) {
	RespondWithJSON(w, r, http.StatusBadRequest, Envelope{
		Success: false,
		Message: "Validation failed",
		Errors:  fields,
	})
}

// RespondWithErrorAndLog writes a failure envelope and logs the detailed
// error. The raw error never reaches the client; only the sanitized
// userMessage does.
//
// Log level strategy: 5xx at ERROR, everything else at DEBUG.
func RespondWithErrorAndLog(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	userMessage string,
	err error,
) {
	traceID := GetTraceID(r.Context())

	logAttrs := []slog.Attr{
		slog.String("trace_id", traceID),
		slog.String("path", r.URL.Path),
		slog.String("method", r.Method),
		slog.Int("status_code", status),
		slog.String("user_message", userMessage),
	}
	if err != nil {
		logAttrs = append(logAttrs,
			slog.String("error", err.Error()),
			slog.String("error_type", fmt.Sprintf("%T", err)))
	}

	logLevel := slog.LevelDebug
	if status >= http.StatusInternalServerError {
		logLevel = slog.LevelError
	}
	slog.LogAttrs(r.Context(), logLevel, "API error response", logAttrs...)

	RespondWithJSON(w, r, status, Envelope{
		Success: false,
		Message: userMessage,
	})
}
