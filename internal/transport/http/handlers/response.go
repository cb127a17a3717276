package handlers

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/amiosamu/restaurant-admin/shared/platform/errors"
	"github.com/amiosamu/restaurant-admin/shared/platform/observability/logging"
	"github.com/amiosamu/restaurant-admin/shared/platform/observability/tracing"
)

// Response is the envelope of every API response
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

type responder struct {
	logger logging.Logger
}

func (h responder) respondWithJSON(ctx context.Context, w http.ResponseWriter, statusCode int, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error(ctx, "Failed to marshal JSON response", err)
		http.Error(w, `{"success":false,"message":"Internal server error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(body)
}

func (h responder) respondOK(ctx context.Context, w http.ResponseWriter, statusCode int, message string, data interface{}) {
	h.respondWithJSON(ctx, w, statusCode, Response{Success: true, Message: message, Data: data})
}

// handleServiceError maps the error type to a status code. Client errors
// carry their own message; server faults use fallback and expose the cause.
func (h responder) handleServiceError(ctx context.Context, w http.ResponseWriter, err error, fallback string) {
	tracing.RecordError(ctx, err)

	status := http.StatusInternalServerError
	switch {
	case errors.IsValidation(err):
		status = http.StatusBadRequest
	case errors.IsUnauthorized(err):
		status = http.StatusUnauthorized
	case errors.IsNotFound(err):
		status = http.StatusNotFound
	case errors.IsConflict(err):
		status = http.StatusConflict
	}

	if status != http.StatusInternalServerError {
		h.respondWithJSON(ctx, w, status, Response{Success: false, Message: clientMessage(err)})
		return
	}

	h.logger.Error(ctx, fallback, err)
	h.respondWithJSON(ctx, w, status, Response{Success: false, Message: fallback, Error: err.Error()})
}

func clientMessage(err error) string {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.WrapAs(err, errors.ErrorTypeValidation, "Invalid JSON payload")
	}
	return nil
}
