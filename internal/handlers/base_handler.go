package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/restolist/backend/internal/services"
	"go.uber.org/zap"
)

// BaseHandler provides common handler functionality
type BaseHandler struct {
	Logger *zap.Logger
}

// RespondJSON sends a JSON response
func (h *BaseHandler) RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// RespondMessage sends a {"message": ...} JSON response, the wire shape
// every error and acknowledgement in this API uses
func (h *BaseHandler) RespondMessage(w http.ResponseWriter, status int, message string) {
	h.RespondJSON(w, status, map[string]string{"message": message})
}

// RespondServiceError classifies a service error into a status and message.
// Unclassified errors become a generic 500; their details stay in the logs.
func (h *BaseHandler) RespondServiceError(w http.ResponseWriter, err error) {
	var status int
	switch {
	case errors.Is(err, services.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrConflict):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	default:
		h.Logger.Error("internal error", zap.Error(err))
		h.RespondMessage(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	h.RespondMessage(w, status, err.Error())
}
