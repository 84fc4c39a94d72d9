package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/boylish/Task-Manager-backend/logging"
	"github.com/boylish/Task-Manager-backend/services"
)

type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			logging.Logger.Errorf("Event ID: RESPONSE_ENCODE_FAILED, Description: Failed to encode response: %v", err)
		}
	}
}

// respondError maps a service error onto the HTTP status for its kind. Anything
// not recognized is a store failure and surfaces as a 500.
func respondError(w http.ResponseWriter, err error) {
	var validationError *services.ValidationError
	switch {
	case errors.As(err, &validationError):
		respondJSON(w, http.StatusBadRequest, errorResponse{Message: validationError.Error()})
	case errors.Is(err, services.ErrTaskNotFound), errors.Is(err, services.ErrUserNotFound):
		respondJSON(w, http.StatusNotFound, errorResponse{Message: err.Error()})
	case errors.Is(err, services.ErrForbidden):
		respondJSON(w, http.StatusForbidden, errorResponse{Message: err.Error()})
	case errors.Is(err, services.ErrInvalidCredentials):
		respondJSON(w, http.StatusUnauthorized, errorResponse{Message: err.Error()})
	default:
		logging.Logger.Errorf("Event ID: INTERNAL_ERROR, Description: %v", err)
		respondJSON(w, http.StatusInternalServerError, errorResponse{Message: "Server Error", Error: err.Error()})
	}
}
