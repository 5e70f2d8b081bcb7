package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gaganrajn/urban-company-backend/internal/auth"
	"github.com/gaganrajn/urban-company-backend/internal/database"
	"github.com/gaganrajn/urban-company-backend/internal/service"
)

// All responses share one envelope: {success, message?, error?, ...}.
// Extra payload fields sit flat next to the envelope keys.
func writeJSON(w http.ResponseWriter, status int, payload map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeSuccess(w http.ResponseWriter, status int, message string, extra map[string]any) {
	payload := map[string]any{"success": true}
	if message != "" {
		payload["message"] = message
	}
	for k, v := range extra {
		payload[k] = v
	}
	writeJSON(w, status, payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"success": false, "message": message})
}

// writeServiceError maps domain errors to HTTP statuses in one place so
// handlers never pick status codes themselves.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, database.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrServiceInactive):
		writeError(w, http.StatusNotFound, "service is not available")
	case errors.Is(err, database.ErrNotPending):
		writeError(w, http.StatusConflict, "booking is no longer pending")
	case errors.Is(err, database.ErrDuplicate):
		writeError(w, http.StatusConflict, "already exists")
	case errors.Is(err, service.ErrTooManyRequests):
		writeError(w, http.StatusTooManyRequests, "too many requests, try again later")
	case errors.Is(err, service.ErrUserDisabled):
		writeError(w, http.StatusForbidden, "account is disabled")
	case errors.Is(err, service.ErrInvalidPhone),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidRating),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrInvalidCategory),
		errors.Is(err, service.ErrNoPendingOTP),
		errors.Is(err, auth.ErrOTPExpired),
		errors.Is(err, auth.ErrOTPInvalid):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
