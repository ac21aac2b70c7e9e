package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/readysetcloud/newsletter-service-sub010/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// NotificationsEnvelope wraps notification list responses.
type NotificationsEnvelope struct {
	Data  []domain.Notification `json:"data"`
	Count int                   `json:"count"`
	Error string                `json:"error,omitempty"`
}

// AcceptedEnvelope wraps the ingest response for an accepted event.
type AcceptedEnvelope struct {
	NotificationID string `json:"notification_id"`
	Message        string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

// httpError maps domain sentinel errors to HTTP status codes.
func httpError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
