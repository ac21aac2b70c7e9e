package handler

import (
	"io"
	"net/http"

	"github.com/readysetcloud/newsletter-service-sub010/internal/application/pipeline"
)

const maxEventBytes = 256 * 1024

// EventHandler ingests raw event envelopes over HTTP. It is the same entry
// point as the bus consumer, for publishers that cannot reach the broker.
type EventHandler struct {
	svc pipeline.Service
}

func NewEventHandler(svc pipeline.Service) *EventHandler {
	return &EventHandler{svc: svc}
}

func (h *EventHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxEventBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable body")
		return
	}
	n, err := h.svc.Process(r.Context(), raw)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, AcceptedEnvelope{NotificationID: n.ID, Message: "accepted"})
}
