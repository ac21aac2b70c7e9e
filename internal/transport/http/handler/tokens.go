package handler

import (
	"net/http"

	"github.com/readysetcloud/newsletter-service-sub010/internal/application/token"
	"github.com/readysetcloud/newsletter-service-sub010/internal/transport/http/middleware"
)

// TokenHandler vends short-lived subscribe-scoped realtime credentials.
type TokenHandler struct {
	svc token.Service
}

func NewTokenHandler(svc token.Service) *TokenHandler {
	return &TokenHandler{svc: svc}
}

func (h *TokenHandler) RealtimeToken(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	cred, err := h.svc.RealtimeToken(r.Context(), claims.TenantID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cred)
}
