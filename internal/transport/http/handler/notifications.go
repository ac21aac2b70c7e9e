package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/readysetcloud/newsletter-service-sub010/internal/application/feed"
	"github.com/readysetcloud/newsletter-service-sub010/internal/transport/http/middleware"
)

// NotificationHandler serves the dashboard's read path over stored notifications.
// The tenant always comes from the verified platform token, never the request.
type NotificationHandler struct {
	svc feed.Service
}

func NewNotificationHandler(svc feed.Service) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	unreadOnly := r.URL.Query().Get("unread") == "true"
	notifications, err := h.svc.ListForUser(r.Context(), claims.TenantID, claims.UserID, unreadOnly)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, NotificationsEnvelope{Data: notifications, Count: len(notifications)})
}

func (h *NotificationHandler) TenantFeed(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	limit, _ := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 32)
	notifications, err := h.svc.TenantFeed(r.Context(), claims.TenantID, int32(limit))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, NotificationsEnvelope{Data: notifications, Count: len(notifications)})
}

func (h *NotificationHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	n, err := h.svc.MarkAsRead(r.Context(), claims.TenantID, claims.UserID, chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}
