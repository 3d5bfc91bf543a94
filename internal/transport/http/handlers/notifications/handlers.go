package notificationhandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"portal/internal/middleware"
	"portal/internal/session"
	"portal/internal/transport/http/api"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/notifications", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/{id}/read", h.handleMarkRead)
		r.Post("/read-all", h.handleMarkAllRead)
		r.Delete("/", h.handleClear)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	state, requestID, ok := requireSession(w, r)
	if !ok {
		return
	}
	api.Success(w, map[string]any{
		"notifications": state.Notifications.List(),
		"unreadCount":   state.Notifications.UnreadCount(),
	}, requestID)
}

func (h *Handler) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	state, requestID, ok := requireSession(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	if !state.Notifications.MarkRead(id) {
		api.Fail(w, http.StatusNotFound, "not_found", "no such notification", requestID)
		return
	}
	api.Success(w, map[string]any{"unreadCount": state.Notifications.UnreadCount()}, requestID)
}

func (h *Handler) handleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	state, requestID, ok := requireSession(w, r)
	if !ok {
		return
	}
	state.Notifications.MarkAllRead()
	api.Success(w, map[string]any{"unreadCount": 0}, requestID)
}

func (h *Handler) handleClear(w http.ResponseWriter, r *http.Request) {
	state, requestID, ok := requireSession(w, r)
	if !ok {
		return
	}
	state.Notifications.Clear()
	api.Success(w, map[string]any{"cleared": true}, requestID)
}

func requireSession(w http.ResponseWriter, r *http.Request) (*session.State, string, bool) {
	requestID := middleware.GetRequestID(r.Context())
	state, ok := middleware.GetSession(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "session required", requestID)
		return nil, requestID, false
	}
	return state, requestID, true
}
