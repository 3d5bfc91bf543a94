package authhandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"portal/internal/domain/employee"
	syncengine "portal/internal/domain/sync"
	"portal/internal/middleware"
	"portal/internal/platform/cache"
	"portal/internal/platform/sheets"
	"portal/internal/session"
	"portal/internal/transport/http/api"
)

type Handler struct {
	Sessions *session.Manager
	Engine   *syncengine.Engine
	Cache    cache.Store
}

func NewHandler(sessions *session.Manager, engine *syncengine.Engine, cacheStore cache.Store) *Handler {
	return &Handler{Sessions: sessions, Engine: engine, Cache: cacheStore}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/login", h.handleLogin)
	r.Post("/auth/logout", h.handleLogout)
}

type loginPayload struct {
	EmployeeID string `json:"employeeId"`
}

// handleLogin looks the identifier up in the source sheets and opens a
// session seeded with that first snapshot. The login sync is silent so a
// no-changes login is not spammed, but diff events against a baseline kept
// from an earlier session are delivered: the cached baseline exists exactly
// so changes posted between sessions still notify.
func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload loginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_request", "invalid JSON body", requestID)
		return
	}
	payload.EmployeeID = strings.TrimSpace(payload.EmployeeID)
	if payload.EmployeeID == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_request", "employeeId is required", requestID)
		return
	}

	snapshot, events, err := h.Engine.Sync(r.Context(), payload.EmployeeID, true)
	if err != nil {
		failSync(w, err, requestID)
		return
	}

	token, state, err := h.Sessions.Login(payload.EmployeeID, snapshot)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal", "could not create session", requestID)
		return
	}
	state.Notifications.Add(events...)

	prefs, err := h.Cache.GetPreferences(r.Context(), payload.EmployeeID)
	if err != nil {
		slog.Warn("preferences lookup failed", "employeeId", payload.EmployeeID, "err", err)
		prefs = cache.DefaultPreferences()
	}
	prefs.RememberedID = payload.EmployeeID
	if err := h.Cache.PutPreferences(r.Context(), payload.EmployeeID, prefs); err != nil {
		slog.Warn("remembering identifier failed", "employeeId", payload.EmployeeID, "err", err)
	}

	api.Success(w, map[string]any{
		"token":         token,
		"employee":      snapshot,
		"preferences":   prefs,
		"notifications": state.Notifications.List(),
	}, requestID)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	state, ok := middleware.GetSession(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "session required", requestID)
		return
	}
	h.Sessions.Drop(state.ID)
	api.Success(w, map[string]any{"loggedOut": true}, requestID)
}

func failSync(w http.ResponseWriter, err error, requestID string) {
	switch {
	case errors.Is(err, employee.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "employee_not_found", "no administrative record for this identifier", requestID)
	case errors.Is(err, sheets.ErrConnectivity):
		api.Fail(w, http.StatusBadGateway, "connectivity", "update failed, check connection", requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, "internal", "sync failed", requestID)
	}
}
