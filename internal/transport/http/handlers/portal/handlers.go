package portalhandler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strconv"

	"github.com/go-chi/chi/v5"

	"portal/internal/domain/employee"
	"portal/internal/domain/payslip"
	syncengine "portal/internal/domain/sync"
	"portal/internal/middleware"
	"portal/internal/platform/cache"
	"portal/internal/platform/sheets"
	"portal/internal/session"
	"portal/internal/transport/http/api"
)

type Handler struct {
	Engine *syncengine.Engine
	Cache  cache.Store
}

func NewHandler(engine *syncengine.Engine, cacheStore cache.Store) *Handler {
	return &Handler{Engine: engine, Cache: cacheStore}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/me", func(r chi.Router) {
		r.Get("/", h.handleOverview)
		r.Get("/profile", h.handleProfile)
		r.Get("/salary", h.handleSalaryHistory)
		r.Get("/salary/latest", h.handleLatestSalary)
		r.Get("/ledger/{category}", h.handleLedger)
		r.Post("/refresh", h.handleRefresh)
		r.Get("/payslips/{index}/pdf", h.handlePayslipPDF)
		r.Get("/preferences", h.handleGetPreferences)
		r.Put("/preferences", h.handlePutPreferences)
	})
}

func (h *Handler) handleOverview(w http.ResponseWriter, r *http.Request) {
	state, requestID, ok := requireSession(w, r)
	if !ok {
		return
	}
	api.Success(w, map[string]any{
		"employee":    state.Snapshot(),
		"lastUpdate":  state.LastUpdate(),
		"unreadCount": state.Notifications.UnreadCount(),
	}, requestID)
}

func (h *Handler) handleProfile(w http.ResponseWriter, r *http.Request) {
	state, requestID, ok := requireSession(w, r)
	if !ok {
		return
	}
	api.Success(w, state.Snapshot().Profile, requestID)
}

func (h *Handler) handleSalaryHistory(w http.ResponseWriter, r *http.Request) {
	state, requestID, ok := requireSession(w, r)
	if !ok {
		return
	}
	api.Success(w, state.Snapshot().SalaryHistory, requestID)
}

func (h *Handler) handleLatestSalary(w http.ResponseWriter, r *http.Request) {
	state, requestID, ok := requireSession(w, r)
	if !ok {
		return
	}
	latest := state.Snapshot().LatestSalary()
	if latest == nil {
		api.Fail(w, http.StatusNotFound, "no_statements", "no salary statements for this employee", requestID)
		return
	}
	api.Success(w, latest, requestID)
}

func (h *Handler) handleLedger(w http.ResponseWriter, r *http.Request) {
	state, requestID, ok := requireSession(w, r)
	if !ok {
		return
	}
	category := employee.Category(chi.URLParam(r, "category"))
	if !slices.Contains(employee.Categories, category) {
		api.Fail(w, http.StatusNotFound, "unknown_category", "unknown ledger category", requestID)
		return
	}
	records := state.Snapshot().Ledger(category)
	if records == nil {
		records = []employee.LedgerRecord{}
	}
	api.Success(w, records, requestID)
}

// handleRefresh runs one sync cycle on demand. Non-silent refreshes surface
// connectivity errors and get the "no changes" event; silent ones (the UI's
// focus-regain hook) swallow failures like a background tick.
func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	state, requestID, ok := requireSession(w, r)
	if !ok {
		return
	}
	silent := r.URL.Query().Get("silent") == "true"

	snapshot, events, err := h.Engine.Sync(r.Context(), state.EmployeeID, silent)
	if err != nil {
		if silent {
			api.Success(w, map[string]any{"refreshed": false}, requestID)
			return
		}
		failSync(w, err, requestID)
		return
	}

	state.SetSnapshot(snapshot)
	state.Notifications.Add(events...)

	api.Success(w, map[string]any{
		"refreshed":    true,
		"employee":     snapshot,
		"events":       events,
		"highPriority": syncengine.HasHighPriority(events),
		"unreadCount":  state.Notifications.UnreadCount(),
	}, requestID)
}

func (h *Handler) handlePayslipPDF(w http.ResponseWriter, r *http.Request) {
	state, requestID, ok := requireSession(w, r)
	if !ok {
		return
	}
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_request", "statement index must be a non-negative integer", requestID)
		return
	}

	snapshot := state.Snapshot()
	if index >= len(snapshot.SalaryHistory) {
		api.Fail(w, http.StatusNotFound, "no_statement", "no salary statement at this index", requestID)
		return
	}
	statement := snapshot.SalaryHistory[index]

	var buf bytes.Buffer
	if err := payslip.Render(&buf, snapshot.Profile, statement); err != nil {
		api.Fail(w, http.StatusInternalServerError, "pdf_failed", "payslip generation failed", requestID)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=payslip-%s-%s.pdf", state.EmployeeID, statement.Year))
	w.Write(buf.Bytes())
}

func (h *Handler) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	state, requestID, ok := requireSession(w, r)
	if !ok {
		return
	}
	prefs, err := h.Cache.GetPreferences(r.Context(), state.EmployeeID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal", "preferences lookup failed", requestID)
		return
	}
	api.Success(w, prefs, requestID)
}

type preferencesPayload struct {
	SoundEnabled bool `json:"soundEnabled"`
}

func (h *Handler) handlePutPreferences(w http.ResponseWriter, r *http.Request) {
	state, requestID, ok := requireSession(w, r)
	if !ok {
		return
	}
	var payload preferencesPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_request", "invalid JSON body", requestID)
		return
	}

	prefs, err := h.Cache.GetPreferences(r.Context(), state.EmployeeID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal", "preferences lookup failed", requestID)
		return
	}
	prefs.SoundEnabled = payload.SoundEnabled
	if err := h.Cache.PutPreferences(r.Context(), state.EmployeeID, prefs); err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal", "preferences update failed", requestID)
		return
	}
	api.Success(w, prefs, requestID)
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

func requireSession(w http.ResponseWriter, r *http.Request) (*session.State, string, bool) {
	requestID := middleware.GetRequestID(r.Context())
	state, ok := middleware.GetSession(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "session required", requestID)
		return nil, requestID, false
	}
	return state, requestID, true
}
