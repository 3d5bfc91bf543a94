package portalhandler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	syncengine "portal/internal/domain/sync"
	"portal/internal/middleware"
	"portal/internal/platform/cache"
	"portal/internal/platform/sheets"
	"portal/internal/session"
	authhandler "portal/internal/transport/http/handlers/auth"
	notificationhandler "portal/internal/transport/http/handlers/notifications"
)

type fakeFetcher struct {
	docs sheets.Documents
}

func (f *fakeFetcher) FetchAll(context.Context) (sheets.Documents, error) {
	return f.docs, nil
}

const adminCSV = "1001,احمد علي,بكالوريوس,مبرمج,السادسة,الاولى,850000,,,,,,2015-09-14,,,10 سنوات,45,12\n"

func testDocs() sheets.Documents {
	return sheets.Documents{
		Admin:         adminCSV,
		CurrentSalary: "الرقم الوظيفي,صافي الراتب,التاريخ\n1001,1050000,2024-03-01\n",
		ArchiveSalary: "الرقم الوظيفي,صافي الراتب,التاريخ\n",
		Bonuses:       "الرقم الوظيفي,اسم المكافأة,مبلغ,تاريخ\n1001,مكافأة العيد,50000,2024-01-01\n",
		Dispatches:    "الرقم الوظيفي,اسم,مبلغ,تاريخ\n",
		ExtraHours:    "الرقم الوظيفي,اسم,مبلغ,تاريخ\n",
	}
}

func newTestServer(t *testing.T) (*httptest.Server, *fakeFetcher) {
	t.Helper()

	fetcher := &fakeFetcher{docs: testDocs()}
	store := cache.NewMemory()
	engine := syncengine.NewEngine(fetcher, store)
	sessions := session.NewManager("test-secret", time.Hour, 0)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Session(sessions))
	router.Route("/api/v1", func(r chi.Router) {
		authhandler.NewHandler(sessions, engine, store).RegisterRoutes(r)
		NewHandler(engine, store).RegisterRoutes(r)
		notificationhandler.NewHandler().RegisterRoutes(r)
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server, fetcher
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func doRequest(t *testing.T, method, url, token string, body any) (*http.Response, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	request, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := http.DefaultClient.Do(request)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	t.Cleanup(func() { response.Body.Close() })

	var env envelope
	if strings.HasPrefix(response.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(response.Body).Decode(&env); err != nil {
			t.Fatalf("decode envelope: %v", err)
		}
	}
	return response, env
}

func login(t *testing.T, server *httptest.Server) string {
	t.Helper()
	response, env := doRequest(t, http.MethodPost, server.URL+"/api/v1/auth/login", "",
		map[string]string{"employeeId": "1001"})
	if response.StatusCode != http.StatusOK || !env.Success {
		t.Fatalf("login failed: status %d, envelope %+v", response.StatusCode, env)
	}
	var data struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode login data: %v", err)
	}
	if data.Token == "" {
		t.Fatal("expected a session token")
	}
	return data.Token
}

func TestLoginAgainstExistingBaselineDeliversEvents(t *testing.T) {
	server, fetcher := newTestServer(t)

	token := login(t, server)
	response, _ := doRequest(t, http.MethodPost, server.URL+"/api/v1/auth/logout", token, nil)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("logout failed with %d", response.StatusCode)
	}

	// A record posted between sessions must surface at the next login:
	// the cached baseline survives the session.
	fetcher.docs.Bonuses += "1001,مكافأة اداء,75000,2024-02-01\n"

	response, env := doRequest(t, http.MethodPost, server.URL+"/api/v1/auth/login", "",
		map[string]string{"employeeId": "1001"})
	if response.StatusCode != http.StatusOK {
		t.Fatalf("second login failed with %d", response.StatusCode)
	}
	var data struct {
		Notifications []struct {
			Message string `json:"message"`
		} `json:"notifications"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode login data: %v", err)
	}
	// welcome + bonus diff event
	if len(data.Notifications) != 2 {
		t.Fatalf("expected welcome plus one change event, got %d: %+v", len(data.Notifications), data.Notifications)
	}
	found := false
	for _, n := range data.Notifications {
		if strings.Contains(n.Message, "مكافأة اداء") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a notification naming the new record, got %+v", data.Notifications)
	}
}

func TestLoginUnknownEmployee(t *testing.T) {
	server, _ := newTestServer(t)
	response, env := doRequest(t, http.MethodPost, server.URL+"/api/v1/auth/login", "",
		map[string]string{"employeeId": "9999"})
	if response.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", response.StatusCode)
	}
	if env.Error == nil || env.Error.Code != "employee_not_found" {
		t.Fatalf("unexpected error envelope: %+v", env)
	}
}

func TestOverviewRequiresSession(t *testing.T) {
	server, _ := newTestServer(t)
	response, _ := doRequest(t, http.MethodGet, server.URL+"/api/v1/me", "", nil)
	if response.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", response.StatusCode)
	}
}

func TestOverviewAndLedgers(t *testing.T) {
	server, _ := newTestServer(t)
	token := login(t, server)

	response, env := doRequest(t, http.MethodGet, server.URL+"/api/v1/me", token, nil)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", response.StatusCode)
	}
	var overview struct {
		Employee struct {
			Profile struct {
				Name string `json:"name"`
			} `json:"profile"`
		} `json:"employee"`
		UnreadCount int `json:"unreadCount"`
	}
	if err := json.Unmarshal(env.Data, &overview); err != nil {
		t.Fatalf("decode overview: %v", err)
	}
	if overview.Employee.Profile.Name != "احمد علي" {
		t.Fatalf("unexpected profile name %q", overview.Employee.Profile.Name)
	}
	if overview.UnreadCount != 1 {
		t.Fatalf("expected the welcome event unread, got %d", overview.UnreadCount)
	}

	response, env = doRequest(t, http.MethodGet, server.URL+"/api/v1/me/ledger/bonuses", token, nil)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for bonuses ledger, got %d", response.StatusCode)
	}
	var records []struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(env.Data, &records); err != nil {
		t.Fatalf("decode ledger: %v", err)
	}
	if len(records) != 1 || records[0].Name != "مكافأة العيد" {
		t.Fatalf("unexpected ledger contents: %+v", records)
	}

	response, _ = doRequest(t, http.MethodGet, server.URL+"/api/v1/me/ledger/vacations", token, nil)
	if response.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown category, got %d", response.StatusCode)
	}
}

func TestRefreshPicksUpNewBonus(t *testing.T) {
	server, fetcher := newTestServer(t)
	token := login(t, server)

	fetcher.docs.Bonuses += "1001,مكافأة اداء,75000,2024-02-01\n"

	response, env := doRequest(t, http.MethodPost, server.URL+"/api/v1/me/refresh", token, nil)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", response.StatusCode)
	}
	var refresh struct {
		Refreshed bool `json:"refreshed"`
		Events    []struct {
			Message string `json:"message"`
		} `json:"events"`
		UnreadCount int `json:"unreadCount"`
	}
	if err := json.Unmarshal(env.Data, &refresh); err != nil {
		t.Fatalf("decode refresh: %v", err)
	}
	if !refresh.Refreshed || len(refresh.Events) != 1 {
		t.Fatalf("expected one change event, got %+v", refresh)
	}
	if !strings.Contains(refresh.Events[0].Message, "مكافأة اداء") {
		t.Fatalf("expected event to name the record, got %q", refresh.Events[0].Message)
	}
	// welcome + bonus event
	if refresh.UnreadCount != 2 {
		t.Fatalf("expected 2 unread, got %d", refresh.UnreadCount)
	}
}

func TestPayslipPDF(t *testing.T) {
	server, _ := newTestServer(t)
	token := login(t, server)

	request, _ := http.NewRequest(http.MethodGet, server.URL+"/api/v1/me/payslips/0/pdf", nil)
	request.Header.Set("Authorization", "Bearer "+token)
	response, err := http.DefaultClient.Do(request)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", response.StatusCode)
	}
	if got := response.Header.Get("Content-Type"); got != "application/pdf" {
		t.Fatalf("expected application/pdf, got %q", got)
	}

	response2, _ := doRequest(t, http.MethodGet, server.URL+"/api/v1/me/payslips/9/pdf", token, nil)
	if response2.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for out-of-range index, got %d", response2.StatusCode)
	}
}

func TestPreferencesRoundTrip(t *testing.T) {
	server, _ := newTestServer(t)
	token := login(t, server)

	response, env := doRequest(t, http.MethodPut, server.URL+"/api/v1/me/preferences", token,
		map[string]bool{"soundEnabled": false})
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", response.StatusCode)
	}
	var prefs struct {
		SoundEnabled bool   `json:"soundEnabled"`
		RememberedID string `json:"rememberedId"`
	}
	if err := json.Unmarshal(env.Data, &prefs); err != nil {
		t.Fatalf("decode preferences: %v", err)
	}
	if prefs.SoundEnabled {
		t.Fatal("expected sound disabled after update")
	}
	if prefs.RememberedID != "1001" {
		t.Fatalf("expected remembered identifier preserved, got %q", prefs.RememberedID)
	}
}

func TestNotificationLifecycle(t *testing.T) {
	server, _ := newTestServer(t)
	token := login(t, server)

	_, env := doRequest(t, http.MethodGet, server.URL+"/api/v1/notifications", token, nil)
	var list struct {
		Notifications []struct {
			ID string `json:"id"`
		} `json:"notifications"`
		UnreadCount int `json:"unreadCount"`
	}
	if err := json.Unmarshal(env.Data, &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list.Notifications) != 1 || list.UnreadCount != 1 {
		t.Fatalf("expected the welcome event, got %+v", list)
	}

	id := list.Notifications[0].ID
	response, _ := doRequest(t, http.MethodPost, server.URL+"/api/v1/notifications/"+id+"/read", token, nil)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("mark read failed with %d", response.StatusCode)
	}

	response, _ = doRequest(t, http.MethodPost, server.URL+"/api/v1/notifications/unknown/read", token, nil)
	if response.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown notification, got %d", response.StatusCode)
	}

	response, _ = doRequest(t, http.MethodDelete, server.URL+"/api/v1/notifications", token, nil)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("clear failed with %d", response.StatusCode)
	}

	_, env = doRequest(t, http.MethodGet, server.URL+"/api/v1/notifications", token, nil)
	if err := json.Unmarshal(env.Data, &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list.Notifications) != 0 {
		t.Fatalf("expected empty log after clear, got %d entries", len(list.Notifications))
	}
}

func TestLogoutInvalidatesSession(t *testing.T) {
	server, _ := newTestServer(t)
	token := login(t, server)

	response, _ := doRequest(t, http.MethodPost, server.URL+"/api/v1/auth/logout", token, nil)
	if response.StatusCode != http.StatusOK {
		t.Fatalf("logout failed with %d", response.StatusCode)
	}

	response, _ = doRequest(t, http.MethodGet, server.URL+"/api/v1/me", token, nil)
	if response.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", response.StatusCode)
	}
}
