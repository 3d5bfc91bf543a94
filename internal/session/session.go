// Package session holds the explicit application state of each logged-in
// employee: the current snapshot, the notification log and the session
// token. Nothing here is global; the manager is passed to the handlers and
// the poller that need it.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"portal/internal/domain/employee"
	"portal/internal/domain/notifications"
	syncengine "portal/internal/domain/sync"
)

var ErrInvalidToken = errors.New("invalid session token")

// Claims is the JWT payload of a session token.
type Claims struct {
	SessionID  string `json:"sid"`
	EmployeeID string `json:"eid"`
	jwt.RegisteredClaims
}

// State is the per-session mutable state. Snapshot access goes through the
// accessors; the notification store does its own locking.
type State struct {
	ID            string
	EmployeeID    string
	Notifications *notifications.Store

	mu         sync.RWMutex
	snapshot   *employee.Snapshot
	lastUpdate time.Time
}

func (s *State) Snapshot() *employee.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

func (s *State) SetSnapshot(snapshot *employee.Snapshot) {
	s.mu.Lock()
	s.snapshot = snapshot
	s.lastUpdate = time.Now()
	s.mu.Unlock()
}

func (s *State) LastUpdate() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastUpdate
}

// Manager creates, resolves and tears down sessions.
type Manager struct {
	secret          string
	ttl             time.Duration
	notificationCap int

	mu       sync.RWMutex
	sessions map[string]*State
}

func NewManager(secret string, ttl time.Duration, notificationCap int) *Manager {
	return &Manager{
		secret:          secret,
		ttl:             ttl,
		notificationCap: notificationCap,
		sessions:        make(map[string]*State),
	}
}

// Login creates a session for the employee with the given initial snapshot
// and returns the signed token. The notification log starts with the
// welcome event.
func (m *Manager) Login(employeeID string, snapshot *employee.Snapshot) (string, *State, error) {
	state := &State{
		ID:            uuid.NewString(),
		EmployeeID:    employeeID,
		Notifications: notifications.NewStore(m.notificationCap),
	}
	state.SetSnapshot(snapshot)
	state.Notifications.Add(syncengine.WelcomeEvent(time.Now()))

	token, err := m.generateToken(state)
	if err != nil {
		return "", nil, err
	}

	m.mu.Lock()
	m.sessions[state.ID] = state
	m.mu.Unlock()
	return token, state, nil
}

// Resolve returns the session a token belongs to. A parseable token whose
// session was torn down (logout, restart) resolves to nothing.
func (m *Manager) Resolve(token string) (*State, bool) {
	claims, err := m.parseToken(token)
	if err != nil {
		return nil, false
	}
	m.mu.RLock()
	state, ok := m.sessions[claims.SessionID]
	m.mu.RUnlock()
	return state, ok
}

// Logout tears the session down; its notification log and snapshot are
// discarded with it.
func (m *Manager) Logout(token string) {
	claims, err := m.parseToken(token)
	if err != nil {
		return
	}
	m.Drop(claims.SessionID)
}

// Drop removes a session by id.
func (m *Manager) Drop(sessionID string) {
	m.mu.Lock()
	delete(m.sessions, sessionID)
	m.mu.Unlock()
}

// Active returns every live session, for the background poller.
func (m *Manager) Active() []*State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*State, 0, len(m.sessions))
	for _, state := range m.sessions {
		out = append(out, state)
	}
	return out
}

func (m *Manager) generateToken(state *State) (string, error) {
	claims := Claims{
		SessionID:  state.ID,
		EmployeeID: state.EmployeeID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.secret))
}

func (m *Manager) parseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(m.secret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
