package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"portal/internal/domain/employee"
)

// Memory is the default store when no database is configured. Snapshots are
// kept JSON-serialized so behavior matches the Postgres store exactly.
type Memory struct {
	mu        sync.RWMutex
	snapshots map[string][]byte
	prefs     map[string]Preferences
}

func NewMemory() *Memory {
	return &Memory{
		snapshots: make(map[string][]byte),
		prefs:     make(map[string]Preferences),
	}
}

func (m *Memory) GetSnapshot(_ context.Context, employeeID string) (*employee.Snapshot, error) {
	m.mu.RLock()
	data, ok := m.snapshots[employeeID]
	m.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	var snapshot employee.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("decode cached snapshot: %w", err)
	}
	return &snapshot, nil
}

func (m *Memory) PutSnapshot(_ context.Context, employeeID string, snapshot *employee.Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	m.mu.Lock()
	m.snapshots[employeeID] = data
	m.mu.Unlock()
	return nil
}

func (m *Memory) GetPreferences(_ context.Context, employeeID string) (Preferences, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if prefs, ok := m.prefs[employeeID]; ok {
		return prefs, nil
	}
	return DefaultPreferences(), nil
}

func (m *Memory) PutPreferences(_ context.Context, employeeID string, prefs Preferences) error {
	m.mu.Lock()
	m.prefs[employeeID] = prefs
	m.mu.Unlock()
	return nil
}
