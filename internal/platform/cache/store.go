// Package cache persists the per-employee sync baseline and the small set of
// remembered user preferences. The cached snapshot is only the diff baseline
// for the next cycle, never an offline data source.
package cache

import (
	"context"

	"portal/internal/domain/employee"
)

// Preferences are the persisted per-employee settings: the notification
// sound flag and the remembered identifier for simplified re-entry.
type Preferences struct {
	SoundEnabled bool   `json:"soundEnabled"`
	RememberedID string `json:"rememberedId"`
}

// DefaultPreferences match a first-time user: sound on, nothing remembered.
func DefaultPreferences() Preferences {
	return Preferences{SoundEnabled: true}
}

// Store is the persistence boundary. GetSnapshot returns (nil, nil) when no
// baseline exists yet for the identifier.
type Store interface {
	GetSnapshot(ctx context.Context, employeeID string) (*employee.Snapshot, error)
	PutSnapshot(ctx context.Context, employeeID string, snapshot *employee.Snapshot) error
	GetPreferences(ctx context.Context, employeeID string) (Preferences, error)
	PutPreferences(ctx context.Context, employeeID string, prefs Preferences) error
}
