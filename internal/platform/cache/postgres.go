package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"portal/internal/domain/employee"
)

// Postgres keeps baselines and preferences in two small tables so they
// survive restarts and are shared between replicas.
type Postgres struct {
	DB *pgxpool.Pool
}

func NewPostgres(db *pgxpool.Pool) *Postgres {
	return &Postgres{DB: db}
}

// Init creates the cache tables when they do not exist yet.
func (p *Postgres) Init(ctx context.Context) error {
	_, err := p.DB.Exec(ctx, `
    CREATE TABLE IF NOT EXISTS employee_snapshots (
      employee_id TEXT PRIMARY KEY,
      snapshot    JSONB NOT NULL,
      updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
    );
    CREATE TABLE IF NOT EXISTS employee_preferences (
      employee_id   TEXT PRIMARY KEY,
      sound_enabled BOOLEAN NOT NULL DEFAULT true,
      remembered_id TEXT NOT NULL DEFAULT '',
      updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
    );
  `)
	if err != nil {
		return fmt.Errorf("init cache tables: %w", err)
	}
	return nil
}

func (p *Postgres) GetSnapshot(ctx context.Context, employeeID string) (*employee.Snapshot, error) {
	var data []byte
	err := p.DB.QueryRow(ctx, `
    SELECT snapshot FROM employee_snapshots WHERE employee_id = $1
  `, employeeID).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var snapshot employee.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("decode cached snapshot: %w", err)
	}
	return &snapshot, nil
}

func (p *Postgres) PutSnapshot(ctx context.Context, employeeID string, snapshot *employee.Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	_, err = p.DB.Exec(ctx, `
    INSERT INTO employee_snapshots (employee_id, snapshot)
    VALUES ($1, $2)
    ON CONFLICT (employee_id) DO UPDATE
      SET snapshot = EXCLUDED.snapshot,
          updated_at = now()
  `, employeeID, data)
	return err
}

func (p *Postgres) GetPreferences(ctx context.Context, employeeID string) (Preferences, error) {
	prefs := DefaultPreferences()
	err := p.DB.QueryRow(ctx, `
    SELECT sound_enabled, remembered_id
    FROM employee_preferences
    WHERE employee_id = $1
  `, employeeID).Scan(&prefs.SoundEnabled, &prefs.RememberedID)
	if errors.Is(err, pgx.ErrNoRows) {
		return DefaultPreferences(), nil
	}
	if err != nil {
		return Preferences{}, err
	}
	return prefs, nil
}

func (p *Postgres) PutPreferences(ctx context.Context, employeeID string, prefs Preferences) error {
	_, err := p.DB.Exec(ctx, `
    INSERT INTO employee_preferences (employee_id, sound_enabled, remembered_id)
    VALUES ($1, $2, $3)
    ON CONFLICT (employee_id) DO UPDATE
      SET sound_enabled = EXCLUDED.sound_enabled,
          remembered_id = EXCLUDED.remembered_id,
          updated_at = now()
  `, employeeID, prefs.SoundEnabled, prefs.RememberedID)
	return err
}
