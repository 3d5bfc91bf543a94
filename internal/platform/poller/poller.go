// Package poller drives the background refresh: every active session gets a
// silent sync cycle on a fixed interval, mirroring the client timer of the
// original portal.
package poller

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	syncengine "portal/internal/domain/sync"
	"portal/internal/session"
)

type Poller struct {
	cron     *cron.Cron
	engine   *syncengine.Engine
	sessions *session.Manager
	interval time.Duration

	mu      sync.Mutex
	running bool
}

func New(engine *syncengine.Engine, sessions *session.Manager, interval time.Duration) *Poller {
	return &Poller{
		cron:     cron.New(),
		engine:   engine,
		sessions: sessions,
		interval: interval,
	}
}

// Start schedules the polling job. Starting twice is an error.
func (p *Poller) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return fmt.Errorf("poller already running")
	}

	if _, err := p.cron.AddFunc(fmt.Sprintf("@every %s", p.interval), p.Tick); err != nil {
		return fmt.Errorf("adding poll schedule: %w", err)
	}

	p.cron.Start()
	p.running = true
	slog.Info("background poller started", "interval", p.interval.String())
	return nil
}

// Stop waits for a running tick to finish before returning.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}
	ctx := p.cron.Stop()
	<-ctx.Done()
	p.running = false
	slog.Info("background poller stopped")
}

// Tick refreshes every active session once, silently. Failures are logged
// and swallowed: background cycles never surface errors to the user, and the
// next tick is the only retry mechanism.
func (p *Poller) Tick() {
	for _, state := range p.sessions.Active() {
		snapshot, events, err := p.engine.Sync(context.Background(), state.EmployeeID, true)
		if err != nil {
			slog.Warn("background sync failed", "employeeId", state.EmployeeID, "err", err)
			continue
		}
		state.SetSnapshot(snapshot)
		state.Notifications.Add(events...)
	}
}
