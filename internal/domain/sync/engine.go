// Package sync runs the portal's refresh cycle: fetch every source sheet,
// normalize the rows into an employee snapshot, diff it against the cached
// baseline and turn detected additions into notification events.
package sync

import (
	"context"
	"fmt"
	"log/slog"
	stdsync "sync"
	"time"

	"portal/internal/domain/employee"
	"portal/internal/domain/notifications"
	"portal/internal/platform/cache"
	"portal/internal/platform/sheets"
	"portal/internal/sheetcsv"
)

// Fetcher yields the raw CSV text of all six sources for one cycle.
type Fetcher interface {
	FetchAll(ctx context.Context) (sheets.Documents, error)
}

// Engine orchestrates refresh cycles. One engine serves all sessions; cycles
// for the same identifier are serialized by a per-identifier lock so an
// overlapping timer tick and manual refresh can never interleave their
// baseline read and write.
type Engine struct {
	fetcher Fetcher
	cache   cache.Store

	mu    stdsync.Mutex
	locks map[string]*stdsync.Mutex
}

func NewEngine(fetcher Fetcher, cacheStore cache.Store) *Engine {
	return &Engine{
		fetcher: fetcher,
		cache:   cacheStore,
		locks:   make(map[string]*stdsync.Mutex),
	}
}

// Sync runs one end-to-end refresh cycle for employeeID.
//
// The new snapshot always replaces the cached baseline, whether or not
// changes were detected. Events are only generated when a baseline existed:
// the first cycle for an identifier establishes the baseline silently so a
// fresh login is not spammed with one event per historical record. When a
// non-silent cycle finds nothing new, a single informational event is
// returned instead.
func (e *Engine) Sync(ctx context.Context, employeeID string, silent bool) (*employee.Snapshot, []notifications.Event, error) {
	lock := e.lockFor(employeeID)
	lock.Lock()
	defer lock.Unlock()

	started := time.Now()

	docs, err := e.fetcher.FetchAll(ctx)
	if err != nil {
		return nil, nil, err
	}

	snapshot, err := buildSnapshot(docs, employeeID)
	if err != nil {
		return nil, nil, err
	}

	baseline, err := e.cache.GetSnapshot(ctx, employeeID)
	if err != nil {
		return nil, nil, fmt.Errorf("load baseline: %w", err)
	}

	now := time.Now()
	var events []notifications.Event
	if baseline != nil {
		events = detectChanges(baseline, snapshot, now)
	}

	if err := e.cache.PutSnapshot(ctx, employeeID, snapshot); err != nil {
		return nil, nil, fmt.Errorf("store baseline: %w", err)
	}

	if len(events) == 0 && !silent {
		events = append(events, noChangesEvent(now))
	}

	slog.Info("sync cycle complete",
		"employeeId", employeeID,
		"silent", silent,
		"baseline", baseline != nil,
		"events", len(events),
		"durationMs", time.Since(started).Milliseconds(),
	)
	return snapshot, events, nil
}

// HasHighPriority reports whether any event warrants the high-priority
// alert treatment (sound/vibration on the client).
func HasHighPriority(events []notifications.Event) bool {
	for _, event := range events {
		if event.Priority == notifications.PriorityHigh {
			return true
		}
	}
	return false
}

func (e *Engine) lockFor(employeeID string) *stdsync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	lock, ok := e.locks[employeeID]
	if !ok {
		lock = &stdsync.Mutex{}
		e.locks[employeeID] = lock
	}
	return lock
}

func buildSnapshot(docs sheets.Documents, employeeID string) (*employee.Snapshot, error) {
	profile, err := employee.NormalizeProfile(sheetcsv.Parse(docs.Admin), employeeID)
	if err != nil {
		return nil, err
	}

	current := employee.NormalizeSalaries(sheetcsv.Parse(docs.CurrentSalary), employeeID)
	archive := employee.NormalizeSalaries(sheetcsv.Parse(docs.ArchiveSalary), employeeID)

	return &employee.Snapshot{
		Profile:       profile,
		SalaryHistory: employee.MergeSalaryHistory(current, archive),
		Bonuses:       employee.NormalizeLedger(sheetcsv.Parse(docs.Bonuses), employeeID),
		Dispatches:    employee.NormalizeLedger(sheetcsv.Parse(docs.Dispatches), employeeID),
		ExtraHours:    employee.NormalizeLedger(sheetcsv.Parse(docs.ExtraHours), employeeID),
	}, nil
}

// detectChanges compares the new snapshot against the baseline. Each ledger
// category contributes at most one event covering all of its additions; the
// salary history is compared positionally on the latest statement's (month,
// year) because statements have no stable key beyond that pair.
func detectChanges(baseline, next *employee.Snapshot, at time.Time) []notifications.Event {
	var events []notifications.Event

	for _, spec := range categorySpecs {
		added := diffAdded(baseline.Ledger(spec.category), next.Ledger(spec.category))
		if len(added) > 0 {
			events = append(events, ledgerEvent(spec, added, at))
		}
	}

	if latest := next.LatestSalary(); latest != nil {
		previous := baseline.LatestSalary()
		if previous == nil || previous.Month != latest.Month || previous.Year != latest.Year {
			events = append(events, salaryEvent(*latest, at))
		}
	}

	return events
}
