package sync

import (
	"strings"

	"portal/internal/domain/employee"
)

// recordKey builds the composite identity of a ledger record. Two records
// are the same event across cycles iff trimmed name, amount and trimmed date
// all match; a missing date collapses to a fixed sentinel.
func recordKey(r employee.LedgerRecord) string {
	date := strings.TrimSpace(r.Date)
	if date == "" {
		date = "no-date"
	}
	return strings.TrimSpace(r.Name) + "|" + r.Amount.String() + "|" + date
}

// diffAdded returns the records of next whose identity is absent from prev.
// The result is independent of the ordering of either input, and records
// only present in prev (removals) are ignored.
func diffAdded(prev, next []employee.LedgerRecord) []employee.LedgerRecord {
	seen := make(map[string]bool, len(prev))
	for _, r := range prev {
		seen[recordKey(r)] = true
	}

	var added []employee.LedgerRecord
	for _, r := range next {
		if !seen[recordKey(r)] {
			added = append(added, r)
		}
	}
	return added
}
