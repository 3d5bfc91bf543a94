package notifications

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeSalary  Type = "salary"
	TypeAdmin   Type = "admin"
	TypeSystem  Type = "system"
	TypeGeneral Type = "general"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityNormal Priority = "normal"
	PriorityLow    Priority = "low"
)

// Event is one generated notification. Events are never fetched from the
// source sheets; they only exist in the session's log.
type Event struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Message   string   `json:"message"`
	Time      string   `json:"time"`
	Timestamp int64    `json:"timestamp"`
	Read      bool     `json:"read"`
	Type      Type     `json:"type"`
	Priority  Priority `json:"priority"`
}

// NewEvent builds an event stamped with the given time. The uuid identity
// keeps events unique even when several are created in the same millisecond.
func NewEvent(title, message string, eventType Type, priority Priority, at time.Time) Event {
	return Event{
		ID:        uuid.NewString(),
		Title:     title,
		Message:   message,
		Time:      at.Format("15:04"),
		Timestamp: at.UnixMilli(),
		Type:      eventType,
		Priority:  priority,
	}
}
