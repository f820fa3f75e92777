package catalog

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Event actions
const (
	EventActionCreate = "create"
	EventActionUpdate = "update"
	EventActionDelete = "delete"
)

// Event is the audit record handed to event sinks after a successful
// mutation. Sink failures are logged and never fail the operation.
type Event struct {
	ID       uuid.UUID `json:"id"`
	Entity   string    `json:"entity"`
	Action   string    `json:"action"`
	EntityID int64     `json:"entity_id"`
	At       time.Time `json:"at"`
}

// EventSink defines the interface for mutation event handling
type EventSink interface {
	Record(ctx context.Context, event Event) error
}

// LoggingEventSink writes catalog events to a structured logger.
type LoggingEventSink struct {
	logger *slog.Logger
}

// NewLoggingEventSink creates an event sink backed by the given logger.
// A nil logger falls back to slog.Default.
func NewLoggingEventSink(logger *slog.Logger) *LoggingEventSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingEventSink{logger: logger}
}

func (s *LoggingEventSink) Record(ctx context.Context, event Event) error {
	s.logger.InfoContext(ctx, "catalog event",
		"event_id", event.ID,
		"entity", event.Entity,
		"action", event.Action,
		"entity_id", event.EntityID,
	)
	return nil
}
