package catalog

import "context"

// NoopEventSink discards all events.
type NoopEventSink struct{}

// NewNoopEventSink creates an event sink that does nothing.
func NewNoopEventSink() *NoopEventSink {
	return &NoopEventSink{}
}

func (s *NoopEventSink) Record(ctx context.Context, event Event) error {
	return nil
}
