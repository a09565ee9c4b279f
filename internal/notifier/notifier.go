// Package notifier is the write-only event sink for post-commit side
// effects (webhooks, email queues, automation triggers). Delivery failures
// are logged and never surfaced to the caller: the version or transition
// is already committed.
package notifier

import (
	"context"

	"github.com/openpress/openpress-backend/pkg/logger"
)

// Sink accepts (event_type, payload) pairs after a successful commit
type Sink interface {
	Notify(ctx context.Context, eventType string, payload map[string]interface{}) error
}

// LogSink writes events to the structured log. Used when redis is not
// configured and as the fallback target in development.
type LogSink struct{}

// NewLogSink creates a LogSink
func NewLogSink() *LogSink { return &LogSink{} }

// Notify logs the event
func (s *LogSink) Notify(_ context.Context, eventType string, payload map[string]interface{}) error {
	logger.GetLogger().Info().
		Str("event_type", eventType).
		Interface("payload", payload).
		Msg("notification")
	return nil
}
