// Package sink provides EventSink implementations.
package sink

import (
	"context"
	"log/slog"

	"support-chat/domain/event"
)

// ConnectionSink buffers events for one connection's write pump.
type ConnectionSink struct {
	log    *slog.Logger
	Events chan event.Event
}

func NewConnectionSink(log *slog.Logger, bufferSize int) *ConnectionSink {
	return &ConnectionSink{log: log, Events: make(chan event.Event, bufferSize)}
}

// Consume hands the event to the write pump without blocking the caller.
// A full buffer means the connection is too slow or already gone; the
// event is dropped, mirroring what the transport does with writes to a
// dead socket.
func (s *ConnectionSink) Consume(ctx context.Context, e event.Event) error {
	select {
	case s.Events <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		s.log.Debug("connection buffer full, dropping event", "event", e.EventName())
		return nil
	}
}
