// Package workers contains the supervised background goroutines.
package workers

import (
	"context"
	"log/slog"

	"support-chat/domain"
	"support-chat/observability"
	"support-chat/repositories"
)

// TicketOp asks the persist worker to record a session boundary for a
// requester.
type TicketOp struct {
	RequesterID string
	Close       bool
}

// PersistWorker drains the persistence queues off the dispatcher
// goroutine, so live delivery never waits on storage I/O. A failed save
// is logged and swallowed: a transient store outage must not block
// real-time routing, at the cost of possible message loss on reconnect.
type PersistWorker struct {
	log      *slog.Logger
	messages <-chan domain.ChatMessage
	tickets  <-chan TicketOp
	repo     repositories.IMessageRepository
	tickRepo repositories.ITicketRepository
	stats    *observability.Stats
}

func NewPersistWorker(log *slog.Logger, messages <-chan domain.ChatMessage,
	tickets <-chan TicketOp, repo repositories.IMessageRepository,
	tickRepo repositories.ITicketRepository, stats *observability.Stats) *PersistWorker {
	return &PersistWorker{
		log:      log,
		messages: messages,
		tickets:  tickets,
		repo:     repo,
		tickRepo: tickRepo,
		stats:    stats,
	}
}

func (w *PersistWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("context done, stopping persistence")
			return nil
		case message := <-w.messages:
			if err := w.repo.StoreMessage(message); err != nil {
				w.stats.SaveFailed()
				w.log.Warn("message not persisted",
					"message_id", message.ID,
					"channel_id", message.ChannelID,
					"error", err)
			}
		case op := <-w.tickets:
			w.applyTicket(op)
		}
	}
}

func (w *PersistWorker) applyTicket(op TicketOp) {
	var err error
	if op.Close {
		err = w.tickRepo.CloseTicket(op.RequesterID)
	} else {
		err = w.tickRepo.OpenTicket(op.RequesterID)
	}
	if err != nil {
		w.log.Warn("ticket not recorded",
			"requester_id", op.RequesterID,
			"close", op.Close,
			"error", err)
	}
}
