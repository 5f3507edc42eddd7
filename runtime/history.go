package runtime

import (
	"log/slog"

	"support-chat/domain/event"
	"support-chat/repositories"

	"github.com/samber/lo"
)

// Backfill pages recent messages for a requester that just opened a
// session. A pure read: any store failure degrades to an empty page
// instead of blocking the session open.
type Backfill struct {
	repository repositories.IMessageRepository
	log        *slog.Logger
	pageSize   int
}

func NewBackfill(repository repositories.IMessageRepository, log *slog.Logger, pageSize int) Backfill {
	return Backfill{repository: repository, log: log, pageSize: pageSize}
}

// Page queries pageSize+1 recent messages to probe for more, then
// re-presents the first pageSize oldest-first.
func (b Backfill) Page(participantID string) event.History {
	messages, err := b.repository.FindRecent(participantID, b.pageSize+1)
	if err != nil {
		b.log.Warn("history backfill degraded to empty page",
			"participant_id", participantID, "error", err)
		return event.History{}
	}
	hasMore := len(messages) > b.pageSize
	if hasMore {
		messages = messages[:b.pageSize]
	}
	return event.History{Messages: lo.Reverse(messages), HasMore: hasMore}
}
