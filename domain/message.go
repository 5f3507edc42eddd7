package domain

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage represents an immutable chat event.
//
// ChannelID always equals the requester's participant id, regardless of
// which role sent the message. This single routing key is what lets both
// the requester's own channel and the agent pool receive the same message
// unambiguously.
type ChatMessage struct {
	ID         uuid.UUID
	SenderID   string
	ReceiverID string // set by an agent reply, empty for requester-originated
	Body       string
	ChannelID  string
	SentAt     time.Time
}
