package ws

import (
	"encoding/json"
	"fmt"
	"time"

	"support-chat/domain"
	"support-chat/domain/event"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

var validate = validator.New()

// Envelope is the wire frame: an event name plus its JSON payload.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Inbound payloads.

type OpenSessionPayload struct {
	DisplayName string `json:"displayName" validate:"required,max=64"`
}

type ChatPayload struct {
	Body       string `json:"body" validate:"required,max=4096"`
	ReceiverID string `json:"receiverId"`
}

func decodePayload(data json.RawMessage, out any) error {
	if len(data) == 0 {
		return fmt.Errorf("missing payload")
	}
	if err := json.Unmarshal(data, out); err != nil {
		return err
	}
	return validate.Struct(out)
}

// Outbound payloads.

type sessionOpenedPayload struct {
	ParticipantID string `json:"participantId"`
	DisplayName   string `json:"displayName"`
	Role          string `json:"role"`
}

type presenceEntryPayload struct {
	ParticipantID string `json:"participantId"`
	DisplayName   string `json:"displayName"`
}

type presenceSnapshotPayload struct {
	Entries []presenceEntryPayload `json:"entries"`
}

type presenceRemovedPayload struct {
	ParticipantID string `json:"participantId"`
}

type messagePayload struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"senderId"`
	ReceiverID string    `json:"receiverId,omitempty"`
	Body       string    `json:"body"`
	ChannelID  string    `json:"channelId"`
	SentAt     time.Time `json:"sentAt"`
}

type historyPayload struct {
	Messages []messagePayload `json:"messages"`
	HasMore  bool             `json:"hasMore"`
}

type chatDeliveredPayload struct {
	Message messagePayload `json:"message"`
}

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// toEnvelope translates a domain event to its wire frame.
func toEnvelope(e event.Event) (Envelope, error) {
	var payload any
	switch evt := e.(type) {
	case event.SessionOpened:
		payload = sessionOpenedPayload{
			ParticipantID: evt.ParticipantID,
			DisplayName:   evt.DisplayName,
			Role:          string(evt.Role),
		}
	case event.PresenceSnapshot:
		payload = presenceSnapshotPayload{Entries: toPresenceEntries(evt.Entries)}
	case event.PresenceAdded:
		payload = presenceEntryPayload{
			ParticipantID: evt.ParticipantID,
			DisplayName:   evt.DisplayName,
		}
	case event.PresenceRemoved:
		payload = presenceRemovedPayload{ParticipantID: evt.ParticipantID}
	case event.History:
		payload = historyPayload{
			Messages: lo.Map(evt.Messages, func(m domain.ChatMessage, _ int) messagePayload {
				return toMessagePayload(m)
			}),
			HasMore: evt.HasMore,
		}
	case event.ChatDelivered:
		payload = chatDeliveredPayload{Message: toMessagePayload(evt.Message)}
	case event.ErrorNotice:
		payload = errorPayload{Code: evt.Code, Message: evt.Message}
	default:
		return Envelope{}, fmt.Errorf("no wire mapping for event %q", e.EventName())
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Event: e.EventName(), Data: data}, nil
}

func toPresenceEntries(entries []domain.PresenceEntry) []presenceEntryPayload {
	return lo.Map(entries, func(entry domain.PresenceEntry, _ int) presenceEntryPayload {
		return presenceEntryPayload{
			ParticipantID: entry.ParticipantID,
			DisplayName:   entry.DisplayName,
		}
	})
}

func toMessagePayload(m domain.ChatMessage) messagePayload {
	return messagePayload{
		ID:         m.ID.String(),
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		Body:       m.Body,
		ChannelID:  m.ChannelID,
		SentAt:     m.SentAt,
	}
}
