// Package event defines the outbound events delivered to connections.
package event

import "support-chat/domain"

// Event is delivered to connection sinks and translated to wire
// envelopes at the transport layer.
type Event interface {
	EventName() string
}

// SessionOpened is sent to the opening connection only.
type SessionOpened struct {
	ParticipantID string
	DisplayName   string
	Role          domain.Role
}

func (SessionOpened) EventName() string { return "session-opened" }

// PresenceSnapshot is sent once to a newly-opened agent, deduplicated to
// one entry per participant.
type PresenceSnapshot struct {
	Entries []domain.PresenceEntry
}

func (PresenceSnapshot) EventName() string { return "presence-snapshot" }

// PresenceAdded is broadcast to the agent pool when a requester enters
// the active pool.
type PresenceAdded struct {
	ParticipantID string
	DisplayName   string
}

func (PresenceAdded) EventName() string { return "presence-added" }

// PresenceRemoved is broadcast to the agent pool when a requester leaves
// the active pool.
type PresenceRemoved struct {
	ParticipantID string
}

func (PresenceRemoved) EventName() string { return "presence-removed" }

// History is sent once to a requester connection that just opened a
// session, oldest message first.
type History struct {
	Messages []domain.ChatMessage
	HasMore  bool
}

func (History) EventName() string { return "history" }

// ChatDelivered carries one relayed message to the requester channel and
// the agent pool.
type ChatDelivered struct {
	Message domain.ChatMessage
}

func (ChatDelivered) EventName() string { return "chat-delivered" }

// ErrorNotice reports a dropped event back to its sender.
type ErrorNotice struct {
	Code    string
	Message string
}

func (ErrorNotice) EventName() string { return "error" }
