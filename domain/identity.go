// Package domain contains core concepts of the support chat system.
// This file defines connection identity and roles.
// No runtime, network, or UI logic should be added here.
package domain

// ConnID is the transport-assigned opaque id of one live connection.
type ConnID string

// Role partitions the connected population.
type Role string

const (
	// RoleAgent sees the traffic of every requester channel.
	RoleAgent Role = "agent"
	// RoleRequester sees only its own channel.
	RoleRequester Role = "requester"
)

func (r Role) Valid() bool {
	return r == RoleAgent || r == RoleRequester
}

// Identity holds the per-connection facts established once at connection
// time from verified token claims. Immutable for the lifetime of the
// connection and re-derived fresh on every new connection; only the
// display name is attached later, when the session opens.
type Identity struct {
	ParticipantID string
	Role          Role
	DisplayName   string
	ConnID        ConnID
}

func (i Identity) IsAgent() bool {
	return i.Role == RoleAgent
}
