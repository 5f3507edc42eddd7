package domain

// PresenceEntry is the cached display metadata for one active requester.
// Derived, not authoritative: the authoritative set is the
// active-requesters group membership.
type PresenceEntry struct {
	ParticipantID string
	DisplayName   string
}
