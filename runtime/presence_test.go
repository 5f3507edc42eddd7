package runtime

import (
	"log/slog"
	"testing"

	"support-chat/domain"
	"support-chat/domain/event"

	"github.com/stretchr/testify/require"
)

type presenceFixture struct {
	membership *Membership
	tracker    *PresenceTracker
	identities map[domain.ConnID]domain.Identity
	emitted    []event.Event
}

func newPresenceFixture() *presenceFixture {
	f := &presenceFixture{
		membership: NewMembership(slog.Default()),
		identities: make(map[domain.ConnID]domain.Identity),
	}
	f.tracker = NewPresenceTracker(slog.Default(), f.membership,
		func(connID domain.ConnID) (domain.Identity, bool) {
			identity, ok := f.identities[connID]
			return identity, ok
		},
		func(e event.Event) { f.emitted = append(f.emitted, e) })
	return f
}

func (f *presenceFixture) connect(connID domain.ConnID, participantID, displayName string) {
	f.identities[connID] = domain.Identity{
		ParticipantID: participantID,
		Role:          domain.RoleRequester,
		DisplayName:   displayName,
		ConnID:        connID,
	}
	f.membership.Join(connID, domain.GroupActiveRequesters)
}

func TestPresence_FirstConnectionEmitsAdded(t *testing.T) {
	req := require.New(t)
	f := newPresenceFixture()

	f.connect("c1", "alice", "Alice")

	req.Equal([]event.Event{event.PresenceAdded{ParticipantID: "alice", DisplayName: "Alice"}}, f.emitted)
	req.True(f.tracker.IsActive("alice"))
}

func TestPresence_SecondConnectionOfSameParticipantIsSilent(t *testing.T) {
	req := require.New(t)
	f := newPresenceFixture()

	// Given a participant already active on one connection
	f.connect("c1", "alice", "Alice")
	f.emitted = nil

	// When a second tab of the same participant joins
	f.connect("c2", "alice", "Alice")

	// Then no delta fires, and only the last leave emits a removal
	req.Empty(f.emitted)

	f.membership.Leave("c1", domain.GroupActiveRequesters)
	req.Empty(f.emitted)
	req.True(f.tracker.IsActive("alice"))

	f.membership.Leave("c2", domain.GroupActiveRequesters)
	req.Equal([]event.Event{event.PresenceRemoved{ParticipantID: "alice"}}, f.emitted)
	req.False(f.tracker.IsActive("alice"))
}

func TestPresence_LeaveResolvesFromCacheAfterTeardown(t *testing.T) {
	req := require.New(t)
	f := newPresenceFixture()

	f.connect("c1", "alice", "Alice")
	f.emitted = nil

	// When the connection registry entry is gone before the leave
	delete(f.identities, "c1")
	f.membership.Leave("c1", domain.GroupActiveRequesters)

	// Then the removal still names the participant
	req.Equal([]event.Event{event.PresenceRemoved{ParticipantID: "alice"}}, f.emitted)
}

func TestPresence_SnapshotDedupesPerParticipant(t *testing.T) {
	req := require.New(t)
	f := newPresenceFixture()

	f.connect("c1", "alice", "Alice")
	f.connect("c2", "bob", "Bob")
	// Alice renames herself on a newer connection.
	f.connect("c3", "alice", "Alice 2")

	snapshot := f.tracker.Snapshot()

	// One entry per participant; alice is ordered by her newest
	// connection's join and carries its metadata.
	req.Len(snapshot, 2)
	req.Equal("bob", snapshot[0].ParticipantID)
	req.Equal("alice", snapshot[1].ParticipantID)
	req.Equal("Alice 2", snapshot[1].DisplayName)
}

func TestPresence_DuplicateLeaveIsNoOp(t *testing.T) {
	req := require.New(t)
	f := newPresenceFixture()

	f.connect("c1", "alice", "Alice")
	f.membership.Leave("c1", domain.GroupActiveRequesters)
	f.emitted = nil

	f.tracker.left("c1")

	req.Empty(f.emitted)
	req.False(f.tracker.IsActive("alice"))
}
