package runtime

import (
	"log/slog"
	"sort"

	"support-chat/contract"
	"support-chat/domain"
	"support-chat/domain/event"
)

type presenceRecord struct {
	entry domain.PresenceEntry
	seq   uint64
}

// PresenceTracker maintains the "currently active requester" view that
// agents observe. It caches display metadata per connection and counts
// connections per participant, so that:
//
//   - presence-added fires when a participant's first connection enters
//     the active pool, presence-removed when its last one leaves, and the
//     snapshot plus delta stream converges to the true membership even
//     for participants holding several connections;
//   - a leave observed after the connection registry entry is torn down
//     still resolves to a participant id from the local cache.
//
// The tracker registers its membership listener at construction time,
// before any snapshot can be taken, so no delta is lost between a
// snapshot read and the subscription.
//
// All methods run on the router goroutine; no locking needed.
type PresenceTracker struct {
	log     *slog.Logger
	resolve func(domain.ConnID) (domain.Identity, bool)
	emit    func(e event.Event)
	records map[domain.ConnID]presenceRecord
	refs    map[string]int
	seq     uint64
}

func NewPresenceTracker(log *slog.Logger, membership contract.IMembership,
	resolve func(domain.ConnID) (domain.Identity, bool), emit func(e event.Event)) *PresenceTracker {
	t := &PresenceTracker{
		log:     log,
		resolve: resolve,
		emit:    emit,
		records: make(map[domain.ConnID]presenceRecord),
		refs:    make(map[string]int),
	}
	membership.OnChange(domain.GroupActiveRequesters, t.onChange)
	return t
}

func (t *PresenceTracker) onChange(e contract.MembershipEvent, connID domain.ConnID) {
	switch e {
	case contract.Joined:
		t.joined(connID)
	case contract.Left:
		t.left(connID)
	}
}

func (t *PresenceTracker) joined(connID domain.ConnID) {
	identity, ok := t.resolve(connID)
	if !ok {
		t.log.Warn("active pool join for unknown connection", "conn_id", connID)
		return
	}
	t.seq++
	t.records[connID] = presenceRecord{
		entry: domain.PresenceEntry{
			ParticipantID: identity.ParticipantID,
			DisplayName:   identity.DisplayName,
		},
		seq: t.seq,
	}
	t.refs[identity.ParticipantID]++
	if t.refs[identity.ParticipantID] == 1 {
		t.emit(event.PresenceAdded{
			ParticipantID: identity.ParticipantID,
			DisplayName:   identity.DisplayName,
		})
	}
}

func (t *PresenceTracker) left(connID domain.ConnID) {
	record, ok := t.records[connID]
	if !ok {
		// Duplicate leave or a connection that was never tracked.
		return
	}
	delete(t.records, connID)
	participantID := record.entry.ParticipantID
	t.refs[participantID]--
	if t.refs[participantID] <= 0 {
		delete(t.refs, participantID)
		t.emit(event.PresenceRemoved{ParticipantID: participantID})
	}
}

// IsActive reports whether the participant still holds at least one
// connection in the active pool.
func (t *PresenceTracker) IsActive(participantID string) bool {
	return t.refs[participantID] > 0
}

// Snapshot returns one entry per active participant, in join order,
// keeping the most recently joined connection's metadata when a
// participant holds several connections.
func (t *PresenceTracker) Snapshot() []domain.PresenceEntry {
	best := make(map[string]presenceRecord, len(t.records))
	for _, record := range t.records {
		if current, ok := best[record.entry.ParticipantID]; !ok || record.seq > current.seq {
			best[record.entry.ParticipantID] = record
		}
	}
	records := make([]presenceRecord, 0, len(best))
	for _, record := range best {
		records = append(records, record)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].seq < records[j].seq })

	entries := make([]domain.PresenceEntry, 0, len(records))
	for _, record := range records {
		entries = append(entries, record.entry)
	}
	return entries
}
