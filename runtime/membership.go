// Package runtime routes lifecycle and chat events between connections.
// It orchestrates group membership, presence and relay without containing
// transport or storage logic.
package runtime

import (
	"log/slog"
	"sync"

	"support-chat/contract"
	"support-chat/domain"
)

type connSet map[domain.ConnID]struct{}

// Membership is the room membership manager: named logical groups of
// connection ids. It owns a forward map from group to connections and a
// reverse index from connection to its groups, so that disconnect
// cleanup is a single reverse lookup.
//
// Listeners are invoked after the indexes are updated and outside the
// lock; a listener may call back into the manager.
type Membership struct {
	mu        sync.Mutex
	log       *slog.Logger
	groups    map[domain.Group]connSet
	held      map[domain.ConnID]map[domain.Group]struct{}
	listeners map[domain.Group][]contract.MembershipListener
}

func NewMembership(log *slog.Logger) *Membership {
	return &Membership{
		log:       log,
		groups:    make(map[domain.Group]connSet),
		held:      make(map[domain.ConnID]map[domain.Group]struct{}),
		listeners: make(map[domain.Group][]contract.MembershipListener),
	}
}

// Join adds a connection to a group. Joining a group the connection is
// already a member of is a no-op and notifies nobody.
func (m *Membership) Join(connID domain.ConnID, group domain.Group) {
	m.mu.Lock()
	if _, ok := m.groups[group][connID]; ok {
		m.mu.Unlock()
		return
	}
	if _, ok := m.groups[group]; !ok {
		m.groups[group] = make(connSet)
	}
	m.groups[group][connID] = struct{}{}

	if _, ok := m.held[connID]; !ok {
		m.held[connID] = make(map[domain.Group]struct{})
	}
	m.held[connID][group] = struct{}{}

	listeners := append([]contract.MembershipListener(nil), m.listeners[group]...)
	m.mu.Unlock()

	for _, listener := range listeners {
		listener(contract.Joined, connID)
	}
}

// Leave removes a connection from a group. Leaving a group the
// connection is not a member of is a no-op.
func (m *Membership) Leave(connID domain.ConnID, group domain.Group) {
	m.mu.Lock()
	if _, ok := m.groups[group][connID]; !ok {
		m.mu.Unlock()
		return
	}
	m.removeLocked(connID, group)
	listeners := append([]contract.MembershipListener(nil), m.listeners[group]...)
	m.mu.Unlock()

	for _, listener := range listeners {
		listener(contract.Left, connID)
	}
}

// LeaveAll removes a connection from every group it holds and returns
// those groups. Used on disconnect; calling it twice for the same
// connection leaves the same final state as calling it once.
func (m *Membership) LeaveAll(connID domain.ConnID) []domain.Group {
	m.mu.Lock()
	var left []domain.Group
	for group := range m.held[connID] {
		left = append(left, group)
		m.removeLocked(connID, group)
	}
	notify := make(map[domain.Group][]contract.MembershipListener, len(left))
	for _, group := range left {
		notify[group] = append([]contract.MembershipListener(nil), m.listeners[group]...)
	}
	m.mu.Unlock()

	for _, group := range left {
		for _, listener := range notify[group] {
			listener(contract.Left, connID)
		}
	}
	return left
}

// List returns a point-in-time snapshot of a group. The result is
// advisory: valid at the instant it was taken, no guarantee about the
// future.
func (m *Membership) List(group domain.Group) []domain.ConnID {
	m.mu.Lock()
	defer m.mu.Unlock()
	members := make([]domain.ConnID, 0, len(m.groups[group]))
	for connID := range m.groups[group] {
		members = append(members, connID)
	}
	return members
}

// OnChange registers a listener for one group's join/leave deltas.
func (m *Membership) OnChange(group domain.Group, listener contract.MembershipListener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners[group] = append(m.listeners[group], listener)
}

func (m *Membership) removeLocked(connID domain.ConnID, group domain.Group) {
	delete(m.groups[group], connID)
	if len(m.groups[group]) == 0 {
		delete(m.groups, group)
	}
	delete(m.held[connID], group)
	if len(m.held[connID]) == 0 {
		delete(m.held, connID)
	}
}
