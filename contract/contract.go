//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"

	"support-chat/domain"
	"support-chat/domain/event"
)

// EventSink receives outbound events for one consumer, typically a live
// connection's write pump.
type EventSink interface {
	Consume(ctx context.Context, e event.Event) error
}

// Worker doesn't protect itself.
// Can be silly, focused.
type Worker interface {
	Run(ctx context.Context) error
}

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// MembershipEvent tags a group membership change.
type MembershipEvent int

const (
	Joined MembershipEvent = iota
	Left
)

// MembershipListener observes join/leave deltas for one group.
type MembershipListener func(e MembershipEvent, connID domain.ConnID)

// IMembership is the room membership manager: named logical groups of
// connection ids with an advisory point-in-time list operation.
type IMembership interface {
	Join(connID domain.ConnID, group domain.Group)
	Leave(connID domain.ConnID, group domain.Group)
	LeaveAll(connID domain.ConnID) []domain.Group
	List(group domain.Group) []domain.ConnID
	OnChange(group domain.Group, listener MembershipListener)
}

// Authenticator verifies a bearer credential and yields the stable
// participant identity it carries.
type Authenticator interface {
	Authenticate(credential string) (participantID string, role domain.Role, err error)
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes, avoiding the need
// for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}
