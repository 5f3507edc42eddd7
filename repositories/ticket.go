//go:generate go run go.uber.org/mock/mockgen -source=ticket.go -destination=../mocks/mock_ticket_repository.go -package=mocks
package repositories

import (
	"fmt"
	"log/slog"
	"time"

	"support-chat/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
)

type ITicketRepository interface {
	OpenTicket(requesterID string) error
	CloseTicket(requesterID string) error
}

// TicketRepository keeps one support ticket per requester session.
// The currently open ticket lives under a marker key so that close can
// find it without the caller tracking ticket ids; closed tickets are
// archived under a time-ordered key.
type TicketRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewTicketRepository(db *badger.DB, log *slog.Logger) TicketRepository {
	return TicketRepository{db: db, log: log}
}

type storedTicket struct {
	ID        string `cbor:"id"`
	Requester string `cbor:"requester"`
	Open      bool   `cbor:"open"`
	OpenedAt  int64  `cbor:"opened_at"`
	ClosedAt  int64  `cbor:"closed_at,omitempty"`
}

func openMarkerKey(requesterID string) []byte {
	return []byte("ticket:open:" + requesterID)
}

func archiveKey(t storedTicket) []byte {
	return []byte(fmt.Sprintf("ticket:%s:%019d:%s", t.Requester, t.OpenedAt, t.ID))
}

// OpenTicket records the start of a session. A requester with a ticket
// already open keeps it (duplicate opens are no-ops).
func (r TicketRepository) OpenTicket(requesterID string) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		key := openMarkerKey(requesterID)
		if _, err := txn.Get(key); err == nil {
			return nil
		}
		ticket := storedTicket{
			ID:        uuid.NewString(),
			Requester: requesterID,
			Open:      true,
			OpenedAt:  time.Now().UnixNano(),
		}
		bytes, err := cbor.Marshal(ticket)
		if err != nil {
			return err
		}
		return txn.Set(key, bytes)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", errors.ErrStoreUnavailable, err)
	}
	return nil
}

// CloseTicket archives the requester's open ticket. Closing without an
// open ticket is a no-op.
func (r TicketRepository) CloseTicket(requesterID string) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		key := openMarkerKey(requesterID)
		item, err := txn.Get(key)
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		var ticket storedTicket
		err = item.Value(func(value []byte) error {
			return cbor.Unmarshal(value, &ticket)
		})
		if err != nil {
			return err
		}
		ticket.Open = false
		ticket.ClosedAt = time.Now().UnixNano()
		bytes, err := cbor.Marshal(ticket)
		if err != nil {
			return err
		}
		if err = txn.Set(archiveKey(ticket), bytes); err != nil {
			return err
		}
		return txn.Delete(key)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", errors.ErrStoreUnavailable, err)
	}
	return nil
}
