package repositories

import (
	"log/slog"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/require"
)

func countPrefix(t *testing.T, db *badger.DB, prefix string) int {
	t.Helper()
	count := 0
	err := db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
			count++
		}
		return nil
	})
	require.NoError(t, err)
	return count
}

func Test_Ticket_Open_Then_Close(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	repository := NewTicketRepository(db, slog.Default())

	// When a session opens and closes
	req.NoError(repository.OpenTicket("alice"))
	req.NoError(repository.CloseTicket("alice"))

	// Then the open marker is gone and one archived ticket remains
	req.Equal(0, countPrefix(t, db, "ticket:open:"))
	req.Equal(1, countPrefix(t, db, "ticket:alice:"))

	err := db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		it.Seek([]byte("ticket:alice:"))
		return it.Item().Value(func(value []byte) error {
			var ticket storedTicket
			req.NoError(cbor.Unmarshal(value, &ticket))
			req.False(ticket.Open)
			req.NotZero(ticket.ClosedAt)
			return nil
		})
	})
	req.NoError(err)
}

func Test_Ticket_Duplicate_Open_Is_NoOp(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	repository := NewTicketRepository(db, slog.Default())

	req.NoError(repository.OpenTicket("alice"))
	req.NoError(repository.OpenTicket("alice"))

	req.Equal(1, countPrefix(t, db, "ticket:open:alice"))
}

func Test_Ticket_Close_Without_Open_Is_NoOp(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	repository := NewTicketRepository(db, slog.Default())

	req.NoError(repository.CloseTicket("alice"))
	req.Equal(0, countPrefix(t, db, "ticket:"))
}
