package repositories

import (
	"log/slog"
	"testing"
	"time"

	"support-chat/domain"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func message(channelID, senderID, body string, at time.Time) domain.ChatMessage {
	return domain.ChatMessage{
		ID:        uuid.New(),
		SenderID:  senderID,
		Body:      body,
		ChannelID: channelID,
		SentAt:    at,
	}
}

func Test_FindRecent_Returns_Newest_First(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), slog.Default())
	at := time.Now().UTC()

	// Given three messages on one channel
	first := message("alice", "alice", "hello?", at)
	second := message("alice", "agent-7", "hi, how can I help", at.Add(1*time.Minute))
	third := message("alice", "alice", "my order is stuck", at.Add(2*time.Minute))
	for _, m := range []domain.ChatMessage{first, second, third} {
		req.NoError(repository.StoreMessage(m))
	}

	// When fetching recent messages
	fetched, err := repository.FindRecent("alice", 10)

	// Then they come back newest first
	req.NoError(err)
	req.Len(fetched, 3)
	req.Equal(third, fetched[0])
	req.Equal(second, fetched[1])
	req.Equal(first, fetched[2])
}

func Test_FindRecent_Scopes_To_One_Channel(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), slog.Default())
	at := time.Now().UTC()

	req.NoError(repository.StoreMessage(message("alice", "alice", "mine", at)))
	req.NoError(repository.StoreMessage(message("bob", "bob", "not yours", at)))

	fetched, err := repository.FindRecent("alice", 10)
	req.NoError(err)
	req.Len(fetched, 1)
	req.Equal("mine", fetched[0].Body)
}

func Test_FindRecent_Honors_Limit(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), slog.Default())
	at := time.Now().UTC()

	for i := 0; i < 5; i++ {
		req.NoError(repository.StoreMessage(
			message("alice", "alice", "ping", at.Add(time.Duration(i)*time.Second))))
	}

	fetched, err := repository.FindRecent("alice", 3)
	req.NoError(err)
	req.Len(fetched, 3)
	// The newest three survive the cut
	req.Equal(at.Add(4*time.Second), fetched[0].SentAt)
	req.Equal(at.Add(2*time.Second), fetched[2].SentAt)
}

func Test_FindRecent_Empty_Channel(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t), slog.Default())

	fetched, err := repository.FindRecent("nobody", 10)
	req.NoError(err)
	req.Empty(fetched)
}
