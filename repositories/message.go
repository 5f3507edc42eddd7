//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"fmt"
	"log/slog"
	"time"

	"support-chat/domain"
	"support-chat/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
)

type IMessageRepository interface {
	StoreMessage(message domain.ChatMessage) error
	FindRecent(participantID string, limit int) ([]domain.ChatMessage, error)
}

type MessageRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewMessageRepository(db *badger.DB, log *slog.Logger) MessageRepository {
	return MessageRepository{db: db, log: log}
}

// storedMessage is the on-disk shape, CBOR-encoded.
type storedMessage struct {
	ID       string `cbor:"id"`
	Sender   string `cbor:"sender"`
	Receiver string `cbor:"receiver,omitempty"`
	Body     string `cbor:"body"`
	Channel  string `cbor:"channel"`
	SentAt   int64  `cbor:"sent_at"`
}

// messageKey formats keys as "msg:{channel_id}:{timestamp_padded}:{uuid}" to:
//  1. Ensure chronological sorting using 19-digit zero padding
//     (lexicographical order).
//  2. Prevent data loss by using UUID as a collision disconnector if two
//     messages arrive at the same nanosecond.
func messageKey(message domain.ChatMessage) []byte {
	return []byte(fmt.Sprintf("msg:%s:%019d:%s",
		message.ChannelID,
		message.SentAt.UnixNano(),
		message.ID,
	))
}

func (m MessageRepository) StoreMessage(message domain.ChatMessage) error {
	bytes, err := cbor.Marshal(fromChatMessage(message))
	if err != nil {
		return err
	}
	err = m.db.Update(func(txn *badger.Txn) error {
		return txn.Set(messageKey(message), bytes)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", errors.ErrStoreUnavailable, err)
	}
	return nil
}

// FindRecent retrieves the latest messages of one participant's channel,
// newest first, using a reverse prefix scan. The channel id of a message
// always equals the requester's participant id, so the channel prefix
// covers every message that requester sent or received.
func (m MessageRepository) FindRecent(participantID string, limit int) ([]domain.ChatMessage, error) {
	var byteMessages [][]byte
	err := m.db.View(func(txn *badger.Txn) error {
		prefix := []byte(fmt.Sprintf("msg:%s:", participantID))
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		// Seek past the newest possible timestamp, then walk backwards.
		seekKey := append(append([]byte{}, prefix...), []byte("9999999999999999999")...)
		for it.Seek(seekKey); it.ValidForPrefix(prefix); it.Next() {
			if len(byteMessages) == limit {
				break
			}
			err := it.Item().Value(func(value []byte) error {
				byteMessages = append(byteMessages, append([]byte{}, value...))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrStoreUnavailable, err)
	}

	var messages []domain.ChatMessage
	for _, b := range byteMessages {
		var stored storedMessage
		if err = cbor.Unmarshal(b, &stored); err != nil {
			return nil, err
		}
		message, err := toChatMessage(stored)
		if err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}
	return messages, nil
}

func fromChatMessage(message domain.ChatMessage) storedMessage {
	return storedMessage{
		ID:       message.ID.String(),
		Sender:   message.SenderID,
		Receiver: message.ReceiverID,
		Body:     message.Body,
		Channel:  message.ChannelID,
		SentAt:   message.SentAt.UnixNano(),
	}
}

func toChatMessage(stored storedMessage) (domain.ChatMessage, error) {
	parsedID, err := uuid.Parse(stored.ID)
	if err != nil {
		return domain.ChatMessage{}, err
	}
	return domain.ChatMessage{
		ID:         parsedID,
		SenderID:   stored.Sender,
		ReceiverID: stored.Receiver,
		Body:       stored.Body,
		ChannelID:  stored.Channel,
		SentAt:     time.Unix(0, stored.SentAt).UTC(),
	}, nil
}
