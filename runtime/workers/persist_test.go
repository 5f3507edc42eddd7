package workers

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"support-chat/domain"
	"support-chat/errors"
	"support-chat/mocks"
	"support-chat/observability"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestPersistWorker_SavesQueuedMessages(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockIMessageRepository(ctrl)
	tickRepo := mocks.NewMockITicketRepository(ctrl)

	message := domain.ChatMessage{
		ID:        uuid.New(),
		SenderID:  "alice",
		Body:      "hello",
		ChannelID: "alice",
		SentAt:    time.Now().UTC(),
	}

	saved := make(chan struct{})
	repo.EXPECT().StoreMessage(message).DoAndReturn(func(domain.ChatMessage) error {
		close(saved)
		return nil
	})

	messages := make(chan domain.ChatMessage, 1)
	tickets := make(chan TicketOp, 1)
	worker := NewPersistWorker(slog.Default(), messages, tickets, repo, tickRepo, observability.NewStats())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = worker.Run(ctx) }()

	messages <- message

	select {
	case <-saved:
	case <-time.After(time.Second):
		req.Fail("message was never persisted")
	}
}

func TestPersistWorker_FailedSaveIsCountedAndSwallowed(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockIMessageRepository(ctrl)
	tickRepo := mocks.NewMockITicketRepository(ctrl)

	// Given a store failing on the first save and accepting the second
	first := domain.ChatMessage{ID: uuid.New(), SenderID: "alice", Body: "a", ChannelID: "alice"}
	second := domain.ChatMessage{ID: uuid.New(), SenderID: "alice", Body: "b", ChannelID: "alice"}
	saved := make(chan struct{})
	gomock.InOrder(
		repo.EXPECT().StoreMessage(first).Return(errors.ErrStoreUnavailable),
		repo.EXPECT().StoreMessage(second).DoAndReturn(func(domain.ChatMessage) error {
			close(saved)
			return nil
		}),
	)

	messages := make(chan domain.ChatMessage, 2)
	tickets := make(chan TicketOp, 1)
	stats := observability.NewStats()
	worker := NewPersistWorker(slog.Default(), messages, tickets, repo, tickRepo, stats)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = worker.Run(ctx) }()

	// When both messages pass through
	messages <- first
	messages <- second

	select {
	case <-saved:
	case <-time.After(time.Second):
		req.Fail("worker stopped draining after a failed save")
	}

	// Then the failure was counted and the worker kept going
	req.EqualValues(1, stats.Snapshot()["saves_failed"])
}

func TestPersistWorker_AppliesTicketOps(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockIMessageRepository(ctrl)
	tickRepo := mocks.NewMockITicketRepository(ctrl)

	closed := make(chan struct{})
	gomock.InOrder(
		tickRepo.EXPECT().OpenTicket("alice").Return(nil),
		tickRepo.EXPECT().CloseTicket("alice").DoAndReturn(func(string) error {
			close(closed)
			return nil
		}),
	)

	messages := make(chan domain.ChatMessage, 1)
	tickets := make(chan TicketOp, 2)
	worker := NewPersistWorker(slog.Default(), messages, tickets, repo, tickRepo, observability.NewStats())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = worker.Run(ctx) }()

	tickets <- TicketOp{RequesterID: "alice"}
	tickets <- TicketOp{RequesterID: "alice", Close: true}

	select {
	case <-closed:
	case <-time.After(time.Second):
		req.Fail("ticket ops were never applied")
	}
}
