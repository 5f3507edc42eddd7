package e2e

import (
	"testing"
	"time"

	"support-chat/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type testSupportSessionSuite struct {
	BaseWsSuite
}

func TestSupportSessionSuite(t *testing.T) {
	suite.Run(t, &testSupportSessionSuite{})
}

// Envelope payloads as seen on the wire.
type presenceEntry struct {
	ParticipantID string `json:"participantId"`
	DisplayName   string `json:"displayName"`
}

type presenceSnapshot struct {
	Entries []presenceEntry `json:"entries"`
}

type chatDelivered struct {
	Message struct {
		ID        string `json:"id"`
		SenderID  string `json:"senderId"`
		Body      string `json:"body"`
		ChannelID string `json:"channelId"`
	} `json:"message"`
}

type history struct {
	Messages []struct {
		Body string `json:"body"`
	} `json:"messages"`
	HasMore bool `json:"hasMore"`
}

func (s *testSupportSessionSuite) TestFullSupportSessionFlow() {
	const timeout = 5 * time.Second
	requesterID := "e2e-requester-" + uuid.NewString()[:8]

	// --- STEP 1: AGENT GOES ON DUTY ---
	agent := s.Dial("Agent connects", "e2e-agent", domain.RoleAgent)
	defer agent.Close()

	s.Run("Step 1: Agent opens a session and gets the current pool", func() {
		s.Send(agent, "open-session", map[string]string{"displayName": "Agent Smith"})
		s.WaitFor(agent, "session-opened", timeout)

		envelope := s.WaitFor(agent, "presence-snapshot", timeout)
		var snapshot presenceSnapshot
		s.Decode(envelope, &snapshot)
		for _, entry := range snapshot.Entries {
			s.Require().NotEqual(requesterID, entry.ParticipantID,
				"fresh requester id already present before connecting")
		}
	})

	// --- STEP 2: REQUESTER ARRIVES ---
	requester := s.Dial("Requester connects", requesterID, domain.RoleRequester)
	defer requester.Close()

	s.Run("Step 2: Requester opens a session and gets its history", func() {
		s.Send(requester, "open-session", map[string]string{"displayName": "Alice"})
		s.WaitFor(requester, "session-opened", timeout)

		envelope := s.WaitFor(requester, "history", timeout)
		var page history
		s.Decode(envelope, &page)
		s.Require().Empty(page.Messages, "fresh requester should have no history")
		s.Require().False(page.HasMore)
	})

	s.Run("Step 3: Agent observes the requester entering the pool", func() {
		envelope := s.WaitFor(agent, "presence-added", timeout)
		var entry presenceEntry
		s.Decode(envelope, &entry)
		s.Require().Equal(requesterID, entry.ParticipantID)
		s.Require().Equal("Alice", entry.DisplayName)
	})

	// --- STEP 4: CONVERSATION ---
	s.Run("Step 4: Requester message reaches both sides", func() {
		s.Send(requester, "chat", map[string]string{"body": "my printer is on fire"})

		agentCopy := s.WaitFor(agent, "chat-delivered", timeout)
		var delivered chatDelivered
		s.Decode(agentCopy, &delivered)
		s.Require().Equal(requesterID, delivered.Message.SenderID)
		s.Require().Equal(requesterID, delivered.Message.ChannelID)

		echo := s.WaitFor(requester, "chat-delivered", timeout)
		s.Decode(echo, &delivered)
		s.Require().Equal("my printer is on fire", delivered.Message.Body)
	})

	s.Run("Step 5: Agent reply lands on the requester channel", func() {
		s.Send(agent, "chat", map[string]string{
			"body":       "have you tried turning it off",
			"receiverId": requesterID,
		})

		reply := s.WaitFor(requester, "chat-delivered", timeout)
		var delivered chatDelivered
		s.Decode(reply, &delivered)
		s.Require().Equal("e2e-agent", delivered.Message.SenderID)
		s.Require().Equal(requesterID, delivered.Message.ChannelID)
	})

	// --- STEP 6: REQUESTER LEAVES ---
	s.Run("Step 6: Closing the session removes the requester from the pool", func() {
		s.Send(requester, "close-session", nil)

		envelope := s.WaitFor(agent, "presence-removed", timeout)
		var entry presenceEntry
		s.Decode(envelope, &entry)
		s.Require().Equal(requesterID, entry.ParticipantID)
	})
}

func (s *testSupportSessionSuite) TestHistorySurvivesReconnect() {
	const timeout = 5 * time.Second
	requesterID := "e2e-requester-" + uuid.NewString()[:8]
	body := "remember me " + uuid.NewString()[:8]

	first := s.Dial("Requester first visit", requesterID, domain.RoleRequester)
	s.Send(first, "open-session", map[string]string{"displayName": "Alice"})
	s.WaitFor(first, "session-opened", timeout)
	s.WaitFor(first, "history", timeout)

	s.Send(first, "chat", map[string]string{"body": body})
	s.WaitFor(first, "chat-delivered", timeout)
	s.Require().NoError(first.Close())

	// Persistence is asynchronous; give the worker a moment before the
	// second visit reads the page.
	s.Require().Eventually(func() bool {
		second := s.Dial("Requester returns", requesterID, domain.RoleRequester)
		defer second.Close()
		s.Send(second, "open-session", map[string]string{"displayName": "Alice"})
		envelope := s.WaitFor(second, "history", timeout)
		var page history
		s.Decode(envelope, &page)
		for _, m := range page.Messages {
			if m.Body == body {
				return true
			}
		}
		return false
	}, 10*time.Second, time.Second, "message never showed up in history after reconnect")
}
