package e2e

import (
	"encoding/json"
	"fmt"
	"time"

	"support-chat/auth"
	"support-chat/domain"
	"support-chat/infrastructure/ws"

	"github.com/gookit/color"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"
)

type BaseWsSuite struct {
	suite.Suite
	Config Config
}

// SetupSuite loads the environment configuration before running tests
func (s *BaseWsSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
	if s.Config.WsURL == "" {
		s.T().Skip("WS_URL not set, start the gateway and point WS_URL at it")
	}
}

// Dial opens an authenticated websocket as the given participant. Tokens
// are minted directly: the suite shares the server's signing key.
func (s *BaseWsSuite) Dial(name, participantID string, role domain.Role) *websocket.Conn {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	s.T().Log(header)

	token, err := auth.GenerateToken(participantID, role, time.Hour)
	s.Require().NoError(err)

	conn, _, err := websocket.DefaultDialer.Dial(s.Config.WsURL+"?token="+token, nil)
	s.Require().NoError(err, "Failed to connect to gateway at "+s.Config.WsURL)
	return conn
}

// Send writes one envelope.
func (s *BaseWsSuite) Send(conn *websocket.Conn, eventName string, payload any) {
	data, err := json.Marshal(payload)
	s.Require().NoError(err)
	envelope := ws.Envelope{Event: eventName, Data: data}
	if s.Config.DebugJSON {
		s.T().Logf(">> %s %s", eventName, string(data))
	}
	s.Require().NoError(conn.WriteJSON(envelope))
}

// WaitFor reads frames until the named event arrives, failing the test
// if it does not show up within the timeout. Other events received in
// the meantime are logged and discarded.
func (s *BaseWsSuite) WaitFor(conn *websocket.Conn, eventName string, timeout time.Duration) ws.Envelope {
	deadline := time.Now().Add(timeout)
	s.Require().NoError(conn.SetReadDeadline(deadline))
	for {
		var envelope ws.Envelope
		err := conn.ReadJSON(&envelope)
		s.Require().NoError(err, "waiting for %q", eventName)
		if s.Config.DebugJSON {
			s.T().Logf("<< %s %s", envelope.Event, string(envelope.Data))
		}
		if envelope.Event == eventName {
			return envelope
		}
		s.T().Logf("skipping %q while waiting for %q", envelope.Event, eventName)
	}
}

// Decode unmarshals an envelope payload into out.
func (s *BaseWsSuite) Decode(envelope ws.Envelope, out any) {
	s.Require().NoError(json.Unmarshal(envelope.Data, out))
}
