// Package ws is the websocket gateway: it authenticates handshakes,
// decodes inbound envelopes into service calls, and pumps outbound
// events from the connection sink back onto the socket.
package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"support-chat/auth"
	"support-chat/contract"
	"support-chat/domain"
	"support-chat/domain/event"
	"support-chat/services"
	"support-chat/sink"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Token auth is the access control; the gateway serves browser
	// clients from any origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Inbound event names.
const (
	eventOpenSession  = "open-session"
	eventCloseSession = "close-session"
	eventChat         = "chat"
	eventPing         = "ping"
)

type Server struct {
	log           *slog.Logger
	chatService   services.IChatService
	authenticator contract.Authenticator
	bufferSize    int
}

func NewServer(log *slog.Logger, chatService services.IChatService,
	authenticator contract.Authenticator, bufferSize int) *Server {
	return &Server{
		log:           log,
		chatService:   chatService,
		authenticator: authenticator,
		bufferSize:    bufferSize,
	}
}

// Handler returns the authenticated websocket endpoint. Connections
// without a valid credential are rejected before the upgrade, so no
// connection state ever exists for them.
func (s *Server) Handler() http.Handler {
	return auth.Middleware(s.authenticator, http.HandlerFunc(s.handleWS))
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	participantID, role, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "error", err)
		return
	}
	wsc := newWSConn(conn)

	identity := domain.Identity{
		ParticipantID: participantID,
		Role:          role,
		ConnID:        domain.ConnID(uuid.NewString()),
	}
	connSink := sink.NewConnectionSink(s.log, s.bufferSize)
	s.chatService.Connect(identity, connSink)

	ctx, cancel := context.WithCancel(r.Context())
	go s.writePump(ctx, wsc, connSink, identity.ConnID)

	// Blocks until the client goes away or the socket errors.
	s.readPump(ctx, wsc, connSink, identity.ConnID)

	s.chatService.Disconnect(identity.ConnID)
	cancel()
	_ = wsc.Close()
}

func (s *Server) readPump(ctx context.Context, wsc *wsConn, connSink *sink.ConnectionSink, connID domain.ConnID) {
	for {
		_, data, err := wsc.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn("websocket closed unexpectedly", "conn_id", connID, "error", err)
			}
			return
		}

		var envelope Envelope
		if err := json.Unmarshal(data, &envelope); err != nil {
			s.notifyValidation(ctx, connSink, "malformed envelope")
			continue
		}
		s.dispatch(ctx, connSink, connID, envelope)
	}
}

func (s *Server) dispatch(ctx context.Context, connSink *sink.ConnectionSink, connID domain.ConnID, envelope Envelope) {
	switch envelope.Event {
	case eventOpenSession:
		var payload OpenSessionPayload
		if err := decodePayload(envelope.Data, &payload); err != nil {
			s.notifyValidation(ctx, connSink, err.Error())
			return
		}
		s.chatService.OpenSession(connID, payload.DisplayName)
	case eventCloseSession:
		s.chatService.CloseSession(connID)
	case eventChat:
		var payload ChatPayload
		if err := decodePayload(envelope.Data, &payload); err != nil {
			s.notifyValidation(ctx, connSink, err.Error())
			return
		}
		s.chatService.Send(connID, payload.Body, payload.ReceiverID)
	case eventPing:
		s.log.Debug("client ping", "conn_id", connID)
	default:
		s.notifyValidation(ctx, connSink, "unknown event "+envelope.Event)
	}
}

// notifyValidation reports a dropped inbound event back to its sender
// through the regular outbound path.
func (s *Server) notifyValidation(ctx context.Context, connSink *sink.ConnectionSink, message string) {
	_ = connSink.Consume(ctx, event.ErrorNotice{Code: "validation", Message: message})
}

func (s *Server) writePump(ctx context.Context, wsc *wsConn, connSink *sink.ConnectionSink, connID domain.ConnID) {
	for {
		select {
		case <-ctx.Done():
			_ = wsc.WriteCloseSafe(websocket.CloseGoingAway, "server shutdown")
			return
		case e := <-connSink.Events:
			envelope, err := toEnvelope(e)
			if err != nil {
				s.log.Error("event not translatable", "conn_id", connID, "error", err)
				continue
			}
			if err := wsc.WriteJSONSafe(envelope); err != nil {
				s.log.Debug("write failed, connection presumed gone",
					"conn_id", connID, "error", err)
				return
			}
		}
	}
}
