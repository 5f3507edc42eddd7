package services

import (
	"support-chat/contract"
	"support-chat/domain"
	"support-chat/runtime"
)

type IChatService interface {
	Connect(identity domain.Identity, sink contract.EventSink)
	OpenSession(connID domain.ConnID, displayName string)
	CloseSession(connID domain.ConnID)
	Disconnect(connID domain.ConnID)
	Send(connID domain.ConnID, body, receiverID string)
}

// ChatService is the transport-facing facade over the router.
type ChatService struct {
	router *runtime.Router
}

func NewChatService(router *runtime.Router) *ChatService {
	return &ChatService{router: router}
}

func (s *ChatService) Connect(identity domain.Identity, sink contract.EventSink) {
	s.router.Register(identity, sink)
}

func (s *ChatService) OpenSession(connID domain.ConnID, displayName string) {
	s.router.OpenSession(connID, displayName)
}

func (s *ChatService) CloseSession(connID domain.ConnID) {
	s.router.CloseSession(connID)
}

func (s *ChatService) Disconnect(connID domain.ConnID) {
	s.router.Disconnect(connID)
}

func (s *ChatService) Send(connID domain.ConnID, body, receiverID string) {
	s.router.Send(connID, body, receiverID)
}
