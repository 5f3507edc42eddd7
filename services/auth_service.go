package services

import (
	"log/slog"
	"time"

	"support-chat/auth"
	"support-chat/domain"
	"support-chat/errors"
	"support-chat/repositories"
)

type IAuthService interface {
	Register(req auth.RegisterRequest) (string, error)
	Login(req auth.LoginRequest) (string, error)
}

// AuthService issues the bearer tokens the websocket handshake verifies.
type AuthService struct {
	users         repositories.IUserRepository
	log           *slog.Logger
	tokenDuration time.Duration
}

func NewAuthService(users repositories.IUserRepository, log *slog.Logger,
	tokenDuration time.Duration) *AuthService {
	return &AuthService{users: users, log: log, tokenDuration: tokenDuration}
}

// Register creates an account and returns a token for it.
func (s *AuthService) Register(req auth.RegisterRequest) (string, error) {
	if err := auth.ValidateRegister(req); err != nil {
		return "", err
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return "", err
	}
	role := domain.Role(req.Role)
	id, err := s.users.CreateUser(req.Email, hash, role)
	if err != nil {
		return "", err
	}
	s.log.Info("user registered", "participant_id", id, "role", role)
	return auth.GenerateToken(id, role, s.tokenDuration)
}

// Login verifies the password and returns a fresh token.
func (s *AuthService) Login(req auth.LoginRequest) (string, error) {
	if err := auth.ValidateLogin(req); err != nil {
		return "", err
	}
	user, err := s.users.GetUserByEmail(req.Email)
	if err != nil {
		return "", errors.ErrInvalidCredential
	}
	ok, err := auth.ComparePassword(req.Password, user.PasswordHash)
	if err != nil || !ok {
		return "", errors.ErrInvalidCredential
	}
	return auth.GenerateToken(user.ID, user.Role, s.tokenDuration)
}
