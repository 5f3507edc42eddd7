package services

import (
	"log/slog"
	"testing"
	"time"

	"support-chat/auth"
	"support-chat/domain"
	"support-chat/errors"
	"support-chat/mocks"
	"support-chat/repositories"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestAuthService_Register(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockIUserRepository(ctrl)
	svc := NewAuthService(mockRepo, slog.Default(), 24*time.Hour)

	t.Run("should register successfully when input is valid", func(t *testing.T) {
		req := require.New(t)
		request := auth.RegisterRequest{
			Email:    "test@example.com",
			Password: "ComplexPass123!",
			Role:     "requester",
		}
		expectedUserID := "user-uuid"

		// Expect CreateUser to be called with a hashed password (not the plain one)
		mockRepo.EXPECT().
			CreateUser(request.Email, gomock.Any(), domain.RoleRequester).
			Return(expectedUserID, nil).
			Times(1)

		token, err := svc.Register(request)

		req.NoError(err)
		req.NotEmpty(token)

		claims, err := auth.ValidateToken(token)
		req.NoError(err)
		req.Equal(expectedUserID, claims.ParticipantID)
		req.Equal("requester", claims.Role)
	})

	t.Run("should fail when password complexity is not met", func(t *testing.T) {
		req := require.New(t)
		request := auth.RegisterRequest{
			Email:    "test@example.com",
			Password: "simplesimplesimple",
			Role:     "requester",
		}

		// Repository should NEVER be called
		mockRepo.EXPECT().CreateUser(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		token, err := svc.Register(request)

		req.Error(err)
		req.ErrorIs(err, errors.ErrInvalidPassword)
		req.Empty(token)
	})

	t.Run("should fail when role is unknown", func(t *testing.T) {
		req := require.New(t)
		request := auth.RegisterRequest{
			Email:    "test@example.com",
			Password: "ComplexPass123!",
			Role:     "supervisor",
		}

		mockRepo.EXPECT().CreateUser(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		_, err := svc.Register(request)

		req.Error(err)
	})

	t.Run("should fail when user already exists in repository", func(t *testing.T) {
		req := require.New(t)
		request := auth.RegisterRequest{
			Email:    "duplicate@example.com",
			Password: "ComplexPass123!",
			Role:     "agent",
		}

		mockRepo.EXPECT().
			CreateUser(request.Email, gomock.Any(), domain.RoleAgent).
			Return("", errors.ErrUserAlreadyExists).
			Times(1)

		_, err := svc.Register(request)

		req.ErrorIs(err, errors.ErrUserAlreadyExists)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockIUserRepository(ctrl)
	svc := NewAuthService(mockRepo, slog.Default(), 24*time.Hour)

	t.Run("should login successfully with correct credentials", func(t *testing.T) {
		req := require.New(t)
		email := "user@example.com"
		password := "Secret123456!"

		hashedPassword, _ := auth.HashPassword(password)
		storedUser := repositories.User{
			ID:           "uuid-123",
			Email:        email,
			PasswordHash: hashedPassword,
			Role:         domain.RoleRequester,
		}

		mockRepo.EXPECT().
			GetUserByEmail(email).
			Return(storedUser, nil).
			Times(1)

		token, err := svc.Login(auth.LoginRequest{Email: email, Password: password})

		req.NoError(err)
		req.NotEmpty(token)

		claims, err := auth.ValidateToken(token)
		req.NoError(err)
		req.Equal(storedUser.ID, claims.ParticipantID)
	})

	t.Run("should return invalid credential when password matches nothing", func(t *testing.T) {
		req := require.New(t)
		email := "user@example.com"

		hashedPassword, _ := auth.HashPassword("CorrectPassword123!")
		storedUser := repositories.User{
			Email:        email,
			PasswordHash: hashedPassword,
		}

		mockRepo.EXPECT().
			GetUserByEmail(email).
			Return(storedUser, nil).
			Times(1)

		_, err := svc.Login(auth.LoginRequest{Email: email, Password: "WrongPassword123!"})

		req.ErrorIs(err, errors.ErrInvalidCredential)
	})

	t.Run("should return invalid credential when user is not found", func(t *testing.T) {
		req := require.New(t)

		mockRepo.EXPECT().
			GetUserByEmail("unknown@example.com").
			Return(repositories.User{}, errors.ErrUserNotFound).
			Times(1)

		_, err := svc.Login(auth.LoginRequest{Email: "unknown@example.com", Password: "anyPassword"})

		req.ErrorIs(err, errors.ErrInvalidCredential)
	})
}
