//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
package repositories

import (
	"fmt"
	"time"

	"support-chat/domain"
	"support-chat/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
)

type IUserRepository interface {
	CreateUser(email, hashedPassword string, role domain.Role) (string, error)
	GetUserByEmail(email string) (User, error)
}

type UserRepository struct {
	db *badger.DB
}

func NewUserRepository(db *badger.DB) IUserRepository {
	return &UserRepository{db: db}
}

// User is the repository-layer representation of an account. The user id
// becomes the participant id carried by issued tokens.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         domain.Role
	CreatedAt    time.Time
}

type storedUser struct {
	ID           string `cbor:"id"`
	Email        string `cbor:"email"`
	PasswordHash string `cbor:"password_hash"`
	Role         string `cbor:"role"`
	CreatedAt    int64  `cbor:"created_at"`
}

// CreateUser persists an account and returns the newly generated user id.
func (u UserRepository) CreateUser(email, hashedPassword string, role domain.Role) (string, error) {
	newID := uuid.NewString()
	data, err := cbor.Marshal(storedUser{
		ID:           newID,
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         string(role),
		CreatedAt:    time.Now().Unix(),
	})
	if err != nil {
		return "", fmt.Errorf("marshal failed: %w", err)
	}

	err = u.db.Update(func(txn *badger.Txn) error {
		key := []byte("user:" + email)
		if _, err = txn.Get(key); err == nil {
			return errors.ErrUserAlreadyExists
		}
		return txn.Set(key, data)
	})
	return newID, err
}

func (u UserRepository) GetUserByEmail(email string) (User, error) {
	var stored storedUser
	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte("user:" + email))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return cbor.Unmarshal(val, &stored)
		})
	})
	if err == badger.ErrKeyNotFound {
		return User{}, errors.ErrUserNotFound
	}
	if err != nil {
		return User{}, err
	}
	return User{
		ID:           stored.ID,
		Email:        stored.Email,
		PasswordHash: stored.PasswordHash,
		Role:         domain.Role(stored.Role),
		CreatedAt:    time.Unix(stored.CreatedAt, 0).UTC(),
	}, nil
}
