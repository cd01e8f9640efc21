// Package directory implements the room directory the relay consults
// when a connection claims a room and identity.
package directory

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"chatrelay/internal/domain"
)

var ErrNotFound = errors.New("room not found")

// Directory stores room records and resolves them by id.
type Directory interface {
	Lookup(ctx context.Context, id domain.RoomID) (*domain.Room, error)
	Create(ctx context.Context, user1, user2 string) (*domain.Room, error)
}

// participants carries the two slots of a new room for validation.
type participants struct {
	User1 string `validate:"required,nefield=User2"`
	User2 string `validate:"required"`
}

var validate = validator.New()

func validateParticipants(user1, user2 string) error {
	for _, u := range []string{user1, user2} {
		if err := domain.ValidateUsername(u); err != nil {
			return err
		}
	}
	return validate.Struct(participants{User1: user1, User2: user2})
}

func newRoom(user1, user2 string) *domain.Room {
	return &domain.Room{ID: domain.RoomID(uuid.NewString()), User1: user1, User2: user2}
}
