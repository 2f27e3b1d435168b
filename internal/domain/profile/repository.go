package profile

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"devconnect/internal/database"
)

var (
	ErrNotFound = errors.New("profile not found")

	// ErrConflict is returned when a versioned write loses against a
	// concurrent update of the same document.
	ErrConflict = errors.New("profile version conflict")
)

type Repository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (Profile, error)
	List(ctx context.Context) ([]Profile, error)

	// Create inserts a new profile document at version 1.
	Create(ctx context.Context, p Profile) error

	// Update writes the full document guarded by the version it was read
	// at, returning ErrConflict when the row moved on.
	Update(ctx context.Context, p Profile) error

	DeleteTx(ctx context.Context, tx database.Tx, userID uuid.UUID) error
}
