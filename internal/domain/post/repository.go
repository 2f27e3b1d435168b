package post

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"devconnect/internal/database"
)

var (
	ErrNotFound = errors.New("post not found")
	ErrConflict = errors.New("post version conflict")
)

type Repository interface {
	Create(ctx context.Context, p Post) error
	GetByID(ctx context.Context, id uuid.UUID) (Post, error)

	// List returns all posts ordered newest first.
	List(ctx context.Context) ([]Post, error)

	// Update writes the embedded likes/comments lists guarded by the
	// version the document was read at.
	Update(ctx context.Context, p Post) error

	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByUserTx(ctx context.Context, tx database.Tx, userID uuid.UUID) error
}
