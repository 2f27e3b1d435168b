package user

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"devconnect/internal/database"
)

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already registered")
)

type Repository interface {
	Create(ctx context.Context, u User) error
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	DeleteTx(ctx context.Context, tx database.Tx, id uuid.UUID) error
}
