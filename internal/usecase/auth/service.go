package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"devconnect/internal/domain/user"
	"devconnect/internal/pkg/gravatar"
	"devconnect/internal/pkg/jwt"
)

var (
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInternal           = errors.New("internal error")
)

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

type Usecase interface {
	// Register creates a profile-less user and returns a bearer token.
	Register(ctx context.Context, in RegisterInput) (string, error)
	Login(ctx context.Context, in LoginInput) (string, error)
	Me(ctx context.Context, userID uuid.UUID) (user.User, error)
}

type Service struct {
	users  user.Repository
	tokens jwt.Service
}

func NewService(users user.Repository, tokens jwt.Service) *Service {
	return &Service{users: users, tokens: tokens}
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (string, error) {
	email := normalizeEmail(in.Email)

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return "", ErrInternal
	}
	if exists {
		return "", ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", ErrInternal
	}

	u := user.User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: string(hash),
		Avatar:       gravatar.URL(email),
	}

	if err := s.users.Create(ctx, u); err != nil {
		// Lost a registration race on the unique email index.
		if errors.Is(err, user.ErrEmailTaken) {
			return "", ErrUserExists
		}
		return "", ErrInternal
	}

	token, err := s.tokens.Generate(u.ID)
	if err != nil {
		return "", ErrInternal
	}
	return token, nil
}

func (s *Service) Login(ctx context.Context, in LoginInput) (string, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return "", ErrInvalidCredentials
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", ErrInternal
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(u.ID)
	if err != nil {
		return "", ErrInternal
	}
	return token, nil
}

func (s *Service) Me(ctx context.Context, userID uuid.UUID) (user.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, ErrInternal
	}
	u.PasswordHash = ""
	return u, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
