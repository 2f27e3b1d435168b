package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"devconnect/internal/database"
	"devconnect/internal/domain/user"
	"devconnect/internal/pkg/jwt"
)

type mockUserRepo struct {
	byEmail map[string]user.User
	byID    map[uuid.UUID]user.User
	created []user.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		byEmail: map[string]user.User{},
		byID:    map[uuid.UUID]user.User{},
	}
}

func (m *mockUserRepo) Create(_ context.Context, u user.User) error {
	if _, ok := m.byEmail[u.Email]; ok {
		return user.ErrEmailTaken
	}
	m.byEmail[u.Email] = u
	m.byID[u.ID] = u
	m.created = append(m.created, u)
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id uuid.UUID) (user.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (user.User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, ok := m.byEmail[email]
	return ok, nil
}

func (m *mockUserRepo) DeleteTx(_ context.Context, _ database.Tx, id uuid.UUID) error {
	u, ok := m.byID[id]
	if !ok {
		return user.ErrNotFound
	}
	delete(m.byEmail, u.Email)
	delete(m.byID, id)
	return nil
}

func newTokenService() jwt.Service {
	return jwt.NewHMACService("test-secret", time.Hour)
}

func TestService_Register_NewUser(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewService(repo, newTokenService())

	token, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Jane Doe",
		Email:    "Jane@Example.com",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if token == "" {
		t.Fatalf("expected a token")
	}

	if len(repo.created) != 1 {
		t.Fatalf("expected 1 created user, got %d", len(repo.created))
	}
	u := repo.created[0]
	if u.Email != "jane@example.com" {
		t.Fatalf("expected normalized email, got %q", u.Email)
	}
	if u.Avatar == "" {
		t.Fatalf("expected a gravatar url")
	}
	if u.PasswordHash == "secret123" {
		t.Fatalf("password stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestService_Register_DuplicateEmail(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewService(repo, newTokenService())

	if _, err := svc.Register(context.Background(), RegisterInput{Name: "A", Email: "a@b.co", Password: "secret123"}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	_, err := svc.Register(context.Background(), RegisterInput{Name: "B", Email: "a@b.co", Password: "secret123"})
	if !errors.Is(err, ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestService_Login(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewService(repo, newTokenService())

	if _, err := svc.Register(context.Background(), RegisterInput{Name: "A", Email: "a@b.co", Password: "secret123"}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{name: "valid", email: "a@b.co", password: "secret123"},
		{name: "case insensitive email", email: "A@B.CO", password: "secret123"},
		{name: "wrong password", email: "a@b.co", password: "nope", wantErr: ErrInvalidCredentials},
		{name: "unknown email", email: "x@y.co", password: "secret123", wantErr: ErrInvalidCredentials},
		{name: "empty password", email: "a@b.co", password: "", wantErr: ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := svc.Login(context.Background(), LoginInput{Email: tt.email, Password: tt.password})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if token == "" {
				t.Fatalf("expected a token")
			}
		})
	}
}

func TestService_Me_SanitizesPasswordHash(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewService(repo, newTokenService())

	if _, err := svc.Register(context.Background(), RegisterInput{Name: "A", Email: "a@b.co", Password: "secret123"}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	id := repo.created[0].ID

	u, err := svc.Me(context.Background(), id)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if u.PasswordHash != "" {
		t.Fatalf("expected password hash to be stripped")
	}

	if _, err := svc.Me(context.Background(), uuid.New()); !errors.Is(err, user.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
