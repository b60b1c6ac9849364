package middleware

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/bahath/jobz-web/internal/core/domain"
	"github.com/bahath/jobz-web/internal/core/ports"
	"github.com/bahath/jobz-web/internal/core/service"
	"github.com/bahath/jobz-web/internal/infrastructure/db/memory"
)

type stubAuthClient struct {
	user *domain.User
}

func (s *stubAuthClient) Me(context.Context, string) (*domain.User, error) {
	if s.user == nil {
		return nil, errors.New("no user")
	}
	return s.user, nil
}

func (s *stubAuthClient) Login(context.Context, ports.Credentials) (*ports.AuthResult, error) {
	return &ports.AuthResult{Token: "T1", User: s.user}, nil
}

func (s *stubAuthClient) Register(context.Context, ports.RegistrationInput) (*ports.AuthResult, error) {
	return nil, errors.New("not implemented")
}

// loadingSession returns a session whose restoration has not run yet.
func loadingSession() *service.BrowserSession {
	flash := &service.FlashQueue{}
	store := service.NewSessionStore(&stubAuthClient{}, memory.NewStorage().Factory()("b"), flash, zerolog.Nop())
	return &service.BrowserSession{ID: "b", Store: store, Flash: flash}
}

// anonymousSession returns a restored session without a user.
func anonymousSession() *service.BrowserSession {
	bs := loadingSession()
	bs.Store.RestoreSession(context.Background())
	return bs
}

// userSession returns a session logged in as user.
func userSession(t *testing.T, user *domain.User) *service.BrowserSession {
	t.Helper()
	flash := &service.FlashQueue{}
	store := service.NewSessionStore(&stubAuthClient{user: user}, memory.NewStorage().Factory()("b"), flash, zerolog.Nop())
	if _, err := store.Login(context.Background(), user.Email, "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}
	return &service.BrowserSession{ID: "b", Store: store, Flash: flash}
}
