package service

import (
	"context"
	"errors"
	"sync"

	"github.com/bahath/jobz-web/internal/core/domain"
	"github.com/bahath/jobz-web/internal/core/ports"
)

type stubAuthClient struct {
	meFn       func(ctx context.Context, token string) (*domain.User, error)
	loginFn    func(ctx context.Context, creds ports.Credentials) (*ports.AuthResult, error)
	registerFn func(ctx context.Context, input ports.RegistrationInput) (*ports.AuthResult, error)

	mu    sync.Mutex
	calls int
}

func (s *stubAuthClient) count() {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
}

func (s *stubAuthClient) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *stubAuthClient) Me(ctx context.Context, token string) (*domain.User, error) {
	s.count()
	if s.meFn == nil {
		return nil, errors.New("unexpected Me call")
	}
	return s.meFn(ctx, token)
}

func (s *stubAuthClient) Login(ctx context.Context, creds ports.Credentials) (*ports.AuthResult, error) {
	s.count()
	if s.loginFn == nil {
		return nil, errors.New("unexpected Login call")
	}
	return s.loginFn(ctx, creds)
}

func (s *stubAuthClient) Register(ctx context.Context, input ports.RegistrationInput) (*ports.AuthResult, error) {
	s.count()
	if s.registerFn == nil {
		return nil, errors.New("unexpected Register call")
	}
	return s.registerFn(ctx, input)
}

// stubStorage is an in-memory ports.SessionStorage that counts writes.
type stubStorage struct {
	mu     sync.Mutex
	items  map[string]string
	writes int
	getErr error
	setErr error
}

func newStubStorage(items map[string]string) *stubStorage {
	if items == nil {
		items = make(map[string]string)
	}
	return &stubStorage{items: items}
}

func (s *stubStorage) GetItem(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return "", s.getErr
	}
	v, ok := s.items[key]
	if !ok {
		return "", ports.ErrStorageKeyNotFound
	}
	return v, nil
}

func (s *stubStorage) SetItem(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	if s.setErr != nil {
		return s.setErr
	}
	s.items[key] = value
	return nil
}

func (s *stubStorage) RemoveItem(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	delete(s.items, key)
	return nil
}

func (s *stubStorage) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.items[key]
	return ok
}

func (s *stubStorage) get(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items[key]
}

func (s *stubStorage) writeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

type recordingNotifier struct {
	mu    sync.Mutex
	items []domain.Notification
}

func (n *recordingNotifier) Notify(item domain.Notification) {
	n.mu.Lock()
	n.items = append(n.items, item)
	n.mu.Unlock()
}

func (n *recordingNotifier) last() domain.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.items) == 0 {
		return domain.Notification{}
	}
	return n.items[len(n.items)-1]
}
