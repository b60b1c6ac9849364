package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/bahath/jobz-web/internal/core/domain"
	"github.com/bahath/jobz-web/internal/core/ports"
	"github.com/bahath/jobz-web/internal/pkg/validate"
)

const (
	msgLoginSuccess    = "Login successful"
	msgLoginFailed     = "Login failed"
	msgRegisterSuccess = "Registration successful"
	msgRegisterFailed  = "Registration failed"
	msgLogout          = "Logged out successfully"
)

// storageWriteTimeout bounds writes that must land even after the caller's
// context is done.
const storageWriteTimeout = 5 * time.Second

// SessionStore owns the session of one browser: who is logged in, and the
// operations that change it. Operations are serialized; readers use Snapshot.
type SessionStore struct {
	client   ports.AuthClient
	storage  ports.SessionStorage
	notifier ports.Notifier
	validate *validator.Validate
	log      zerolog.Logger

	// opMu is held for the whole duration of a mutating operation.
	opMu     sync.Mutex
	restored bool

	mu      sync.RWMutex
	state   domain.SessionState
	subs    map[int]func(domain.SessionState)
	nextSub int
}

// NewSessionStore returns a store in the idle phase with loading set, which
// is what the Route Guard sees until RestoreSession settles.
func NewSessionStore(client ports.AuthClient, storage ports.SessionStorage, notifier ports.Notifier, log zerolog.Logger) *SessionStore {
	return &SessionStore{
		client:   client,
		storage:  storage,
		notifier: notifier,
		validate: validate.New(),
		log:      log,
		state:    domain.SessionState{Phase: domain.PhaseIdle, Loading: true},
		subs:     make(map[int]func(domain.SessionState)),
	}
}

// Snapshot returns a copy of the current state.
func (s *SessionStore) Snapshot() domain.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.state
	st.User = st.User.Clone()
	st.Hint = st.Hint.Clone()
	return st
}

// Token returns the current bearer token, or "" when logged out.
func (s *SessionStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Token
}

// Subscribe registers fn to be called with every new state. The returned
// function removes the subscription.
func (s *SessionStore) Subscribe(fn func(domain.SessionState)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// RestoreSession validates the persisted token once per store. It never
// fails: any problem degrades to a logged-out session. After it returns,
// Loading is false and User is either freshly validated or nil.
func (s *SessionStore) RestoreSession(ctx context.Context) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if s.restored {
		return
	}
	s.restored = true

	token, err := s.storage.GetItem(ctx, ports.StorageKeyToken)
	if err != nil || token == "" {
		if err != nil && !errors.Is(err, ports.ErrStorageKeyNotFound) {
			s.log.Warn().Err(err).Msg("reading persisted token failed, starting logged out")
		}
		s.setState(domain.SessionState{Phase: domain.PhaseSettled})
		return
	}

	s.setState(domain.SessionState{
		Phase:   domain.PhaseRestoring,
		Loading: true,
		Hint:    s.persistedUser(ctx),
	})

	user, err := s.client.Me(ctx, token)
	if err != nil {
		s.log.Info().Err(err).Str("kind", string(domain.KindOf(err))).Msg("stored token rejected, clearing session")
		s.clearStorage(ctx)
		s.setState(domain.SessionState{Phase: domain.PhaseSettled})
		return
	}

	s.setState(domain.SessionState{Phase: domain.PhaseSettled, Token: token, User: user})
	s.log.Debug().Str("user_id", user.ID).Msg("session restored")
}

// Abandon settles a store whose restoration could not be scheduled. Durable
// storage is left untouched so a later store can still restore from it.
func (s *SessionStore) Abandon() {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if s.restored {
		return
	}
	s.restored = true
	s.setState(domain.SessionState{Phase: domain.PhaseSettled})
}

// Login authenticates with email and password. On failure nothing stored
// changes, an error notification is emitted and the error is returned.
func (s *SessionStore) Login(ctx context.Context, email, password string) (*domain.User, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	creds := ports.Credentials{Email: email, Password: password}
	if email == "" || password == "" {
		return nil, s.fail("login", msgLoginFailed, domain.ErrMissingCredentials)
	}

	prev := s.enter(domain.PhaseLoggingIn)
	res, err := s.client.Login(ctx, creds)
	if err != nil {
		s.setState(prev)
		return nil, s.fail("login", msgLoginFailed, err)
	}

	s.establish(ctx, res)
	s.notify(domain.NotifySuccess, msgLoginSuccess)
	s.log.Info().Str("user_id", res.User.ID).Str("role", string(res.User.Role)).Msg("login succeeded")
	return res.User.Clone(), nil
}

// Register creates an account and logs it in, with the same persistence
// and failure rules as Login.
func (s *SessionStore) Register(ctx context.Context, input ports.RegistrationInput) (*domain.User, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if role, ok := domain.ParseRole(string(input.Role)); ok {
		input.Role = role
	}
	if err := s.validate.Struct(input); err != nil {
		return nil, s.fail("register", msgRegisterFailed,
			fmt.Errorf("%w: %s", domain.ErrInvalidRegistration, validate.Message(err)))
	}
	if !input.Role.Is(domain.RoleJobSeeker) {
		input.Interests = nil
	}

	prev := s.enter(domain.PhaseRegistering)
	res, err := s.client.Register(ctx, input)
	if err != nil {
		s.setState(prev)
		return nil, s.fail("register", msgRegisterFailed, err)
	}

	s.establish(ctx, res)
	s.notify(domain.NotifySuccess, msgRegisterSuccess)
	s.log.Info().Str("user_id", res.User.ID).Str("role", string(res.User.Role)).Msg("registration succeeded")
	return res.User.Clone(), nil
}

// RefreshUser re-fetches the user after a server-side change such as
// completing the interest-selection step. A failed validation destroys the
// session.
func (s *SessionStore) RefreshUser(ctx context.Context) (*domain.User, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	token := s.Token()
	if token == "" {
		return nil, domain.ErrNoSession
	}

	// A token only exists once the store has settled, so Loading stays false.
	s.enter(domain.PhaseRefreshing)
	user, err := s.client.Me(ctx, token)
	if err != nil {
		s.log.Info().Err(err).Str("kind", string(domain.KindOf(err))).Msg("refresh failed, clearing session")
		s.clearStorage(ctx)
		s.setState(domain.SessionState{Phase: domain.PhaseSettled})
		return nil, fmt.Errorf("refresh: %w", err)
	}

	writeCtx, cancel := detach(ctx)
	s.persistUser(writeCtx, user)
	cancel()
	s.setState(domain.SessionState{Phase: domain.PhaseSettled, Token: token, User: user})
	return user.Clone(), nil
}

// Logout clears the session unconditionally. It never fails and is
// idempotent apart from re-emitting the notification.
func (s *SessionStore) Logout(ctx context.Context) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.restored = true
	s.setState(domain.SessionState{Phase: domain.PhaseSettled})
	s.clearStorage(ctx)
	s.notify(domain.NotifyInfo, msgLogout)
}

// enter switches to an in-flight phase and returns the state to roll back
// to on failure. Loading is preserved: only the initial restoration owns it.
func (s *SessionStore) enter(phase domain.Phase) domain.SessionState {
	prev := s.Snapshot()
	next := prev
	next.Phase = phase
	s.setState(next)
	return prev
}

// establish persists a fresh session. Storage is written strictly after the
// Auth Service accepted the credentials. Storage failures are logged; the
// in-memory session stays authoritative.
func (s *SessionStore) establish(ctx context.Context, res *ports.AuthResult) {
	ctx, cancel := detach(ctx)
	defer cancel()

	if err := s.storage.SetItem(ctx, ports.StorageKeyToken, res.Token); err != nil {
		s.log.Warn().Err(err).Msg("persisting token failed")
	}
	s.persistUser(ctx, res.User)
	s.restored = true
	s.setState(domain.SessionState{Phase: domain.PhaseSettled, Token: res.Token, User: res.User})
}

func (s *SessionStore) persistUser(ctx context.Context, user *domain.User) {
	raw, err := json.Marshal(user)
	if err != nil {
		s.log.Warn().Err(err).Msg("encoding user snapshot failed")
		return
	}
	if err := s.storage.SetItem(ctx, ports.StorageKeyUser, string(raw)); err != nil {
		s.log.Warn().Err(err).Msg("persisting user snapshot failed")
	}
}

// persistedUser reads the last user snapshot; it is only ever a UI hint.
func (s *SessionStore) persistedUser(ctx context.Context) *domain.User {
	raw, err := s.storage.GetItem(ctx, ports.StorageKeyUser)
	if err != nil || raw == "" {
		return nil
	}
	var u domain.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil
	}
	return &u
}

// clearStorage removes the persisted session. It runs detached from ctx: a
// caller that timed out or went away must not leave a token behind.
func (s *SessionStore) clearStorage(ctx context.Context) {
	ctx, cancel := detach(ctx)
	defer cancel()

	for _, key := range []string{ports.StorageKeyToken, ports.StorageKeyUser} {
		if err := s.storage.RemoveItem(ctx, key); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("clearing persisted session failed")
		}
	}
}

// detach keeps ctx values but drops its deadline and cancellation.
func detach(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), storageWriteTimeout)
}

func (s *SessionStore) fail(op, fallback string, err error) error {
	kind := domain.KindOf(err)
	s.log.Info().Err(err).Str("op", op).Str("kind", string(kind)).Msg("session operation failed")
	s.notify(domain.NotifyError, domain.UserMessage(err, fallback))
	return err
}

func (s *SessionStore) notify(level domain.NotificationLevel, msg string) {
	if s.notifier != nil {
		s.notifier.Notify(domain.Notification{Level: level, Message: msg})
	}
}

// setState replaces the state and fans the new snapshot out to subscribers.
func (s *SessionStore) setState(st domain.SessionState) {
	st.User = st.User.Clone()
	if !st.Loading {
		st.Hint = nil
	}

	s.mu.Lock()
	s.state = st
	subs := make([]func(domain.SessionState), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(s.Snapshot())
	}
}
