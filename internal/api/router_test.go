package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/bahath/jobz-web/internal/api/middleware"
	"github.com/bahath/jobz-web/internal/core/domain"
	"github.com/bahath/jobz-web/internal/core/ports"
	"github.com/bahath/jobz-web/internal/core/service"
	"github.com/bahath/jobz-web/internal/infrastructure/db/memory"
	"github.com/bahath/jobz-web/internal/infrastructure/http/handlers"
)

type stubAuthClient struct {
	user *domain.User
}

func (s *stubAuthClient) Me(context.Context, string) (*domain.User, error) {
	return nil, errors.New("no stored sessions in these tests")
}

func (s *stubAuthClient) Login(context.Context, ports.Credentials) (*ports.AuthResult, error) {
	return &ports.AuthResult{Token: "T", User: s.user}, nil
}

func (s *stubAuthClient) Register(context.Context, ports.RegistrationInput) (*ports.AuthResult, error) {
	return nil, errors.New("not implemented")
}

// fixedSessions hands out one pre-built session to every browser.
type fixedSessions struct {
	bs *service.BrowserSession
}

func (f fixedSessions) Acquire(string) *service.BrowserSession { return f.bs }

func newTestRouter(t *testing.T, user *domain.User) http.Handler {
	t.Helper()
	flash := &service.FlashQueue{}
	store := service.NewSessionStore(&stubAuthClient{user: user}, memory.NewStorage().Factory()("b"), flash, zerolog.Nop())
	store.RestoreSession(context.Background())
	if user != nil {
		if _, err := store.Login(context.Background(), user.Email, "pw"); err != nil {
			t.Fatalf("login: %v", err)
		}
	}

	reg := prometheus.NewRegistry()
	e, err := NewRouter(Dependencies{
		Sessions:   fixedSessions{bs: &service.BrowserSession{ID: "b", Store: store, Flash: flash}},
		Cookie:     middleware.BrowserConfig{Secret: "secret"},
		APIBaseURL: "http://127.0.0.1:1/api",
		Readiness:  map[string]handlers.Pinger{},
		Log:        zerolog.Nop(),
		Registerer: reg,
		Gatherer:   reg,
	})
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}
	return e
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestRouter_GuardedScreens(t *testing.T) {
	jobSeeker := &domain.User{ID: "1", Email: "j@s.io", Role: domain.RoleJobSeeker}
	onboarded := &domain.User{ID: "1", Email: "j@s.io", Role: domain.RoleJobSeeker, InterestsSelected: true}
	employer := &domain.User{ID: "2", Email: "e@a.io", Role: "Employer"}

	tests := []struct {
		name     string
		user     *domain.User
		path     string
		code     int
		location string
	}{
		{"anonymous admin", nil, "/admin/dashboard", http.StatusSeeOther, "/auth/login"},
		{"employer on job seeker dashboard", employer, "/dashboard", http.StatusSeeOther, "/unauthorized"},
		{"mixed-case employer", employer, "/employer/dashboard", http.StatusOK, ""},
		{"job seeker without interests", jobSeeker, "/dashboard", http.StatusSeeOther, "/onboarding/interests"},
		{"job seeker onboarding", jobSeeker, "/onboarding/interests", http.StatusOK, ""},
		{"onboarded job seeker", onboarded, "/dashboard", http.StatusOK, ""},
		{"any role profile", employer, "/profile", http.StatusOK, ""},
		{"anonymous profile", nil, "/profile", http.StatusSeeOther, "/auth/login"},
		{"public unauthorized", nil, "/unauthorized", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(newTestRouter(t, tt.user), tt.path)
			if rec.Code != tt.code || rec.Header().Get("Location") != tt.location {
				t.Fatalf("got %d %q, want %d %q", rec.Code, rec.Header().Get("Location"), tt.code, tt.location)
			}
		})
	}
}

func TestRouter_APIRequiresSession(t *testing.T) {
	rec := get(newTestRouter(t, nil), "/api/jobs")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRouter_IssuesBrowserCookie(t *testing.T) {
	rec := get(newTestRouter(t, nil), "/session")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	found := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.CookieName {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected %s cookie", middleware.CookieName)
	}
}

func TestRouter_OperationalEndpoints(t *testing.T) {
	h := newTestRouter(t, nil)
	for _, path := range []string{"/health", "/health/ready", "/metrics"} {
		if rec := get(h, path); rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rec.Code)
		}
	}
}
