package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/bahath/jobz-web/internal/core/domain"
)

func TestProxyHandler_AttachesBearerAndRewritesPath(t *testing.T) {
	var gotPath, gotAuth, gotCookie string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotCookie = r.Header.Get("Cookie")
		w.WriteHeader(http.StatusTeapot)
	}))
	t.Cleanup(upstream.Close)

	h, err := NewProxyHandler(upstream.URL+"/api", "/api", zerolog.Nop())
	if err != nil {
		t.Fatalf("NewProxyHandler: %v", err)
	}

	c, rec := newContext(http.MethodGet, "/api/jobs?page=2", "", loggedIn(t, domain.RoleEmployer))
	c.Request().Header.Set("Cookie", "jobz_sid=secret")
	c.Request().Header.Set("Authorization", "Bearer forged")

	if err := h.Forward(c); err != nil {
		t.Fatalf("Forward: %v", err)
	}
	if rec.Code != http.StatusTeapot {
		t.Fatalf("expected upstream status, got %d", rec.Code)
	}
	if gotPath != "/api/jobs" {
		t.Fatalf("unexpected upstream path %q", gotPath)
	}
	if gotAuth != "Bearer T" {
		t.Fatalf("expected session token, got %q", gotAuth)
	}
	if gotCookie != "" {
		t.Fatalf("browser cookie leaked upstream: %q", gotCookie)
	}
}

func TestProxyHandler_BadGateway(t *testing.T) {
	upstream := httptest.NewServer(http.NotFoundHandler())
	upstream.Close()

	h, err := NewProxyHandler(upstream.URL, "/api", zerolog.Nop())
	if err != nil {
		t.Fatalf("NewProxyHandler: %v", err)
	}
	c, rec := newContext(http.MethodGet, "/api/jobs", "", loggedIn(t, domain.RoleEmployer))

	_ = h.Forward(c)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
}

func TestNewProxyHandler_RejectsRelativeURL(t *testing.T) {
	if _, err := NewProxyHandler("/api", "/api", zerolog.Nop()); err == nil {
		t.Fatalf("expected error for relative base url")
	}
}
