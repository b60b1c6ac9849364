package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/bahath/jobz-web/internal/core/domain"
	"github.com/bahath/jobz-web/internal/core/ports"
	"github.com/bahath/jobz-web/internal/core/service"
)

func loggedIn(t *testing.T, role domain.Role) *service.BrowserSession {
	t.Helper()
	bs := newBrowserSession(&stubAuthClient{
		loginFn: func(context.Context, ports.Credentials) (*ports.AuthResult, error) {
			return &ports.AuthResult{Token: "T", User: &domain.User{ID: "1", Email: "u@x.io", Role: role}}, nil
		},
	})
	if _, err := bs.Store.Login(context.Background(), "u@x.io", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}
	return bs
}

func TestScreenHandler_Home(t *testing.T) {
	anonymous := newBrowserSession(&stubAuthClient{})
	anonymous.Store.RestoreSession(context.Background())

	tests := []struct {
		name     string
		bs       *service.BrowserSession
		code     int
		location string
	}{
		{"loading", newBrowserSession(&stubAuthClient{}), http.StatusOK, ""},
		{"anonymous", anonymous, http.StatusSeeOther, "/auth/login"},
		{"super admin", loggedIn(t, domain.RoleSuperAdmin), http.StatusSeeOther, "/admin/dashboard"},
		{"employer", loggedIn(t, domain.RoleEmployer), http.StatusSeeOther, "/employer/dashboard"},
		{"job seeker", loggedIn(t, domain.RoleJobSeeker), http.StatusSeeOther, "/dashboard"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newContext(http.MethodGet, "/", "", tt.bs)
			if err := NewScreenHandler().Home(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tt.code || rec.Header().Get(echo.HeaderLocation) != tt.location {
				t.Fatalf("got %d %q, want %d %q", rec.Code, rec.Header().Get(echo.HeaderLocation), tt.code, tt.location)
			}
		})
	}
}

func TestScreenHandler_PublicRedirectsUsers(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/auth/login", "", loggedIn(t, domain.RoleEmployer))

	if err := NewScreenHandler().Public("login", "Sign in", true)(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Header().Get(echo.HeaderLocation) != "/employer/dashboard" {
		t.Fatalf("expected dashboard redirect, got %d", rec.Code)
	}
}

func TestScreenHandler_ProtectedDrainsNotifications(t *testing.T) {
	bs := loggedIn(t, domain.RoleEmployer)
	c, rec := newContext(http.MethodGet, "/employer/dashboard", "", bs)

	if err := NewScreenHandler().Protected("employer_dashboard", "Employer dashboard")(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	resp := decodeSession(t, rec)
	if resp["screen"] != "employer_dashboard" {
		t.Fatalf("unexpected screen %v", resp["screen"])
	}
	if resp["displayName"] != "u@x.io" {
		t.Fatalf("expected the email as display name, got %v", resp["displayName"])
	}
	if len(resp["notifications"].([]any)) != 1 {
		t.Fatalf("expected the login notification")
	}
	if len(bs.Flash.Drain()) != 0 {
		t.Fatalf("notifications must be drained")
	}
}

func TestNewScreenResponse_DisplayName(t *testing.T) {
	tests := []struct {
		name string
		user *domain.User
		want string
	}{
		{"anonymous", nil, ""},
		{"full name", &domain.User{Email: "a@x.io", FirstName: "Ada", LastName: "Lovelace"}, "Ada Lovelace"},
		{"first name only", &domain.User{Email: "a@x.io", FirstName: "Ada"}, "Ada"},
		{"last name only", &domain.User{Email: "a@x.io", LastName: "Lovelace"}, "Lovelace"},
		{"no names", &domain.User{Email: "a@x.io"}, "a@x.io"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := newScreenResponse("s", "S", tt.user, nil).DisplayName; got != tt.want {
				t.Fatalf("DisplayName = %q, want %q", got, tt.want)
			}
		})
	}
}
