package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bahath/jobz-web/internal/api/middleware"
	"github.com/bahath/jobz-web/internal/core/domain"
)

// screenResponse describes a screen to the web client. Layout is the
// client's business.
type screenResponse struct {
	Screen        string                `json:"screen"`
	Title         string                `json:"title"`
	User          *domain.User          `json:"user,omitempty"`
	DisplayName   string                `json:"displayName,omitempty"`
	Notifications []domain.Notification `json:"notifications"`
}

func newScreenResponse(screen, title string, user *domain.User, notes []domain.Notification) screenResponse {
	resp := screenResponse{Screen: screen, Title: title, User: user, Notifications: notes}
	if user != nil {
		resp.DisplayName = user.FullName()
		if resp.DisplayName == "" {
			resp.DisplayName = user.Email
		}
	}
	return resp
}

// ScreenHandler serves the navigable screens of the web client.
type ScreenHandler struct{}

func NewScreenHandler() *ScreenHandler {
	return &ScreenHandler{}
}

// Home sends the visitor to the screen matching their session.
func (h *ScreenHandler) Home(c echo.Context) error {
	bs, err := ctxSession(c)
	if err != nil {
		return err
	}

	st := bs.Store.Snapshot()
	switch {
	case st.Loading:
		return middleware.RenderPending(c)
	case st.Authenticated():
		return c.Redirect(http.StatusSeeOther, domain.DashboardPath(st.User.Role))
	default:
		return c.Redirect(http.StatusSeeOther, middleware.LoginPath)
	}
}

// Public renders a screen open to anonymous visitors. With redirectUsers set,
// logged-in users are sent to their dashboard instead.
func (h *ScreenHandler) Public(screen, title string, redirectUsers bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		bs, err := ctxSession(c)
		if err != nil {
			return err
		}

		st := bs.Store.Snapshot()
		if redirectUsers && st.Authenticated() {
			return c.Redirect(http.StatusSeeOther, domain.DashboardPath(st.User.Role))
		}
		return c.JSON(http.StatusOK, newScreenResponse(screen, title, st.User, bs.Flash.Drain()))
	}
}

// Protected renders a screen behind the Route Guard.
func (h *ScreenHandler) Protected(screen, title string) echo.HandlerFunc {
	return func(c echo.Context) error {
		bs, err := ctxSession(c)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, newScreenResponse(screen, title, bs.Store.Snapshot().User, bs.Flash.Drain()))
	}
}
