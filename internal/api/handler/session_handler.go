package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bahath/jobz-web/internal/core/service"
)

// SessionHandler exposes the browser's session store as JSON.
type SessionHandler struct{}

func NewSessionHandler() *SessionHandler {
	return &SessionHandler{}
}

// Get returns the current session.
//
// @Summary      Current session
// @Tags         session
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /session [get]
func (h *SessionHandler) Get(c echo.Context) error {
	bs, err := ctxSession(c)
	if err != nil {
		return err
	}
	return h.respond(c, bs, http.StatusOK, nil)
}

// Login authenticates the browser.
//
// @Summary      Login
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  sessionResponse
// @Failure      401   {object}  sessionResponse
// @Failure      502   {object}  sessionResponse
// @Router       /session/login [post]
func (h *SessionHandler) Login(c echo.Context) error {
	bs, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return h.respond(c, bs, http.StatusBadRequest, echo.NewHTTPError(http.StatusBadRequest, "invalid payload"))
	}

	if _, err := bs.Store.Login(c.Request().Context(), req.Email, req.Password); err != nil {
		return h.respond(c, bs, 0, err)
	}
	return h.respond(c, bs, http.StatusOK, nil)
}

// Register creates an account and logs the browser in.
//
// @Summary      Register
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Role-dependent profile"
// @Success      201   {object}  sessionResponse
// @Failure      400   {object}  sessionResponse
// @Failure      409   {object}  sessionResponse
// @Failure      422   {object}  sessionResponse
// @Failure      502   {object}  sessionResponse
// @Router       /session/register [post]
func (h *SessionHandler) Register(c echo.Context) error {
	bs, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return h.respond(c, bs, http.StatusBadRequest, echo.NewHTTPError(http.StatusBadRequest, "invalid payload"))
	}

	if _, err := bs.Store.Register(c.Request().Context(), req.toInput()); err != nil {
		return h.respond(c, bs, 0, err)
	}
	return h.respond(c, bs, http.StatusCreated, nil)
}

// Logout clears the session. It always succeeds.
//
// @Summary      Logout
// @Tags         session
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /session/logout [post]
func (h *SessionHandler) Logout(c echo.Context) error {
	bs, err := ctxSession(c)
	if err != nil {
		return err
	}
	bs.Store.Logout(c.Request().Context())
	return h.respond(c, bs, http.StatusOK, nil)
}

// Refresh re-fetches the user, e.g. after onboarding.
//
// @Summary      Refresh user
// @Tags         session
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Failure      401  {object}  sessionResponse
// @Failure      502  {object}  sessionResponse
// @Router       /session/refresh [post]
func (h *SessionHandler) Refresh(c echo.Context) error {
	bs, err := ctxSession(c)
	if err != nil {
		return err
	}
	if _, err := bs.Store.RefreshUser(c.Request().Context()); err != nil {
		return h.respond(c, bs, 0, err)
	}
	return h.respond(c, bs, http.StatusOK, nil)
}

// respond renders the session with its pending notifications. When err is
// set and status is 0 the status is derived from err.
func (h *SessionHandler) respond(c echo.Context, bs *service.BrowserSession, status int, err error) error {
	resp := newSessionResponse(bs.Store.Snapshot(), bs.Flash.Drain())
	if err != nil {
		status, resp.Error = resolveSessionError(err, status)
	}
	return c.JSON(status, resp)
}

func resolveSessionError(err error, status int) (int, string) {
	pick := func(code int) int {
		if status != 0 {
			return status
		}
		return code
	}

	if code, msg, ok := DomainStatus(err); ok {
		return pick(code), msg
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return pick(he.Code), fmt.Sprintf("%v", he.Message)
	}
	if status != 0 {
		return status, err.Error()
	}
	return http.StatusInternalServerError, "internal server error"
}
