package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bahath/jobz-web/internal/api/middleware"
	"github.com/bahath/jobz-web/internal/core/service"
)

// ctxSession extracts the browser session injected by the Browser
// middleware. Its absence is a wiring error, not a client error.
func ctxSession(c echo.Context) (*service.BrowserSession, error) {
	bs := middleware.Session(c)
	if bs == nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "browser session missing")
	}
	return bs, nil
}
