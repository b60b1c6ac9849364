package middleware

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/bahath/jobz-web/internal/api/metrics"
	"github.com/bahath/jobz-web/internal/core/domain"
)

const (
	LoginPath        = "/auth/login"
	UnauthorizedPath = "/unauthorized"
	InterestsPath    = "/onboarding/interests"

	pendingRetrySeconds = 1
)

const pendingPage = `<!doctype html>
<html lang="en">
<head><meta charset="utf-8"><title>BAHATH JOBZ</title></head>
<body><p>Loading…</p></body>
</html>
`

// RequireSession guards a screen. Until the session has been restored the
// loading page is served; then anonymous visitors are sent to the login
// screen and users outside roles to the unauthorized screen. No roles means
// any authenticated user.
func RequireSession(roles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			switch decide(c, roles) {
			case domain.Pending:
				return RenderPending(c)
			case domain.DeniedUnauthenticated:
				return c.Redirect(http.StatusSeeOther, LoginPath)
			case domain.DeniedRole:
				return c.Redirect(http.StatusSeeOther, UnauthorizedPath)
			default:
				return next(c)
			}
		}
	}
}

// RequireSessionAPI is RequireSession for JSON endpoints.
func RequireSessionAPI(roles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			switch decide(c, roles) {
			case domain.Pending:
				c.Response().Header().Set("Retry-After", strconv.Itoa(pendingRetrySeconds))
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "session is loading"})
			case domain.DeniedUnauthenticated:
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthenticated"})
			case domain.DeniedRole:
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			default:
				return next(c)
			}
		}
	}
}

// RequireInterests sends job seekers who have not picked their interests to
// the onboarding screen. It must run after RequireSession.
func RequireInterests() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			bs := Session(c)
			if bs != nil && bs.Store.Snapshot().User.NeedsInterests() {
				return c.Redirect(http.StatusSeeOther, InterestsPath)
			}
			return next(c)
		}
	}
}

// RenderPending writes the neutral loading page, which reloads itself.
func RenderPending(c echo.Context) error {
	c.Response().Header().Set("Refresh", strconv.Itoa(pendingRetrySeconds))
	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	return c.HTML(http.StatusOK, pendingPage)
}

func decide(c echo.Context, roles []domain.Role) domain.Decision {
	var state domain.SessionState
	if bs := Session(c); bs != nil {
		state = bs.Store.Snapshot()
	}
	d := domain.Authorize(state, roles)
	metrics.GuardDecisionsTotal.WithLabelValues(d.String()).Inc()
	return d
}
