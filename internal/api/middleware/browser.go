package middleware

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/bahath/jobz-web/internal/core/service"
)

const (
	// CookieName carries the signed browser id.
	CookieName = "jobz_sid"

	sessionKey    = "browser_session"
	defaultMaxAge = 30 * 24 * time.Hour
)

// SessionAcquirer hands out the session of a browser.
type SessionAcquirer interface {
	Acquire(browserID string) *service.BrowserSession
}

// BrowserConfig controls the browser-id cookie.
type BrowserConfig struct {
	Secret string
	Secure bool
	MaxAge time.Duration
}

// Browser identifies the browser behind a request with a signed cookie,
// issuing a new id when the cookie is missing or invalid, and injects its
// session into the context.
func Browser(sessions SessionAcquirer, cfg BrowserConfig) echo.MiddlewareFunc {
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = defaultMaxAge
	}
	secret := []byte(cfg.Secret)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := browserID(c, secret)
			if !ok {
				id = uuid.NewString()
				signed, err := signBrowserID(id, secret)
				if err != nil {
					return err
				}
				c.SetCookie(&http.Cookie{
					Name:     CookieName,
					Value:    signed,
					Path:     "/",
					MaxAge:   int(cfg.MaxAge.Seconds()),
					HttpOnly: true,
					Secure:   cfg.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			c.Set(sessionKey, sessions.Acquire(id))
			return next(c)
		}
	}
}

// Session returns the browser session injected by Browser, or nil.
func Session(c echo.Context) *service.BrowserSession {
	bs, _ := c.Get(sessionKey).(*service.BrowserSession)
	return bs
}

// WithSession injects bs into c. Used where Browser does not run.
func WithSession(c echo.Context, bs *service.BrowserSession) {
	c.Set(sessionKey, bs)
}

func browserID(c echo.Context, secret []byte) (string, bool) {
	cookie, err := c.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}

	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(cookie.Value, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return secret, nil
	})
	if err != nil || !tkn.Valid {
		return "", false
	}

	sid, _ := claims["sid"].(string)
	if _, err := uuid.Parse(sid); err != nil {
		return "", false
	}
	return sid, true
}

func signBrowserID(id string, secret []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid": id,
		"iat": time.Now().Unix(),
	})
	return token.SignedString(secret)
}
