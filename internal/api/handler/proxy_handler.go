package handler

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/bahath/jobz-web/internal/api/middleware"
)

// ProxyHandler forwards /api/* to the REST API with the session's bearer
// token attached.
type ProxyHandler struct {
	proxy       *httputil.ReverseProxy
	stripPrefix string
}

// NewProxyHandler proxies to baseURL, removing stripPrefix from request
// paths. baseURL may carry a path, e.g. http://api:5000/api.
func NewProxyHandler(baseURL, stripPrefix string, log zerolog.Logger) (*ProxyHandler, error) {
	target, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	if target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("api base url %q must be absolute", baseURL)
	}

	proxy := httputil.NewSingleHostReverseProxy(target)
	proxy.Transport = otelhttp.NewTransport(http.DefaultTransport)

	originalDirector := proxy.Director
	proxy.Director = func(req *http.Request) {
		req.URL.Path = strings.TrimPrefix(req.URL.Path, stripPrefix)
		req.URL.RawPath = ""
		originalDirector(req)
		req.Host = target.Host
		req.Header.Del("Cookie")
	}

	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		log.Warn().Err(err).Str("path", r.URL.Path).Msg("proxy error")
		w.Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error":"bad gateway"}`))
	}

	return &ProxyHandler{proxy: proxy, stripPrefix: stripPrefix}, nil
}

// Forward proxies the request. It runs behind RequireSessionAPI, so the
// session always holds a token here.
func (h *ProxyHandler) Forward(c echo.Context) error {
	bs := middleware.Session(c)
	if bs == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
	}

	req := c.Request().Clone(c.Request().Context())
	req.Header.Del("Authorization")
	if token := bs.Store.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	h.proxy.ServeHTTP(c.Response(), req)
	return nil
}
