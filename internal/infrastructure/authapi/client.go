// Package authapi is the HTTP client of the external Auth Service.
package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/bahath/jobz-web/internal/api/metrics"
	"github.com/bahath/jobz-web/internal/core/domain"
	"github.com/bahath/jobz-web/internal/core/ports"
	"github.com/bahath/jobz-web/internal/pkg/validate"
)

const (
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 1 << 20

	opMe       = "me"
	opLogin    = "login"
	opRegister = "register"
)

// Config captures the settings of the Auth Service client.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client implements ports.AuthClient over HTTP.
type Client struct {
	baseURL  string
	http     *http.Client
	validate *validator.Validate
}

// NewClient returns a Client with a traced transport. A default timeout is
// applied when none is provided.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		validate: validate.New(),
	}
}

var _ ports.AuthClient = (*Client)(nil)

// Me validates token and returns its user. The body may be the bare user or
// a {"user": {...}} envelope.
func (c *Client) Me(ctx context.Context, token string) (*domain.User, error) {
	var body json.RawMessage
	if err := c.do(ctx, opMe, http.MethodGet, "/auth/me", token, nil, &body); err != nil {
		return nil, err
	}

	var env struct {
		User *userPayload `json:"user"`
	}
	if err := json.Unmarshal(body, &env); err == nil && env.User != nil {
		return c.toUser(opMe, env.User)
	}

	var bare userPayload
	if err := json.Unmarshal(body, &bare); err != nil {
		return nil, c.malformed(opMe, err)
	}
	return c.toUser(opMe, &bare)
}

// Login exchanges credentials for a token and user.
func (c *Client) Login(ctx context.Context, creds ports.Credentials) (*ports.AuthResult, error) {
	return c.authenticate(ctx, opLogin, "/auth/login", creds)
}

// Register creates an account and returns its token and user.
func (c *Client) Register(ctx context.Context, input ports.RegistrationInput) (*ports.AuthResult, error) {
	return c.authenticate(ctx, opRegister, "/auth/register", input)
}

func (c *Client) authenticate(ctx context.Context, op, path string, payload any) (*ports.AuthResult, error) {
	var resp authResponse
	if err := c.do(ctx, op, http.MethodPost, path, "", payload, &resp); err != nil {
		return nil, err
	}
	if err := c.validate.Struct(resp); err != nil {
		return nil, c.malformed(op, errors.New(validate.Message(err)))
	}
	user, err := c.toUser(op, resp.User)
	if err != nil {
		return nil, err
	}
	return &ports.AuthResult{Token: resp.Token, User: user}, nil
}

// do performs one round trip. Only a 2xx answer with a decodable JSON body
// counts as ok; outcomes other than "ok" are recorded here, except schema
// failures which the caller records through malformed.
func (c *Client) do(ctx context.Context, op, method, path, token string, in, out any) error {
	start := time.Now()
	defer func() {
		metrics.AuthCallDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}()

	var reqBody io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", op, err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		metrics.AuthCallsTotal.WithLabelValues(op, string(domain.KindUnreachable)).Inc()
		return fmt.Errorf("%w: %s: %v", domain.ErrUnreachable, op, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		metrics.AuthCallsTotal.WithLabelValues(op, string(domain.KindUnreachable)).Inc()
		return fmt.Errorf("%w: %s: read body: %v", domain.ErrUnreachable, op, err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		metrics.AuthCallsTotal.WithLabelValues(op, string(domain.KindRejected)).Inc()
		return &domain.RejectedError{Status: res.StatusCode, Message: errorMessage(raw)}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return c.malformed(op, err)
	}
	return nil
}

func (c *Client) toUser(op string, p *userPayload) (*domain.User, error) {
	if p == nil {
		return nil, c.malformed(op, errors.New("user is required"))
	}
	if err := c.validate.Struct(p); err != nil {
		return nil, c.malformed(op, errors.New(validate.Message(err)))
	}
	metrics.AuthCallsTotal.WithLabelValues(op, "ok").Inc()
	return p.toDomain(), nil
}

func (c *Client) malformed(op string, cause error) error {
	metrics.AuthCallsTotal.WithLabelValues(op, string(domain.KindMalformed)).Inc()
	return fmt.Errorf("%w: %s: %v", domain.ErrMalformedResponse, op, cause)
}

// errorMessage extracts the "message" field of an error body, if any.
func errorMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Error
}
