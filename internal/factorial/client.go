package factorial

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/deskhours/sucktorial/internal/logger"
)

// Operation labels. They double as the user-facing prefix of request errors.
const (
	opLoginPage   = "Failed to retrieve the login page"
	opLogin       = "Failed to login"
	opLogout      = "Failed to logout"
	opClockIn     = "Failed to clock in"
	opClockOut    = "Failed to clock out"
	opOpenShift   = "Failed to get open shift"
	opShifts      = "Failed to get shifts"
	opUpdateShift = "Failed to update shift"
	opDeleteShift = "Failed to delete shift"
	opPeriods     = "Failed to get periods"
	opLeaves      = "Failed to get leaves"
	opGraphQL     = "Failed to send GraphQL query"
)

// Client is an authenticated Factorial API client. It owns its session
// state: one cookie jar shared by every exchange, persisted across runs
// through a SessionStore. Construct it once and pass it around; it is safe
// for sequential use, which is all a CLI needs.
type Client struct {
	cfg   Config
	creds Credentials
	jar   *Jar
	http  *http.Client
	store *SessionStore
	log   *logger.Logger
}

// New builds a client and restores the account's cached session when one
// exists. A corrupt cache is discarded with a warning rather than failing:
// a stale session file must never brick the CLI.
func New(cfg Config, creds Credentials, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	jar := NewJar()
	c := &Client{
		cfg:   cfg,
		creds: creds,
		jar:   jar,
		http:  &http.Client{Jar: jar, Timeout: timeout},
		store: NewSessionStore(cfg.SessionsDir),
		log:   log,
	}

	cookies, err := c.store.Load(c.identity())
	switch {
	case err != nil:
		log.Warn("Ignoring unreadable session cache", logger.F("error", err))
	case cookies != nil:
		jar.Restore(cookies)
		log.Info("Session loaded", logger.F("email", creds.Email))
		log.Debug("Email session ID", logger.F("sha256", c.identity()))
	}

	log.Debug("Factorial client initialized",
		logger.F("base_url", cfg.BaseURL),
		logger.F("email", creds.Email),
		logger.Secret("password"),
	)
	return c
}

// Email returns the account email this client was built for.
func (c *Client) Email() string {
	return c.creds.Email
}

// EmployeeID returns the configured employee id, which may be zero.
func (c *Client) EmployeeID() int64 {
	return c.cfg.EmployeeID
}

func (c *Client) identity() string {
	return IdentityKey(c.creds.Email)
}

// reasonPhrase extracts the reason part of a response status line.
func reasonPhrase(resp *http.Response) string {
	reason := strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode))
	return strings.TrimSpace(reason)
}

// exchange runs one request through the shared session and enforces the
// operation's accepted status set. A miss produces a *RequestError tagged
// with kind and op; transport failures come back as plain wrapped errors.
// Nothing is ever retried.
func (c *Client) exchange(req *http.Request, op string, kind error, accept ...int) ([]byte, error) {
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !slices.Contains(accept, resp.StatusCode) {
		reqErr := &RequestError{
			Kind:   kind,
			Op:     op,
			Status: resp.StatusCode,
			Reason: reasonPhrase(resp),
			Body:   body,
		}
		c.log.Error(reqErr.Error())
		c.log.Debug("Response body", logger.F("body", string(body)))
		return nil, reqErr
	}

	c.log.Debug("Exchange completed",
		logger.F("method", req.Method),
		logger.F("path", req.URL.Path),
		logger.F("status", resp.StatusCode),
	)
	return body, nil
}

// get issues a GET with optional query parameters and returns the raw body.
func (c *Client) get(ctx context.Context, rawURL string, query url.Values, op string, kind error, accept ...int) ([]byte, error) {
	target := rawURL
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c.exchange(req, op, kind, accept...)
}

// getJSON issues a GET and decodes the body into out.
func (c *Client) getJSON(ctx context.Context, rawURL string, query url.Values, out any, op string, accept ...int) error {
	body, err := c.get(ctx, rawURL, query, op, ErrRequestFailed, accept...)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// submitForm issues a form-encoded request (POST or PATCH).
func (c *Client) submitForm(ctx context.Context, method, rawURL string, form url.Values, op string, kind error, accept ...int) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.exchange(req, op, kind, accept...)
}

// postJSON issues a JSON-encoded POST.
func (c *Client) postJSON(ctx context.Context, rawURL string, payload any, op string, kind error, accept ...int) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(string(data)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.exchange(req, op, kind, accept...)
}

// del issues a DELETE.
func (c *Client) del(ctx context.Context, rawURL, op string, kind error, accept ...int) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c.exchange(req, op, kind, accept...)
}
