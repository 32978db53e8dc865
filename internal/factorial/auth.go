package factorial

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/PuerkitoBio/goquery"

	"github.com/deskhours/sucktorial/internal/logger"
)

// probeSession reports whether the cached session is still accepted by the
// vendor. There is no dedicated endpoint for this, so it leans on the
// open-shift query: a successful exchange, regardless of payload, implies
// a valid session, and a rejected one implies the opposite. Transport
// failures propagate, since they prove nothing either way.
func (c *Client) probeSession(ctx context.Context) (bool, error) {
	_, err := c.OpenShift(ctx)
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// IsAuthenticated reports whether the client currently holds a valid
// session. It costs one network round trip.
func (c *Client) IsAuthenticated(ctx context.Context) (bool, error) {
	return c.probeSession(ctx)
}

// authenticityToken fetches the login page and extracts the hidden CSRF
// token the login form must echo back. The GET also seeds the jar with the
// pre-login cookies the vendor pairs the token with.
func (c *Client) authenticityToken(ctx context.Context) (string, error) {
	body, err := c.get(ctx, c.cfg.LoginURL, nil, opLoginPage, ErrAuthPage, http.StatusOK)
	if err != nil {
		return "", err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%s: %w", opLoginPage, err)
	}
	token, ok := doc.Find(`input[name="authenticity_token"]`).Attr("value")
	if !ok || token == "" {
		return "", ErrTokenNotFound
	}
	return token, nil
}

// Login establishes an authenticated session and persists it, keyed by the
// account's identity hash. Logging in while already authenticated is a
// warning no-op.
func (c *Client) Login(ctx context.Context) error {
	authed, err := c.probeSession(ctx)
	if err != nil {
		return err
	}
	if authed {
		c.log.Warn("Already logged in", logger.F("email", c.creds.Email))
		return nil
	}

	token, err := c.authenticityToken(ctx)
	if err != nil {
		return err
	}
	c.log.Debug("Authenticity token retrieved", logger.F("token", token))

	form := url.Values{}
	form.Set("authenticity_token", token)
	form.Set("user[email]", c.creds.Email)
	form.Set("user[password]", c.creds.Password)
	form.Set("user[remember_me]", "1")

	if _, err := c.submitForm(ctx, http.MethodPost, c.cfg.LoginURL, form, opLogin, ErrLogin, http.StatusOK, http.StatusFound); err != nil {
		return err
	}

	if err := c.store.Save(c.identity(), c.jar.Snapshot()); err != nil {
		return fmt.Errorf("session established but not persisted: %w", err)
	}
	c.log.Info("Successfully logged in", logger.F("email", c.creds.Email))
	c.log.Debug("Session saved", logger.F("sha256", c.identity()))
	return nil
}

// Logout tears the session down on both sides: the vendor's session
// resource, the on-disk cache, and the in-memory jar. A missing session
// file is a warning no-op; the jar is reset regardless.
func (c *Client) Logout(ctx context.Context) error {
	if _, err := c.del(ctx, c.cfg.SessionURL, opLogout, ErrLogout, http.StatusNoContent); err != nil {
		return err
	}

	removed, err := c.store.Delete(c.identity())
	if err != nil {
		return err
	}
	if !removed {
		c.log.Warn("No session file to delete", logger.F("email", c.creds.Email))
	}
	c.jar.Reset()

	c.log.Info("Successfully logged out", logger.F("email", c.creds.Email))
	return nil
}
