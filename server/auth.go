package server

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/deskhours/sucktorial/internal/logger"
)

// sessionCookie is the cookie name the real vendor uses for its session.
const sessionCookie = "_factorial_session"

// signInPage is the minimal login form the web app serves. The CLI only
// cares about the hidden authenticity_token input.
const signInPage = `<!DOCTYPE html>
<html>
<head><title>Factorial - Sign in</title></head>
<body>
<form action="/%s/users/sign_in" method="post">
  <input type="hidden" name="authenticity_token" value="%s">
  <input type="email" name="user[email]" placeholder="Email">
  <input type="password" name="user[password]" placeholder="Password">
  <label><input type="checkbox" name="user[remember_me]" value="1"> Remember me</label>
  <input type="submit" name="commit" value="Sign in">
</form>
</body>
</html>`

// handleSignInPage serves the login form with a fresh one-shot token.
func (s *Server) handleSignInPage(c echo.Context) error {
	token, err := s.createLoginToken()
	if err != nil {
		c.Logger().Error("login token error:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
	return c.HTML(http.StatusOK, fmt.Sprintf(signInPage, c.Param("locale"), token))
}

// handleSignIn validates the posted form and opens a browser-style cookie
// session, redirecting to the dashboard like the real login does.
func (s *Server) handleSignIn(c echo.Context) error {
	token := c.FormValue("authenticity_token")
	email := c.FormValue("user[email]")
	password := c.FormValue("user[password]")

	ok, err := s.consumeLoginToken(token)
	if err != nil {
		c.Logger().Error("login token error:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid authenticity token"})
	}

	var userID, passwordHash string
	err = s.db.QueryRow(`
		SELECT id, password_hash FROM users WHERE email = $1`,
		email,
	).Scan(&userID, &passwordHash)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)); err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
	}

	sessionToken, expiresAt, err := s.createSession(userID)
	if err != nil {
		c.Logger().Error("session error:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	c.SetCookie(&http.Cookie{
		Name:     sessionCookie,
		Value:    sessionToken,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
	})

	logger.Info("User signed in", logger.F("email", email))

	return c.Redirect(http.StatusFound, "/")
}

// handleSignOut deletes the cookie session. Matches the vendor contract:
// 204 on success, 401 without a session.
func (s *Server) handleSignOut(c echo.Context) error {
	cookie, err := c.Cookie(sessionCookie)
	if err != nil || cookie.Value == "" {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "authentication required"})
	}

	if _, err := s.db.Exec(`DELETE FROM sessions WHERE token = $1`, cookie.Value); err != nil {
		c.Logger().Error("db error:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	c.SetCookie(&http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	return c.NoContent(http.StatusNoContent)
}

// createLoginToken mints a one-shot authenticity token for the sign-in form.
func (s *Server) createLoginToken() (string, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	token := hex.EncodeToString(tokenBytes)

	_, err := s.db.Exec(`
		INSERT INTO login_tokens (token, used, created_at)
		VALUES ($1, $2, $3)`,
		token, false, time.Now().Format(time.RFC3339),
	)
	return token, err
}

// consumeLoginToken marks a token used. It reports false for unknown or
// already-used tokens.
func (s *Server) consumeLoginToken(token string) (bool, error) {
	if token == "" {
		return false, nil
	}

	var used bool
	err := s.db.QueryRow(`SELECT used FROM login_tokens WHERE token = $1`, token).Scan(&used)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if used {
		return false, nil
	}

	_, err = s.db.Exec(`UPDATE login_tokens SET used = $1 WHERE token = $2`, true, token)
	return err == nil, err
}

// createSession creates a new cookie session for a user
func (s *Server) createSession(userID string) (string, time.Time, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", time.Time{}, err
	}
	token := hex.EncodeToString(tokenBytes)

	// Sessions expire in 30 days, like the remember_me cookie
	expiresAt := time.Now().Add(30 * 24 * time.Hour)

	_, err := s.db.Exec(`
		INSERT INTO sessions (token, user_id, expires_at, created_at)
		VALUES ($1, $2, $3, $4)`,
		token, userID, expiresAt.Format(time.RFC3339), time.Now().Format(time.RFC3339),
	)

	return token, expiresAt, err
}
