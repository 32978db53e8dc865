package server

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// authMiddleware resolves the session cookie to a user and stashes the
// identity in the request context.
func (s *Server) authMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		cookie, err := c.Cookie(sessionCookie)
		if err != nil || cookie.Value == "" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		}

		var userID, expiresAt string
		var employeeID int64
		err = s.db.QueryRow(`
			SELECT s.user_id, s.expires_at, u.employee_id
			FROM sessions s
			JOIN users u ON u.id = s.user_id
			WHERE s.token = $1`,
			cookie.Value,
		).Scan(&userID, &expiresAt, &employeeID)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid session"})
		}

		expiry, err := time.Parse(time.RFC3339, expiresAt)
		if err != nil || time.Now().After(expiry) {
			s.db.Exec(`DELETE FROM sessions WHERE token = $1`, cookie.Value)
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "session expired"})
		}

		c.Set("user_id", userID)
		c.Set("employee_id", employeeID)
		return next(c)
	}
}
