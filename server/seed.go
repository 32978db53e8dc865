package server

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/deskhours/sucktorial/internal/logger"
)

// seed ensures the configured development account exists. Without seed
// credentials the store starts empty and sign-in always fails, which is
// still a valid stand-in for probing error paths.
func (s *Server) seed(cfg Config) error {
	if cfg.SeedEmail == "" || cfg.SeedPassword == "" {
		return nil
	}

	var existing string
	err := s.db.QueryRow(`SELECT id FROM users WHERE email = $1`, cfg.SeedEmail).Scan(&existing)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.SeedPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	employeeID := cfg.SeedEmployeeID
	if employeeID == 0 {
		employeeID = 1001
	}

	_, err = s.db.Exec(`
		INSERT INTO users (id, email, password_hash, employee_id, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		uuid.New().String(), cfg.SeedEmail, string(hash), employeeID, time.Now().Format(time.RFC3339),
	)
	if err != nil {
		return err
	}

	logger.Info("Seeded development account",
		logger.F("email", cfg.SeedEmail),
		logger.F("employee_id", employeeID))
	return nil
}
