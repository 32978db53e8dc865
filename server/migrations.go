package server

// migrate runs database migrations. The DDL sticks to the dialect subset
// SQLite and Postgres share: TEXT ids and timestamps, ids assigned by the
// application, no server-side defaults beyond literals.
func (s *Server) migrate() error {
	migrations := []string{
		migrationUsers,
		migrationSessions,
		migrationLoginTokens,
		migrationPeriods,
		migrationShifts,
		migrationLeaves,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return err
		}
	}

	return nil
}

const migrationUsers = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT UNIQUE NOT NULL,
    password_hash TEXT NOT NULL,
    employee_id BIGINT NOT NULL,
    created_at TEXT NOT NULL
);
`

const migrationSessions = `
CREATE TABLE IF NOT EXISTS sessions (
    token TEXT PRIMARY KEY,
    user_id TEXT NOT NULL REFERENCES users(id),
    expires_at TEXT NOT NULL,
    created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);
`

const migrationLoginTokens = `
CREATE TABLE IF NOT EXISTS login_tokens (
    token TEXT PRIMARY KEY,
    used BOOLEAN NOT NULL,
    created_at TEXT NOT NULL
);
`

const migrationPeriods = `
CREATE TABLE IF NOT EXISTS periods (
    id BIGINT PRIMARY KEY,
    user_id TEXT NOT NULL REFERENCES users(id),
    employee_id BIGINT NOT NULL,
    year INTEGER NOT NULL,
    month INTEGER NOT NULL,
    start_on TEXT NOT NULL,
    end_on TEXT NOT NULL,
    UNIQUE(user_id, year, month)
);
`

const migrationShifts = `
CREATE TABLE IF NOT EXISTS shifts (
    id BIGINT PRIMARY KEY,
    user_id TEXT NOT NULL REFERENCES users(id),
    period_id BIGINT NOT NULL,
    employee_id BIGINT NOT NULL,
    year INTEGER NOT NULL,
    month INTEGER NOT NULL,
    day INTEGER NOT NULL,
    date TEXT NOT NULL,
    clock_in TEXT NOT NULL,
    clock_out TEXT NOT NULL DEFAULT '',
    observations TEXT NOT NULL DEFAULT '',
    source TEXT NOT NULL DEFAULT 'desktop'
);

CREATE INDEX IF NOT EXISTS idx_shifts_user ON shifts(user_id);
CREATE INDEX IF NOT EXISTS idx_shifts_period ON shifts(period_id);
`

const migrationLeaves = `
CREATE TABLE IF NOT EXISTS leaves (
    id BIGINT PRIMARY KEY,
    employee_id BIGINT NOT NULL,
    start_date TEXT NOT NULL,
    end_date TEXT NOT NULL,
    leave_type TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_leaves_employee ON leaves(employee_id);
`
