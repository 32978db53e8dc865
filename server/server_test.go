package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskhours/sucktorial/internal/factorial"
	"github.com/deskhours/sucktorial/internal/logger"
)

const (
	seedEmail    = "jane@corp.com"
	seedPassword = "secret"
	seedEmployee = int64(1044)
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	srv, err := New(Config{
		DSN:            filepath.Join(t.TempDir(), "server.db"),
		SeedEmail:      seedEmail,
		SeedPassword:   seedPassword,
		SeedEmployeeID: seedEmployee,
	})
	require.NoError(t, err)
	t.Cleanup(func() { srv.Close() })
	return srv
}

// newAPIClient builds a real API client pointed at the stand-in server.
func newAPIClient(t *testing.T, baseURL, email, password string) *factorial.Client {
	t.Helper()
	cfg := factorial.NewConfig(baseURL, "en")
	cfg.SessionsDir = filepath.Join(t.TempDir(), "sessions")
	log, err := logger.New(logger.Config{Level: logger.ERROR})
	require.NoError(t, err)
	return factorial.New(cfg, factorial.Credentials{Email: email, Password: password}, log)
}

// One full working day, driven end to end through the real client: login,
// clock in, inspect the open shift, clock out, adjust the shift, list
// periods and leaves, clean up, log out.
func TestClientAgainstServer_FullDay(t *testing.T) {
	srv := newTestServer(t)
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	c := newAPIClient(t, ts.URL, seedEmail, seedPassword)
	ctx := context.Background()

	authed, err := c.IsAuthenticated(ctx)
	require.NoError(t, err)
	assert.False(t, authed)

	require.NoError(t, c.Login(ctx))

	authed, err = c.IsAuthenticated(ctx)
	require.NoError(t, err)
	assert.True(t, authed)

	employee, err := c.CurrentEmployee(ctx, -1)
	require.NoError(t, err)
	require.NotNil(t, employee)
	assert.Equal(t, "1044", employee.ID)

	// Clock a full shift on the 15th of the current month.
	now := time.Now()
	in := time.Date(now.Year(), now.Month(), 15, 9, 0, 0, 0, time.Local)
	out := in.Add(8 * time.Hour)

	require.NoError(t, c.ClockIn(ctx, in))

	open, err := c.OpenShift(ctx)
	require.NoError(t, err)
	require.NotNil(t, open)
	assert.True(t, open.IsOpen())
	assert.Equal(t, in.Format(time.RFC3339), open.ClockIn)
	assert.Equal(t, seedEmployee, open.EmployeeID)

	// A second clock-in is a no-op, not a 422.
	require.NoError(t, c.ClockIn(ctx, in.Add(time.Minute)))

	clockedIn, err := c.IsClockedIn(ctx)
	require.NoError(t, err)
	assert.True(t, clockedIn)

	require.NoError(t, c.ClockOut(ctx, out))

	open, err = c.OpenShift(ctx)
	require.NoError(t, err)
	assert.Nil(t, open)

	shifts, err := c.ListShifts(ctx, factorial.ShiftQuery{Year: in.Year(), Month: int(in.Month())})
	require.NoError(t, err)
	require.Len(t, shifts, 1)
	assert.Equal(t, out.Format(time.RFC3339), shifts[0].ClockOut)
	assert.Equal(t, 8*time.Hour, shifts[0].Duration(time.Now()))

	// Stretch the evening by an hour.
	newOut := out.Add(time.Hour)
	require.NoError(t, c.UpdateShift(ctx, shifts[0].ID, factorial.ShiftUpdate{ClockOut: &newOut}))

	shifts, err = c.ListShifts(ctx, factorial.ShiftQuery{PeriodID: shifts[0].PeriodID})
	require.NoError(t, err)
	require.Len(t, shifts, 1)
	assert.Equal(t, newOut.Format(time.RFC3339), shifts[0].ClockOut)

	periods, err := c.ListPeriods(ctx, nil)
	require.NoError(t, err)
	require.Len(t, periods, 1)
	assert.Equal(t, in.Year(), periods[0].Year)
	assert.Equal(t, int(in.Month()), periods[0].Month)
	assert.Equal(t, shifts[0].PeriodID, periods[0].ID)

	// Give the seed account a leave and list it through the client; the
	// employee id resolves through GraphQL.
	_, err = srv.db.Exec(`
		INSERT INTO leaves (id, employee_id, start_date, end_date, leave_type, description)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		srv.newID(), seedEmployee, "2026-08-10", "2026-08-14", "vacation", "summer break",
	)
	require.NoError(t, err)

	leaves, err := c.ListLeaves(ctx, 0, time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, leaves, 1)
	assert.Equal(t, "vacation", leaves[0].LeaveType)
	assert.Equal(t, seedEmployee, leaves[0].EmployeeID)

	require.NoError(t, c.DeleteLastShift(ctx))

	shifts, err = c.ListShifts(ctx, factorial.ShiftQuery{})
	require.NoError(t, err)
	assert.Empty(t, shifts)

	require.NoError(t, c.Logout(ctx))

	authed, err = c.IsAuthenticated(ctx)
	require.NoError(t, err)
	assert.False(t, authed)
}

func TestServer_WrongPasswordRejected(t *testing.T) {
	srv := newTestServer(t)
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	c := newAPIClient(t, ts.URL, seedEmail, "wrong")

	err := c.Login(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, factorial.ErrLogin)

	var reqErr *factorial.RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusUnauthorized, reqErr.Status)
}

func TestServer_UnknownAccountRejected(t *testing.T) {
	srv := newTestServer(t)
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	c := newAPIClient(t, ts.URL, "nobody@corp.com", "whatever")

	err := c.Login(context.Background())
	assert.ErrorIs(t, err, factorial.ErrLogin)
}

func TestServer_AttendanceRequiresSession(t *testing.T) {
	srv := newTestServer(t)
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	c := newAPIClient(t, ts.URL, seedEmail, seedPassword)

	_, err := c.ListShifts(context.Background(), factorial.ShiftQuery{})
	var reqErr *factorial.RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusUnauthorized, reqErr.Status)
}

func TestServer_LoginTokenSingleUse(t *testing.T) {
	srv := newTestServer(t)

	token, err := srv.createLoginToken()
	require.NoError(t, err)

	ok, err := srv.consumeLoginToken(token)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = srv.consumeLoginToken(token)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = srv.consumeLoginToken("never-issued")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestServer_GraphQLUnknownOperation(t *testing.T) {
	srv := newTestServer(t)
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	c := newAPIClient(t, ts.URL, seedEmail, seedPassword)
	ctx := context.Background()
	require.NoError(t, c.Login(ctx))

	resp, err := c.GraphQL(ctx, "Bogus", "query Bogus { nope }", nil)
	require.NoError(t, err)
	require.Len(t, resp.Errors, 1)
	assert.Contains(t, resp.Errors[0].Message, "unsupported operation")
}

// Restarting on the same database must not reuse ids or re-seed the account.
func TestServer_RestartKeepsIDsMoving(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "server.db")
	cfg := Config{DSN: dsn, SeedEmail: seedEmail, SeedPassword: seedPassword, SeedEmployeeID: seedEmployee}

	srv, err := New(cfg)
	require.NoError(t, err)

	var userID string
	require.NoError(t, srv.db.QueryRow(`SELECT id FROM users WHERE email = $1`, seedEmail).Scan(&userID))

	period, err := srv.ensurePeriod(userID, seedEmployee, 2026, 8)
	require.NoError(t, err)
	require.NoError(t, srv.Close())

	srv2, err := New(cfg)
	require.NoError(t, err)
	defer srv2.Close()

	assert.Greater(t, srv2.newID(), period.ID)

	var users int
	require.NoError(t, srv2.db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&users))
	assert.Equal(t, 1, users)
}
