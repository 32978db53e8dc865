package factorial

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskhours/sucktorial/internal/model"
)

func TestShiftQuery_Validate(t *testing.T) {
	cases := []struct {
		name    string
		query   ShiftQuery
		wantErr string
	}{
		{"empty", ShiftQuery{}, ""},
		{"period only", ShiftQuery{PeriodID: 7}, ""},
		{"year and month", ShiftQuery{Year: 2026, Month: 8}, ""},
		{"period with year", ShiftQuery{PeriodID: 7, Year: 2026}, "specify either period_id or year and month"},
		{"period with month", ShiftQuery{PeriodID: 7, Month: 8}, "specify either period_id or year and month"},
		{"year without month", ShiftQuery{Year: 2026}, "specify both year and month"},
		{"month without year", ShiftQuery{Month: 8}, "specify both year and month"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.query.validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidArgument)
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestListShifts_InvalidQueryNeverHitsNetwork(t *testing.T) {
	calls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) { calls++ })
	ts := httptest.NewServer(mux)
	defer ts.Close()

	c := testClient(t, ts.URL, Credentials{Email: "jane@corp.com", Password: "pw"})

	_, err := c.ListShifts(context.Background(), ShiftQuery{PeriodID: 7, Year: 2026, Month: 8})
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Zero(t, calls)
}

func TestOpenShift_EmptyObjectMeansNone(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /attendance/shifts/open_shift", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{}`)
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	c := testClient(t, ts.URL, Credentials{Email: "jane@corp.com", Password: "pw"})

	shift, err := c.OpenShift(context.Background())
	require.NoError(t, err)
	assert.Nil(t, shift)
}

func TestOpenShift_ReturnsShift(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /attendance/shifts/open_shift", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"id":9371,"clock_in":"2026-08-21T09:00:00+02:00","period_id":12}`)
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	c := testClient(t, ts.URL, Credentials{Email: "jane@corp.com", Password: "pw"})

	shift, err := c.OpenShift(context.Background())
	require.NoError(t, err)
	require.NotNil(t, shift)
	assert.Equal(t, int64(9371), shift.ID)
	assert.True(t, shift.IsOpen())
}

// Clocking in while a shift is open must not POST anything.
func TestClockIn_NoopWhenAlreadyClockedIn(t *testing.T) {
	posts := 0
	mux := http.NewServeMux()
	mux.HandleFunc("GET /attendance/shifts/open_shift", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"id":1,"clock_in":"2026-08-21T09:00:00+02:00"}`)
	})
	mux.HandleFunc("POST /attendance/shifts/clock_in", func(w http.ResponseWriter, r *http.Request) {
		posts++
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	c := testClient(t, ts.URL, Credentials{Email: "jane@corp.com", Password: "pw"})

	require.NoError(t, c.ClockIn(context.Background(), time.Time{}))
	assert.Zero(t, posts)
}

func TestClockIn_PostsLocalTimeAndSource(t *testing.T) {
	var gotNow, gotSource string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /attendance/shifts/open_shift", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{}`)
	})
	mux.HandleFunc("POST /attendance/shifts/clock_in", func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		gotNow = r.PostForm.Get("now")
		gotSource = r.PostForm.Get("source")
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"id":2}`)
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	c := testClient(t, ts.URL, Credentials{Email: "jane@corp.com", Password: "pw"})

	at := time.Date(2026, 8, 21, 9, 15, 0, 0, time.Local)
	require.NoError(t, c.ClockIn(context.Background(), at))
	assert.Equal(t, at.Format(time.RFC3339), gotNow)
	assert.Equal(t, "desktop", gotSource)
}

func TestClockIn_RejectedSurfacesRequestError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /attendance/shifts/open_shift", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{}`)
	})
	mux.HandleFunc("POST /attendance/shifts/clock_in", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	c := testClient(t, ts.URL, Credentials{Email: "jane@corp.com", Password: "pw"})

	err := c.ClockIn(context.Background(), time.Time{})
	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, "Failed to clock in", reqErr.Op)
	assert.Equal(t, http.StatusUnprocessableEntity, reqErr.Status)
}

func TestClockOut_NoopWhenNotClockedIn(t *testing.T) {
	posts := 0
	mux := http.NewServeMux()
	mux.HandleFunc("GET /attendance/shifts/open_shift", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{}`)
	})
	mux.HandleFunc("POST /attendance/shifts/clock_out", func(w http.ResponseWriter, r *http.Request) {
		posts++
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	c := testClient(t, ts.URL, Credentials{Email: "jane@corp.com", Password: "pw"})

	require.NoError(t, c.ClockOut(context.Background(), time.Time{}))
	assert.Zero(t, posts)
}

// With the guard enabled, a same-day clock-in on a leave day fails with
// ErrOnLeave before the attendance endpoint sees anything.
func TestClockIn_LeaveGuardRefuses(t *testing.T) {
	posts := 0
	today := time.Now().Format(model.DateOnly)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /attendance/shifts/open_shift", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{}`)
	})
	mux.HandleFunc("GET /leaves", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "42", r.URL.Query().Get("employee_id"))
		fmt.Fprintf(w, `[{"id":1,"employee_id":42,"start_date":%q,"end_date":%q}]`, today, today)
	})
	mux.HandleFunc("POST /attendance/shifts/clock_in", func(w http.ResponseWriter, r *http.Request) {
		posts++
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	cfg := NewConfig(ts.URL, "en")
	cfg.SessionsDir = t.TempDir()
	cfg.LeaveGuard = true
	cfg.EmployeeID = 42
	c := newQuietClient(t, cfg, Credentials{Email: "jane@corp.com", Password: "pw"})

	err := c.ClockIn(context.Background(), time.Time{})
	assert.ErrorIs(t, err, ErrOnLeave)
	assert.Zero(t, posts)
}

// The guard only watches today: backfilling a past day skips the leave
// lookup entirely.
func TestClockIn_LeaveGuardSkipsOtherDays(t *testing.T) {
	leaveCalls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("GET /attendance/shifts/open_shift", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{}`)
	})
	mux.HandleFunc("GET /leaves", func(w http.ResponseWriter, r *http.Request) {
		leaveCalls++
		io.WriteString(w, `[]`)
	})
	mux.HandleFunc("POST /attendance/shifts/clock_in", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"id":3}`)
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	cfg := NewConfig(ts.URL, "en")
	cfg.SessionsDir = t.TempDir()
	cfg.LeaveGuard = true
	cfg.EmployeeID = 42
	c := newQuietClient(t, cfg, Credentials{Email: "jane@corp.com", Password: "pw"})

	yesterday := time.Now().AddDate(0, 0, -1)
	require.NoError(t, c.ClockIn(context.Background(), yesterday))
	assert.Zero(t, leaveCalls)
}

func TestListShifts_FiltersOnWire(t *testing.T) {
	var gotQuery map[string][]string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /attendance/shifts", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		io.WriteString(w, `[{"id":1,"clock_in":"2026-08-01T09:00:00","clock_out":"2026-08-01T17:00:00"}]`)
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	c := testClient(t, ts.URL, Credentials{Email: "jane@corp.com", Password: "pw"})

	shifts, err := c.ListShifts(context.Background(), ShiftQuery{Year: 2026, Month: 8})
	require.NoError(t, err)
	require.Len(t, shifts, 1)
	assert.Equal(t, []string{"2026"}, gotQuery["year"])
	assert.Equal(t, []string{"8"}, gotQuery["month"])
	assert.NotContains(t, gotQuery, "period_id")
}

func TestUpdateShift_EmptyUpdateRejected(t *testing.T) {
	calls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) { calls++ })
	ts := httptest.NewServer(mux)
	defer ts.Close()

	c := testClient(t, ts.URL, Credentials{Email: "jane@corp.com", Password: "pw"})

	err := c.UpdateShift(context.Background(), 9371, ShiftUpdate{})
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Zero(t, calls)
}

func TestUpdateShift_PatchesFields(t *testing.T) {
	var gotMethod, gotPath, gotClockOut string
	mux := http.NewServeMux()
	mux.HandleFunc("/attendance/shifts/9371", func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		r.ParseForm()
		gotClockOut = r.PostForm.Get("clock_out")
		io.WriteString(w, `{"id":9371}`)
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	c := testClient(t, ts.URL, Credentials{Email: "jane@corp.com", Password: "pw"})

	out := time.Date(2026, 8, 21, 17, 30, 0, 0, time.Local)
	require.NoError(t, c.UpdateShift(context.Background(), 9371, ShiftUpdate{ClockOut: &out}))
	assert.Equal(t, http.MethodPatch, gotMethod)
	assert.Equal(t, "/attendance/shifts/9371", gotPath)
	assert.Equal(t, out.Format(time.RFC3339), gotClockOut)
}

func TestDeleteLastShift_DeletesNewest(t *testing.T) {
	var deletedPath string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /attendance/shifts", func(w http.ResponseWriter, r *http.Request) {
		shifts := []model.Shift{
			{ID: 1, ClockIn: "2026-08-19T09:00:00", ClockOut: "2026-08-19T17:00:00"},
			{ID: 2, ClockIn: "2026-08-20T09:00:00", ClockOut: "2026-08-20T17:00:00"},
			{ID: 3, ClockIn: "2026-08-21T09:00:00", ClockOut: "2026-08-21T17:00:00"},
		}
		json.NewEncoder(w).Encode(shifts)
	})
	mux.HandleFunc("DELETE /attendance/shifts/{id}", func(w http.ResponseWriter, r *http.Request) {
		deletedPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	c := testClient(t, ts.URL, Credentials{Email: "jane@corp.com", Password: "pw"})

	require.NoError(t, c.DeleteLastShift(context.Background()))
	assert.Equal(t, "/attendance/shifts/3", deletedPath)
}

func TestDeleteLastShift_NoopOnEmpty(t *testing.T) {
	deletes := 0
	mux := http.NewServeMux()
	mux.HandleFunc("GET /attendance/shifts", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[]`)
	})
	mux.HandleFunc("DELETE /attendance/shifts/{id}", func(w http.ResponseWriter, r *http.Request) {
		deletes++
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	c := testClient(t, ts.URL, Credentials{Email: "jane@corp.com", Password: "pw"})

	require.NoError(t, c.DeleteLastShift(context.Background()))
	assert.Zero(t, deletes)
}

func TestListPeriods_PassesFilters(t *testing.T) {
	var gotQuery map[string][]string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /attendance/periods", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		io.WriteString(w, `[{"id":12,"year":2026,"month":8,"start_on":"2026-08-01","end_on":"2026-08-31"}]`)
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	c := testClient(t, ts.URL, Credentials{Email: "jane@corp.com", Password: "pw"})

	periods, err := c.ListPeriods(context.Background(), map[string]string{"year": "2026", "month": "8"})
	require.NoError(t, err)
	require.Len(t, periods, 1)
	assert.Equal(t, int64(12), periods[0].ID)
	assert.Equal(t, []string{"2026"}, gotQuery["year"])
	assert.Equal(t, []string{"8"}, gotQuery["month"])
}
