package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock_Layouts(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		ok   bool
	}{
		{"rfc3339", "2026-08-21T09:15:00+02:00", true},
		{"no zone", "2026-08-21T09:15:00", true},
		{"bare wall clock", "09:15", true},
		{"date only", "2026-08-21", false},
		{"garbage", "quarter past nine", false},
		{"empty", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, ok := ParseClock(tc.raw)
			assert.Equal(t, tc.ok, ok)
		})
	}
}

func TestShift_IsOpen(t *testing.T) {
	open := Shift{ClockIn: "2026-08-21T09:00:00+02:00"}
	closed := Shift{ClockIn: "2026-08-21T09:00:00+02:00", ClockOut: "2026-08-21T17:00:00+02:00"}

	assert.True(t, open.IsOpen())
	assert.False(t, closed.IsOpen())
}

// Bare wall-clock values carry no date, so they anchor to the shift's own
// year/month/day.
func TestShift_ClockInTime_AnchorsBareTimes(t *testing.T) {
	s := Shift{Year: 2026, Month: 8, Day: 21, ClockIn: "09:15"}

	in, ok := s.ClockInTime()
	require.True(t, ok)
	assert.Equal(t, 2026, in.Year())
	assert.Equal(t, time.August, in.Month())
	assert.Equal(t, 21, in.Day())
	assert.Equal(t, 9, in.Hour())
	assert.Equal(t, 15, in.Minute())
}

func TestShift_Duration(t *testing.T) {
	now := time.Date(2026, 8, 21, 12, 0, 0, 0, time.Local)

	closed := Shift{
		ClockIn:  "2026-08-21T09:00:00",
		ClockOut: "2026-08-21T17:30:00",
	}
	assert.Equal(t, 8*time.Hour+30*time.Minute, closed.Duration(now))

	open := Shift{ClockIn: "2026-08-21T09:00:00"}
	assert.Equal(t, 3*time.Hour, open.Duration(now))

	broken := Shift{ClockIn: "not a time"}
	assert.Equal(t, time.Duration(0), broken.Duration(now))
}

func TestShift_ClockOutTime_OpenShift(t *testing.T) {
	open := Shift{ClockIn: "2026-08-21T09:00:00"}
	_, ok := open.ClockOutTime()
	assert.False(t, ok)
}

func TestLeave_Covers(t *testing.T) {
	leave := Leave{StartDate: "2026-08-10", EndDate: "2026-08-14"}

	day := func(s string) time.Time {
		d, err := time.ParseInLocation(DateOnly, s, time.Local)
		require.NoError(t, err)
		return d
	}

	assert.False(t, leave.Covers(day("2026-08-09")))
	assert.True(t, leave.Covers(day("2026-08-10")))
	assert.True(t, leave.Covers(day("2026-08-12")))
	assert.True(t, leave.Covers(day("2026-08-14")))
	assert.False(t, leave.Covers(day("2026-08-15")))
}
