package model

import "time"

// DateOnly is the wire format for calendar dates (periods, leaves, filters)
const DateOnly = "2006-01-02"

// clockLayouts lists the timestamp shapes the vendor has been seen to emit
// for clock_in/clock_out values.
var clockLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"15:04",
}

// Shift represents a single attendance interval. The server owns these;
// the client only reads, creates, updates, and deletes them by id.
type Shift struct {
	ID           int64  `json:"id"`
	PeriodID     int64  `json:"period_id,omitempty"`
	EmployeeID   int64  `json:"employee_id,omitempty"`
	Day          int    `json:"day,omitempty"`
	Month        int    `json:"month,omitempty"`
	Year         int    `json:"year,omitempty"`
	Date         string `json:"date,omitempty"`
	ClockIn      string `json:"clock_in"`
	ClockOut     string `json:"clock_out,omitempty"`
	Observations string `json:"observations,omitempty"`
	Source       string `json:"source,omitempty"`
}

// Period is a server-defined attendance period (one per month in practice)
type Period struct {
	ID         int64  `json:"id"`
	EmployeeID int64  `json:"employee_id,omitempty"`
	Year       int    `json:"year"`
	Month      int    `json:"month"`
	StartOn    string `json:"start_on"`
	EndOn      string `json:"end_on"`
}

// IsOpen returns true if the shift has no clock-out time yet
func (s *Shift) IsOpen() bool {
	return s.ClockOut == ""
}

// ParseClock parses a clock_in/clock_out value in any of the known layouts
func ParseClock(raw string) (time.Time, bool) {
	for _, layout := range clockLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// clockTime parses a raw clock value, anchoring bare wall-clock times to
// the shift's own date.
func (s *Shift) clockTime(raw string) (time.Time, bool) {
	t, ok := ParseClock(raw)
	if !ok {
		return time.Time{}, false
	}
	if t.Year() == 0 && s.Year != 0 {
		t = time.Date(s.Year, time.Month(s.Month), s.Day, t.Hour(), t.Minute(), t.Second(), 0, time.Local)
	}
	return t, true
}

// ClockInTime returns the parsed clock-in timestamp
func (s *Shift) ClockInTime() (time.Time, bool) {
	return s.clockTime(s.ClockIn)
}

// ClockOutTime returns the parsed clock-out timestamp
func (s *Shift) ClockOutTime() (time.Time, bool) {
	if s.IsOpen() {
		return time.Time{}, false
	}
	return s.clockTime(s.ClockOut)
}

// Duration returns the worked span of the shift. Open shifts are measured
// against now; unparseable values yield zero.
func (s *Shift) Duration(now time.Time) time.Duration {
	in, ok := s.ClockInTime()
	if !ok {
		return 0
	}
	if s.IsOpen() {
		return now.Sub(in)
	}
	out, ok := s.ClockOutTime()
	if !ok {
		return 0
	}
	return out.Sub(in)
}
