package model

import "time"

// Leave is an absence record (vacation, sick leave, ...). Read-only from
// this client's point of view.
type Leave struct {
	ID          int64  `json:"id"`
	EmployeeID  int64  `json:"employee_id"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	LeaveType   string `json:"leave_type,omitempty"`
	Description string `json:"description,omitempty"`
}

// Covers returns true if the given day falls inside the leave's date range,
// both ends inclusive. Unparseable dates never match.
func (l *Leave) Covers(day time.Time) bool {
	start, err := time.ParseInLocation(DateOnly, l.StartDate, day.Location())
	if err != nil {
		return false
	}
	end, err := time.ParseInLocation(DateOnly, l.EndDate, day.Location())
	if err != nil {
		return false
	}
	d := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return !d.Before(start) && !d.After(end)
}
