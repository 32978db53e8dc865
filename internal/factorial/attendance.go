package factorial

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/deskhours/sucktorial/internal/logger"
	"github.com/deskhours/sucktorial/internal/model"
)

// ShiftQuery filters a shift listing. Zero values mean unset: PeriodID is
// mutually exclusive with Year/Month, and Year/Month only work as a pair.
type ShiftQuery struct {
	PeriodID int64
	Year     int
	Month    int
}

func (q ShiftQuery) validate() error {
	if q.PeriodID != 0 && (q.Year != 0 || q.Month != 0) {
		return fmt.Errorf("%w: specify either period_id or year and month", ErrInvalidArgument)
	}
	if (q.Year != 0) != (q.Month != 0) {
		return fmt.Errorf("%w: specify both year and month", ErrInvalidArgument)
	}
	return nil
}

func (q ShiftQuery) values() url.Values {
	v := url.Values{}
	if q.PeriodID != 0 {
		v.Set("period_id", strconv.FormatInt(q.PeriodID, 10))
	}
	if q.Year != 0 {
		v.Set("year", strconv.Itoa(q.Year))
		v.Set("month", strconv.Itoa(q.Month))
	}
	return v
}

// ShiftUpdate carries the fields a shift PATCH may change. Nil pointers
// leave the server value untouched.
type ShiftUpdate struct {
	ClockIn  *time.Time
	ClockOut *time.Time
	PeriodID *int64
}

func (u ShiftUpdate) values() url.Values {
	v := url.Values{}
	if u.ClockIn != nil {
		v.Set("clock_in", u.ClockIn.Format(time.RFC3339))
	}
	if u.ClockOut != nil {
		v.Set("clock_out", u.ClockOut.Format(time.RFC3339))
	}
	if u.PeriodID != nil {
		v.Set("period_id", strconv.FormatInt(*u.PeriodID, 10))
	}
	return v
}

// clockForm is the shared clock-in/clock-out payload: a local timestamp
// with its UTC offset, tagged with the desktop source.
func clockForm(at time.Time) url.Values {
	form := url.Values{}
	form.Set("now", at.Format(time.RFC3339))
	form.Set("source", clockSource)
	return form
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// OpenShift returns the currently open shift, or nil when the user is not
// clocked in. The vendor signals "no open shift" with an empty object.
func (c *Client) OpenShift(ctx context.Context) (*model.Shift, error) {
	body, err := c.get(ctx, c.cfg.OpenShiftURL, nil, opOpenShift, ErrRequestFailed, http.StatusOK)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}
	var shift model.Shift
	if err := json.Unmarshal(body, &shift); err != nil {
		return nil, fmt.Errorf("%s: %w", opOpenShift, err)
	}
	if shift.ID == 0 {
		return nil, nil
	}
	return &shift, nil
}

// IsClockedIn reports whether an open shift exists.
func (c *Client) IsClockedIn(ctx context.Context) (bool, error) {
	shift, err := c.OpenShift(ctx)
	if err != nil {
		return false, err
	}
	return shift != nil, nil
}

// ClockIn opens a shift at the given time; the zero value means now.
// Clocking in while a shift is already open is a warning no-op. With the
// leave guard enabled, clocking in on a day covered by a leave fails with
// ErrOnLeave before any attendance call is made.
func (c *Client) ClockIn(ctx context.Context, at time.Time) error {
	clockedIn, err := c.IsClockedIn(ctx)
	if err != nil {
		return err
	}
	if clockedIn {
		c.log.Warn("Already clocked in")
		return nil
	}

	if at.IsZero() {
		at = time.Now()
	}

	if c.cfg.LeaveGuard && sameDay(at, time.Now()) {
		onLeave, err := c.OnLeaveToday(ctx, c.cfg.EmployeeID)
		if err != nil {
			return err
		}
		if onLeave {
			c.log.Error("Today you're on leave, go back to sleep")
			return ErrOnLeave
		}
	}

	if _, err := c.submitForm(ctx, http.MethodPost, c.cfg.ClockInURL, clockForm(at), opClockIn, ErrRequestFailed, http.StatusOK, http.StatusCreated); err != nil {
		return err
	}
	c.log.Info("Successfully clocked in", logger.F("at", at.Format(time.RFC3339)))
	return nil
}

// ClockOut closes the open shift at the given time; the zero value means
// now. Clocking out without an open shift is a warning no-op.
func (c *Client) ClockOut(ctx context.Context, at time.Time) error {
	clockedIn, err := c.IsClockedIn(ctx)
	if err != nil {
		return err
	}
	if !clockedIn {
		c.log.Warn("Not clocked in")
		return nil
	}

	if at.IsZero() {
		at = time.Now()
	}

	if _, err := c.submitForm(ctx, http.MethodPost, c.cfg.ClockOutURL, clockForm(at), opClockOut, ErrRequestFailed, http.StatusOK, http.StatusCreated); err != nil {
		return err
	}
	c.log.Info("Successfully clocked out", logger.F("at", at.Format(time.RFC3339)))
	return nil
}

// ListShifts returns the shifts matching the query, in server order. An
// empty query means the server's default range.
func (c *Client) ListShifts(ctx context.Context, q ShiftQuery) ([]model.Shift, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}
	var shifts []model.Shift
	if err := c.getJSON(ctx, c.cfg.ShiftsURL, q.values(), &shifts, opShifts, http.StatusOK); err != nil {
		return nil, err
	}
	c.log.Debug("Shifts retrieved", logger.F("count", len(shifts)))
	return shifts, nil
}

// UpdateShift patches an existing shift in place.
func (c *Client) UpdateShift(ctx context.Context, id int64, update ShiftUpdate) error {
	form := update.values()
	if len(form) == 0 {
		return fmt.Errorf("%w: no shift fields to update", ErrInvalidArgument)
	}
	if _, err := c.submitForm(ctx, http.MethodPatch, c.cfg.shiftURL(id), form, opUpdateShift, ErrRequestFailed, http.StatusOK); err != nil {
		return err
	}
	c.log.Info("Successfully updated shift", logger.F("shift_id", id))
	return nil
}

// DeleteShift removes a shift by id.
func (c *Client) DeleteShift(ctx context.Context, id int64) error {
	if _, err := c.del(ctx, c.cfg.shiftURL(id), opDeleteShift, ErrRequestFailed, http.StatusNoContent); err != nil {
		return err
	}
	c.log.Info("Successfully deleted shift", logger.F("shift_id", id))
	return nil
}

// DeleteLastShift removes the shift that sorts last in the default listing
// range. Nothing to delete is a warning no-op.
func (c *Client) DeleteLastShift(ctx context.Context) error {
	shifts, err := c.ListShifts(ctx, ShiftQuery{})
	if err != nil {
		return err
	}
	if len(shifts) == 0 {
		c.log.Warn("No shifts to delete")
		return nil
	}
	return c.DeleteShift(ctx, shifts[len(shifts)-1].ID)
}

// ListPeriods returns attendance periods. Filters pass through verbatim;
// the vendor understands year/month and start_on/end_on pairs.
func (c *Client) ListPeriods(ctx context.Context, filters map[string]string) ([]model.Period, error) {
	v := url.Values{}
	for key, value := range filters {
		v.Set(key, value)
	}
	var periods []model.Period
	if err := c.getJSON(ctx, c.cfg.PeriodsURL, v, &periods, opPeriods, http.StatusOK); err != nil {
		return nil, err
	}
	c.log.Debug("Periods retrieved", logger.F("count", len(periods)))
	return periods, nil
}
