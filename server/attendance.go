package server

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/deskhours/sucktorial/internal/model"
)

const shiftColumns = "id, period_id, employee_id, year, month, day, date, clock_in, clock_out, observations, source"

func scanShift(row interface{ Scan(...any) error }) (model.Shift, error) {
	var sh model.Shift
	err := row.Scan(&sh.ID, &sh.PeriodID, &sh.EmployeeID, &sh.Year, &sh.Month, &sh.Day,
		&sh.Date, &sh.ClockIn, &sh.ClockOut, &sh.Observations, &sh.Source)
	return sh, err
}

// openShift fetches the user's open shift, nil when there is none.
func (s *Server) openShift(userID string) (*model.Shift, error) {
	row := s.db.QueryRow(`
		SELECT `+shiftColumns+` FROM shifts
		WHERE user_id = $1 AND clock_out = ''`,
		userID,
	)
	sh, err := scanShift(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sh, nil
}

// ensurePeriod finds or creates the attendance period covering a month.
func (s *Server) ensurePeriod(userID string, employeeID int64, year, month int) (*model.Period, error) {
	var p model.Period
	err := s.db.QueryRow(`
		SELECT id, employee_id, year, month, start_on, end_on FROM periods
		WHERE user_id = $1 AND year = $2 AND month = $3`,
		userID, year, month,
	).Scan(&p.ID, &p.EmployeeID, &p.Year, &p.Month, &p.StartOn, &p.EndOn)
	if err == nil {
		return &p, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
	end := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.Local)
	p = model.Period{
		ID:         s.newID(),
		EmployeeID: employeeID,
		Year:       year,
		Month:      month,
		StartOn:    start.Format(model.DateOnly),
		EndOn:      end.Format(model.DateOnly),
	}

	_, err = s.db.Exec(`
		INSERT INTO periods (id, user_id, employee_id, year, month, start_on, end_on)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, userID, p.EmployeeID, p.Year, p.Month, p.StartOn, p.EndOn,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// handleOpenShift returns the open shift, or an empty object when the user
// is not clocked in. The empty object is the contract the CLI probes.
func (s *Server) handleOpenShift(c echo.Context) error {
	userID := c.Get("user_id").(string)

	shift, err := s.openShift(userID)
	if err != nil {
		c.Logger().Error("db error:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
	if shift == nil {
		return c.JSON(http.StatusOK, map[string]any{})
	}
	return c.JSON(http.StatusOK, shift)
}

// handleClockIn opens a new shift at the posted time.
func (s *Server) handleClockIn(c echo.Context) error {
	userID := c.Get("user_id").(string)
	employeeID := c.Get("employee_id").(int64)

	at, ok := model.ParseClock(c.FormValue("now"))
	if !ok {
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": "invalid or missing now"})
	}

	open, err := s.openShift(userID)
	if err != nil {
		c.Logger().Error("db error:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
	if open != nil {
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": "already clocked in"})
	}

	period, err := s.ensurePeriod(userID, employeeID, at.Year(), int(at.Month()))
	if err != nil {
		c.Logger().Error("db error:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	source := c.FormValue("source")
	if source == "" {
		source = "desktop"
	}

	shift := model.Shift{
		ID:         s.newID(),
		PeriodID:   period.ID,
		EmployeeID: employeeID,
		Year:       at.Year(),
		Month:      int(at.Month()),
		Day:        at.Day(),
		Date:       at.Format(model.DateOnly),
		ClockIn:    at.Format(time.RFC3339),
		Source:     source,
	}

	_, err = s.db.Exec(`
		INSERT INTO shifts (id, user_id, period_id, employee_id, year, month, day, date, clock_in, clock_out, observations, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, '', '', $10)`,
		shift.ID, userID, shift.PeriodID, shift.EmployeeID, shift.Year, shift.Month,
		shift.Day, shift.Date, shift.ClockIn, shift.Source,
	)
	if err != nil {
		c.Logger().Error("db error:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	return c.JSON(http.StatusCreated, shift)
}

// handleClockOut closes the open shift at the posted time.
func (s *Server) handleClockOut(c echo.Context) error {
	userID := c.Get("user_id").(string)

	at, ok := model.ParseClock(c.FormValue("now"))
	if !ok {
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": "invalid or missing now"})
	}

	open, err := s.openShift(userID)
	if err != nil {
		c.Logger().Error("db error:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
	if open == nil {
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": "not clocked in"})
	}

	open.ClockOut = at.Format(time.RFC3339)
	_, err = s.db.Exec(`UPDATE shifts SET clock_out = $1 WHERE id = $2`, open.ClockOut, open.ID)
	if err != nil {
		c.Logger().Error("db error:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	return c.JSON(http.StatusOK, open)
}

// handleListShifts lists the user's shifts, filtered by period_id or by a
// year/month pair, ordered by clock-in time.
func (s *Server) handleListShifts(c echo.Context) error {
	userID := c.Get("user_id").(string)

	query := `SELECT ` + shiftColumns + ` FROM shifts WHERE user_id = $1`
	args := []any{userID}

	if v := c.QueryParam("period_id"); v != "" {
		periodID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid period_id"})
		}
		query += ` AND period_id = $2`
		args = append(args, periodID)
	} else if c.QueryParam("year") != "" || c.QueryParam("month") != "" {
		year, err := strconv.Atoi(c.QueryParam("year"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid year"})
		}
		month, err := strconv.Atoi(c.QueryParam("month"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid month"})
		}
		query += ` AND year = $2 AND month = $3`
		args = append(args, year, month)
	}
	query += ` ORDER BY clock_in ASC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		c.Logger().Error("db error:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
	defer rows.Close()

	shifts := []model.Shift{}
	for rows.Next() {
		sh, err := scanShift(rows)
		if err != nil {
			c.Logger().Error("scan error:", err)
			continue
		}
		shifts = append(shifts, sh)
	}

	return c.JSON(http.StatusOK, shifts)
}

// handleUpdateShift patches clock_in, clock_out, or period_id on one shift.
func (s *Server) handleUpdateShift(c echo.Context) error {
	userID := c.Get("user_id").(string)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid shift id"})
	}

	row := s.db.QueryRow(`
		SELECT `+shiftColumns+` FROM shifts WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	shift, err := scanShift(row)
	if errors.Is(err, sql.ErrNoRows) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "shift not found"})
	}
	if err != nil {
		c.Logger().Error("db error:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	if v := c.FormValue("clock_in"); v != "" {
		at, ok := model.ParseClock(v)
		if !ok {
			return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": "invalid clock_in"})
		}
		shift.ClockIn = at.Format(time.RFC3339)
		shift.Year, shift.Month, shift.Day = at.Year(), int(at.Month()), at.Day()
		shift.Date = at.Format(model.DateOnly)
	}
	if v := c.FormValue("clock_out"); v != "" {
		at, ok := model.ParseClock(v)
		if !ok {
			return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": "invalid clock_out"})
		}
		shift.ClockOut = at.Format(time.RFC3339)
	}
	if v := c.FormValue("period_id"); v != "" {
		periodID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": "invalid period_id"})
		}
		shift.PeriodID = periodID
	}

	_, err = s.db.Exec(`
		UPDATE shifts
		SET period_id = $1, year = $2, month = $3, day = $4, date = $5, clock_in = $6, clock_out = $7
		WHERE id = $8`,
		shift.PeriodID, shift.Year, shift.Month, shift.Day, shift.Date,
		shift.ClockIn, shift.ClockOut, shift.ID,
	)
	if err != nil {
		c.Logger().Error("db error:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	return c.JSON(http.StatusOK, shift)
}

// handleDeleteShift removes one shift.
func (s *Server) handleDeleteShift(c echo.Context) error {
	userID := c.Get("user_id").(string)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid shift id"})
	}

	res, err := s.db.Exec(`DELETE FROM shifts WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		c.Logger().Error("db error:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "shift not found"})
	}

	return c.NoContent(http.StatusNoContent)
}

// handleListPeriods lists the user's attendance periods. Understood
// filters: year, month, start_on, end_on.
func (s *Server) handleListPeriods(c echo.Context) error {
	userID := c.Get("user_id").(string)

	query := `SELECT id, employee_id, year, month, start_on, end_on FROM periods WHERE user_id = $1`
	args := []any{userID}

	addFilter := func(column, raw string) {
		if raw == "" {
			return
		}
		args = append(args, raw)
		query += ` AND ` + column + ` = $` + strconv.Itoa(len(args))
	}
	addFilter("year", c.QueryParam("year"))
	addFilter("month", c.QueryParam("month"))
	addFilter("start_on", c.QueryParam("start_on"))
	addFilter("end_on", c.QueryParam("end_on"))

	query += ` ORDER BY year ASC, month ASC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		c.Logger().Error("db error:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
	defer rows.Close()

	periods := []model.Period{}
	for rows.Next() {
		var p model.Period
		if err := rows.Scan(&p.ID, &p.EmployeeID, &p.Year, &p.Month, &p.StartOn, &p.EndOn); err != nil {
			c.Logger().Error("scan error:", err)
			continue
		}
		periods = append(periods, p)
	}

	return c.JSON(http.StatusOK, periods)
}
