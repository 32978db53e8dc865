package server

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/deskhours/sucktorial/internal/model"
)

// handleListLeaves lists leave records for an employee. The from/to date
// filters match any leave overlapping the range.
func (s *Server) handleListLeaves(c echo.Context) error {
	rawEmployee := c.QueryParam("employee_id")
	if rawEmployee == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "employee_id required"})
	}
	employeeID, err := strconv.ParseInt(rawEmployee, 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid employee_id"})
	}

	query := `SELECT id, employee_id, start_date, end_date, leave_type, description FROM leaves WHERE employee_id = $1`
	args := []any{employeeID}

	if from := c.QueryParam("from"); from != "" {
		args = append(args, from)
		query += ` AND end_date >= $` + strconv.Itoa(len(args))
	}
	if to := c.QueryParam("to"); to != "" {
		args = append(args, to)
		query += ` AND start_date <= $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY start_date ASC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		c.Logger().Error("db error:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
	defer rows.Close()

	leaves := []model.Leave{}
	for rows.Next() {
		var l model.Leave
		if err := rows.Scan(&l.ID, &l.EmployeeID, &l.StartDate, &l.EndDate, &l.LeaveType, &l.Description); err != nil {
			c.Logger().Error("scan error:", err)
			continue
		}
		leaves = append(leaves, l)
	}

	return c.JSON(http.StatusOK, leaves)
}

// handleCreateLeave registers a leave record. The real vendor manages
// leaves elsewhere; the stand-in needs a way to get test data in.
func (s *Server) handleCreateLeave(c echo.Context) error {
	var leave model.Leave
	if err := c.Bind(&leave); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}
	if leave.EmployeeID == 0 || leave.StartDate == "" || leave.EndDate == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "employee_id, start_date, and end_date required"})
	}

	leave.ID = s.newID()
	_, err := s.db.Exec(`
		INSERT INTO leaves (id, employee_id, start_date, end_date, leave_type, description)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		leave.ID, leave.EmployeeID, leave.StartDate, leave.EndDate, leave.LeaveType, leave.Description,
	)
	if err != nil {
		c.Logger().Error("db error:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	return c.JSON(http.StatusCreated, leave)
}
