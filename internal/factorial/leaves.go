package factorial

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/deskhours/sucktorial/internal/logger"
	"github.com/deskhours/sucktorial/internal/model"
)

// ListLeaves returns the account's leave records. employeeID 0 resolves to
// the identity attached to the current session; zero from/to times skip
// the corresponding date filter.
func (c *Client) ListLeaves(ctx context.Context, employeeID int64, from, to time.Time) ([]model.Leave, error) {
	if employeeID == 0 {
		id, err := c.resolveEmployeeID(ctx)
		if err != nil {
			return nil, err
		}
		employeeID = id
	}

	v := url.Values{}
	v.Set("employee_id", strconv.FormatInt(employeeID, 10))
	if !from.IsZero() {
		v.Set("from", from.Format(model.DateOnly))
	}
	if !to.IsZero() {
		v.Set("to", to.Format(model.DateOnly))
	}

	var leaves []model.Leave
	if err := c.getJSON(ctx, c.cfg.LeavesURL, v, &leaves, opLeaves, http.StatusOK); err != nil {
		return nil, err
	}
	c.log.Debug("Leaves retrieved", logger.F("count", len(leaves)))
	return leaves, nil
}

// OnLeaveToday reports whether at least one leave record covers today.
func (c *Client) OnLeaveToday(ctx context.Context, employeeID int64) (bool, error) {
	today := time.Now()
	leaves, err := c.ListLeaves(ctx, employeeID, today, today)
	if err != nil {
		return false, err
	}
	return len(leaves) > 0, nil
}
