package factorial

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/deskhours/sucktorial/internal/model"
)

// graphQLRequest is the wire envelope for a GraphQL call.
type graphQLRequest struct {
	OperationName string         `json:"operationName"`
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables"`
}

// GraphQLError is one entry of a response's errors list.
type GraphQLError struct {
	Message string `json:"message"`
}

// GraphQLResponse is the full decoded envelope. GraphQL-level errors ride
// inside a 200 response; interpreting them is the caller's business.
type GraphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []GraphQLError  `json:"errors,omitempty"`
}

// getCurrentQuery lists the employee identities attached to the caller's
// active sessions.
const getCurrentQuery = `query GetCurrent {
  apiCore {
    currents {
      employee {
        id
        __typename
      }
    }
    __typename
  }
}`

// GraphQL posts one query or mutation and returns the decoded envelope.
func (c *Client) GraphQL(ctx context.Context, operationName, query string, variables map[string]any) (*GraphQLResponse, error) {
	if variables == nil {
		variables = map[string]any{}
	}
	op := fmt.Sprintf("%s (%s)", opGraphQL, operationName)

	payload := graphQLRequest{
		OperationName: operationName,
		Query:         query,
		Variables:     variables,
	}
	body, err := c.postJSON(ctx, c.cfg.GraphQLURL, payload, op, ErrRequestFailed, http.StatusOK)
	if err != nil {
		return nil, err
	}

	var resp GraphQLResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	c.log.Debug("Successfully sent GraphQL query")
	return &resp, nil
}

// CurrentEmployee returns the employee identity at idx in the current
// session list. Negative indexes count from the end, so -1 picks the most
// recent session. An empty list yields (nil, nil), not an error.
func (c *Client) CurrentEmployee(ctx context.Context, idx int) (*model.Employee, error) {
	resp, err := c.GraphQL(ctx, "GetCurrent", getCurrentQuery, nil)
	if err != nil {
		return nil, err
	}
	if len(resp.Errors) > 0 {
		return nil, fmt.Errorf("%w: GetCurrent: %s", ErrRequestFailed, resp.Errors[0].Message)
	}
	if len(resp.Data) == 0 || string(resp.Data) == "null" {
		return nil, nil
	}

	var payload struct {
		APICore struct {
			Currents []struct {
				Employee *model.Employee `json:"employee"`
			} `json:"currents"`
		} `json:"apiCore"`
	}
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		return nil, fmt.Errorf("%s (GetCurrent): %w", opGraphQL, err)
	}

	currents := payload.APICore.Currents
	if len(currents) == 0 {
		return nil, nil
	}
	if idx < 0 {
		idx += len(currents)
	}
	if idx < 0 || idx >= len(currents) {
		return nil, fmt.Errorf("%w: current index out of range", ErrInvalidArgument)
	}
	return currents[idx].Employee, nil
}

// resolveEmployeeID returns the configured employee id, falling back to the
// identity of the current session when none is configured.
func (c *Client) resolveEmployeeID(ctx context.Context) (int64, error) {
	if c.cfg.EmployeeID != 0 {
		return c.cfg.EmployeeID, nil
	}
	employee, err := c.CurrentEmployee(ctx, -1)
	if err != nil {
		return 0, err
	}
	if employee == nil {
		return 0, fmt.Errorf("%w: no current employee for this session", ErrRequestFailed)
	}
	id, err := strconv.ParseInt(employee.ID, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: employee id %q is not numeric", ErrInvalidArgument, employee.ID)
	}
	return id, nil
}
