package factorial

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The envelope always carries all three keys; the vendor rejects requests
// with a missing variables field.
func TestGraphQL_EnvelopeComplete(t *testing.T) {
	var envelope map[string]json.RawMessage
	mux := http.NewServeMux()
	mux.HandleFunc("POST /graphql", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &envelope))
		io.WriteString(w, `{"data":{}}`)
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	c := testClient(t, ts.URL, Credentials{Email: "jane@corp.com", Password: "pw"})

	_, err := c.GraphQL(context.Background(), "GetCurrent", "query GetCurrent { apiCore { currents { employee { id } } } }", nil)
	require.NoError(t, err)

	require.Contains(t, envelope, "operationName")
	require.Contains(t, envelope, "query")
	require.Contains(t, envelope, "variables")
	assert.Equal(t, `"GetCurrent"`, string(envelope["operationName"]))
	assert.Equal(t, `{}`, string(envelope["variables"]))
}

func TestGraphQL_OperationNameInErrorLabel(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /graphql", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	c := testClient(t, ts.URL, Credentials{Email: "jane@corp.com", Password: "pw"})

	_, err := c.GraphQL(context.Background(), "GetCurrent", "query GetCurrent { apiCore { __typename } }", nil)
	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, "Failed to send GraphQL query (GetCurrent)", reqErr.Op)
}

func TestGraphQL_ErrorsRideInsideOK(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /graphql", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"data":null,"errors":[{"message":"unsupported operation"}]}`)
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	c := testClient(t, ts.URL, Credentials{Email: "jane@corp.com", Password: "pw"})

	resp, err := c.GraphQL(context.Background(), "Bogus", "query Bogus { nope }", nil)
	require.NoError(t, err)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "unsupported operation", resp.Errors[0].Message)
}

func currentsServer(t *testing.T, ids ...string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /graphql", func(w http.ResponseWriter, r *http.Request) {
		currents := make([]map[string]any, 0, len(ids))
		for _, id := range ids {
			currents = append(currents, map[string]any{
				"employee": map[string]any{"id": id, "__typename": "Employee"},
			})
		}
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{"apiCore": map[string]any{"currents": currents}},
		})
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func TestCurrentEmployee_NegativeIndexCountsFromEnd(t *testing.T) {
	ts := currentsServer(t, "100", "200", "300")
	c := testClient(t, ts.URL, Credentials{Email: "jane@corp.com", Password: "pw"})

	employee, err := c.CurrentEmployee(context.Background(), -1)
	require.NoError(t, err)
	require.NotNil(t, employee)
	assert.Equal(t, "300", employee.ID)

	employee, err = c.CurrentEmployee(context.Background(), 0)
	require.NoError(t, err)
	require.NotNil(t, employee)
	assert.Equal(t, "100", employee.ID)
}

func TestCurrentEmployee_EmptyCurrentsIsNil(t *testing.T) {
	ts := currentsServer(t)
	c := testClient(t, ts.URL, Credentials{Email: "jane@corp.com", Password: "pw"})

	employee, err := c.CurrentEmployee(context.Background(), -1)
	require.NoError(t, err)
	assert.Nil(t, employee)
}

func TestCurrentEmployee_NullDataIsNil(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /graphql", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"data":null}`)
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	c := testClient(t, ts.URL, Credentials{Email: "jane@corp.com", Password: "pw"})

	employee, err := c.CurrentEmployee(context.Background(), -1)
	require.NoError(t, err)
	assert.Nil(t, employee)
}

func TestCurrentEmployee_IndexOutOfRange(t *testing.T) {
	ts := currentsServer(t, "100")
	c := testClient(t, ts.URL, Credentials{Email: "jane@corp.com", Password: "pw"})

	_, err := c.CurrentEmployee(context.Background(), 3)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = c.CurrentEmployee(context.Background(), -2)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestCurrentEmployee_GraphQLErrorsBecomeRequestFailed(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /graphql", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"data":null,"errors":[{"message":"session missing"}]}`)
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	c := testClient(t, ts.URL, Credentials{Email: "jane@corp.com", Password: "pw"})

	_, err := c.CurrentEmployee(context.Background(), -1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRequestFailed)
	assert.ErrorContains(t, err, "session missing")
}
