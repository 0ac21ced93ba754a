package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snfs-app/snfs/internal/session"
	"github.com/snfs-app/snfs/internal/validate"
	"github.com/snfs-app/snfs/pkg/snfsapi"
)

const testUserID = 7

// testApp returns options for a logged-in user talking to baseURL.
func testApp(baseURL string) *appOptions {
	return &appOptions{
		client:  snfsapi.NewClient(baseURL),
		session: &session.Session{UserID: testUserID, Username: "alice"},
	}
}

// failServer fails the test if any request reaches it.
func failServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)
	return server
}

// writeJSON encodes v as the response body.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// decodeBody decodes a JSON request body into a generic map.
func decodeBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
	return body
}

// execute runs cmd with args and returns what it printed.
func execute(cmd *cobra.Command, args ...string) (string, error) {
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// assertValidationError checks err is a validation error mentioning field.
func assertValidationError(t *testing.T, err error, field string) {
	t.Helper()
	require.Error(t, err)
	var verr *validate.Error
	require.ErrorAs(t, err, &verr)
	assert.NotEmpty(t, verr.Field(field), "expected a message for %q, got %v", field, verr.Fields)
}

func TestAppOptions_RequireUser(t *testing.T) {
	opts := &appOptions{}
	_, err := opts.requireUser()
	assert.ErrorIs(t, err, session.ErrNotLoggedIn)
	assert.Equal(t, 0, opts.optionalUser())

	opts = testApp("http://localhost")
	id, err := opts.requireUser()
	require.NoError(t, err)
	assert.Equal(t, testUserID, id)
	assert.Equal(t, testUserID, opts.optionalUser())
}

func TestAppOptions_Log(t *testing.T) {
	opts := &appOptions{}
	assert.NotNil(t, opts.log())
}

func TestAppOptions_RequestContext(t *testing.T) {
	opts := &appOptions{}
	ctx, cancel := opts.requestContext()
	defer cancel()

	_, ok := ctx.Deadline()
	assert.True(t, ok)
}

func TestMessageOr(t *testing.T) {
	assert.Equal(t, "from server", messageOr("from server", "fallback"))
	assert.Equal(t, "fallback", messageOr("", "fallback"))
}

func TestNotLoggedIn_MakesNoRequest(t *testing.T) {
	server := failServer(t)
	opts := &appOptions{client: snfsapi.NewClient(server.URL)}

	_, err := execute(newPortfolioCmd(opts))
	assert.ErrorIs(t, err, session.ErrNotLoggedIn)
}
