package cmd

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestsCmd_List(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/requests/view", r.URL.Path)
		assert.Equal(t, "7", r.URL.Query().Get("userId"))
		writeJSON(w, map[string]any{
			"received_requests": []map[string]any{
				{
					"request_id": 5,
					"sender":     map[string]any{"id": 12, "username": "bob"},
					"status":     "pending",
					"timestamp":  "2024-01-05T08:00:00",
				},
				{"request_id": 6, "from_user_id": 13, "status": "pending", "timestamp": "2024-01-06T08:00:00"},
			},
		})
	}))
	defer server.Close()

	out, err := execute(newRequestsCmd(testApp(server.URL)))
	require.NoError(t, err)

	assert.Contains(t, out, "bob")
	assert.Contains(t, out, "12")
	assert.Contains(t, out, "13")
	assert.Contains(t, out, "pending")
	assert.Contains(t, out, "2024-01-05 08:00")
}

func TestRequestsCmd_ListEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"received_requests": []any{}})
	}))
	defer server.Close()

	out, err := execute(newRequestsCmd(testApp(server.URL)))
	require.NoError(t, err)
	assert.Contains(t, out, "No friend requests")
}

func TestRequestsCmd_Send(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/requests/send", r.URL.Path)

		body := decodeBody(t, r)
		assert.Equal(t, float64(7), body["senderId"])
		assert.Equal(t, float64(12), body["receiverId"])

		w.WriteHeader(http.StatusCreated)
		writeJSON(w, map[string]any{
			"message": "Friend request sent",
			"request": map[string]any{"request_id": 9, "status": "pending"},
		})
	}))
	defer server.Close()

	out, err := execute(newRequestsCmd(testApp(server.URL)), "send", "12")
	require.NoError(t, err)
	assert.Contains(t, out, "Friend request sent")
}

func TestRequestsCmd_SendToSelf(t *testing.T) {
	server := failServer(t)

	_, err := execute(newRequestsCmd(testApp(server.URL)), "send", "7")
	assertValidationError(t, err, "user")
}

func TestRequestsCmd_SendRejectedByBackend(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		writeJSON(w, map[string]string{"error": "Please wait 5 minutes before sending another request"})
	}))
	defer server.Close()

	_, err := execute(newRequestsCmd(testApp(server.URL)), "send", "12")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Please wait 5 minutes")
}

func TestRequestsCmd_Resolve(t *testing.T) {
	tests := []struct {
		name    string
		verb    string
		path    string
		message string
		want    string
	}{
		{"accept", "accept", "/requests/accept", "Friend request accepted", "Friend request accepted"},
		{"reject", "reject", "/requests/reject", "Friend request rejected", "Friend request rejected"},
		{"accept without message", "accept", "/requests/accept", "", "Friend request accepted"},
		{"reject without message", "reject", "/requests/reject", "", "Friend request rejected"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPatch, r.Method)
				assert.Equal(t, tt.path, r.URL.Path)
				assert.Equal(t, "5", r.URL.Query().Get("requestId"))
				writeJSON(w, map[string]any{"message": tt.message, "request": map[string]any{"request_id": 5}})
			}))
			defer server.Close()

			out, err := execute(newRequestsCmd(testApp(server.URL)), tt.verb, "5")
			require.NoError(t, err)
			assert.Contains(t, out, tt.want)
		})
	}
}
