package cmd

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListsCmd_Accessible(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stocklists/lists", r.URL.Path)
		assert.Equal(t, "7", r.URL.Query().Get("user_id"))
		assert.Equal(t, "tech", r.URL.Query().Get("search"))
		writeJSON(w, map[string]any{
			"stockLists": []map[string]any{
				{
					"list_id": 4, "user_id": 12, "name": "Big Tech", "visibility": "shared",
					"creator_name": "bob", "access_type": "shared",
					"items": []map[string]any{{"symbol": "AAPL", "num_shares": 10}, {"symbol": "MSFT", "num_shares": 5}},
				},
			},
		})
	}))
	defer server.Close()

	out, err := execute(newListsCmd(testApp(server.URL)), "--search", " tech ")
	require.NoError(t, err)

	assert.Contains(t, out, "Big Tech")
	assert.Contains(t, out, "bob")
	assert.Contains(t, out, "shared")
	assert.Contains(t, out, "2")
}

func TestListsCmd_AccessibleAsGuest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.False(t, r.URL.Query().Has("user_id"))
		writeJSON(w, map[string]any{"stockLists": []any{}})
	}))
	defer server.Close()

	opts := testApp(server.URL)
	opts.session = nil
	out, err := execute(newListsCmd(opts))
	require.NoError(t, err)
	assert.Contains(t, out, "No stock lists found")
}

func TestListsCmd_Mine(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stocklists/mine", r.URL.Path)
		assert.Equal(t, "7", r.URL.Query().Get("userId"))
		writeJSON(w, map[string]any{"stockLists": []any{}})
	}))
	defer server.Close()

	out, err := execute(newListsCmd(testApp(server.URL)), "mine")
	require.NoError(t, err)
	assert.Contains(t, out, "You have no stock lists")
}

func TestListsCmd_MineEmptyWithQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"stockLists": []any{}})
	}))
	defer server.Close()

	opts := testApp(server.URL)
	opts.query = "$[*].ID"
	out, err := execute(newListsCmd(opts), "mine")
	require.NoError(t, err)

	assert.NotContains(t, out, "You have no stock lists")
	assert.JSONEq(t, "[]", out)
}

func TestListsCmd_Show(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stocklists/list/4", r.URL.Path)
		writeJSON(w, map[string]any{
			"stockList": map[string]any{
				"list_id": 4, "user_id": 7, "name": "Big Tech", "visibility": "public",
				"items": []map[string]any{
					{"symbol": "AAPL", "company_name": "Apple", "num_shares": "10"},
				},
			},
		})
	}))
	defer server.Close()

	out, err := execute(newListsCmd(testApp(server.URL)), "show", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "Big Tech (ID 4)")
	assert.Contains(t, out, "public")
	assert.Contains(t, out, "Apple")
	assert.Contains(t, out, "10")
}

func TestListsCmd_ShowForbidden(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		writeJSON(w, map[string]string{"error": "You do not have access to this stock list"})
	}))
	defer server.Close()

	_, err := execute(newListsCmd(testApp(server.URL)), "show", "4")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "You do not have access")
}

func TestListsCmd_Create(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/stocklists/create", r.URL.Path)

		body := decodeBody(t, r)
		assert.Equal(t, float64(7), body["user_id"])
		assert.Equal(t, "Tech", body["name"])
		assert.Equal(t, "public", body["visibility"])

		w.WriteHeader(http.StatusCreated)
		writeJSON(w, map[string]any{
			"stockList": map[string]any{"list_id": 8, "user_id": 7, "name": "Tech", "visibility": "public"},
		})
	}))
	defer server.Close()

	out, err := execute(newListsCmd(testApp(server.URL)), "create", "Tech", "--visibility", "public")
	require.NoError(t, err)
	assert.Contains(t, out, `Created stock list "Tech" (ID 8)`)
}

func TestListsCmd_CreateDefaultsToPrivate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(t, r)
		assert.Equal(t, "private", body["visibility"])
		writeJSON(w, map[string]any{"stockList": map[string]any{"list_id": 8, "name": "Tech"}})
	}))
	defer server.Close()

	_, err := execute(newListsCmd(testApp(server.URL)), "create", "Tech")
	require.NoError(t, err)
}

func TestListsCmd_CreateInvalidVisibility(t *testing.T) {
	server := failServer(t)

	_, err := execute(newListsCmd(testApp(server.URL)), "create", "Tech", "--visibility", "secret")
	assertValidationError(t, err, "visibility")
}

func TestListsCmd_Add(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stocklists/add_item", r.URL.Path)

		body := decodeBody(t, r)
		assert.Equal(t, float64(4), body["list_id"])
		assert.Equal(t, "AAPL", body["symbol"])
		assert.Equal(t, float64(10), body["num_shares"])

		writeJSON(w, map[string]any{
			"message": "Item added",
			"item":    map[string]any{"list_id": 4, "symbol": "AAPL", "num_shares": 10},
		})
	}))
	defer server.Close()

	out, err := execute(newListsCmd(testApp(server.URL)), "add", "4", "aapl", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "Added 10 shares of AAPL to list 4")
}

func TestListsCmd_AddInvalidShares(t *testing.T) {
	server := failServer(t)

	_, err := execute(newListsCmd(testApp(server.URL)), "add", "4", "AAPL", "0")
	assertValidationError(t, err, "shares")
}

func TestListsCmd_Remove(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/stocklists/remove_item", r.URL.Path)
		body := decodeBody(t, r)
		assert.Equal(t, "AAPL", body["symbol"])
		writeJSON(w, map[string]string{"message": "Item removed"})
	}))
	defer server.Close()

	out, err := execute(newListsCmd(testApp(server.URL)), "remove", "4", "aapl")
	require.NoError(t, err)
	assert.Contains(t, out, "Item removed")
}

func TestListsCmd_UpdateMergesCurrentValues(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			assert.Equal(t, "/stocklists/list/4", r.URL.Path)
			writeJSON(w, map[string]any{
				"stockList": map[string]any{"list_id": 4, "user_id": 7, "name": "Tech", "visibility": "private"},
			})
		case http.MethodPut:
			assert.Equal(t, "/stocklists/update/4", r.URL.Path)
			body := decodeBody(t, r)
			assert.Equal(t, "Tech", body["name"])
			assert.Equal(t, "public", body["visibility"])
			writeJSON(w, map[string]any{"message": "Stock list updated successfully"})
		default:
			t.Errorf("unexpected method %s", r.Method)
		}
	}))
	defer server.Close()

	out, err := execute(newListsCmd(testApp(server.URL)), "update", "4", "--visibility", "public")
	require.NoError(t, err)
	assert.Contains(t, out, "Stock list updated successfully")
}

func TestListsCmd_UpdateBothSkipsLookup(t *testing.T) {
	var gets atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			gets.Add(1)
		}
		writeJSON(w, map[string]any{"message": "Stock list updated successfully"})
	}))
	defer server.Close()

	_, err := execute(newListsCmd(testApp(server.URL)), "update", "4", "--name", "Big Tech", "--visibility", "shared")
	require.NoError(t, err)
	assert.Equal(t, int32(0), gets.Load())
}

func TestListsCmd_UpdateSomeoneElsesList(t *testing.T) {
	var puts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			puts.Add(1)
			return
		}
		writeJSON(w, map[string]any{
			"stockList": map[string]any{"list_id": 4, "user_id": 12, "name": "Tech", "visibility": "public"},
		})
	}))
	defer server.Close()

	_, err := execute(newListsCmd(testApp(server.URL)), "update", "4", "--name", "Mine now")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "only edit your own")
	assert.Equal(t, int32(0), puts.Load())
}

func TestListsCmd_UpdateNothing(t *testing.T) {
	server := failServer(t)

	_, err := execute(newListsCmd(testApp(server.URL)), "update", "4")
	assertValidationError(t, err, "name")
}

func TestListsCmd_Delete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/stocklists/4", r.URL.Path)
		body := decodeBody(t, r)
		assert.Equal(t, float64(7), body["user_id"])
		writeJSON(w, map[string]string{"message": "Stock list deleted successfully"})
	}))
	defer server.Close()

	out, err := execute(newListsCmd(testApp(server.URL)), "delete", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "Stock list deleted successfully")
}

func TestListsCmd_Share(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stocklists/share", r.URL.Path)
		body := decodeBody(t, r)
		assert.Equal(t, "bob", body["username"])
		assert.Equal(t, float64(4), body["listId"])
		assert.Equal(t, float64(7), body["ownerId"])
		writeJSON(w, map[string]string{"message": ""})
	}))
	defer server.Close()

	out, err := execute(newListsCmd(testApp(server.URL)), "share", "4", "bob")
	require.NoError(t, err)
	assert.Contains(t, out, "Shared with bob")
}

func TestListsCmd_Stats(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stocklists/4/statistics", r.URL.Path)
		writeJSON(w, map[string]any{
			"list_id":    4,
			"date_range": map[string]string{"start_date": "2017-01-03", "end_date": "2018-02-07"},
			"stock_statistics": []map[string]any{
				{"symbol": "AAPL", "mean_return": "0.0012", "stddev_return": "0.0115", "coefficient_of_variation": "9.5833", "beta": nil},
				{"symbol": "MSFT", "mean_return": 0, "stddev_return": "0.01", "coefficient_of_variation": nil, "beta": nil},
			},
			"correlation_matrix": []map[string]any{
				{"symbol": "AAPL", "correlations": map[string]any{"AAPL": 1, "MSFT": "0.4512"}},
				{"symbol": "MSFT", "correlations": map[string]any{"AAPL": "0.4512", "MSFT": 1}},
			},
		})
	}))
	defer server.Close()

	out, err := execute(newListsCmd(testApp(server.URL)), "stats", "4")
	require.NoError(t, err)

	assert.Contains(t, out, "Period: 2017-01-03 to 2018-02-07")
	assert.Contains(t, out, "0.12%")
	assert.Contains(t, out, "9.5833")
	assert.Contains(t, out, "N/A")
	assert.Contains(t, out, "0.45")
	assert.Contains(t, out, "Correlation matrix")
	assert.NotContains(t, out, "Portfolio beta")
}
