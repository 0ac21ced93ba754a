package cmd

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPortfolioCmd_List(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/portfolios/view", r.URL.Path)
		assert.Equal(t, "7", r.URL.Query().Get("userId"))
		writeJSON(w, map[string]any{
			"portfolios": []map[string]any{
				{"portfolio_id": 3, "user_id": 7, "name": "Retirement", "balance": "1234.5"},
				{"portfolio_id": 4, "user_id": 7, "name": "Play", "balance": 0},
			},
		})
	}))
	defer server.Close()

	out, err := execute(newPortfolioCmd(testApp(server.URL)))
	require.NoError(t, err)

	assert.Contains(t, out, "Retirement")
	assert.Contains(t, out, "$1,234.50")
	assert.Contains(t, out, "Play")
	assert.Contains(t, out, "$0.00")
}

func TestPortfolioCmd_ListEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"portfolios": []any{}})
	}))
	defer server.Close()

	out, err := execute(newPortfolioCmd(testApp(server.URL)))
	require.NoError(t, err)
	assert.Contains(t, out, "No portfolios yet")
}

func TestPortfolioCmd_ListEmptyWithQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"portfolios": []any{}})
	}))
	defer server.Close()

	opts := testApp(server.URL)
	opts.query = "$[*].ID"
	out, err := execute(newPortfolioCmd(opts))
	require.NoError(t, err)

	assert.NotContains(t, out, "No portfolios yet")
	assert.JSONEq(t, "[]", out)
}

func TestPortfolioCmd_TradesEmptyWithQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"transactions": []any{}})
	}))
	defer server.Close()

	opts := testApp(server.URL)
	opts.query = "$[*].Symbol"
	out, err := execute(newPortfolioCmd(opts), "trades", "3")
	require.NoError(t, err)

	assert.NotContains(t, out, "No stock transactions")
	assert.JSONEq(t, "[]", out)
}

func TestPortfolioCmd_ListJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"portfolios": []map[string]any{
				{"portfolio_id": 3, "user_id": 7, "name": "Retirement", "balance": 10},
			},
		})
	}))
	defer server.Close()

	opts := testApp(server.URL)
	opts.jsonMode = true
	out, err := execute(newPortfolioCmd(opts))
	require.NoError(t, err)

	var rows []map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "Retirement", rows[0]["Name"])
	assert.Equal(t, "$10.00", rows[0]["Balance"])
}

func TestPortfolioCmd_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		writeJSON(w, map[string]string{"error": "database unavailable"})
	}))
	defer server.Close()

	_, err := execute(newPortfolioCmd(testApp(server.URL)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch portfolios")
	assert.Contains(t, err.Error(), "database unavailable")
}

func TestPortfolioCmd_Create(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/portfolios/create", r.URL.Path)

		body := decodeBody(t, r)
		assert.Equal(t, float64(7), body["userId"])
		assert.Equal(t, "Retirement", body["portfolioName"])

		w.WriteHeader(http.StatusCreated)
		writeJSON(w, map[string]any{
			"message":   "Portfolio created",
			"portfolio": map[string]any{"portfolio_id": 9, "user_id": 7, "name": "Retirement", "balance": 0},
		})
	}))
	defer server.Close()

	out, err := execute(newPortfolioCmd(testApp(server.URL)), "create", "  Retirement ")
	require.NoError(t, err)
	assert.Contains(t, out, `Created portfolio "Retirement" (ID 9)`)
}

func TestPortfolioCmd_CreateBlankName(t *testing.T) {
	server := failServer(t)

	_, err := execute(newPortfolioCmd(testApp(server.URL)), "create", "   ")
	assertValidationError(t, err, "name")
}

func TestPortfolioCmd_Show(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "7", r.URL.Query().Get("userId"))
		switch r.URL.Path {
		case "/portfolios/3":
			writeJSON(w, map[string]any{
				"portfolio": map[string]any{"portfolio_id": 3, "user_id": 7, "name": "Retirement", "balance": "400"},
			})
		case "/transactions/3":
			writeJSON(w, map[string]any{
				"transactions": []map[string]any{
					{"transaction_id": 1, "type": "deposit", "amount": "500", "timestamp": "2024-01-02T10:00:00"},
					{"transaction_id": 2, "type": "withdrawal", "amount": "100", "timestamp": "2024-01-03T10:00:00"},
				},
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	out, err := execute(newPortfolioCmd(testApp(server.URL)), "show", "3")
	require.NoError(t, err)

	assert.Contains(t, out, "Retirement (ID 3)")
	assert.Contains(t, out, "$400.00")
	assert.Contains(t, out, "+$500.00")
	assert.Contains(t, out, "-$100.00")
	assert.Contains(t, out, "2024-01-02 10:00")
}

func TestPortfolioCmd_ShowInvalidID(t *testing.T) {
	server := failServer(t)

	_, err := execute(newPortfolioCmd(testApp(server.URL)), "show", "abc")
	assertValidationError(t, err, "portfolio")
}

func TestPortfolioCmd_Deposit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/transactions/", r.URL.Path)

		body := decodeBody(t, r)
		assert.Equal(t, float64(3), body["portfolio_id"])
		assert.Equal(t, "deposit", body["type"])
		assert.Equal(t, 500.25, body["amount"])

		w.WriteHeader(http.StatusCreated)
		writeJSON(w, map[string]any{
			"message":     "Deposit successful",
			"transaction": map[string]any{"transaction_id": 11, "type": "deposit", "amount": "500.25"},
			"new_balance": "1500.25",
		})
	}))
	defer server.Close()

	out, err := execute(newPortfolioCmd(testApp(server.URL)), "deposit", "3", "500.25")
	require.NoError(t, err)
	assert.Contains(t, out, "Deposit successful. New balance: $1,500.25")
}

func TestPortfolioCmd_InvalidAmountMakesNoRequest(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		field string
	}{
		{"deposit zero", []string{"deposit", "3", "0"}, "amount"},
		{"deposit negative", []string{"deposit", "3", "--", "-5"}, "amount"},
		{"deposit text", []string{"deposit", "3", "lots"}, "amount"},
		{"withdraw zero", []string{"withdraw", "3", "0"}, "amount"},
		{"bad portfolio", []string{"deposit", "x", "10"}, "portfolio"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := failServer(t)

			_, err := execute(newPortfolioCmd(testApp(server.URL)), tt.args...)
			assertValidationError(t, err, tt.field)
		})
	}
}

func TestPortfolioCmd_Withdraw(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/portfolios/3":
			writeJSON(w, map[string]any{
				"portfolio": map[string]any{"portfolio_id": 3, "user_id": 7, "name": "Retirement", "balance": "100"},
			})
		case r.Method == http.MethodPost && r.URL.Path == "/transactions/":
			body := decodeBody(t, r)
			assert.Equal(t, "withdrawal", body["type"])
			assert.Equal(t, float64(100), body["amount"])
			writeJSON(w, map[string]any{"message": "Withdrawal successful", "new_balance": 0})
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))
	defer server.Close()

	out, err := execute(newPortfolioCmd(testApp(server.URL)), "withdraw", "3", "100")
	require.NoError(t, err)
	assert.Contains(t, out, "Withdrawal successful. New balance: $0.00")
}

func TestPortfolioCmd_WithdrawOverdraftMakesNoPost(t *testing.T) {
	var posts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			posts.Add(1)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]any{
			"portfolio": map[string]any{"portfolio_id": 3, "user_id": 7, "name": "Retirement", "balance": "99.99"},
		})
	}))
	defer server.Close()

	_, err := execute(newPortfolioCmd(testApp(server.URL)), "withdraw", "3", "100")
	assertValidationError(t, err, "amount")
	assert.Contains(t, err.Error(), "insufficient funds")
	assert.Equal(t, int32(0), posts.Load())
}

func TestPortfolioCmd_Transfer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/portfolios/transfer", r.URL.Path)

		body := decodeBody(t, r)
		assert.Equal(t, float64(7), body["user_id"])
		assert.Equal(t, float64(3), body["from_id"])
		assert.Equal(t, float64(4), body["to_id"])
		assert.Equal(t, float64(50), body["amount"])

		writeJSON(w, map[string]any{"message": "Transfer successful"})
	}))
	defer server.Close()

	out, err := execute(newPortfolioCmd(testApp(server.URL)), "transfer", "3", "4", "50")
	require.NoError(t, err)
	assert.Contains(t, out, "Transfer successful")
}

func TestPortfolioCmd_TransferSamePortfolio(t *testing.T) {
	server := failServer(t)

	_, err := execute(newPortfolioCmd(testApp(server.URL)), "transfer", "3", "3", "50")
	assertValidationError(t, err, "to")
}

func TestPortfolioCmd_TransferRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		writeJSON(w, map[string]string{"error": "Insufficient funds in source portfolio"})
	}))
	defer server.Close()

	_, err := execute(newPortfolioCmd(testApp(server.URL)), "transfer", "3", "4", "50")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Insufficient funds in source portfolio")
}

func holdingsHandler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/portfolios/3/holdings", r.URL.Path)
		assert.Equal(t, "7", r.URL.Query().Get("user_id"))
		writeJSON(w, map[string]any{
			"holdings": []map[string]any{
				{"symbol": "AAPL", "company_name": "Apple", "num_shares": 2, "current_price": "150.25", "total_value": "300.50"},
				{"symbol": "MSFT", "company_name": "Microsoft", "num_shares": "1", "current_price": 100, "total_value": 100},
				{"symbol": "ZZZ", "company_name": "Delisted", "num_shares": 5, "current_price": nil, "total_value": nil},
			},
		})
	}
}

func TestPortfolioCmd_Holdings(t *testing.T) {
	server := httptest.NewServer(holdingsHandler(t))
	defer server.Close()

	out, err := execute(newPortfolioCmd(testApp(server.URL)), "holdings", "3")
	require.NoError(t, err)

	assert.Contains(t, out, "AAPL")
	assert.Contains(t, out, "$300.50")
	assert.Contains(t, out, "N/A")
	assert.Contains(t, out, "Total value: $400.50")
}

func TestPortfolioCmd_HoldingsJSONTotalMatchesRows(t *testing.T) {
	server := httptest.NewServer(holdingsHandler(t))
	defer server.Close()

	opts := testApp(server.URL)
	opts.jsonMode = true
	out, err := execute(newPortfolioCmd(opts), "holdings", "3")
	require.NoError(t, err)

	var view struct {
		Holdings []struct {
			Symbol     string  `json:"symbol"`
			TotalValue *string `json:"total_value"`
		} `json:"holdings"`
		TotalValue string `json:"total_value"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Len(t, view.Holdings, 3)
	assert.Equal(t, "400.5", view.TotalValue)
}

func TestPortfolioCmd_HoldingsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"holdings": []any{}})
	}))
	defer server.Close()

	out, err := execute(newPortfolioCmd(testApp(server.URL)), "holdings", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "No stock holdings")
	assert.NotContains(t, out, "Total value")
}

func TestPortfolioCmd_Trades(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/portfolios/3/stock-transactions", r.URL.Path)
		writeJSON(w, map[string]any{
			"transactions": []map[string]any{
				{
					"transaction_id": 5, "portfolio_id": 3, "symbol": "AAPL",
					"transaction_type": "buy", "num_shares": 10, "price_per_share": "150",
					"timestamp": "2024-02-01 09:30:00",
				},
			},
		})
	}))
	defer server.Close()

	out, err := execute(newPortfolioCmd(testApp(server.URL)), "trades", "3")
	require.NoError(t, err)

	assert.Contains(t, out, "AAPL")
	assert.Contains(t, out, "buy")
	assert.Contains(t, out, "$150.00")
	assert.Contains(t, out, "$1,500.00")
	assert.Contains(t, out, "2024-02-01 09:30")
}

func TestPortfolioCmd_TradesEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"transactions": []any{}})
	}))
	defer server.Close()

	out, err := execute(newPortfolioCmd(testApp(server.URL)), "trades", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "No stock transactions")
}

func TestPortfolioCmd_StatsInvalidDates(t *testing.T) {
	server := failServer(t)

	_, err := execute(newPortfolioCmd(testApp(server.URL)), "stats", "3", "--start", "01/02/2024")
	assertValidationError(t, err, "start")
}

func TestPortfolioCmd_StatsForwardsDates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/portfolios/3/statistics", r.URL.Path)
		assert.Equal(t, "2024-01-01", r.URL.Query().Get("start_date"))
		assert.Equal(t, "2024-06-30", r.URL.Query().Get("end_date"))
		writeJSON(w, map[string]any{
			"portfolio_id": 3,
			"date_range":   map[string]string{"start_date": "2024-01-01", "end_date": "2024-06-30"},
			"stock_statistics": []map[string]any{
				{"symbol": "AAPL", "mean_return": "0.0012", "stddev_return": "0.02", "coefficient_of_variation": "16.6667", "beta": "1.1"},
			},
			"portfolio_beta":     "1.1",
			"correlation_matrix": []map[string]any{{"symbol": "AAPL", "correlations": map[string]any{"AAPL": 1}}},
		})
	}))
	defer server.Close()

	out, err := execute(newPortfolioCmd(testApp(server.URL)), "stats", "3", "--start", "2024-01-01", "--end", "2024-06-30")
	require.NoError(t, err)
	assert.Contains(t, out, "AAPL")
}
