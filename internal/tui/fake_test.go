package tui

import (
	"context"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/snfs-app/snfs/pkg/snfsapi"
)

// fakeAPI is an in-memory API that counts calls.
type fakeAPI struct {
	mu    sync.Mutex
	calls map[string]int

	portfolios   []Portfolio
	transactions []CashTransaction
	holdings     []Holding
	lists        []StockList
	userReviews  []Review
	listReviews  map[int][]Review
	friends      []Friend
	requests     []FriendRequest

	lastCashType   string
	lastCashAmount decimal.Decimal

	err error // returned by every call when set
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{calls: make(map[string]int), listReviews: make(map[int][]Review)}
}

func (f *fakeAPI) record(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
	return f.err
}

func (f *fakeAPI) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeAPI) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeAPI) ListPortfolios(ctx context.Context, userID int) ([]Portfolio, error) {
	if err := f.record("ListPortfolios"); err != nil {
		return nil, err
	}
	return f.portfolios, nil
}

func (f *fakeAPI) GetPortfolio(ctx context.Context, portfolioID, userID int) (*Portfolio, error) {
	if err := f.record("GetPortfolio"); err != nil {
		return nil, err
	}
	for _, p := range f.portfolios {
		if p.PortfolioID == portfolioID {
			return &p, nil
		}
	}
	return nil, &snfsapi.APIError{StatusCode: 404, Message: "Portfolio not found"}
}

func (f *fakeAPI) ListCashTransactions(ctx context.Context, portfolioID, userID int) ([]CashTransaction, error) {
	if err := f.record("ListCashTransactions"); err != nil {
		return nil, err
	}
	return f.transactions, nil
}

func (f *fakeAPI) ListHoldings(ctx context.Context, portfolioID, userID int) ([]Holding, error) {
	if err := f.record("ListHoldings"); err != nil {
		return nil, err
	}
	return f.holdings, nil
}

func (f *fakeAPI) CreateCashTransaction(ctx context.Context, portfolioID int, txType string, amount decimal.Decimal) (*snfsapi.CashTransactionResult, error) {
	if err := f.record("CreateCashTransaction"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.lastCashType = txType
	f.lastCashAmount = amount
	f.mu.Unlock()

	balance := decimal.Zero
	for i, p := range f.portfolios {
		if p.PortfolioID == portfolioID {
			if txType == snfsapi.CashWithdrawal {
				f.portfolios[i].Balance = p.Balance.Sub(amount)
			} else {
				f.portfolios[i].Balance = p.Balance.Add(amount)
			}
			balance = f.portfolios[i].Balance
		}
	}
	return &snfsapi.CashTransactionResult{Message: "Transaction successful", NewBalance: balance}, nil
}

func (f *fakeAPI) MyStockLists(ctx context.Context, userID int) ([]StockList, error) {
	if err := f.record("MyStockLists"); err != nil {
		return nil, err
	}
	return f.lists, nil
}

func (f *fakeAPI) DeleteStockList(ctx context.Context, listID, userID int) (string, error) {
	if err := f.record("DeleteStockList"); err != nil {
		return "", err
	}
	return "Stock list deleted successfully", nil
}

func (f *fakeAPI) ListReviews(ctx context.Context, listID, userID int) (*snfsapi.ListReviews, error) {
	if err := f.record("ListReviews"); err != nil {
		return nil, err
	}
	return &snfsapi.ListReviews{Reviews: f.listReviews[listID]}, nil
}

func (f *fakeAPI) UserReviews(ctx context.Context, userID int) ([]Review, error) {
	if err := f.record("UserReviews"); err != nil {
		return nil, err
	}
	return f.userReviews, nil
}

func (f *fakeAPI) DeleteReview(ctx context.Context, reviewID, userID int) (string, error) {
	if err := f.record("DeleteReview"); err != nil {
		return "", err
	}
	return "Review deleted successfully", nil
}

func (f *fakeAPI) ListFriends(ctx context.Context, userID int) ([]Friend, error) {
	if err := f.record("ListFriends"); err != nil {
		return nil, err
	}
	return f.friends, nil
}

func (f *fakeAPI) RemoveFriend(ctx context.Context, userID, friendID int) (string, error) {
	if err := f.record("RemoveFriend"); err != nil {
		return "", err
	}
	return "Friend removed successfully", nil
}

func (f *fakeAPI) ListFriendRequests(ctx context.Context, userID int) ([]FriendRequest, error) {
	if err := f.record("ListFriendRequests"); err != nil {
		return nil, err
	}
	return f.requests, nil
}

func (f *fakeAPI) AcceptFriendRequest(ctx context.Context, requestID int) (*snfsapi.FriendRequestResponse, error) {
	if err := f.record("AcceptFriendRequest"); err != nil {
		return nil, err
	}
	return &snfsapi.FriendRequestResponse{Message: "Friend request accepted"}, nil
}

func (f *fakeAPI) RejectFriendRequest(ctx context.Context, requestID int) (*snfsapi.FriendRequestResponse, error) {
	if err := f.record("RejectFriendRequest"); err != nil {
		return nil, err
	}
	return &snfsapi.FriendRequestResponse{Message: "Friend request rejected"}, nil
}

const testUserID = 7

func testBackend(api API) *backend {
	return newBackend(api, testUserID, time.Second, nil)
}

// collect runs cmd and any batched commands, returning their messages.
// Never pass it a command that contains a tick.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// notices filters NoticeMsgs out of msgs.
func notices(msgs []tea.Msg) []NoticeMsg {
	var out []NoticeMsg
	for _, m := range msgs {
		if n, ok := m.(NoticeMsg); ok {
			out = append(out, n)
		}
	}
	return out
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func nullDec(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(dec(s))
}
