package tui

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/snfs-app/snfs/internal/output"
)

// Message types for async operations

// NoticeMsg replaces the footer notice.
type NoticeMsg struct {
	Level output.Level
	Text  string
}

// PortfoliosLoadedMsg is sent when the portfolio list is loaded.
type PortfoliosLoadedMsg struct {
	Portfolios []Portfolio
}

// PortfoliosErrorMsg is sent when loading the portfolio list fails.
type PortfoliosErrorMsg struct {
	Err error
}

// PortfolioDetailMsg carries everything the detail view shows.
type PortfolioDetailMsg struct {
	Portfolio    Portfolio
	Transactions []CashTransaction
	Holdings     []Holding
}

// PortfolioDetailErrorMsg is sent when loading a portfolio's detail fails.
type PortfolioDetailErrorMsg struct {
	PortfolioID int
	Err         error
}

// CashTransactionDoneMsg is sent after a deposit or withdrawal succeeds.
type CashTransactionDoneMsg struct {
	PortfolioID int
	Message     string
	NewBalance  decimal.Decimal
}

// ListsLoadedMsg is sent when the user's stock lists are loaded.
type ListsLoadedMsg struct {
	Lists []StockList
}

// ListsErrorMsg is sent when loading stock lists fails.
type ListsErrorMsg struct {
	Err error
}

// ListDeletedMsg is sent when a stock list was deleted.
type ListDeletedMsg struct {
	ListID  int
	Message string
}

// ReviewsLoadedMsg is sent when reviews for a cache key are available.
type ReviewsLoadedMsg struct {
	Key     string
	Reviews []Review
	Cached  bool
}

// ReviewsErrorMsg is sent when fetching reviews fails.
type ReviewsErrorMsg struct {
	Key string
	Err error
}

// ReviewDeletedMsg is sent when a review was deleted.
type ReviewDeletedMsg struct {
	ReviewID int
	ListID   int
	Message  string
}

// FriendsLoadedMsg carries the friends list and received requests.
type FriendsLoadedMsg struct {
	Friends  []Friend
	Requests []FriendRequest
}

// FriendsErrorMsg is sent when loading friends fails.
type FriendsErrorMsg struct {
	Err error
}

// FriendRemovedMsg is sent when a friend was removed.
type FriendRemovedMsg struct {
	FriendID int
	Message  string
}

// RequestResolvedMsg is sent when a friend request was accepted or rejected.
type RequestResolvedMsg struct {
	RequestID int
	Accepted  bool
	Message   string
}

// UIConfigSavedMsg is sent when ui.yaml was written.
type UIConfigSavedMsg struct{}

// TickMsg is sent periodically for auto-refresh.
type TickMsg time.Time
