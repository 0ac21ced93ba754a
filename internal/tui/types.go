package tui

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/snfs-app/snfs/pkg/snfsapi"
)

// Type aliases for API models - allows TUI code to use short names
// while the actual types are defined in pkg/snfsapi/types.go
type (
	Portfolio       = snfsapi.Portfolio
	CashTransaction = snfsapi.CashTransaction
	Holding         = snfsapi.Holding
	StockList       = snfsapi.StockList
	Review          = snfsapi.Review
	Friend          = snfsapi.Friend
	FriendRequest   = snfsapi.FriendRequest
)

// API is the part of the SNFS client the terminal UI drives.
// *snfsapi.Client satisfies it; tests substitute a fake.
type API interface {
	ListPortfolios(ctx context.Context, userID int) ([]Portfolio, error)
	GetPortfolio(ctx context.Context, portfolioID, userID int) (*Portfolio, error)
	ListCashTransactions(ctx context.Context, portfolioID, userID int) ([]CashTransaction, error)
	ListHoldings(ctx context.Context, portfolioID, userID int) ([]Holding, error)
	CreateCashTransaction(ctx context.Context, portfolioID int, txType string, amount decimal.Decimal) (*snfsapi.CashTransactionResult, error)

	MyStockLists(ctx context.Context, userID int) ([]StockList, error)
	DeleteStockList(ctx context.Context, listID, userID int) (string, error)

	ListReviews(ctx context.Context, listID, userID int) (*snfsapi.ListReviews, error)
	UserReviews(ctx context.Context, userID int) ([]Review, error)
	DeleteReview(ctx context.Context, reviewID, userID int) (string, error)

	ListFriends(ctx context.Context, userID int) ([]Friend, error)
	RemoveFriend(ctx context.Context, userID, friendID int) (string, error)
	ListFriendRequests(ctx context.Context, userID int) ([]FriendRequest, error)
	AcceptFriendRequest(ctx context.Context, requestID int) (*snfsapi.FriendRequestResponse, error)
	RejectFriendRequest(ctx context.Context, requestID int) (*snfsapi.FriendRequestResponse, error)
}

var _ API = (*snfsapi.Client)(nil)
