package snfsapi

import "github.com/shopspring/decimal"

// The backend serializes money and share counts inconsistently, sometimes as
// JSON numbers and sometimes as numeric strings. decimal.Decimal accepts both.
// Request bodies must carry bare numbers because the backend compares them
// arithmetically, hence Number.

// Number is a decimal that encodes as a bare JSON number.
type Number struct {
	decimal.Decimal
}

// NewNumber wraps d for use in a request body.
func NewNumber(d decimal.Decimal) Number {
	return Number{Decimal: d}
}

// MarshalJSON implements json.Marshaler.
func (n Number) MarshalJSON() ([]byte, error) {
	return []byte(n.Decimal.String()), nil
}

// Stock list visibilities.
const (
	VisibilityPrivate = "private"
	VisibilityShared  = "shared"
	VisibilityPublic  = "public"
)

// Stock list access types, relative to the requesting user.
const (
	AccessOwned  = "owned"
	AccessShared = "shared"
	AccessPublic = "public"
)

// Cash transaction types.
const (
	CashDeposit    = "deposit"
	CashWithdrawal = "withdrawal"
)

// Stock trade types.
const (
	TradeBuy  = "buy"
	TradeSell = "sell"
)

// Friend request statuses.
const (
	RequestPending  = "pending"
	RequestAccepted = "accepted"
	RequestRejected = "rejected"
)

// MessageResponse is the body of mutations that only report a message.
type MessageResponse struct {
	Message string `json:"message"`
}

// User types

// User is an account on the service.
type User struct {
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
}

// Credentials is the body of register and login requests.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Message string `json:"message"`
	User    User   `json:"user"`
}

// Friend types

// Friend is an accepted friendship seen from one side.
type Friend struct {
	FriendID int    `json:"friend_id"`
	Username string `json:"username"`
	Since    string `json:"since"`
}

// FriendsResponse represents the API response for the friends list.
type FriendsResponse struct {
	Friends []Friend `json:"friends"`
}

// RequestSender identifies who sent a received friend request.
type RequestSender struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
}

// FriendRequest is a pending or resolved friend request.
type FriendRequest struct {
	RequestID  int            `json:"request_id"`
	FromUserID int            `json:"from_user_id,omitempty"`
	ToUserID   int            `json:"to_user_id,omitempty"`
	Sender     *RequestSender `json:"sender,omitempty"`
	Status     string         `json:"status"`
	Timestamp  string         `json:"timestamp"`
}

// SenderName returns the sender's username when the backend included it.
func (r FriendRequest) SenderName() string {
	if r.Sender != nil {
		return r.Sender.Username
	}
	return ""
}

// SenderID returns the sender's user id from whichever field carries it.
func (r FriendRequest) SenderID() int {
	if r.Sender != nil {
		return r.Sender.ID
	}
	return r.FromUserID
}

// FriendRequestsResponse represents the API response for received requests.
type FriendRequestsResponse struct {
	ReceivedRequests []FriendRequest `json:"received_requests"`
}

// FriendRequestResponse is returned by send, accept and reject.
type FriendRequestResponse struct {
	Message string        `json:"message"`
	Request FriendRequest `json:"request"`
}

// Portfolio types

// Portfolio is a user-owned account holding cash and stocks.
type Portfolio struct {
	PortfolioID int             `json:"portfolio_id"`
	UserID      int             `json:"user_id"`
	Name        string          `json:"name"`
	Balance     decimal.Decimal `json:"balance"`
}

// PortfoliosResponse represents the API response for the portfolio list.
type PortfoliosResponse struct {
	Portfolios []Portfolio `json:"portfolios"`
}

// PortfolioResponse wraps a single portfolio.
type PortfolioResponse struct {
	Message   string    `json:"message,omitempty"`
	Portfolio Portfolio `json:"portfolio"`
}

// TransferRequest moves cash between two portfolios of the same user.
type TransferRequest struct {
	UserID int    `json:"user_id"`
	FromID int    `json:"from_id"`
	ToID   int    `json:"to_id"`
	Amount Number `json:"amount"`
}

// CashTransaction is a deposit or withdrawal on a portfolio.
type CashTransaction struct {
	TransactionID int             `json:"transaction_id"`
	PortfolioID   int             `json:"portfolio_id,omitempty"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	Timestamp     string          `json:"timestamp"`
}

// CashTransactionsResponse represents the API response for cash history.
type CashTransactionsResponse struct {
	Transactions []CashTransaction `json:"transactions"`
}

// CashTransactionRequest is the body of a deposit or withdrawal.
type CashTransactionRequest struct {
	PortfolioID int    `json:"portfolio_id"`
	Type        string `json:"type"`
	Amount      Number `json:"amount"`
}

// CashTransactionResult is returned after a deposit or withdrawal.
type CashTransactionResult struct {
	Message     string          `json:"message"`
	Transaction CashTransaction `json:"transaction"`
	NewBalance  decimal.Decimal `json:"new_balance"`
}

// Holding is an aggregated stock position in a portfolio.
// CurrentPrice and TotalValue are null when no price data exists.
type Holding struct {
	Symbol       string              `json:"symbol"`
	CompanyName  string              `json:"company_name"`
	NumShares    decimal.Decimal     `json:"num_shares"`
	CurrentPrice decimal.NullDecimal `json:"current_price"`
	TotalValue   decimal.NullDecimal `json:"total_value"`
}

// HoldingsResponse represents the API response for portfolio holdings.
type HoldingsResponse struct {
	Holdings []Holding `json:"holdings"`
}

// StockTransaction is a buy or sell recorded against a portfolio.
type StockTransaction struct {
	TransactionID   int             `json:"transaction_id"`
	PortfolioID     int             `json:"portfolio_id"`
	Symbol          string          `json:"symbol"`
	CompanyName     string          `json:"company_name,omitempty"`
	TransactionType string          `json:"transaction_type"`
	NumShares       decimal.Decimal `json:"num_shares"`
	PricePerShare   decimal.Decimal `json:"price_per_share"`
	Timestamp       string          `json:"timestamp"`
}

// Total returns shares times price.
func (t StockTransaction) Total() decimal.Decimal {
	return t.NumShares.Mul(t.PricePerShare)
}

// StockTransactionsResponse represents the API response for trade history.
type StockTransactionsResponse struct {
	Transactions []StockTransaction `json:"transactions"`
}

// StockTradeRequest is the body of a buy or sell.
type StockTradeRequest struct {
	PortfolioID     int    `json:"portfolio_id"`
	UserID          int    `json:"user_id"`
	Symbol          string `json:"symbol"`
	TransactionType string `json:"transaction_type"`
	NumShares       int64  `json:"num_shares"`
	PricePerShare   Number `json:"price_per_share"`
}

// StockTradeResult is returned after a buy or sell.
type StockTradeResult struct {
	Message        string           `json:"message"`
	Transaction    StockTransaction `json:"transaction"`
	UpdatedBalance decimal.Decimal  `json:"updated_balance"`
	UpdatedShares  decimal.Decimal  `json:"updated_shares"`
	Symbol         string           `json:"symbol"`
}

// Stock types

// StockPrice is one daily bar of price history.
type StockPrice struct {
	Symbol    string          `json:"symbol"`
	Timestamp string          `json:"timestamp"`
	Open      decimal.Decimal `json:"open"`
	High      decimal.Decimal `json:"high"`
	Low       decimal.Decimal `json:"low"`
	Close     decimal.Decimal `json:"close"`
	Volume    decimal.Decimal `json:"volume"`
}

// Pagination describes one page of a paged listing.
type Pagination struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// StockPage is one page of price history.
type StockPage struct {
	Stocks     []StockPrice `json:"stocks"`
	Pagination Pagination   `json:"pagination"`
}

// StockQuery filters price history. Zero values are omitted.
type StockQuery struct {
	Symbol    string
	StartDate string
	EndDate   string
	Page      int
	PerPage   int
}

// SymbolsResponse represents the API response for symbol search.
type SymbolsResponse struct {
	Symbols []string `json:"symbols"`
}

// CurrentPriceResponse wraps the most recent bar for a symbol.
type CurrentPriceResponse struct {
	PriceData StockPrice `json:"price_data"`
}

// AddStockPriceRequest adds a user-supplied daily bar.
// Open, High and Low are optional and serialize as null when nil.
type AddStockPriceRequest struct {
	UserID    int     `json:"user_id"`
	Symbol    string  `json:"symbol"`
	Timestamp string  `json:"timestamp"`
	Open      *Number `json:"open"`
	High      *Number `json:"high"`
	Low       *Number `json:"low"`
	Close     Number  `json:"close"`
	Volume    int64   `json:"volume"`
}

// PredictedPrice is one forecast point.
type PredictedPrice struct {
	Date           string          `json:"date"`
	PredictedClose decimal.Decimal `json:"predicted_close"`
}

// Prediction is the backend's price forecast for a symbol.
type Prediction struct {
	Symbol      string           `json:"symbol"`
	Predictions []PredictedPrice `json:"predictions"`
}

// Stock list types

// StockListItem is a (symbol, shares) pair inside a stock list.
type StockListItem struct {
	ListID      int             `json:"list_id,omitempty"`
	Symbol      string          `json:"symbol"`
	CompanyName string          `json:"company_name,omitempty"`
	NumShares   decimal.Decimal `json:"num_shares"`
}

// StockList is a named, visibility-scoped collection of stocks.
type StockList struct {
	ListID      int             `json:"list_id"`
	UserID      int             `json:"user_id"`
	Name        string          `json:"name"`
	Visibility  string          `json:"visibility"`
	CreatorName string          `json:"creator_name,omitempty"`
	AccessType  string          `json:"access_type,omitempty"`
	Items       []StockListItem `json:"items,omitempty"`
}

// OwnedBy reports whether userID owns the list.
func (l StockList) OwnedBy(userID int) bool {
	return l.UserID == userID
}

// StockListsResponse represents the API response for stock list listings.
type StockListsResponse struct {
	StockLists []StockList `json:"stockLists"`
}

// StockListResponse wraps a single stock list.
type StockListResponse struct {
	Message   string    `json:"message,omitempty"`
	StockList StockList `json:"stockList"`
}

// StockListItemResponse is returned after adding an item.
type StockListItemResponse struct {
	Message string        `json:"message"`
	Item    StockListItem `json:"item"`
}

// Review types

// Review is a user's comment on a stock list. ListName, Visibility and
// CreatorName are only filled in the per-user listing.
type Review struct {
	ReviewID    int    `json:"review_id"`
	UserID      int    `json:"user_id"`
	ListID      int    `json:"list_id"`
	Content     string `json:"content"`
	Timestamp   string `json:"timestamp"`
	Username    string `json:"username,omitempty"`
	ListName    string `json:"list_name,omitempty"`
	Visibility  string `json:"visibility,omitempty"`
	CreatorName string `json:"creator_name,omitempty"`
}

// ListReviews is the reviews of one stock list together with the list.
type ListReviews struct {
	Reviews   []Review   `json:"reviews"`
	StockList *StockList `json:"stockList,omitempty"`
}

// ReviewsResponse represents the API response for a user's reviews.
type ReviewsResponse struct {
	Reviews []Review `json:"reviews"`
}

// ReviewResponse wraps a single review.
type ReviewResponse struct {
	Message string `json:"message"`
	Review  Review `json:"review"`
}

// Statistics types

// DateRange bounds a statistics computation.
type DateRange struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// StockStatistic summarizes the returns of one symbol.
// CoefficientOfVariation is null when the mean return is zero.
type StockStatistic struct {
	Symbol                 string              `json:"symbol"`
	MeanReturn             decimal.NullDecimal `json:"mean_return"`
	StddevReturn           decimal.NullDecimal `json:"stddev_return"`
	CoefficientOfVariation decimal.NullDecimal `json:"coefficient_of_variation"`
	Beta                   decimal.NullDecimal `json:"beta"`
	Days                   int                 `json:"days,omitempty"`
}

// CorrelationRow is one row of a correlation matrix.
type CorrelationRow struct {
	Symbol       string                         `json:"symbol"`
	Correlations map[string]decimal.NullDecimal `json:"correlations"`
}

// Statistics is the backend's analysis of a portfolio or stock list.
type Statistics struct {
	PortfolioID       int                 `json:"portfolio_id,omitempty"`
	ListID            int                 `json:"list_id,omitempty"`
	DateRange         DateRange           `json:"date_range"`
	StockStatistics   []StockStatistic    `json:"stock_statistics"`
	PortfolioBeta     decimal.NullDecimal `json:"portfolio_beta"`
	CorrelationMatrix []CorrelationRow    `json:"correlation_matrix"`
}

// Symbols returns the matrix symbols in row order.
func (s Statistics) Symbols() []string {
	out := make([]string, 0, len(s.CorrelationMatrix))
	for _, row := range s.CorrelationMatrix {
		out = append(out, row.Symbol)
	}
	return out
}
