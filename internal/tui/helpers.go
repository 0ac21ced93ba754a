package tui

import (
	"context"
	"io"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/snfs-app/snfs/internal/config"
	"github.com/snfs-app/snfs/internal/fetchcache"
	"github.com/snfs-app/snfs/internal/output"
	"github.com/snfs-app/snfs/pkg/snfsapi"
)

// backend turns API calls into tea.Cmds for the logged-in user.
type backend struct {
	api     API
	userID  int
	timeout time.Duration
	logger  *slog.Logger
}

func newBackend(api API, userID int, timeout time.Duration, logger *slog.Logger) *backend {
	if timeout <= 0 {
		timeout = time.Duration(config.DefaultTimeoutSeconds) * time.Second
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &backend{api: api, userID: userID, timeout: timeout, logger: logger}
}

func (b *backend) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), b.timeout)
}

// notify returns a command that shows a footer notice.
func notify(level output.Level, text string) tea.Cmd {
	return func() tea.Msg {
		return NoticeMsg{Level: level, Text: text}
	}
}

// describeError returns the text shown to the user for a failed request.
func describeError(err error) string {
	if apiErr, ok := snfsapi.AsAPIError(err); ok {
		return apiErr.Description()
	}
	return err.Error()
}

func messageOr(msg, fallback string) string {
	if msg != "" {
		return msg
	}
	return fallback
}

// FetchPortfolios returns a command that loads the user's portfolios.
func (b *backend) FetchPortfolios() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := b.ctx()
		defer cancel()

		portfolios, err := b.api.ListPortfolios(ctx, b.userID)
		if err != nil {
			return PortfoliosErrorMsg{Err: err}
		}
		return PortfoliosLoadedMsg{Portfolios: portfolios}
	}
}

// FetchPortfolioDetail loads a portfolio, its cash transactions and its
// holdings concurrently.
func (b *backend) FetchPortfolioDetail(portfolioID int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := b.ctx()
		defer cancel()

		var detail PortfolioDetailMsg
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			p, err := b.api.GetPortfolio(gctx, portfolioID, b.userID)
			if err != nil {
				return err
			}
			detail.Portfolio = *p
			return nil
		})
		g.Go(func() error {
			txs, err := b.api.ListCashTransactions(gctx, portfolioID, b.userID)
			detail.Transactions = txs
			return err
		})
		g.Go(func() error {
			holdings, err := b.api.ListHoldings(gctx, portfolioID, b.userID)
			detail.Holdings = holdings
			return err
		})
		if err := g.Wait(); err != nil {
			return PortfolioDetailErrorMsg{PortfolioID: portfolioID, Err: err}
		}
		return detail
	}
}

// CreateCashTransaction records a deposit or withdrawal.
func (b *backend) CreateCashTransaction(portfolioID int, txType string, amount decimal.Decimal) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := b.ctx()
		defer cancel()

		res, err := b.api.CreateCashTransaction(ctx, portfolioID, txType, amount)
		if err != nil {
			return NoticeMsg{Level: output.LevelError, Text: "Transaction failed: " + describeError(err)}
		}
		return CashTransactionDoneMsg{
			PortfolioID: portfolioID,
			Message:     messageOr(res.Message, "Transaction recorded"),
			NewBalance:  res.NewBalance,
		}
	}
}

// FetchLists returns a command that loads the user's own stock lists.
func (b *backend) FetchLists() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := b.ctx()
		defer cancel()

		lists, err := b.api.MyStockLists(ctx, b.userID)
		if err != nil {
			return ListsErrorMsg{Err: err}
		}
		return ListsLoadedMsg{Lists: lists}
	}
}

// DeleteList returns a command that deletes a stock list.
func (b *backend) DeleteList(listID int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := b.ctx()
		defer cancel()

		msg, err := b.api.DeleteStockList(ctx, listID, b.userID)
		if err != nil {
			return NoticeMsg{Level: output.LevelError, Text: "Delete failed: " + describeError(err)}
		}
		return ListDeletedMsg{ListID: listID, Message: messageOr(msg, "Stock list deleted")}
	}
}

// FetchReviews returns a command that resolves key through the cache,
// calling fetch only when the key has not been loaded this session.
func (b *backend) FetchReviews(cache *fetchcache.Cache[[]Review], key string, fetch func(context.Context) ([]Review, error)) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := b.ctx()
		defer cancel()

		reviews, cached, err := cache.Fetch(ctx, key, fetch)
		if err != nil {
			return ReviewsErrorMsg{Key: key, Err: err}
		}
		b.logger.Debug("reviews loaded", "key", key, "cached", cached, "count", len(reviews))
		return ReviewsLoadedMsg{Key: key, Reviews: reviews, Cached: cached}
	}
}

// listReviewsFetcher fetches the reviews of one stock list.
func (b *backend) listReviewsFetcher(listID int) func(context.Context) ([]Review, error) {
	return func(ctx context.Context) ([]Review, error) {
		resp, err := b.api.ListReviews(ctx, listID, b.userID)
		if err != nil {
			return nil, err
		}
		return resp.Reviews, nil
	}
}

// userReviewsFetcher fetches the reviews the user wrote.
func (b *backend) userReviewsFetcher() func(context.Context) ([]Review, error) {
	return func(ctx context.Context) ([]Review, error) {
		return b.api.UserReviews(ctx, b.userID)
	}
}

// DeleteReview returns a command that deletes one of the user's reviews.
func (b *backend) DeleteReview(reviewID, listID int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := b.ctx()
		defer cancel()

		msg, err := b.api.DeleteReview(ctx, reviewID, b.userID)
		if err != nil {
			return NoticeMsg{Level: output.LevelError, Text: "Delete failed: " + describeError(err)}
		}
		return ReviewDeletedMsg{ReviewID: reviewID, ListID: listID, Message: messageOr(msg, "Review deleted")}
	}
}

// FetchFriends loads friends and received requests concurrently.
func (b *backend) FetchFriends() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := b.ctx()
		defer cancel()

		var loaded FriendsLoadedMsg
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			friends, err := b.api.ListFriends(gctx, b.userID)
			loaded.Friends = friends
			return err
		})
		g.Go(func() error {
			requests, err := b.api.ListFriendRequests(gctx, b.userID)
			loaded.Requests = requests
			return err
		})
		if err := g.Wait(); err != nil {
			return FriendsErrorMsg{Err: err}
		}
		return loaded
	}
}

// RemoveFriend returns a command that removes a friend.
func (b *backend) RemoveFriend(friendID int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := b.ctx()
		defer cancel()

		msg, err := b.api.RemoveFriend(ctx, b.userID, friendID)
		if err != nil {
			return NoticeMsg{Level: output.LevelError, Text: "Remove failed: " + describeError(err)}
		}
		return FriendRemovedMsg{FriendID: friendID, Message: messageOr(msg, "Friend removed")}
	}
}

// ResolveRequest returns a command that accepts or rejects a friend request.
func (b *backend) ResolveRequest(requestID int, accept bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := b.ctx()
		defer cancel()

		var (
			resp *snfsapi.FriendRequestResponse
			err  error
		)
		if accept {
			resp, err = b.api.AcceptFriendRequest(ctx, requestID)
		} else {
			resp, err = b.api.RejectFriendRequest(ctx, requestID)
		}
		if err != nil {
			return NoticeMsg{Level: output.LevelError, Text: "Request failed: " + describeError(err)}
		}

		fallback := "Friend request rejected"
		if accept {
			fallback = "Friend request accepted"
		}
		return RequestResolvedMsg{RequestID: requestID, Accepted: accept, Message: messageOr(resp.Message, fallback)}
	}
}

// saveUIConfig returns a command that persists ui.yaml. An empty path
// disables saving.
func saveUIConfig(path string, cfg *UIConfig) tea.Cmd {
	if path == "" {
		return nil
	}
	snapshot := *cfg
	return func() tea.Msg {
		if err := SaveConfig(path, &snapshot); err != nil {
			return NoticeMsg{Level: output.LevelWarning, Text: "Could not save UI settings: " + err.Error()}
		}
		return UIConfigSavedMsg{}
	}
}
