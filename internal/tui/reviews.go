package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/snfs-app/snfs/internal/fetchcache"
	"github.com/snfs-app/snfs/internal/output"
	"github.com/snfs-app/snfs/internal/validate"
	"github.com/snfs-app/snfs/pkg/snfsapi"
)

// ReviewsMode selects whose reviews are shown.
type ReviewsMode int

const (
	ReviewsModeUser ReviewsMode = iota
	ReviewsModeList
)

func (m ReviewsMode) String() string {
	if m == ReviewsModeList {
		return "list"
	}
	return "mine"
}

// ReviewsModel holds the state for the reviews view. Every fetch goes
// through Cache, so returning to a key seen earlier shows it immediately.
type ReviewsModel struct {
	Mode     ReviewsMode
	ListID   int
	Key      string
	Loading  bool
	Reviews  []Review
	Err      error
	Table    table.Model
	Cache    *fetchcache.Cache[[]Review]
	Entering bool
	Input    textinput.Model
}

// NewReviewsModel creates a reviews model, starting on the given list if
// one was remembered.
func NewReviewsModel(listID int) *ReviewsModel {
	cols := []table.Column{
		{Title: "ID", Width: 6},
		{Title: "Author", Width: 14},
		{Title: "List", Width: 18},
		{Title: "Date", Width: 10},
		{Title: "Review", Width: 44},
	}

	t := table.New(
		table.WithColumns(cols),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	t.SetStyles(TableStyles())

	ti := textinput.New()
	ti.Placeholder = "Stock list ID"
	ti.CharLimit = 10
	ti.Width = 16

	return &ReviewsModel{
		ListID: listID,
		Table:  t,
		Cache:  fetchcache.New[[]Review](),
		Input:  ti,
	}
}

// SetHeight sets the table height.
func (m *ReviewsModel) SetHeight(height int) {
	m.Table.SetHeight(height)
}

// Capturing reports whether the view is consuming all keys.
func (m *ReviewsModel) Capturing() bool {
	return m.Entering
}

// currentKey returns the cache key for the active mode, or "" when list
// mode has no list chosen.
func (m *ReviewsModel) currentKey(b *backend) string {
	if m.Mode == ReviewsModeList {
		if m.ListID == 0 {
			return ""
		}
		return fetchcache.ListReviewsKey(m.ListID, b.userID)
	}
	return fetchcache.UserReviewsKey(b.userID)
}

// Load shows the active key, from the cache when possible.
func (m *ReviewsModel) Load(b *backend) tea.Cmd {
	key := m.currentKey(b)
	m.Key = key
	m.Err = nil
	if key == "" {
		m.Loading = false
		m.Reviews = nil
		m.updateTable()
		return nil
	}

	if reviews, ok := m.Cache.Lookup(key); ok {
		b.logger.Debug("reviews cache hit", "key", key)
		m.Loading = false
		m.Reviews = reviews
		m.updateTable()
		return nil
	}

	m.Loading = true
	fetch := b.userReviewsFetcher()
	if m.Mode == ReviewsModeList {
		fetch = b.listReviewsFetcher(m.ListID)
	}
	return b.FetchReviews(m.Cache, key, fetch)
}

// Refresh forgets the active key and fetches it again.
func (m *ReviewsModel) Refresh(b *backend) tea.Cmd {
	if key := m.currentKey(b); key != "" {
		m.Cache.Invalidate(key)
	}
	return m.Load(b)
}

// Update handles messages for the reviews view.
// Returns the model, command, and whether the event was handled.
func (m *ReviewsModel) Update(msg tea.Msg, b *backend) (*ReviewsModel, tea.Cmd, bool) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case ReviewsLoadedMsg:
		// A response for a key we already left stays in the cache only
		if msg.Key != m.Key {
			return m, nil, true
		}
		m.Loading = false
		m.Reviews = msg.Reviews
		m.Err = nil
		m.updateTable()
		return m, nil, true

	case ReviewsErrorMsg:
		if msg.Key != m.Key {
			return m, nil, true
		}
		m.Loading = false
		m.Err = msg.Err
		return m, nil, true

	case ReviewDeletedMsg:
		m.removeReview(msg, b)
		return m, notify(output.LevelSuccess, msg.Message), true

	case ListDeletedMsg:
		m.forgetList(msg.ListID, b)
		return m, nil, true

	case tea.KeyMsg:
		if m.Entering {
			switch msg.String() {
			case "enter":
				id, err := validate.ID("list id", m.Input.Value())
				if err != nil {
					return m, notify(output.LevelError, err.Error()), true
				}
				m.Entering = false
				m.Input.Reset()
				m.Input.Blur()
				m.Mode = ReviewsModeList
				m.ListID = id
				return m, m.Load(b), true
			case "esc":
				m.Entering = false
				m.Input.Reset()
				m.Input.Blur()
				return m, nil, true
			default:
				m.Input, cmd = m.Input.Update(msg)
				return m, cmd, true
			}
		}

		switch msg.String() {
		case "m":
			if m.Mode == ReviewsModeUser {
				m.Mode = ReviewsModeList
			} else {
				m.Mode = ReviewsModeUser
			}
			return m, m.Load(b), true
		case "/":
			m.Entering = true
			m.Input.Focus()
			return m, textinput.Blink, true
		case "x", "d":
			r := m.SelectedReview()
			if r == nil {
				return m, nil, true
			}
			if r.UserID != b.userID {
				return m, notify(output.LevelWarning, "You can only delete your own reviews"), true
			}
			return m, b.DeleteReview(r.ReviewID, r.ListID), true
		}
	}

	m.Table, cmd = m.Table.Update(msg)
	return m, cmd, false
}

// removeReview drops a deleted review from the rows and from both cached
// keys that can hold it.
func (m *ReviewsModel) removeReview(msg ReviewDeletedMsg, b *backend) {
	without := func(reviews []Review) []Review {
		kept := make([]Review, 0, len(reviews))
		for _, r := range reviews {
			if r.ReviewID != msg.ReviewID {
				kept = append(kept, r)
			}
		}
		return kept
	}

	for _, key := range []string{
		fetchcache.UserReviewsKey(b.userID),
		fetchcache.ListReviewsKey(msg.ListID, b.userID),
	} {
		if cached, ok := m.Cache.Lookup(key); ok {
			m.Cache.Set(key, without(cached))
		}
	}
	m.Reviews = without(m.Reviews)
	m.updateTable()
}

// forgetList drops everything cached about a deleted list. Reviews of the
// list go with it, so they are also removed from the user's own reviews.
func (m *ReviewsModel) forgetList(listID int, b *backend) {
	m.Cache.Invalidate(fetchcache.ListReviewsKey(listID, b.userID))

	userKey := fetchcache.UserReviewsKey(b.userID)
	if cached, ok := m.Cache.Lookup(userKey); ok {
		m.Cache.Set(userKey, withoutList(cached, listID))
	}

	switch {
	case m.Mode == ReviewsModeUser:
		m.Reviews = withoutList(m.Reviews, listID)
	case m.ListID == listID:
		m.Key = ""
		m.Reviews = nil
		m.Loading = false
	}
	if m.ListID == listID {
		m.ListID = 0
	}
	m.updateTable()
}

func withoutList(reviews []Review, listID int) []Review {
	kept := make([]Review, 0, len(reviews))
	for _, r := range reviews {
		if r.ListID != listID {
			kept = append(kept, r)
		}
	}
	return kept
}

// SelectedReview returns the highlighted review, if any.
func (m *ReviewsModel) SelectedReview() *Review {
	idx := m.Table.Cursor()
	if idx >= 0 && idx < len(m.Reviews) {
		return &m.Reviews[idx]
	}
	return nil
}

func (m *ReviewsModel) updateTable() {
	rows := make([]table.Row, 0, len(m.Reviews))
	for _, r := range m.Reviews {
		author := r.Username
		if author == "" {
			author = "#" + strconv.Itoa(r.UserID)
		}
		list := r.ListName
		if list == "" {
			list = "#" + strconv.Itoa(r.ListID)
		}
		rows = append(rows, table.Row{
			strconv.Itoa(r.ReviewID),
			author,
			list,
			snfsapi.FormatDate(r.Timestamp),
			preview(r.Content, 44),
		})
	}
	m.Table.SetRows(rows)
	if m.Table.Cursor() >= len(rows) && len(rows) > 0 {
		m.Table.SetCursor(len(rows) - 1)
	}
}

// preview flattens content to one line of at most n runes.
func preview(content string, n int) string {
	flat := strings.Join(strings.Fields(content), " ")
	runes := []rune(flat)
	if len(runes) <= n {
		return flat
	}
	return string(runes[:n-1]) + "…"
}

// View renders the reviews view.
func (m *ReviewsModel) View() string {
	var b strings.Builder

	title := "My Reviews"
	if m.Mode == ReviewsModeList {
		title = "Reviews of list"
		if m.ListID != 0 {
			title = fmt.Sprintf("Reviews of list #%d", m.ListID)
		}
	}
	b.WriteString(SummaryStyle.Render(title))
	if !m.Loading && m.Key != "" && m.Err == nil {
		b.WriteString(LabelStyle.Render(fmt.Sprintf(" (%d)", len(m.Reviews))))
	}
	b.WriteString("\n\n")

	if m.Entering {
		b.WriteString(InputStyle.Render(m.Input.View()))
		b.WriteString("\n\n")
	}

	switch {
	case m.Mode == ReviewsModeList && m.ListID == 0:
		b.WriteString(LabelStyle.Render("Press / to choose a stock list"))
	case m.Loading:
		b.WriteString("Loading reviews...")
	case m.Err != nil:
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", m.Err)))
		b.WriteString("\n\nPress 'r' to retry")
	case len(m.Reviews) == 0:
		b.WriteString(LabelStyle.Render("No reviews"))
	default:
		b.WriteString(m.Table.View())
	}

	return b.String()
}
