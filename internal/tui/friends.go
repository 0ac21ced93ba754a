package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/snfs-app/snfs/internal/output"
	"github.com/snfs-app/snfs/pkg/snfsapi"
)

// FriendsState represents the loading state of friends data.
type FriendsState int

const (
	FriendsStateLoading FriendsState = iota
	FriendsStateLoaded
	FriendsStateError
)

// FriendsFocus selects which table receives keys.
type FriendsFocus int

const (
	FocusFriends FriendsFocus = iota
	FocusRequests
)

// FriendsModel holds the state for the friends view.
type FriendsModel struct {
	State         FriendsState
	Friends       []Friend
	Requests      []FriendRequest
	Err           error
	LastUpdated   time.Time
	Focus         FriendsFocus
	FriendsTable  table.Model
	RequestsTable table.Model
}

// NewFriendsModel creates a new friends model.
func NewFriendsModel() *FriendsModel {
	ft := table.New(
		table.WithColumns([]table.Column{
			{Title: "Username", Width: 18},
			{Title: "User ID", Width: 8},
			{Title: "Friends Since", Width: 16},
		}),
		table.WithFocused(true),
		table.WithHeight(8),
	)
	ft.SetStyles(TableStyles())

	rt := table.New(
		table.WithColumns([]table.Column{
			{Title: "Request", Width: 8},
			{Title: "From", Width: 18},
			{Title: "Sent", Width: 16},
		}),
		table.WithHeight(5),
	)
	rt.SetStyles(TableStyles())

	return &FriendsModel{
		State:         FriendsStateLoading,
		FriendsTable:  ft,
		RequestsTable: rt,
	}
}

// SetHeight splits the available height between the two tables.
func (m *FriendsModel) SetHeight(height int) {
	friends := height * 3 / 5
	if friends < 3 {
		friends = 3
	}
	requests := height - friends - 3
	if requests < 3 {
		requests = 3
	}
	m.FriendsTable.SetHeight(friends)
	m.RequestsTable.SetHeight(requests)
}

// Update handles messages for the friends view.
// Returns the model, command, and whether the event was handled.
func (m *FriendsModel) Update(msg tea.Msg, b *backend) (*FriendsModel, tea.Cmd, bool) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case FriendsLoadedMsg:
		m.State = FriendsStateLoaded
		m.Friends = msg.Friends
		m.Requests = pendingOnly(msg.Requests)
		m.LastUpdated = time.Now()
		m.Err = nil
		m.updateTables()
		return m, nil, true

	case FriendsErrorMsg:
		m.Err = msg.Err
		if m.State == FriendsStateLoading && m.Friends == nil {
			m.State = FriendsStateError
		}
		return m, nil, true

	case FriendRemovedMsg:
		kept := make([]Friend, 0, len(m.Friends))
		for _, f := range m.Friends {
			if f.FriendID != msg.FriendID {
				kept = append(kept, f)
			}
		}
		m.Friends = kept
		m.updateTables()
		return m, notify(output.LevelSuccess, msg.Message), true

	case RequestResolvedMsg:
		kept := make([]FriendRequest, 0, len(m.Requests))
		for _, r := range m.Requests {
			if r.RequestID != msg.RequestID {
				kept = append(kept, r)
				continue
			}
			if msg.Accepted {
				m.Friends = append(m.Friends, Friend{
					FriendID: r.SenderID(),
					Username: r.SenderName(),
					Since:    time.Now().UTC().Format(time.RFC3339),
				})
			}
		}
		m.Requests = kept
		m.updateTables()
		return m, notify(output.LevelSuccess, msg.Message), true

	case tea.KeyMsg:
		switch msg.String() {
		case "tab":
			m.toggleFocus()
			return m, nil, true
		case "x", "d":
			if m.Focus != FocusFriends {
				return m, nil, true
			}
			if f := m.SelectedFriend(); f != nil {
				return m, b.RemoveFriend(f.FriendID), true
			}
			return m, nil, true
		case "a", "n":
			if m.Focus != FocusRequests {
				return m, nil, true
			}
			if r := m.SelectedRequest(); r != nil {
				return m, b.ResolveRequest(r.RequestID, msg.String() == "a"), true
			}
			return m, nil, true
		}
	}

	if m.Focus == FocusRequests {
		m.RequestsTable, cmd = m.RequestsTable.Update(msg)
	} else {
		m.FriendsTable, cmd = m.FriendsTable.Update(msg)
	}
	return m, cmd, false
}

func (m *FriendsModel) toggleFocus() {
	if m.Focus == FocusFriends {
		m.Focus = FocusRequests
		m.FriendsTable.Blur()
		m.RequestsTable.Focus()
		return
	}
	m.Focus = FocusFriends
	m.RequestsTable.Blur()
	m.FriendsTable.Focus()
}

// pendingOnly keeps requests that can still be answered.
func pendingOnly(requests []FriendRequest) []FriendRequest {
	out := make([]FriendRequest, 0, len(requests))
	for _, r := range requests {
		if r.Status == "" || r.Status == snfsapi.RequestPending {
			out = append(out, r)
		}
	}
	return out
}

// SelectedFriend returns the highlighted friend, if any.
func (m *FriendsModel) SelectedFriend() *Friend {
	idx := m.FriendsTable.Cursor()
	if idx >= 0 && idx < len(m.Friends) {
		return &m.Friends[idx]
	}
	return nil
}

// SelectedRequest returns the highlighted request, if any.
func (m *FriendsModel) SelectedRequest() *FriendRequest {
	idx := m.RequestsTable.Cursor()
	if idx >= 0 && idx < len(m.Requests) {
		return &m.Requests[idx]
	}
	return nil
}

func (m *FriendsModel) updateTables() {
	friends := make([]table.Row, 0, len(m.Friends))
	for _, f := range m.Friends {
		friends = append(friends, table.Row{
			f.Username,
			strconv.Itoa(f.FriendID),
			snfsapi.FormatDate(f.Since),
		})
	}
	m.FriendsTable.SetRows(friends)
	if c := m.FriendsTable.Cursor(); c >= len(friends) && len(friends) > 0 {
		m.FriendsTable.SetCursor(len(friends) - 1)
	}

	requests := make([]table.Row, 0, len(m.Requests))
	for _, r := range m.Requests {
		from := r.SenderName()
		if from == "" {
			from = "#" + strconv.Itoa(r.SenderID())
		}
		requests = append(requests, table.Row{
			strconv.Itoa(r.RequestID),
			from,
			snfsapi.FormatTimestamp(r.Timestamp),
		})
	}
	m.RequestsTable.SetRows(requests)
	if c := m.RequestsTable.Cursor(); c >= len(requests) && len(requests) > 0 {
		m.RequestsTable.SetCursor(len(requests) - 1)
	}
}

// View renders the friends view.
func (m *FriendsModel) View() string {
	var b strings.Builder

	switch m.State {
	case FriendsStateLoading:
		b.WriteString("Loading friends...")
		return b.String()

	case FriendsStateError:
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", m.Err)))
		b.WriteString("\n\nPress 'r' to retry")
		return b.String()
	}

	b.WriteString(SummaryStyle.Render("Friends"))
	b.WriteString(LabelStyle.Render(fmt.Sprintf(" (%d)", len(m.Friends))))
	b.WriteString("\n")
	if len(m.Friends) == 0 {
		b.WriteString(LabelStyle.Render("No friends yet. Send a request with: snfs requests send USER_ID"))
	} else {
		b.WriteString(m.FriendsTable.View())
	}
	b.WriteString("\n\n")

	b.WriteString(SummaryStyle.Render("Friend Requests"))
	b.WriteString(LabelStyle.Render(fmt.Sprintf(" (%d)", len(m.Requests))))
	b.WriteString("\n")
	if len(m.Requests) == 0 {
		b.WriteString(LabelStyle.Render("No pending requests"))
	} else {
		b.WriteString(m.RequestsTable.View())
	}
	b.WriteString("\n")
	b.WriteString(LabelStyle.Render(fmt.Sprintf("Updated: %s", m.LastUpdated.Format("3:04:05 PM"))))

	return b.String()
}
