package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/snfs-app/snfs/internal/output"
)

// ListsState represents the loading state of stock list data.
type ListsState int

const (
	ListsStateLoading ListsState = iota
	ListsStateLoaded
	ListsStateError
)

// ListsMode represents the input mode of the stock lists view.
type ListsMode int

const (
	ListsModeNormal ListsMode = iota
	ListsModeDeleting
)

// ListsModel holds the state for the user's stock lists.
type ListsModel struct {
	State       ListsState
	Lists       []StockList
	Err         error
	LastUpdated time.Time
	Table       table.Model
	Mode        ListsMode
	DeleteID    int
	DeleteName  string
}

// NewListsModel creates a new stock lists model.
func NewListsModel() *ListsModel {
	cols := []table.Column{
		{Title: "ID", Width: 6},
		{Title: "Name", Width: 24},
		{Title: "Visibility", Width: 10},
		{Title: "Stocks", Width: 7},
	}

	t := table.New(
		table.WithColumns(cols),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	t.SetStyles(TableStyles())

	return &ListsModel{
		State: ListsStateLoading,
		Table: t,
	}
}

// SetHeight sets the table height.
func (m *ListsModel) SetHeight(height int) {
	m.Table.SetHeight(height)
}

// Capturing reports whether the view is consuming all keys.
func (m *ListsModel) Capturing() bool {
	return m.Mode == ListsModeDeleting
}

// Update handles messages for the stock lists view.
// Returns the model, command, and whether the event was handled.
func (m *ListsModel) Update(msg tea.Msg, b *backend) (*ListsModel, tea.Cmd, bool) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case ListsLoadedMsg:
		m.State = ListsStateLoaded
		m.Lists = msg.Lists
		m.LastUpdated = time.Now()
		m.Err = nil
		m.updateTable()
		return m, nil, true

	case ListsErrorMsg:
		m.Err = msg.Err
		if m.State == ListsStateLoading && m.Lists == nil {
			m.State = ListsStateError
		}
		return m, nil, true

	case ListDeletedMsg:
		// Remove the deleted list from our rows; no reload needed
		kept := make([]StockList, 0, len(m.Lists))
		for _, l := range m.Lists {
			if l.ListID != msg.ListID {
				kept = append(kept, l)
			}
		}
		m.Lists = kept
		m.updateTable()
		if m.Table.Cursor() >= len(m.Lists) && len(m.Lists) > 0 {
			m.Table.SetCursor(len(m.Lists) - 1)
		}
		return m, notify(output.LevelSuccess, msg.Message), true

	case tea.KeyMsg:
		switch m.Mode {
		case ListsModeDeleting:
			switch msg.String() {
			case "y", "Y":
				id := m.DeleteID
				m.Mode = ListsModeNormal
				m.DeleteID = 0
				m.DeleteName = ""
				return m, b.DeleteList(id), true
			case "n", "N", "esc":
				m.Mode = ListsModeNormal
				m.DeleteID = 0
				m.DeleteName = ""
				return m, nil, true
			}
			return m, nil, true

		case ListsModeNormal:
			switch msg.String() {
			case "x", "d":
				if l := m.SelectedList(); l != nil {
					m.DeleteID = l.ListID
					m.DeleteName = l.Name
					m.Mode = ListsModeDeleting
				}
				return m, nil, true
			}
		}
	}

	// Pass to table in normal mode
	if m.Mode == ListsModeNormal {
		m.Table, cmd = m.Table.Update(msg)
		return m, cmd, false
	}

	return m, nil, false
}

// SelectedList returns the highlighted list, if any.
func (m *ListsModel) SelectedList() *StockList {
	idx := m.Table.Cursor()
	if idx >= 0 && idx < len(m.Lists) {
		return &m.Lists[idx]
	}
	return nil
}

// updateTable updates the table rows from stock list data.
func (m *ListsModel) updateTable() {
	rows := make([]table.Row, 0, len(m.Lists))
	for _, l := range m.Lists {
		rows = append(rows, table.Row{
			strconv.Itoa(l.ListID),
			l.Name,
			l.Visibility,
			strconv.Itoa(len(l.Items)),
		})
	}
	m.Table.SetRows(rows)
}

// View renders the stock lists view.
func (m *ListsModel) View() string {
	var b strings.Builder

	// Handle delete confirmation mode
	if m.Mode == ListsModeDeleting {
		b.WriteString(WarningStyle.Render(fmt.Sprintf("Delete stock list %q?", m.DeleteName)))
		b.WriteString("\n\n")
		b.WriteString(LabelStyle.Render("Its items, shares and reviews are removed too."))
		b.WriteString("\n\n")
		b.WriteString(LabelStyle.Render("Press Y to confirm, N to cancel"))
		return b.String()
	}

	switch m.State {
	case ListsStateLoading:
		b.WriteString("Loading stock lists...")
		return b.String()

	case ListsStateError:
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", m.Err)))
		b.WriteString("\n\nPress 'r' to retry")
		return b.String()

	case ListsStateLoaded:
		b.WriteString(SummaryStyle.Render("My Stock Lists"))
		b.WriteString(LabelStyle.Render(fmt.Sprintf(" (%d)", len(m.Lists))))
		b.WriteString("\n\n")

		if len(m.Lists) == 0 {
			b.WriteString(LabelStyle.Render("No stock lists"))
			b.WriteString("\n\n")
			b.WriteString(LabelStyle.Render("Create one with: snfs lists create NAME"))
		} else {
			b.WriteString(m.Table.View())
			b.WriteString("\n")
			b.WriteString(LabelStyle.Render(fmt.Sprintf("Updated: %s", m.LastUpdated.Format("3:04:05 PM"))))
		}
	}

	return b.String()
}
