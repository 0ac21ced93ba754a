// Package tui implements the interactive terminal views of snfs.
package tui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/snfs-app/snfs/internal/config"
	"github.com/snfs-app/snfs/internal/output"
	"github.com/snfs-app/snfs/internal/session"
)

// View represents the current active view in the TUI.
type View int

const (
	ViewPortfolios View = iota
	ViewLists
	ViewReviews
	ViewFriends
)

// Options carries what the TUI needs from the command that launches it.
type Options struct {
	Config       *config.Config
	UIConfig     *UIConfig
	UIConfigPath string
	API          API
	Session      *session.Session
	Logger       *slog.Logger
}

// Model is the main bubbletea model for the TUI.
type Model struct {
	currentView View
	width       int
	height      int
	ready       bool

	username    string
	uiCfg       *UIConfig
	uiCfgPath   string
	backend     *backend
	notice      *NoticeMsg
	loadedViews map[View]bool

	// Child view models
	portfolio *PortfolioModel
	lists     *ListsModel
	reviews   *ReviewsModel
	friends   *FriendsModel

	// Refresh settings
	refreshInterval time.Duration
}

// New creates a new TUI model.
func New(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	uiCfg := opts.UIConfig
	if uiCfg == nil {
		uiCfg = &UIConfig{}
	}
	refresh := cfg.RefreshInterval()
	if refresh <= 0 {
		refresh = config.DefaultRefreshSeconds * time.Second
	}

	return Model{
		currentView:     viewFromName(uiCfg.StartView),
		username:        opts.Session.Username,
		uiCfg:           uiCfg,
		uiCfgPath:       opts.UIConfigPath,
		backend:         newBackend(opts.API, opts.Session.UserID, cfg.Timeout(), opts.Logger),
		loadedViews:     make(map[View]bool),
		portfolio:       NewPortfolioModel(),
		lists:           NewListsModel(),
		reviews:         NewReviewsModel(uiCfg.ReviewListID),
		friends:         NewFriendsModel(),
		refreshInterval: refresh,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.load(m.currentView),
		m.tickCmd(),
	)
}

// tickCmd returns a command that sends a tick message after the refresh interval.
func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.refreshInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// load returns the first fetch for a view; later visits reuse what is shown.
func (m Model) load(v View) tea.Cmd {
	if m.loadedViews[v] {
		return nil
	}
	m.loadedViews[v] = true
	switch v {
	case ViewPortfolios:
		return m.backend.FetchPortfolios()
	case ViewLists:
		return m.backend.FetchLists()
	case ViewReviews:
		return m.reviews.Load(m.backend)
	case ViewFriends:
		return m.backend.FetchFriends()
	}
	return nil
}

// refresh reloads the active view.
func (m Model) refresh() tea.Cmd {
	switch m.currentView {
	case ViewPortfolios:
		return m.portfolio.Refresh(m.backend)
	case ViewLists:
		return m.backend.FetchLists()
	case ViewReviews:
		return m.reviews.Refresh(m.backend)
	case ViewFriends:
		return m.backend.FetchFriends()
	}
	return nil
}

// capturing reports whether the active view is in an input mode that
// consumes all keys.
func (m Model) capturing() bool {
	switch m.currentView {
	case ViewPortfolios:
		return m.portfolio.Capturing()
	case ViewLists:
		return m.lists.Capturing()
	case ViewReviews:
		return m.reviews.Capturing()
	}
	return false
}

// busy reports whether the active view is still waiting on a load.
func (m Model) busy() bool {
	switch m.currentView {
	case ViewPortfolios:
		return m.portfolio.Busy()
	case ViewLists:
		return m.lists.State == ListsStateLoading
	case ViewReviews:
		return m.reviews.Loading
	case ViewFriends:
		return m.friends.State == FriendsStateLoading
	}
	return false
}

// switchView activates v and loads it on first visit.
func (m *Model) switchView(v View) tea.Cmd {
	if m.currentView == v {
		return nil
	}
	m.currentView = v
	m.notice = nil
	return m.load(v)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Input modes consume all keys
		if m.capturing() {
			return m, m.updateActive(msg)
		}

		// Handle global keys
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "1":
			return m, m.switchView(ViewPortfolios)
		case "2":
			return m, m.switchView(ViewLists)
		case "3":
			return m, m.switchView(ViewReviews)
		case "4":
			return m, m.switchView(ViewFriends)
		case "r":
			m.notice = nil
			return m, m.refresh()
		}
		return m, m.updateActive(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		// Resize tables to fit content area
		headerHeight := 1
		footerHeight := 2
		tableHeight := m.height - headerHeight - footerHeight - 8
		if tableHeight < 3 {
			tableHeight = 3
		}
		m.portfolio.SetHeight(tableHeight)
		m.lists.SetHeight(tableHeight)
		m.reviews.SetHeight(tableHeight)
		m.friends.SetHeight(tableHeight)

	case NoticeMsg:
		m.notice = &msg

	case UIConfigSavedMsg:
		// nothing to show

	case PortfoliosLoadedMsg, PortfolioDetailMsg, CashTransactionDoneMsg:
		m.portfolio, cmd, _ = m.portfolio.Update(msg, m.backend)
		cmds = append(cmds, cmd)

	case PortfoliosErrorMsg:
		m.portfolio, cmd, _ = m.portfolio.Update(msg, m.backend)
		cmds = append(cmds, cmd, notify(output.LevelError, "Could not load portfolios: "+describeError(msg.Err)))

	case PortfolioDetailErrorMsg:
		m.portfolio, cmd, _ = m.portfolio.Update(msg, m.backend)
		cmds = append(cmds, cmd, notify(output.LevelError, "Could not load portfolio: "+describeError(msg.Err)))

	case ListsLoadedMsg:
		m.lists, cmd, _ = m.lists.Update(msg, m.backend)
		cmds = append(cmds, cmd)

	case ListDeletedMsg:
		m.lists, cmd, _ = m.lists.Update(msg, m.backend)
		cmds = append(cmds, cmd)
		m.reviews, _, _ = m.reviews.Update(msg, m.backend)

	case ListsErrorMsg:
		m.lists, cmd, _ = m.lists.Update(msg, m.backend)
		cmds = append(cmds, cmd, notify(output.LevelError, "Could not load stock lists: "+describeError(msg.Err)))

	case ReviewsLoadedMsg, ReviewDeletedMsg:
		m.reviews, cmd, _ = m.reviews.Update(msg, m.backend)
		cmds = append(cmds, cmd)

	case ReviewsErrorMsg:
		m.reviews, cmd, _ = m.reviews.Update(msg, m.backend)
		cmds = append(cmds, cmd, notify(output.LevelError, "Could not load reviews: "+describeError(msg.Err)))

	case FriendsLoadedMsg, FriendRemovedMsg, RequestResolvedMsg:
		m.friends, cmd, _ = m.friends.Update(msg, m.backend)
		cmds = append(cmds, cmd)

	case FriendsErrorMsg:
		m.friends, cmd, _ = m.friends.Update(msg, m.backend)
		cmds = append(cmds, cmd, notify(output.LevelError, "Could not load friends: "+describeError(msg.Err)))

	case TickMsg:
		// Auto-refresh the active view unless the user is typing or a load is pending
		if !m.capturing() && !m.busy() {
			cmds = append(cmds, m.refresh())
		}
		cmds = append(cmds, m.tickCmd())
	}

	return m, tea.Batch(cmds...)
}

// updateActive forwards a key to the active view.
func (m *Model) updateActive(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	switch m.currentView {
	case ViewPortfolios:
		m.portfolio, cmd, _ = m.portfolio.Update(msg, m.backend)
	case ViewLists:
		m.lists, cmd, _ = m.lists.Update(msg, m.backend)
	case ViewReviews:
		before := m.reviews.ListID
		m.reviews, cmd, _ = m.reviews.Update(msg, m.backend)
		if m.reviews.ListID != before {
			m.uiCfg.ReviewListID = m.reviews.ListID
			cmd = tea.Batch(cmd, saveUIConfig(m.uiCfgPath, m.uiCfg))
		}
	case ViewFriends:
		m.friends, cmd, _ = m.friends.Update(msg, m.backend)
	}
	return cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.renderHeader()
	footer := m.renderFooter()
	content := m.renderContent()

	// Calculate content height
	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight

	// Pad content to fill available space
	contentLines := strings.Split(content, "\n")
	for len(contentLines) < contentHeight {
		contentLines = append(contentLines, "")
	}
	if contentHeight > 0 && len(contentLines) > contentHeight {
		contentLines = contentLines[:contentHeight]
	}
	content = strings.Join(contentLines, "\n")

	return header + "\n" + content + "\n" + footer
}

// renderHeader renders the header bar.
func (m Model) renderHeader() string {
	title := HeaderStyle.Render("snfs")

	tabs := []struct {
		name   string
		key    string
		active bool
	}{
		{"Portfolios", "1", m.currentView == ViewPortfolios},
		{"Stock Lists", "2", m.currentView == ViewLists},
		{"Reviews", "3", m.currentView == ViewReviews},
		{"Friends", "4", m.currentView == ViewFriends},
	}

	var tabStrs []string
	for _, tab := range tabs {
		style := lipgloss.NewStyle().Padding(0, 1)
		if tab.active {
			style = style.Bold(true).Foreground(ColorPrimary)
		} else {
			style = style.Foreground(ColorMuted)
		}
		tabStrs = append(tabStrs, style.Render(fmt.Sprintf("[%s] %s", tab.key, tab.name)))
	}

	tabBar := strings.Join(tabStrs, " ")
	headerContent := title + "  " + tabBar
	if m.username != "" {
		headerContent += "  " + DescStyle.Render(m.username)
	}

	// Pad to full width
	padding := m.width - lipgloss.Width(headerContent)
	if padding > 0 {
		headerContent += strings.Repeat(" ", padding)
	}

	return lipgloss.NewStyle().
		Background(ColorBackground).
		Width(m.width).
		Render(headerContent)
}

// renderContent renders the main content area.
func (m Model) renderContent() string {
	var content string
	switch m.currentView {
	case ViewPortfolios:
		content = m.portfolio.View()
	case ViewLists:
		content = m.lists.View()
	case ViewReviews:
		content = m.reviews.View()
	case ViewFriends:
		content = m.friends.View()
	}
	return ContentStyle.Render(content)
}

type keyHint struct{ key, desc string }

// keyHints lists the keys that act in the current state.
func (m Model) keyHints() []keyHint {
	keys := []keyHint{{"1-4", "switch view"}}

	switch m.currentView {
	case ViewPortfolios:
		switch m.portfolio.Mode {
		case PortfolioModeList:
			keys = append(keys, keyHint{"↑/↓", "navigate"}, keyHint{"enter", "open"})
		case PortfolioModeDetail:
			keys = append(keys, keyHint{"d", "deposit"}, keyHint{"w", "withdraw"}, keyHint{"esc", "back"})
		case PortfolioModeAmount:
			return []keyHint{{"enter", "submit"}, {"esc", "cancel"}}
		}
	case ViewLists:
		if m.lists.Mode == ListsModeDeleting {
			return []keyHint{{"y", "confirm"}, {"n", "cancel"}}
		}
		keys = append(keys, keyHint{"↑/↓", "navigate"}, keyHint{"x", "delete"})
	case ViewReviews:
		if m.reviews.Entering {
			return []keyHint{{"enter", "open list"}, {"esc", "cancel"}}
		}
		keys = append(keys,
			keyHint{"m", "mode: " + m.reviews.Mode.String()},
			keyHint{"/", "choose list"},
			keyHint{"x", "delete"})
	case ViewFriends:
		keys = append(keys, keyHint{"tab", "switch table"})
		if m.friends.Focus == FocusFriends {
			keys = append(keys, keyHint{"x", "remove"})
		} else {
			keys = append(keys, keyHint{"a", "accept"}, keyHint{"n", "reject"})
		}
	}

	return append(keys, keyHint{"r", "refresh"}, keyHint{"q", "quit"})
}

// renderFooter renders the notice line and the key hints.
func (m Model) renderFooter() string {
	var parts []string
	for _, k := range m.keyHints() {
		parts = append(parts, KeyStyle.Render(k.key)+" "+DescStyle.Render(k.desc))
	}

	footerContent := strings.Join(parts, "  •  ")

	// Pad to full width
	padding := m.width - lipgloss.Width(footerContent)
	if padding > 0 {
		footerContent += strings.Repeat(" ", padding)
	}

	bar := lipgloss.NewStyle().
		Background(ColorBackground).
		Width(m.width).
		Render(footerContent)

	return m.renderNotice() + "\n" + bar
}

// renderNotice renders the latest notice, or an empty line.
func (m Model) renderNotice() string {
	if m.notice == nil {
		return ""
	}
	text := m.notice.Level.Symbol() + " " + m.notice.Text
	return NoticeStyle(m.notice.Level).Render(text)
}
