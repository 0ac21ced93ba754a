package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/snfs-app/snfs/internal/output"
	"github.com/snfs-app/snfs/internal/validate"
	"github.com/snfs-app/snfs/pkg/snfsapi"
)

// PortfolioState represents the loading state of portfolio data.
type PortfolioState int

const (
	PortfolioStateLoading PortfolioState = iota
	PortfolioStateLoaded
	PortfolioStateError
)

// PortfolioMode represents what the portfolio view is showing.
type PortfolioMode int

const (
	PortfolioModeList PortfolioMode = iota
	PortfolioModeDetail
	PortfolioModeAmount
)

// PortfolioDetail is the opened portfolio.
type PortfolioDetail struct {
	State        PortfolioState
	Portfolio    Portfolio
	Transactions []CashTransaction
	Holdings     []Holding
	Err          error
}

// PortfolioModel holds the state for the portfolio view.
type PortfolioModel struct {
	State       PortfolioState
	Portfolios  []Portfolio
	Err         error
	LastUpdated time.Time
	Table       table.Model

	Mode          PortfolioMode
	SelectedID    int
	Detail        PortfolioDetail
	HoldingsTable table.Model
	AmountInput   textinput.Model
	CashType      string
}

// NewPortfolioModel creates a new portfolio model.
func NewPortfolioModel() *PortfolioModel {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "ID", Width: 6},
			{Title: "Name", Width: 24},
			{Title: "Balance", Width: 14},
		}),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	t.SetStyles(TableStyles())

	h := table.New(
		table.WithColumns([]table.Column{
			{Title: "Symbol", Width: 8},
			{Title: "Company", Width: 22},
			{Title: "Shares", Width: 8},
			{Title: "Price", Width: 12},
			{Title: "Value", Width: 14},
		}),
		table.WithFocused(true),
		table.WithHeight(8),
	)
	h.SetStyles(TableStyles())

	ti := textinput.New()
	ti.Placeholder = "Amount (e.g., 250.00)"
	ti.CharLimit = 16
	ti.Width = 20

	return &PortfolioModel{
		State:         PortfolioStateLoading,
		Table:         t,
		HoldingsTable: h,
		AmountInput:   ti,
	}
}

// SetHeight sets the table height.
func (m *PortfolioModel) SetHeight(height int) {
	m.Table.SetHeight(height)
	detailHeight := height - 8
	if detailHeight < 3 {
		detailHeight = 3
	}
	m.HoldingsTable.SetHeight(detailHeight)
}

// Capturing reports whether the view is consuming all keys.
func (m *PortfolioModel) Capturing() bool {
	return m.Mode == PortfolioModeAmount
}

// Refresh returns the command that reloads whatever the view is showing.
func (m *PortfolioModel) Refresh(b *backend) tea.Cmd {
	if m.Mode == PortfolioModeList {
		return b.FetchPortfolios()
	}
	return b.FetchPortfolioDetail(m.SelectedID)
}

// Busy reports whether a load is in flight.
func (m *PortfolioModel) Busy() bool {
	if m.Mode == PortfolioModeList {
		return m.State == PortfolioStateLoading
	}
	return m.Detail.State == PortfolioStateLoading
}

// Update handles messages for the portfolio view.
// Returns the model, command, and whether the event was handled.
func (m *PortfolioModel) Update(msg tea.Msg, b *backend) (*PortfolioModel, tea.Cmd, bool) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case PortfoliosLoadedMsg:
		m.State = PortfolioStateLoaded
		m.Portfolios = msg.Portfolios
		m.LastUpdated = time.Now()
		m.Err = nil
		m.updateTable()
		return m, nil, true

	case PortfoliosErrorMsg:
		m.Err = msg.Err
		if m.State == PortfolioStateLoading && m.Portfolios == nil {
			m.State = PortfolioStateError
		}
		return m, nil, true

	case PortfolioDetailMsg:
		if msg.Portfolio.PortfolioID != m.SelectedID {
			return m, nil, true
		}
		m.Detail = PortfolioDetail{
			State:        PortfolioStateLoaded,
			Portfolio:    msg.Portfolio,
			Transactions: msg.Transactions,
			Holdings:     msg.Holdings,
		}
		m.updateHoldingsTable()
		m.patchBalance(msg.Portfolio.PortfolioID, msg.Portfolio)
		return m, nil, true

	case PortfolioDetailErrorMsg:
		if msg.PortfolioID != m.SelectedID {
			return m, nil, true
		}
		m.Detail.Err = msg.Err
		if m.Detail.State == PortfolioStateLoading {
			m.Detail.State = PortfolioStateError
		}
		return m, nil, true

	case CashTransactionDoneMsg:
		for i := range m.Portfolios {
			if m.Portfolios[i].PortfolioID == msg.PortfolioID {
				m.Portfolios[i].Balance = msg.NewBalance
			}
		}
		m.updateTable()
		cmds := []tea.Cmd{notify(output.LevelSuccess, msg.Message)}
		if m.Mode != PortfolioModeList && m.SelectedID == msg.PortfolioID {
			m.Detail.Portfolio.Balance = msg.NewBalance
			cmds = append(cmds, b.FetchPortfolioDetail(msg.PortfolioID))
		}
		return m, tea.Batch(cmds...), true

	case tea.KeyMsg:
		switch m.Mode {
		case PortfolioModeAmount:
			switch msg.String() {
			case "enter":
				return m, m.submitAmount(b), true
			case "esc":
				m.Mode = PortfolioModeDetail
				m.AmountInput.Reset()
				m.AmountInput.Blur()
				return m, nil, true
			default:
				m.AmountInput, cmd = m.AmountInput.Update(msg)
				return m, cmd, true
			}

		case PortfolioModeDetail:
			switch msg.String() {
			case "esc", "backspace":
				m.Mode = PortfolioModeList
				return m, nil, true
			case "d", "w":
				if m.Detail.State != PortfolioStateLoaded {
					return m, nil, true
				}
				m.CashType = snfsapi.CashDeposit
				if msg.String() == "w" {
					m.CashType = snfsapi.CashWithdrawal
				}
				m.Mode = PortfolioModeAmount
				m.AmountInput.Reset()
				m.AmountInput.Focus()
				return m, textinput.Blink, true
			}
			m.HoldingsTable, cmd = m.HoldingsTable.Update(msg)
			return m, cmd, false

		case PortfolioModeList:
			if msg.String() == "enter" {
				p := m.SelectedPortfolio()
				if p == nil {
					return m, nil, true
				}
				m.SelectedID = p.PortfolioID
				m.Mode = PortfolioModeDetail
				m.Detail = PortfolioDetail{State: PortfolioStateLoading, Portfolio: *p}
				m.HoldingsTable.SetRows(nil)
				return m, b.FetchPortfolioDetail(p.PortfolioID), true
			}
		}
	}

	// Pass to table in list mode
	if m.Mode == PortfolioModeList {
		m.Table, cmd = m.Table.Update(msg)
		return m, cmd, false
	}
	return m, nil, false
}

// submitAmount validates the typed amount and issues the transaction.
// Invalid amounts and overdrafts never reach the backend.
func (m *PortfolioModel) submitAmount(b *backend) tea.Cmd {
	amount, err := validate.CashTransaction(m.CashType, m.AmountInput.Value())
	if err != nil {
		return notify(output.LevelError, err.Error())
	}
	if m.CashType == snfsapi.CashWithdrawal {
		if err := validate.Withdrawal(amount, m.Detail.Portfolio.Balance); err != nil {
			return notify(output.LevelError, err.Error())
		}
	}

	m.Mode = PortfolioModeDetail
	m.AmountInput.Reset()
	m.AmountInput.Blur()
	b.logger.Debug("cash transaction", "portfolio_id", m.SelectedID, "type", m.CashType, "amount", amount.String())
	return b.CreateCashTransaction(m.SelectedID, m.CashType, amount)
}

// patchBalance keeps the list row in step with a freshly loaded portfolio.
func (m *PortfolioModel) patchBalance(id int, p Portfolio) {
	for i := range m.Portfolios {
		if m.Portfolios[i].PortfolioID == id {
			m.Portfolios[i] = p
			m.updateTable()
			return
		}
	}
}

// SelectedPortfolio returns the highlighted portfolio, if any.
func (m *PortfolioModel) SelectedPortfolio() *Portfolio {
	idx := m.Table.Cursor()
	if idx >= 0 && idx < len(m.Portfolios) {
		return &m.Portfolios[idx]
	}
	return nil
}

// updateTable updates the table rows from portfolio data.
func (m *PortfolioModel) updateTable() {
	rows := make([]table.Row, 0, len(m.Portfolios))
	for _, p := range m.Portfolios {
		rows = append(rows, table.Row{
			strconv.Itoa(p.PortfolioID),
			p.Name,
			snfsapi.FormatMoney(p.Balance),
		})
	}
	m.Table.SetRows(rows)
}

func (m *PortfolioModel) updateHoldingsTable() {
	rows := make([]table.Row, 0, len(m.Detail.Holdings))
	for _, h := range m.Detail.Holdings {
		rows = append(rows, table.Row{
			h.Symbol,
			h.CompanyName,
			snfsapi.FormatShares(h.NumShares),
			snfsapi.FormatNullMoney(h.CurrentPrice),
			snfsapi.FormatNullMoney(h.TotalValue),
		})
	}
	m.HoldingsTable.SetRows(rows)
}

// View renders the portfolio view.
func (m *PortfolioModel) View() string {
	if m.Mode != PortfolioModeList {
		return m.viewDetail()
	}

	var b strings.Builder

	switch m.State {
	case PortfolioStateLoading:
		b.WriteString("Loading portfolios...")
		return b.String()

	case PortfolioStateError:
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", m.Err)))
		b.WriteString("\n\nPress 'r' to retry")
		return b.String()

	case PortfolioStateLoaded:
		b.WriteString(SummaryStyle.Render("Portfolios"))
		b.WriteString(LabelStyle.Render(fmt.Sprintf(" (%d)", len(m.Portfolios))))
		b.WriteString("\n\n")

		if len(m.Portfolios) == 0 {
			b.WriteString(LabelStyle.Render("No portfolios yet. Create one with: snfs portfolio create NAME"))
			return b.String()
		}
		b.WriteString(m.Table.View())
		b.WriteString("\n")
		b.WriteString(LabelStyle.Render(fmt.Sprintf("Updated: %s", m.LastUpdated.Format("3:04:05 PM"))))
	}

	return b.String()
}

func (m *PortfolioModel) viewDetail() string {
	var b strings.Builder
	d := m.Detail

	b.WriteString(SummaryStyle.Render(d.Portfolio.Name))
	b.WriteString(LabelStyle.Render(fmt.Sprintf(" #%d", m.SelectedID)))
	b.WriteString("\n")

	switch d.State {
	case PortfolioStateLoading:
		b.WriteString("Loading portfolio...")
		return b.String()
	case PortfolioStateError:
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", d.Err)))
		b.WriteString("\n\nPress 'r' to retry, esc to go back")
		return b.String()
	}

	total := snfsapi.SumHoldingValues(d.Holdings)
	b.WriteString(LabelStyle.Render("Cash: "))
	b.WriteString(ValueStyle.Render(snfsapi.FormatMoney(d.Portfolio.Balance)))
	b.WriteString("  ")
	b.WriteString(LabelStyle.Render("Holdings: "))
	b.WriteString(ValueStyle.Render(snfsapi.FormatMoney(total)))
	b.WriteString("  ")
	b.WriteString(LabelStyle.Render("Total: "))
	b.WriteString(ValueStyle.Render(snfsapi.FormatMoney(total.Add(d.Portfolio.Balance))))
	b.WriteString("\n\n")

	if m.Mode == PortfolioModeAmount {
		label := "Deposit amount"
		if m.CashType == snfsapi.CashWithdrawal {
			label = "Withdraw amount"
		}
		b.WriteString(WarningStyle.Render(label))
		b.WriteString("\n")
		b.WriteString(InputStyle.Render(m.AmountInput.View()))
		b.WriteString("\n\n")
	}

	if len(d.Holdings) == 0 {
		b.WriteString(LabelStyle.Render("No holdings"))
	} else {
		b.WriteString(SummaryStyle.Render("Holdings"))
		b.WriteString(LabelStyle.Render(fmt.Sprintf(" (%d)", len(d.Holdings))))
		b.WriteString("\n")
		b.WriteString(m.HoldingsTable.View())
	}
	b.WriteString("\n\n")

	b.WriteString(SummaryStyle.Render("Recent cash transactions"))
	b.WriteString("\n")
	if len(d.Transactions) == 0 {
		b.WriteString(LabelStyle.Render("None"))
		return b.String()
	}
	for i, tx := range d.Transactions {
		if i == 5 {
			b.WriteString(LabelStyle.Render(fmt.Sprintf("… %d more", len(d.Transactions)-i)))
			break
		}
		amount := tx.Amount
		if tx.Type == snfsapi.CashWithdrawal {
			amount = amount.Neg()
		}
		style := GreenStyle
		if amount.IsNegative() {
			style = RedStyle
		}
		b.WriteString(LabelStyle.Render(snfsapi.FormatDate(tx.Timestamp) + "  "))
		b.WriteString(style.Render(snfsapi.FormatSignedMoney(amount)))
		b.WriteString("\n")
	}

	return b.String()
}
