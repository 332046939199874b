package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/narensv/vyapari/internal/backend"
)

type DashboardModel struct {
	CommonModel
	client *backend.Client

	loading bool
	spinner spinner.Model
	stats   *backend.DashboardStats
	errText string
}

func NewDashboardModel(client *backend.Client) DashboardModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return DashboardModel{
		client:  client,
		loading: true,
		spinner: s,
	}
}

type statsLoadedMsg struct {
	stats *backend.DashboardStats
	err   error
}

func (m DashboardModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := APICtx()
		defer cancel()

		stats, err := m.client.DashboardStats(ctx)

		return statsLoadedMsg{stats: stats, err: err}
	}
}

func (m DashboardModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadCmd())
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, tea.Batch(m.spinner.Tick, m.loadCmd())
		}

	case statsLoadedMsg:
		m.loading = false

		if msg.err != nil {
			m.errText = fmt.Sprintf("Failed to load stats: %v", msg.err)
			return m, nil
		}

		m.stats = msg.stats
		m.errText = ""

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m DashboardModel) View() string {
	pad := lipgloss.NewStyle().Padding(2)

	if m.loading {
		return pad.Render(fmt.Sprintf("%s Loading dashboard...", m.spinner.View()))
	}

	if m.errText != "" {
		return pad.Render(warnStyle.Render(m.errText) + "\n\n('r' to retry, Esc to back)")
	}

	s := m.stats

	return pad.Render(fmt.Sprintf(
		"Dashboard\n\n"+
			"Bills: %d    Customers: %d\n\n"+
			"Total sales: ₹%.2f    Total GST: ₹%.2f\n"+
			"This month:  ₹%.2f    Month GST: ₹%.2f\n\n"+
			"('r' to reload, Esc to back)",
		s.TotalBills, s.TotalCustomers,
		s.TotalSales, s.TotalGST,
		s.MonthlySales, s.MonthlyGST,
	))
}
