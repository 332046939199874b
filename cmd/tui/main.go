package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/narensv/vyapari/cmd/tui/internal/view"
	"github.com/narensv/vyapari/internal/backend"
	"github.com/narensv/vyapari/internal/config"
	"github.com/narensv/vyapari/internal/render"
	"github.com/narensv/vyapari/internal/session"
)

type model struct {
	client  *backend.Client
	seller  render.Seller
	session *session.Context

	currentView View

	signInView    view.SignInModel
	invoiceView   view.InvoiceModel
	customersView view.CustomersModel
	ledgerView    view.LedgerModel
	dashboardView view.DashboardModel
}

type View int

const (
	ViewSignIn    View = 0
	ViewMenu      View = 1
	ViewInvoice   View = 2
	ViewCustomers View = 3
	ViewLedger    View = 4
	ViewDashboard View = 5
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	exchanger, err := session.NewClient(cfg.Backend.URL, cfg.Backend.Timeout)
	if err != nil {
		slog.Error("failed to build exchange client", "error", err)
		os.Exit(1)
	}

	// The exchange client's cookie jar carries the backend session, so the
	// API client shares it.
	client := backend.NewClient(cfg.Backend.URL, exchanger.HTTPClient())

	return model{
		client: client,
		seller: render.Seller{
			Name:    cfg.Seller.Name,
			GSTIN:   cfg.Seller.GSTIN,
			Address: cfg.Seller.Address,
			Phone:   cfg.Seller.Phone,
		},
		session:     session.NewContext(),
		currentView: ViewSignIn,
		signInView:  view.NewSignInModel(exchanger, session.NewMemoryRegistry(cfg.Session.CodeTTL)),
	}
}

func (m model) Init() tea.Cmd {
	return m.signInView.Init()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case view.SignedInMsg:
		m.session.Begin(msg.Identity)
		m.client = m.client.WithToken(msg.Identity.SessionToken)
		m.currentView = ViewMenu

		return m, nil

	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewInvoice
				m.invoiceView = view.NewInvoiceModel(m.client, m.seller)

				return m, m.invoiceView.Init()
			case "2":
				m.currentView = ViewCustomers
				m.customersView = view.NewCustomersModel(m.client)

				return m, m.customersView.Init()
			case "3":
				m.currentView = ViewLedger
				m.ledgerView = view.NewLedgerModel(m.client)

				return m, m.ledgerView.Init()
			case "4":
				m.currentView = ViewDashboard
				m.dashboardView = view.NewDashboardModel(m.client)

				return m, m.dashboardView.Init()
			}
		}

	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewSignIn:
		var newModel tea.Model
		newModel, cmd = m.signInView.Update(msg)
		m.signInView = newModel.(view.SignInModel)
	case ViewInvoice:
		var newModel tea.Model
		newModel, cmd = m.invoiceView.Update(msg)
		m.invoiceView = newModel.(view.InvoiceModel)
	case ViewCustomers:
		var newModel tea.Model
		newModel, cmd = m.customersView.Update(msg)
		m.customersView = newModel.(view.CustomersModel)
	case ViewLedger:
		var newModel tea.Model
		newModel, cmd = m.ledgerView.Update(msg)
		m.ledgerView = newModel.(view.LedgerModel)
	case ViewDashboard:
		var newModel tea.Model
		newModel, cmd = m.dashboardView.Update(msg)
		m.dashboardView = newModel.(view.DashboardModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewSignIn:
		return m.signInView.View()
	case ViewMenu:
		header := "Vyapari"
		if identity, ok := m.session.Current(); ok && identity.BusinessName != "" {
			header += " - " + identity.BusinessName
		}

		return lipgloss.NewStyle().Padding(2).Render(
			header + "\n\n" +
				"1. New Invoice\n" +
				"2. Customers\n" +
				"3. GST Ledger\n" +
				"4. Dashboard\n\n" +
				"q. Quit",
		)
	case ViewInvoice:
		return m.invoiceView.View()
	case ViewCustomers:
		return m.customersView.View()
	case ViewLedger:
		return m.ledgerView.View()
	case ViewDashboard:
		return m.dashboardView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
