package view

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/narensv/vyapari/internal/backend"
)

type customersState int

const (
	customersStateList customersState = iota
	customersStateForm
	customersStateSaving
)

type CustomersModel struct {
	CommonModel
	client *backend.Client

	state     customersState
	loading   bool
	spinner   spinner.Model
	customers []backend.Customer

	form  *huh.Form
	draft *backend.Customer

	status  string
	errText string
}

func NewCustomersModel(client *backend.Client) CustomersModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return CustomersModel{
		client:  client,
		loading: true,
		spinner: s,
	}
}

type customersLoadedMsg struct {
	customers []backend.Customer
	err       error
}

type customerSavedMsg struct {
	err error
}

func (m CustomersModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := APICtx()
		defer cancel()

		customers, err := m.client.ListCustomers(ctx)

		return customersLoadedMsg{customers: customers, err: err}
	}
}

func (m CustomersModel) saveCmd() tea.Cmd {
	draft := *m.draft

	return func() tea.Msg {
		ctx, cancel := APICtx()
		defer cancel()

		_, err := m.client.CreateCustomer(ctx, draft)

		return customerSavedMsg{err: err}
	}
}

func (m *CustomersModel) customerForm() *huh.Form {
	m.draft = &backend.Customer{}

	return huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Name").
			Value(&m.draft.Name).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errors.New("name is required")
				}
				return nil
			}),
		huh.NewInput().
			Title("GSTIN (blank for unregistered)").
			Value(&m.draft.GSTIN),
		huh.NewInput().
			Title("Phone").
			Value(&m.draft.Phone),
		huh.NewInput().
			Title("Email").
			Value(&m.draft.Email),
		huh.NewInput().
			Title("Address").
			Value(&m.draft.Address),
	))
}

func (m CustomersModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadCmd())
}

func (m CustomersModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case customersLoadedMsg:
		m.loading = false

		if msg.err != nil {
			m.errText = fmt.Sprintf("Failed to load customers: %v", msg.err)
			return m, nil
		}

		m.customers = msg.customers

		return m, nil

	case customerSavedMsg:
		if msg.err != nil {
			m.state = customersStateForm
			m.errText = saveError(msg.err)

			return m, nil
		}

		m.state = customersStateList
		m.loading = true
		m.status = "Customer saved."
		m.errText = ""

		return m, tea.Batch(m.spinner.Tick, m.loadCmd())

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	switch m.state {
	case customersStateList:
		return m.updateList(msg)
	case customersStateForm:
		return m.updateForm(msg)
	}

	return m, nil
}

func (m CustomersModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc":
		return m, Back
	case "n":
		m.state = customersStateForm
		m.form = m.customerForm()
		m.status = ""
		m.errText = ""

		return m, m.form.Init()
	case "r":
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, m.loadCmd())
	}

	return m, nil
}

func (m CustomersModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = customersStateList
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = customersStateSaving

	return m, tea.Batch(m.spinner.Tick, m.saveCmd())
}

func (m CustomersModel) View() string {
	pad := lipgloss.NewStyle().Padding(2)

	switch m.state {
	case customersStateForm:
		body := "New Customer\n\n" + m.form.View()
		if m.errText != "" {
			body += "\n" + warnStyle.Render(m.errText)
		}

		return pad.Render(body)

	case customersStateSaving:
		return pad.Render(fmt.Sprintf("%s Saving customer...", m.spinner.View()))
	}

	if m.loading {
		return pad.Render(fmt.Sprintf("%s Loading customers...", m.spinner.View()))
	}

	var b strings.Builder

	b.WriteString("Customers\n\n")

	if m.errText != "" {
		b.WriteString(warnStyle.Render(m.errText) + "\n")
	} else if len(m.customers) == 0 {
		b.WriteString("No customers yet.\n")
	} else {
		b.WriteString(fmt.Sprintf("%-28s %-16s %-14s\n", "Name", "GSTIN", "Phone"))

		for _, c := range m.customers {
			gstin := c.GSTIN
			if gstin == "" {
				gstin = "-"
			}

			b.WriteString(fmt.Sprintf("%-28s %-16s %-14s\n", clip(c.Name, 28), gstin, c.Phone))
		}
	}

	if m.status != "" {
		b.WriteString("\n" + dimStyle.Render(m.status))
	}

	b.WriteString("\n\n('n' new customer, 'r' reload, Esc to back)")

	return pad.Render(b.String())
}
