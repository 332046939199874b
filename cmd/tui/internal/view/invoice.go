package view

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/narensv/vyapari/internal/backend"
	"github.com/narensv/vyapari/internal/invoice"
	"github.com/narensv/vyapari/internal/render"
	"github.com/narensv/vyapari/internal/words"
)

type billState int

const (
	billStateCustomer billState = iota
	billStateItem
	billStateReview
	billStateSaving
	billStateResult
)

var (
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// InvoiceModel walks through building one GST invoice: customer, items,
// a compliance review, then persistence through the backend.
type InvoiceModel struct {
	CommonModel
	client *backend.Client
	seller render.Seller

	state   billState
	draft   *invoice.Draft
	form    *huh.Form
	spinner spinner.Model

	// huh binds field pointers, so the scratch lives behind a pointer to
	// survive bubbletea's value copies of the model
	item *itemScratch

	saved   *backend.Invoice
	status  string
	errText string
}

type itemScratch struct {
	desc    string
	hsn     string
	unit    string
	qty     string
	rate    string
	addMore bool
}

func NewInvoiceModel(client *backend.Client, seller render.Seller) InvoiceModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := InvoiceModel{
		client:  client,
		seller:  seller,
		state:   billStateCustomer,
		draft:   invoice.NewDraft(),
		spinner: s,
	}
	m.form = m.customerForm()

	return m
}

func (m InvoiceModel) customerForm() *huh.Form {
	return huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Customer name").
			Value(&m.draft.CustomerName).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errors.New("customer name is required")
				}
				return nil
			}),
		huh.NewInput().
			Title("Customer GSTIN (blank for unregistered)").
			Value(&m.draft.CustomerGSTIN),
		huh.NewInput().
			Title("Address").
			Value(&m.draft.CustomerAddr),
		huh.NewInput().
			Title("Notes").
			Value(&m.draft.Notes),
	))
}

func (m *InvoiceModel) itemForm() *huh.Form {
	m.item = &itemScratch{unit: "pcs", qty: "1"}

	return huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Item description").
			Value(&m.item.desc).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errors.New("description is required")
				}
				return nil
			}),
		huh.NewInput().
			Title("HSN code").
			Value(&m.item.hsn),
		huh.NewInput().
			Title("Unit").
			Value(&m.item.unit),
		huh.NewInput().
			Title("Quantity").
			Value(&m.item.qty).
			Validate(validDecimal),
		huh.NewInput().
			Title("Rate per unit").
			Value(&m.item.rate).
			Validate(validDecimal),
		huh.NewConfirm().
			Title("Add another item?").
			Value(&m.item.addMore),
	))
}

func validDecimal(s string) error {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return errors.New("enter a number")
	}

	if d.IsNegative() {
		return errors.New("must not be negative")
	}

	return nil
}

func (m InvoiceModel) Init() tea.Cmd {
	return m.form.Init()
}

type invoiceSavedMsg struct {
	invoice *backend.Invoice
	err     error
}

func (m InvoiceModel) saveCmd() tea.Cmd {
	draft := m.draft.Snapshot()

	return func() tea.Msg {
		ctx, cancel := APICtx()
		defer cancel()

		req := backend.InvoiceCreate{
			CustomerName:  draft.CustomerName,
			CustomerGSTIN: draft.CustomerGSTIN,
			CustomerAddr:  draft.CustomerAddr,
			Notes:         draft.Notes,
		}

		for _, item := range draft.Items {
			req.Items = append(req.Items, backend.InvoiceItem{
				ProductName: item.Description,
				HSNCode:     item.HSNCode,
				Quantity:    item.Quantity.InexactFloat64(),
				Unit:        item.Unit,
				Rate:        item.UnitRate.InexactFloat64(),
				Amount:      item.Amount().InexactFloat64(),
			})
		}

		saved, err := m.client.CreateInvoice(ctx, req)

		return invoiceSavedMsg{invoice: saved, err: err}
	}
}

type pdfWrittenMsg struct {
	path string
	err  error
}

func (m InvoiceModel) writePDFCmd() tea.Cmd {
	draft := m.draft.Snapshot()
	doc := render.Document{
		Number: m.saved.InvoiceNumber,
		Date:   m.saved.InvoiceDate,
		Seller: m.seller,
		Draft:  draft,
	}

	return func() tea.Msg {
		path := filepath.Join(".", doc.Number+".pdf")

		f, err := os.Create(path)
		if err != nil {
			return pdfWrittenMsg{err: err}
		}
		defer f.Close()

		if err := render.PDF(f, doc); err != nil {
			return pdfWrittenMsg{err: err}
		}

		return pdfWrittenMsg{path: path}
	}
}

func (m InvoiceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case invoiceSavedMsg:
		if msg.err != nil {
			m.state = billStateReview
			m.errText = saveError(msg.err)

			return m, nil
		}

		m.state = billStateResult
		m.saved = msg.invoice
		m.status = fmt.Sprintf("Saved as %s.", msg.invoice.InvoiceNumber)

		return m, nil

	case pdfWrittenMsg:
		if msg.err != nil {
			m.errText = fmt.Sprintf("PDF failed: %v", msg.err)
		} else {
			m.status = "PDF written to " + msg.path
		}

		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	switch m.state {
	case billStateCustomer, billStateItem:
		return m.updateForm(msg)
	case billStateReview:
		return m.updateReview(msg)
	case billStateResult:
		return m.updateResult(msg)
	}

	return m, nil
}

func (m InvoiceModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		if m.state == billStateItem && len(m.draft.Items) > 0 {
			m.state = billStateReview
			return m, nil
		}

		return m, Back
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if m.state == billStateCustomer {
		m.state = billStateItem
		m.form = m.itemForm()

		return m, m.form.Init()
	}

	// Quantities were validated by the form; errors here cannot happen.
	qty, _ := decimal.NewFromString(strings.TrimSpace(m.item.qty))
	rate, _ := decimal.NewFromString(strings.TrimSpace(m.item.rate))

	m.draft.AddItem(invoice.LineItem{
		Description: strings.TrimSpace(m.item.desc),
		HSNCode:     strings.TrimSpace(m.item.hsn),
		Unit:        strings.TrimSpace(m.item.unit),
		Quantity:    qty,
		UnitRate:    rate,
	})

	if m.item.addMore {
		m.form = m.itemForm()
		return m, m.form.Init()
	}

	m.state = billStateReview

	return m, nil
}

func (m InvoiceModel) updateReview(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc":
		return m, Back
	case "a":
		m.state = billStateItem
		m.form = m.itemForm()
		m.errText = ""

		return m, m.form.Init()
	case "enter":
		if err := m.draft.Validate(); err != nil {
			m.errText = err.Error()
			return m, nil
		}

		m.state = billStateSaving
		m.errText = ""

		return m, tea.Batch(m.spinner.Tick, m.saveCmd())
	}

	return m, nil
}

func (m InvoiceModel) updateResult(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc":
		return m, Back
	case "p":
		return m, m.writePDFCmd()
	}

	return m, nil
}

func (m InvoiceModel) View() string {
	pad := lipgloss.NewStyle().Padding(2)

	switch m.state {
	case billStateCustomer:
		return pad.Render("New Invoice - Customer\n\n" + m.form.View())
	case billStateItem:
		return pad.Render("New Invoice - Items\n\n" + m.form.View() + "\n" + m.reviewBanner())
	case billStateReview:
		return pad.Render(m.reviewScreen())
	case billStateSaving:
		return pad.Render(fmt.Sprintf("%s Saving invoice...", m.spinner.View()))
	case billStateResult:
		body := m.status
		if m.errText != "" {
			body += "\n" + warnStyle.Render(m.errText)
		}

		return pad.Render(body + "\n\n('p' to write the PDF, Esc to back)")
	}

	return ""
}

// reviewBanner is the live compliance line shown while items are entered.
func (m InvoiceModel) reviewBanner() string {
	qty := m.draft.TotalQuantity()
	banner := fmt.Sprintf("Items: %d   Quantity: %s", len(m.draft.Items), qty.String())

	if m.draft.GSTINRequired() && m.draft.CustomerGSTIN == "" {
		banner += "\n" + warnStyle.Render("Over 500 units: customer GSTIN is required before saving.")
	}

	return dimStyle.Render(banner)
}

func (m InvoiceModel) reviewScreen() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("New Invoice - Review\n\nCustomer: %s", m.draft.CustomerName))
	if m.draft.CustomerGSTIN != "" {
		b.WriteString("  GSTIN: " + m.draft.CustomerGSTIN)
	}
	b.WriteString("\n\n")

	for i, item := range m.draft.Items {
		b.WriteString(fmt.Sprintf("%d. %-30s %s %s x %s = %s\n",
			i+1, item.Description, item.Quantity.String(), item.Unit,
			FormatMoney(item.UnitRate), FormatMoney(item.Amount())))
	}

	totals := m.draft.Totals()

	b.WriteString(fmt.Sprintf("\nSubtotal: %s\n", FormatMoney(totals.Subtotal)))
	if m.draft.CustomerGSTIN != "" {
		b.WriteString(fmt.Sprintf("IGST (18%%): %s\n", FormatMoney(totals.IGST)))
	} else {
		b.WriteString(fmt.Sprintf("CGST (9%%): %s\nSGST (9%%): %s\n",
			FormatMoney(totals.CGST), FormatMoney(totals.SGST)))
	}
	b.WriteString(fmt.Sprintf("Total: %s\n", FormatMoney(totals.Total)))

	if inWords, err := words.Rupees(totals.Total); err == nil {
		b.WriteString(dimStyle.Render(inWords) + "\n")
	}

	if m.draft.GSTINRequired() && m.draft.CustomerGSTIN == "" {
		b.WriteString("\n" + warnStyle.Render("Over 500 units: customer GSTIN is required before saving."))
	}

	if m.errText != "" {
		b.WriteString("\n" + warnStyle.Render(m.errText))
	}

	b.WriteString("\n\n(Enter to save, 'a' to add an item, Esc to back)")

	return b.String()
}

func saveError(err error) string {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}

	return fmt.Sprintf("Save failed: %v", err)
}
