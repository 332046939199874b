package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/narensv/vyapari/internal/backend"
	"github.com/narensv/vyapari/internal/ledger"
)

// LedgerModel shows the GST sales ledger. The backend's CSV export is the
// source of truth; it is downloaded and parsed rather than re-derived.
type LedgerModel struct {
	CommonModel
	client *backend.Client

	loading bool
	spinner spinner.Model
	entries []ledger.Entry
	summary ledger.Summary
	errText string
}

func NewLedgerModel(client *backend.Client) LedgerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return LedgerModel{
		client:  client,
		loading: true,
		spinner: s,
	}
}

type ledgerLoadedMsg struct {
	entries []ledger.Entry
	err     error
}

func (m LedgerModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := APICtx()
		defer cancel()

		body, err := m.client.DownloadLedgerExport(ctx, "csv")
		if err != nil {
			return ledgerLoadedMsg{err: err}
		}
		defer body.Close()

		entries, err := ledger.Parse(body)

		return ledgerLoadedMsg{entries: entries, err: err}
	}
}

func (m LedgerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadCmd())
}

func (m LedgerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			m.errText = ""

			return m, tea.Batch(m.spinner.Tick, m.loadCmd())
		}

	case ledgerLoadedMsg:
		m.loading = false

		if msg.err != nil {
			m.errText = fmt.Sprintf("Failed to load ledger: %v", msg.err)
			return m, nil
		}

		m.entries = msg.entries
		m.summary = ledger.Summarize(msg.entries)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m LedgerModel) View() string {
	pad := lipgloss.NewStyle().Padding(2)

	if m.loading {
		return pad.Render(fmt.Sprintf("%s Loading ledger...", m.spinner.View()))
	}

	if m.errText != "" {
		return pad.Render(warnStyle.Render(m.errText) + "\n\n('r' to retry, Esc to back)")
	}

	if len(m.entries) == 0 {
		return pad.Render("GST Ledger\n\nNo invoices yet.\n\n(Esc to back)")
	}

	var b strings.Builder

	b.WriteString("GST Ledger\n\n")
	b.WriteString(fmt.Sprintf("%-12s %-24s %-14s %12s %12s %12s\n",
		"Date", "Customer", "Invoice", "Subtotal", "GST", "Total"))

	for _, e := range m.entries {
		b.WriteString(fmt.Sprintf("%-12s %-24s %-14s %12s %12s %12s\n",
			e.Date.Format("2006-01-02"),
			clip(e.Customer, 24),
			e.InvoiceNumber,
			e.Subtotal.StringFixed(2),
			e.TotalGST.StringFixed(2),
			e.TotalAmount.StringFixed(2)))
	}

	b.WriteString(fmt.Sprintf("\n%d invoices   Subtotal %s   GST %s   Total %s\n",
		m.summary.Entries,
		FormatMoney(m.summary.Subtotal),
		FormatMoney(m.summary.TotalGST),
		FormatMoney(m.summary.TotalAmount)))

	b.WriteString("\n('r' to reload, Esc to back)")

	return pad.Render(b.String())
}

// clip shortens to n display characters. Indexing is by rune, not byte;
// customer names here are routinely Devanagari.
func clip(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}

	return string(runes[:n-3]) + "..."
}
