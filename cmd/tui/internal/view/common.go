package view

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/narensv/vyapari/internal/session"
)

const apiTimeout = 15 * time.Second

// CommonModel is embedded by all views.
type CommonModel struct {
	Width  int
	Height int
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}

// SignedInMsg bubbles a completed handshake up to the root model.
type SignedInMsg struct {
	Identity *session.Identity
}

// APICtx returns a context with a standard timeout for backend calls.
func APICtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), apiTimeout)
}

// FormatMoney renders a decimal amount with the rupee sign.
func FormatMoney(d decimal.Decimal) string {
	return "₹" + d.StringFixed(2)
}
