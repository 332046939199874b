package view

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/narensv/vyapari/internal/session"
)

type signInState int

const (
	signInStateInput signInState = iota
	signInStateExchanging
)

// SignInModel collects the redirect URL the browser landed on after the
// Google sign-in and runs the one-time code exchange against the backend.
type SignInModel struct {
	CommonModel
	exchanger session.Exchanger
	registry  session.CodeRegistry

	state    signInState
	urlInput textinput.Model
	spinner  spinner.Model
	errText  string
}

func NewSignInModel(exchanger session.Exchanger, registry session.CodeRegistry) SignInModel {
	ti := textinput.New()
	ti.Placeholder = "https://app.example.in/auth/callback#session_id=..."
	ti.Width = 70
	ti.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return SignInModel{
		exchanger: exchanger,
		registry:  registry,
		urlInput:  ti,
		spinner:   s,
	}
}

func (m SignInModel) Init() tea.Cmd {
	return textinput.Blink
}

type exchangeDoneMsg struct {
	identity *session.Identity
	err      error
}

func (m SignInModel) exchangeCmd(raw string) tea.Cmd {
	return func() tea.Msg {
		landing, err := url.Parse(strings.TrimSpace(raw))
		if err != nil {
			return exchangeDoneMsg{err: fmt.Errorf("not a valid URL: %w", err)}
		}

		ctx, cancel := APICtx()
		defer cancel()

		b := session.NewBootstrap(m.exchanger, m.registry)

		identity, err := b.Run(ctx, landing, true)
		if err != nil {
			return exchangeDoneMsg{err: err}
		}

		return exchangeDoneMsg{identity: identity}
	}
}

func (m SignInModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.state == signInStateExchanging {
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "enter":
			if m.urlInput.Value() == "" {
				m.errText = "Paste the address bar contents first."
				return m, nil
			}

			m.state = signInStateExchanging
			m.errText = ""

			return m, tea.Batch(m.spinner.Tick, m.exchangeCmd(m.urlInput.Value()))
		}

	case exchangeDoneMsg:
		m.state = signInStateInput

		if msg.err != nil {
			m.errText = signInError(msg.err)
			m.urlInput.SetValue("")

			return m, nil
		}

		return m, func() tea.Msg { return SignedInMsg{Identity: msg.identity} }

	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	m.urlInput, cmd = m.urlInput.Update(msg)

	return m, cmd
}

func (m SignInModel) View() string {
	if m.state == signInStateExchanging {
		return lipgloss.NewStyle().Padding(2).Render(
			fmt.Sprintf("%s Signing you in...", m.spinner.View()),
		)
	}

	body := "Vyapari Sign In\n\n" +
		"1. Open the sign-in page in your browser and pick your Google account.\n" +
		"2. Copy the full address the browser lands on.\n" +
		"3. Paste it here and press Enter.\n\n" +
		m.urlInput.View()

	if m.errText != "" {
		body += "\n\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(m.errText)
	}

	return lipgloss.NewStyle().Padding(2).Render(body + "\n\n(Ctrl+C to quit)")
}

func signInError(err error) string {
	var exErr *session.ExchangeError
	if errors.As(err, &exErr) && exErr.Detail != "" {
		return exErr.Detail
	}

	switch {
	case errors.Is(err, session.ErrCodeMissing):
		return "Authentication failed: no session ID in that address."
	case errors.Is(err, session.ErrCodeConsumed):
		return "That sign-in link was already used. Sign in again in the browser."
	}

	return fmt.Sprintf("Sign in failed: %v", err)
}
