package session

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
)

//go:generate mockgen -source=bootstrap.go -destination=bootstrap_mock.go -package=session

// Exchanger trades an exchange code for an identity. Codes are single-use
// by backend contract, so a failed exchange is terminal for that code.
type Exchanger interface {
	Exchange(ctx context.Context, code string) (*Identity, error)
}

// CodeRegistry is the single-use claim on an exchange code. Claim returns
// true for exactly one caller per code, no matter how many times the
// bootstrap is re-invoked for the same landing.
type CodeRegistry interface {
	Claim(ctx context.Context, code string) (bool, error)
}

var (
	// ErrCodeMissing means the landing address carried no exchange code
	// where one was expected.
	ErrCodeMissing = errors.New("no exchange code present")

	// ErrCodeConsumed means another invocation already claimed this code;
	// the caller should treat the run as a no-op.
	ErrCodeConsumed = errors.New("exchange code already consumed")
)

// State tracks the bootstrap through the handshake.
type State int

const (
	StateIdle State = iota
	StateCodeDetected
	StateExchanging
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCodeDetected:
		return "code_detected"
	case StateExchanging:
		return "exchanging"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	}

	return "unknown"
}

// Bootstrap runs the handshake once per detected code. The host shell may
// invoke Run repeatedly for the same landing (re-renders, double mounts);
// the registry claim guarantees a single network exchange.
type Bootstrap struct {
	exchanger Exchanger
	registry  CodeRegistry

	mu    sync.Mutex
	state State
}

func NewBootstrap(exchanger Exchanger, registry CodeRegistry) *Bootstrap {
	return &Bootstrap{
		exchanger: exchanger,
		registry:  registry,
		state:     StateIdle,
	}
}

// Run inspects the landing address for an exchange code and, when it wins
// the claim, performs the exchange. fromRedirect marks an explicit redirect
// landing: only then is a missing code a failure; elsewhere the absence of
// a code is the normal non-authenticating case and Run returns (nil, nil).
//
// There is no cancellation beyond ctx: navigating away simply abandons the
// in-flight exchange, and no retry is attempted since the code is spent.
func (b *Bootstrap) Run(ctx context.Context, landing *url.URL, fromRedirect bool) (*Identity, error) {
	code := CodeFromURL(landing)
	if code == "" {
		if !fromRedirect {
			return nil, nil
		}

		b.setState(StateFailed)

		return nil, ErrCodeMissing
	}

	// Claim before touching the state machine: a re-invocation for a code
	// some earlier call already owns must not disturb that call's terminal
	// state.
	claimed, err := b.registry.Claim(ctx, code)
	if err != nil {
		b.setState(StateFailed)
		return nil, fmt.Errorf("claiming exchange code: %w", err)
	}

	if !claimed {
		// A previous invocation owns this code. Leave its state alone.
		return nil, ErrCodeConsumed
	}

	b.setState(StateCodeDetected)

	b.setState(StateExchanging)

	identity, err := b.exchanger.Exchange(ctx, code)
	if err != nil {
		b.setState(StateFailed)
		return nil, fmt.Errorf("exchanging code: %w", err)
	}

	b.setState(StateSucceeded)

	return identity, nil
}

// State reports where the handshake currently stands.
func (b *Bootstrap) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.state
}

func (b *Bootstrap) setState(s State) {
	b.mu.Lock()
	b.state = s
	b.mu.Unlock()
}
