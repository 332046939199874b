package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"time"
)

// ErrNoUser means the backend answered 2xx but the payload carried no user.
var ErrNoUser = errors.New("exchange response has no user")

// ExchangeError is a non-2xx answer from the exchange endpoint. The
// backend's detail message, when present, is surfaced verbatim.
type ExchangeError struct {
	StatusCode int
	Detail     string
}

func (e *ExchangeError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}

	return fmt.Sprintf("exchange failed with status %d", e.StatusCode)
}

// Client performs the one wire call of the handshake:
// POST {backend}/api/auth/google-session with the exchange code.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient builds an exchange client against the backend base URL. The
// cookie jar keeps the session cookie the backend sets alongside the JSON
// response.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}

	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: timeout,
			Jar:     jar,
		},
	}, nil
}

type exchangeRequest struct {
	SessionID string `json:"session_id"`
}

type exchangeResponse struct {
	User *struct {
		UserID        string `json:"user_id"`
		Email         string `json:"email"`
		Name          string `json:"name"`
		Picture       string `json:"picture"`
		BusinessName  string `json:"business_name"`
		BusinessGSTIN string `json:"business_gstin"`
		Plan          string `json:"subscription_plan"`
	} `json:"user"`
	SessionToken string `json:"session_token"`
}

func (c *Client) Exchange(ctx context.Context, code string) (*Identity, error) {
	body, err := json.Marshal(exchangeRequest{SessionID: code})
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/auth/google-session", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		exErr := &ExchangeError{StatusCode: resp.StatusCode}

		var detail struct {
			Detail string `json:"detail"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&detail); err == nil {
			exErr.Detail = detail.Detail
		}

		return nil, exErr
	}

	var payload exchangeResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if payload.User == nil {
		return nil, ErrNoUser
	}

	return &Identity{
		UserID:        payload.User.UserID,
		Email:         payload.User.Email,
		Name:          payload.User.Name,
		Picture:       payload.User.Picture,
		BusinessName:  payload.User.BusinessName,
		BusinessGSTIN: payload.User.BusinessGSTIN,
		Plan:          payload.User.Plan,
		SessionToken:  payload.SessionToken,
	}, nil
}

// HTTPClient exposes the underlying client so the shell can reuse the
// cookie jar for authenticated backend calls after a successful exchange.
func (c *Client) HTTPClient() *http.Client {
	return c.client
}
