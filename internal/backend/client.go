// Package backend is the typed client for the REST backend this front end
// is a thin shell over. Every meaningful computation (OCR, GST persistence,
// auth issuance) happens on the other side of these calls.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/narensv/vyapari/internal/session"
)

// APIError is a non-2xx backend answer; Detail carries the backend's
// human-readable message when it sent one.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}

	return fmt.Sprintf("backend returned status %d", e.StatusCode)
}

type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewClient builds a backend client. Pass the exchange client's HTTP client
// to keep the session cookie; pass nil for a fresh one.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &Client{baseURL: baseURL, client: httpClient}
}

// WithToken returns a copy of the client presenting the bearer session
// token. The copy shares the HTTP client, so per-user copies are cheap and
// safe to create per request.
func (c *Client) WithToken(token string) *Client {
	clone := *c
	clone.token = token

	return &clone
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader

	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}

		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}

		var detail struct {
			Detail string `json:"detail"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&detail); err == nil {
			apiErr.Detail = detail.Detail
		}

		return apiErr
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}

// Me restores a prior session from the cookie or token, if one is valid.
func (c *Client) Me(ctx context.Context) (*session.Identity, error) {
	var user struct {
		UserID        string `json:"user_id"`
		Email         string `json:"email"`
		Name          string `json:"name"`
		Picture       string `json:"picture"`
		BusinessName  string `json:"business_name"`
		BusinessGSTIN string `json:"business_gstin"`
		Plan          string `json:"subscription_plan"`
	}

	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &user); err != nil {
		return nil, err
	}

	return &session.Identity{
		UserID:        user.UserID,
		Email:         user.Email,
		Name:          user.Name,
		Picture:       user.Picture,
		BusinessName:  user.BusinessName,
		BusinessGSTIN: user.BusinessGSTIN,
		Plan:          user.Plan,
		SessionToken:  c.token,
	}, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}

func (c *Client) ListCustomers(ctx context.Context) ([]Customer, error) {
	var customers []Customer
	if err := c.do(ctx, http.MethodGet, "/api/customers", nil, &customers); err != nil {
		return nil, fmt.Errorf("listing customers: %w", err)
	}

	return customers, nil
}

func (c *Client) CreateCustomer(ctx context.Context, customer Customer) (*Customer, error) {
	var created Customer
	if err := c.do(ctx, http.MethodPost, "/api/customers", customer, &created); err != nil {
		return nil, fmt.Errorf("creating customer: %w", err)
	}

	return &created, nil
}

func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := c.do(ctx, http.MethodGet, "/api/products", nil, &products); err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}

	return products, nil
}

func (c *Client) CreateInvoice(ctx context.Context, req InvoiceCreate) (*Invoice, error) {
	var created Invoice
	if err := c.do(ctx, http.MethodPost, "/api/invoices", req, &created); err != nil {
		return nil, fmt.Errorf("creating invoice: %w", err)
	}

	return &created, nil
}

func (c *Client) ListInvoices(ctx context.Context, skip, limit int) ([]Invoice, error) {
	q := url.Values{}
	q.Set("skip", strconv.Itoa(skip))
	q.Set("limit", strconv.Itoa(limit))

	var invoices []Invoice
	if err := c.do(ctx, http.MethodGet, "/api/invoices?"+q.Encode(), nil, &invoices); err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}

	return invoices, nil
}

func (c *Client) GetInvoice(ctx context.Context, id string) (*Invoice, error) {
	var inv Invoice
	if err := c.do(ctx, http.MethodGet, "/api/invoices/"+url.PathEscape(id), nil, &inv); err != nil {
		return nil, fmt.Errorf("getting invoice: %w", err)
	}

	return &inv, nil
}

func (c *Client) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats
	if err := c.do(ctx, http.MethodGet, "/api/dashboard/stats", nil, &stats); err != nil {
		return nil, fmt.Errorf("getting dashboard stats: %w", err)
	}

	return &stats, nil
}

func (c *Client) Ledger(ctx context.Context) ([]LedgerRow, error) {
	var resp ledgerResponse
	if err := c.do(ctx, http.MethodGet, "/api/ledger", nil, &resp); err != nil {
		return nil, fmt.Errorf("getting ledger: %w", err)
	}

	return resp.Entries, nil
}

// DownloadLedgerExport streams the backend's ledger export file. The caller
// owns closing the returned body.
func (c *Client) DownloadLedgerExport(ctx context.Context, format string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/api/ledger/export?format="+url.QueryEscape(format), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &APIError{StatusCode: resp.StatusCode}
	}

	return resp.Body, nil
}
