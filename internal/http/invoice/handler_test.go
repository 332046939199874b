package invoice

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/narensv/vyapari/internal/render"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	handler := NewHandler(render.Seller{
		Name:    "Sharma Traders",
		GSTIN:   "27AAPFU0939F1ZV",
		Address: "12 MG Road, Pune",
	})

	router := chi.NewRouter()
	router.Route("/api/v1/invoices", handler.Routes)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return server
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()

	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	return resp
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		wantStatus   int
		wantContains []string
	}{
		{
			name: "small order without GSTIN passes",
			body: `{
				"customer_name": "Ramesh Kirana",
				"items": [{"description": "Rice bag", "quantity": 10, "rate": 1200}]
			}`,
			wantStatus:   http.StatusOK,
			wantContains: []string{`"valid":true`, `"gstin_required":false`, `"total_quantity":"10"`},
		},
		{
			name: "order above 500 units without GSTIN is blocked",
			body: `{
				"customer_name": "Ramesh Kirana",
				"items": [{"description": "Rice bag", "quantity": 501, "rate": 1200}]
			}`,
			wantStatus:   http.StatusUnprocessableEntity,
			wantContains: []string{`"valid":false`, `"gstin_required":true`, "GSTIN is required"},
		},
		{
			name: "order above 500 units with GSTIN passes",
			body: `{
				"customer_name": "Ramesh Kirana",
				"customer_gstin": "29ABCDE1234F1Z5",
				"items": [{"description": "Rice bag", "quantity": 501, "rate": 100}]
			}`,
			wantStatus:   http.StatusOK,
			wantContains: []string{`"valid":true`, `"gstin_required":true`},
		},
		{
			name:       "missing items fails validation",
			body:       `{"customer_name": "Ramesh Kirana", "items": []}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed json",
			body:       `{`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newTestServer(t)

			resp := postJSON(t, server.URL+"/api/v1/invoices/check", tt.body)

			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			buf := new(strings.Builder)
			_, err := io.Copy(buf, resp.Body)
			require.NoError(t, err)

			for _, want := range tt.wantContains {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestCheckTotals(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/v1/invoices/check", `{
		"customer_name": "Ramesh Kirana",
		"items": [{"description": "Rice bag", "quantity": 2, "rate": 500}]
	}`)

	require.Equal(t, http.StatusOK, resp.StatusCode)

	buf := new(strings.Builder)
	_, err := io.Copy(buf, resp.Body)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), `"subtotal":"1000.00"`)
	assert.Contains(t, buf.String(), `"total_gst":"180.00"`)
	assert.Contains(t, buf.String(), `"total":"1180.00"`)
}

func TestWords(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		want       string
	}{
		{
			name:       "whole rupees",
			body:       `{"amount": 100000}`,
			wantStatus: http.StatusOK,
			want:       "One Lakh Rupees Only",
		},
		{
			name:       "rupees and paise",
			body:       `{"amount": 1234567.89}`,
			wantStatus: http.StatusOK,
			want:       "Twelve Lakh Thirty Four Thousand Five Hundred Sixty Seven Rupees and Eighty Nine Paise Only",
		},
		{
			name:       "zero",
			body:       `{"amount": 0}`,
			wantStatus: http.StatusOK,
			want:       "Zero Rupees Only",
		},
		{
			name:       "negative amount rejected",
			body:       `{"amount": -1}`,
			wantStatus: http.StatusBadRequest,
			want:       "detail",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newTestServer(t)

			resp := postJSON(t, server.URL+"/api/v1/invoices/words", tt.body)

			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			buf := new(strings.Builder)
			_, err := io.Copy(buf, resp.Body)
			require.NoError(t, err)

			assert.Contains(t, buf.String(), tt.want)
		})
	}
}

func TestRender(t *testing.T) {
	t.Run("returns a pdf attachment", func(t *testing.T) {
		server := newTestServer(t)

		resp := postJSON(t, server.URL+"/api/v1/invoices/render", `{
			"invoice_number": "INV-2026-001",
			"customer_name": "Ramesh Kirana",
			"items": [{"description": "Rice bag", "hsn_code": "1006", "quantity": 10, "rate": 1200}]
		}`)

		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
		assert.Contains(t, resp.Header.Get("Content-Disposition"), "INV-2026-001.pdf")

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(body), "%PDF"))
	})

	t.Run("non-compliant draft is not rendered", func(t *testing.T) {
		server := newTestServer(t)

		resp := postJSON(t, server.URL+"/api/v1/invoices/render", `{
			"invoice_number": "INV-2026-002",
			"customer_name": "Ramesh Kirana",
			"items": [{"description": "Rice bag", "quantity": 600, "rate": 1200}]
		}`)

		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})

	t.Run("missing invoice number fails validation", func(t *testing.T) {
		server := newTestServer(t)

		resp := postJSON(t, server.URL+"/api/v1/invoices/render", `{
			"customer_name": "Ramesh Kirana",
			"items": [{"description": "Rice bag", "quantity": 1, "rate": 100}]
		}`)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}
