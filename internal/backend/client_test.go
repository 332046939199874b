package backend_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/narensv/vyapari/internal/backend"
)

func TestClient_CreateInvoice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/invoices", r.URL.Path)
		require.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))

		var req backend.InvoiceCreate
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "Sharma Hardware", req.CustomerName)
		require.Len(t, req.Items, 1)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(backend.Invoice{
			ID:            "inv-1",
			InvoiceNumber: "INV-USER_ABC-0001",
			CustomerName:  req.CustomerName,
			Items:         req.Items,
			Subtotal:      1000,
			CGST:          90,
			SGST:          90,
			TotalGST:      180,
			TotalAmount:   1180,
		})
	}))
	defer srv.Close()

	c := backend.NewClient(srv.URL, nil).WithToken("tok-1")

	inv, err := c.CreateInvoice(context.Background(), backend.InvoiceCreate{
		CustomerName: "Sharma Hardware",
		Items: []backend.InvoiceItem{
			{ProductName: "Pipe Fittings", Quantity: 10, Unit: "pcs", Rate: 100, Amount: 1000},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "INV-USER_ABC-0001", inv.InvoiceNumber)
	assert.Equal(t, float64(1180), inv.TotalAmount)
}

func TestClient_Ledger(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/ledger", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"entries": []map[string]any{
				{"date": "2025-04-01", "customer": "Patel Stores", "invoice_number": "INV-1", "total_amount": 5900.0},
				{"date": "2025-04-03", "customer": "Gupta & Sons", "invoice_number": "INV-2", "total_amount": 1180.0},
			},
		})
	}))
	defer srv.Close()

	rows, err := backend.NewClient(srv.URL, nil).Ledger(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Patel Stores", rows[0].Customer)
	assert.Equal(t, 1180.0, rows[1].TotalAmount)
}

func TestClient_ErrorDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Not authenticated"})
	}))
	defer srv.Close()

	_, err := backend.NewClient(srv.URL, nil).Me(context.Background())
	require.Error(t, err)

	var apiErr *backend.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "Not authenticated", apiErr.Error())
}

func TestClient_ListInvoices_Pagination(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "10", r.URL.Query().Get("skip"))
		assert.Equal(t, "50", r.URL.Query().Get("limit"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]backend.Invoice{})
	}))
	defer srv.Close()

	_, err := backend.NewClient(srv.URL, nil).ListInvoices(context.Background(), 10, 50)
	assert.NoError(t, err)
}
