package backend

// Wire types mirror the backend's JSON API. Money travels as plain numbers
// on the wire; domain code converts to decimals at the boundary.

type Customer struct {
	ID             string  `json:"id,omitempty"`
	Name           string  `json:"name"`
	GSTIN          string  `json:"gstin,omitempty"`
	Email          string  `json:"email,omitempty"`
	Phone          string  `json:"phone,omitempty"`
	Address        string  `json:"address,omitempty"`
	TotalPurchases float64 `json:"total_purchases,omitempty"`
	CreatedAt      string  `json:"created_at,omitempty"`
}

type Product struct {
	ID           string  `json:"id,omitempty"`
	Name         string  `json:"name"`
	HSNCode      string  `json:"hsn_code,omitempty"`
	Unit         string  `json:"unit"`
	DefaultPrice float64 `json:"default_price"`
	CreatedAt    string  `json:"created_at,omitempty"`
}

type InvoiceItem struct {
	ProductName string  `json:"product_name"`
	HSNCode     string  `json:"hsn_code,omitempty"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit"`
	Rate        float64 `json:"rate"`
	Amount      float64 `json:"amount"`
}

type InvoiceCreate struct {
	CustomerID    string        `json:"customer_id,omitempty"`
	CustomerName  string        `json:"customer_name"`
	CustomerGSTIN string        `json:"customer_gstin,omitempty"`
	CustomerAddr  string        `json:"customer_address,omitempty"`
	Items         []InvoiceItem `json:"items"`
	Notes         string        `json:"notes,omitempty"`
}

type Invoice struct {
	ID            string        `json:"id"`
	InvoiceNumber string        `json:"invoice_number"`
	InvoiceDate   string        `json:"invoice_date"`
	CustomerName  string        `json:"customer_name"`
	CustomerGSTIN string        `json:"customer_gstin,omitempty"`
	Items         []InvoiceItem `json:"items"`
	Subtotal      float64       `json:"subtotal"`
	CGST          float64       `json:"cgst"`
	SGST          float64       `json:"sgst"`
	IGST          float64       `json:"igst"`
	TotalGST      float64       `json:"total_gst"`
	TotalAmount   float64       `json:"total_amount"`
	CreatedAt     string        `json:"created_at"`
}

type DashboardStats struct {
	TotalBills     int     `json:"total_bills"`
	TotalCustomers int     `json:"total_customers"`
	TotalSales     float64 `json:"total_sales"`
	TotalGST       float64 `json:"total_gst"`
	MonthlySales   float64 `json:"monthly_sales"`
	MonthlyGST     float64 `json:"monthly_gst"`
}

type ledgerResponse struct {
	Entries []LedgerRow `json:"entries"`
}

type LedgerRow struct {
	Date          string  `json:"date"`
	Customer      string  `json:"customer"`
	InvoiceNumber string  `json:"invoice_number"`
	Products      int     `json:"products"`
	Subtotal      float64 `json:"subtotal"`
	CGST          float64 `json:"cgst"`
	SGST          float64 `json:"sgst"`
	IGST          float64 `json:"igst"`
	TotalGST      float64 `json:"total_gst"`
	TotalAmount   float64 `json:"total_amount"`
}
