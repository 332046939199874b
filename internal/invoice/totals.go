package invoice

import "github.com/shopspring/decimal"

// gstRate is the flat GST rate applied to the subtotal.
var gstRate = decimal.NewFromFloat(0.18)

var two = decimal.NewFromInt(2)

// Totals is the tax breakdown of a draft. An invoice with a customer GSTIN
// is treated as inter-state and charged IGST; otherwise the tax splits
// evenly into CGST and SGST.
type Totals struct {
	Subtotal decimal.Decimal
	CGST     decimal.Decimal
	SGST     decimal.Decimal
	IGST     decimal.Decimal
	TotalGST decimal.Decimal
	Total    decimal.Decimal
}

// Totals computes the tax breakdown from the current line items.
func (d *Draft) Totals() Totals {
	subtotal := decimal.Zero
	for _, item := range d.Items {
		subtotal = subtotal.Add(item.Amount())
	}

	t := Totals{Subtotal: subtotal.Round(2)}

	gst := subtotal.Mul(gstRate)

	if d.CustomerGSTIN != "" {
		t.IGST = gst.Round(2)
	} else {
		half := gst.Div(two).Round(2)
		t.CGST = half
		t.SGST = half
	}

	t.TotalGST = t.CGST.Add(t.SGST).Add(t.IGST)
	t.Total = t.Subtotal.Add(t.TotalGST)

	return t
}
