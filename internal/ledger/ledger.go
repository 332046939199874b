package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Entry is one ledger line: an invoiced sale with its GST breakdown.
type Entry struct {
	Date          time.Time
	Customer      string
	InvoiceNumber string
	Products      int
	Subtotal      decimal.Decimal
	CGST          decimal.Decimal
	SGST          decimal.Decimal
	IGST          decimal.Decimal
	TotalGST      decimal.Decimal
	TotalAmount   decimal.Decimal
}

// Summary aggregates a set of entries for the ledger footer.
type Summary struct {
	Entries     int
	Subtotal    decimal.Decimal
	TotalGST    decimal.Decimal
	TotalAmount decimal.Decimal
}

func Summarize(entries []Entry) Summary {
	s := Summary{Entries: len(entries)}

	for _, e := range entries {
		s.Subtotal = s.Subtotal.Add(e.Subtotal)
		s.TotalGST = s.TotalGST.Add(e.TotalGST)
		s.TotalAmount = s.TotalAmount.Add(e.TotalAmount)
	}

	return s
}
