package invoice

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineItem is a single ordered line on a draft. The line amount is always
// derived from quantity and rate, never stored.
type LineItem struct {
	ID          uuid.UUID
	Description string
	HSNCode     string
	Unit        string
	Quantity    decimal.Decimal
	UnitRate    decimal.Decimal
}

// Amount returns quantity multiplied by unit rate.
func (li LineItem) Amount() decimal.Decimal {
	return li.Quantity.Mul(li.UnitRate)
}

// Draft is an in-progress invoice, mutated field by field as the user edits
// and submitted as a read-only snapshot on save.
type Draft struct {
	ID            uuid.UUID
	CustomerID    string
	CustomerName  string
	CustomerGSTIN string
	CustomerAddr  string
	Items         []LineItem
	Notes         string
}

func NewDraft() *Draft {
	return &Draft{ID: uuid.New()}
}

func (d *Draft) AddItem(item LineItem) {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}

	if item.Unit == "" {
		item.Unit = "pcs"
	}

	d.Items = append(d.Items, item)
}

func (d *Draft) RemoveItem(id uuid.UUID) {
	for i, item := range d.Items {
		if item.ID == id {
			d.Items = append(d.Items[:i], d.Items[i+1:]...)
			return
		}
	}
}

// TotalQuantity sums the ordered quantity across all line items. The zero
// value of a decimal is zero, so an unset quantity contributes nothing.
func (d *Draft) TotalQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, item := range d.Items {
		total = total.Add(item.Quantity)
	}

	return total
}

// Snapshot returns a copy of the draft safe to hand off for submission
// while the user keeps editing.
func (d *Draft) Snapshot() Draft {
	snap := *d
	snap.Items = make([]LineItem, len(d.Items))
	copy(snap.Items, d.Items)

	return snap
}
