package invoice

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrGSTINRequired blocks submission when the cumulative ordered quantity
// crosses the threshold and no customer GSTIN was captured.
var ErrGSTINRequired = errors.New("customer GSTIN is required for orders above 500 units")

var ErrNoItems = errors.New("invoice has no line items")

// GSTINQuantityThreshold is the cumulative quantity above which a tax
// invoice must carry the customer's GSTIN. The comparison is strict: an
// order of exactly 500 units does not require one.
var GSTINQuantityThreshold = decimal.NewFromInt(500)

// GSTINRequired reports whether the draft's total quantity mandates a
// customer GSTIN. Pure over the current draft state; recompute on every
// edit.
func (d *Draft) GSTINRequired() bool {
	return d.TotalQuantity().GreaterThan(GSTINQuantityThreshold)
}

// Validate checks the draft against submission rules. A returned error is a
// blocking validation failure: the caller must surface it and must not call
// the persistence endpoint.
func (d *Draft) Validate() error {
	if len(d.Items) == 0 {
		return ErrNoItems
	}

	if d.GSTINRequired() && d.CustomerGSTIN == "" {
		return ErrGSTINRequired
	}

	return nil
}
