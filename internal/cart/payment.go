package cart

import (
	"github.com/shopspring/decimal"

	pkgerrors "github.com/counterline/pos-backend/pkg/errors"
	"github.com/counterline/pos-backend/pkg/money"
)

// Payment resolves a tendered amount against the cart total. It is
// informational: a negative ChangeOrShortfall means the tender does not cover
// the total, but the engine never blocks mutation or completion on it — that
// gate belongs to the caller at finalization time.
type Payment struct {
	AmountTendered    decimal.Decimal
	Due               decimal.Decimal
	ChangeOrShortfall decimal.Decimal
}

// Shortfall reports whether the tendered amount is insufficient.
func (p Payment) Shortfall() bool {
	return p.ChangeOrShortfall.IsNegative()
}

// ResolvePayment computes change or shortfall for the tendered amount.
// Negative tender is rejected with CodeInvalidPayment.
func (c *Cart) ResolvePayment(amountTendered decimal.Decimal) (Payment, error) {
	if amountTendered.IsNegative() {
		return Payment{}, pkgerrors.New(pkgerrors.CodeInvalidPayment, "tendered amount cannot be negative")
	}

	due := c.Totals().Total
	tendered := money.Round(amountTendered)
	return Payment{
		AmountTendered:    tendered,
		Due:               due,
		ChangeOrShortfall: money.Round(tendered.Sub(due)),
	}, nil
}
