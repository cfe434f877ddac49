// Package cart is the pricing engine for one open terminal transaction. It
// owns line items and all totals arithmetic, and nothing else: no I/O, no
// storage, no awareness of the HTTP layer. A Cart is exclusively owned by its
// terminal session; the host provides any locking it needs.
package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/counterline/pos-backend/pkg/errors"
	"github.com/counterline/pos-backend/pkg/money"
)

// Item is the engine's view of a catalog product. AvailableStock is
// informational only; the engine never rejects an add for lack of stock.
type Item struct {
	ID             uuid.UUID
	Name           string
	UnitPrice      decimal.Decimal
	AvailableStock int
}

// Customer is a directory entry attached to the transaction by reference.
type Customer struct {
	ID      uuid.UUID
	Name    string
	Contact string
}

// DiscountKind selects how a discount amount is interpreted.
type DiscountKind string

const (
	DiscountPercentage DiscountKind = "percentage"
	DiscountFixed      DiscountKind = "fixed"
)

// Discount records the requested reduction for display and audit. The derived
// effective price lives on the line, not here.
type Discount struct {
	Kind   DiscountKind
	Amount decimal.Decimal
}

// Line is one row of the cart: a quantity of a single product at a
// possibly-discounted price. UnitPrice snapshots the catalog price at the
// time the line was created and never tracks later catalog changes.
type Line struct {
	Item               Item
	Quantity           int
	UnitPrice          decimal.Decimal
	Discount           *Discount
	EffectiveUnitPrice decimal.Decimal
}

// Subtotal is the line's contribution to the cart total.
func (l Line) Subtotal() decimal.Decimal {
	return money.Round(l.EffectiveUnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
}

// DiscountTotal is the amount this line's discount removed.
func (l Line) DiscountTotal() decimal.Decimal {
	perUnit := l.UnitPrice.Sub(l.EffectiveUnitPrice)
	return money.Round(perUnit.Mul(decimal.NewFromInt(int64(l.Quantity))))
}

// Totals are derived from the lines on every read; discount is already netted
// into effective prices, so Total always equals Subtotal.
type Totals struct {
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
}

// Cart holds the ordered lines of one open transaction. A cleared cart is
// indistinguishable from a freshly constructed one.
type Cart struct {
	lines    []Line
	customer *Customer
}

// New returns an empty open cart.
func New() *Cart {
	return &Cart{}
}

// AddItem merges into the existing line for the item id (quantity +1) or
// appends a new line with quantity 1. It never fails and never checks stock.
func (c *Cart) AddItem(item Item) {
	if idx := c.lineIndex(item.ID); idx >= 0 {
		c.lines[idx].Quantity++
		return
	}

	unitPrice := money.Round(item.UnitPrice)
	c.lines = append(c.lines, Line{
		Item:               item,
		Quantity:           1,
		UnitPrice:          unitPrice,
		EffectiveUnitPrice: unitPrice,
	})
}

// RemoveItem drops the line for the item id; absent lines are a no-op.
func (c *Cart) RemoveItem(itemID uuid.UUID) {
	idx := c.lineIndex(itemID)
	if idx < 0 {
		return
	}
	c.lines = append(c.lines[:idx], c.lines[idx+1:]...)
}

// ChangeQuantity adjusts the line's quantity by delta, floored at 1. Driving
// a line to zero requires an explicit RemoveItem. Absent lines are a no-op.
func (c *Cart) ChangeQuantity(itemID uuid.UUID, delta int) {
	idx := c.lineIndex(itemID)
	if idx < 0 {
		return
	}
	next := c.lines[idx].Quantity + delta
	if next < 1 {
		next = 1
	}
	c.lines[idx].Quantity = next
}

// ApplyDiscount validates and applies a discount to the item's line,
// replacing any previous discount. On any violation the line is left
// untouched and a CodeInvalidDiscount error is returned. The effective unit
// price is rounded to 2 decimal places, half-up.
func (c *Cart) ApplyDiscount(itemID uuid.UUID, kind DiscountKind, amount decimal.Decimal) error {
	idx := c.lineIndex(itemID)
	if idx < 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "no line for item")
	}
	line := &c.lines[idx]

	if amount.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeInvalidDiscount, "discount amount cannot be negative")
	}

	var effective decimal.Decimal
	switch kind {
	case DiscountPercentage:
		if amount.GreaterThan(decimal.NewFromInt(100)) {
			return pkgerrors.New(pkgerrors.CodeInvalidDiscount, "percentage discount cannot exceed 100")
		}
		reduction := line.UnitPrice.Mul(amount).Div(decimal.NewFromInt(100))
		effective = line.UnitPrice.Sub(reduction)
	case DiscountFixed:
		if amount.GreaterThan(line.UnitPrice) {
			return pkgerrors.New(pkgerrors.CodeInvalidDiscount, "fixed discount cannot exceed unit price")
		}
		effective = line.UnitPrice.Sub(amount)
	default:
		return pkgerrors.New(pkgerrors.CodeInvalidDiscount, "unknown discount kind")
	}

	line.Discount = &Discount{Kind: kind, Amount: amount}
	line.EffectiveUnitPrice = money.Round(money.FloorZero(effective))
	return nil
}

// AttachCustomer assigns the customer reference for the transaction.
func (c *Cart) AttachCustomer(customer Customer) {
	cust := customer
	c.customer = &cust
}

// DetachCustomer clears the customer reference.
func (c *Cart) DetachCustomer() {
	c.customer = nil
}

// Clear resets the cart to empty and detaches the customer. Absorbing: the
// result is always equivalent to New().
func (c *Cart) Clear() {
	c.lines = nil
	c.customer = nil
}

// Lines returns the lines in insertion order. The slice and each line's
// discount are copies; mutating them does not affect the cart.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	for i := range out {
		if d := out[i].Discount; d != nil {
			dc := *d
			out[i].Discount = &dc
		}
	}
	return out
}

// Customer returns the attached customer, or nil.
func (c *Cart) Customer() *Customer {
	if c.customer == nil {
		return nil
	}
	cust := *c.customer
	return &cust
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Totals derives subtotal/discount/total from the current lines. Always
// well-defined; an empty cart yields zeroes.
func (c *Cart) Totals() Totals {
	subtotal := money.Zero()
	discount := money.Zero()
	for _, line := range c.lines {
		subtotal = subtotal.Add(line.Subtotal())
		discount = discount.Add(line.DiscountTotal())
	}
	subtotal = money.Round(subtotal)
	return Totals{
		Subtotal: subtotal,
		Discount: money.Round(discount),
		Total:    subtotal,
	}
}

func (c *Cart) lineIndex(itemID uuid.UUID) int {
	for i := range c.lines {
		if c.lines[i].Item.ID == itemID {
			return i
		}
	}
	return -1
}
