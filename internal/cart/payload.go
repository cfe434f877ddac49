package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/counterline/pos-backend/pkg/money"
)

// OrderPayload is the shape handed to the order-submission service. Building
// it performs no I/O and does not change cart state; submitting it — and
// clearing the cart afterwards — is the caller's responsibility.
type OrderPayload struct {
	CustomerID  *uuid.UUID
	Items       []OrderItem
	TotalAmount decimal.Decimal
	TotalPaid   decimal.Decimal
	Discount    decimal.Decimal
}

// OrderItem carries one line: quantity at the post-discount unit price, with
// the requested discount kept for audit.
type OrderItem struct {
	ProductID uuid.UUID
	Quantity  int
	UnitPrice decimal.Decimal
	Discount  *Discount
}

// OrderPayload maps the cart plus the tendered amount into a submission
// payload.
func (c *Cart) OrderPayload(amountPaid decimal.Decimal) OrderPayload {
	totals := c.Totals()

	items := make([]OrderItem, 0, len(c.lines))
	for _, line := range c.lines {
		item := OrderItem{
			ProductID: line.Item.ID,
			Quantity:  line.Quantity,
			UnitPrice: line.EffectiveUnitPrice,
		}
		if line.Discount != nil {
			d := *line.Discount
			item.Discount = &d
		}
		items = append(items, item)
	}

	payload := OrderPayload{
		Items:       items,
		TotalAmount: totals.Total,
		TotalPaid:   money.Round(amountPaid),
		Discount:    totals.Discount,
	}
	if c.customer != nil {
		id := c.customer.ID
		payload.CustomerID = &id
	}
	return payload
}
