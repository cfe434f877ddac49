package controllers

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/counterline/pos-backend/internal/cart"
	"github.com/counterline/pos-backend/internal/orders"
	"github.com/counterline/pos-backend/internal/terminal"
	"github.com/counterline/pos-backend/pkg/db/models"
)

type discountDTO struct {
	Kind   string          `json:"kind"`
	Amount decimal.Decimal `json:"amount"`
}

type lineDTO struct {
	ProductID          uuid.UUID       `json:"product_id"`
	Name               string          `json:"name"`
	Quantity           int             `json:"quantity"`
	UnitPrice          decimal.Decimal `json:"unit_price"`
	EffectiveUnitPrice decimal.Decimal `json:"effective_unit_price"`
	Discount           *discountDTO    `json:"discount,omitempty"`
	Subtotal           decimal.Decimal `json:"subtotal"`
	DiscountTotal      decimal.Decimal `json:"discount_total"`
}

type customerDTO struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Contact string    `json:"contact,omitempty"`
}

type totalsDTO struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
}

type cartDTO struct {
	CartID   uuid.UUID    `json:"cart_id"`
	Lines    []lineDTO    `json:"lines"`
	Customer *customerDTO `json:"customer,omitempty"`
	Totals   totalsDTO    `json:"totals"`
}

type paymentDTO struct {
	AmountTendered    decimal.Decimal `json:"amount_tendered"`
	Due               decimal.Decimal `json:"due"`
	ChangeOrShortfall decimal.Decimal `json:"change_or_shortfall"`
	Shortfall         bool            `json:"shortfall"`
}

type confirmationDTO struct {
	SaleID    uuid.UUID       `json:"sale_id"`
	Total     decimal.Decimal `json:"total"`
	ChangeDue decimal.Decimal `json:"change_due"`
}

type productDTO struct {
	ID        uuid.UUID       `json:"id"`
	SKU       string          `json:"sku"`
	Barcode   *string         `json:"barcode,omitempty"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Stock     int             `json:"stock"`
}

func newCartDTO(snap *terminal.Snapshot) cartDTO {
	lines := make([]lineDTO, 0, len(snap.Lines))
	for _, line := range snap.Lines {
		dto := lineDTO{
			ProductID:          line.Item.ID,
			Name:               line.Item.Name,
			Quantity:           line.Quantity,
			UnitPrice:          line.UnitPrice,
			EffectiveUnitPrice: line.EffectiveUnitPrice,
			Subtotal:           line.Subtotal(),
			DiscountTotal:      line.DiscountTotal(),
		}
		if line.Discount != nil {
			dto.Discount = &discountDTO{Kind: string(line.Discount.Kind), Amount: line.Discount.Amount}
		}
		lines = append(lines, dto)
	}

	out := cartDTO{
		CartID: snap.CartID,
		Lines:  lines,
		Totals: totalsDTO{
			Subtotal: snap.Totals.Subtotal,
			Discount: snap.Totals.Discount,
			Total:    snap.Totals.Total,
		},
	}
	if snap.Customer != nil {
		out.Customer = &customerDTO{ID: snap.Customer.ID, Name: snap.Customer.Name, Contact: snap.Customer.Contact}
	}
	return out
}

func newPaymentDTO(payment cart.Payment) paymentDTO {
	return paymentDTO{
		AmountTendered:    payment.AmountTendered,
		Due:               payment.Due,
		ChangeOrShortfall: payment.ChangeOrShortfall,
		Shortfall:         payment.Shortfall(),
	}
}

func newConfirmationDTO(confirmation *orders.Confirmation) confirmationDTO {
	return confirmationDTO{
		SaleID:    confirmation.SaleID,
		Total:     confirmation.Total,
		ChangeDue: confirmation.ChangeDue,
	}
}

func newProductDTO(product models.Product) productDTO {
	return productDTO{
		ID:        product.ID,
		SKU:       product.SKU,
		Barcode:   product.Barcode,
		Name:      product.Name,
		UnitPrice: product.UnitPrice,
		Stock:     product.Stock,
	}
}

func newCustomerDTO(customer models.Customer) customerDTO {
	contact := ""
	if customer.Phone != nil {
		contact = *customer.Phone
	} else if customer.Email != nil {
		contact = *customer.Email
	}
	return customerDTO{ID: customer.ID, Name: customer.Name, Contact: contact}
}
