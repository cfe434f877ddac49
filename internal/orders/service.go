package orders

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/counterline/pos-backend/internal/cart"
	"github.com/counterline/pos-backend/pkg/db/models"
	pkgerrors "github.com/counterline/pos-backend/pkg/errors"
	"github.com/counterline/pos-backend/pkg/money"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// StockDecrementer applies the sold quantities inside the sale transaction.
type StockDecrementer interface {
	DecrementStock(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int) error
}

// Confirmation reports a persisted sale back to the terminal.
type Confirmation struct {
	SaleID    uuid.UUID
	Total     decimal.Decimal
	ChangeDue decimal.Decimal
}

// Service is the order-submission collaborator. Submit persists the payload
// atomically or fails as a whole; it never retries — the terminal keeps its
// cart on failure and decides what to do.
type Service interface {
	Submit(ctx context.Context, payload cart.OrderPayload) (*Confirmation, error)
}

type service struct {
	repo  Repository
	tx    txRunner
	stock StockDecrementer
}

// NewService builds the order submission service.
func NewService(repo Repository, tx txRunner, stock StockDecrementer) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if stock == nil {
		return nil, fmt.Errorf("stock decrementer required")
	}
	return &service{repo: repo, tx: tx, stock: stock}, nil
}

func (s *service) Submit(ctx context.Context, payload cart.OrderPayload) (*Confirmation, error) {
	if err := validatePayload(payload); err != nil {
		return nil, err
	}

	sale := buildSale(payload)
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.CreateSale(ctx, tx, sale); err != nil {
			return err
		}
		for _, item := range payload.Items {
			if err := s.stock.DecrementStock(ctx, tx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist sale")
	}

	return &Confirmation{
		SaleID:    sale.ID,
		Total:     sale.TotalAmount,
		ChangeDue: sale.ChangeDue,
	}, nil
}

func validatePayload(payload cart.OrderPayload) error {
	if len(payload.Items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "sale must contain at least one item")
	}

	var lineSum decimal.Decimal
	for _, item := range payload.Items {
		if item.Quantity < 1 {
			return pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be at least 1")
		}
		if item.UnitPrice.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "item price cannot be negative")
		}
		lineSum = lineSum.Add(money.Round(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))))
	}

	if !money.Round(lineSum).Equal(payload.TotalAmount) {
		return pkgerrors.New(pkgerrors.CodeValidation, "sale total mismatch")
	}
	if payload.TotalPaid.LessThan(payload.TotalAmount) {
		return pkgerrors.New(pkgerrors.CodeInvalidPayment, "paid amount does not cover the total")
	}
	return nil
}

func buildSale(payload cart.OrderPayload) *models.Sale {
	sale := &models.Sale{
		ID:          uuid.New(),
		CustomerID:  payload.CustomerID,
		TotalAmount: payload.TotalAmount,
		TotalPaid:   payload.TotalPaid,
		Discount:    payload.Discount,
		ChangeDue:   money.Round(payload.TotalPaid.Sub(payload.TotalAmount)),
	}

	sale.Items = make([]models.SaleItem, 0, len(payload.Items))
	for _, item := range payload.Items {
		saleItem := models.SaleItem{
			ID:        uuid.New(),
			SaleID:    sale.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
		if item.Discount != nil {
			kind := string(item.Discount.Kind)
			amount := item.Discount.Amount
			saleItem.DiscountKind = &kind
			saleItem.DiscountAmount = &amount
		}
		sale.Items = append(sale.Items, saleItem)
	}
	return sale
}
