package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/counterline/pos-backend/api/responses"
	"github.com/counterline/pos-backend/api/validators"
	"github.com/counterline/pos-backend/internal/orders"
	"github.com/counterline/pos-backend/pkg/db/models"
	pkgerrors "github.com/counterline/pos-backend/pkg/errors"
	"github.com/counterline/pos-backend/pkg/logger"
)

type saleItemDTO struct {
	ProductID      uuid.UUID        `json:"product_id"`
	Quantity       int              `json:"quantity"`
	UnitPrice      decimal.Decimal  `json:"unit_price"`
	DiscountKind   *string          `json:"discount_kind,omitempty"`
	DiscountAmount *decimal.Decimal `json:"discount_amount,omitempty"`
}

type saleDTO struct {
	ID          uuid.UUID       `json:"id"`
	CustomerID  *uuid.UUID      `json:"customer_id,omitempty"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	TotalPaid   decimal.Decimal `json:"total_paid"`
	Discount    decimal.Decimal `json:"discount"`
	ChangeDue   decimal.Decimal `json:"change_due"`
	Items       []saleItemDTO   `json:"items"`
	CreatedAt   time.Time       `json:"created_at"`
}

// SaleDetail returns a persisted sale and its line items, for receipts.
func SaleDetail(repo orders.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		saleID, err := validators.PathUUID(r, "saleID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sale, err := repo.FindByID(r.Context(), saleID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				err = pkgerrors.New(pkgerrors.CodeNotFound, "sale not found")
			} else {
				err = pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load sale")
			}
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newSaleDTO(sale))
	}
}

func newSaleDTO(sale *models.Sale) saleDTO {
	items := make([]saleItemDTO, 0, len(sale.Items))
	for _, item := range sale.Items {
		items = append(items, saleItemDTO{
			ProductID:      item.ProductID,
			Quantity:       item.Quantity,
			UnitPrice:      item.UnitPrice,
			DiscountKind:   item.DiscountKind,
			DiscountAmount: item.DiscountAmount,
		})
	}
	return saleDTO{
		ID:          sale.ID,
		CustomerID:  sale.CustomerID,
		TotalAmount: sale.TotalAmount,
		TotalPaid:   sale.TotalPaid,
		Discount:    sale.Discount,
		ChangeDue:   sale.ChangeDue,
		Items:       items,
		CreatedAt:   sale.CreatedAt,
	}
}
