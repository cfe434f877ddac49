package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale is a finalized transaction submitted from a terminal cart.
type Sale struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID  *uuid.UUID      `gorm:"column:customer_id;type:uuid"`
	TotalAmount decimal.Decimal `gorm:"column:total_amount;type:numeric(12,2);not null"`
	TotalPaid   decimal.Decimal `gorm:"column:total_paid;type:numeric(12,2);not null"`
	Discount    decimal.Decimal `gorm:"column:discount;type:numeric(12,2);not null"`
	ChangeDue   decimal.Decimal `gorm:"column:change_due;type:numeric(12,2);not null"`
	Items       []SaleItem      `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (Sale) TableName() string {
	return "sales"
}

// SaleItem snapshots one cart line at submission time. UnitPrice is the
// post-discount effective price; the requested discount is kept for audit.
type SaleItem struct {
	ID             uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SaleID         uuid.UUID        `gorm:"column:sale_id;type:uuid;not null;index"`
	ProductID      uuid.UUID        `gorm:"column:product_id;type:uuid;not null"`
	Quantity       int              `gorm:"column:quantity;not null"`
	UnitPrice      decimal.Decimal  `gorm:"column:unit_price;type:numeric(12,2);not null"`
	DiscountKind   *string          `gorm:"column:discount_kind"`
	DiscountAmount *decimal.Decimal `gorm:"column:discount_amount;type:numeric(12,2)"`
	CreatedAt      time.Time        `gorm:"column:created_at;autoCreateTime"`
}

func (SaleItem) TableName() string {
	return "sale_items"
}
