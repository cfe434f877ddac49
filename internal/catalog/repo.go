package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/counterline/pos-backend/pkg/db/models"
)

// Repository provides catalog reads plus the stock decrement applied when a
// sale is submitted.
type Repository interface {
	Search(ctx context.Context, query string, limit int) ([]models.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindByBarcode(ctx context.Context, barcode string) (*models.Product, error)
	DecrementStock(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a catalog repository on the shared connection.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Search(ctx context.Context, query string, limit int) ([]models.Product, error) {
	var products []models.Product
	pattern := "%" + query + "%"
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("lower(name) LIKE lower(?) OR lower(sku) LIKE lower(?)", pattern, pattern).
		Order("name").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) FindByBarcode(ctx context.Context, barcode string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("barcode = ? AND is_active = ?", barcode, true).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// DecrementStock subtracts sold quantity inside the caller's transaction,
// flooring at zero. Stock is informational; oversell is not an error here.
func (r *repository) DecrementStock(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int) error {
	conn := tx
	if conn == nil {
		conn = r.db
	}
	return conn.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", productID).
		Update("stock", gorm.Expr("CASE WHEN stock >= ? THEN stock - ? ELSE 0 END", qty, qty)).
		Error
}
