package customers

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/counterline/pos-backend/pkg/db/models"
)

// Repository provides customer-directory reads.
type Repository interface {
	Search(ctx context.Context, query string, limit int) ([]models.Customer, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a customer repository on the shared connection.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Search(ctx context.Context, query string, limit int) ([]models.Customer, error) {
	var customers []models.Customer
	pattern := "%" + query + "%"
	err := r.db.WithContext(ctx).
		Where("lower(name) LIKE lower(?) OR phone LIKE ?", pattern, pattern).
		Order("name").
		Limit(limit).
		Find(&customers).Error
	if err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.WithContext(ctx).First(&customer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}
