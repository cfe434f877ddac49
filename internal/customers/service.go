package customers

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/counterline/pos-backend/internal/cart"
	"github.com/counterline/pos-backend/pkg/db/models"
	pkgerrors "github.com/counterline/pos-backend/pkg/errors"
)

// Service is the customer-directory collaborator.
type Service interface {
	Search(ctx context.Context, query string, limit int) ([]models.Customer, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Customer, error)
}

type service struct {
	repo Repository
}

// NewService builds the customer directory service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("customer repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Search(ctx context.Context, query string, limit int) ([]models.Customer, error) {
	if limit <= 0 {
		limit = 20
	}
	customers, err := s.repo.Search(ctx, query, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "search customers")
	}
	return customers, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}
	return customer, nil
}

// ToCartCustomer converts a directory entry into the engine's reference.
func ToCartCustomer(customer *models.Customer) cart.Customer {
	contact := ""
	if customer.Phone != nil {
		contact = *customer.Phone
	} else if customer.Email != nil {
		contact = *customer.Email
	}
	return cart.Customer{
		ID:      customer.ID,
		Name:    customer.Name,
		Contact: contact,
	}
}
