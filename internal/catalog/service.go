package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/counterline/pos-backend/internal/cart"
	"github.com/counterline/pos-backend/pkg/db/models"
	pkgerrors "github.com/counterline/pos-backend/pkg/errors"
	"github.com/counterline/pos-backend/pkg/logger"
)

// Cache is the slice of the redis client barcode lookups need.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	CatalogKey(kind, id string) string
}

// Service is the catalog-lookup collaborator: search by name/SKU, fetch by
// id, and barcode resolution with a read-through cache for scan latency.
type Service interface {
	Search(ctx context.Context, query string, limit int) ([]models.Product, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindByBarcode(ctx context.Context, barcode string) (*models.Product, error)
}

type service struct {
	repo     Repository
	cache    Cache
	cacheTTL time.Duration
	logg     *logger.Logger
}

// NewService builds the catalog service. Cache may be nil; lookups then go
// straight to the database.
func NewService(repo Repository, cache Cache, cacheTTL time.Duration, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo, cache: cache, cacheTTL: cacheTTL, logg: logg}, nil
}

func (s *service) Search(ctx context.Context, query string, limit int) ([]models.Product, error) {
	if limit <= 0 {
		limit = 20
	}
	products, err := s.repo.Search(ctx, query, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "search products")
	}
	return products, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func (s *service) FindByBarcode(ctx context.Context, barcode string) (*models.Product, error) {
	if barcode == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "barcode is required")
	}

	if cached := s.fromCache(ctx, barcode); cached != nil {
		return cached, nil
	}

	product, err := s.repo.FindByBarcode(ctx, barcode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no product for barcode")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "barcode lookup")
	}

	s.toCache(ctx, barcode, product)
	return product, nil
}

func (s *service) fromCache(ctx context.Context, barcode string) *models.Product {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, s.cache.CatalogKey("barcode", barcode))
	if err != nil || raw == "" {
		return nil
	}
	var product models.Product
	if err := json.Unmarshal([]byte(raw), &product); err != nil {
		if s.logg != nil {
			s.logg.Warn(ctx, "dropping undecodable barcode cache entry")
		}
		return nil
	}
	return &product
}

func (s *service) toCache(ctx context.Context, barcode string, product *models.Product) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(product)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, s.cache.CatalogKey("barcode", barcode), string(raw), s.cacheTTL); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "barcode cache write failed")
	}
}

// ToCartItem converts a catalog product into the engine's item view.
func ToCartItem(product *models.Product) cart.Item {
	return cart.Item{
		ID:             product.ID,
		Name:           product.Name,
		UnitPrice:      product.UnitPrice,
		AvailableStock: product.Stock,
	}
}
