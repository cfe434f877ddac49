package orders

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/counterline/pos-backend/internal/cart"
	"github.com/counterline/pos-backend/pkg/db/models"
	pkgerrors "github.com/counterline/pos-backend/pkg/errors"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type stubTxRunner struct {
	err error
}

func (s stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if s.err != nil {
		return s.err
	}
	return fn(nil)
}

type recordingRepo struct {
	sale      *models.Sale
	createErr error
}

func (r *recordingRepo) CreateSale(ctx context.Context, tx *gorm.DB, sale *models.Sale) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.sale = sale
	return nil
}

func (r *recordingRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Sale, error) {
	return r.sale, nil
}

type recordingStock struct {
	decrements map[uuid.UUID]int
}

func (r *recordingStock) DecrementStock(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int) error {
	if r.decrements == nil {
		r.decrements = map[uuid.UUID]int{}
	}
	r.decrements[productID] += qty
	return nil
}

func validPayload() cart.OrderPayload {
	productID := uuid.New()
	return cart.OrderPayload{
		Items: []cart.OrderItem{
			{ProductID: productID, Quantity: 2, UnitPrice: dec("90.00"), Discount: &cart.Discount{Kind: cart.DiscountPercentage, Amount: dec("10")}},
			{ProductID: uuid.New(), Quantity: 1, UnitPrice: dec("20.00")},
		},
		TotalAmount: dec("200.00"),
		TotalPaid:   dec("250.00"),
		Discount:    dec("20.00"),
	}
}

func TestSubmitPersistsSale(t *testing.T) {
	t.Parallel()

	repo := &recordingRepo{}
	stock := &recordingStock{}
	svc, err := NewService(repo, stubTxRunner{}, stock)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	confirmation, err := svc.Submit(context.Background(), validPayload())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if repo.sale == nil || len(repo.sale.Items) != 2 {
		t.Fatalf("expected persisted sale with 2 items, got %+v", repo.sale)
	}
	if !confirmation.Total.Equal(dec("200.00")) {
		t.Fatalf("expected total 200.00, got %s", confirmation.Total)
	}
	if !confirmation.ChangeDue.Equal(dec("50.00")) {
		t.Fatalf("expected change 50.00, got %s", confirmation.ChangeDue)
	}

	if repo.sale.Items[0].DiscountKind == nil || *repo.sale.Items[0].DiscountKind != "percentage" {
		t.Fatalf("discount audit fields missing: %+v", repo.sale.Items[0])
	}

	if len(stock.decrements) != 2 {
		t.Fatalf("expected stock decrement per product, got %v", stock.decrements)
	}
}

func TestSubmitRejectsEmptyPayload(t *testing.T) {
	t.Parallel()

	svc, err := NewService(&recordingRepo{}, stubTxRunner{}, &recordingStock{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.Submit(context.Background(), cart.OrderPayload{})
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestSubmitRejectsTotalMismatch(t *testing.T) {
	t.Parallel()

	svc, err := NewService(&recordingRepo{}, stubTxRunner{}, &recordingStock{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	payload := validPayload()
	payload.TotalAmount = dec("123.45")
	_, err = svc.Submit(context.Background(), payload)
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestSubmitRejectsInsufficientPayment(t *testing.T) {
	t.Parallel()

	svc, err := NewService(&recordingRepo{}, stubTxRunner{}, &recordingStock{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	payload := validPayload()
	payload.TotalPaid = dec("199.99")
	_, err = svc.Submit(context.Background(), payload)
	if !pkgerrors.HasCode(err, pkgerrors.CodeInvalidPayment) {
		t.Fatalf("expected INVALID_PAYMENT, got %v", err)
	}
}

func TestSubmitSurfacesTxFailure(t *testing.T) {
	t.Parallel()

	svc, err := NewService(&recordingRepo{}, stubTxRunner{err: errors.New("db down")}, &recordingStock{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.Submit(context.Background(), validPayload())
	if !pkgerrors.HasCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected DEPENDENCY_ERROR, got %v", err)
	}
}
