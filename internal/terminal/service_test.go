package terminal

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/counterline/pos-backend/internal/cart"
	"github.com/counterline/pos-backend/internal/orders"
	"github.com/counterline/pos-backend/pkg/db/models"
	pkgerrors "github.com/counterline/pos-backend/pkg/errors"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type stubCatalog struct {
	products map[uuid.UUID]*models.Product
	barcodes map[string]*models.Product
}

func (s *stubCatalog) Search(ctx context.Context, query string, limit int) ([]models.Product, error) {
	return nil, nil
}

func (s *stubCatalog) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if p, ok := s.products[id]; ok {
		return p, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}

func (s *stubCatalog) FindByBarcode(ctx context.Context, barcode string) (*models.Product, error) {
	if p, ok := s.barcodes[barcode]; ok {
		return p, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no product for barcode")
}

type stubDirectory struct {
	customers map[uuid.UUID]*models.Customer
}

func (s *stubDirectory) Search(ctx context.Context, query string, limit int) ([]models.Customer, error) {
	return nil, nil
}

func (s *stubDirectory) Get(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	if c, ok := s.customers[id]; ok {
		return c, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
}

type stubOrders struct {
	submitted *cart.OrderPayload
	err       error
}

func (s *stubOrders) Submit(ctx context.Context, payload cart.OrderPayload) (*orders.Confirmation, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.submitted = &payload
	return &orders.Confirmation{
		SaleID:    uuid.New(),
		Total:     payload.TotalAmount,
		ChangeDue: payload.TotalPaid.Sub(payload.TotalAmount),
	}, nil
}

func newTestService(t *testing.T, orderSvc *stubOrders, products ...*models.Product) (*Service, *stubDirectory) {
	t.Helper()

	cat := &stubCatalog{products: map[uuid.UUID]*models.Product{}, barcodes: map[string]*models.Product{}}
	for _, p := range products {
		cat.products[p.ID] = p
		if p.Barcode != nil {
			cat.barcodes[*p.Barcode] = p
		}
	}
	if orderSvc == nil {
		orderSvc = &stubOrders{}
	}

	dir := &stubDirectory{customers: map[uuid.UUID]*models.Customer{}}
	svc, err := NewService(cat, dir, orderSvc, nil, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, dir
}

func product(price string) *models.Product {
	return &models.Product{
		ID:        uuid.New(),
		SKU:       "SKU-1",
		Name:      "Espresso Beans",
		UnitPrice: decimal.RequireFromString(price),
		Stock:     10,
		IsActive:  true,
	}
}

func TestAddItemBuildsSnapshot(t *testing.T) {
	t.Parallel()

	p := product("100.00")
	svc, _ := newTestService(t, nil, p)
	ctx := context.Background()

	cartID := svc.Open(ctx)
	snap, err := svc.AddItem(ctx, cartID, p.ID)
	if err != nil {
		t.Fatalf("add item: %v", err)
	}

	if len(snap.Lines) != 1 || snap.Lines[0].Quantity != 1 {
		t.Fatalf("expected one line of quantity 1, got %+v", snap.Lines)
	}
	if !snap.Totals.Total.Equal(dec("100.00")) {
		t.Fatalf("expected total 100.00, got %s", snap.Totals.Total)
	}
}

func TestAddItemUnknownProductLeavesCartIntact(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	cartID := svc.Open(ctx)
	if _, err := svc.AddItem(ctx, cartID, uuid.New()); !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}

	snap, err := svc.Snapshot(ctx, cartID)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(snap.Lines) != 0 {
		t.Fatalf("expected empty cart, got %+v", snap.Lines)
	}
}

func TestAddItemByBarcode(t *testing.T) {
	t.Parallel()

	p := product("15.50")
	code := "4006381333931"
	p.Barcode = &code
	svc, _ := newTestService(t, nil, p)
	ctx := context.Background()

	cartID := svc.Open(ctx)
	snap, err := svc.AddItemByBarcode(ctx, cartID, code)
	if err != nil {
		t.Fatalf("add by barcode: %v", err)
	}
	if len(snap.Lines) != 1 || snap.Lines[0].Item.ID != p.ID {
		t.Fatalf("expected line for scanned product, got %+v", snap.Lines)
	}
}

func TestUnknownSessionRejected(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, nil)

	_, err := svc.Snapshot(context.Background(), uuid.New())
	if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestCloseSessionDropsCart(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	cartID := svc.Open(ctx)
	if err := svc.CloseSession(ctx, cartID); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := svc.Snapshot(ctx, cartID); !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND after close, got %v", err)
	}
	if err := svc.CloseSession(ctx, cartID); !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND on double close, got %v", err)
	}
}

func TestApplyDiscountPropagatesEngineError(t *testing.T) {
	t.Parallel()

	p := product("100.00")
	svc, _ := newTestService(t, nil, p)
	ctx := context.Background()

	cartID := svc.Open(ctx)
	if _, err := svc.AddItem(ctx, cartID, p.ID); err != nil {
		t.Fatalf("add item: %v", err)
	}

	_, err := svc.ApplyDiscount(ctx, cartID, p.ID, cart.DiscountFixed, dec("150.00"))
	if !pkgerrors.HasCode(err, pkgerrors.CodeInvalidDiscount) {
		t.Fatalf("expected INVALID_DISCOUNT, got %v", err)
	}
}

func TestCheckoutRejectsShortfall(t *testing.T) {
	t.Parallel()

	p := product("100.00")
	orderSvc := &stubOrders{}
	svc, _ := newTestService(t, orderSvc, p)
	ctx := context.Background()

	cartID := svc.Open(ctx)
	if _, err := svc.AddItem(ctx, cartID, p.ID); err != nil {
		t.Fatalf("add item: %v", err)
	}

	_, err := svc.Checkout(ctx, cartID, dec("99.99"))
	if !pkgerrors.HasCode(err, pkgerrors.CodeInvalidPayment) {
		t.Fatalf("expected INVALID_PAYMENT, got %v", err)
	}
	if orderSvc.submitted != nil {
		t.Fatalf("shortfall must not reach the order service")
	}

	snap, err := svc.Snapshot(ctx, cartID)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(snap.Lines) != 1 {
		t.Fatalf("cart must survive a rejected checkout, got %+v", snap.Lines)
	}
}

func TestCheckoutRejectsEmptyCart(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	cartID := svc.Open(ctx)
	_, err := svc.Checkout(ctx, cartID, dec("10.00"))
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestCheckoutClearsCartOnSuccess(t *testing.T) {
	t.Parallel()

	p := product("100.00")
	orderSvc := &stubOrders{}
	svc, _ := newTestService(t, orderSvc, p)
	ctx := context.Background()

	cartID := svc.Open(ctx)
	if _, err := svc.AddItem(ctx, cartID, p.ID); err != nil {
		t.Fatalf("add item: %v", err)
	}

	confirmation, err := svc.Checkout(ctx, cartID, dec("150.00"))
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if !confirmation.ChangeDue.Equal(dec("50.00")) {
		t.Fatalf("expected change 50.00, got %s", confirmation.ChangeDue)
	}
	if orderSvc.submitted == nil || !orderSvc.submitted.TotalPaid.Equal(dec("150.00")) {
		t.Fatalf("expected submitted payload with paid 150.00, got %+v", orderSvc.submitted)
	}

	snap, err := svc.Snapshot(ctx, cartID)
	if err != nil {
		t.Fatalf("snapshot after checkout: %v", err)
	}
	if len(snap.Lines) != 0 || snap.Customer != nil {
		t.Fatalf("cart must be cleared after a successful sale, got %+v", snap)
	}
}

func TestCheckoutKeepsCartOnSubmitFailure(t *testing.T) {
	t.Parallel()

	p := product("100.00")
	orderSvc := &stubOrders{err: pkgerrors.New(pkgerrors.CodeDependency, "db down")}
	svc, _ := newTestService(t, orderSvc, p)
	ctx := context.Background()

	cartID := svc.Open(ctx)
	if _, err := svc.AddItem(ctx, cartID, p.ID); err != nil {
		t.Fatalf("add item: %v", err)
	}

	_, err := svc.Checkout(ctx, cartID, dec("100.00"))
	if !pkgerrors.HasCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected DEPENDENCY_ERROR, got %v", err)
	}

	snap, err := svc.Snapshot(ctx, cartID)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(snap.Lines) != 1 {
		t.Fatalf("cart must be untouched after a failed submission, got %+v", snap.Lines)
	}
}

func TestAttachAndDetachCustomer(t *testing.T) {
	t.Parallel()

	svc, dir := newTestService(t, nil)
	ctx := context.Background()

	phone := "555-0001"
	customer := &models.Customer{ID: uuid.New(), Name: "Ada Lovelace", Phone: &phone}
	dir.customers[customer.ID] = customer

	cartID := svc.Open(ctx)
	snap, err := svc.AttachCustomer(ctx, cartID, customer.ID)
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	if snap.Customer == nil || snap.Customer.Contact != "555-0001" {
		t.Fatalf("expected attached customer with phone contact, got %+v", snap.Customer)
	}

	if _, err := svc.AttachCustomer(ctx, cartID, uuid.New()); !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND for unknown customer, got %v", err)
	}

	snap, err = svc.DetachCustomer(ctx, cartID)
	if err != nil {
		t.Fatalf("detach: %v", err)
	}
	if snap.Customer != nil {
		t.Fatalf("expected no customer after detach, got %+v", snap.Customer)
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	t.Parallel()

	p := product("10.00")
	svc, _ := newTestService(t, nil, p)
	ctx := context.Background()

	first := svc.Open(ctx)
	second := svc.Open(ctx)
	if _, err := svc.AddItem(ctx, first, p.ID); err != nil {
		t.Fatalf("add item: %v", err)
	}

	snap, err := svc.Snapshot(ctx, second)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(snap.Lines) != 0 {
		t.Fatalf("second session must not see the first session's lines")
	}
}
