package terminal

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/counterline/pos-backend/internal/cart"
	"github.com/counterline/pos-backend/internal/catalog"
	"github.com/counterline/pos-backend/internal/customers"
	"github.com/counterline/pos-backend/internal/orders"
	pkgerrors "github.com/counterline/pos-backend/pkg/errors"
	"github.com/counterline/pos-backend/pkg/logger"
	"github.com/counterline/pos-backend/pkg/metrics"
)

// Snapshot is the read view of a session's cart handed to the API layer.
type Snapshot struct {
	CartID   uuid.UUID
	Lines    []cart.Line
	Customer *cart.Customer
	Totals   cart.Totals
}

// Service hosts terminal sessions. It composes the pricing engine with the
// catalog, customer, and order collaborators, and owns the finalization
// policy: a shortfall blocks checkout even though the engine itself only
// reports it.
type Service struct {
	sessions *Registry
	catalog  catalog.Service
	dir      customers.Service
	orders   orders.Service
	metrics  *metrics.SaleMetrics
	logg     *logger.Logger
}

// NewService builds the terminal host. Metrics and logger may be nil.
func NewService(
	catalogSvc catalog.Service,
	customerSvc customers.Service,
	orderSvc orders.Service,
	saleMetrics *metrics.SaleMetrics,
	logg *logger.Logger,
) (*Service, error) {
	if catalogSvc == nil {
		return nil, fmt.Errorf("catalog service required")
	}
	if customerSvc == nil {
		return nil, fmt.Errorf("customer service required")
	}
	if orderSvc == nil {
		return nil, fmt.Errorf("order service required")
	}
	return &Service{
		sessions: NewRegistry(),
		catalog:  catalogSvc,
		dir:      customerSvc,
		orders:   orderSvc,
		metrics:  saleMetrics,
		logg:     logg,
	}, nil
}

// Open starts a new session with an empty cart.
func (s *Service) Open(ctx context.Context) uuid.UUID {
	id := s.sessions.Open()
	s.metrics.SessionOpened()
	if s.logg != nil {
		s.logg.Info(s.logg.WithCartID(ctx, id.String()), "terminal session opened")
	}
	return id
}

// CloseSession discards the session and whatever cart it held.
func (s *Service) CloseSession(ctx context.Context, cartID uuid.UUID) error {
	if !s.sessions.Close(cartID) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "cart session not found")
	}
	s.metrics.SessionClosed()
	return nil
}

// Snapshot returns the current cart state without mutating it.
func (s *Service) Snapshot(ctx context.Context, cartID uuid.UUID) (*Snapshot, error) {
	var snap *Snapshot
	err := s.sessions.With(cartID, func(c *cart.Cart) error {
		snap = snapshotOf(cartID, c)
		return nil
	})
	return snap, err
}

// AddItem resolves the product and adds one unit to the cart, merging into an
// existing line for the same product.
func (s *Service) AddItem(ctx context.Context, cartID, productID uuid.UUID) (*Snapshot, error) {
	product, err := s.catalog.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	return s.mutate(cartID, "add_item", func(c *cart.Cart) error {
		c.AddItem(catalog.ToCartItem(product))
		return nil
	})
}

// AddItemByBarcode resolves a scanned barcode and adds the product.
func (s *Service) AddItemByBarcode(ctx context.Context, cartID uuid.UUID, barcode string) (*Snapshot, error) {
	product, err := s.catalog.FindByBarcode(ctx, barcode)
	if err != nil {
		return nil, err
	}
	return s.mutate(cartID, "add_item", func(c *cart.Cart) error {
		c.AddItem(catalog.ToCartItem(product))
		return nil
	})
}

// RemoveItem drops the product's line; removing an absent line is a no-op.
func (s *Service) RemoveItem(ctx context.Context, cartID, productID uuid.UUID) (*Snapshot, error) {
	return s.mutate(cartID, "remove_item", func(c *cart.Cart) error {
		c.RemoveItem(productID)
		return nil
	})
}

// ChangeQuantity adjusts the line quantity by delta, floored at 1.
func (s *Service) ChangeQuantity(ctx context.Context, cartID, productID uuid.UUID, delta int) (*Snapshot, error) {
	return s.mutate(cartID, "change_quantity", func(c *cart.Cart) error {
		c.ChangeQuantity(productID, delta)
		return nil
	})
}

// ApplyDiscount applies a per-line discount, replacing any previous one.
func (s *Service) ApplyDiscount(ctx context.Context, cartID, productID uuid.UUID, kind cart.DiscountKind, amount decimal.Decimal) (*Snapshot, error) {
	return s.mutate(cartID, "apply_discount", func(c *cart.Cart) error {
		return c.ApplyDiscount(productID, kind, amount)
	})
}

// AttachCustomer looks up the directory entry and attaches it by reference.
func (s *Service) AttachCustomer(ctx context.Context, cartID, customerID uuid.UUID) (*Snapshot, error) {
	customer, err := s.dir.Get(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return s.mutate(cartID, "attach_customer", func(c *cart.Cart) error {
		c.AttachCustomer(customers.ToCartCustomer(customer))
		return nil
	})
}

// DetachCustomer clears the customer reference.
func (s *Service) DetachCustomer(ctx context.Context, cartID uuid.UUID) (*Snapshot, error) {
	return s.mutate(cartID, "detach_customer", func(c *cart.Cart) error {
		c.DetachCustomer()
		return nil
	})
}

// Clear empties the cart and detaches the customer; the session stays open.
func (s *Service) Clear(ctx context.Context, cartID uuid.UUID) (*Snapshot, error) {
	return s.mutate(cartID, "clear", func(c *cart.Cart) error {
		c.Clear()
		return nil
	})
}

// ResolvePayment previews change or shortfall for a tendered amount. It never
// mutates the cart.
func (s *Service) ResolvePayment(ctx context.Context, cartID uuid.UUID, amountTendered decimal.Decimal) (cart.Payment, error) {
	var payment cart.Payment
	err := s.sessions.With(cartID, func(c *cart.Cart) error {
		var resolveErr error
		payment, resolveErr = c.ResolvePayment(amountTendered)
		return resolveErr
	})
	return payment, err
}

// Checkout finalizes the transaction: the tendered amount must cover the
// total, the payload is submitted atomically, and only a successful
// submission clears the cart. On any failure the cart is left exactly as it
// was so the cashier can retry or amend.
func (s *Service) Checkout(ctx context.Context, cartID uuid.UUID, amountPaid decimal.Decimal) (*orders.Confirmation, error) {
	var confirmation *orders.Confirmation
	err := s.sessions.With(cartID, func(c *cart.Cart) error {
		if c.IsEmpty() {
			return pkgerrors.New(pkgerrors.CodeValidation, "cannot check out an empty cart")
		}

		payment, err := c.ResolvePayment(amountPaid)
		if err != nil {
			return err
		}
		if payment.Shortfall() {
			return pkgerrors.New(pkgerrors.CodeInvalidPayment, "tendered amount does not cover the total").
				WithDetails(map[string]any{
					"due":       payment.Due.String(),
					"tendered":  payment.AmountTendered.String(),
					"shortfall": payment.ChangeOrShortfall.Abs().String(),
				})
		}

		confirmation, err = s.orders.Submit(ctx, c.OrderPayload(amountPaid))
		if err != nil {
			s.metrics.IncSaleFailure()
			if s.logg != nil {
				s.logg.Error(s.logg.WithCartID(ctx, cartID.String()), "sale submission failed", err)
			}
			return err
		}

		c.Clear()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.ObserveSale(confirmation.Total)
	if s.logg != nil {
		s.logg.Info(s.logg.WithCartID(ctx, cartID.String()), "sale submitted")
	}
	return confirmation, nil
}

func (s *Service) mutate(cartID uuid.UUID, op string, fn func(c *cart.Cart) error) (*Snapshot, error) {
	var snap *Snapshot
	err := s.sessions.With(cartID, func(c *cart.Cart) error {
		if err := fn(c); err != nil {
			return err
		}
		snap = snapshotOf(cartID, c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.metrics.IncCartOp(op)
	return snap, nil
}

func snapshotOf(cartID uuid.UUID, c *cart.Cart) *Snapshot {
	return &Snapshot{
		CartID:   cartID,
		Lines:    c.Lines(),
		Customer: c.Customer(),
		Totals:   c.Totals(),
	}
}
