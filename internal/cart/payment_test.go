package cart

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/counterline/pos-backend/pkg/errors"
)

func cartWithTotal(t *testing.T, total string) *Cart {
	t.Helper()

	c := New()
	c.AddItem(Item{ID: uuid.New(), Name: "fixture", UnitPrice: decimal.RequireFromString(total)})
	return c
}

func TestResolvePaymentShortfall(t *testing.T) {
	t.Parallel()

	c := cartWithTotal(t, "250.00")

	payment, err := c.ResolvePayment(dec("200.00"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !payment.ChangeOrShortfall.Equal(dec("-50.00")) {
		t.Fatalf("expected -50.00, got %s", payment.ChangeOrShortfall)
	}
	if !payment.Shortfall() {
		t.Fatal("expected shortfall")
	}
}

func TestResolvePaymentChange(t *testing.T) {
	t.Parallel()

	c := cartWithTotal(t, "250.00")

	payment, err := c.ResolvePayment(dec("300.00"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !payment.ChangeOrShortfall.Equal(dec("50.00")) {
		t.Fatalf("expected 50.00 change, got %s", payment.ChangeOrShortfall)
	}
	if payment.Shortfall() {
		t.Fatal("change due is not a shortfall")
	}
}

func TestResolvePaymentExact(t *testing.T) {
	t.Parallel()

	c := cartWithTotal(t, "250.00")

	payment, err := c.ResolvePayment(dec("250.00"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !payment.ChangeOrShortfall.IsZero() {
		t.Fatalf("expected zero change, got %s", payment.ChangeOrShortfall)
	}
	if payment.Shortfall() {
		t.Fatal("exact tender is not a shortfall")
	}
}

func TestResolvePaymentSignProperty(t *testing.T) {
	t.Parallel()

	c := cartWithTotal(t, "99.99")
	total := c.Totals().Total

	for _, tender := range []string{"0", "50.00", "99.98", "99.99", "100.00", "500"} {
		payment, err := c.ResolvePayment(dec(tender))
		if err != nil {
			t.Fatalf("tender %s: %v", tender, err)
		}
		wantShortfall := dec(tender).LessThan(total)
		if payment.Shortfall() != wantShortfall {
			t.Fatalf("tender %s: shortfall=%v, want %v", tender, payment.Shortfall(), wantShortfall)
		}
	}
}

func TestResolvePaymentRejectsNegative(t *testing.T) {
	t.Parallel()

	c := cartWithTotal(t, "10.00")

	_, err := c.ResolvePayment(dec("-0.01"))
	if !pkgerrors.HasCode(err, pkgerrors.CodeInvalidPayment) {
		t.Fatalf("expected INVALID_PAYMENT, got %v", err)
	}
}

func TestResolvePaymentEmptyCart(t *testing.T) {
	t.Parallel()

	payment, err := New().ResolvePayment(dec("5.00"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !payment.Due.IsZero() || !payment.ChangeOrShortfall.Equal(dec("5.00")) {
		t.Fatalf("unexpected resolution %+v", payment)
	}
}

func TestOrderPayload(t *testing.T) {
	t.Parallel()

	c := New()
	a := Item{ID: uuid.New(), Name: "a", UnitPrice: dec("100.00")}
	b := Item{ID: uuid.New(), Name: "b", UnitPrice: dec("20.00")}
	c.AddItem(a)
	c.AddItem(a)
	c.AddItem(b)
	if err := c.ApplyDiscount(a.ID, DiscountPercentage, dec("10")); err != nil {
		t.Fatalf("discount: %v", err)
	}
	cust := Customer{ID: uuid.New(), Name: "Ada"}
	c.AttachCustomer(cust)

	payload := c.OrderPayload(dec("200.00"))

	if payload.CustomerID == nil || *payload.CustomerID != cust.ID {
		t.Fatalf("expected customer id, got %v", payload.CustomerID)
	}
	if len(payload.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(payload.Items))
	}
	if !payload.Items[0].UnitPrice.Equal(dec("90.00")) {
		t.Fatalf("payload must carry the effective price, got %s", payload.Items[0].UnitPrice)
	}
	if payload.Items[0].Discount == nil || !payload.Items[0].Discount.Amount.Equal(dec("10")) {
		t.Fatalf("payload must snapshot the requested discount, got %+v", payload.Items[0].Discount)
	}
	if !payload.TotalAmount.Equal(dec("200.00")) {
		t.Fatalf("expected total 200.00, got %s", payload.TotalAmount)
	}
	if !payload.Discount.Equal(dec("20.00")) {
		t.Fatalf("expected discount 20.00, got %s", payload.Discount)
	}
	if !payload.TotalPaid.Equal(dec("200.00")) {
		t.Fatalf("expected paid 200.00, got %s", payload.TotalPaid)
	}

	// building the payload must not mutate the cart
	if len(c.Lines()) != 2 || c.Customer() == nil {
		t.Fatal("payload construction must leave the cart untouched")
	}
}

func TestOrderPayloadWithoutCustomer(t *testing.T) {
	t.Parallel()

	c := cartWithTotal(t, "10.00")
	payload := c.OrderPayload(dec("10.00"))
	if payload.CustomerID != nil {
		t.Fatal("expected nil customer id")
	}
}
