package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/counterline/pos-backend/api/responses"
	"github.com/counterline/pos-backend/api/validators"
	"github.com/counterline/pos-backend/internal/terminal"
	"github.com/counterline/pos-backend/pkg/logger"
)

type paymentRequest struct {
	AmountTendered decimal.Decimal `json:"amount_tendered"`
}

type checkoutRequest struct {
	AmountPaid decimal.Decimal `json:"amount_paid"`
}

// CartResolvePayment previews change or shortfall. It never finalizes.
func CartResolvePayment(svc *terminal.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cartID, err := validators.PathUUID(r, "cartID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload paymentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payment, err := svc.ResolvePayment(r.Context(), cartID, payload.AmountTendered)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newPaymentDTO(payment))
	}
}

// CartCheckout finalizes the transaction as a persisted sale.
func CartCheckout(svc *terminal.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cartID, err := validators.PathUUID(r, "cartID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		confirmation, err := svc.Checkout(r.Context(), cartID, payload.AmountPaid)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newConfirmationDTO(confirmation))
	}
}
