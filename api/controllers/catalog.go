package controllers

import (
	"net/http"
	"strings"

	"github.com/counterline/pos-backend/api/responses"
	"github.com/counterline/pos-backend/api/validators"
	"github.com/counterline/pos-backend/internal/catalog"
	"github.com/counterline/pos-backend/pkg/config"
	pkgerrors "github.com/counterline/pos-backend/pkg/errors"
	"github.com/counterline/pos-backend/pkg/logger"
)

// ProductSearch matches products on name or SKU for the register's lookup box.
func ProductSearch(svc catalog.Service, cfg config.CatalogConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := strings.TrimSpace(r.URL.Query().Get("query"))
		if query == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "query is required"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", cfg.SearchLimit, 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		products, err := svc.Search(r.Context(), query, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]productDTO, 0, len(products))
		for _, p := range products {
			out = append(out, newProductDTO(p))
		}
		responses.WriteSuccess(w, out)
	}
}

func ProductDetail(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.PathUUID(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.Get(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newProductDTO(*product))
	}
}

// ProductByBarcode resolves a scanned barcode to a product.
func ProductByBarcode(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		barcode := strings.TrimSpace(r.URL.Query().Get("code"))
		product, err := svc.FindByBarcode(r.Context(), barcode)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newProductDTO(*product))
	}
}
