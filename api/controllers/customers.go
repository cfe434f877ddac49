package controllers

import (
	"net/http"
	"strings"

	"github.com/counterline/pos-backend/api/responses"
	"github.com/counterline/pos-backend/api/validators"
	"github.com/counterline/pos-backend/internal/customers"
	pkgerrors "github.com/counterline/pos-backend/pkg/errors"
	"github.com/counterline/pos-backend/pkg/logger"
)

// CustomerSearch matches directory entries on name or phone.
func CustomerSearch(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := strings.TrimSpace(r.URL.Query().Get("query"))
		if query == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "query is required"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 20, 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		results, err := svc.Search(r.Context(), query, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]customerDTO, 0, len(results))
		for _, c := range results {
			out = append(out, newCustomerDTO(c))
		}
		responses.WriteSuccess(w, out)
	}
}

func CustomerDetail(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := validators.PathUUID(r, "customerID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		customer, err := svc.Get(r.Context(), customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCustomerDTO(*customer))
	}
}
