package controllers

import (
	"net/http"

	"github.com/quickbite-app/quickbite-backend/api/middleware"
	"github.com/quickbite-app/quickbite-backend/api/responses"
	"github.com/quickbite-app/quickbite-backend/internal/cart"
	"github.com/quickbite-app/quickbite-backend/internal/checkout"
	pkgerrors "github.com/quickbite-app/quickbite-backend/pkg/errors"
	"github.com/quickbite-app/quickbite-backend/pkg/logger"
)

// CheckoutSummary returns the order totals for the caller's cart.
func CheckoutSummary(registry *cart.Registry, svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		store, err := cartStoreFromRequest(r, registry)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, svc.Summarize(store))
	}
}

// PlaceOrder runs the confirmation flow. A client disconnect during the
// confirmation delay aborts the order and the cart survives.
func PlaceOrder(registry *cart.Registry, svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		store, err := cartStoreFromRequest(r, registry)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		confirmation, err := svc.PlaceOrder(r.Context(), store)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if logg != nil {
			ctx := logg.WithFields(r.Context(), map[string]any{
				"user_id":     middleware.UserIDFromContext(r.Context()),
				"total_items": confirmation.TotalItems,
			})
			logg.Info(ctx, "checkout.order_placed")
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, confirmation)
	}
}
