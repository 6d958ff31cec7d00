package controllers

import (
	"net/http"

	"github.com/quickbite-app/quickbite-backend/api/middleware"
	"github.com/quickbite-app/quickbite-backend/api/responses"
	"github.com/quickbite-app/quickbite-backend/api/validators"
	"github.com/quickbite-app/quickbite-backend/internal/cart"
	"github.com/quickbite-app/quickbite-backend/internal/catalog"
	"github.com/quickbite-app/quickbite-backend/internal/checkout"
	pkgerrors "github.com/quickbite-app/quickbite-backend/pkg/errors"
	"github.com/quickbite-app/quickbite-backend/pkg/logger"
	"github.com/quickbite-app/quickbite-backend/pkg/metrics"
)

type addItemRequest struct {
	MenuItemID       string   `json:"menu_item_id" validate:"required"`
	CustomizationIDs []string `json:"customization_ids"`
	Quantity         int      `json:"quantity" validate:"omitempty,min=1"`
}

type lineItemRef struct {
	MenuItemID       string   `json:"menu_item_id" validate:"required"`
	CustomizationIDs []string `json:"customization_ids"`
}

type cartView struct {
	Items   []cart.LineItem  `json:"items"`
	Summary checkout.Summary `json:"summary"`
}

func newCartView(store *cart.Store, checkoutSvc checkout.Service) cartView {
	snap := store.Snapshot()
	return cartView{
		Items:   snap.Items,
		Summary: checkoutSvc.Summarize(store),
	}
}

func cartStoreFromRequest(r *http.Request, registry *cart.Registry) (*cart.Store, error) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	return registry.StoreFor(userID), nil
}

// CartFetch returns the caller's cart rows with the derived order summary.
func CartFetch(registry *cart.Registry, checkoutSvc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := cartStoreFromRequest(r, registry)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartView(store, checkoutSvc))
	}
}

// CartAddItem resolves the menu item and the picked customizations from the
// catalog, then merges the configured item into the cart. The stored per-unit
// price is the base price plus the selected customization prices.
func CartAddItem(registry *cart.Registry, catalogSvc catalog.Service, checkoutSvc checkout.Service, cartMetrics *metrics.CartMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := cartStoreFromRequest(r, registry)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body addItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := catalogSvc.GetMenuItem(r.Context(), body.MenuItemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		picked, err := resolveCustomizations(r, catalogSvc, body.MenuItemID, body.CustomizationIDs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		unitPrice := item.Price
		for _, c := range picked {
			unitPrice = unitPrice.Add(c.Price)
		}

		store.AddItem(cart.LineItem{
			MenuItemID:     item.ID,
			Name:           item.Name,
			Price:          unitPrice,
			ImageURL:       item.ImageURL,
			Customizations: picked,
			Quantity:       body.Quantity,
		})
		cartMetrics.IncMutation("add")

		responses.WriteSuccessStatus(w, http.StatusCreated, newCartView(store, checkoutSvc))
	}
}

// CartIncrease bumps the quantity of the row matching the composite identity.
func CartIncrease(registry *cart.Registry, checkoutSvc checkout.Service, cartMetrics *metrics.CartMetrics, logg *logger.Logger) http.HandlerFunc {
	return cartRowMutation(registry, checkoutSvc, cartMetrics, logg, "increase", func(store *cart.Store, ref lineItemRef) {
		store.IncreaseQty(ref.MenuItemID, ref.CustomizationIDs)
	})
}

// CartDecrease lowers the quantity of the matching row, never below one.
func CartDecrease(registry *cart.Registry, checkoutSvc checkout.Service, cartMetrics *metrics.CartMetrics, logg *logger.Logger) http.HandlerFunc {
	return cartRowMutation(registry, checkoutSvc, cartMetrics, logg, "decrease", func(store *cart.Store, ref lineItemRef) {
		store.DecreaseQty(ref.MenuItemID, ref.CustomizationIDs)
	})
}

// CartRemove deletes the matching row regardless of its quantity.
func CartRemove(registry *cart.Registry, checkoutSvc checkout.Service, cartMetrics *metrics.CartMetrics, logg *logger.Logger) http.HandlerFunc {
	return cartRowMutation(registry, checkoutSvc, cartMetrics, logg, "remove", func(store *cart.Store, ref lineItemRef) {
		store.RemoveItem(ref.MenuItemID, ref.CustomizationIDs)
	})
}

// CartClear empties the caller's cart.
func CartClear(registry *cart.Registry, checkoutSvc checkout.Service, cartMetrics *metrics.CartMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := cartStoreFromRequest(r, registry)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store.Clear()
		cartMetrics.IncMutation("clear")

		responses.WriteSuccess(w, newCartView(store, checkoutSvc))
	}
}

func cartRowMutation(registry *cart.Registry, checkoutSvc checkout.Service, cartMetrics *metrics.CartMetrics, logg *logger.Logger, op string, mutate func(*cart.Store, lineItemRef)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := cartStoreFromRequest(r, registry)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body lineItemRef
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		mutate(store, body)
		cartMetrics.IncMutation(op)

		responses.WriteSuccess(w, newCartView(store, checkoutSvc))
	}
}

func resolveCustomizations(r *http.Request, catalogSvc catalog.Service, menuItemID string, ids []string) ([]cart.Customization, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	available := catalogSvc.CustomizationsFor(r.Context(), menuItemID)
	byID := make(map[string]catalog.CustomizationOption, len(available))
	for _, option := range available {
		byID[option.ID] = option
	}

	picked := make([]cart.Customization, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		option, ok := byID[id]
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown customization").
				WithDetails(map[string]string{"customization_id": id})
		}
		picked = append(picked, cart.Customization{
			ID:    option.ID,
			Name:  option.Name,
			Price: option.Price,
			Type:  option.Group,
		})
	}
	return picked, nil
}
