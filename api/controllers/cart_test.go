package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/quickbite-app/quickbite-backend/api/middleware"
	"github.com/quickbite-app/quickbite-backend/internal/cart"
	"github.com/quickbite-app/quickbite-backend/internal/catalog"
	"github.com/quickbite-app/quickbite-backend/internal/checkout"
	"github.com/quickbite-app/quickbite-backend/pkg/config"
	pkgerrors "github.com/quickbite-app/quickbite-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

type stubCatalog struct {
	items   map[string]catalog.MenuItem
	options map[string][]catalog.CustomizationOption
}

func (s *stubCatalog) SearchMenu(ctx context.Context, params catalog.SearchParams) ([]catalog.MenuItem, error) {
	return nil, nil
}

func (s *stubCatalog) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	return nil, nil
}

func (s *stubCatalog) GetMenuItem(ctx context.Context, itemID string) (catalog.MenuItem, error) {
	if item, ok := s.items[itemID]; ok {
		return item, nil
	}
	return catalog.MenuItem{}, pkgerrors.New(pkgerrors.CodeNotFound, "menu item not found")
}

func (s *stubCatalog) CustomizationsFor(ctx context.Context, itemID string) []catalog.CustomizationOption {
	return s.options[itemID]
}

func testCheckoutService() checkout.Service {
	return checkout.NewService(config.CheckoutConfig{DeliveryFee: "5.00", Discount: "0.50"}, nil)
}

func authedRequest(method, target string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	return req.WithContext(middleware.WithUserID(req.Context(), "u1"))
}

func decodeCartData(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope struct {
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return envelope.Data
}

func TestCartAddItemResolvesCatalogPricing(t *testing.T) {
	t.Parallel()

	catalogSvc := &stubCatalog{
		items: map[string]catalog.MenuItem{
			"m1": {ID: "m1", Name: "Classic Burger", Price: decimal.NewFromInt(8)},
		},
		options: map[string][]catalog.CustomizationOption{
			"m1": {
				{ID: "c1", Name: "Extra Cheese", Price: decimal.NewFromFloat(1.50), Group: "topping"},
				{ID: "c2", Name: "Bacon", Price: decimal.NewFromFloat(0.75), Group: "topping"},
			},
		},
	}
	registry := cart.NewRegistry()
	handler := CartAddItem(registry, catalogSvc, testCheckoutService(), nil, nil)

	rec := httptest.NewRecorder()
	handler(rec, authedRequest(http.MethodPost, "/api/v1/cart/items", map[string]any{
		"menu_item_id":      "m1",
		"customization_ids": []string{"c1", "c2"},
		"quantity":          3,
	}))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	items := registry.StoreFor("u1").Items()
	if len(items) != 1 {
		t.Fatalf("expected 1 row, got %d", len(items))
	}
	// 8.00 + 1.50 + 0.75 per unit.
	if !items[0].Price.Equal(decimal.NewFromFloat(10.25)) {
		t.Fatalf("unit price = %s, want 10.25", items[0].Price)
	}
	if items[0].Quantity != 3 {
		t.Fatalf("quantity = %d, want 3", items[0].Quantity)
	}
}

func TestCartAddItemRejectsUnknownCustomization(t *testing.T) {
	t.Parallel()

	catalogSvc := &stubCatalog{
		items: map[string]catalog.MenuItem{
			"m1": {ID: "m1", Name: "Classic Burger", Price: decimal.NewFromInt(8)},
		},
	}
	registry := cart.NewRegistry()
	handler := CartAddItem(registry, catalogSvc, testCheckoutService(), nil, nil)

	rec := httptest.NewRecorder()
	handler(rec, authedRequest(http.MethodPost, "/api/v1/cart/items", map[string]any{
		"menu_item_id":      "m1",
		"customization_ids": []string{"ghost"},
	}))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if registry.StoreFor("u1").TotalItems() != 0 {
		t.Fatal("cart must stay empty on rejected add")
	}
}

func TestCartMutationsRoundTrip(t *testing.T) {
	t.Parallel()

	registry := cart.NewRegistry()
	store := registry.StoreFor("u1")
	store.AddItem(cart.LineItem{MenuItemID: "m1", Name: "Burger", Price: decimal.NewFromInt(8), Quantity: 1})

	checkoutSvc := testCheckoutService()
	ref := map[string]any{"menu_item_id": "m1", "customization_ids": []string{}}

	rec := httptest.NewRecorder()
	CartIncrease(registry, checkoutSvc, nil, nil)(rec, authedRequest(http.MethodPost, "/api/v1/cart/items/increase", ref))
	if rec.Code != http.StatusOK || store.TotalItems() != 2 {
		t.Fatalf("after increase: status = %d, total = %d", rec.Code, store.TotalItems())
	}

	rec = httptest.NewRecorder()
	CartDecrease(registry, checkoutSvc, nil, nil)(rec, authedRequest(http.MethodPost, "/api/v1/cart/items/decrease", ref))
	rec = httptest.NewRecorder()
	CartDecrease(registry, checkoutSvc, nil, nil)(rec, authedRequest(http.MethodPost, "/api/v1/cart/items/decrease", ref))
	if store.TotalItems() != 1 {
		t.Fatalf("decrease must floor at 1, got total %d", store.TotalItems())
	}

	rec = httptest.NewRecorder()
	CartRemove(registry, checkoutSvc, nil, nil)(rec, authedRequest(http.MethodDelete, "/api/v1/cart/items", ref))
	if store.TotalItems() != 0 {
		t.Fatalf("remove must delete the row, got total %d", store.TotalItems())
	}
}

func TestCartFetchIncludesSummary(t *testing.T) {
	t.Parallel()

	registry := cart.NewRegistry()
	registry.StoreFor("u1").AddItem(cart.LineItem{MenuItemID: "m1", Price: decimal.NewFromFloat(10.25), Quantity: 3})

	rec := httptest.NewRecorder()
	CartFetch(registry, testCheckoutService(), nil)(rec, authedRequest(http.MethodGet, "/api/v1/cart", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	data := decodeCartData(t, rec)
	summary, ok := data["summary"].(map[string]any)
	if !ok {
		t.Fatalf("missing summary in %v", data)
	}
	if summary["formatted_grand_total"] != "$35.25" {
		t.Fatalf("formatted grand total = %v, want $35.25", summary["formatted_grand_total"])
	}
}

func TestCartRequiresAuthenticatedUser(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	CartFetch(cart.NewRegistry(), testCheckoutService(), nil)(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestCartsAreIsolatedPerUser(t *testing.T) {
	t.Parallel()

	registry := cart.NewRegistry()
	registry.StoreFor("u1").AddItem(cart.LineItem{MenuItemID: "m1", Price: decimal.NewFromInt(8), Quantity: 2})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), "u2"))
	CartFetch(registry, testCheckoutService(), nil)(rec, req)

	data := decodeCartData(t, rec)
	items, _ := data["items"].([]any)
	if len(items) != 0 {
		t.Fatalf("u2 must see an empty cart, got %v", items)
	}
}
