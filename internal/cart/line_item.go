package cart

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Customization is the selection snapshot baked into a line item at add time.
type Customization struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Type  string          `json:"type"`
}

// LineItem is one purchasable configuration of a menu item in the cart. Name,
// price and image are display snapshots taken at add time; Price is per-unit
// and already includes the selected customizations.
type LineItem struct {
	MenuItemID     string          `json:"menu_item_id"`
	Name           string          `json:"name"`
	Price          decimal.Decimal `json:"price"`
	ImageURL       string          `json:"image_url"`
	Customizations []Customization `json:"customizations"`
	Quantity       int             `json:"quantity"`
}

// Key returns the composite identity of the line item: the menu item id plus
// the canonical (sorted, deduplicated) customization id set. Two line items
// with equal keys are the same cart row.
func (li LineItem) Key() string {
	return rowKey(li.MenuItemID, CustomizationIDs(li.Customizations))
}

// LineTotal is the row's contribution to the subtotal.
func (li LineItem) LineTotal() decimal.Decimal {
	return li.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// CustomizationIDs extracts the id set of a customization snapshot.
func CustomizationIDs(customizations []Customization) []string {
	ids := make([]string, 0, len(customizations))
	for _, c := range customizations {
		ids = append(ids, c.ID)
	}
	return ids
}

func rowKey(menuItemID string, customizationIDs []string) string {
	if len(customizationIDs) == 0 {
		return menuItemID
	}
	canonical := make([]string, 0, len(customizationIDs))
	seen := make(map[string]struct{}, len(customizationIDs))
	for _, id := range customizationIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		canonical = append(canonical, id)
	}
	sort.Strings(canonical)
	return menuItemID + "::" + strings.Join(canonical, ",")
}
