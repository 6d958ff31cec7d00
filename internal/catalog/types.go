package catalog

import "github.com/shopspring/decimal"

// ChoiceType controls selection behavior inside a customization group.
type ChoiceType string

const (
	// ChoiceSingle replaces the group's selection on every pick.
	ChoiceSingle ChoiceType = "single"
	// ChoiceMultiple toggles options independently within the group.
	ChoiceMultiple ChoiceType = "multiple"
)

// IsValid reports whether the choice type is one of the known values.
func (c ChoiceType) IsValid() bool {
	return c == ChoiceSingle || c == ChoiceMultiple
}

// MenuItem is the typed menu record decoded from the document service.
type MenuItem struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url"`
	Description string          `json:"description"`
	Calories    int             `json:"calories"`
	Protein     int             `json:"protein"`
	Rating      float64         `json:"rating"`
	Type        string          `json:"type"`
}

// Category partitions the menu for browsing.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CustomizationOption is an add-on purchasable with a menu item. Group names
// partition options for display; ChoiceType governs selection within the
// group.
type CustomizationOption struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Group      string          `json:"group"`
	ChoiceType ChoiceType      `json:"choice_type"`
}

// SearchParams narrows a menu listing.
type SearchParams struct {
	Category string
	Query    string
	Limit    int
}
