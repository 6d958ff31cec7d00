package catalog

import (
	"github.com/quickbite-app/quickbite-backend/pkg/docdb"
	"github.com/shopspring/decimal"
)

const (
	defaultItemName  = "Unknown"
	defaultItemType  = "Regular"
	defaultGroupName = "default"
)

// The document service enforces no schema, so every field is decoded with a
// deterministic default instead of failing the whole record.

func decodeMenuItem(doc docdb.Document) MenuItem {
	item := MenuItem{
		ID:          doc.ID(),
		Name:        doc.String("name"),
		ImageURL:    doc.String("image_url"),
		Description: doc.String("description"),
		Type:        doc.String("type"),
	}
	if item.Name == "" {
		item.Name = defaultItemName
	}
	if item.Type == "" {
		item.Type = defaultItemType
	}
	if price, ok := doc.Number("price"); ok {
		item.Price = decimal.NewFromFloat(price)
	}
	if calories, ok := doc.Number("calories"); ok {
		item.Calories = int(calories)
	}
	if protein, ok := doc.Number("protein"); ok {
		item.Protein = int(protein)
	}
	if rating, ok := doc.Number("rating"); ok {
		item.Rating = rating
	}
	return item
}

func decodeCategory(doc docdb.Document) Category {
	return Category{
		ID:          doc.ID(),
		Name:        doc.String("name"),
		Description: doc.String("description"),
	}
}

func decodeCustomization(doc docdb.Document) CustomizationOption {
	option := CustomizationOption{
		ID:   doc.ID(),
		Name: doc.String("name"),
	}
	if price, ok := doc.Number("price"); ok {
		option.Price = decimal.NewFromFloat(price)
	}

	// The seed data stores the display group under "type".
	option.Group = doc.String("group")
	if option.Group == "" {
		option.Group = doc.String("type")
	}
	if option.Group == "" {
		option.Group = defaultGroupName
	}

	option.ChoiceType = ChoiceType(doc.String("choiceType"))
	if !option.ChoiceType.IsValid() {
		option.ChoiceType = ChoiceSingle
	}
	return option
}
