package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/quickbite-app/quickbite-backend/pkg/config"
	"github.com/quickbite-app/quickbite-backend/pkg/docdb"
	pkgerrors "github.com/quickbite-app/quickbite-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	lists    map[string]docdb.DocumentList
	docs     map[string]docdb.Document
	listErr  error
	getErr   error
	captured []docdb.Query
}

func (s *stubSource) ListDocuments(ctx context.Context, collection string, queries ...docdb.Query) (docdb.DocumentList, error) {
	s.captured = queries
	if s.listErr != nil {
		return docdb.DocumentList{}, s.listErr
	}
	return s.lists[collection], nil
}

func (s *stubSource) GetDocument(ctx context.Context, collection, documentID string) (docdb.Document, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	doc, ok := s.docs[collection+"/"+documentID]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "document not found")
	}
	return doc, nil
}

func testCollections() config.DocdbConfig {
	return config.DocdbConfig{
		MenuCollection:               "menu",
		CategoriesCollection:         "categories",
		CustomizationsCollection:     "customizations",
		MenuCustomizationsCollection: "menu_customizations",
	}
}

func newTestService(t *testing.T, source documentSource) Service {
	t.Helper()
	svc, err := NewService(source, testCollections(), nil)
	require.NoError(t, err)
	return svc
}

func TestSearchMenuBuildsQueries(t *testing.T) {
	t.Parallel()

	source := &stubSource{lists: map[string]docdb.DocumentList{
		"menu": {Documents: []docdb.Document{{"$id": "m1", "name": "Classic Burger", "price": 8.0}}},
	}}
	svc := newTestService(t, source)

	items, err := svc.SearchMenu(context.Background(), SearchParams{Category: "burgers", Query: "classic", Limit: 6})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "Classic Burger", items[0].Name)

	require.Len(t, source.captured, 3)
	require.Equal(t, "equal", source.captured[0].Method)
	require.Equal(t, "search", source.captured[1].Method)
	require.Equal(t, "limit", source.captured[2].Method)
}

func TestSearchMenuSkipsEmptyFilters(t *testing.T) {
	t.Parallel()

	source := &stubSource{lists: map[string]docdb.DocumentList{}}
	svc := newTestService(t, source)

	_, err := svc.SearchMenu(context.Background(), SearchParams{})
	require.NoError(t, err)
	require.Empty(t, source.captured)
}

func TestGetMenuItemDecodesWithDefaults(t *testing.T) {
	t.Parallel()

	source := &stubSource{docs: map[string]docdb.Document{
		"menu/m1": {
			"$id":      "m1",
			"price":    "8.00",
			"calories": 450.0,
			"rating":   4.5,
		},
	}}
	svc := newTestService(t, source)

	item, err := svc.GetMenuItem(context.Background(), "m1")
	require.NoError(t, err)
	require.Equal(t, "Unknown", item.Name)
	require.Equal(t, "Regular", item.Type)
	require.True(t, item.Price.Equal(decimal.NewFromInt(8)), "price %s", item.Price)
	require.Equal(t, 450, item.Calories)
	require.Equal(t, 4.5, item.Rating)
}

func TestGetMenuItemNotFound(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &stubSource{})

	_, err := svc.GetMenuItem(context.Background(), "missing")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestCustomizationsForResolvesLinks(t *testing.T) {
	t.Parallel()

	source := &stubSource{
		lists: map[string]docdb.DocumentList{
			"menu_customizations": {Documents: []docdb.Document{
				{"$id": "l1", "menu": "m1", "customizations": "c1"},
				{"$id": "l2", "menu": "m1", "customizations": "c2"},
				{"$id": "l3", "menu": "m1"}, // dangling link, skipped
			}},
		},
		docs: map[string]docdb.Document{
			"customizations/c1": {"$id": "c1", "name": "Extra Cheese", "price": 1.5, "type": "topping"},
			"customizations/c2": {"$id": "c2", "name": "Fries", "price": 2.0, "type": "side", "choiceType": "multiple"},
		},
	}
	svc := newTestService(t, source)

	options := svc.CustomizationsFor(context.Background(), "m1")
	require.Len(t, options, 2)
	require.Equal(t, "topping", options[0].Group)
	require.Equal(t, ChoiceSingle, options[0].ChoiceType)
	require.Equal(t, ChoiceMultiple, options[1].ChoiceType)
}

func TestCustomizationsForDegradesToEmptyOnError(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &stubSource{listErr: errors.New("upstream down")})

	options := svc.CustomizationsFor(context.Background(), "m1")
	require.NotNil(t, options)
	require.Empty(t, options)
}

func TestCustomizationsForSkipsFailedLookups(t *testing.T) {
	t.Parallel()

	source := &stubSource{
		lists: map[string]docdb.DocumentList{
			"menu_customizations": {Documents: []docdb.Document{
				{"$id": "l1", "menu": "m1", "customizations": "c1"},
				{"$id": "l2", "menu": "m1", "customizations": "gone"},
			}},
		},
		docs: map[string]docdb.Document{
			"customizations/c1": {"$id": "c1", "name": "Extra Cheese", "price": 1.5},
		},
	}
	svc := newTestService(t, source)

	options := svc.CustomizationsFor(context.Background(), "m1")
	require.Len(t, options, 1)
	require.Equal(t, "default", options[0].Group)
}
