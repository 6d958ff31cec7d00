package catalog

import (
	"context"
	"strings"

	"github.com/quickbite-app/quickbite-backend/pkg/config"
	"github.com/quickbite-app/quickbite-backend/pkg/docdb"
	pkgerrors "github.com/quickbite-app/quickbite-backend/pkg/errors"
	"github.com/quickbite-app/quickbite-backend/pkg/logger"
)

type documentSource interface {
	ListDocuments(ctx context.Context, collection string, queries ...docdb.Query) (docdb.DocumentList, error)
	GetDocument(ctx context.Context, collection, documentID string) (docdb.Document, error)
}

// Service reads the menu catalog from the hosted document service and decodes
// it into typed entities at this boundary.
type Service interface {
	SearchMenu(ctx context.Context, params SearchParams) ([]MenuItem, error)
	ListCategories(ctx context.Context) ([]Category, error)
	GetMenuItem(ctx context.Context, itemID string) (MenuItem, error)
	CustomizationsFor(ctx context.Context, itemID string) []CustomizationOption
}

type service struct {
	source      documentSource
	collections config.DocdbConfig
	logg        *logger.Logger
}

// NewService builds a catalog service over the document source.
func NewService(source documentSource, cfg config.DocdbConfig, logg *logger.Logger) (Service, error) {
	if source == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "document source is required")
	}
	return &service{source: source, collections: cfg, logg: logg}, nil
}

// SearchMenu lists menu items, optionally filtered by category and a
// full-text name query.
func (s *service) SearchMenu(ctx context.Context, params SearchParams) ([]MenuItem, error) {
	var queries []docdb.Query
	if category := strings.TrimSpace(params.Category); category != "" {
		queries = append(queries, docdb.Equal("categories", category))
	}
	if query := strings.TrimSpace(params.Query); query != "" {
		queries = append(queries, docdb.Search("name", query))
	}
	if params.Limit > 0 {
		queries = append(queries, docdb.Limit(params.Limit))
	}

	list, err := s.source.ListDocuments(ctx, s.collections.MenuCollection, queries...)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch menu")
	}

	items := make([]MenuItem, 0, len(list.Documents))
	for _, doc := range list.Documents {
		items = append(items, decodeMenuItem(doc))
	}
	return items, nil
}

// ListCategories returns every browse category.
func (s *service) ListCategories(ctx context.Context) ([]Category, error) {
	list, err := s.source.ListDocuments(ctx, s.collections.CategoriesCollection)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch categories")
	}

	categories := make([]Category, 0, len(list.Documents))
	for _, doc := range list.Documents {
		categories = append(categories, decodeCategory(doc))
	}
	return categories, nil
}

// GetMenuItem loads one menu item by id.
func (s *service) GetMenuItem(ctx context.Context, itemID string) (MenuItem, error) {
	if strings.TrimSpace(itemID) == "" {
		return MenuItem{}, pkgerrors.New(pkgerrors.CodeValidation, "menu item id is required")
	}

	doc, err := s.source.GetDocument(ctx, s.collections.MenuCollection, itemID)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
			return MenuItem{}, pkgerrors.New(pkgerrors.CodeNotFound, "menu item not found")
		}
		return MenuItem{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch menu item")
	}
	return decodeMenuItem(doc), nil
}

// CustomizationsFor resolves the customization options linked to a menu item
// through the join collection. Failures degrade to an empty list so the base
// item stays orderable; they are logged, never surfaced.
func (s *service) CustomizationsFor(ctx context.Context, itemID string) []CustomizationOption {
	links, err := s.source.ListDocuments(ctx, s.collections.MenuCustomizationsCollection, docdb.Equal("menu", itemID))
	if err != nil {
		s.warn(ctx, itemID, "fetch menu customization links failed", err)
		return []CustomizationOption{}
	}

	options := make([]CustomizationOption, 0, len(links.Documents))
	for _, link := range links.Documents {
		customizationID := link.String("customizations")
		if customizationID == "" {
			continue
		}
		doc, err := s.source.GetDocument(ctx, s.collections.CustomizationsCollection, customizationID)
		if err != nil {
			s.warn(ctx, itemID, "fetch customization failed", err)
			continue
		}
		options = append(options, decodeCustomization(doc))
	}
	return options
}

func (s *service) warn(ctx context.Context, itemID, msg string, err error) {
	if s.logg == nil {
		return
	}
	ctx = s.logg.WithMenuItemID(ctx, itemID)
	ctx = s.logg.WithField(ctx, "error", err.Error())
	s.logg.Warn(ctx, msg)
}
