package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/quickbite-app/quickbite-backend/api/responses"
	"github.com/quickbite-app/quickbite-backend/internal/catalog"
	"github.com/quickbite-app/quickbite-backend/internal/customize"
	pkgerrors "github.com/quickbite-app/quickbite-backend/pkg/errors"
	"github.com/quickbite-app/quickbite-backend/pkg/logger"
)

const defaultMenuLimit = 6

// MenuSearch lists menu items filtered by category and a name query.
func MenuSearch(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		params := catalog.SearchParams{
			Category: r.URL.Query().Get("category"),
			Query:    r.URL.Query().Get("query"),
			Limit:    defaultMenuLimit,
		}
		if raw := r.URL.Query().Get("limit"); raw != "" {
			limit, err := strconv.Atoi(raw)
			if err != nil || limit < 1 {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "limit must be a positive integer"))
				return
			}
			params.Limit = limit
		}

		items, err := svc.SearchMenu(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, items)
	}
}

// MenuCategories lists the browse categories.
func MenuCategories(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		categories, err := svc.ListCategories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, categories)
	}
}

type customizationGroup struct {
	Name    string                        `json:"name"`
	Options []catalog.CustomizationOption `json:"options"`
}

type menuItemDetail struct {
	catalog.MenuItem
	Customizations []catalog.CustomizationOption `json:"customizations"`
	Groups         []customizationGroup          `json:"groups"`
}

// MenuItemDetail returns one menu item with its customization options, both
// flat and partitioned into display groups. Option resolution degrades to an
// empty list rather than failing the detail view.
func MenuItemDetail(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		itemID := chi.URLParam(r, "itemId")
		item, err := svc.GetMenuItem(r.Context(), itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		options := svc.CustomizationsFor(r.Context(), itemID)
		selector := customize.NewSelector(options)
		groups := make([]customizationGroup, 0, len(selector.Groups()))
		for _, name := range selector.Groups() {
			groups = append(groups, customizationGroup{Name: name, Options: selector.OptionsIn(name)})
		}

		responses.WriteSuccess(w, menuItemDetail{
			MenuItem:       item,
			Customizations: options,
			Groups:         groups,
		})
	}
}

// MenuItemCustomizations returns the customization options alone. The list is
// empty, never an error, when resolution fails upstream.
func MenuItemCustomizations(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		responses.WriteSuccess(w, svc.CustomizationsFor(r.Context(), chi.URLParam(r, "itemId")))
	}
}
