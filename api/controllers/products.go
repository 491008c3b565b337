package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tanvicrafts/storefront-backend/api/middleware"
	"github.com/tanvicrafts/storefront-backend/api/responses"
	"github.com/tanvicrafts/storefront-backend/api/validators"
	"github.com/tanvicrafts/storefront-backend/internal/catalog"
	pkgerrors "github.com/tanvicrafts/storefront-backend/pkg/errors"
	"github.com/tanvicrafts/storefront-backend/pkg/logger"
)

// ProductSource is the catalog surface the product handlers read from.
type ProductSource interface {
	List(ctx context.Context, params catalog.ListParams) ([]catalog.Product, error)
	GetByID(ctx context.Context, id string) (*catalog.Product, error)
}

// ListProducts passes the optional q and category filters to the upstream
// product source.
func ListProducts(source ProductSource, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if source == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product source unavailable"))
			return
		}

		params := catalog.ListParams{
			Query:    strings.TrimSpace(r.URL.Query().Get("q")),
			Category: strings.TrimSpace(r.URL.Query().Get("category")),
		}

		products, err := source.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, products)
	}
}

// GetProduct returns one product with its resolved base display.
func GetProduct(source ProductSource, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if source == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product source unavailable"))
			return
		}

		productID := chi.URLParam(r, "productID")
		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithProductID(ctx, productID)
		}

		product, err := source.GetByID(ctx, productID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, productView{
			Product: *product,
			Display: catalog.ResolveDisplay(*product, catalog.NoVariant()),
		})
	}
}

// GetProductDisplay resolves the display attributes for a variant selection.
// Out-of-range or absent selections resolve to the base product attributes.
func GetProductDisplay(source ProductSource, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if source == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product source unavailable"))
			return
		}

		productID := chi.URLParam(r, "productID")
		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithProductID(ctx, productID)
		}

		var payload displayRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		product, err := source.GetByID(ctx, productID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		sel := catalog.SelectionFromIndex(payload.VariantIndex)
		responses.WriteSuccess(w, catalog.ResolveDisplay(*product, sel))
	}
}

// SubmitSearch schedules a debounced upstream search for the session. The
// lookup runs once the debounce window closes; poll GetSearchResult for the
// winning query's outcome.
func SubmitSearch(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := middleware.SessionFromContext(r.Context())
		if sess == nil || sess.Search == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "search unavailable"))
			return
		}

		var payload searchRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sess.Search.Submit(strings.TrimSpace(payload.Query))
		responses.WriteSuccessStatus(w, http.StatusAccepted, map[string]string{"status": "scheduled"})
	}
}

// GetSearchResult returns the latest delivered search result for the session.
func GetSearchResult(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := middleware.SessionFromContext(r.Context())
		if sess == nil || sess.Search == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "search unavailable"))
			return
		}

		res, ok := sess.Search.Latest()
		if !ok {
			responses.WriteSuccess(w, searchResultView{Ready: false})
			return
		}
		view := searchResultView{Ready: true, Query: res.Query, Products: res.Products}
		if res.Err != nil {
			view.Error = "product source unavailable"
			view.Products = nil
		}
		responses.WriteSuccess(w, view)
	}
}

type productView struct {
	catalog.Product
	Display catalog.Display `json:"display"`
}

type displayRequest struct {
	VariantIndex *int `json:"variant_index"`
}

type searchRequest struct {
	Query string `json:"query" validate:"max=200"`
}

type searchResultView struct {
	Ready    bool              `json:"ready"`
	Query    string            `json:"query,omitempty"`
	Products []catalog.Product `json:"products,omitempty"`
	Error    string            `json:"error,omitempty"`
}
