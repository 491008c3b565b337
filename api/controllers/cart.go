package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/tanvicrafts/storefront-backend/api/middleware"
	"github.com/tanvicrafts/storefront-backend/api/responses"
	"github.com/tanvicrafts/storefront-backend/api/validators"
	"github.com/tanvicrafts/storefront-backend/internal/catalog"
	"github.com/tanvicrafts/storefront-backend/internal/enquiry"
	"github.com/tanvicrafts/storefront-backend/internal/session"
	pkgerrors "github.com/tanvicrafts/storefront-backend/pkg/errors"
	"github.com/tanvicrafts/storefront-backend/pkg/logger"
)

type addCartItemRequest struct {
	ProductID    string `json:"product_id" validate:"required"`
	Quantity     int    `json:"quantity"`
	VariantIndex *int   `json:"variant_index"`
	// BuyNow adds the line and opens an enquiry prefilled with it.
	BuyNow bool `json:"buy_now"`
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

type cartLineView struct {
	ID           string  `json:"id"`
	ProductID    string  `json:"product_id"`
	Name         string  `json:"name"`
	Quantity     int     `json:"quantity"`
	VariantIndex *int    `json:"variant_index,omitempty"`
	Color        string  `json:"color"`
	Unit         string  `json:"unit,omitempty"`
	UnitPrice    float64 `json:"unit_price"`
	Image        string  `json:"image,omitempty"`
	Stock        int     `json:"stock"`
	LineTotal    string  `json:"line_total"`
}

type cartView struct {
	Lines       []cartLineView `json:"lines"`
	ItemCount   int            `json:"item_count"`
	Total       string         `json:"total"`
	Visible     bool           `json:"visible"`
	EnquiryOpen bool           `json:"enquiry_open,omitempty"`
}

func buildCartView(sess *session.Session) cartView {
	lines := sess.Cart.Lines()
	view := cartView{
		Lines:     make([]cartLineView, 0, len(lines)),
		ItemCount: sess.Cart.ItemCount(),
		Total:     sess.Cart.Total().StringFixed(2),
		Visible:   sess.Cart.Visible(),
	}
	for _, line := range lines {
		display := line.Display()
		unit := decimal.NewFromFloat(display.Price)
		view.Lines = append(view.Lines, cartLineView{
			ID:           line.ID,
			ProductID:    line.Product.ID,
			Name:         line.Product.Name,
			Quantity:     line.Quantity,
			VariantIndex: line.VariantIndex,
			Color:        display.Color,
			Unit:         line.Product.Unit,
			UnitPrice:    display.Price,
			Image:        display.Image,
			Stock:        display.Stock,
			LineTotal:    unit.Mul(decimal.NewFromInt(int64(line.Quantity))).StringFixed(2),
		})
	}
	return view
}

// GetCart returns the session's cart with resolved line displays.
func GetCart(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := middleware.SessionFromContext(r.Context())
		if sess == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session missing"))
			return
		}
		responses.WriteSuccess(w, buildCartView(sess))
	}
}

// AddCartItem freezes a product snapshot from the upstream source and merges
// it into the cart. With buy_now set the enquiry form opens prefilled with
// the affected line.
func AddCartItem(source ProductSource, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := middleware.SessionFromContext(r.Context())
		if sess == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session missing"))
			return
		}
		if source == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product source unavailable"))
			return
		}

		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithProductID(ctx, payload.ProductID)
		}

		product, err := source.GetByID(ctx, payload.ProductID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		sel := catalog.SelectionFromIndex(payload.VariantIndex)
		line := sess.Cart.Add(*product, payload.Quantity, sel, "")

		view := buildCartView(sess)
		if payload.BuyNow {
			display := line.Display()
			sess.Enquiry.Open(enquiry.FormContext{
				Kind:            enquiry.KindProductEnquiry,
				ProductID:       line.Product.ID,
				ProductName:     line.Product.Name,
				ProductImage:    display.Image,
				VariantLabel:    display.Color,
				Unit:            line.Product.Unit,
				DefaultQuantity: line.Quantity,
			})
			view.EnquiryOpen = true
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

// UpdateCartItem sets a line's quantity. Unknown lines are a no-op.
func UpdateCartItem(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := middleware.SessionFromContext(r.Context())
		if sess == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session missing"))
			return
		}

		var payload updateCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lineID := chi.URLParam(r, "lineID")
		if _, ok := sess.Cart.Line(lineID); !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found"))
			return
		}

		sess.Cart.UpdateQuantity(lineID, payload.Quantity)
		responses.WriteSuccess(w, buildCartView(sess))
	}
}

// RemoveCartItem deletes a line; absent ids still answer with the cart.
func RemoveCartItem(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := middleware.SessionFromContext(r.Context())
		if sess == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session missing"))
			return
		}

		sess.Cart.Remove(chi.URLParam(r, "lineID"))
		responses.WriteSuccess(w, buildCartView(sess))
	}
}

// ClearCart empties the line list, leaving the drawer visibility untouched.
func ClearCart(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := middleware.SessionFromContext(r.Context())
		if sess == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session missing"))
			return
		}

		sess.Cart.Clear()
		responses.WriteSuccess(w, buildCartView(sess))
	}
}

// CartVisibility maps the open, close and toggle actions onto the drawer flag.
func CartVisibility(action string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := middleware.SessionFromContext(r.Context())
		if sess == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session missing"))
			return
		}

		switch action {
		case "open":
			sess.Cart.Open()
		case "close":
			sess.Cart.Close()
		case "toggle":
			sess.Cart.Toggle()
		default:
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown cart action"))
			return
		}
		responses.WriteSuccess(w, buildCartView(sess))
	}
}
