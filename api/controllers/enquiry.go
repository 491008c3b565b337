package controllers

import (
	"net/http"

	"github.com/tanvicrafts/storefront-backend/api/middleware"
	"github.com/tanvicrafts/storefront-backend/api/responses"
	"github.com/tanvicrafts/storefront-backend/api/validators"
	"github.com/tanvicrafts/storefront-backend/internal/catalog"
	"github.com/tanvicrafts/storefront-backend/internal/enquiry"
	pkgerrors "github.com/tanvicrafts/storefront-backend/pkg/errors"
	"github.com/tanvicrafts/storefront-backend/pkg/logger"
)

type openEnquiryRequest struct {
	ProductID    string `json:"product_id" validate:"required"`
	VariantIndex *int   `json:"variant_index"`
	Quantity     int    `json:"quantity"`
}

// enquiryDraftRequest carries the editable form fields. Validation happens
// in the engine, which reports every violated field at once.
type enquiryDraftRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Location     string `json:"location"`
	Quantity     int    `json:"quantity"`
	PurchaseType string `json:"purchase_type"`
	CompanyName  string `json:"company_name"`
	Message      string `json:"message"`
}

func (r enquiryDraftRequest) toDraft() enquiry.Draft {
	return enquiry.Draft{
		Name:         r.Name,
		Email:        r.Email,
		Phone:        r.Phone,
		Location:     r.Location,
		Quantity:     r.Quantity,
		PurchaseType: enquiry.PurchaseType(r.PurchaseType),
		CompanyName:  r.CompanyName,
		Message:      r.Message,
	}
}

type quantityRequest struct {
	Op string `json:"op" validate:"required,oneof=increment decrement"`
}

type enquiryView struct {
	Open         bool                `json:"open"`
	State        enquiry.State       `json:"state"`
	Context      enquiry.FormContext `json:"context"`
	Draft        enquiry.Draft       `json:"draft"`
	FieldErrors  map[string]string   `json:"field_errors,omitempty"`
	ErrorMessage string              `json:"error_message,omitempty"`
}

func buildEnquiryView(engine *enquiry.Engine) enquiryView {
	return enquiryView{
		Open:         engine.IsOpen(),
		State:        engine.State(),
		Context:      engine.Context(),
		Draft:        engine.Draft(),
		FieldErrors:  engine.FieldErrors(),
		ErrorMessage: engine.ErrorMessage(),
	}
}

// OpenEnquiry starts a form cycle prefilled from the product and selection.
func OpenEnquiry(source ProductSource, logg *logger.Logger) http.HandlerFunc {
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

		var payload openEnquiryRequest
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

		display := catalog.ResolveDisplay(*product, catalog.SelectionFromIndex(payload.VariantIndex))
		sess.Enquiry.Open(enquiry.FormContext{
			Kind:            enquiry.KindProductEnquiry,
			ProductID:       product.ID,
			ProductName:     product.Name,
			ProductImage:    display.Image,
			VariantLabel:    display.Color,
			Unit:            product.Unit,
			DefaultQuantity: payload.Quantity,
		})
		responses.WriteSuccess(w, buildEnquiryView(sess.Enquiry))
	}
}

// GetEnquiry returns the form's current lifecycle state and draft.
func GetEnquiry(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := middleware.SessionFromContext(r.Context())
		if sess == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session missing"))
			return
		}
		responses.WriteSuccess(w, buildEnquiryView(sess.Enquiry))
	}
}

// UpdateEnquiryDraft replaces the editable fields without submitting.
func UpdateEnquiryDraft(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := middleware.SessionFromContext(r.Context())
		if sess == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session missing"))
			return
		}

		var payload enquiryDraftRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := sess.Enquiry.UpdateDraft(payload.toDraft()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, buildEnquiryView(sess.Enquiry))
	}
}

// AdjustEnquiryQuantity applies the increment or decrement control.
func AdjustEnquiryQuantity(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := middleware.SessionFromContext(r.Context())
		if sess == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session missing"))
			return
		}

		var payload quantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if payload.Op == "increment" {
			sess.Enquiry.IncrementQuantity()
		} else {
			sess.Enquiry.DecrementQuantity()
		}
		responses.WriteSuccess(w, buildEnquiryView(sess.Enquiry))
	}
}

// SubmitEnquiry applies the posted draft and submits it. Validation failures
// come back with one message per violated field.
func SubmitEnquiry(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := middleware.SessionFromContext(r.Context())
		if sess == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session missing"))
			return
		}

		var payload enquiryDraftRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := sess.Enquiry.UpdateDraft(payload.toDraft()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := sess.Enquiry.Submit(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, buildEnquiryView(sess.Enquiry))
	}
}

// CloseEnquiry dismisses the form; cancel, escape and backdrop all land here.
func CloseEnquiry(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := middleware.SessionFromContext(r.Context())
		if sess == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session missing"))
			return
		}

		sess.Enquiry.Close()
		responses.WriteSuccess(w, buildEnquiryView(sess.Enquiry))
	}
}

type workshopRegistrationRequest struct {
	WorkshopID   string `json:"workshop_id" validate:"required"`
	WorkshopName string `json:"workshop_name" validate:"required"`
	Attendees    int    `json:"attendees" validate:"required,min=1"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Location     string `json:"location"`
	Message      string `json:"message"`
}

// RegisterWorkshop runs a one-shot registration through its own engine, so
// an in-progress product enquiry in the same session is left untouched.
func RegisterWorkshop(sink enquiry.Sink, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if sink == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "enquiry sink unavailable"))
			return
		}

		var payload workshopRegistrationRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		engine, err := enquiry.NewEngine(enquiry.EngineParams{Sink: sink, Logger: logg})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build registration engine"))
			return
		}
		defer engine.Shutdown()

		engine.Open(enquiry.FormContext{
			Kind:            enquiry.KindWorkshopRegistration,
			WorkshopID:      payload.WorkshopID,
			WorkshopName:    payload.WorkshopName,
			DefaultQuantity: payload.Attendees,
		})

		draft := enquiry.Draft{
			Name:         payload.Name,
			Email:        payload.Email,
			Phone:        payload.Phone,
			Location:     payload.Location,
			Quantity:     payload.Attendees,
			PurchaseType: enquiry.PurchasePersonal,
			Message:      payload.Message,
		}
		if err := engine.UpdateDraft(draft); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := engine.Submit(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]string{"status": "registered"})
	}
}
