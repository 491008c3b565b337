package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tanvicrafts/storefront-backend/api/middleware"
	"github.com/tanvicrafts/storefront-backend/api/responses"
	pkgerrors "github.com/tanvicrafts/storefront-backend/pkg/errors"
	"github.com/tanvicrafts/storefront-backend/pkg/logger"
)

// ListToasts returns the session's toast queue in display order.
func ListToasts(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := middleware.SessionFromContext(r.Context())
		if sess == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session missing"))
			return
		}
		responses.WriteSuccess(w, sess.Toasts.List())
	}
}

// DismissToast removes a toast early; unknown ids answer 200 all the same.
func DismissToast(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := middleware.SessionFromContext(r.Context())
		if sess == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session missing"))
			return
		}

		sess.Toasts.Dismiss(chi.URLParam(r, "toastID"))
		responses.WriteSuccess(w, sess.Toasts.List())
	}
}
