package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/tanvicrafts/storefront-backend/api/responses"
	"github.com/tanvicrafts/storefront-backend/pkg/config"
	pkgerrors "github.com/tanvicrafts/storefront-backend/pkg/errors"
	"github.com/tanvicrafts/storefront-backend/pkg/kv"
	"github.com/tanvicrafts/storefront-backend/pkg/logger"
)

const envHeader = "X-Storefront-Env"

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady checks the storage backend and the upstream product source.
// Nil pingers (the memory backend has no external connection) are skipped.
func HealthReady(cfg *config.Config, logg *logger.Logger, storage, products kv.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		failures := map[string]string{}
		if storage != nil {
			if err := storage.Ping(ctx); err != nil {
				failures["storage"] = err.Error()
			}
		}
		if products != nil {
			if err := products.Ping(ctx); err != nil {
				failures["product_source"] = err.Error()
			}
		}

		if len(failures) > 0 {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeDependency, "readiness checks failed").WithDetails(failures))
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
