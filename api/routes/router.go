package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tanvicrafts/storefront-backend/api/controllers"
	"github.com/tanvicrafts/storefront-backend/api/middleware"
	"github.com/tanvicrafts/storefront-backend/internal/enquiry"
	"github.com/tanvicrafts/storefront-backend/internal/session"
	"github.com/tanvicrafts/storefront-backend/pkg/config"
	"github.com/tanvicrafts/storefront-backend/pkg/kv"
	"github.com/tanvicrafts/storefront-backend/pkg/logger"
	"github.com/tanvicrafts/storefront-backend/pkg/metrics"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	storage kv.Pinger,
	source controllers.ProductSource,
	upstream kv.Pinger,
	registry *session.Registry,
	sink enquiry.Sink,
	promRegistry *prometheus.Registry,
) http.Handler {
	var httpMetrics *metrics.HTTPMetrics
	if promRegistry != nil {
		httpMetrics = metrics.NewHTTPMetrics(promRegistry)
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(cfg.CORS),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, storage, upstream))
	})

	if promRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Session(registry, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(source, logg))
			r.Post("/search", controllers.SubmitSearch(logg))
			r.Get("/search", controllers.GetSearchResult(logg))
			r.Get("/{productID}", controllers.GetProduct(source, logg))
			r.Post("/{productID}/display", controllers.GetProductDisplay(source, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.GetCart(logg))
			r.Delete("/", controllers.ClearCart(logg))
			r.Post("/items", controllers.AddCartItem(source, logg))
			r.Patch("/items/{lineID}", controllers.UpdateCartItem(logg))
			r.Delete("/items/{lineID}", controllers.RemoveCartItem(logg))
			r.Post("/open", controllers.CartVisibility("open", logg))
			r.Post("/close", controllers.CartVisibility("close", logg))
			r.Post("/toggle", controllers.CartVisibility("toggle", logg))
		})

		r.Route("/enquiries", func(r chi.Router) {
			r.Get("/", controllers.GetEnquiry(logg))
			r.Post("/", controllers.SubmitEnquiry(logg))
			r.Post("/open", controllers.OpenEnquiry(source, logg))
			r.Post("/close", controllers.CloseEnquiry(logg))
			r.Patch("/draft", controllers.UpdateEnquiryDraft(logg))
			r.Post("/quantity", controllers.AdjustEnquiryQuantity(logg))
		})

		r.Post("/workshops/registrations", controllers.RegisterWorkshop(sink, logg))

		r.Route("/toasts", func(r chi.Router) {
			r.Get("/", controllers.ListToasts(logg))
			r.Delete("/{toastID}", controllers.DismissToast(logg))
		})
	})

	return r
}
