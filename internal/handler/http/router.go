package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/solune/storefront/internal/service"
	"github.com/solune/storefront/pkg/health"
	"github.com/solune/storefront/pkg/middleware"
)

// serviceName labels metrics and traces emitted by the HTTP layer.
const serviceName = "storefront"

// RouterConfig bundles the dependencies of the HTTP surface.
type RouterConfig struct {
	Catalog   *service.CatalogService
	Reviews   *service.ReviewService
	Favorites *service.FavoriteService
	Cart      *service.CartService
	Verifier  middleware.TokenVerifier
	Health    *health.Handler
	CORS      middleware.CORSConfig
	Logger    *slog.Logger
}

// NewRouter creates a chi router with all storefront routes registered.
// Catalog reads are public; review, favorite, and cart endpoints require a
// bearer token.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware. Order matters: recovery outermost, then tracing so
	// the request logger can pick up trace IDs.
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.PrometheusMetrics(serviceName))
	r.Use(middleware.Tracing(serviceName))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.RequestLogger(cfg.Logger))

	// Health and metrics endpoints
	r.Get("/health/live", cfg.Health.LivenessHandler())
	r.Get("/health/ready", cfg.Health.ReadinessHandler())
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	productHandler := NewProductHandler(cfg.Catalog, cfg.Logger)
	reviewHandler := NewReviewHandler(cfg.Reviews, cfg.Logger)
	favoriteHandler := NewFavoriteHandler(cfg.Favorites, cfg.Logger)
	cartHandler := NewCartHandler(cfg.Cart, cfg.Logger)

	// Public catalog endpoints
	r.Route("/products", func(r chi.Router) {
		r.Use(middleware.CacheControl(60))

		r.Get("/", productHandler.ListProducts)
		r.Get("/{id}", productHandler.GetProduct)
	})

	// Authenticated endpoints
	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(cfg.Verifier))

		r.Get("/orders/can_review/{productId}", reviewHandler.CanReview)
		r.Put("/review/{productId}", reviewHandler.SubmitReview)

		r.Route("/favorites", func(r chi.Router) {
			r.Get("/", favoriteHandler.List)
			r.Post("/{productId}", favoriteHandler.Add)
			r.Delete("/{productId}", favoriteHandler.Remove)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.Get)
			r.Delete("/", cartHandler.Clear)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{productId}", cartHandler.SetItemQuantity)
			r.Delete("/items/{productId}", cartHandler.RemoveItem)
		})
	})

	return r
}
