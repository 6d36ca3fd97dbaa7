package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/solune/storefront/internal/service"
	"github.com/solune/storefront/pkg/httputil"
	"github.com/solune/storefront/pkg/pagination"
)

// ProductHandler handles the catalog browsing endpoints.
type ProductHandler struct {
	service *service.CatalogService
	logger  *slog.Logger
}

// NewProductHandler creates a new catalog HTTP handler.
func NewProductHandler(svc *service.CatalogService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service: svc,
		logger:  logger,
	}
}

// ListProducts handles GET /products
// @Summary Browse the catalog
// @Description Returns one page of active products for the mandatory type, filtered by the optional query parameters, plus the type's category facets.
// @Tags catalog
// @Produce json
// @Param type query string true "Type slug, e.g. men or women"
// @Param keyword query string false "Substring match on product name"
// @Param category query string false "Category UUID"
// @Param price[gt] query number false "Minimum price"
// @Param price[lt] query number false "Maximum price"
// @Param ratings[gte] query number false "Minimum aggregate rating"
// @Param page query int false "Page number" default(1)
// @Success 200 {object} httputil.Response
// @Failure 404 {object} httputil.Response
// @Router /products [get]
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params := service.BrowseParams{
		TypeSlug:   q.Get("type"),
		Keyword:    q.Get("keyword"),
		CategoryID: q.Get("category"),
		PriceMin:   q.Get("price[gt]"),
		PriceMax:   q.Get("price[lt]"),
		RatingMin:  q.Get("ratings[gte]"),
		Page:       pagination.FromRequest(r, pagination.MaxPageSize).Page,
	}

	page, err := h.service.Browse(r.Context(), params)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, page)
}

// GetProduct handles GET /products/{id}
// @Summary Get a product
// @Description Returns an active product with its reviews.
// @Tags catalog
// @Produce json
// @Param id path string true "Product UUID"
// @Success 200 {object} httputil.Response
// @Failure 404 {object} httputil.Response
// @Router /products/{id} [get]
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	detail, err := h.service.GetProduct(r.Context(), id.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, detail)
}
