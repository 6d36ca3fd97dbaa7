package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/solune/storefront/internal/service"
	apperrors "github.com/solune/storefront/pkg/errors"
	"github.com/solune/storefront/pkg/httputil"
	"github.com/solune/storefront/pkg/middleware"
	"github.com/solune/storefront/pkg/pagination"
)

// favoritesPageSize is the page size for the favorites listing.
const favoritesPageSize = 20

// FavoriteHandler handles the favorites endpoints.
type FavoriteHandler struct {
	service *service.FavoriteService
	logger  *slog.Logger
}

// NewFavoriteHandler creates a new favorites HTTP handler.
func NewFavoriteHandler(svc *service.FavoriteService, logger *slog.Logger) *FavoriteHandler {
	return &FavoriteHandler{
		service: svc,
		logger:  logger,
	}
}

// List handles GET /favorites
func (h *FavoriteHandler) List(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFromContext(r.Context())
	if principal == nil {
		httputil.WriteError(w, r, apperrors.AuthFailed("authentication required"), h.logger)
		return
	}

	params := pagination.FromRequest(r, favoritesPageSize)

	result, err := h.service.List(r.Context(), principal.UserID, params)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, result)
}

// Add handles POST /favorites/{productId}
func (h *FavoriteHandler) Add(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFromContext(r.Context())
	if principal == nil {
		httputil.WriteError(w, r, apperrors.AuthFailed("authentication required"), h.logger)
		return
	}

	productID, ok := httputil.ParseUUID(w, chi.URLParam(r, "productId"))
	if !ok {
		return
	}

	product, err := h.service.Add(r.Context(), principal.UserID, productID.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, product)
}

// Remove handles DELETE /favorites/{productId}
func (h *FavoriteHandler) Remove(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFromContext(r.Context())
	if principal == nil {
		httputil.WriteError(w, r, apperrors.AuthFailed("authentication required"), h.logger)
		return
	}

	productID, ok := httputil.ParseUUID(w, chi.URLParam(r, "productId"))
	if !ok {
		return
	}

	if err := h.service.Remove(r.Context(), principal.UserID, productID.String()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteMessage(w, http.StatusOK, "favorite removed", nil)
}
