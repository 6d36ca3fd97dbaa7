package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/solune/storefront/internal/service"
	apperrors "github.com/solune/storefront/pkg/errors"
	"github.com/solune/storefront/pkg/httputil"
	"github.com/solune/storefront/pkg/middleware"
)

// ReviewHandler handles the review eligibility and submission endpoints.
type ReviewHandler struct {
	service *service.ReviewService
	logger  *slog.Logger
}

// NewReviewHandler creates a new review HTTP handler.
func NewReviewHandler(svc *service.ReviewService, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: svc,
		logger:  logger,
	}
}

// SubmitReviewRequest is the JSON request body for submitting a review. The
// nested reviewData object mirrors what the storefront client sends.
type SubmitReviewRequest struct {
	ReviewData struct {
		Rating    *float64 `json:"rating"`
		Comment   string   `json:"comment"`
		ProductID string   `json:"productId"`
	} `json:"reviewData"`
}

// CanReview handles GET /orders/can_review/{productId}
// @Summary Check review eligibility
// @Description Reports whether the authenticated user may review the product. Requires a purchase and no existing review.
// @Tags reviews
// @Produce json
// @Param productId path string true "Product UUID"
// @Success 200 {object} httputil.Response
// @Failure 401 {object} httputil.Response
// @Failure 404 {object} httputil.Response
// @Router /orders/can_review/{productId} [get]
func (h *ReviewHandler) CanReview(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFromContext(r.Context())
	if principal == nil {
		httputil.WriteError(w, r, apperrors.AuthFailed("authentication required"), h.logger)
		return
	}

	productID, ok := httputil.ParseUUID(w, chi.URLParam(r, "productId"))
	if !ok {
		return
	}

	eligibility, err := h.service.CanReview(r.Context(), principal.UserID, productID.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, eligibility)
}

// SubmitReview handles PUT /review/{productId}
// @Summary Submit or replace a review
// @Description Creates the authenticated user's review of the product, or replaces their existing one. The product aggregate rating is recomputed atomically with the write.
// @Tags reviews
// @Accept json
// @Produce json
// @Param productId path string true "Product UUID"
// @Param request body SubmitReviewRequest true "Review payload"
// @Success 200 {object} httputil.Response "existing review replaced"
// @Success 201 {object} httputil.Response "review created"
// @Failure 400 {object} httputil.Response
// @Failure 401 {object} httputil.Response
// @Router /review/{productId} [put]
func (h *ReviewHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFromContext(r.Context())
	if principal == nil {
		httputil.WriteError(w, r, apperrors.AuthFailed("authentication required"), h.logger)
		return
	}

	productID, ok := httputil.ParseUUID(w, chi.URLParam(r, "productId"))
	if !ok {
		return
	}

	// Limit request body to 1MB to prevent DoS via large payloads.
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req SubmitReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, r,
			apperrors.Validation(apperrors.CodeValidationError, "invalid request body: "+err.Error()), h.logger)
		return
	}

	// A body that names a different product than the path is rejected rather
	// than silently trusting either one.
	if req.ReviewData.ProductID != "" && req.ReviewData.ProductID != productID.String() {
		httputil.WriteError(w, r,
			apperrors.ProductIDMismatch(productID.String(), req.ReviewData.ProductID), h.logger)
		return
	}

	result, err := h.service.SubmitReview(r.Context(), service.SubmitReviewInput{
		ProductID: productID.String(),
		UserID:    principal.UserID,
		Rating:    req.ReviewData.Rating,
		Comment:   req.ReviewData.Comment,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	status := http.StatusCreated
	message := "review created"
	if result.Meta.IsUpdate {
		status = http.StatusOK
		message = "review updated"
	}

	httputil.WriteMessage(w, status, message, result)
}
