package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/solune/storefront/internal/domain"
	"github.com/solune/storefront/internal/event"
	"github.com/solune/storefront/internal/repository"
	apperrors "github.com/solune/storefront/pkg/errors"
	"github.com/solune/storefront/pkg/sanitize"
)

// SubmitReviewInput holds the parameters for submitting a review. Rating is a
// pointer so an absent rating is distinguishable from a zero one.
type SubmitReviewInput struct {
	ProductID string
	UserID    string
	Rating    *float64
	Comment   string
}

// ReviewService implements review eligibility checks and the review upsert.
type ReviewService struct {
	products  repository.ProductRepository
	reviews   repository.ReviewRepository
	users     repository.UserRepository
	purchases repository.PurchaseChecker
	producer  *event.Producer
	logger    *slog.Logger
}

// NewReviewService creates a new review service.
func NewReviewService(
	products repository.ProductRepository,
	reviews repository.ReviewRepository,
	users repository.UserRepository,
	purchases repository.PurchaseChecker,
	producer *event.Producer,
	logger *slog.Logger,
) *ReviewService {
	return &ReviewService{
		products:  products,
		reviews:   reviews,
		users:     users,
		purchases: purchases,
		producer:  producer,
		logger:    logger,
	}
}

// CanReview reports whether the user may submit a review for the product.
// Read-only and idempotent: calling it twice without intervening writes
// returns identical results.
//
// An inactive product short-circuits to ineligible regardless of purchase
// history. Otherwise the user must have purchased the product and not yet
// reviewed it; an existing review is reported distinctly so the caller can
// offer "edit your review" instead of "you may not review".
func (s *ReviewService) CanReview(ctx context.Context, userID, productID string) (*domain.Eligibility, error) {
	ctx, cancel := readCtx(ctx)
	defer cancel()

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.ProductNotFound(productID)
		}
		return nil, storeErr(fmt.Errorf("get product %s: %w", productID, err), "get product")
	}

	if !product.IsActive {
		return &domain.Eligibility{Reason: domain.IneligibleInactiveProduct}, nil
	}

	purchased, err := s.purchases.HasPurchased(ctx, userID, productID)
	if err != nil {
		return nil, storeErr(fmt.Errorf("check purchase history: %w", err), "check purchase history")
	}
	if !purchased {
		return &domain.Eligibility{Reason: domain.IneligibleNoPurchase}, nil
	}

	_, err = s.reviews.GetByProductAndUser(ctx, productID, userID)
	switch {
	case err == nil:
		return &domain.Eligibility{HasAlreadyReviewed: true, Reason: domain.IneligibleAlreadyReviewed}, nil
	case isNotFound(err):
		return &domain.Eligibility{CanReview: true}, nil
	default:
		return nil, storeErr(fmt.Errorf("check existing review: %w", err), "check existing review")
	}
}

// SubmitReview validates and normalizes the input, then inserts or replaces
// the user's review, recomputing the product aggregate in the same
// transaction. It does not check purchase eligibility; callers enforce that
// policy through CanReview where desired.
func (s *ReviewService) SubmitReview(ctx context.Context, input SubmitReviewInput) (*domain.ReviewResult, error) {
	if input.Rating == nil {
		return nil, apperrors.Validation(apperrors.CodeMissingRating, "rating is required")
	}

	rating, err := sanitize.Rating(*input.Rating)
	if err != nil {
		return nil, err
	}

	comment, err := sanitize.Comment(input.Comment)
	if err != nil {
		return nil, err
	}

	ctx, cancel := writeCtx(ctx)
	defer cancel()

	if _, err := s.users.GetByID(ctx, input.UserID); err != nil {
		if isNotFound(err) {
			return nil, apperrors.UserNotFound(input.UserID)
		}
		return nil, storeErr(fmt.Errorf("get user %s: %w", input.UserID, err), "get user")
	}

	outcome, err := s.reviews.Upsert(ctx, domain.Review{
		ProductID: input.ProductID,
		UserID:    input.UserID,
		Rating:    rating,
		Comment:   comment,
	})
	if err != nil {
		return nil, storeErr(err, "review upsert")
	}

	meta := domain.ReviewMeta{
		IsUpdate:      outcome.Previous != nil,
		TotalReviews:  outcome.Product.NumReviews,
		AverageRating: outcome.Product.Ratings,
	}
	if outcome.Previous != nil {
		meta.PreviousRating = outcome.Previous.Rating
	}

	result := &domain.ReviewResult{
		Review:  outcome.Review,
		Product: outcome.Product,
		Meta:    meta,
	}

	s.logger.InfoContext(ctx, "review submitted",
		slog.String("review_id", result.Review.ID),
		slog.String("product_id", input.ProductID),
		slog.String("user_id", input.UserID),
		slog.Float64("rating", rating),
		slog.Bool("is_update", meta.IsUpdate),
	)

	// Event publishing is best-effort; the review is already committed.
	if s.producer != nil {
		if err := s.producer.PublishReviewWritten(ctx, result); err != nil {
			s.logger.WarnContext(ctx, "failed to publish review event",
				slog.String("review_id", result.Review.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	return result, nil
}
