package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/solune/storefront/internal/domain"
	"github.com/solune/storefront/internal/repository"
	apperrors "github.com/solune/storefront/pkg/errors"
)

func newReviewFixture() (*ReviewService, *mockProductRepository, *mockReviewRepository, *mockUserRepository, *mockPurchaseChecker) {
	products := new(mockProductRepository)
	reviews := new(mockReviewRepository)
	users := new(mockUserRepository)
	purchases := new(mockPurchaseChecker)
	svc := NewReviewService(products, reviews, users, purchases, nil, newTestLogger())
	return svc, products, reviews, users, purchases
}

func TestCanReview_Eligible(t *testing.T) {
	svc, products, reviews, _, purchases := newReviewFixture()
	ctx := context.Background()

	products.On("GetByID", mock.Anything, "prod-1").Return(activeProduct("prod-1"), nil)
	purchases.On("HasPurchased", mock.Anything, "user-1", "prod-1").Return(true, nil)
	reviews.On("GetByProductAndUser", mock.Anything, "prod-1", "user-1").Return(nil, apperrors.ErrNotFound)

	elig, err := svc.CanReview(ctx, "user-1", "prod-1")

	require.NoError(t, err)
	assert.True(t, elig.CanReview)
	assert.False(t, elig.HasAlreadyReviewed)
	assert.Empty(t, elig.Reason)
}

func TestCanReview_InactiveProduct(t *testing.T) {
	svc, products, _, _, purchases := newReviewFixture()
	ctx := context.Background()

	product := activeProduct("prod-1")
	product.IsActive = false
	products.On("GetByID", mock.Anything, "prod-1").Return(product, nil)

	elig, err := svc.CanReview(ctx, "user-1", "prod-1")

	require.NoError(t, err)
	assert.False(t, elig.CanReview)
	assert.Equal(t, domain.IneligibleInactiveProduct, elig.Reason)
	// Inactive products short-circuit before the purchase lookup.
	purchases.AssertNotCalled(t, "HasPurchased", mock.Anything, mock.Anything, mock.Anything)
}

func TestCanReview_NoPurchase(t *testing.T) {
	svc, products, reviews, _, purchases := newReviewFixture()
	ctx := context.Background()

	products.On("GetByID", mock.Anything, "prod-1").Return(activeProduct("prod-1"), nil)
	purchases.On("HasPurchased", mock.Anything, "user-1", "prod-1").Return(false, nil)

	elig, err := svc.CanReview(ctx, "user-1", "prod-1")

	require.NoError(t, err)
	assert.False(t, elig.CanReview)
	assert.Equal(t, domain.IneligibleNoPurchase, elig.Reason)
	reviews.AssertNotCalled(t, "GetByProductAndUser", mock.Anything, mock.Anything, mock.Anything)
}

func TestCanReview_AlreadyReviewed(t *testing.T) {
	svc, products, reviews, _, purchases := newReviewFixture()
	ctx := context.Background()

	products.On("GetByID", mock.Anything, "prod-1").Return(activeProduct("prod-1"), nil)
	purchases.On("HasPurchased", mock.Anything, "user-1", "prod-1").Return(true, nil)
	reviews.On("GetByProductAndUser", mock.Anything, "prod-1", "user-1").
		Return(&domain.Review{ID: "rev-1", ProductID: "prod-1", UserID: "user-1", Rating: 3}, nil)

	elig, err := svc.CanReview(ctx, "user-1", "prod-1")

	require.NoError(t, err)
	assert.False(t, elig.CanReview)
	assert.True(t, elig.HasAlreadyReviewed)
	assert.Equal(t, domain.IneligibleAlreadyReviewed, elig.Reason)
}

func TestCanReview_Idempotent(t *testing.T) {
	svc, products, reviews, _, purchases := newReviewFixture()
	ctx := context.Background()

	products.On("GetByID", mock.Anything, "prod-1").Return(activeProduct("prod-1"), nil)
	purchases.On("HasPurchased", mock.Anything, "user-1", "prod-1").Return(true, nil)
	reviews.On("GetByProductAndUser", mock.Anything, "prod-1", "user-1").Return(nil, apperrors.ErrNotFound)

	first, err := svc.CanReview(ctx, "user-1", "prod-1")
	require.NoError(t, err)
	second, err := svc.CanReview(ctx, "user-1", "prod-1")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCanReview_ProductNotFound(t *testing.T) {
	svc, products, _, _, _ := newReviewFixture()
	ctx := context.Background()

	products.On("GetByID", mock.Anything, "missing").Return(nil, apperrors.ErrNotFound)

	elig, err := svc.CanReview(ctx, "user-1", "missing")

	assert.Nil(t, elig)
	assert.Equal(t, apperrors.CodeProductNotFound, apperrors.Code(err))
}

func TestSubmitReview_Create(t *testing.T) {
	svc, _, reviews, users, _ := newReviewFixture()
	ctx := context.Background()

	users.On("GetByID", mock.Anything, "user-1").Return(&domain.User{ID: "user-1", Email: "shopper@example.com"}, nil)

	product := activeProduct("prod-1")
	product.Ratings = 4.5
	product.NumReviews = 4
	reviews.On("Upsert", mock.Anything, mock.MatchedBy(func(r domain.Review) bool {
		return r.ProductID == "prod-1" && r.UserID == "user-1" && r.Rating == 4.5 && r.Comment == "Great quality, fits perfectly."
	})).Return(&repository.ReviewUpsertOutcome{
		Review: domain.Review{
			ID:        "rev-1",
			ProductID: "prod-1",
			UserID:    "user-1",
			Rating:    4.5,
			Comment:   "Great quality, fits perfectly.",
			CreatedAt: time.Now().UTC(),
		},
		Product: *product,
	}, nil)

	result, err := svc.SubmitReview(ctx, SubmitReviewInput{
		ProductID: "prod-1",
		UserID:    "user-1",
		Rating:    floatPtr(4.5),
		Comment:   "Great quality, fits perfectly.",
	})

	require.NoError(t, err)
	assert.False(t, result.Meta.IsUpdate)
	assert.Zero(t, result.Meta.PreviousRating)
	assert.Equal(t, 4, result.Meta.TotalReviews)
	assert.Equal(t, 4.5, result.Meta.AverageRating)
	assert.Equal(t, "rev-1", result.Review.ID)
	reviews.AssertExpectations(t)
}

func TestSubmitReview_Update(t *testing.T) {
	svc, _, reviews, users, _ := newReviewFixture()
	ctx := context.Background()

	users.On("GetByID", mock.Anything, "user-1").Return(&domain.User{ID: "user-1"}, nil)

	product := activeProduct("prod-1")
	product.Ratings = 3.7
	product.NumReviews = 3
	updatedAt := time.Now().UTC()
	reviews.On("Upsert", mock.Anything, mock.AnythingOfType("domain.Review")).Return(&repository.ReviewUpsertOutcome{
		Review: domain.Review{
			ID: "rev-1", ProductID: "prod-1", UserID: "user-1",
			Rating: 2, Comment: "Changed my mind after a month of wear.",
			CreatedAt: updatedAt.Add(-48 * time.Hour), UpdatedAt: &updatedAt,
		},
		Previous: &domain.Review{ID: "rev-1", ProductID: "prod-1", UserID: "user-1", Rating: 5},
		Product:  *product,
	}, nil)

	result, err := svc.SubmitReview(ctx, SubmitReviewInput{
		ProductID: "prod-1",
		UserID:    "user-1",
		Rating:    floatPtr(2),
		Comment:   "Changed my mind after a month of wear.",
	})

	require.NoError(t, err)
	assert.True(t, result.Meta.IsUpdate)
	assert.Equal(t, 5.0, result.Meta.PreviousRating)
	assert.Equal(t, 3, result.Meta.TotalReviews)
	assert.Equal(t, 3.7, result.Meta.AverageRating)
	// The review count must not grow on replacement.
	assert.Equal(t, 3, result.Product.NumReviews)
}

func TestSubmitReview_RatingRounded(t *testing.T) {
	svc, _, reviews, users, _ := newReviewFixture()
	ctx := context.Background()

	users.On("GetByID", mock.Anything, "user-1").Return(&domain.User{ID: "user-1"}, nil)
	reviews.On("Upsert", mock.Anything, mock.MatchedBy(func(r domain.Review) bool {
		return r.Rating == 4.5
	})).Return(&repository.ReviewUpsertOutcome{
		Review:  domain.Review{ID: "rev-1", Rating: 4.5},
		Product: *activeProduct("prod-1"),
	}, nil)

	_, err := svc.SubmitReview(ctx, SubmitReviewInput{
		ProductID: "prod-1",
		UserID:    "user-1",
		Rating:    floatPtr(4.3),
		Comment:   "Rounded to the nearest half star.",
	})

	require.NoError(t, err)
	reviews.AssertExpectations(t)
}

func TestSubmitReview_MissingRating(t *testing.T) {
	svc, _, reviews, _, _ := newReviewFixture()

	result, err := svc.SubmitReview(context.Background(), SubmitReviewInput{
		ProductID: "prod-1",
		UserID:    "user-1",
		Comment:   "No rating attached to this one.",
	})

	assert.Nil(t, result)
	assert.Equal(t, apperrors.CodeMissingRating, apperrors.Code(err))
	reviews.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestSubmitReview_RatingOutOfRange(t *testing.T) {
	svc, _, _, _, _ := newReviewFixture()

	for _, rating := range []float64{0, 0.5, 5.5, -1} {
		result, err := svc.SubmitReview(context.Background(), SubmitReviewInput{
			ProductID: "prod-1",
			UserID:    "user-1",
			Rating:    floatPtr(rating),
			Comment:   "Should never reach the repository.",
		})
		assert.Nil(t, result, "rating=%v", rating)
		assert.Equal(t, apperrors.CodeInvalidRating, apperrors.Code(err), "rating=%v", rating)
	}
}

func TestSubmitReview_CommentTooShort(t *testing.T) {
	svc, _, _, _, _ := newReviewFixture()

	result, err := svc.SubmitReview(context.Background(), SubmitReviewInput{
		ProductID: "prod-1",
		UserID:    "user-1",
		Rating:    floatPtr(4),
		Comment:   "too short",
	})

	assert.Nil(t, result)
	assert.Equal(t, apperrors.CodeCommentTooShort, apperrors.Code(err))
}

func TestSubmitReview_CommentTooLong(t *testing.T) {
	svc, _, _, _, _ := newReviewFixture()

	result, err := svc.SubmitReview(context.Background(), SubmitReviewInput{
		ProductID: "prod-1",
		UserID:    "user-1",
		Rating:    floatPtr(4),
		Comment:   strings.Repeat("a", 1001),
	})

	assert.Nil(t, result)
	assert.Equal(t, apperrors.CodeCommentTooLong, apperrors.Code(err))
}

func TestSubmitReview_MarkupOnlyComment(t *testing.T) {
	svc, _, _, _, _ := newReviewFixture()

	result, err := svc.SubmitReview(context.Background(), SubmitReviewInput{
		ProductID: "prod-1",
		UserID:    "user-1",
		Rating:    floatPtr(4),
		Comment:   "<p><b><i></i></b></p>",
	})

	assert.Nil(t, result)
	assert.Equal(t, apperrors.CodeInvalidCommentContent, apperrors.Code(err))
}

func TestSubmitReview_UserNotFound(t *testing.T) {
	svc, _, reviews, users, _ := newReviewFixture()
	ctx := context.Background()

	users.On("GetByID", mock.Anything, "ghost").Return(nil, apperrors.ErrNotFound)

	result, err := svc.SubmitReview(ctx, SubmitReviewInput{
		ProductID: "prod-1",
		UserID:    "ghost",
		Rating:    floatPtr(4),
		Comment:   "Submitted by a deleted account.",
	})

	assert.Nil(t, result)
	assert.Equal(t, apperrors.CodeUserNotFound, apperrors.Code(err))
	reviews.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestSubmitReview_InactiveProduct(t *testing.T) {
	svc, _, reviews, users, _ := newReviewFixture()
	ctx := context.Background()

	users.On("GetByID", mock.Anything, "user-1").Return(&domain.User{ID: "user-1"}, nil)
	reviews.On("Upsert", mock.Anything, mock.AnythingOfType("domain.Review")).
		Return(nil, apperrors.ProductInactive("prod-1"))

	result, err := svc.SubmitReview(ctx, SubmitReviewInput{
		ProductID: "prod-1",
		UserID:    "user-1",
		Rating:    floatPtr(4),
		Comment:   "Product went inactive before the write.",
	})

	assert.Nil(t, result)
	assert.Equal(t, apperrors.CodeProductInactive, apperrors.Code(err))
}
