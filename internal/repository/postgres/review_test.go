package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solune/storefront/internal/domain"
	apperrors "github.com/solune/storefront/pkg/errors"
)

func reviewColumnNames() []string {
	return []string{"id", "product_id", "user_id", "rating", "comment", "created_at", "updated_at"}
}

func sampleReview() *domain.Review {
	return &domain.Review{
		ID:        "rev-001",
		ProductID: "prod-001",
		UserID:    "user-001",
		Rating:    4.5,
		Comment:   "Great quality, fits perfectly.",
		CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func reviewRow(rv *domain.Review) *pgxmock.Rows {
	return pgxmock.NewRows(reviewColumnNames()).
		AddRow(rv.ID, rv.ProductID, rv.UserID, rv.Rating, rv.Comment, rv.CreatedAt, rv.UpdatedAt)
}

// ---------------------------------------------------------------------------
// GetByProductAndUser
// ---------------------------------------------------------------------------

func TestReviewRepository_GetByProductAndUser_Success(t *testing.T) {
	mock := newMockPool(t)
	repo := NewReviewRepository(mock)

	rv := sampleReview()
	mock.ExpectQuery("SELECT (.+) FROM product_reviews WHERE product_id").
		WithArgs(rv.ProductID, rv.UserID).
		WillReturnRows(reviewRow(rv))

	got, err := repo.GetByProductAndUser(context.Background(), rv.ProductID, rv.UserID)
	require.NoError(t, err)
	assert.Equal(t, rv, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_GetByProductAndUser_NotFound(t *testing.T) {
	mock := newMockPool(t)
	repo := NewReviewRepository(mock)

	mock.ExpectQuery("SELECT (.+) FROM product_reviews WHERE product_id").
		WithArgs("prod-001", "user-001").
		WillReturnRows(pgxmock.NewRows(reviewColumnNames()))

	got, err := repo.GetByProductAndUser(context.Background(), "prod-001", "user-001")
	assert.Nil(t, got)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

// ---------------------------------------------------------------------------
// ListByProduct
// ---------------------------------------------------------------------------

func TestReviewRepository_ListByProduct_Success(t *testing.T) {
	mock := newMockPool(t)
	repo := NewReviewRepository(mock)

	rv1 := sampleReview()
	rv2 := sampleReview()
	rv2.ID = "rev-002"
	rv2.UserID = "user-002"

	rows := pgxmock.NewRows(reviewColumnNames()).
		AddRow(rv1.ID, rv1.ProductID, rv1.UserID, rv1.Rating, rv1.Comment, rv1.CreatedAt, rv1.UpdatedAt).
		AddRow(rv2.ID, rv2.ProductID, rv2.UserID, rv2.Rating, rv2.Comment, rv2.CreatedAt, rv2.UpdatedAt)

	mock.ExpectQuery("SELECT (.+) FROM product_reviews").
		WithArgs("prod-001").
		WillReturnRows(rows)

	got, err := repo.ListByProduct(context.Background(), "prod-001")
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_ListByProduct_Empty(t *testing.T) {
	mock := newMockPool(t)
	repo := NewReviewRepository(mock)

	mock.ExpectQuery("SELECT (.+) FROM product_reviews").
		WithArgs("prod-001").
		WillReturnRows(pgxmock.NewRows(reviewColumnNames()))

	got, err := repo.ListByProduct(context.Background(), "prod-001")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

// ---------------------------------------------------------------------------
// Upsert
// ---------------------------------------------------------------------------

func TestReviewRepository_Upsert_Create(t *testing.T) {
	mock := newMockPool(t)
	repo := NewReviewRepository(mock)

	p := sampleProduct()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM products WHERE id (.+) FOR UPDATE").
		WithArgs(p.ID).
		WillReturnRows(productRow(p))
	mock.ExpectQuery("SELECT (.+) FROM product_reviews WHERE product_id").
		WithArgs(p.ID, "user-001").
		WillReturnRows(pgxmock.NewRows(reviewColumnNames()))
	mock.ExpectExec("INSERT INTO product_reviews").
		WithArgs(pgxmock.AnyArg(), p.ID, "user-001", 4.5, "Great quality, fits perfectly.", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	updated := *p
	updated.Ratings = 4.5
	updated.NumReviews = 4
	mock.ExpectQuery("UPDATE products p SET").
		WithArgs(p.ID, pgxmock.AnyArg()).
		WillReturnRows(productRow(&updated))
	mock.ExpectCommit()

	outcome, err := repo.Upsert(context.Background(), domain.Review{
		ProductID: p.ID,
		UserID:    "user-001",
		Rating:    4.5,
		Comment:   "Great quality, fits perfectly.",
	})

	require.NoError(t, err)
	assert.Nil(t, outcome.Previous)
	assert.NotEmpty(t, outcome.Review.ID)
	assert.False(t, outcome.Review.CreatedAt.IsZero())
	assert.Nil(t, outcome.Review.UpdatedAt)
	assert.Equal(t, 4.5, outcome.Product.Ratings)
	assert.Equal(t, 4, outcome.Product.NumReviews)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Upsert_Update(t *testing.T) {
	mock := newMockPool(t)
	repo := NewReviewRepository(mock)

	p := sampleProduct()
	existing := sampleReview()
	existing.Rating = 5

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM products WHERE id (.+) FOR UPDATE").
		WithArgs(p.ID).
		WillReturnRows(productRow(p))
	mock.ExpectQuery("SELECT (.+) FROM product_reviews WHERE product_id").
		WithArgs(p.ID, existing.UserID).
		WillReturnRows(reviewRow(existing))
	mock.ExpectExec("UPDATE product_reviews").
		WithArgs(2.0, "Changed my mind after a month.", pgxmock.AnyArg(), existing.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	updated := *p
	updated.Ratings = 3.2
	mock.ExpectQuery("UPDATE products p SET").
		WithArgs(p.ID, pgxmock.AnyArg()).
		WillReturnRows(productRow(&updated))
	mock.ExpectCommit()

	outcome, err := repo.Upsert(context.Background(), domain.Review{
		ProductID: p.ID,
		UserID:    existing.UserID,
		Rating:    2.0,
		Comment:   "Changed my mind after a month.",
	})

	require.NoError(t, err)
	require.NotNil(t, outcome.Previous)
	assert.Equal(t, 5.0, outcome.Previous.Rating)
	// Replacement keeps the row identity and original creation time.
	assert.Equal(t, existing.ID, outcome.Review.ID)
	assert.Equal(t, existing.CreatedAt, outcome.Review.CreatedAt)
	require.NotNil(t, outcome.Review.UpdatedAt)
	assert.Equal(t, 3.2, outcome.Product.Ratings)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Upsert_ProductNotFound(t *testing.T) {
	mock := newMockPool(t)
	repo := NewReviewRepository(mock)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM products WHERE id (.+) FOR UPDATE").
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows(productColumnNames()))
	mock.ExpectRollback()

	outcome, err := repo.Upsert(context.Background(), domain.Review{
		ProductID: "missing",
		UserID:    "user-001",
		Rating:    4,
		Comment:   "Product disappeared before the write.",
	})

	assert.Nil(t, outcome)
	assert.Equal(t, apperrors.CodeProductNotFound, apperrors.Code(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Upsert_ProductInactive(t *testing.T) {
	mock := newMockPool(t)
	repo := NewReviewRepository(mock)

	p := sampleProduct()
	p.IsActive = false

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM products WHERE id (.+) FOR UPDATE").
		WithArgs(p.ID).
		WillReturnRows(productRow(p))
	mock.ExpectRollback()

	outcome, err := repo.Upsert(context.Background(), domain.Review{
		ProductID: p.ID,
		UserID:    "user-001",
		Rating:    4,
		Comment:   "Reviewing a discontinued product.",
	})

	assert.Nil(t, outcome)
	assert.Equal(t, apperrors.CodeProductInactive, apperrors.Code(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewRepository_Upsert_BeginError(t *testing.T) {
	mock := newMockPool(t)
	repo := NewReviewRepository(mock)

	mock.ExpectBegin().WillReturnError(errors.New("connection refused"))

	outcome, err := repo.Upsert(context.Background(), domain.Review{
		ProductID: "prod-001",
		UserID:    "user-001",
		Rating:    4,
		Comment:   "Pool exhausted before the transaction.",
	})

	assert.Nil(t, outcome)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "begin review upsert")
}
