package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/solune/storefront/internal/domain"
	"github.com/solune/storefront/internal/repository"
	"github.com/solune/storefront/pkg/database"
	apperrors "github.com/solune/storefront/pkg/errors"
)

const reviewColumns = `id, product_id, user_id, rating, comment, created_at, updated_at`

// ReviewRepository implements repository.ReviewRepository using PostgreSQL.
// The one-review-per-(product, user) rule is backed by a unique index on
// product_reviews(product_id, user_id).
type ReviewRepository struct {
	pool database.DBTX
}

// NewReviewRepository creates a new PostgreSQL-backed review repository.
func NewReviewRepository(pool database.DBTX) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

// GetByProductAndUser returns the user's review of a product.
func (r *ReviewRepository) GetByProductAndUser(ctx context.Context, productID, userID string) (*domain.Review, error) {
	query := fmt.Sprintf(`SELECT %s FROM product_reviews WHERE product_id = $1 AND user_id = $2`, reviewColumns)

	var rv domain.Review
	err := r.pool.QueryRow(ctx, query, productID, userID).Scan(
		&rv.ID,
		&rv.ProductID,
		&rv.UserID,
		&rv.Rating,
		&rv.Comment,
		&rv.CreatedAt,
		&rv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("get review: %w", err)
	}

	return &rv, nil
}

// ListByProduct returns a product's reviews, newest first.
func (r *ReviewRepository) ListByProduct(ctx context.Context, productID string) ([]domain.Review, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM product_reviews
		WHERE product_id = $1
		ORDER BY created_at DESC, id DESC`, reviewColumns)

	rows, err := r.pool.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(
			&rv.ID,
			&rv.ProductID,
			&rv.UserID,
			&rv.Rating,
			&rv.Comment,
			&rv.CreatedAt,
			&rv.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, rv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate review rows: %w", err)
	}

	if reviews == nil {
		reviews = []domain.Review{}
	}

	return reviews, nil
}

// Upsert inserts or replaces the user's review and recomputes the product
// aggregate in a single transaction. The product row is locked first, so
// concurrent submissions for the same product serialize and every commit
// carries an aggregate consistent with the review set it observed.
func (r *ReviewRepository) Upsert(ctx context.Context, review domain.Review) (*repository.ReviewUpsertOutcome, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin review upsert: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	lockQuery := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1 FOR UPDATE`, productColumns)

	var p domain.Product
	err = tx.QueryRow(ctx, lockQuery, review.ProductID).Scan(
		&p.ID,
		&p.TypeID,
		&p.CategoryID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.Stock,
		&p.Sold,
		&p.IsActive,
		&p.Ratings,
		&p.NumReviews,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ProductNotFound(review.ProductID)
		}
		return nil, fmt.Errorf("lock product: %w", err)
	}
	if !p.IsActive {
		return nil, apperrors.ProductInactive(review.ProductID)
	}

	existingQuery := fmt.Sprintf(`SELECT %s FROM product_reviews WHERE product_id = $1 AND user_id = $2`, reviewColumns)

	var previous *domain.Review
	var existing domain.Review
	err = tx.QueryRow(ctx, existingQuery, review.ProductID, review.UserID).Scan(
		&existing.ID,
		&existing.ProductID,
		&existing.UserID,
		&existing.Rating,
		&existing.Comment,
		&existing.CreatedAt,
		&existing.UpdatedAt,
	)
	switch {
	case err == nil:
		previous = &existing
	case errors.Is(err, pgx.ErrNoRows):
		// First review by this user.
	default:
		return nil, fmt.Errorf("find existing review: %w", err)
	}

	now := time.Now().UTC()
	applied := review

	if previous != nil {
		// Replace in place: original created_at survives, updated_at is stamped.
		applied.ID = previous.ID
		applied.CreatedAt = previous.CreatedAt
		applied.UpdatedAt = &now

		updateQuery := `
			UPDATE product_reviews
			SET rating = $1, comment = $2, updated_at = $3
			WHERE id = $4`
		if _, err := tx.Exec(ctx, updateQuery, applied.Rating, applied.Comment, now, applied.ID); err != nil {
			return nil, fmt.Errorf("update review: %w", err)
		}
	} else {
		applied.ID = uuid.New().String()
		applied.CreatedAt = now
		applied.UpdatedAt = nil

		// The unique index backstops the existence check above; with the
		// product row locked the conflict arm should never fire, but a
		// duplicate must update rather than error.
		insertQuery := `
			INSERT INTO product_reviews (id, product_id, user_id, rating, comment, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (product_id, user_id)
			DO UPDATE SET rating = EXCLUDED.rating, comment = EXCLUDED.comment, updated_at = NOW()`
		if _, err := tx.Exec(ctx, insertQuery,
			applied.ID,
			applied.ProductID,
			applied.UserID,
			applied.Rating,
			applied.Comment,
			applied.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("insert review: %w", err)
		}
	}

	recomputeQuery := fmt.Sprintf(`
		UPDATE products p SET
			ratings = COALESCE((SELECT ROUND(AVG(rating)::numeric, 1) FROM product_reviews WHERE product_id = p.id), 0),
			num_reviews = (SELECT COUNT(*) FROM product_reviews WHERE product_id = p.id),
			updated_at = $2
		WHERE p.id = $1
		RETURNING %s`, productColumns)

	err = tx.QueryRow(ctx, recomputeQuery, review.ProductID, now).Scan(
		&p.ID,
		&p.TypeID,
		&p.CategoryID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.Stock,
		&p.Sold,
		&p.IsActive,
		&p.Ratings,
		&p.NumReviews,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("recompute product rating: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit review upsert: %w", err)
	}

	return &repository.ReviewUpsertOutcome{
		Review:   applied,
		Previous: previous,
		Product:  p,
	}, nil
}
