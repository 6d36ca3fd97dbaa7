package postgres

import (
	"context"
	"fmt"

	"github.com/solune/storefront/internal/domain"
	"github.com/solune/storefront/pkg/database"
)

// FavoriteRepository implements repository.FavoriteRepository using PostgreSQL.
type FavoriteRepository struct {
	pool database.DBTX
}

// NewFavoriteRepository creates a new PostgreSQL-backed favorite repository.
func NewFavoriteRepository(pool database.DBTX) *FavoriteRepository {
	return &FavoriteRepository{pool: pool}
}

// Add marks a product as a favorite. The primary key on (user_id, product_id)
// makes repeated adds a no-op, reported through the bool.
func (r *FavoriteRepository) Add(ctx context.Context, userID, productID string) (bool, error) {
	query := `
		INSERT INTO favorites (user_id, product_id, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id, product_id) DO NOTHING`

	ct, err := r.pool.Exec(ctx, query, userID, productID)
	if err != nil {
		return false, fmt.Errorf("add favorite: %w", err)
	}

	return ct.RowsAffected() > 0, nil
}

// Remove unmarks a favorite. Removing an absent favorite is a no-op.
func (r *FavoriteRepository) Remove(ctx context.Context, userID, productID string) error {
	query := `DELETE FROM favorites WHERE user_id = $1 AND product_id = $2`

	if _, err := r.pool.Exec(ctx, query, userID, productID); err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}

	return nil
}

// ListProducts returns the user's favorited products, newest favorite first,
// with the total count.
func (r *FavoriteRepository) ListProducts(ctx context.Context, userID string, offset, limit int) ([]domain.Product, int, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`
		SELECT %s, count(*) OVER() AS total_count
		FROM products p
		JOIN favorites f ON f.product_id = p.id
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC, p.id DESC
		LIMIT $2 OFFSET $3`, prefixedProductColumns("p"))

	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list favorites: %w", err)
	}
	defer rows.Close()

	var (
		products   []domain.Product
		totalCount int
	)

	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(
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
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan favorite row: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate favorite rows: %w", err)
	}

	if products == nil {
		products = []domain.Product{}
	}

	return products, totalCount, nil
}
