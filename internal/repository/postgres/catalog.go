package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/solune/storefront/internal/domain"
	"github.com/solune/storefront/pkg/database"
	apperrors "github.com/solune/storefront/pkg/errors"
)

// CatalogRepository implements repository.CatalogRepository using PostgreSQL.
type CatalogRepository struct {
	pool database.DBTX
}

// NewCatalogRepository creates a new PostgreSQL-backed catalog repository.
func NewCatalogRepository(pool database.DBTX) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

// GetActiveTypeBySlug resolves an active type by slug. Unknown and inactive
// slugs are indistinguishable to the caller: both are ErrNotFound.
func (r *CatalogRepository) GetActiveTypeBySlug(ctx context.Context, slug string) (*domain.Type, error) {
	query := `
		SELECT id, name, slug, is_active, created_at
		FROM types
		WHERE slug = $1 AND is_active = TRUE`

	var t domain.Type
	err := r.pool.QueryRow(ctx, query, slug).Scan(
		&t.ID,
		&t.Name,
		&t.Slug,
		&t.IsActive,
		&t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("get type by slug: %w", err)
	}

	return &t, nil
}

// ListActiveCategories returns the active categories of a type in a stable
// name order.
func (r *CatalogRepository) ListActiveCategories(ctx context.Context, typeID string) ([]domain.Category, error) {
	query := `
		SELECT id, type_id, name, slug, is_active, created_at
		FROM categories
		WHERE type_id = $1 AND is_active = TRUE
		ORDER BY name ASC, id ASC`

	rows, err := r.pool.Query(ctx, query, typeID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(
			&c.ID,
			&c.TypeID,
			&c.Name,
			&c.Slug,
			&c.IsActive,
			&c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan category row: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category rows: %w", err)
	}

	if categories == nil {
		categories = []domain.Category{}
	}

	return categories, nil
}
