package postgres

import (
	"context"
	"fmt"

	"github.com/solune/storefront/pkg/database"
)

// OrderRepository answers purchase-history questions from the orders tables.
// It implements repository.PurchaseChecker for deployments where the
// storefront shares a database with order processing.
type OrderRepository struct {
	pool database.DBTX
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool database.DBTX) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// HasPurchased reports whether the user has at least one order line for the
// product. Cancelled orders do not count.
func (r *OrderRepository) HasPurchased(ctx context.Context, userID, productID string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1
			FROM order_items oi
			JOIN orders o ON o.id = oi.order_id
			WHERE o.user_id = $1 AND oi.product_id = $2 AND o.status <> 'cancelled'
		)`

	var purchased bool
	if err := r.pool.QueryRow(ctx, query, userID, productID).Scan(&purchased); err != nil {
		return false, fmt.Errorf("check purchase history: %w", err)
	}

	return purchased, nil
}
