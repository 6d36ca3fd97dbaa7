package repository

import (
	"context"

	"github.com/solune/storefront/internal/domain"
)

// CatalogRepository serves the read-mostly type and category reference data
// backing the catalog facets.
type CatalogRepository interface {
	// GetActiveTypeBySlug resolves an active type by its slug. Inactive and
	// unknown slugs both return ErrNotFound.
	GetActiveTypeBySlug(ctx context.Context, slug string) (*domain.Type, error)

	// ListActiveCategories returns the active categories of a type.
	ListActiveCategories(ctx context.Context, typeID string) ([]domain.Category, error)
}

// ProductRepository defines product persistence operations.
type ProductRepository interface {
	// GetByID retrieves a product by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Product, error)

	// List returns active products matching the filter plus the total count
	// before pagination. Ordering is deterministic across identical calls.
	List(ctx context.Context, filter domain.CatalogFilter) ([]domain.Product, int, error)
}

// ReviewUpsertOutcome is what the transactional review upsert reports back:
// the applied review, the review it replaced (nil on creation), and the
// product carrying the recomputed aggregate.
type ReviewUpsertOutcome struct {
	Review   domain.Review
	Previous *domain.Review
	Product  domain.Product
}

// ReviewRepository defines review persistence operations.
type ReviewRepository interface {
	// GetByProductAndUser returns the user's review of a product, or
	// ErrNotFound when none exists.
	GetByProductAndUser(ctx context.Context, productID, userID string) (*domain.Review, error)

	// Upsert inserts or replaces the user's review and recomputes the
	// product aggregate in one transaction. The one-review-per-pair rule is
	// enforced by a uniqueness constraint, so concurrent submissions cannot
	// produce duplicates or a stale aggregate.
	Upsert(ctx context.Context, review domain.Review) (*ReviewUpsertOutcome, error)

	// ListByProduct returns a product's reviews, newest first.
	ListByProduct(ctx context.Context, productID string) ([]domain.Review, error)
}

// PurchaseChecker answers whether a user has at least one order line for a
// product. Backed by the orders tables directly or by the order service over
// HTTP, depending on deployment.
type PurchaseChecker interface {
	HasPurchased(ctx context.Context, userID, productID string) (bool, error)
}

// UserRepository defines user lookup operations.
type UserRepository interface {
	// GetByID retrieves a user by ID, or ErrNotFound.
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// FavoriteRepository defines favorite persistence operations.
type FavoriteRepository interface {
	// Add marks a product as a favorite. Returns false when it was already
	// favorited; the operation is idempotent either way.
	Add(ctx context.Context, userID, productID string) (bool, error)

	// Remove unmarks a favorite. Removing an absent favorite is a no-op.
	Remove(ctx context.Context, userID, productID string) error

	// ListProducts returns the user's favorited products with a total count,
	// newest favorite first.
	ListProducts(ctx context.Context, userID string, offset, limit int) ([]domain.Product, int, error)
}

// CartRepository defines cart storage operations.
type CartRepository interface {
	// Get loads the user's cart. A missing cart comes back empty, not as an
	// error.
	Get(ctx context.Context, userID string) (*domain.Cart, error)

	// Save stores the cart and refreshes its TTL.
	Save(ctx context.Context, cart *domain.Cart) error

	// Delete drops the user's cart.
	Delete(ctx context.Context, userID string) error
}
