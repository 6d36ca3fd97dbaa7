package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/solune/storefront/internal/domain"
	"github.com/solune/storefront/internal/repository"
	apperrors "github.com/solune/storefront/pkg/errors"
	"github.com/solune/storefront/pkg/sanitize"
)

// Cart upper bounds to prevent abuse.
const (
	// MaxQuantityPerItem is the maximum quantity allowed for a single cart line.
	MaxQuantityPerItem = 100
	// MaxItemsPerCart is the maximum number of distinct lines allowed in a cart.
	MaxItemsPerCart = 50
)

// CartService implements the shopping cart. Carts live in Redis keyed by user
// and hold price/name snapshots taken when an item is added.
type CartService struct {
	carts    repository.CartRepository
	products repository.ProductRepository
	logger   *slog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(carts repository.CartRepository, products repository.ProductRepository, logger *slog.Logger) *CartService {
	return &CartService{
		carts:    carts,
		products: products,
		logger:   logger,
	}
}

// Get loads the user's cart, which may be empty.
func (s *CartService) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	ctx, cancel := readCtx(ctx)
	defer cancel()

	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, storeErr(fmt.Errorf("get cart: %w", err), "get cart")
	}
	return cart, nil
}

// AddItem adds quantity of a product to the cart, merging with any existing
// line. The product must be active and have enough stock to cover the
// resulting line quantity, which is also capped at MaxQuantityPerItem.
func (s *CartService) AddItem(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error) {
	if quantity < 1 {
		return nil, apperrors.Validation(apperrors.CodeValidationError, "quantity must be at least 1")
	}
	if quantity > MaxQuantityPerItem {
		return nil, apperrors.Validation(apperrors.CodeValidationError,
			fmt.Sprintf("quantity must not exceed %d", MaxQuantityPerItem))
	}

	ctx, cancel := writeCtx(ctx)
	defer cancel()

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.ProductNotFound(productID)
		}
		return nil, storeErr(fmt.Errorf("get product %s: %w", productID, err), "get product")
	}
	if !product.IsActive {
		return nil, apperrors.ProductNotFound(productID)
	}

	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, storeErr(fmt.Errorf("get cart: %w", err), "get cart")
	}

	lineQuantity := quantity
	merging := false
	for _, item := range cart.Items {
		if item.ProductID == productID {
			lineQuantity += item.Quantity
			merging = true
			break
		}
	}
	if !merging && len(cart.Items) >= MaxItemsPerCart {
		return nil, apperrors.Validation(apperrors.CodeValidationError,
			fmt.Sprintf("cart must not exceed %d distinct items", MaxItemsPerCart))
	}
	if lineQuantity > MaxQuantityPerItem {
		return nil, apperrors.Validation(apperrors.CodeValidationError,
			fmt.Sprintf("combined quantity must not exceed %d", MaxQuantityPerItem))
	}
	if lineQuantity > product.Stock {
		return nil, apperrors.Validation(apperrors.CodeValidationError,
			fmt.Sprintf("requested quantity %d exceeds available stock %d", lineQuantity, product.Stock))
	}

	cart.Upsert(domain.CartItem{
		ProductID: productID,
		Name:      product.Name,
		Price:     sanitize.RoundPrice(product.Price),
		Quantity:  quantity,
	})

	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, storeErr(fmt.Errorf("save cart: %w", err), "save cart")
	}

	s.logger.InfoContext(ctx, "cart item added",
		slog.String("user_id", userID),
		slog.String("product_id", productID),
		slog.Int("quantity", quantity),
	)

	return cart, nil
}

// SetItemQuantity sets a line's quantity outright. Zero removes the line.
func (s *CartService) SetItemQuantity(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error) {
	if quantity < 0 {
		return nil, apperrors.Validation(apperrors.CodeValidationError, "quantity must not be negative")
	}
	if quantity > MaxQuantityPerItem {
		return nil, apperrors.Validation(apperrors.CodeValidationError,
			fmt.Sprintf("quantity must not exceed %d", MaxQuantityPerItem))
	}

	ctx, cancel := writeCtx(ctx)
	defer cancel()

	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, storeErr(fmt.Errorf("get cart: %w", err), "get cart")
	}

	if quantity == 0 {
		cart.Remove(productID)
	} else {
		product, err := s.products.GetByID(ctx, productID)
		if err != nil {
			if isNotFound(err) {
				return nil, apperrors.ProductNotFound(productID)
			}
			return nil, storeErr(fmt.Errorf("get product %s: %w", productID, err), "get product")
		}
		if quantity > product.Stock {
			return nil, apperrors.Validation(apperrors.CodeValidationError,
				fmt.Sprintf("requested quantity %d exceeds available stock %d", quantity, product.Stock))
		}

		cart.Remove(productID)
		if len(cart.Items) >= MaxItemsPerCart {
			return nil, apperrors.Validation(apperrors.CodeValidationError,
				fmt.Sprintf("cart must not exceed %d distinct items", MaxItemsPerCart))
		}
		cart.Upsert(domain.CartItem{
			ProductID: productID,
			Name:      product.Name,
			Price:     sanitize.RoundPrice(product.Price),
			Quantity:  quantity,
		})
	}

	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, storeErr(fmt.Errorf("save cart: %w", err), "save cart")
	}

	return cart, nil
}

// RemoveItem deletes a product line from the cart.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) (*domain.Cart, error) {
	ctx, cancel := writeCtx(ctx)
	defer cancel()

	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, storeErr(fmt.Errorf("get cart: %w", err), "get cart")
	}

	cart.Remove(productID)

	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, storeErr(fmt.Errorf("save cart: %w", err), "save cart")
	}

	return cart, nil
}

// Clear drops the user's cart entirely.
func (s *CartService) Clear(ctx context.Context, userID string) error {
	ctx, cancel := writeCtx(ctx)
	defer cancel()

	if err := s.carts.Delete(ctx, userID); err != nil {
		return storeErr(fmt.Errorf("clear cart: %w", err), "clear cart")
	}

	s.logger.InfoContext(ctx, "cart cleared", slog.String("user_id", userID))
	return nil
}
