package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/solune/storefront/internal/domain"
	"github.com/solune/storefront/internal/event"
	"github.com/solune/storefront/internal/repository"
	apperrors "github.com/solune/storefront/pkg/errors"
	"github.com/solune/storefront/pkg/pagination"
)

// FavoriteService implements the favorites list.
type FavoriteService struct {
	favorites repository.FavoriteRepository
	products  repository.ProductRepository
	producer  *event.Producer
	logger    *slog.Logger
}

// NewFavoriteService creates a new favorite service.
func NewFavoriteService(
	favorites repository.FavoriteRepository,
	products repository.ProductRepository,
	producer *event.Producer,
	logger *slog.Logger,
) *FavoriteService {
	return &FavoriteService{
		favorites: favorites,
		products:  products,
		producer:  producer,
		logger:    logger,
	}
}

// Add marks an active product as a favorite. Re-adding an existing favorite
// is a no-op, so clients can toggle optimistically and retry safely.
func (s *FavoriteService) Add(ctx context.Context, userID, productID string) (*domain.Product, error) {
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

	added, err := s.favorites.Add(ctx, userID, productID)
	if err != nil {
		return nil, storeErr(fmt.Errorf("add favorite: %w", err), "add favorite")
	}

	if added {
		s.logger.InfoContext(ctx, "favorite added",
			slog.String("user_id", userID),
			slog.String("product_id", productID),
		)
		if s.producer != nil {
			if err := s.producer.PublishFavoriteAdded(ctx, userID, productID); err != nil {
				s.logger.WarnContext(ctx, "failed to publish favorite event",
					slog.String("product_id", productID),
					slog.String("error", err.Error()),
				)
			}
		}
	}

	return product, nil
}

// Remove unmarks a favorite. Removing an absent favorite is a no-op.
func (s *FavoriteService) Remove(ctx context.Context, userID, productID string) error {
	ctx, cancel := writeCtx(ctx)
	defer cancel()

	if err := s.favorites.Remove(ctx, userID, productID); err != nil {
		return storeErr(fmt.Errorf("remove favorite: %w", err), "remove favorite")
	}

	s.logger.InfoContext(ctx, "favorite removed",
		slog.String("user_id", userID),
		slog.String("product_id", productID),
	)

	if s.producer != nil {
		if err := s.producer.PublishFavoriteRemoved(ctx, userID, productID); err != nil {
			s.logger.WarnContext(ctx, "failed to publish favorite event",
				slog.String("product_id", productID),
				slog.String("error", err.Error()),
			)
		}
	}

	return nil
}

// List returns one page of the user's favorited products.
func (s *FavoriteService) List(ctx context.Context, userID string, params pagination.Params) (*pagination.Result[domain.Product], error) {
	ctx, cancel := readCtx(ctx)
	defer cancel()

	products, total, err := s.favorites.ListProducts(ctx, userID, params.Offset, params.PageSize)
	if err != nil {
		return nil, storeErr(fmt.Errorf("list favorites: %w", err), "list favorites")
	}

	result := pagination.NewResult(products, total, params)
	return &result, nil
}
