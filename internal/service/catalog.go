package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"

	"github.com/google/uuid"

	"github.com/solune/storefront/internal/domain"
	"github.com/solune/storefront/internal/repository"
	apperrors "github.com/solune/storefront/pkg/errors"
	"github.com/solune/storefront/pkg/pagination"
	"github.com/solune/storefront/pkg/sanitize"
)

// BrowseParams carries the raw, untrusted catalog query parameters. String
// fields arrive exactly as the client sent them; normalization happens here.
type BrowseParams struct {
	TypeSlug   string
	Keyword    string
	CategoryID string
	PriceMin   string
	PriceMax   string
	RatingMin  string
	Page       int
}

// ProductDetail is a product together with its reviews.
type ProductDetail struct {
	Product domain.Product  `json:"product"`
	Reviews []domain.Review `json:"reviews"`
}

// CatalogService implements catalog browsing: type resolution, filter
// normalization, and paginated product queries.
type CatalogService struct {
	catalog  repository.CatalogRepository
	products repository.ProductRepository
	reviews  repository.ReviewRepository
	pageSize int
	logger   *slog.Logger
}

// NewCatalogService creates a new catalog service with the configured page size.
func NewCatalogService(
	catalog repository.CatalogRepository,
	products repository.ProductRepository,
	reviews repository.ReviewRepository,
	pageSize int,
	logger *slog.Logger,
) *CatalogService {
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > pagination.MaxPageSize {
		pageSize = pagination.MaxPageSize
	}
	return &CatalogService{
		catalog:  catalog,
		products: products,
		reviews:  reviews,
		pageSize: pageSize,
		logger:   logger,
	}
}

// Browse resolves the mandatory type, normalizes the optional filters, and
// returns one page of matching products plus the type's active categories.
// Read-only; a page past the end of the results is an empty page, not an
// error.
func (s *CatalogService) Browse(ctx context.Context, params BrowseParams) (*domain.CatalogPage, error) {
	if params.TypeSlug == "" {
		return nil, apperrors.Validation(apperrors.CodeValidationError, "type is required")
	}

	ctx, cancel := readCtx(ctx)
	defer cancel()

	typ, err := s.catalog.GetActiveTypeBySlug(ctx, params.TypeSlug)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.TypeNotFound(params.TypeSlug)
		}
		return nil, storeErr(fmt.Errorf("resolve type %q: %w", params.TypeSlug, err), "resolve type")
	}

	filter, err := s.buildFilter(typ.ID, params)
	if err != nil {
		return nil, err
	}

	products, total, err := s.products.List(ctx, *filter)
	if err != nil {
		return nil, storeErr(fmt.Errorf("list products: %w", err), "list products")
	}

	categories, err := s.catalog.ListActiveCategories(ctx, typ.ID)
	if err != nil {
		return nil, storeErr(fmt.Errorf("list categories: %w", err), "list categories")
	}

	return &domain.CatalogPage{
		Products:      products,
		TotalProducts: total,
		TotalPages:    pagination.TotalPages(total, filter.PageSize),
		Categories:    categories,
		Type:          *typ,
	}, nil
}

// buildFilter converts raw query values into a typed filter, rejecting
// malformed values with field-specific errors.
func (s *CatalogService) buildFilter(typeID string, params BrowseParams) (*domain.CatalogFilter, error) {
	filter := &domain.CatalogFilter{
		TypeID:   typeID,
		Page:     params.Page,
		PageSize: s.pageSize,
	}
	if filter.Page < 1 {
		filter.Page = 1
	}

	if keyword := sanitize.PlainText(params.Keyword); keyword != "" {
		filter.Keyword = &keyword
	}

	if params.CategoryID != "" {
		id, err := uuid.Parse(params.CategoryID)
		if err != nil {
			return nil, apperrors.InvalidID(params.CategoryID)
		}
		categoryID := id.String()
		filter.CategoryID = &categoryID
	}

	if params.PriceMin != "" {
		min, err := sanitize.Price(params.PriceMin)
		if err != nil {
			return nil, err
		}
		filter.PriceMin = &min
	}

	if params.PriceMax != "" {
		max, err := sanitize.Price(params.PriceMax)
		if err != nil {
			return nil, err
		}
		filter.PriceMax = &max
	}

	if filter.PriceMin != nil && filter.PriceMax != nil && *filter.PriceMin > *filter.PriceMax {
		return nil, apperrors.Validation(apperrors.CodeValidationError,
			"price[gt] must not exceed price[lt]")
	}

	if params.RatingMin != "" {
		min, err := strconv.ParseFloat(params.RatingMin, 64)
		if err != nil || math.IsNaN(min) || math.IsInf(min, 0) || min < 0 || min > sanitize.MaxRating {
			return nil, apperrors.Validation(apperrors.CodeValidationError,
				"ratings[gte] "+params.RatingMin+" is out of range (must be between 0 and 5)")
		}
		filter.RatingMin = &min
	}

	return filter, nil
}

// GetProduct returns an active product and its reviews. Inactive products are
// hidden from shoppers, so they surface as not found.
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*ProductDetail, error) {
	ctx, cancel := readCtx(ctx)
	defer cancel()

	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.ProductNotFound(id)
		}
		return nil, storeErr(fmt.Errorf("get product %s: %w", id, err), "get product")
	}
	if !product.IsActive {
		return nil, apperrors.ProductNotFound(id)
	}

	reviews, err := s.reviews.ListByProduct(ctx, id)
	if err != nil {
		return nil, storeErr(fmt.Errorf("list reviews for product %s: %w", id, err), "list reviews")
	}

	return &ProductDetail{Product: *product, Reviews: reviews}, nil
}
