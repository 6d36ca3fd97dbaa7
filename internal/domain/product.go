package domain

import "time"

// Product is a catalog item visible to shoppers. Ratings and NumReviews are
// derived from the product's reviews and recomputed on every review write,
// never updated independently.
type Product struct {
	ID          string    `json:"id"`
	TypeID      string    `json:"typeId"`
	CategoryID  string    `json:"categoryId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	Sold        int       `json:"sold"`
	IsActive    bool      `json:"isActive"`
	Ratings     float64   `json:"ratings"`
	NumReviews  int       `json:"numReviews"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CatalogFilter is the normalized parameter set for a catalog page query.
// TypeID is resolved upstream from the mandatory type slug; all other filters
// are optional.
type CatalogFilter struct {
	TypeID     string
	Keyword    *string
	CategoryID *string
	PriceMin   *float64
	PriceMax   *float64
	RatingMin  *float64
	Page       int
	PageSize   int
}

// CatalogPage is one page of filtered products plus the facet data the
// storefront renders alongside them.
type CatalogPage struct {
	Products      []Product  `json:"products"`
	TotalProducts int        `json:"totalProducts"`
	TotalPages    int        `json:"totalPages"`
	Categories    []Category `json:"categories"`
	Type          Type       `json:"type"`
}
