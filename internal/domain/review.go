package domain

import "time"

// Review is one user's review of a product. At most one review exists per
// (product, user) pair; resubmission replaces the entry in place, keeping the
// original CreatedAt and stamping UpdatedAt.
type Review struct {
	ID        string     `json:"id"`
	ProductID string     `json:"productId"`
	UserID    string     `json:"userId"`
	Rating    float64    `json:"rating"`
	Comment   string     `json:"comment"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// ReviewResult is the outcome of a review upsert: the applied review, the
// product with its freshly recomputed aggregate, and metadata distinguishing
// creation from replacement.
type ReviewResult struct {
	Review  Review     `json:"review"`
	Product Product    `json:"product"`
	Meta    ReviewMeta `json:"meta"`
}

// ReviewMeta describes how an upsert resolved.
type ReviewMeta struct {
	IsUpdate       bool    `json:"isUpdate"`
	PreviousRating float64 `json:"previousRating,omitempty"`
	TotalReviews   int     `json:"totalReviews"`
	AverageRating  float64 `json:"averageRating"`
}

// Eligibility reasons surfaced when a user may not review a product.
const (
	IneligibleInactiveProduct = "inactive_product"
	IneligibleNoPurchase      = "no_purchase"
	IneligibleAlreadyReviewed = "already_reviewed"
)

// Eligibility is the outcome of the can-review check for a (user, product)
// pair. The check is read-only and idempotent.
type Eligibility struct {
	CanReview          bool   `json:"canReview"`
	HasAlreadyReviewed bool   `json:"hasAlreadyReviewed"`
	Reason             string `json:"reason,omitempty"`
}
