package domain

import "time"

// Favorite marks a product a user has saved. Adding an existing favorite is a
// no-op, so the toggle endpoints are safe to retry.
type Favorite struct {
	UserID    string    `json:"userId"`
	ProductID string    `json:"productId"`
	CreatedAt time.Time `json:"createdAt"`
}
