package domain

import "time"

// Type is a top-level catalog partition, e.g. "men" or "women". The set of
// active types is small and read-mostly.
type Type struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// Category groups related products within a single type. A category may only
// be active while its type is active.
type Category struct {
	ID        string    `json:"id"`
	TypeID    string    `json:"typeId"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}
