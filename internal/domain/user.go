package domain

import "time"

// User is a registered shopper. Account management is owned elsewhere; the
// storefront only reads users to attribute reviews and verify principals.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}
