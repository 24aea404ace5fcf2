package domain

import "time"

// Store represents a rateable store with a single owning account.
type Store struct {
	ID        string
	Name      string
	Email     string
	Address   string
	OwnerID   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// StoreListing is a store enriched with the overall average and, when the
// viewer has rated it, their own rating value.
type StoreListing struct {
	Store
	OverallRating float64
	UserRating    *int
}
