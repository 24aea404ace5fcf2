package domain

import "time"

// Rating represents a single user's rating for a store.
type Rating struct {
	ID        string
	UserID    string
	StoreID   string
	Value     int
	Comment   *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RatingAggregate provides average and count for a store's ratings. The
// average is derived from the current rating set on every read; it is never
// maintained as a counter.
type RatingAggregate struct {
	Average float64
	Count   int64
}

// RatingWithAuthor pairs a rating with its author's public identity for
// owner and admin views.
type RatingWithAuthor struct {
	Rating
	AuthorName  string
	AuthorEmail string
}
