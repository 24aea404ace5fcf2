package domain

import "time"

// User represents a registered account. Only the password hash is mutable
// after creation.
type User struct {
	ID           string
	Name         string
	Email        string
	Address      string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
