package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"storeratings/internal/db"
)

// ErrNotFound indicates the requested entity does not exist.
var ErrNotFound = errors.New("repository: not found")

// ErrConflict indicates a unique-key violation: a duplicate account email, a
// duplicate store contact email, or a second store for an owning account.
var ErrConflict = errors.New("repository: conflict")

// Repository aggregates all domain-specific repositories.
type Repository struct {
	Users   *UsersRepository
	Stores  *StoresRepository
	Ratings *RatingsRepository
}

// New constructs a Repository backed by the provided database.
func New(database *db.DB) *Repository {
	return NewWithPool(database.Pool())
}

// NewWithPool allows constructing repositories directly from a pgx pool.
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{
		Users:   &UsersRepository{pool: pool},
		Stores:  &StoresRepository{pool: pool},
		Ratings: &RatingsRepository{pool: pool},
	}
}

const uniqueViolationCode = "23505"

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation. The unique indexes make concurrent conflicting inserts resolve
// first-committed-wins, with the loser surfacing here.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
