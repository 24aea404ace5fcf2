package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storeratings/internal/domain"
)

// UsersRepository provides persistence helpers for account entities.
type UsersRepository struct {
	pool *pgxpool.Pool
}

const userColumns = `
    id,
    name,
    email,
    address,
    password_hash,
    role,
    created_at,
    updated_at
`

// UserCreateParams bundles the fields required to create an account. The
// password hash must already be policy-checked and hashed by the caller.
type UserCreateParams struct {
	Name         string
	Email        string
	Address      string
	PasswordHash string
	Role         domain.Role
}

// UserListFilters encapsulates search and sorting options for the admin view.
type UserListFilters struct {
	Query     *string
	Role      *domain.Role
	SortBy    string
	SortOrder string
}

// UserWithStoreRating is an account enriched with the average rating of the
// store it owns, if any.
type UserWithStoreRating struct {
	domain.User
	StoreRating *float64
}

// Create inserts a new account row. A duplicate email maps to ErrConflict;
// the unique index guarantees the first committed insert wins.
func (r *UsersRepository) Create(ctx context.Context, params UserCreateParams) (domain.User, error) {
	query := fmt.Sprintf(`
        INSERT INTO users (id, name, email, address, password_hash, role)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING %s
    `, userColumns)

	row := r.pool.QueryRow(ctx, query,
		uuid.NewString(), params.Name, params.Email, params.Address, params.PasswordHash, string(params.Role))
	user, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, ErrConflict
		}
		return domain.User{}, err
	}
	return user, nil
}

// GetByEmail fetches an account by its unique email.
func (r *UsersRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1`, userColumns)
	user, err := scanUser(r.pool.QueryRow(ctx, query, email))
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

// GetByID fetches an account by its identifier.
func (r *UsersRepository) GetByID(ctx context.Context, id string) (domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)
	user, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

// UpdatePassword replaces the stored password hash. The hash is the only
// mutable account field.
func (r *UsersRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	tag, err := r.pool.Exec(ctx, `
        UPDATE users
        SET password_hash = $2, updated_at = now()
        WHERE id = $1
    `, id, passwordHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

var userSortColumns = map[string]string{
	"name":      "u.name",
	"email":     "u.email",
	"address":   "u.address",
	"role":      "u.role",
	"createdAt": "u.created_at",
}

// List returns accounts matching the provided filters, each carrying the
// average rating of the store it owns when one exists.
func (r *UsersRepository) List(ctx context.Context, filters UserListFilters) ([]UserWithStoreRating, error) {
	where := make([]string, 0)
	args := make([]interface{}, 0)
	arg := func(value interface{}) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}

	if filters.Query != nil && strings.TrimSpace(*filters.Query) != "" {
		q := "%" + strings.TrimSpace(*filters.Query) + "%"
		p1 := arg(q)
		p2 := arg(q)
		p3 := arg(q)
		where = append(where, fmt.Sprintf("(u.name ILIKE %s OR u.email ILIKE %s OR u.address ILIKE %s)", p1, p2, p3))
	}
	if filters.Role != nil {
		where = append(where, fmt.Sprintf("u.role = %s", arg(string(*filters.Role))))
	}

	queryBuilder := strings.Builder{}
	queryBuilder.WriteString(`
        SELECT u.id, u.name, u.email, u.address, u.password_hash, u.role, u.created_at, u.updated_at,
               (SELECT AVG(r.value)::float8
                FROM ratings r
                JOIN stores s ON s.id = r.store_id
                WHERE s.owner_id = u.id) AS store_rating
        FROM users u
    `)
	if len(where) > 0 {
		queryBuilder.WriteString(" WHERE ")
		queryBuilder.WriteString(strings.Join(where, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY ")
	queryBuilder.WriteString(sortClause(userSortColumns, filters.SortBy, filters.SortOrder, "u.name"))

	rows, err := r.pool.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]UserWithStoreRating, 0)
	for rows.Next() {
		var item UserWithStoreRating
		var role string
		err := rows.Scan(
			&item.ID,
			&item.Name,
			&item.Email,
			&item.Address,
			&item.PasswordHash,
			&role,
			&item.CreatedAt,
			&item.UpdatedAt,
			&item.StoreRating,
		)
		if err != nil {
			return nil, err
		}
		item.Role = domain.Role(role)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Count returns the total number of accounts.
func (r *UsersRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

func scanUser(row pgx.Row) (domain.User, error) {
	var user domain.User
	var role string
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Address,
		&user.PasswordHash,
		&role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}
	user.Role = domain.Role(role)
	return user, nil
}

// sortClause maps an API sort field to a whitelisted column with direction,
// falling back to the provided default column ascending.
func sortClause(columns map[string]string, sortBy, sortOrder, fallback string) string {
	column, ok := columns[sortBy]
	if !ok {
		column = fallback
	}
	direction := "ASC"
	if strings.EqualFold(sortOrder, "desc") {
		direction = "DESC"
	}
	return column + " " + direction
}
