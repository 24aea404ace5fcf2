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

// StoresRepository provides persistence helpers for store entities.
type StoresRepository struct {
	pool *pgxpool.Pool
}

const storeColumns = `
    id,
    name,
    email,
    address,
    owner_id,
    created_at,
    updated_at
`

// StoreCreateParams bundles the fields required to create a store.
type StoreCreateParams struct {
	Name    string
	Email   string
	Address string
	OwnerID string
}

// StoreListFilters encapsulates search and sorting options for the admin view.
type StoreListFilters struct {
	Query     *string
	SortBy    string
	SortOrder string
}

// StoreWithOwner is a store enriched with its average rating and the owning
// account's public identity.
type StoreWithOwner struct {
	domain.Store
	OverallRating float64
	OwnerName     string
	OwnerEmail    string
}

// Create inserts a new store row. A duplicate contact email or a second store
// for the same owning account maps to ErrConflict.
func (r *StoresRepository) Create(ctx context.Context, params StoreCreateParams) (domain.Store, error) {
	query := fmt.Sprintf(`
        INSERT INTO stores (id, name, email, address, owner_id)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING %s
    `, storeColumns)

	row := r.pool.QueryRow(ctx, query, uuid.NewString(), params.Name, params.Email, params.Address, params.OwnerID)
	store, err := scanStore(row)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Store{}, ErrConflict
		}
		return domain.Store{}, err
	}
	return store, nil
}

// GetByID fetches a store by its identifier.
func (r *StoresRepository) GetByID(ctx context.Context, id string) (domain.Store, error) {
	query := fmt.Sprintf(`SELECT %s FROM stores WHERE id = $1`, storeColumns)
	store, err := scanStore(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Store{}, ErrNotFound
		}
		return domain.Store{}, err
	}
	return store, nil
}

// GetByOwner fetches the store owned by the given account.
func (r *StoresRepository) GetByOwner(ctx context.Context, ownerID string) (domain.Store, error) {
	query := fmt.Sprintf(`SELECT %s FROM stores WHERE owner_id = $1`, storeColumns)
	store, err := scanStore(r.pool.QueryRow(ctx, query, ownerID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Store{}, ErrNotFound
		}
		return domain.Store{}, err
	}
	return store, nil
}

// ListForViewer returns stores matching an optional case-insensitive
// substring filter over name/address, each carrying the overall average and
// the viewer's own rating value when present. The average is recomputed from
// the current rating set on every call.
func (r *StoresRepository) ListForViewer(ctx context.Context, viewerID string, query *string) ([]domain.StoreListing, error) {
	where := ""
	args := []interface{}{viewerID}
	if query != nil && strings.TrimSpace(*query) != "" {
		args = append(args, "%"+strings.TrimSpace(*query)+"%")
		where = " WHERE s.name ILIKE $2 OR s.address ILIKE $2"
	}

	sql := `
        SELECT s.id, s.name, s.email, s.address, s.owner_id, s.created_at, s.updated_at,
               COALESCE((SELECT AVG(r.value)::float8 FROM ratings r WHERE r.store_id = s.id), 0) AS overall_rating,
               (SELECT r.value FROM ratings r WHERE r.store_id = s.id AND r.user_id = $1) AS user_rating
        FROM stores s` + where + `
        ORDER BY s.name ASC`

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.StoreListing, 0)
	for rows.Next() {
		var item domain.StoreListing
		err := rows.Scan(
			&item.ID,
			&item.Name,
			&item.Email,
			&item.Address,
			&item.OwnerID,
			&item.CreatedAt,
			&item.UpdatedAt,
			&item.OverallRating,
			&item.UserRating,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

var storeSortColumns = map[string]string{
	"name":      "s.name",
	"email":     "s.email",
	"address":   "s.address",
	"createdAt": "s.created_at",
	"updatedAt": "s.updated_at",
}

// ListWithOwner returns stores for the admin view with average rating and
// owner identity attached.
func (r *StoresRepository) ListWithOwner(ctx context.Context, filters StoreListFilters) ([]StoreWithOwner, error) {
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
		where = append(where, fmt.Sprintf("(s.name ILIKE %s OR s.email ILIKE %s OR s.address ILIKE %s)", p1, p2, p3))
	}

	queryBuilder := strings.Builder{}
	queryBuilder.WriteString(`
        SELECT s.id, s.name, s.email, s.address, s.owner_id, s.created_at, s.updated_at,
               COALESCE((SELECT AVG(r.value)::float8 FROM ratings r WHERE r.store_id = s.id), 0) AS overall_rating,
               u.name, u.email
        FROM stores s
        JOIN users u ON u.id = s.owner_id
    `)
	if len(where) > 0 {
		queryBuilder.WriteString(" WHERE ")
		queryBuilder.WriteString(strings.Join(where, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY ")
	queryBuilder.WriteString(sortClause(storeSortColumns, filters.SortBy, filters.SortOrder, "s.name"))

	rows, err := r.pool.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]StoreWithOwner, 0)
	for rows.Next() {
		var item StoreWithOwner
		err := rows.Scan(
			&item.ID,
			&item.Name,
			&item.Email,
			&item.Address,
			&item.OwnerID,
			&item.CreatedAt,
			&item.UpdatedAt,
			&item.OverallRating,
			&item.OwnerName,
			&item.OwnerEmail,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Count returns the total number of stores.
func (r *StoresRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM stores`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count stores: %w", err)
	}
	return count, nil
}

func scanStore(row pgx.Row) (domain.Store, error) {
	var store domain.Store
	err := row.Scan(
		&store.ID,
		&store.Name,
		&store.Email,
		&store.Address,
		&store.OwnerID,
		&store.CreatedAt,
		&store.UpdatedAt,
	)
	if err != nil {
		return domain.Store{}, err
	}
	return store, nil
}
