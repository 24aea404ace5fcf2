package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storeratings/internal/domain"
)

// RatingsRepository provides helpers for store ratings.
type RatingsRepository struct {
	pool *pgxpool.Pool
}

// RatingUpsertParams captures the payload required to upsert a rating.
type RatingUpsertParams struct {
	UserID  string
	StoreID string
	Value   int
	Comment *string
}

// Upsert inserts or updates the rating for a (user, store) pair and indicates
// whether it was newly created. The conditional write is a single atomic
// statement: the unique index on (user_id, store_id) guarantees exactly one
// row per pair under concurrent callers, with the last committed write
// winning. An update preserves the row's identifier and creation timestamp.
func (r *RatingsRepository) Upsert(ctx context.Context, params RatingUpsertParams) (domain.Rating, bool, error) {
	const query = `
        INSERT INTO ratings (id, user_id, store_id, value, comment)
        VALUES ($1,$2,$3,$4,$5)
        ON CONFLICT (user_id, store_id)
        DO UPDATE SET value = EXCLUDED.value, comment = EXCLUDED.comment, updated_at = now()
        RETURNING id, user_id, store_id, value, comment, created_at, updated_at, (xmax = 0) AS inserted
    `

	var rating domain.Rating
	var inserted bool
	err := r.pool.QueryRow(ctx, query, uuid.NewString(), params.UserID, params.StoreID, params.Value, params.Comment).Scan(
		&rating.ID,
		&rating.UserID,
		&rating.StoreID,
		&rating.Value,
		&rating.Comment,
		&rating.CreatedAt,
		&rating.UpdatedAt,
		&inserted,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Rating{}, false, ErrNotFound
		}
		return domain.Rating{}, false, err
	}

	return rating, inserted, nil
}

// Aggregate returns the rating average and count for a store. A store with no
// ratings aggregates to average 0.
func (r *RatingsRepository) Aggregate(ctx context.Context, storeID string) (domain.RatingAggregate, error) {
	const query = `
        SELECT COALESCE(AVG(value)::float8, 0) AS average,
               COUNT(*)::int8 AS count
        FROM ratings
        WHERE store_id = $1
    `

	var agg domain.RatingAggregate
	err := r.pool.QueryRow(ctx, query, storeID).Scan(&agg.Average, &agg.Count)
	if err != nil {
		return domain.RatingAggregate{}, fmt.Errorf("aggregate ratings: %w", err)
	}
	return agg, nil
}

// Get retrieves a rating for a specific user/store combination.
func (r *RatingsRepository) Get(ctx context.Context, userID, storeID string) (domain.Rating, error) {
	const query = `
        SELECT id, user_id, store_id, value, comment, created_at, updated_at
        FROM ratings
        WHERE user_id = $1 AND store_id = $2
    `
	var rating domain.Rating
	err := r.pool.QueryRow(ctx, query, userID, storeID).Scan(
		&rating.ID,
		&rating.UserID,
		&rating.StoreID,
		&rating.Value,
		&rating.Comment,
		&rating.CreatedAt,
		&rating.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Rating{}, ErrNotFound
		}
		return domain.Rating{}, err
	}
	return rating, nil
}

// ListForStore returns all ratings for a store enriched with each author's
// public identity, newest first.
func (r *RatingsRepository) ListForStore(ctx context.Context, storeID string) ([]domain.RatingWithAuthor, error) {
	const query = `
        SELECT r.id, r.user_id, r.store_id, r.value, r.comment, r.created_at, r.updated_at,
               u.name, u.email
        FROM ratings r
        JOIN users u ON u.id = r.user_id
        WHERE r.store_id = $1
        ORDER BY r.created_at DESC, r.id DESC
    `

	rows, err := r.pool.Query(ctx, query, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.RatingWithAuthor, 0)
	for rows.Next() {
		var item domain.RatingWithAuthor
		err := rows.Scan(
			&item.ID,
			&item.UserID,
			&item.StoreID,
			&item.Value,
			&item.Comment,
			&item.CreatedAt,
			&item.UpdatedAt,
			&item.AuthorName,
			&item.AuthorEmail,
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

// Count returns the total number of ratings.
func (r *RatingsRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM ratings`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count ratings: %w", err)
	}
	return count, nil
}
