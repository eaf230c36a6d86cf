package postgres

import (
	"context"
	"fmt"

	"kids-carpool/internal/domain/rating"
	"kids-carpool/internal/ports"
)

// RatingRepo persists immutable rating rows using pgx and plain SQL.
type RatingRepo struct{}

// NewRatingRepo constructs a new RatingRepo.
func NewRatingRepo() ports.RatingRepository {
	return &RatingRepo{}
}

// Append inserts one rating row. Ratings are never updated or deleted.
func (repo *RatingRepo) Append(ctx context.Context, rt *rating.Rating) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	return tx.QueryRow(ctx, `
		INSERT INTO ratings (rater_id, rated_id, ride_id, score, comment)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`,
		rt.RaterID,
		rt.RatedID,
		rt.RideID,
		rt.Score,
		rt.Comment,
	).Scan(&rt.ID, &rt.CreatedAt)
}

// ListForUser returns every rating naming ratedID as the rated party,
// newest first.
func (repo *RatingRepo) ListForUser(ctx context.Context, ratedID string) ([]*rating.Rating, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
		SELECT id, created_at, rater_id, rated_id, ride_id, score, comment
		FROM ratings
		WHERE rated_id = $1
		ORDER BY created_at DESC
	`, ratedID)
	if err != nil {
		return nil, fmt.Errorf("query ratings: %w", err)
	}
	defer rows.Close()

	var out []*rating.Rating
	for rows.Next() {
		var rt rating.Rating
		if err := rows.Scan(&rt.ID, &rt.CreatedAt, &rt.RaterID, &rt.RatedID, &rt.RideID, &rt.Score, &rt.Comment); err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		out = append(out, &rt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return out, nil
}

// AggregateForUser computes the aggregate from stored rows in one scan.
// Only used to materialize a cold aggregate entry; steady-state reads come
// from the in-process cache.
func (repo *RatingRepo) AggregateForUser(ctx context.Context, ratedID string) (rating.Aggregate, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return rating.Aggregate{}, err
	}

	var agg rating.Aggregate
	err = tx.QueryRow(ctx, `
		SELECT COALESCE(SUM(score), 0), COUNT(*)
		FROM ratings
		WHERE rated_id = $1
	`, ratedID).Scan(&agg.Sum, &agg.Count)
	if err != nil {
		return rating.Aggregate{}, fmt.Errorf("aggregate ratings: %w", err)
	}
	return agg, nil
}
