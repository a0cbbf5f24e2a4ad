package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/tour-booking-service/internal/domain"
)

// ReviewRepository encapsulates review persistence.
type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	ListAll(ctx context.Context) ([]domain.Review, error)
	ListByTour(ctx context.Context, tourID int64) ([]domain.Review, error)
	Exists(ctx context.Context, userID, tourID int64) (bool, error)
}

type reviewRepository struct {
	pool *pgxpool.Pool
}

// NewReviewRepository instantiates repository.
func NewReviewRepository(pool *pgxpool.Pool) ReviewRepository {
	return &reviewRepository{pool: pool}
}

func (r *reviewRepository) Create(ctx context.Context, review *domain.Review) error {
	const query = `
        INSERT INTO reviews (user_id, tour_id, rating, comment)
        VALUES ($1, $2, $3, $4)
        RETURNING id, registered_at`

	return r.pool.QueryRow(ctx, query,
		review.UserID,
		review.TourID,
		review.Rating,
		review.Comment,
	).Scan(&review.ID, &review.RegisteredAt)
}

func (r *reviewRepository) ListAll(ctx context.Context) ([]domain.Review, error) {
	const query = `
        SELECT id, user_id, tour_id, rating, comment, registered_at
        FROM reviews ORDER BY id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReviews(rows)
}

func (r *reviewRepository) ListByTour(ctx context.Context, tourID int64) ([]domain.Review, error) {
	const query = `
        SELECT id, user_id, tour_id, rating, comment, registered_at
        FROM reviews WHERE tour_id=$1 ORDER BY id`

	rows, err := r.pool.Query(ctx, query, tourID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReviews(rows)
}

// Exists is a fast-path duplicate check; the unique constraint on
// (user_id, tour_id) remains the authoritative guard.
func (r *reviewRepository) Exists(ctx context.Context, userID, tourID int64) (bool, error) {
	const query = `SELECT id FROM reviews WHERE user_id=$1 AND tour_id=$2`

	var id int64
	err := r.pool.QueryRow(ctx, query, userID, tourID).Scan(&id)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func scanReviews(rows pgx.Rows) ([]domain.Review, error) {
	var result []domain.Review
	for rows.Next() {
		var review domain.Review
		if err := rows.Scan(
			&review.ID,
			&review.UserID,
			&review.TourID,
			&review.Rating,
			&review.Comment,
			&review.RegisteredAt,
		); err != nil {
			return nil, err
		}
		result = append(result, review)
	}
	return result, rows.Err()
}
