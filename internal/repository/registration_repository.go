package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/tour-booking-service/internal/domain"
)

// RegistrationRepository encapsulates booking persistence.
type RegistrationRepository interface {
	Create(ctx context.Context, reg *domain.Registration) error
	GetByID(ctx context.Context, id int64) (*domain.Registration, error)
	ListAll(ctx context.Context) ([]domain.RegistrationDetail, error)
	ListByTour(ctx context.Context, tourID int64) ([]domain.RegistrationDetail, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.RegistrationDetail, error)
	UpdateStatus(ctx context.Context, id int64, status domain.RegistrationStatus) error
	UpdateDate(ctx context.Context, id int64, tourDateID int64) error
	Delete(ctx context.Context, id int64) error
}

type registrationRepository struct {
	pool *pgxpool.Pool
}

// NewRegistrationRepository instantiates repository.
func NewRegistrationRepository(pool *pgxpool.Pool) RegistrationRepository {
	return &registrationRepository{pool: pool}
}

func (r *registrationRepository) Create(ctx context.Context, reg *domain.Registration) error {
	const query = `
        INSERT INTO tour_registrations (user_id, tour_date_id, status)
        VALUES ($1, $2, $3)
        RETURNING id, registered_at`

	return r.pool.QueryRow(ctx, query,
		reg.UserID,
		reg.TourDateID,
		reg.Status,
	).Scan(&reg.ID, &reg.RegisteredAt)
}

func (r *registrationRepository) GetByID(ctx context.Context, id int64) (*domain.Registration, error) {
	const query = `
        SELECT id, user_id, tour_date_id, status, registered_at
        FROM tour_registrations WHERE id=$1`

	var reg domain.Registration
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&reg.ID,
		&reg.UserID,
		&reg.TourDateID,
		&reg.Status,
		&reg.RegisteredAt,
	); err != nil {
		return nil, err
	}
	return &reg, nil
}

// ListAll joins user display fields for the admin overview.
func (r *registrationRepository) ListAll(ctx context.Context) ([]domain.RegistrationDetail, error) {
	const query = `
        SELECT tr.id, tr.user_id, tr.tour_date_id, tr.status, tr.registered_at,
               u.name, u.email
        FROM tour_registrations tr
        JOIN users u ON tr.user_id = u.id
        ORDER BY tr.id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.RegistrationDetail
	for rows.Next() {
		var detail domain.RegistrationDetail
		if err := rows.Scan(
			&detail.ID,
			&detail.UserID,
			&detail.TourDateID,
			&detail.Status,
			&detail.RegisteredAt,
			&detail.UserName,
			&detail.UserEmail,
		); err != nil {
			return nil, err
		}
		result = append(result, detail)
	}
	return result, rows.Err()
}

// ListByTour joins user and date fields for a tour's attendee list.
func (r *registrationRepository) ListByTour(ctx context.Context, tourID int64) ([]domain.RegistrationDetail, error) {
	const query = `
        SELECT tr.id, tr.user_id, tr.tour_date_id, tr.status, tr.registered_at,
               u.name, u.email, td.date
        FROM tour_registrations tr
        JOIN tour_dates td ON tr.tour_date_id = td.id
        JOIN users u ON tr.user_id = u.id
        WHERE td.tour_id = $1
        ORDER BY tr.id`

	rows, err := r.pool.Query(ctx, query, tourID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.RegistrationDetail
	for rows.Next() {
		var detail domain.RegistrationDetail
		if err := rows.Scan(
			&detail.ID,
			&detail.UserID,
			&detail.TourDateID,
			&detail.Status,
			&detail.RegisteredAt,
			&detail.UserName,
			&detail.UserEmail,
			&detail.Date,
		); err != nil {
			return nil, err
		}
		result = append(result, detail)
	}
	return result, rows.Err()
}

// ListByUser joins tour and date fields for a user's own bookings.
func (r *registrationRepository) ListByUser(ctx context.Context, userID int64) ([]domain.RegistrationDetail, error) {
	const query = `
        SELECT tr.id, tr.user_id, tr.tour_date_id, tr.status, tr.registered_at,
               t.title, t.category, t.price, td.date
        FROM tour_registrations tr
        JOIN tour_dates td ON tr.tour_date_id = td.id
        JOIN tours t ON td.tour_id = t.id
        WHERE tr.user_id = $1
        ORDER BY tr.id`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.RegistrationDetail
	for rows.Next() {
		var detail domain.RegistrationDetail
		if err := rows.Scan(
			&detail.ID,
			&detail.UserID,
			&detail.TourDateID,
			&detail.Status,
			&detail.RegisteredAt,
			&detail.TourTitle,
			&detail.TourCategory,
			&detail.TourPrice,
			&detail.Date,
		); err != nil {
			return nil, err
		}
		result = append(result, detail)
	}
	return result, rows.Err()
}

func (r *registrationRepository) UpdateStatus(ctx context.Context, id int64, status domain.RegistrationStatus) error {
	const query = `UPDATE tour_registrations SET status=$1 WHERE id=$2`

	cmd, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// UpdateDate moves the registration to a new tour date and resets status to
// pending in the same statement.
func (r *registrationRepository) UpdateDate(ctx context.Context, id int64, tourDateID int64) error {
	const query = `
        UPDATE tour_registrations SET tour_date_id=$1, status=$2 WHERE id=$3`

	cmd, err := r.pool.Exec(ctx, query, tourDateID, domain.RegistrationStatusPending, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *registrationRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM tour_registrations WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
