package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/tour-booking-service/internal/domain"
)

// DateLayout is the ISO calendar-date format used throughout the catalog.
const DateLayout = "2006-01-02"

// TourSearchFilter captures catalog search parameters. Name matches as a
// case-insensitive substring of the title. Date is either a YYYY / YYYY-MM
// prefix matched against the ISO text of any owned date, or a full
// YYYY-MM-DD matched exactly.
type TourSearchFilter struct {
	Name       *string
	DatePrefix *string
	DateExact  *time.Time
}

// TourUpdateFields carries the scalar columns of a partial update; nil
// fields are left unchanged.
type TourUpdateFields struct {
	Title           *string
	ImageURL        *string
	DurationMinutes *int
	Price           *float64
	Category        *domain.TourCategory
}

// Empty reports whether no scalar field was supplied.
func (f TourUpdateFields) Empty() bool {
	return f.Title == nil && f.ImageURL == nil && f.DurationMinutes == nil &&
		f.Price == nil && f.Category == nil
}

// TourRepository encapsulates tour and tour-date persistence.
type TourRepository interface {
	Create(ctx context.Context, tour *domain.Tour, dates []time.Time) error
	GetByID(ctx context.Context, id int64) (*domain.Tour, error)
	ListWithRatings(ctx context.Context) ([]domain.TourSummary, error)
	Search(ctx context.Context, filter TourSearchFilter) ([]domain.Tour, error)
	Update(ctx context.Context, id int64, fields TourUpdateFields, dates []time.Time) error
	Delete(ctx context.Context, id int64) (*domain.Tour, error)
	GetDate(ctx context.Context, dateID int64) (*domain.TourDate, error)
}

type tourRepository struct {
	pool *pgxpool.Pool
}

// NewTourRepository instantiates repository.
func NewTourRepository(pool *pgxpool.Pool) TourRepository {
	return &tourRepository{pool: pool}
}

// Create inserts the tour row and one tour_dates row per date inside a
// single transaction.
func (r *tourRepository) Create(ctx context.Context, tour *domain.Tour, dates []time.Time) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const insertTour = `
        INSERT INTO tours (title, image_url, duration_minutes, price, category)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	if err := tx.QueryRow(ctx, insertTour,
		tour.Title,
		tour.ImageURL,
		tour.DurationMinutes,
		tour.Price,
		tour.Category,
	).Scan(&tour.ID, &tour.CreatedAt, &tour.UpdatedAt); err != nil {
		return err
	}

	const insertDate = `
        INSERT INTO tour_dates (tour_id, date) VALUES ($1, $2)
        RETURNING id`
	for _, date := range dates {
		var td domain.TourDate
		td.TourID = tour.ID
		td.Date = date
		if err := tx.QueryRow(ctx, insertDate, tour.ID, date.Format(DateLayout)).Scan(&td.ID); err != nil {
			return err
		}
		tour.Dates = append(tour.Dates, td)
	}

	return tx.Commit(ctx)
}

func (r *tourRepository) GetByID(ctx context.Context, id int64) (*domain.Tour, error) {
	const query = `
        SELECT id, title, image_url, duration_minutes, price, category, created_at, updated_at
        FROM tours WHERE id=$1`

	var tour domain.Tour
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&tour.ID,
		&tour.Title,
		&tour.ImageURL,
		&tour.DurationMinutes,
		&tour.Price,
		&tour.Category,
		&tour.CreatedAt,
		&tour.UpdatedAt,
	); err != nil {
		return nil, err
	}

	dates, err := r.listDates(ctx, id)
	if err != nil {
		return nil, err
	}
	tour.Dates = dates
	return &tour, nil
}

func (r *tourRepository) listDates(ctx context.Context, tourID int64) ([]domain.TourDate, error) {
	const query = `
        SELECT id, tour_id, date FROM tour_dates
        WHERE tour_id=$1 ORDER BY date ASC`

	rows, err := r.pool.Query(ctx, query, tourID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTourDates(rows)
}

// ListWithRatings returns all tours annotated with review aggregates. Tours
// without reviews report a 0 average, not NULL.
func (r *tourRepository) ListWithRatings(ctx context.Context) ([]domain.TourSummary, error) {
	const query = `
        SELECT t.id, t.title, t.image_url, t.duration_minutes, t.price, t.category,
               t.created_at, t.updated_at,
               COALESCE(AVG(r.rating), 0) AS average_rating,
               COUNT(r.id) AS review_count
        FROM tours t
        LEFT JOIN reviews r ON t.id = r.tour_id
        GROUP BY t.id
        ORDER BY t.id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TourSummary
	for rows.Next() {
		var summary domain.TourSummary
		if err := rows.Scan(
			&summary.ID,
			&summary.Title,
			&summary.ImageURL,
			&summary.DurationMinutes,
			&summary.Price,
			&summary.Category,
			&summary.CreatedAt,
			&summary.UpdatedAt,
			&summary.AverageRating,
			&summary.ReviewCount,
		); err != nil {
			return nil, err
		}
		result = append(result, summary)
	}
	return result, rows.Err()
}

// buildSearchQuery assembles the search statement and its arguments from the
// filter. Clauses AND together; an empty filter yields the whole catalog.
func buildSearchQuery(filter TourSearchFilter) (string, []any) {
	base := `SELECT DISTINCT t.id, t.title, t.image_url, t.duration_minutes, t.price, t.category,
                    t.created_at, t.updated_at
             FROM tours t
             LEFT JOIN tour_dates td ON t.id = td.tour_id`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Name != nil && strings.TrimSpace(*filter.Name) != "" {
		args = append(args, "%"+strings.TrimSpace(*filter.Name)+"%")
		clauses = append(clauses, fmt.Sprintf("t.title ILIKE $%d", len(args)))
	}
	if filter.DatePrefix != nil {
		args = append(args, *filter.DatePrefix+"%")
		clauses = append(clauses, fmt.Sprintf("td.date::text LIKE $%d", len(args)))
	}
	if filter.DateExact != nil {
		args = append(args, filter.DateExact.Format(DateLayout))
		clauses = append(clauses, fmt.Sprintf("td.date = $%d::date", len(args)))
	}

	return fmt.Sprintf("%s WHERE %s ORDER BY t.id", base, strings.Join(clauses, " AND ")), args
}

// Search returns tours matching the filter, each carrying its full date set.
func (r *tourRepository) Search(ctx context.Context, filter TourSearchFilter) ([]domain.Tour, error) {
	query, args := buildSearchQuery(filter)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Tour
	for rows.Next() {
		var tour domain.Tour
		if err := rows.Scan(
			&tour.ID,
			&tour.Title,
			&tour.ImageURL,
			&tour.DurationMinutes,
			&tour.Price,
			&tour.Category,
			&tour.CreatedAt,
			&tour.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, tour)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range result {
		dates, err := r.listDates(ctx, result[i].ID)
		if err != nil {
			return nil, err
		}
		result[i].Dates = dates
	}
	return result, nil
}

// Update applies the supplied scalar fields and, when dates is non-nil,
// reconciles the tour's date set against it. Everything runs in one
// transaction: dates referenced by registrations are never deleted, dates
// already present keep their ids, and missing dates are inserted.
func (r *tourRepository) Update(ctx context.Context, id int64, fields TourUpdateFields, dates []time.Time) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if !fields.Empty() {
		if err := r.updateScalars(ctx, tx, id, fields); err != nil {
			return err
		}
	} else {
		// Confirm the tour exists before touching its dates.
		var exists int64
		if err := tx.QueryRow(ctx, `SELECT id FROM tours WHERE id=$1`, id).Scan(&exists); err != nil {
			return err
		}
	}

	if dates != nil {
		if err := r.reconcileDates(ctx, tx, id, dates); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *tourRepository) updateScalars(ctx context.Context, tx pgx.Tx, id int64, fields TourUpdateFields) error {
	sets := []string{}
	args := []any{}

	if fields.Title != nil {
		args = append(args, *fields.Title)
		sets = append(sets, fmt.Sprintf("title=$%d", len(args)))
	}
	if fields.ImageURL != nil {
		args = append(args, *fields.ImageURL)
		sets = append(sets, fmt.Sprintf("image_url=$%d", len(args)))
	}
	if fields.DurationMinutes != nil {
		args = append(args, *fields.DurationMinutes)
		sets = append(sets, fmt.Sprintf("duration_minutes=$%d", len(args)))
	}
	if fields.Price != nil {
		args = append(args, *fields.Price)
		sets = append(sets, fmt.Sprintf("price=$%d", len(args)))
	}
	if fields.Category != nil {
		args = append(args, *fields.Category)
		sets = append(sets, fmt.Sprintf("category=$%d", len(args)))
	}

	sets = append(sets, "updated_at=NOW()")
	args = append(args, id)
	query := fmt.Sprintf("UPDATE tours SET %s WHERE id=$%d", strings.Join(sets, ", "), len(args))

	cmd, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// reconcileDates transforms the current date set into the desired one.
// Dates referenced by at least one registration are pinned and survive even
// when omitted from the desired set.
func (r *tourRepository) reconcileDates(ctx context.Context, tx pgx.Tx, tourID int64, dates []time.Time) error {
	desired := make([]string, 0, len(dates))
	for _, d := range dates {
		desired = append(desired, d.Format(DateLayout))
	}

	const deleteUnpinned = `
        DELETE FROM tour_dates
        WHERE tour_id = $1
          AND NOT (date = ANY($2::date[]))
          AND id NOT IN (SELECT tour_date_id FROM tour_registrations)`
	if _, err := tx.Exec(ctx, deleteUnpinned, tourID, desired); err != nil {
		return err
	}

	rows, err := tx.Query(ctx, `SELECT date FROM tour_dates WHERE tour_id=$1`, tourID)
	if err != nil {
		return err
	}
	existing := make(map[string]struct{})
	for rows.Next() {
		var date time.Time
		if err := rows.Scan(&date); err != nil {
			rows.Close()
			return err
		}
		existing[date.Format(DateLayout)] = struct{}{}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	const insertDate = `INSERT INTO tour_dates (tour_id, date) VALUES ($1, $2)`
	for _, date := range desired {
		if _, found := existing[date]; found {
			continue
		}
		if _, err := tx.Exec(ctx, insertDate, tourID, date); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes the tour and all its dates. Registrations referencing the
// dates are removed by the cascading foreign key; tour deletion deliberately
// skips the pinned-date protection that reconciliation applies.
func (r *tourRepository) Delete(ctx context.Context, id int64) (*domain.Tour, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `DELETE FROM tour_dates WHERE tour_id=$1`, id); err != nil {
		return nil, err
	}

	const deleteTour = `
        DELETE FROM tours WHERE id=$1
        RETURNING id, title, image_url, duration_minutes, price, category, created_at, updated_at`

	var tour domain.Tour
	if err := tx.QueryRow(ctx, deleteTour, id).Scan(
		&tour.ID,
		&tour.Title,
		&tour.ImageURL,
		&tour.DurationMinutes,
		&tour.Price,
		&tour.Category,
		&tour.CreatedAt,
		&tour.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &tour, nil
}

func (r *tourRepository) GetDate(ctx context.Context, dateID int64) (*domain.TourDate, error) {
	const query = `SELECT id, tour_id, date FROM tour_dates WHERE id=$1`

	var td domain.TourDate
	if err := r.pool.QueryRow(ctx, query, dateID).Scan(&td.ID, &td.TourID, &td.Date); err != nil {
		return nil, err
	}
	return &td, nil
}

func scanTourDates(rows pgx.Rows) ([]domain.TourDate, error) {
	var result []domain.TourDate
	for rows.Next() {
		var td domain.TourDate
		if err := rows.Scan(&td.ID, &td.TourID, &td.Date); err != nil {
			return nil, err
		}
		result = append(result, td)
	}
	return result, rows.Err()
}
