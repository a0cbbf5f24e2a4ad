package domain

import "time"

// TourCategory enumerates offering types.
type TourCategory string

const (
	TourCategoryIndividual TourCategory = "individual"
	TourCategoryGroup      TourCategory = "group"
)

// Tour is the aggregate for a bookable activity offering. It owns a set of
// TourDate children, one per calendar date the tour can be booked for.
type Tour struct {
	ID              int64
	Title           string
	ImageURL        string
	DurationMinutes int
	Price           float64
	Category        TourCategory
	Dates           []TourDate
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TourDate is one concrete calendar occurrence of a Tour. A TourDate
// referenced by at least one Registration is pinned: date-set reconciliation
// never removes it.
type TourDate struct {
	ID     int64
	TourID int64
	Date   time.Time
}

// TourSummary is a Tour annotated with review aggregates for catalog
// listings. AverageRating is 0 when no reviews exist.
type TourSummary struct {
	Tour
	AverageRating float64
	ReviewCount   int
}
