package dto

import (
	"time"

	"github.com/spec-kit/tour-booking-service/internal/domain"
)

// CreateTourRequest payload. Dates are ISO calendar dates (YYYY-MM-DD).
type CreateTourRequest struct {
	Title           string              `json:"title"`
	ImageURL        string              `json:"image_url"`
	DurationMinutes int                 `json:"duration_minutes"`
	Price           float64             `json:"price"`
	Category        domain.TourCategory `json:"category"`
	Dates           []string            `json:"dates"`
}

// UpdateTourRequest payload for partial updates. Absent fields are left
// unchanged; an absent dates array leaves the schedule alone.
type UpdateTourRequest struct {
	Title           *string              `json:"title"`
	ImageURL        *string              `json:"image_url"`
	DurationMinutes *int                 `json:"duration_minutes"`
	Price           *float64             `json:"price"`
	Category        *domain.TourCategory `json:"category"`
	Dates           []string             `json:"dates"`
}

// TourDateResponse is one bookable occurrence.
type TourDateResponse struct {
	ID   int64  `json:"id"`
	Date string `json:"date"`
}

// TourResponse is the full tour projection with its ordered dates.
type TourResponse struct {
	ID              int64               `json:"id"`
	Title           string              `json:"title"`
	ImageURL        string              `json:"image_url"`
	DurationMinutes int                 `json:"duration_minutes"`
	Price           float64             `json:"price"`
	Category        domain.TourCategory `json:"category"`
	Dates           []TourDateResponse  `json:"dates"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// TourSummaryResponse annotates a tour with its review aggregates.
type TourSummaryResponse struct {
	ID              int64               `json:"id"`
	Title           string              `json:"title"`
	ImageURL        string              `json:"image_url"`
	DurationMinutes int                 `json:"duration_minutes"`
	Price           float64             `json:"price"`
	Category        domain.TourCategory `json:"category"`
	AverageRating   float64             `json:"average_rating"`
	ReviewCount     int                 `json:"review_count"`
}
