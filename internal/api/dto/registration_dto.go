package dto

import (
	"time"

	"github.com/spec-kit/tour-booking-service/internal/domain"
)

// CreateRegistrationRequest payload.
type CreateRegistrationRequest struct {
	TourDateID int64 `json:"tour_date_id"`
}

// UpdateRegistrationStatusRequest payload.
type UpdateRegistrationStatusRequest struct {
	Status domain.RegistrationStatus `json:"status"`
}

// UpdateRegistrationDateRequest payload.
type UpdateRegistrationDateRequest struct {
	TourDateID int64 `json:"tour_date_id"`
}

// RegistrationResponse is the bare booking projection.
type RegistrationResponse struct {
	ID           int64                     `json:"id"`
	UserID       int64                     `json:"user_id"`
	TourDateID   int64                     `json:"tour_date_id"`
	Status       domain.RegistrationStatus `json:"status"`
	RegisteredAt time.Time                 `json:"registered_at"`
}

// RegistrationDetailResponse joins display fields from related rows. Which
// fields are set depends on the listing projection.
type RegistrationDetailResponse struct {
	ID           int64                     `json:"id"`
	UserID       int64                     `json:"user_id"`
	TourDateID   int64                     `json:"tour_date_id"`
	Status       domain.RegistrationStatus `json:"status"`
	RegisteredAt time.Time                 `json:"registered_at"`
	UserName     string                    `json:"user_name,omitempty"`
	UserEmail    string                    `json:"user_email,omitempty"`
	TourTitle    string                    `json:"tour_title,omitempty"`
	TourCategory domain.TourCategory       `json:"tour_category,omitempty"`
	TourPrice    float64                   `json:"tour_price,omitempty"`
	Date         *string                   `json:"date,omitempty"`
}
