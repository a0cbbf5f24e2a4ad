package domain

import "time"

// RegistrationStatus enumerates approval states for a booking.
type RegistrationStatus string

const (
	RegistrationStatusPending  RegistrationStatus = "pending"
	RegistrationStatusApproved RegistrationStatus = "approved"
)

// ValidRegistrationStatus reports whether s is an allowed status value.
func ValidRegistrationStatus(s RegistrationStatus) bool {
	return s == RegistrationStatusPending || s == RegistrationStatusApproved
}

// Registration is a user's booking of a specific TourDate. Status starts as
// pending, moves to approved by admin action, and resets to pending whenever
// the owner reschedules to a different date of the same tour.
type Registration struct {
	ID           int64
	UserID       int64
	TourDateID   int64
	Status       RegistrationStatus
	RegisteredAt time.Time
}

// RegistrationDetail joins a Registration with display fields from the
// related user, tour and tour date rows. Which fields are populated depends
// on the listing projection.
type RegistrationDetail struct {
	Registration
	UserName     string
	UserEmail    string
	TourTitle    string
	TourCategory TourCategory
	TourPrice    float64
	Date         *time.Time
}
