package domain

import "time"

// Review is a user's rating of a tour. At most one review exists per
// (user, tour) pair, enforced by a unique constraint.
type Review struct {
	ID           int64
	UserID       int64
	TourID       int64
	Rating       int
	Comment      string
	RegisteredAt time.Time
}
