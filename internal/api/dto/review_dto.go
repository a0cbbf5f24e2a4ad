package dto

import "time"

// CreateReviewRequest payload.
type CreateReviewRequest struct {
	TourID  int64  `json:"tour_id"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// ReviewResponse projection.
type ReviewResponse struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	TourID       int64     `json:"tour_id"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment"`
	RegisteredAt time.Time `json:"registered_at"`
}
