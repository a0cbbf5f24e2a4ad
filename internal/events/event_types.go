package events

import (
	"time"

	"github.com/spec-kit/tour-booking-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTourCreated               EventType = "tour_created"
	EventTourUpdated               EventType = "tour_updated"
	EventTourDeleted               EventType = "tour_deleted"
	EventRegistrationCreated       EventType = "registration_created"
	EventRegistrationStatusChanged EventType = "registration_status_changed"
	EventRegistrationRescheduled   EventType = "registration_rescheduled"
	EventRegistrationCancelled     EventType = "registration_cancelled"
	EventReviewCreated             EventType = "review_created"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ActorID   int64       `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TourPayload describes tour lifecycle events.
type TourPayload struct {
	TourID int64  `json:"tour_id"`
	Title  string `json:"title"`
}

// RegistrationCreatedPayload payload.
type RegistrationCreatedPayload struct {
	RegistrationID int64 `json:"registration_id"`
	TourDateID     int64 `json:"tour_date_id"`
}

// RegistrationStatusChangedPayload payload.
type RegistrationStatusChangedPayload struct {
	RegistrationID int64                     `json:"registration_id"`
	OldStatus      domain.RegistrationStatus `json:"old_status"`
	NewStatus      domain.RegistrationStatus `json:"new_status"`
}

// RegistrationRescheduledPayload payload.
type RegistrationRescheduledPayload struct {
	RegistrationID int64 `json:"registration_id"`
	OldTourDateID  int64 `json:"old_tour_date_id"`
	NewTourDateID  int64 `json:"new_tour_date_id"`
}

// RegistrationCancelledPayload payload.
type RegistrationCancelledPayload struct {
	RegistrationID int64 `json:"registration_id"`
}

// ReviewCreatedPayload payload.
type ReviewCreatedPayload struct {
	ReviewID int64 `json:"review_id"`
	TourID   int64 `json:"tour_id"`
	Rating   int   `json:"rating"`
}
