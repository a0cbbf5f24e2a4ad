package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/tour-booking-service/internal/domain"
	"github.com/spec-kit/tour-booking-service/internal/events"
	"github.com/spec-kit/tour-booking-service/internal/repository"
	apperrors "github.com/spec-kit/tour-booking-service/pkg/util/errorutil"
)

// ReviewService owns the append-only review ledger: one review per
// (user, tour) pair.
type ReviewService struct {
	reviews    repository.ReviewRepository
	tours      repository.TourRepository
	dispatcher events.Dispatcher
}

// ReviewDependencies bundles collaborators for the review service.
type ReviewDependencies struct {
	ReviewRepo repository.ReviewRepository
	TourRepo   repository.TourRepository
	Dispatcher events.Dispatcher
}

// NewReviewService constructs the service.
func NewReviewService(deps ReviewDependencies) *ReviewService {
	return &ReviewService{
		reviews:    deps.ReviewRepo,
		tours:      deps.TourRepo,
		dispatcher: deps.Dispatcher,
	}
}

// Create appends a review for the caller. The repository-level existence
// check is a fast path; the unique constraint on (user_id, tour_id) settles
// concurrent submissions, surfacing as a conflict either way.
func (s *ReviewService) Create(ctx context.Context, caller domain.Caller, tourID int64, rating int, comment string) (*domain.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, apperrors.NewValidationError("rating must be between 1 and 5", nil)
	}
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return nil, apperrors.NewValidationError("comment is required", nil)
	}

	if _, err := s.tours.GetByID(ctx, tourID); err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("tour", map[string]any{"id": tourID})
		}
		return nil, apperrors.MapError(err)
	}

	exists, err := s.reviews.Exists(ctx, caller.ID, tourID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if exists {
		return nil, apperrors.NewConflict("you have already reviewed this tour", map[string]any{"tour_id": tourID})
	}

	review := &domain.Review{
		UserID:  caller.ID,
		TourID:  tourID,
		Rating:  rating,
		Comment: comment,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, apperrors.NewConflict("you have already reviewed this tour", map[string]any{"tour_id": tourID})
		}
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventReviewCreated,
		ActorID: caller.ID,
		Payload: events.ReviewCreatedPayload{ReviewID: review.ID, TourID: tourID, Rating: rating},
	})
	return review, nil
}

// ListAll returns every review.
func (s *ReviewService) ListAll(ctx context.Context) ([]domain.Review, error) {
	reviews, err := s.reviews.ListAll(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return reviews, nil
}

// ListByTour returns the reviews for one tour.
func (s *ReviewService) ListByTour(ctx context.Context, tourID int64) ([]domain.Review, error) {
	reviews, err := s.reviews.ListByTour(ctx, tourID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return reviews, nil
}

func (s *ReviewService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
