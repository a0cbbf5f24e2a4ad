package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/tour-booking-service/internal/domain"
	"github.com/spec-kit/tour-booking-service/internal/events"
	"github.com/spec-kit/tour-booking-service/internal/repository"
	apperrors "github.com/spec-kit/tour-booking-service/pkg/util/errorutil"
)

// RegistrationService owns the booking lifecycle: create, list projections,
// admin status transitions, owner reschedule and owner cancellation.
type RegistrationService struct {
	registrations repository.RegistrationRepository
	tours         repository.TourRepository
	dispatcher    events.Dispatcher
}

// RegistrationDependencies bundles collaborators for the lifecycle service.
type RegistrationDependencies struct {
	RegistrationRepo repository.RegistrationRepository
	TourRepo         repository.TourRepository
	Dispatcher       events.Dispatcher
}

// NewRegistrationService constructs the service.
func NewRegistrationService(deps RegistrationDependencies) *RegistrationService {
	return &RegistrationService{
		registrations: deps.RegistrationRepo,
		tours:         deps.TourRepo,
		dispatcher:    deps.Dispatcher,
	}
}

// Create books the caller onto a tour date with status pending.
func (s *RegistrationService) Create(ctx context.Context, caller domain.Caller, tourDateID int64) (*domain.Registration, error) {
	if _, err := s.tours.GetDate(ctx, tourDateID); err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("tour date", map[string]any{"tour_date_id": tourDateID})
		}
		return nil, apperrors.MapError(err)
	}

	reg := &domain.Registration{
		UserID:     caller.ID,
		TourDateID: tourDateID,
		Status:     domain.RegistrationStatusPending,
	}
	if err := s.registrations.Create(ctx, reg); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventRegistrationCreated,
		ActorID: caller.ID,
		Payload: events.RegistrationCreatedPayload{RegistrationID: reg.ID, TourDateID: reg.TourDateID},
	})
	return reg, nil
}

// ListAll returns every registration with user display fields. Admin only.
func (s *RegistrationService) ListAll(ctx context.Context, caller domain.Caller) ([]domain.RegistrationDetail, error) {
	if !caller.IsAdmin() {
		return nil, apperrors.NewForbidden("admin role required")
	}
	result, err := s.registrations.ListAll(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return result, nil
}

// ListByTour returns a tour's attendee list. Admin only.
func (s *RegistrationService) ListByTour(ctx context.Context, caller domain.Caller, tourID int64) ([]domain.RegistrationDetail, error) {
	if !caller.IsAdmin() {
		return nil, apperrors.NewForbidden("admin role required")
	}
	result, err := s.registrations.ListByTour(ctx, tourID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return result, nil
}

// ListByUser returns a user's bookings. Callers may only view their own
// unless they are admin.
func (s *RegistrationService) ListByUser(ctx context.Context, caller domain.Caller, userID int64) ([]domain.RegistrationDetail, error) {
	if !caller.IsAdmin() && caller.ID != userID {
		return nil, apperrors.NewForbidden("cannot access other users' registrations")
	}
	result, err := s.registrations.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return result, nil
}

// SetStatus moves a registration between pending and approved. Admin only.
func (s *RegistrationService) SetStatus(ctx context.Context, caller domain.Caller, registrationID int64, status domain.RegistrationStatus) (*domain.Registration, error) {
	if !caller.IsAdmin() {
		return nil, apperrors.NewForbidden("admin role required")
	}
	if !domain.ValidRegistrationStatus(status) {
		return nil, apperrors.NewValidationError("status must be 'pending' or 'approved'", nil)
	}

	reg, err := s.getRegistration(ctx, registrationID)
	if err != nil {
		return nil, err
	}

	oldStatus := reg.Status
	if err := s.registrations.UpdateStatus(ctx, registrationID, status); err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("registration", map[string]any{"id": registrationID})
		}
		return nil, apperrors.MapError(err)
	}
	reg.Status = status

	s.publishEvent(ctx, events.Event{
		Type:    events.EventRegistrationStatusChanged,
		ActorID: caller.ID,
		Payload: events.RegistrationStatusChangedPayload{
			RegistrationID: reg.ID,
			OldStatus:      oldStatus,
			NewStatus:      status,
		},
	})
	return reg, nil
}

// Reschedule moves the caller's registration to another date of the same
// tour and resets its status to pending. Ownership is checked before the
// new date is even looked at; a date belonging to a different tour is
// rejected as validation failure.
func (s *RegistrationService) Reschedule(ctx context.Context, caller domain.Caller, registrationID, newTourDateID int64) (*domain.Registration, error) {
	reg, err := s.getRegistration(ctx, registrationID)
	if err != nil {
		return nil, err
	}
	if reg.UserID != caller.ID {
		return nil, apperrors.NewForbidden("not your registration")
	}

	currentDate, err := s.tours.GetDate(ctx, reg.TourDateID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("tour date", map[string]any{"tour_date_id": reg.TourDateID})
		}
		return nil, apperrors.MapError(err)
	}

	newDate, err := s.tours.GetDate(ctx, newTourDateID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("tour date", map[string]any{"tour_date_id": newTourDateID})
		}
		return nil, apperrors.MapError(err)
	}
	if newDate.TourID != currentDate.TourID {
		return nil, apperrors.NewValidationError("new date belongs to a different tour", map[string]any{
			"tour_id":     currentDate.TourID,
			"new_tour_id": newDate.TourID,
		})
	}

	oldTourDateID := reg.TourDateID
	if err := s.registrations.UpdateDate(ctx, registrationID, newTourDateID); err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("registration", map[string]any{"id": registrationID})
		}
		return nil, apperrors.MapError(err)
	}
	reg.TourDateID = newTourDateID
	reg.Status = domain.RegistrationStatusPending

	s.publishEvent(ctx, events.Event{
		Type:    events.EventRegistrationRescheduled,
		ActorID: caller.ID,
		Payload: events.RegistrationRescheduledPayload{
			RegistrationID: reg.ID,
			OldTourDateID:  oldTourDateID,
			NewTourDateID:  newTourDateID,
		},
	})
	return reg, nil
}

// Cancel deletes the caller's registration. Cancelling an already-cancelled
// registration reports not found rather than silently succeeding.
func (s *RegistrationService) Cancel(ctx context.Context, caller domain.Caller, registrationID int64) error {
	reg, err := s.getRegistration(ctx, registrationID)
	if err != nil {
		return err
	}
	if reg.UserID != caller.ID {
		return apperrors.NewForbidden("not your registration")
	}

	if err := s.registrations.Delete(ctx, registrationID); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("registration", map[string]any{"id": registrationID})
		}
		return apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventRegistrationCancelled,
		ActorID: caller.ID,
		Payload: events.RegistrationCancelledPayload{RegistrationID: registrationID},
	})
	return nil
}

func (s *RegistrationService) getRegistration(ctx context.Context, id int64) (*domain.Registration, error) {
	reg, err := s.registrations.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("registration", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return reg, nil
}

func (s *RegistrationService) publishEvent(ctx context.Context, event events.Event) {
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
