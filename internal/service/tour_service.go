package service

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/tour-booking-service/internal/domain"
	"github.com/spec-kit/tour-booking-service/internal/events"
	"github.com/spec-kit/tour-booking-service/internal/repository"
	apperrors "github.com/spec-kit/tour-booking-service/pkg/util/errorutil"
)

var (
	datePrefixPattern = regexp.MustCompile(`^\d{4}(-\d{2})?$`)
	dateExactPattern  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// TourService owns the tour catalog: creation, lookup, search, partial
// update with date-set reconciliation, and deletion.
type TourService struct {
	tours      repository.TourRepository
	dispatcher events.Dispatcher
	now        func() time.Time
}

// TourDependencies bundles collaborators for the catalog service.
type TourDependencies struct {
	TourRepo   repository.TourRepository
	Dispatcher events.Dispatcher
}

// TourCreateInput describes tour creation payload. Dates are ISO calendar
// dates (YYYY-MM-DD).
type TourCreateInput struct {
	Title           string
	ImageURL        string
	DurationMinutes int
	Price           float64
	Category        domain.TourCategory
	Dates           []string
}

// TourUpdateInput describes a partial update. Nil scalar fields are left
// unchanged; a nil Dates slice leaves the date set untouched while a
// non-nil one triggers reconciliation.
type TourUpdateInput struct {
	Title           *string
	ImageURL        *string
	DurationMinutes *int
	Price           *float64
	Category        *domain.TourCategory
	Dates           []string
}

// NewTourService constructs the service.
func NewTourService(deps TourDependencies) *TourService {
	return &TourService{
		tours:      deps.TourRepo,
		dispatcher: deps.Dispatcher,
		now:        time.Now,
	}
}

// Create validates the payload and inserts the tour with its date set in one
// transaction. Admin only.
func (s *TourService) Create(ctx context.Context, caller domain.Caller, input TourCreateInput) (*domain.Tour, error) {
	if !caller.IsAdmin() {
		return nil, apperrors.NewForbidden("admin role required")
	}

	title := strings.TrimSpace(input.Title)
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if err := validateImageURL(input.ImageURL); err != nil {
		return nil, err
	}
	if err := validateDuration(input.DurationMinutes); err != nil {
		return nil, err
	}
	if err := validatePrice(input.Price); err != nil {
		return nil, err
	}
	if err := validateCategory(input.Category); err != nil {
		return nil, err
	}
	dates, err := s.parseDates(input.Dates, true)
	if err != nil {
		return nil, err
	}

	tour := &domain.Tour{
		Title:           title,
		ImageURL:        strings.TrimSpace(input.ImageURL),
		DurationMinutes: input.DurationMinutes,
		Price:           input.Price,
		Category:        input.Category,
	}
	if err := s.tours.Create(ctx, tour, dates); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventTourCreated,
		ActorID: caller.ID,
		Payload: events.TourPayload{TourID: tour.ID, Title: tour.Title},
	})
	return tour, nil
}

// Get returns the tour with its dates ordered ascending.
func (s *TourService) Get(ctx context.Context, id int64) (*domain.Tour, error) {
	tour, err := s.tours.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("tour", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return tour, nil
}

// List returns the whole catalog annotated with review aggregates.
func (s *TourService) List(ctx context.Context) ([]domain.TourSummary, error) {
	tours, err := s.tours.ListWithRatings(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tours, nil
}

// Search filters the catalog by title substring and/or date. The date
// argument accepts YYYY and YYYY-MM (prefix match over the ISO date text)
// or YYYY-MM-DD (exact match). Both filters AND together.
func (s *TourService) Search(ctx context.Context, name, date string) ([]domain.Tour, error) {
	filter := repository.TourSearchFilter{}
	if trimmed := strings.TrimSpace(name); trimmed != "" {
		filter.Name = &trimmed
	}
	if date != "" {
		switch {
		case datePrefixPattern.MatchString(date):
			prefix := date + "-"
			filter.DatePrefix = &prefix
		case dateExactPattern.MatchString(date):
			parsed, err := time.Parse(repository.DateLayout, date)
			if err != nil {
				return nil, apperrors.NewValidationError("date must be YYYY, YYYY-MM or YYYY-MM-DD", nil)
			}
			filter.DateExact = &parsed
		default:
			return nil, apperrors.NewValidationError("date must be YYYY, YYYY-MM or YYYY-MM-DD", nil)
		}
	}

	tours, err := s.tours.Search(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tours, nil
}

// Update applies the supplied fields and reconciles the date set when one is
// provided, then returns the refreshed tour. Admin only.
func (s *TourService) Update(ctx context.Context, caller domain.Caller, id int64, input TourUpdateInput) (*domain.Tour, error) {
	if !caller.IsAdmin() {
		return nil, apperrors.NewForbidden("admin role required")
	}

	fields := repository.TourUpdateFields{
		DurationMinutes: input.DurationMinutes,
		Price:           input.Price,
		Category:        input.Category,
	}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if err := validateTitle(title); err != nil {
			return nil, err
		}
		fields.Title = &title
	}
	if input.ImageURL != nil {
		if err := validateImageURL(*input.ImageURL); err != nil {
			return nil, err
		}
		trimmed := strings.TrimSpace(*input.ImageURL)
		fields.ImageURL = &trimmed
	}
	if input.DurationMinutes != nil {
		if err := validateDuration(*input.DurationMinutes); err != nil {
			return nil, err
		}
	}
	if input.Price != nil {
		if err := validatePrice(*input.Price); err != nil {
			return nil, err
		}
	}
	if input.Category != nil {
		if err := validateCategory(*input.Category); err != nil {
			return nil, err
		}
	}
	if fields.Empty() && input.Dates == nil {
		return nil, apperrors.NewValidationError("no updatable fields provided", nil)
	}

	var dates []time.Time
	if input.Dates != nil {
		parsed, err := s.parseDates(input.Dates, true)
		if err != nil {
			return nil, err
		}
		dates = parsed
	}

	if err := s.tours.Update(ctx, id, fields, dates); err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("tour", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}

	tour, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventTourUpdated,
		ActorID: caller.ID,
		Payload: events.TourPayload{TourID: tour.ID, Title: tour.Title},
	})
	return tour, nil
}

// Delete removes the tour and all its dates. Unlike reconciliation, tour
// deletion does not protect dates pinned by registrations; referencing
// registrations are removed with them. Admin only.
func (s *TourService) Delete(ctx context.Context, caller domain.Caller, id int64) (*domain.Tour, error) {
	if !caller.IsAdmin() {
		return nil, apperrors.NewForbidden("admin role required")
	}

	tour, err := s.tours.Delete(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("tour", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventTourDeleted,
		ActorID: caller.ID,
		Payload: events.TourPayload{TourID: tour.ID, Title: tour.Title},
	})
	return tour, nil
}

// parseDates validates the ISO date list: non-empty, well-formed, unique
// and (when requireFuture) not before today.
func (s *TourService) parseDates(raw []string, requireFuture bool) ([]time.Time, error) {
	if len(raw) == 0 {
		return nil, apperrors.NewValidationError("dates must be a non-empty array", nil)
	}

	today := s.now().Format(repository.DateLayout)
	seen := make(map[string]struct{}, len(raw))
	dates := make([]time.Time, 0, len(raw))
	for _, value := range raw {
		parsed, err := time.Parse(repository.DateLayout, value)
		if err != nil {
			return nil, apperrors.NewValidationError("dates must be valid ISO dates (YYYY-MM-DD)", map[string]any{"date": value})
		}
		if _, dup := seen[value]; dup {
			return nil, apperrors.NewValidationError("dates must be unique", map[string]any{"date": value})
		}
		seen[value] = struct{}{}
		if requireFuture && value < today {
			return nil, apperrors.NewValidationError("dates must not be in the past", map[string]any{"date": value})
		}
		dates = append(dates, parsed)
	}
	return dates, nil
}

func (s *TourService) publishEvent(ctx context.Context, event events.Event) {
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

func validateTitle(title string) error {
	if len(title) < 3 || len(title) > 100 {
		return apperrors.NewValidationError("title length must be between 3 and 100 characters", nil)
	}
	return nil
}

func validateImageURL(imageURL string) error {
	trimmed := strings.TrimSpace(imageURL)
	if trimmed == "" || len(trimmed) > 2048 {
		return apperrors.NewValidationError("image_url is required and must be at most 2048 characters", nil)
	}
	return nil
}

func validateDuration(minutes int) error {
	if minutes < 1 || minutes > 1440 {
		return apperrors.NewValidationError("duration_minutes must be between 1 and 1440", nil)
	}
	return nil
}

func validatePrice(price float64) error {
	if price < 0.01 || price > 10000 {
		return apperrors.NewValidationError("price must be between 0.01 and 10000", nil)
	}
	return nil
}

func validateCategory(category domain.TourCategory) error {
	if category != domain.TourCategoryIndividual && category != domain.TourCategoryGroup {
		return apperrors.NewValidationError("category must be 'individual' or 'group'", nil)
	}
	return nil
}
