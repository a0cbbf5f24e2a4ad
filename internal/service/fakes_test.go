package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/tour-booking-service/internal/domain"
	"github.com/spec-kit/tour-booking-service/internal/events"
	"github.com/spec-kit/tour-booking-service/internal/repository"
	apperrors "github.com/spec-kit/tour-booking-service/pkg/util/errorutil"
)

// In-memory repository fakes honoring the documented repository contracts,
// including pgx.ErrNoRows for missing rows.

type fakeTourRepo struct {
	tours      map[int64]*domain.Tour
	dates      map[int64]*domain.TourDate
	pinned     map[int64]bool
	nextTourID int64
	nextDateID int64

	lastFilter   *repository.TourSearchFilter
	searchResult []domain.Tour
	summaries    []domain.TourSummary
}

func newFakeTourRepo() *fakeTourRepo {
	return &fakeTourRepo{
		tours:  make(map[int64]*domain.Tour),
		dates:  make(map[int64]*domain.TourDate),
		pinned: make(map[int64]bool),
	}
}

func (f *fakeTourRepo) Create(_ context.Context, tour *domain.Tour, dates []time.Time) error {
	f.nextTourID++
	tour.ID = f.nextTourID
	tour.CreatedAt = time.Now()
	tour.UpdatedAt = tour.CreatedAt
	stored := *tour
	stored.Dates = nil
	f.tours[tour.ID] = &stored
	for _, date := range dates {
		f.nextDateID++
		td := &domain.TourDate{ID: f.nextDateID, TourID: tour.ID, Date: date}
		f.dates[td.ID] = td
		tour.Dates = append(tour.Dates, *td)
	}
	return nil
}

func (f *fakeTourRepo) GetByID(_ context.Context, id int64) (*domain.Tour, error) {
	stored, ok := f.tours[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	tour := *stored
	tour.Dates = f.datesOf(id)
	return &tour, nil
}

func (f *fakeTourRepo) ListWithRatings(_ context.Context) ([]domain.TourSummary, error) {
	return f.summaries, nil
}

func (f *fakeTourRepo) Search(_ context.Context, filter repository.TourSearchFilter) ([]domain.Tour, error) {
	f.lastFilter = &filter
	return f.searchResult, nil
}

func (f *fakeTourRepo) Update(_ context.Context, id int64, fields repository.TourUpdateFields, dates []time.Time) error {
	stored, ok := f.tours[id]
	if !ok {
		return pgx.ErrNoRows
	}
	if fields.Title != nil {
		stored.Title = *fields.Title
	}
	if fields.ImageURL != nil {
		stored.ImageURL = *fields.ImageURL
	}
	if fields.DurationMinutes != nil {
		stored.DurationMinutes = *fields.DurationMinutes
	}
	if fields.Price != nil {
		stored.Price = *fields.Price
	}
	if fields.Category != nil {
		stored.Category = *fields.Category
	}
	stored.UpdatedAt = time.Now()

	if dates == nil {
		return nil
	}

	desired := make(map[string]bool, len(dates))
	for _, date := range dates {
		desired[date.Format(repository.DateLayout)] = true
	}
	existing := make(map[string]bool)
	for dateID, td := range f.dates {
		if td.TourID != id {
			continue
		}
		key := td.Date.Format(repository.DateLayout)
		if !desired[key] && !f.pinned[dateID] {
			delete(f.dates, dateID)
			continue
		}
		existing[key] = true
	}
	for _, date := range dates {
		if existing[date.Format(repository.DateLayout)] {
			continue
		}
		f.nextDateID++
		f.dates[f.nextDateID] = &domain.TourDate{ID: f.nextDateID, TourID: id, Date: date}
	}
	return nil
}

func (f *fakeTourRepo) Delete(_ context.Context, id int64) (*domain.Tour, error) {
	stored, ok := f.tours[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	tour := *stored
	tour.Dates = f.datesOf(id)
	delete(f.tours, id)
	for dateID, td := range f.dates {
		if td.TourID == id {
			delete(f.dates, dateID)
		}
	}
	return &tour, nil
}

func (f *fakeTourRepo) GetDate(_ context.Context, dateID int64) (*domain.TourDate, error) {
	td, ok := f.dates[dateID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *td
	return &copied, nil
}

func (f *fakeTourRepo) datesOf(tourID int64) []domain.TourDate {
	var result []domain.TourDate
	for _, td := range f.dates {
		if td.TourID == tourID {
			result = append(result, *td)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result
}

// addTour seeds a tour with dates and returns the date IDs in order.
func (f *fakeTourRepo) addTour(tour domain.Tour, dates ...string) (int64, []int64) {
	f.nextTourID++
	tour.ID = f.nextTourID
	f.tours[tour.ID] = &tour
	ids := make([]int64, 0, len(dates))
	for _, value := range dates {
		parsed, _ := time.Parse(repository.DateLayout, value)
		f.nextDateID++
		f.dates[f.nextDateID] = &domain.TourDate{ID: f.nextDateID, TourID: tour.ID, Date: parsed}
		ids = append(ids, f.nextDateID)
	}
	return tour.ID, ids
}

type fakeRegistrationRepo struct {
	regs    map[int64]*domain.Registration
	nextID  int64
	details []domain.RegistrationDetail
}

func newFakeRegistrationRepo() *fakeRegistrationRepo {
	return &fakeRegistrationRepo{regs: make(map[int64]*domain.Registration)}
}

func (f *fakeRegistrationRepo) Create(_ context.Context, reg *domain.Registration) error {
	f.nextID++
	reg.ID = f.nextID
	reg.RegisteredAt = time.Now()
	stored := *reg
	f.regs[reg.ID] = &stored
	return nil
}

func (f *fakeRegistrationRepo) GetByID(_ context.Context, id int64) (*domain.Registration, error) {
	stored, ok := f.regs[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	reg := *stored
	return &reg, nil
}

func (f *fakeRegistrationRepo) ListAll(_ context.Context) ([]domain.RegistrationDetail, error) {
	return f.details, nil
}

func (f *fakeRegistrationRepo) ListByTour(_ context.Context, _ int64) ([]domain.RegistrationDetail, error) {
	return f.details, nil
}

func (f *fakeRegistrationRepo) ListByUser(_ context.Context, _ int64) ([]domain.RegistrationDetail, error) {
	return f.details, nil
}

func (f *fakeRegistrationRepo) UpdateStatus(_ context.Context, id int64, status domain.RegistrationStatus) error {
	stored, ok := f.regs[id]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.Status = status
	return nil
}

func (f *fakeRegistrationRepo) UpdateDate(_ context.Context, id int64, tourDateID int64) error {
	stored, ok := f.regs[id]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.TourDateID = tourDateID
	stored.Status = domain.RegistrationStatusPending
	return nil
}

func (f *fakeRegistrationRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.regs[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.regs, id)
	return nil
}

func (f *fakeRegistrationRepo) addRegistration(reg domain.Registration) int64 {
	f.nextID++
	reg.ID = f.nextID
	f.regs[reg.ID] = &reg
	return reg.ID
}

type fakeReviewRepo struct {
	reviews   []domain.Review
	nextID    int64
	createErr error
}

func (f *fakeReviewRepo) Create(_ context.Context, review *domain.Review) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	review.ID = f.nextID
	review.RegisteredAt = time.Now()
	f.reviews = append(f.reviews, *review)
	return nil
}

func (f *fakeReviewRepo) ListAll(_ context.Context) ([]domain.Review, error) {
	return f.reviews, nil
}

func (f *fakeReviewRepo) ListByTour(_ context.Context, tourID int64) ([]domain.Review, error) {
	var result []domain.Review
	for _, review := range f.reviews {
		if review.TourID == tourID {
			result = append(result, review)
		}
	}
	return result, nil
}

func (f *fakeReviewRepo) Exists(_ context.Context, userID, tourID int64) (bool, error) {
	for _, review := range f.reviews {
		if review.UserID == userID && review.TourID == tourID {
			return true, nil
		}
	}
	return false, nil
}

type fakeUserRepo struct {
	users  map[int64]*domain.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*domain.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
		}
	}
	f.nextID++
	user.ID = f.nextID
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	f.users[user.ID] = &stored
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	stored, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	user := *stored
	return &user, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, stored := range f.users {
		if stored.Email == email {
			user := *stored
			return &user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) List(_ context.Context) ([]domain.User, error) {
	result := make([]domain.User, 0, len(f.users))
	for _, stored := range f.users {
		result = append(result, *stored)
	}
	return result, nil
}

type fakeRevocationStore struct {
	revoked map[string]time.Time
}

func newFakeRevocationStore() *fakeRevocationStore {
	return &fakeRevocationStore{revoked: make(map[string]time.Time)}
}

func (f *fakeRevocationStore) Revoke(_ context.Context, jti string, until time.Time) error {
	f.revoked[jti] = until
	return nil
}

func (f *fakeRevocationStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	_, ok := f.revoked[jti]
	return ok, nil
}

type recordingDispatcher struct {
	published []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.published = append(d.published, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) lastType() events.EventType {
	if len(d.published) == 0 {
		return ""
	}
	return d.published[len(d.published)-1].Type
}

func requireErrCode(t interface {
	Helper()
	Fatalf(format string, args ...any)
}, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", code)
	}
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) {
		t.Fatalf("expected DomainError with code %s, got %v", code, err)
	}
	if domainErr.Code != code {
		t.Fatalf("expected code %s, got %s (%v)", code, domainErr.Code, err)
	}
}

var (
	adminCaller = domain.Caller{ID: 1, Role: domain.RoleAdmin}
	userCaller  = domain.Caller{ID: 2, Role: domain.RoleUser}
)
