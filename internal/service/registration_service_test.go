package service

import (
	"context"
	"testing"

	"github.com/spec-kit/tour-booking-service/internal/domain"
	"github.com/spec-kit/tour-booking-service/internal/events"
)

func newRegistrationService(regs *fakeRegistrationRepo, tours *fakeTourRepo) (*RegistrationService, *recordingDispatcher) {
	dispatcher := &recordingDispatcher{}
	svc := NewRegistrationService(RegistrationDependencies{
		RegistrationRepo: regs,
		TourRepo:         tours,
		Dispatcher:       dispatcher,
	})
	return svc, dispatcher
}

func TestRegistrationServiceCreate(t *testing.T) {
	tours := newFakeTourRepo()
	_, dateIDs := tours.addTour(domain.Tour{Title: "Harbour Cruise", Category: domain.TourCategoryGroup}, "2026-09-10")
	regs := newFakeRegistrationRepo()
	svc, dispatcher := newRegistrationService(regs, tours)

	_, err := svc.Create(context.Background(), userCaller, 999)
	requireErrCode(t, err, "NOT_FOUND")

	reg, err := svc.Create(context.Background(), userCaller, dateIDs[0])
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if reg.Status != domain.RegistrationStatusPending {
		t.Fatalf("new registration must start pending, got %s", reg.Status)
	}
	if reg.UserID != userCaller.ID {
		t.Fatalf("registration owner should be the caller, got %d", reg.UserID)
	}
	if dispatcher.lastType() != events.EventRegistrationCreated {
		t.Fatalf("expected registration created event, got %s", dispatcher.lastType())
	}
}

func TestRegistrationServiceListAccess(t *testing.T) {
	regs := newFakeRegistrationRepo()
	regs.details = []domain.RegistrationDetail{{Registration: domain.Registration{ID: 1, UserID: 2}}}
	svc, _ := newRegistrationService(regs, newFakeTourRepo())
	ctx := context.Background()

	if _, err := svc.ListAll(ctx, userCaller); err == nil {
		t.Fatal("ListAll should require admin")
	}
	if _, err := svc.ListAll(ctx, adminCaller); err != nil {
		t.Fatalf("ListAll as admin: %v", err)
	}

	if _, err := svc.ListByTour(ctx, userCaller, 1); err == nil {
		t.Fatal("ListByTour should require admin")
	}
	if _, err := svc.ListByTour(ctx, adminCaller, 1); err != nil {
		t.Fatalf("ListByTour as admin: %v", err)
	}

	_, err := svc.ListByUser(ctx, userCaller, adminCaller.ID)
	requireErrCode(t, err, "FORBIDDEN")
	if _, err := svc.ListByUser(ctx, userCaller, userCaller.ID); err != nil {
		t.Fatalf("ListByUser for self: %v", err)
	}
	if _, err := svc.ListByUser(ctx, adminCaller, userCaller.ID); err != nil {
		t.Fatalf("ListByUser as admin: %v", err)
	}
}

func TestRegistrationServiceSetStatus(t *testing.T) {
	regs := newFakeRegistrationRepo()
	regID := regs.addRegistration(domain.Registration{UserID: userCaller.ID, TourDateID: 1, Status: domain.RegistrationStatusPending})
	svc, dispatcher := newRegistrationService(regs, newFakeTourRepo())
	ctx := context.Background()

	_, err := svc.SetStatus(ctx, userCaller, regID, domain.RegistrationStatusApproved)
	requireErrCode(t, err, "FORBIDDEN")

	_, err = svc.SetStatus(ctx, adminCaller, regID, "rejected")
	requireErrCode(t, err, "VALIDATION_FAILED")

	_, err = svc.SetStatus(ctx, adminCaller, 999, domain.RegistrationStatusApproved)
	requireErrCode(t, err, "NOT_FOUND")

	reg, err := svc.SetStatus(ctx, adminCaller, regID, domain.RegistrationStatusApproved)
	if err != nil {
		t.Fatalf("set status: %v", err)
	}
	if reg.Status != domain.RegistrationStatusApproved {
		t.Fatalf("expected approved, got %s", reg.Status)
	}
	if dispatcher.lastType() != events.EventRegistrationStatusChanged {
		t.Fatalf("expected status changed event, got %s", dispatcher.lastType())
	}
}

func TestRegistrationServiceReschedule(t *testing.T) {
	tours := newFakeTourRepo()
	_, cruiseDates := tours.addTour(domain.Tour{Title: "Harbour Cruise", Category: domain.TourCategoryGroup}, "2026-09-10", "2026-09-11")
	_, hikeDates := tours.addTour(domain.Tour{Title: "Mountain Hike", Category: domain.TourCategoryIndividual}, "2026-09-12")

	regs := newFakeRegistrationRepo()
	regID := regs.addRegistration(domain.Registration{
		UserID:     userCaller.ID,
		TourDateID: cruiseDates[0],
		Status:     domain.RegistrationStatusApproved,
	})
	svc, dispatcher := newRegistrationService(regs, tours)
	ctx := context.Background()

	// ownership is checked before the target date is inspected, so a foreign
	// caller pointing at a cross-tour date still gets forbidden
	otherCaller := domain.Caller{ID: 7, Role: domain.RoleUser}
	_, err := svc.Reschedule(ctx, otherCaller, regID, hikeDates[0])
	requireErrCode(t, err, "FORBIDDEN")

	_, err = svc.Reschedule(ctx, userCaller, regID, hikeDates[0])
	requireErrCode(t, err, "VALIDATION_FAILED")

	_, err = svc.Reschedule(ctx, userCaller, regID, 999)
	requireErrCode(t, err, "NOT_FOUND")

	reg, err := svc.Reschedule(ctx, userCaller, regID, cruiseDates[1])
	if err != nil {
		t.Fatalf("reschedule: %v", err)
	}
	if reg.TourDateID != cruiseDates[1] {
		t.Fatalf("expected new date %d, got %d", cruiseDates[1], reg.TourDateID)
	}
	if reg.Status != domain.RegistrationStatusPending {
		t.Fatalf("reschedule must reset status to pending, got %s", reg.Status)
	}
	if dispatcher.lastType() != events.EventRegistrationRescheduled {
		t.Fatalf("expected rescheduled event, got %s", dispatcher.lastType())
	}
}

func TestRegistrationServiceCancel(t *testing.T) {
	regs := newFakeRegistrationRepo()
	regID := regs.addRegistration(domain.Registration{UserID: userCaller.ID, TourDateID: 1, Status: domain.RegistrationStatusPending})
	svc, dispatcher := newRegistrationService(regs, newFakeTourRepo())
	ctx := context.Background()

	otherCaller := domain.Caller{ID: 7, Role: domain.RoleUser}
	err := svc.Cancel(ctx, otherCaller, regID)
	requireErrCode(t, err, "FORBIDDEN")

	if err := svc.Cancel(ctx, userCaller, regID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if dispatcher.lastType() != events.EventRegistrationCancelled {
		t.Fatalf("expected cancelled event, got %s", dispatcher.lastType())
	}

	err = svc.Cancel(ctx, userCaller, regID)
	requireErrCode(t, err, "NOT_FOUND")
}
