package availability

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"pablospizza/models"
)

type fakeSource struct {
	bookings []models.Booking
	err      error
}

func (f *fakeSource) ListAll(ctx context.Context) ([]models.Booking, error) {
	return f.bookings, f.err
}

func booked(date, eventTime, status string) models.Booking {
	return models.Booking{
		ID:          "b1",
		ServiceType: models.ServicePizzaParty,
		EventDate:   date,
		EventTime:   eventTime,
		Status:      status,
	}
}

func allSlots() []string {
	return []string{
		"09:00", "10:00", "11:00", "12:00", "13:00", "14:00",
		"15:00", "16:00", "17:00", "18:00", "19:00", "20:00",
	}
}

func TestEmptyDayReturnsAllSlots(t *testing.T) {
	checker := NewChecker(&fakeSource{})

	result, err := checker.Check(context.Background(), "2026-09-15", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(result.AvailableSlots, allSlots()) {
		t.Errorf("expected all 12 slots, got %v", result.AvailableSlots)
	}
	if !result.CanSchedule {
		t.Error("expected CanSchedule=true for an empty day")
	}
	if len(result.Conflicts) != 0 {
		t.Errorf("expected no conflicts, got %v", result.Conflicts)
	}
}

func TestEmptyDayWithRequestedTime(t *testing.T) {
	checker := NewChecker(&fakeSource{})

	result, err := checker.Check(context.Background(), "2026-09-15", "14:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.CanSchedule {
		t.Error("expected CanSchedule=true when nothing is booked")
	}
}

func TestExclusionWindowSymmetry(t *testing.T) {
	for _, status := range []string{models.BookingPending, models.BookingConfirmed, models.BookingCompleted} {
		src := &fakeSource{bookings: []models.Booking{booked("2026-09-15", "14:00", status)}}
		checker := NewChecker(src)

		result, err := checker.Check(context.Background(), "2026-09-15", "")
		if err != nil {
			t.Fatalf("status %s: unexpected error: %v", status, err)
		}

		// 14 ± 6 blocks 09..20 entirely except nothing: |h-14|<=6 covers 8..20,
		// so every business hour is blocked.
		if len(result.AvailableSlots) != 0 {
			t.Errorf("status %s: expected no open slots around 14:00, got %v", status, result.AvailableSlots)
		}
	}

	// A morning booking leaves the late slots open.
	src := &fakeSource{bookings: []models.Booking{booked("2026-09-15", "09:00", models.BookingConfirmed)}}
	result, err := NewChecker(src).Check(context.Background(), "2026-09-15", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"16:00", "17:00", "18:00", "19:00", "20:00"}
	if !reflect.DeepEqual(result.AvailableSlots, want) {
		t.Errorf("expected %v, got %v", want, result.AvailableSlots)
	}
}

func TestCancelledBookingsAreInert(t *testing.T) {
	src := &fakeSource{bookings: []models.Booking{booked("2026-09-15", "14:00", models.BookingCancelled)}}
	checker := NewChecker(src)

	result, err := checker.Check(context.Background(), "2026-09-15", "14:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(result.AvailableSlots, allSlots()) {
		t.Errorf("cancelled booking should block nothing, got %v", result.AvailableSlots)
	}
	if !result.CanSchedule || len(result.Conflicts) != 0 {
		t.Errorf("cancelled booking should not conflict, got %+v", result)
	}
}

func TestOtherDayBookingsIgnored(t *testing.T) {
	src := &fakeSource{bookings: []models.Booking{booked("2026-09-14", "14:00", models.BookingConfirmed)}}
	checker := NewChecker(src)

	result, err := checker.Check(context.Background(), "2026-09-15", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(result.AvailableSlots, allSlots()) {
		t.Errorf("different-day booking should block nothing, got %v", result.AvailableSlots)
	}
}

func TestRequestedTimeConflictFlag(t *testing.T) {
	src := &fakeSource{bookings: []models.Booking{booked("2026-09-15", "14:00", models.BookingPending)}}
	checker := NewChecker(src)

	// Same hour: conflict.
	result, err := checker.Check(context.Background(), "2026-09-15", "14:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.CanSchedule || len(result.Conflicts) == 0 {
		t.Errorf("expected conflict at the booked hour, got %+v", result)
	}

	// Exactly six hours apart: the strict bound leaves no conflict.
	result, err = checker.Check(context.Background(), "2026-09-15", "20:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.CanSchedule || len(result.Conflicts) != 0 {
		t.Errorf("expected no conflict at exactly 6 hours, got %+v", result)
	}

	// Five hours apart: conflict.
	result, err = checker.Check(context.Background(), "2026-09-15", "19:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.CanSchedule {
		t.Errorf("expected conflict at 5 hours apart, got %+v", result)
	}
}

func TestCheckIsPure(t *testing.T) {
	src := &fakeSource{bookings: []models.Booking{booked("2026-09-15", "14:00", models.BookingConfirmed)}}
	checker := NewChecker(src)

	first, err := checker.Check(context.Background(), "2026-09-15", "12:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := checker.Check(context.Background(), "2026-09-15", "12:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("identical inputs gave different results: %+v vs %+v", first, second)
	}
}

func TestUntimedBookingContributesNoExclusion(t *testing.T) {
	src := &fakeSource{bookings: []models.Booking{booked("2026-09-15", "", models.BookingConfirmed)}}
	checker := NewChecker(src)

	result, err := checker.Check(context.Background(), "2026-09-15", "12:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(result.AvailableSlots, allSlots()) {
		t.Errorf("untimed booking should block nothing, got %v", result.AvailableSlots)
	}
	if !result.CanSchedule {
		t.Errorf("untimed booking should not conflict, got %+v", result)
	}
}

func TestSourceFailurePropagates(t *testing.T) {
	src := &fakeSource{err: errors.New("mongo down")}
	checker := NewChecker(src)

	_, err := checker.Check(context.Background(), "2026-09-15", "")
	if err == nil {
		t.Fatal("expected error when the source fails")
	}
}

func TestInvalidInputsRejected(t *testing.T) {
	checker := NewChecker(&fakeSource{})

	if _, err := checker.Check(context.Background(), "15/09/2026", ""); err == nil {
		t.Error("expected error for malformed date")
	}
	if _, err := checker.Check(context.Background(), "2026-09-15", "noon"); err == nil {
		t.Error("expected error for malformed time")
	}
}
