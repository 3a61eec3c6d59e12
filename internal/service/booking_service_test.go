package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/medbook/booking-engine/internal/domain/doctor"
	"github.com/medbook/booking-engine/internal/domain/patient"
	"github.com/medbook/booking-engine/internal/domain/schedule"
	"github.com/medbook/booking-engine/internal/event"
)

func eventFor(email string) event.BookingConfirmation {
	return event.BookingConfirmation{
		PatientEmail: email,
		ScheduleDay:  "2025-07-17",
		ScheduleHour: "14:00",
	}
}

type bookingFixture struct {
	*fixture
	publisher *fakePublisher
	emitter   *Emitter
	booking   *BookingService
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()

	f := newFixture(t)
	publisher := &fakePublisher{}
	emitter := NewEmitter(publisher, 16, zap.NewNop())

	return &bookingFixture{
		fixture:   f,
		publisher: publisher,
		emitter:   emitter,
		booking:   NewBookingService(f.slots, f.doctors, f.patients, f.availability, emitter, zap.NewNop()),
	}
}

func TestBook(t *testing.T) {
	ctx := context.Background()

	t.Run("books a free slot and emits a confirmation", func(t *testing.T) {
		f := newBookingFixture(t)
		d := f.doctors.add("House", doctor.SpecCardiologist)
		p := f.patients.add("Jones", "jones@example.com", "123456789", patient.ConfirmBySMS)
		sl := f.slots.seed(d.ID, mustDay(t, "2025-07-17"), "14:00", false)

		booked, err := f.booking.Book(ctx, p.ID, sl.ID)
		if err != nil {
			t.Fatalf("Book: %v", err)
		}
		if !booked.Booked {
			t.Error("slot should be booked")
		}
		if booked.PatientID == nil || *booked.PatientID != p.ID {
			t.Errorf("patient id = %v, want %s", booked.PatientID, p.ID)
		}
		if booked.Version != sl.Version+1 {
			t.Errorf("version = %d, want %d", booked.Version, sl.Version+1)
		}

		f.emitter.Shutdown()
		events := f.publisher.published()
		if len(events) != 1 {
			t.Fatalf("expected 1 confirmation event, got %d", len(events))
		}
		ev := events[0]
		if ev.PatientEmail != "jones@example.com" {
			t.Errorf("event patient email = %s", ev.PatientEmail)
		}
		if ev.ScheduleDay != "2025-07-17" || ev.ScheduleHour != "14:00" {
			t.Errorf("event schedule = %s %s", ev.ScheduleDay, ev.ScheduleHour)
		}
		if ev.DoctorName != "House" {
			t.Errorf("event doctor = %s", ev.DoctorName)
		}
		if ev.ConfirmationMethod != "SMS" || ev.PhoneNumber != "123456789" {
			t.Errorf("event confirmation = %s %s", ev.ConfirmationMethod, ev.PhoneNumber)
		}
	})

	t.Run("booking invalidates the cached free listing", func(t *testing.T) {
		f := newBookingFixture(t)
		d := f.doctors.add("House", doctor.SpecCardiologist)
		p := f.patients.add("Jones", "jones@example.com", "123456789", patient.ConfirmByEmail)
		sl := f.slots.seed(d.ID, mustDay(t, "2025-07-17"), "14:00", false)

		if _, err := f.schedule.FreeSlots(ctx, d.ID); err != nil {
			t.Fatalf("FreeSlots: %v", err)
		}
		if _, err := f.booking.Book(ctx, p.ID, sl.ID); err != nil {
			t.Fatalf("Book: %v", err)
		}

		free, err := f.schedule.FreeSlots(ctx, d.ID)
		if err != nil {
			t.Fatalf("FreeSlots after booking: %v", err)
		}
		if len(free) != 0 {
			t.Errorf("booked slot still listed as free: %+v", free)
		}
	})

	t.Run("already booked slot names its day and time", func(t *testing.T) {
		f := newBookingFixture(t)
		d := f.doctors.add("House", doctor.SpecCardiologist)
		p := f.patients.add("Jones", "jones@example.com", "123456789", patient.ConfirmByEmail)
		sl := f.slots.seed(d.ID, mustDay(t, "2025-07-17"), "14:00", true)

		_, err := f.booking.Book(ctx, p.ID, sl.ID)
		if !errors.Is(err, schedule.ErrSlotNotAvailable) {
			t.Fatalf("expected ErrSlotNotAvailable, got %v", err)
		}
		if !strings.Contains(err.Error(), "2025-07-17") || !strings.Contains(err.Error(), "14:00") {
			t.Errorf("error should name the slot, got %q", err)
		}

		f.emitter.Shutdown()
		if got := len(f.publisher.published()); got != 0 {
			t.Errorf("published %d events for a failed booking, want 0", got)
		}
	})

	t.Run("exactly one of many concurrent bookings wins", func(t *testing.T) {
		f := newBookingFixture(t)
		d := f.doctors.add("House", doctor.SpecCardiologist)
		sl := f.slots.seed(d.ID, mustDay(t, "2025-07-17"), "14:00", false)

		const attempts = 8
		patients := make([]uuid.UUID, attempts)
		for i := range patients {
			patients[i] = f.patients.add("Jones", uuid.NewString()+"@example.com", "123456789", patient.ConfirmByEmail).ID
		}

		var wg sync.WaitGroup
		errs := make([]error, attempts)
		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = f.booking.Book(ctx, patients[i], sl.ID)
			}(i)
		}
		wg.Wait()

		var wins, losses int
		for _, err := range errs {
			switch {
			case err == nil:
				wins++
			case errors.Is(err, schedule.ErrSlotNotAvailable):
				losses++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}
		if wins != 1 || losses != attempts-1 {
			t.Errorf("wins = %d, losses = %d, want 1 and %d", wins, losses, attempts-1)
		}

		f.emitter.Shutdown()
		if got := len(f.publisher.published()); got != 1 {
			t.Errorf("published %d events, want 1", got)
		}
	})

	t.Run("unknown patient", func(t *testing.T) {
		f := newBookingFixture(t)
		d := f.doctors.add("House", doctor.SpecCardiologist)
		sl := f.slots.seed(d.ID, mustDay(t, "2025-07-17"), "14:00", false)

		_, err := f.booking.Book(ctx, uuid.New(), sl.ID)
		if !errors.Is(err, patient.ErrPatientNotFound) {
			t.Fatalf("expected ErrPatientNotFound, got %v", err)
		}
	})

	t.Run("unknown slot", func(t *testing.T) {
		f := newBookingFixture(t)
		p := f.patients.add("Jones", "jones@example.com", "123456789", patient.ConfirmByEmail)

		_, err := f.booking.Book(ctx, p.ID, uuid.New())
		if !errors.Is(err, schedule.ErrSlotNotFound) {
			t.Fatalf("expected ErrSlotNotFound, got %v", err)
		}
	})
}

func TestEmitter(t *testing.T) {
	t.Run("delivers queued events before shutdown", func(t *testing.T) {
		publisher := &fakePublisher{}
		emitter := NewEmitter(publisher, 4, zap.NewNop())

		for i := 0; i < 3; i++ {
			emitter.EmitAsync(eventFor("a@example.com"))
		}
		emitter.Shutdown()

		if got := len(publisher.published()); got != 3 {
			t.Errorf("published %d events, want 3", got)
		}
	})

	t.Run("publish failure does not block later events", func(t *testing.T) {
		publisher := &fakePublisher{err: errors.New("broker down")}
		emitter := NewEmitter(publisher, 4, zap.NewNop())

		emitter.EmitAsync(eventFor("a@example.com"))
		emitter.Shutdown()

		if got := len(publisher.published()); got != 0 {
			t.Errorf("published %d events against a failing publisher, want 0", got)
		}
	})
}
