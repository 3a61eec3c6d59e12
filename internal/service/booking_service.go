package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/medbook/booking-engine/internal/cache"
	"github.com/medbook/booking-engine/internal/domain/doctor"
	"github.com/medbook/booking-engine/internal/domain/patient"
	"github.com/medbook/booking-engine/internal/domain/schedule"
	"github.com/medbook/booking-engine/internal/event"
)

// BookingService transitions free slots to booked and emits the
// booking-confirmed event consumed by the notification subsystem.
type BookingService struct {
	repo        schedule.Repository
	doctorRepo  doctor.Repository
	patientRepo patient.Repository
	cache       *cache.Availability
	emitter     *Emitter
	log         *zap.Logger
}

func NewBookingService(
	repo schedule.Repository,
	doctorRepo doctor.Repository,
	patientRepo patient.Repository,
	availability *cache.Availability,
	emitter *Emitter,
	log *zap.Logger,
) *BookingService {
	return &BookingService{
		repo:        repo,
		doctorRepo:  doctorRepo,
		patientRepo: patientRepo,
		cache:       availability,
		emitter:     emitter,
		log:         log,
	}
}

// Book assigns the patient to the slot. The free→booked transition is a
// single conditional write in the store, so of any number of concurrent
// attempts on the same slot exactly one succeeds; the rest see
// ErrSlotNotAvailable naming the slot's day and time.
func (s *BookingService) Book(ctx context.Context, patientID, slotID uuid.UUID) (*schedule.Slot, error) {
	p, err := s.patientRepo.GetByID(ctx, patientID)
	if err != nil {
		return nil, err
	}

	sl, err := s.repo.GetByID(ctx, slotID)
	if err != nil {
		return nil, err
	}

	if sl.Booked {
		return nil, notAvailable(sl)
	}

	booked, err := s.repo.Book(ctx, slotID, patientID)
	if err != nil {
		if errors.Is(err, schedule.ErrSlotNotAvailable) {
			// Lost the race to a concurrent booking.
			return nil, notAvailable(sl)
		}
		return nil, err
	}

	s.cache.Evict(booked.DoctorID)

	d, err := s.doctorRepo.GetByID(ctx, booked.DoctorID)
	if err != nil {
		// The booking is committed; a missing doctor row only costs the event.
		s.log.Error("resolving doctor for booking confirmation", zap.Error(err),
			zap.String("slot_id", slotID.String()))
		return booked, nil
	}

	s.emitter.EmitAsync(event.BookingConfirmation{
		PatientEmail:       p.Email,
		ScheduleDay:        booked.Day.Format(schedule.DayLayout),
		ScheduleHour:       booked.StartTime,
		DoctorName:         d.LastName,
		ConfirmationMethod: string(p.ConfirmationMethod),
		PhoneNumber:        p.PhoneNumber,
	})

	return booked, nil
}

func notAvailable(sl *schedule.Slot) error {
	return fmt.Errorf("%w: slot on %s at %s is already taken",
		schedule.ErrSlotNotAvailable, sl.Day.Format(schedule.DayLayout), sl.StartTime)
}
