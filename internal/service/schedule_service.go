package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/medbook/booking-engine/internal/cache"
	"github.com/medbook/booking-engine/internal/domain/doctor"
	"github.com/medbook/booking-engine/internal/domain/schedule"
)

// ScheduleService orchestrates slot creation, update, deletion, and search.
// Every public method is one unit of work against the slot store.
type ScheduleService struct {
	repo       schedule.Repository
	doctorRepo doctor.Repository
	validator  *schedule.Validator
	cache      *cache.Availability
	log        *zap.Logger
}

func NewScheduleService(
	repo schedule.Repository,
	doctorRepo doctor.Repository,
	validator *schedule.Validator,
	availability *cache.Availability,
	log *zap.Logger,
) *ScheduleService {
	return &ScheduleService{repo: repo, doctorRepo: doctorRepo, validator: validator, cache: availability, log: log}
}

// CreateSlots validates and persists a batch of slots for one doctor,
// all-or-nothing. Each request is checked against the business-hours window,
// against every slot the doctor already has (booked or free), and against
// earlier requests in the same batch; the first violation aborts the whole
// batch with nothing written.
func (s *ScheduleService) CreateSlots(ctx context.Context, cmd *schedule.CreateSlotsCommand) ([]*schedule.Slot, error) {
	if _, err := s.doctorRepo.GetByID(ctx, cmd.DoctorID); err != nil {
		return nil, err
	}

	existing, err := s.repo.ListByDoctor(ctx, cmd.DoctorID)
	if err != nil {
		return nil, fmt.Errorf("listing doctor slots: %w", err)
	}

	taken := make(map[string]struct{}, len(existing)+len(cmd.Requests))
	for _, sl := range existing {
		taken[slotKey(sl.StartTime, sl.Day)] = struct{}{}
	}

	slots := make([]*schedule.Slot, 0, len(cmd.Requests))
	for _, req := range cmd.Requests {
		if err := s.validator.ValidateStartTime(req.StartTime); err != nil {
			return nil, err
		}
		key := slotKey(req.StartTime, req.Day)
		if _, exists := taken[key]; exists {
			return nil, fmt.Errorf("%w: doctor already has a slot at %s on %s",
				schedule.ErrSlotNotAvailable, req.StartTime, req.Day.Format(schedule.DayLayout))
		}
		taken[key] = struct{}{}

		slots = append(slots, &schedule.Slot{
			DoctorID:  cmd.DoctorID,
			Day:       req.Day,
			StartTime: req.StartTime,
		})
	}

	if err := s.repo.CreateBatch(ctx, slots); err != nil {
		s.log.Error("failed to create slot batch", zap.Error(err), zap.String("doctor_id", cmd.DoctorID.String()))
		return nil, fmt.Errorf("creating slots: %w", err)
	}

	s.cache.Evict(cmd.DoctorID)
	return slots, nil
}

func (s *ScheduleService) GetSlot(ctx context.Context, id uuid.UUID) (*schedule.Slot, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateSlot applies a partial, version-guarded update to one slot.
//
// A supplied booked=true on a slot that is currently booked releases the
// booking (clears the flag and the patient). Day/time changes are validated
// against the effective new pair. The doctor's cache entry is evicted after a
// successful write.
func (s *ScheduleService) UpdateSlot(ctx context.Context, cmd *schedule.UpdateSlotCommand) (*schedule.Slot, error) {
	sl, err := s.repo.GetByID(ctx, cmd.ID)
	if err != nil {
		return nil, err
	}

	if cmd.Version != sl.Version {
		return nil, fmt.Errorf("%w: slot %s", schedule.ErrVersionMismatch, cmd.ID)
	}

	if cmd.DoctorID != nil && *cmd.DoctorID != sl.DoctorID {
		return nil, schedule.ErrDoctorImmutable
	}

	if sl.Booked && cmd.Booked != nil && *cmd.Booked {
		sl.Booked = false
		sl.PatientID = nil
	}

	if cmd.StartTime != nil || cmd.Day != nil {
		if err := s.validator.ValidateChange(ctx, cmd.StartTime, cmd.Day, sl); err != nil {
			return nil, err
		}
		if cmd.StartTime != nil {
			sl.StartTime = *cmd.StartTime
		}
		if cmd.Day != nil {
			sl.Day = *cmd.Day
		}
	}

	if err := s.repo.Update(ctx, sl); err != nil {
		return nil, err
	}

	s.cache.Evict(sl.DoctorID)
	return sl, nil
}

// DeleteSlot removes a slot after verifying the caller's version.
func (s *ScheduleService) DeleteSlot(ctx context.Context, cmd *schedule.DeleteSlotCommand) error {
	sl, err := s.repo.GetByID(ctx, cmd.ID)
	if err != nil {
		return err
	}

	if cmd.Version != sl.Version {
		return fmt.Errorf("%w: slot %s", schedule.ErrVersionMismatch, cmd.ID)
	}

	if err := s.repo.Delete(ctx, cmd.ID, cmd.Version); err != nil {
		return err
	}

	s.cache.Evict(sl.DoctorID)
	return nil
}

// Search returns slots across all doctors matching the query. Range
// preconditions are checked before the store is touched.
func (s *ScheduleService) Search(ctx context.Context, q *schedule.SearchQuery) ([]*schedule.SearchResult, error) {
	if q.StartDay.After(q.EndDay) {
		return nil, fmt.Errorf("%w: start day cannot be later than end day", schedule.ErrInvalidSearchRange)
	}

	if q.StartTime != nil && q.EndTime != nil {
		start, err := schedule.ParseClock(*q.StartTime)
		if err != nil {
			return nil, err
		}
		end, err := schedule.ParseClock(*q.EndTime)
		if err != nil {
			return nil, err
		}
		if start > end {
			return nil, fmt.Errorf("%w: start time cannot be later than end time", schedule.ErrInvalidSearchRange)
		}
	}

	if q.Specialisation != nil && !q.Specialisation.IsValid() {
		return nil, doctor.ErrInvalidSpecialisation
	}

	return s.repo.Search(ctx, q)
}

// FreeSlots returns the doctor's unbooked slots, served from the availability
// cache when a fresh entry exists and recomputed from the store otherwise.
func (s *ScheduleService) FreeSlots(ctx context.Context, doctorID uuid.UUID) ([]schedule.FreeSlot, error) {
	if _, err := s.doctorRepo.GetByID(ctx, doctorID); err != nil {
		return nil, err
	}

	if cached, ok := s.cache.Get(doctorID); ok {
		return cached, nil
	}

	slots, err := s.repo.ListFreeByDoctor(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("listing free slots: %w", err)
	}

	free := make([]schedule.FreeSlot, 0, len(slots))
	for _, sl := range slots {
		free = append(free, schedule.FreeSlot{SlotID: sl.ID, Day: sl.Day, StartTime: sl.StartTime})
	}

	s.cache.Put(doctorID, free)
	return free, nil
}

func slotKey(startTime string, day time.Time) string {
	return startTime + "@" + day.Format(schedule.DayLayout)
}
