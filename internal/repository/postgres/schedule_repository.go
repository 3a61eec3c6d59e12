package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medbook/booking-engine/internal/domain/schedule"
)

type ScheduleRepository struct {
	db *gorm.DB
}

func NewScheduleRepository(db *gorm.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

func (r *ScheduleRepository) CreateBatch(ctx context.Context, slots []*schedule.Slot) error {
	if len(slots) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&slots).Error
	})
}

func (r *ScheduleRepository) GetByID(ctx context.Context, id uuid.UUID) (*schedule.Slot, error) {
	var s schedule.Slot
	err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, schedule.ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading slot: %w", err)
	}
	return &s, nil
}

func (r *ScheduleRepository) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*schedule.Slot, error) {
	var slots []*schedule.Slot
	err := r.db.WithContext(ctx).
		Where("doctor_id = ?", doctorID).
		Order("day, start_time").
		Find(&slots).Error
	if err != nil {
		return nil, fmt.Errorf("listing slots: %w", err)
	}
	return slots, nil
}

func (r *ScheduleRepository) ListFreeByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*schedule.Slot, error) {
	var slots []*schedule.Slot
	err := r.db.WithContext(ctx).
		Where("doctor_id = ? AND booked = ?", doctorID, false).
		Order("day, start_time").
		Find(&slots).Error
	if err != nil {
		return nil, fmt.Errorf("listing free slots: %w", err)
	}
	return slots, nil
}

func (r *ScheduleRepository) CountAt(ctx context.Context, doctorID uuid.UUID, startTime string, day time.Time, excludeID *uuid.UUID) (int64, error) {
	q := r.db.WithContext(ctx).Model(&schedule.Slot{}).
		Where("doctor_id = ? AND start_time = ? AND day = ?", doctorID, startTime, day)
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("counting slots: %w", err)
	}
	return count, nil
}

// Update is a compare-and-swap on the slot's version: the write applies only
// if the stored version still matches, and bumps the version by one.
func (r *ScheduleRepository) Update(ctx context.Context, s *schedule.Slot) error {
	res := r.db.WithContext(ctx).Model(&schedule.Slot{}).
		Where("id = ? AND version = ?", s.ID, s.Version).
		Updates(map[string]any{
			"day":        s.Day,
			"start_time": s.StartTime,
			"booked":     s.Booked,
			"patient_id": s.PatientID,
			"version":    s.Version + 1,
		})
	if res.Error != nil {
		return fmt.Errorf("updating slot: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return r.staleWriteError(ctx, s.ID)
	}
	s.Version++
	return nil
}

func (r *ScheduleRepository) Delete(ctx context.Context, id uuid.UUID, version int64) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND version = ?", id, version).
		Delete(&schedule.Slot{})
	if res.Error != nil {
		return fmt.Errorf("deleting slot: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return r.staleWriteError(ctx, id)
	}
	return nil
}

// Book performs the free→booked transition as one conditional UPDATE, so two
// concurrent bookings of the same slot cannot both succeed regardless of the
// surrounding isolation level.
func (r *ScheduleRepository) Book(ctx context.Context, slotID, patientID uuid.UUID) (*schedule.Slot, error) {
	res := r.db.WithContext(ctx).Model(&schedule.Slot{}).
		Where("id = ? AND booked = ?", slotID, false).
		Updates(map[string]any{
			"booked":     true,
			"patient_id": patientID,
			"version":    gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return nil, fmt.Errorf("booking slot: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, slotID); err != nil {
			return nil, err
		}
		return nil, schedule.ErrSlotNotAvailable
	}
	return r.GetByID(ctx, slotID)
}

func (r *ScheduleRepository) Search(ctx context.Context, q *schedule.SearchQuery) ([]*schedule.SearchResult, error) {
	query := r.db.WithContext(ctx).
		Table("booking.doctor_slots AS s").
		Select("d.id AS doctor_id, d.last_name AS doctor_last_name, d.specialisation, s.day, s.start_time, s.booked").
		Joins("JOIN booking.doctors d ON d.id = s.doctor_id").
		Where("s.day >= ? AND s.day <= ?", q.StartDay, q.EndDay)

	if q.StartTime != nil {
		query = query.Where("s.start_time >= ?", *q.StartTime)
	}
	if q.EndTime != nil {
		query = query.Where("s.start_time <= ?", *q.EndTime)
	}
	if q.Specialisation != nil {
		query = query.Where("d.specialisation = ?", *q.Specialisation)
	}

	var results []*schedule.SearchResult
	if err := query.Order("s.day, s.start_time").Scan(&results).Error; err != nil {
		return nil, fmt.Errorf("searching slots: %w", err)
	}
	return results, nil
}

// staleWriteError distinguishes a missing row from a version conflict after a
// zero-rows-affected write.
func (r *ScheduleRepository) staleWriteError(ctx context.Context, id uuid.UUID) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&schedule.Slot{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("checking slot existence: %w", err)
	}
	if count == 0 {
		return schedule.ErrSlotNotFound
	}
	return schedule.ErrVersionMismatch
}
