package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Validator enforces the business-hours window and the one-slot-per-
// (doctor, day, time) rule. The window bounds are inclusive.
type Validator struct {
	repo        Repository
	opening     int // minutes since midnight
	closing     int
	stepMinutes int
}

func NewValidator(repo Repository, opening, closing string, stepMinutes int) (*Validator, error) {
	open, err := ParseClock(opening)
	if err != nil {
		return nil, fmt.Errorf("parsing opening time: %w", err)
	}
	close, err := ParseClock(closing)
	if err != nil {
		return nil, fmt.Errorf("parsing closing time: %w", err)
	}
	if close <= open {
		return nil, fmt.Errorf("closing time %s is not after opening time %s", closing, opening)
	}
	return &Validator{repo: repo, opening: open, closing: close, stepMinutes: stepMinutes}, nil
}

// ParseClock converts an "HH:MM" clock string to minutes since midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a valid HH:MM time", ErrInvalidScheduleTime, s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// ValidateStartTime accepts start times inside the business window that fall
// on the slot grid.
func (v *Validator) ValidateStartTime(startTime string) error {
	minutes, err := ParseClock(startTime)
	if err != nil {
		return err
	}
	if minutes < v.opening || minutes > v.closing {
		return fmt.Errorf("%w: start time must be between %s and %s",
			ErrInvalidScheduleTime, clockString(v.opening), clockString(v.closing))
	}
	if minutes%v.stepMinutes != 0 {
		return fmt.Errorf("%w: slots start every %d minutes, for example: 10:00, 10:30, 11:00",
			ErrInvalidScheduleTime, v.stepMinutes)
	}
	return nil
}

// ValidateNoConflict fails with ErrSlotConflict if the doctor already has a
// slot at (startTime, day), not counting excludeID.
func (v *Validator) ValidateNoConflict(ctx context.Context, doctorID uuid.UUID, startTime string, day time.Time, excludeID *uuid.UUID) error {
	count, err := v.repo.CountAt(ctx, doctorID, startTime, day, excludeID)
	if err != nil {
		return fmt.Errorf("counting conflicting slots: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: %s on %s", ErrSlotConflict, startTime, day.Format(DayLayout))
	}
	return nil
}

// ValidateChange checks a prospective (startTime, day) change against the
// effective new pair, substituting the slot's current value for whichever
// field is not supplied.
func (v *Validator) ValidateChange(ctx context.Context, startTime *string, day *time.Time, s *Slot) error {
	effectiveTime := s.StartTime
	if startTime != nil {
		if err := v.ValidateStartTime(*startTime); err != nil {
			return err
		}
		effectiveTime = *startTime
	}
	effectiveDay := s.Day
	if day != nil {
		effectiveDay = *day
	}
	return v.ValidateNoConflict(ctx, s.DoctorID, effectiveTime, effectiveDay, &s.ID)
}

func clockString(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
