package schedule

import "errors"

var (
	ErrSlotNotFound        = errors.New("schedule slot not found")
	ErrVersionMismatch     = errors.New("schedule slot version mismatch")
	ErrInvalidScheduleTime = errors.New("invalid schedule start time")
	ErrSlotConflict        = errors.New("doctor already has a slot at this time")
	ErrSlotNotAvailable    = errors.New("slot is not available")
	ErrInvalidSearchRange  = errors.New("invalid search range")
	ErrDoctorImmutable     = errors.New("cannot change the assigned doctor for a slot")
)
