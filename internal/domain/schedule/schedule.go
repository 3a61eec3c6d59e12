package schedule

import (
	"time"

	"github.com/google/uuid"

	"github.com/medbook/booking-engine/internal/domain/doctor"
)

// ClockLayout is the wire and storage format for a slot's start time.
const ClockLayout = "15:04"

// DayLayout is the wire and storage format for a slot's calendar day.
const DayLayout = "2006-01-02"

// Slot is one bookable unit of a doctor's timetable. Duration is fixed by the
// business-hours grid, so only the start instant is modeled.
type Slot struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	DoctorID uuid.UUID `gorm:"column:doctor_id;type:uuid;not null;index"`

	// PatientID is set only while the slot is booked.
	PatientID *uuid.UUID `gorm:"column:patient_id;type:uuid;index"`

	Day       time.Time `gorm:"column:day;type:date;not null;index"`
	StartTime string    `gorm:"column:start_time;type:varchar(5);not null"`
	Booked    bool      `gorm:"column:booked;not null;default:false;index"`

	// Version is incremented by the store on every successful write. Writes
	// carrying a stale version are rejected with ErrVersionMismatch.
	Version int64 `gorm:"column:version;not null;default:0"`
}

func (Slot) TableName() string {
	return "booking.doctor_slots"
}

// SameDay reports whether two timestamps fall on the same calendar date in UTC.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

type SlotRequest struct {
	Day       time.Time
	StartTime string
}

type CreateSlotsCommand struct {
	DoctorID uuid.UUID
	Requests []SlotRequest
}

// UpdateSlotCommand carries a partial update guarded by Version.
//
// Booked follows the source contract: supplying booked=true for a slot that is
// currently booked releases it (clears the booked flag and the patient).
// DoctorID is informational only; a value differing from the slot's current
// doctor is rejected with ErrDoctorImmutable.
type UpdateSlotCommand struct {
	ID        uuid.UUID
	Version   int64
	Day       *time.Time
	StartTime *string
	Booked    *bool
	DoctorID  *uuid.UUID
}

type DeleteSlotCommand struct {
	ID      uuid.UUID
	Version int64
}

// SearchQuery filters slots across all doctors. StartDay/EndDay are required
// and inclusive; the remaining filters are optional and combined with AND.
type SearchQuery struct {
	StartDay       time.Time
	EndDay         time.Time
	StartTime      *string
	EndTime        *string
	Specialisation *doctor.Specialisation
}

// SearchResult is a slot joined with its owning doctor's identity.
type SearchResult struct {
	DoctorID       uuid.UUID             `gorm:"column:doctor_id"`
	DoctorLastName string                `gorm:"column:doctor_last_name"`
	Specialisation doctor.Specialisation `gorm:"column:specialisation"`
	Day            time.Time             `gorm:"column:day"`
	StartTime      string                `gorm:"column:start_time"`
	Booked         bool                  `gorm:"column:booked"`
}

// FreeSlot is the availability-cache view of an unbooked slot.
type FreeSlot struct {
	SlotID    uuid.UUID `json:"slot_id"`
	Day       time.Time `json:"day"`
	StartTime string    `json:"start_time"`
}
