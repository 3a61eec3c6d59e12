package schedule

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	// CreateBatch persists all slots in one unit of work; nothing is written
	// if any insert fails.
	CreateBatch(ctx context.Context, slots []*Slot) error

	// GetByID returns ErrSlotNotFound if the slot does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*Slot, error)

	// ListByDoctor returns every slot owned by the doctor, booked or free.
	ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*Slot, error)

	// ListFreeByDoctor returns the doctor's unbooked slots.
	ListFreeByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*Slot, error)

	// CountAt counts the doctor's slots at (startTime, day), excluding
	// excludeID when non-nil.
	CountAt(ctx context.Context, doctorID uuid.UUID, startTime string, day time.Time, excludeID *uuid.UUID) (int64, error)

	// Update writes the slot's mutable fields guarded by its current Version
	// and increments the version on success. A concurrent write since the
	// slot was read surfaces as ErrVersionMismatch.
	Update(ctx context.Context, s *Slot) error

	// Delete removes the slot if its stored version matches.
	Delete(ctx context.Context, id uuid.UUID, version int64) error

	// Book performs the free→booked transition as one conditional write: it
	// assigns the patient only if the slot is currently unbooked. A slot that
	// was booked in the meantime surfaces as ErrSlotNotAvailable, so at most
	// one of several concurrent booking attempts can succeed.
	Book(ctx context.Context, slotID, patientID uuid.UUID) (*Slot, error)

	// Search returns slots across all doctors matching the query, joined with
	// the owning doctor's identity.
	Search(ctx context.Context, q *SearchQuery) ([]*SearchResult, error)
}
