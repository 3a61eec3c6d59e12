package patient

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Create persists a new patient. Returns ErrPatientAlreadyExists on a
	// duplicate email.
	Create(ctx context.Context, p *Patient) error

	// GetByID returns ErrPatientNotFound if the patient does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)

	List(ctx context.Context) ([]*Patient, error)
}
