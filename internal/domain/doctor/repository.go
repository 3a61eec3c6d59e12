package doctor

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Create persists a new doctor. Returns ErrDoctorAlreadyExists on a
	// duplicate email.
	Create(ctx context.Context, d *Doctor) error

	// GetByID returns ErrDoctorNotFound if the doctor does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error)

	List(ctx context.Context) ([]*Doctor, error)
}
