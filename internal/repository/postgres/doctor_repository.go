package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medbook/booking-engine/internal/domain/doctor"
)

type DoctorRepository struct {
	db *gorm.DB
}

func NewDoctorRepository(db *gorm.DB) *DoctorRepository {
	return &DoctorRepository{db: db}
}

func (r *DoctorRepository) Create(ctx context.Context, d *doctor.Doctor) error {
	err := r.db.WithContext(ctx).Create(d).Error
	if err != nil && isUniqueViolation(err) {
		return doctor.ErrDoctorAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("creating doctor: %w", err)
	}
	return nil
}

func (r *DoctorRepository) GetByID(ctx context.Context, id uuid.UUID) (*doctor.Doctor, error) {
	var d doctor.Doctor
	err := r.db.WithContext(ctx).First(&d, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, doctor.ErrDoctorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading doctor: %w", err)
	}
	return &d, nil
}

func (r *DoctorRepository) List(ctx context.Context) ([]*doctor.Doctor, error) {
	var doctors []*doctor.Doctor
	if err := r.db.WithContext(ctx).Order("last_name, first_name").Find(&doctors).Error; err != nil {
		return nil, fmt.Errorf("listing doctors: %w", err)
	}
	return doctors, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// pgconn errors carry SQLSTATE 23505 in their message via gorm's translator
	return strings.Contains(err.Error(), "23505") || strings.Contains(err.Error(), "duplicate key")
}
