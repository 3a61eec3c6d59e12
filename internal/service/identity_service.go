package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/medbook/booking-engine/internal/domain/doctor"
	"github.com/medbook/booking-engine/internal/domain/patient"
)

// DoctorService and PatientService cover the identity plumbing around the
// booking core: registration and lookup of the referenced parties.

type DoctorService struct {
	repo doctor.Repository
	log  *zap.Logger
}

func NewDoctorService(repo doctor.Repository, log *zap.Logger) *DoctorService {
	return &DoctorService{repo: repo, log: log}
}

func (s *DoctorService) Register(ctx context.Context, cmd *doctor.CreateDoctorCommand) (*doctor.Doctor, error) {
	if !cmd.Specialisation.IsValid() {
		return nil, doctor.ErrInvalidSpecialisation
	}
	if err := validateIdentity(cmd.FirstName, cmd.LastName, cmd.Email, cmd.BirthDate); err != nil {
		return nil, err
	}

	d := &doctor.Doctor{
		FirstName:      cmd.FirstName,
		LastName:       cmd.LastName,
		Email:          cmd.Email,
		PhoneNumber:    cmd.PhoneNumber,
		BirthDate:      cmd.BirthDate,
		Specialisation: cmd.Specialisation,
	}
	if err := s.repo.Create(ctx, d); err != nil {
		s.log.Error("failed to create doctor", zap.Error(err))
		return nil, err
	}
	return d, nil
}

func (s *DoctorService) Get(ctx context.Context, id uuid.UUID) (*doctor.Doctor, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *DoctorService) List(ctx context.Context) ([]*doctor.Doctor, error) {
	return s.repo.List(ctx)
}

type PatientService struct {
	repo patient.Repository
	log  *zap.Logger
}

func NewPatientService(repo patient.Repository, log *zap.Logger) *PatientService {
	return &PatientService{repo: repo, log: log}
}

func (s *PatientService) Register(ctx context.Context, cmd *patient.CreatePatientCommand) (*patient.Patient, error) {
	if !cmd.ConfirmationMethod.IsValid() {
		return nil, patient.ErrInvalidConfirmationMethod
	}
	if err := validateIdentity(cmd.FirstName, cmd.LastName, cmd.Email, cmd.BirthDate); err != nil {
		return nil, err
	}

	p := &patient.Patient{
		FirstName:          cmd.FirstName,
		LastName:           cmd.LastName,
		Email:              cmd.Email,
		PhoneNumber:        cmd.PhoneNumber,
		BirthDate:          cmd.BirthDate,
		ConfirmationMethod: cmd.ConfirmationMethod,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		s.log.Error("failed to create patient", zap.Error(err))
		return nil, err
	}
	return p, nil
}

func (s *PatientService) Get(ctx context.Context, id uuid.UUID) (*patient.Patient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *PatientService) List(ctx context.Context) ([]*patient.Patient, error) {
	return s.repo.List(ctx)
}

func validateIdentity(firstName, lastName, email string, birthDate time.Time) error {
	var fields []string
	if firstName == "" {
		fields = append(fields, "first name is required")
	}
	if lastName == "" {
		fields = append(fields, "last name is required")
	}
	if email == "" {
		fields = append(fields, "email is required")
	}
	if !birthDate.IsZero() && birthDate.After(time.Now()) {
		fields = append(fields, "birth date must be in the past")
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
