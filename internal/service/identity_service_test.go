package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/medbook/booking-engine/internal/domain/doctor"
	"github.com/medbook/booking-engine/internal/domain/patient"
)

func TestDoctorRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("registers a doctor", func(t *testing.T) {
		repo := newMockDoctorRepo()
		svc := NewDoctorService(repo, zap.NewNop())

		d, err := svc.Register(ctx, &doctor.CreateDoctorCommand{
			FirstName:      "Gregory",
			LastName:       "House",
			Email:          "house@example.com",
			PhoneNumber:    "987654321",
			BirthDate:      time.Date(1959, 6, 11, 0, 0, 0, 0, time.UTC),
			Specialisation: doctor.SpecCardiologist,
		})
		if err != nil {
			t.Fatalf("Register: %v", err)
		}
		if d.ID == uuid.Nil {
			t.Error("doctor has no id")
		}

		got, err := svc.Get(ctx, d.ID)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got.Email != "house@example.com" {
			t.Errorf("email = %s", got.Email)
		}
	})

	t.Run("rejects an unknown specialisation", func(t *testing.T) {
		svc := NewDoctorService(newMockDoctorRepo(), zap.NewNop())

		_, err := svc.Register(ctx, &doctor.CreateDoctorCommand{
			FirstName:      "Gregory",
			LastName:       "House",
			Email:          "house@example.com",
			Specialisation: doctor.Specialisation("HERBALIST"),
		})
		if !errors.Is(err, doctor.ErrInvalidSpecialisation) {
			t.Fatalf("expected ErrInvalidSpecialisation, got %v", err)
		}
	})

	t.Run("rejects missing identity fields", func(t *testing.T) {
		svc := NewDoctorService(newMockDoctorRepo(), zap.NewNop())

		_, err := svc.Register(ctx, &doctor.CreateDoctorCommand{
			Specialisation: doctor.SpecSurgeon,
		})
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if len(verr.Fields) != 3 {
			t.Errorf("expected 3 field errors, got %v", verr.Fields)
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo := newMockDoctorRepo()
		svc := NewDoctorService(repo, zap.NewNop())
		repo.add("House", doctor.SpecCardiologist)

		_, err := svc.Register(ctx, &doctor.CreateDoctorCommand{
			FirstName:      "Other",
			LastName:       "House",
			Email:          "House@example.com",
			Specialisation: doctor.SpecCardiologist,
		})
		if !errors.Is(err, doctor.ErrDoctorAlreadyExists) {
			t.Fatalf("expected ErrDoctorAlreadyExists, got %v", err)
		}
	})
}

func TestPatientRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("registers a patient", func(t *testing.T) {
		svc := NewPatientService(newMockPatientRepo(), zap.NewNop())

		p, err := svc.Register(ctx, &patient.CreatePatientCommand{
			FirstName:          "Amy",
			LastName:           "Jones",
			Email:              "jones@example.com",
			PhoneNumber:        "123456789",
			BirthDate:          time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
			ConfirmationMethod: patient.ConfirmByEmail,
		})
		if err != nil {
			t.Fatalf("Register: %v", err)
		}
		if p.ConfirmationMethod != patient.ConfirmByEmail {
			t.Errorf("confirmation method = %s", p.ConfirmationMethod)
		}
	})

	t.Run("rejects an unknown confirmation method", func(t *testing.T) {
		svc := NewPatientService(newMockPatientRepo(), zap.NewNop())

		_, err := svc.Register(ctx, &patient.CreatePatientCommand{
			FirstName:          "Amy",
			LastName:           "Jones",
			Email:              "jones@example.com",
			ConfirmationMethod: patient.ConfirmationMethod("PIGEON"),
		})
		if !errors.Is(err, patient.ErrInvalidConfirmationMethod) {
			t.Fatalf("expected ErrInvalidConfirmationMethod, got %v", err)
		}
	})

	t.Run("rejects a future birth date", func(t *testing.T) {
		svc := NewPatientService(newMockPatientRepo(), zap.NewNop())

		_, err := svc.Register(ctx, &patient.CreatePatientCommand{
			FirstName:          "Amy",
			LastName:           "Jones",
			Email:              "jones@example.com",
			BirthDate:          time.Now().Add(24 * time.Hour),
			ConfirmationMethod: patient.ConfirmBySMS,
		})
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})
}
