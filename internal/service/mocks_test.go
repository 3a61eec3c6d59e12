package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/medbook/booking-engine/internal/domain/doctor"
	"github.com/medbook/booking-engine/internal/domain/patient"
	"github.com/medbook/booking-engine/internal/domain/schedule"
	"github.com/medbook/booking-engine/internal/event"
)

// -- mock repositories --

type mockDoctorRepo struct {
	mu      sync.Mutex
	doctors map[uuid.UUID]*doctor.Doctor
}

func newMockDoctorRepo() *mockDoctorRepo {
	return &mockDoctorRepo{doctors: make(map[uuid.UUID]*doctor.Doctor)}
}

func (m *mockDoctorRepo) add(lastName string, spec doctor.Specialisation) *doctor.Doctor {
	m.mu.Lock()
	defer m.mu.Unlock()
	d := &doctor.Doctor{
		ID:             uuid.New(),
		FirstName:      "Test",
		LastName:       lastName,
		Email:          lastName + "@example.com",
		PhoneNumber:    "987654321",
		Specialisation: spec,
	}
	m.doctors[d.ID] = d
	return d
}

func (m *mockDoctorRepo) Create(_ context.Context, d *doctor.Doctor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.doctors {
		if existing.Email == d.Email {
			return doctor.ErrDoctorAlreadyExists
		}
	}
	d.ID = uuid.New()
	m.doctors[d.ID] = d
	return nil
}

func (m *mockDoctorRepo) GetByID(_ context.Context, id uuid.UUID) (*doctor.Doctor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.doctors[id]
	if !ok {
		return nil, doctor.ErrDoctorNotFound
	}
	copied := *d
	return &copied, nil
}

func (m *mockDoctorRepo) List(_ context.Context) ([]*doctor.Doctor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*doctor.Doctor, 0, len(m.doctors))
	for _, d := range m.doctors {
		copied := *d
		out = append(out, &copied)
	}
	return out, nil
}

type mockPatientRepo struct {
	mu       sync.Mutex
	patients map[uuid.UUID]*patient.Patient
}

func newMockPatientRepo() *mockPatientRepo {
	return &mockPatientRepo{patients: make(map[uuid.UUID]*patient.Patient)}
}

func (m *mockPatientRepo) add(lastName, email, phone string, method patient.ConfirmationMethod) *patient.Patient {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := &patient.Patient{
		ID:                 uuid.New(),
		FirstName:          "Test",
		LastName:           lastName,
		Email:              email,
		PhoneNumber:        phone,
		ConfirmationMethod: method,
	}
	m.patients[p.ID] = p
	return p
}

func (m *mockPatientRepo) Create(_ context.Context, p *patient.Patient) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.patients {
		if existing.Email == p.Email {
			return patient.ErrPatientAlreadyExists
		}
	}
	p.ID = uuid.New()
	m.patients[p.ID] = p
	return nil
}

func (m *mockPatientRepo) GetByID(_ context.Context, id uuid.UUID) (*patient.Patient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.patients[id]
	if !ok {
		return nil, patient.ErrPatientNotFound
	}
	copied := *p
	return &copied, nil
}

func (m *mockPatientRepo) List(_ context.Context) ([]*patient.Patient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*patient.Patient, 0, len(m.patients))
	for _, p := range m.patients {
		copied := *p
		out = append(out, &copied)
	}
	return out, nil
}

// mockScheduleRepo mirrors the store contract: conditional booking and
// compare-and-swap versioned writes under a mutex.
type mockScheduleRepo struct {
	mu            sync.Mutex
	slots         map[uuid.UUID]*schedule.Slot
	doctors       *mockDoctorRepo
	listFreeCalls int
	searchCalls   int
}

func newMockScheduleRepo(doctors *mockDoctorRepo) *mockScheduleRepo {
	return &mockScheduleRepo{slots: make(map[uuid.UUID]*schedule.Slot), doctors: doctors}
}

func (m *mockScheduleRepo) seed(doctorID uuid.UUID, day time.Time, startTime string, booked bool) *schedule.Slot {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := &schedule.Slot{
		ID:        uuid.New(),
		DoctorID:  doctorID,
		Day:       day,
		StartTime: startTime,
		Booked:    booked,
	}
	if booked {
		pid := uuid.New()
		s.PatientID = &pid
	}
	m.slots[s.ID] = s
	copied := *s
	return &copied
}

func (m *mockScheduleRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.slots)
}

func (m *mockScheduleRepo) CreateBatch(_ context.Context, slots []*schedule.Slot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range slots {
		s.ID = uuid.New()
		copied := *s
		m.slots[s.ID] = &copied
	}
	return nil
}

func (m *mockScheduleRepo) GetByID(_ context.Context, id uuid.UUID) (*schedule.Slot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.slots[id]
	if !ok {
		return nil, schedule.ErrSlotNotFound
	}
	copied := *s
	return &copied, nil
}

func (m *mockScheduleRepo) ListByDoctor(_ context.Context, doctorID uuid.UUID) ([]*schedule.Slot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*schedule.Slot
	for _, s := range m.slots {
		if s.DoctorID == doctorID {
			copied := *s
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *mockScheduleRepo) ListFreeByDoctor(_ context.Context, doctorID uuid.UUID) ([]*schedule.Slot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listFreeCalls++
	var out []*schedule.Slot
	for _, s := range m.slots {
		if s.DoctorID == doctorID && !s.Booked {
			copied := *s
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *mockScheduleRepo) CountAt(_ context.Context, doctorID uuid.UUID, startTime string, day time.Time, excludeID *uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, s := range m.slots {
		if excludeID != nil && s.ID == *excludeID {
			continue
		}
		if s.DoctorID == doctorID && s.StartTime == startTime && schedule.SameDay(s.Day, day) {
			count++
		}
	}
	return count, nil
}

func (m *mockScheduleRepo) Update(_ context.Context, s *schedule.Slot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.slots[s.ID]
	if !ok {
		return schedule.ErrSlotNotFound
	}
	if cur.Version != s.Version {
		return schedule.ErrVersionMismatch
	}
	copied := *s
	copied.Version++
	m.slots[s.ID] = &copied
	s.Version++
	return nil
}

func (m *mockScheduleRepo) Delete(_ context.Context, id uuid.UUID, version int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.slots[id]
	if !ok {
		return schedule.ErrSlotNotFound
	}
	if cur.Version != version {
		return schedule.ErrVersionMismatch
	}
	delete(m.slots, id)
	return nil
}

func (m *mockScheduleRepo) Book(_ context.Context, slotID, patientID uuid.UUID) (*schedule.Slot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.slots[slotID]
	if !ok {
		return nil, schedule.ErrSlotNotFound
	}
	if cur.Booked {
		return nil, schedule.ErrSlotNotAvailable
	}
	cur.Booked = true
	cur.PatientID = &patientID
	cur.Version++
	copied := *cur
	return &copied, nil
}

func (m *mockScheduleRepo) Search(_ context.Context, q *schedule.SearchQuery) ([]*schedule.SearchResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searchCalls++
	var out []*schedule.SearchResult
	for _, s := range m.slots {
		if s.Day.Before(q.StartDay) || s.Day.After(q.EndDay) {
			continue
		}
		// HH:MM strings compare correctly byte-wise
		if q.StartTime != nil && s.StartTime < *q.StartTime {
			continue
		}
		if q.EndTime != nil && s.StartTime > *q.EndTime {
			continue
		}
		d := m.doctors.doctors[s.DoctorID]
		if q.Specialisation != nil && (d == nil || d.Specialisation != *q.Specialisation) {
			continue
		}
		res := &schedule.SearchResult{
			DoctorID:  s.DoctorID,
			Day:       s.Day,
			StartTime: s.StartTime,
			Booked:    s.Booked,
		}
		if d != nil {
			res.DoctorLastName = d.LastName
			res.Specialisation = d.Specialisation
		}
		out = append(out, res)
	}
	return out, nil
}

// -- fake publisher --

type fakePublisher struct {
	mu     sync.Mutex
	events []event.BookingConfirmation
	err    error
}

func (f *fakePublisher) Publish(_ context.Context, ev event.BookingConfirmation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, ev)
	return nil
}

func (f *fakePublisher) published() []event.BookingConfirmation {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]event.BookingConfirmation, len(f.events))
	copy(out, f.events)
	return out
}
