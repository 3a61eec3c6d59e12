package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medbook/booking-engine/internal/domain/doctor"
	"github.com/medbook/booking-engine/internal/domain/patient"
	"github.com/medbook/booking-engine/internal/service"
)

// IdentityHandler covers the plumbing CRUD for doctors and patients.
type IdentityHandler struct {
	doctors  *service.DoctorService
	patients *service.PatientService
}

func NewIdentityHandler(doctors *service.DoctorService, patients *service.PatientService) *IdentityHandler {
	return &IdentityHandler{doctors: doctors, patients: patients}
}

type createDoctorRequest struct {
	FirstName      string `json:"first_name" binding:"required"`
	LastName       string `json:"last_name" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	PhoneNumber    string `json:"phone_number" binding:"required"`
	BirthDate      string `json:"birth_date" binding:"required"`
	Specialisation string `json:"specialisation" binding:"required"`
}

type doctorResponse struct {
	ID             uuid.UUID `json:"id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Email          string    `json:"email"`
	PhoneNumber    string    `json:"phone_number"`
	Specialisation string    `json:"specialisation"`
}

func toDoctorResponse(d *doctor.Doctor) doctorResponse {
	return doctorResponse{
		ID:             d.ID,
		FirstName:      d.FirstName,
		LastName:       d.LastName,
		Email:          d.Email,
		PhoneNumber:    d.PhoneNumber,
		Specialisation: string(d.Specialisation),
	}
}

func (h *IdentityHandler) CreateDoctor(c *gin.Context) {
	var req createDoctorRequest
	if !bindJSON(c, &req) {
		return
	}
	birthDate, ok := parseDay(c, req.BirthDate, "birth_date")
	if !ok {
		return
	}

	d, err := h.doctors.Register(c.Request.Context(), &doctor.CreateDoctorCommand{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		PhoneNumber:    req.PhoneNumber,
		BirthDate:      birthDate,
		Specialisation: doctor.Specialisation(req.Specialisation),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, toDoctorResponse(d))
}

func (h *IdentityHandler) GetDoctor(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	d, err := h.doctors.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, toDoctorResponse(d))
}

func (h *IdentityHandler) ListDoctors(c *gin.Context) {
	doctors, err := h.doctors.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	out := make([]doctorResponse, 0, len(doctors))
	for _, d := range doctors {
		out = append(out, toDoctorResponse(d))
	}
	respondOK(c, out)
}

type createPatientRequest struct {
	FirstName          string `json:"first_name" binding:"required"`
	LastName           string `json:"last_name" binding:"required"`
	Email              string `json:"email" binding:"required,email"`
	PhoneNumber        string `json:"phone_number" binding:"required"`
	BirthDate          string `json:"birth_date" binding:"required"`
	ConfirmationMethod string `json:"confirmation_method" binding:"required"`
}

type patientResponse struct {
	ID                 uuid.UUID `json:"id"`
	FirstName          string    `json:"first_name"`
	LastName           string    `json:"last_name"`
	Email              string    `json:"email"`
	PhoneNumber        string    `json:"phone_number"`
	ConfirmationMethod string    `json:"confirmation_method"`
}

func toPatientResponse(p *patient.Patient) patientResponse {
	return patientResponse{
		ID:                 p.ID,
		FirstName:          p.FirstName,
		LastName:           p.LastName,
		Email:              p.Email,
		PhoneNumber:        p.PhoneNumber,
		ConfirmationMethod: string(p.ConfirmationMethod),
	}
}

func (h *IdentityHandler) CreatePatient(c *gin.Context) {
	var req createPatientRequest
	if !bindJSON(c, &req) {
		return
	}
	birthDate, ok := parseDay(c, req.BirthDate, "birth_date")
	if !ok {
		return
	}

	p, err := h.patients.Register(c.Request.Context(), &patient.CreatePatientCommand{
		FirstName:          req.FirstName,
		LastName:           req.LastName,
		Email:              req.Email,
		PhoneNumber:        req.PhoneNumber,
		BirthDate:          birthDate,
		ConfirmationMethod: patient.ConfirmationMethod(req.ConfirmationMethod),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, toPatientResponse(p))
}

func (h *IdentityHandler) GetPatient(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}
	p, err := h.patients.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, toPatientResponse(p))
}

func (h *IdentityHandler) ListPatients(c *gin.Context) {
	patients, err := h.patients.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	out := make([]patientResponse, 0, len(patients))
	for _, p := range patients {
		out = append(out, toPatientResponse(p))
	}
	respondOK(c, out)
}
