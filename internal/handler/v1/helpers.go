package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medbook/booking-engine/internal/domain/doctor"
	"github.com/medbook/booking-engine/internal/domain/patient"
	"github.com/medbook/booking-engine/internal/domain/schedule"
	"github.com/medbook/booking-engine/internal/service"
)

type APIResponse[T any] struct {
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

type ValidationErrorResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields"`
}

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, APIResponse[any]{Data: data})
}

func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, APIResponse[any]{Data: data})
}

func respondServiceError(c *gin.Context, err error) {
	var validErr *service.ValidationError
	if errors.As(err, &validErr) {
		c.JSON(http.StatusBadRequest, ValidationErrorResponse{
			Error:  "validation failed",
			Fields: validErr.Fields,
		})
		return
	}

	switch {
	case errors.Is(err, schedule.ErrSlotNotFound),
		errors.Is(err, doctor.ErrDoctorNotFound),
		errors.Is(err, patient.ErrPatientNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})

	case errors.Is(err, schedule.ErrVersionMismatch):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error(), Code: "VERSION_MISMATCH"})

	case errors.Is(err, schedule.ErrSlotConflict),
		errors.Is(err, schedule.ErrSlotNotAvailable),
		errors.Is(err, doctor.ErrDoctorAlreadyExists),
		errors.Is(err, patient.ErrPatientAlreadyExists):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})

	case errors.Is(err, schedule.ErrInvalidScheduleTime),
		errors.Is(err, schedule.ErrInvalidSearchRange),
		errors.Is(err, schedule.ErrDoctorImmutable),
		errors.Is(err, doctor.ErrInvalidSpecialisation),
		errors.Is(err, patient.ErrInvalidConfirmationMethod):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})

	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}

func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request: " + err.Error()})
		return false
	}
	return true
}

func parseUUID(c *gin.Context, param string) (uuid.UUID, bool) {
	raw := c.Param(param)
	id, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + param + ": must be a valid UUID"})
		return uuid.Nil, false
	}
	return id, true
}

func parseDay(c *gin.Context, raw, field string) (time.Time, bool) {
	day, err := time.Parse(schedule.DayLayout, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + field + ": must be YYYY-MM-DD"})
		return time.Time{}, false
	}
	return day, true
}
