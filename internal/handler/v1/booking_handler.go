package v1

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medbook/booking-engine/internal/domain/schedule"
	"github.com/medbook/booking-engine/internal/service"
	"github.com/medbook/booking-engine/pkg/metrics"
)

type BookingHandler struct {
	svc     *service.BookingService
	metrics *metrics.Collector
}

func NewBookingHandler(svc *service.BookingService, m *metrics.Collector) *BookingHandler {
	return &BookingHandler{svc: svc, metrics: m}
}

type createBookingRequest struct {
	PatientID uuid.UUID `json:"patient_id" binding:"required"`
	SlotID    uuid.UUID `json:"slot_id" binding:"required"`
}

func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req createBookingRequest
	if !bindJSON(c, &req) {
		return
	}

	s, err := h.svc.Book(c.Request.Context(), req.PatientID, req.SlotID)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrSlotNotAvailable):
			h.metrics.BookingsTotal.WithLabelValues("not_available").Inc()
		default:
			h.metrics.BookingsTotal.WithLabelValues("error").Inc()
		}
		respondServiceError(c, err)
		return
	}

	h.metrics.BookingsTotal.WithLabelValues("booked").Inc()
	respondCreated(c, toSlotResponse(s))
}
