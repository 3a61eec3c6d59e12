package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medbook/booking-engine/internal/domain/doctor"
	"github.com/medbook/booking-engine/internal/domain/schedule"
	"github.com/medbook/booking-engine/internal/service"
	"github.com/medbook/booking-engine/pkg/metrics"
)

type ScheduleHandler struct {
	svc     *service.ScheduleService
	metrics *metrics.Collector
}

func NewScheduleHandler(svc *service.ScheduleService, m *metrics.Collector) *ScheduleHandler {
	return &ScheduleHandler{svc: svc, metrics: m}
}

type slotRequest struct {
	Day       string `json:"day" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
}

type createSlotsRequest struct {
	DoctorID uuid.UUID     `json:"doctor_id" binding:"required"`
	Slots    []slotRequest `json:"slots" binding:"required,min=1"`
}

type updateSlotRequest struct {
	Version   *int64     `json:"version" binding:"required"`
	Day       *string    `json:"day"`
	StartTime *string    `json:"start_time"`
	Booked    *bool      `json:"booked"`
	DoctorID  *uuid.UUID `json:"doctor_id"`
}

type searchRequest struct {
	StartDay       string  `json:"start_day" binding:"required"`
	EndDay         string  `json:"end_day" binding:"required"`
	StartTime      *string `json:"start_time"`
	EndTime        *string `json:"end_time"`
	Specialisation *string `json:"specialisation"`
}

type slotResponse struct {
	ID        uuid.UUID  `json:"id"`
	DoctorID  uuid.UUID  `json:"doctor_id"`
	PatientID *uuid.UUID `json:"patient_id,omitempty"`
	Day       string     `json:"day"`
	StartTime string     `json:"start_time"`
	Booked    bool       `json:"booked"`
	Version   int64      `json:"version"`
}

func toSlotResponse(s *schedule.Slot) slotResponse {
	return slotResponse{
		ID:        s.ID,
		DoctorID:  s.DoctorID,
		PatientID: s.PatientID,
		Day:       s.Day.Format(schedule.DayLayout),
		StartTime: s.StartTime,
		Booked:    s.Booked,
		Version:   s.Version,
	}
}

func (h *ScheduleHandler) CreateSlots(c *gin.Context) {
	var req createSlotsRequest
	if !bindJSON(c, &req) {
		return
	}

	cmd := &schedule.CreateSlotsCommand{DoctorID: req.DoctorID}
	for _, r := range req.Slots {
		day, ok := parseDay(c, r.Day, "day")
		if !ok {
			return
		}
		cmd.Requests = append(cmd.Requests, schedule.SlotRequest{Day: day, StartTime: r.StartTime})
	}

	slots, err := h.svc.CreateSlots(c.Request.Context(), cmd)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.metrics.SlotsCreatedTotal.Add(float64(len(slots)))

	out := make([]slotResponse, 0, len(slots))
	for _, s := range slots {
		out = append(out, toSlotResponse(s))
	}
	respondCreated(c, out)
}

func (h *ScheduleHandler) GetSlot(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	s, err := h.svc.GetSlot(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, toSlotResponse(s))
}

func (h *ScheduleHandler) UpdateSlot(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req updateSlotRequest
	if !bindJSON(c, &req) {
		return
	}

	cmd := &schedule.UpdateSlotCommand{
		ID:        id,
		Version:   *req.Version,
		StartTime: req.StartTime,
		Booked:    req.Booked,
		DoctorID:  req.DoctorID,
	}
	if req.Day != nil {
		day, ok := parseDay(c, *req.Day, "day")
		if !ok {
			return
		}
		cmd.Day = &day
	}

	s, err := h.svc.UpdateSlot(c.Request.Context(), cmd)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, toSlotResponse(s))
}

func (h *ScheduleHandler) DeleteSlot(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	version, err := strconv.ParseInt(c.Query("version"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid version: must be an integer"})
		return
	}

	if err := h.svc.DeleteSlot(c.Request.Context(), &schedule.DeleteSlotCommand{ID: id, Version: version}); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ScheduleHandler) Search(c *gin.Context) {
	var req searchRequest
	if !bindJSON(c, &req) {
		return
	}

	startDay, ok := parseDay(c, req.StartDay, "start_day")
	if !ok {
		return
	}
	endDay, ok := parseDay(c, req.EndDay, "end_day")
	if !ok {
		return
	}

	q := &schedule.SearchQuery{
		StartDay:  startDay,
		EndDay:    endDay,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	}
	if req.Specialisation != nil {
		spec := doctor.Specialisation(*req.Specialisation)
		q.Specialisation = &spec
	}

	results, err := h.svc.Search(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	type searchResponse struct {
		DoctorID       uuid.UUID `json:"doctor_id"`
		DoctorLastName string    `json:"doctor_last_name"`
		Specialisation string    `json:"specialisation"`
		Day            string    `json:"day"`
		StartTime      string    `json:"start_time"`
		Booked         bool      `json:"booked"`
	}
	out := make([]searchResponse, 0, len(results))
	for _, r := range results {
		out = append(out, searchResponse{
			DoctorID:       r.DoctorID,
			DoctorLastName: r.DoctorLastName,
			Specialisation: string(r.Specialisation),
			Day:            r.Day.Format(schedule.DayLayout),
			StartTime:      r.StartTime,
			Booked:         r.Booked,
		})
	}
	respondOK(c, out)
}

func (h *ScheduleHandler) FreeSlots(c *gin.Context) {
	doctorID, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	free, err := h.svc.FreeSlots(c.Request.Context(), doctorID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	type freeSlotResponse struct {
		SlotID    uuid.UUID `json:"slot_id"`
		Day       string    `json:"day"`
		StartTime string    `json:"start_time"`
	}
	out := make([]freeSlotResponse, 0, len(free))
	for _, f := range free {
		out = append(out, freeSlotResponse{
			SlotID:    f.SlotID,
			Day:       f.Day.Format(schedule.DayLayout),
			StartTime: f.StartTime,
		})
	}
	respondOK(c, out)
}
