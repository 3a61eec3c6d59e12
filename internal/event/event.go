package event

import "context"

// BookingConfirmation is published after a successful booking and consumed by
// the external notification subsystem. Field names are part of the contract
// with that consumer.
type BookingConfirmation struct {
	PatientEmail       string `json:"patientEmail"`
	ScheduleDay        string `json:"scheduleDay"`
	ScheduleHour       string `json:"scheduleHour"`
	DoctorName         string `json:"doctorName"`
	ConfirmationMethod string `json:"confirmationMethod"`
	PhoneNumber        string `json:"phoneNumber"`
}

// Publisher hands a booking confirmation to the messaging boundary.
// Delivery is best-effort at-least-once; publish failures must not roll back
// the booking that produced the event.
type Publisher interface {
	Publish(ctx context.Context, ev BookingConfirmation) error
}
