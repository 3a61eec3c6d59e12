package patient

import (
	"time"

	"github.com/google/uuid"
)

// ConfirmationMethod is the patient's preferred channel for booking
// confirmations, carried verbatim on the booking-confirmed event.
type ConfirmationMethod string

const (
	ConfirmByEmail ConfirmationMethod = "EMAIL"
	ConfirmBySMS   ConfirmationMethod = "SMS"
)

func (m ConfirmationMethod) IsValid() bool {
	switch m {
	case ConfirmByEmail, ConfirmBySMS:
		return true
	}
	return false
}

type Patient struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	FirstName   string    `gorm:"column:first_name;type:varchar(100);not null"`
	LastName    string    `gorm:"column:last_name;type:varchar(100);not null"`
	Email       string    `gorm:"column:email;type:varchar(255);uniqueIndex;not null"`
	PhoneNumber string    `gorm:"column:phone_number;type:varchar(20);not null"`
	BirthDate   time.Time `gorm:"column:birth_date;type:date;not null"`

	ConfirmationMethod ConfirmationMethod `gorm:"column:confirmation_method;type:varchar(10);not null"`
}

func (Patient) TableName() string {
	return "booking.patients"
}

type CreatePatientCommand struct {
	FirstName          string
	LastName           string
	Email              string
	PhoneNumber        string
	BirthDate          time.Time
	ConfirmationMethod ConfirmationMethod
}
