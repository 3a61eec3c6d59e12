package doctor

import (
	"time"

	"github.com/google/uuid"
)

type Specialisation string

const (
	SpecSurgeon      Specialisation = "SURGEON"
	SpecOrthopaedist Specialisation = "ORTHOPAEDIST"
	SpecCardiologist Specialisation = "CARDIOLOGIST"
	SpecPsychiatrist Specialisation = "PSYCHIATRIST"
)

func (s Specialisation) IsValid() bool {
	switch s {
	case SpecSurgeon, SpecOrthopaedist, SpecCardiologist, SpecPsychiatrist:
		return true
	}
	return false
}

// Doctor owns schedule slots. The booking core reads it only to resolve
// identity, last name, and the specialisation search filter.
type Doctor struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	FirstName   string    `gorm:"column:first_name;type:varchar(100);not null"`
	LastName    string    `gorm:"column:last_name;type:varchar(100);not null"`
	Email       string    `gorm:"column:email;type:varchar(255);uniqueIndex;not null"`
	PhoneNumber string    `gorm:"column:phone_number;type:varchar(20);not null"`
	BirthDate   time.Time `gorm:"column:birth_date;type:date;not null"`

	Specialisation Specialisation `gorm:"column:specialisation;type:varchar(30);not null;index"`
}

func (Doctor) TableName() string {
	return "booking.doctors"
}

type CreateDoctorCommand struct {
	FirstName      string
	LastName       string
	Email          string
	PhoneNumber    string
	BirthDate      time.Time
	Specialisation Specialisation
}
