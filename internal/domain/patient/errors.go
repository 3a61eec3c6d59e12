package patient

import "errors"

var (
	ErrPatientNotFound           = errors.New("patient not found")
	ErrPatientAlreadyExists      = errors.New("patient with this email already exists")
	ErrInvalidConfirmationMethod = errors.New("invalid confirmation method")
)
