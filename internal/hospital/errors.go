package hospital

import (
	"errors"

	"github.com/lib/pq"
)

var (
	ErrInvalidRole            = errors.New("invalid role")
	ErrUserNotFound           = errors.New("user not found")
	ErrDoctorNotFound         = errors.New("doctor not found")
	ErrPatientNotFound        = errors.New("patient not found")
	ErrAppointmentNotFound    = errors.New("appointment not found")
	ErrSpecializationNotFound = errors.New("specialization not found")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrEmailTaken             = errors.New("email already registered")
	ErrProfileMissing         = errors.New("profile details are required for this role")
	ErrProfileRoleMismatch    = errors.New("user role does not match profile type")
	ErrDuplicateUserID        = errors.New("user id already in use")
)

// uniqueViolation is the Postgres SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// IsUniqueViolation reports whether err came from a unique-key conflict in the
// durable store.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolation
	}
	return false
}
