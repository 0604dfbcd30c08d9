package jobboard

import (
	"errors"
	"fmt"

	"CampusHire-backend/internal/model"
)

// Failure kinds returned by Service. Callers match them with errors.Is.
var (
	ErrNotAuthorized        = model.ErrNotAuthorized
	ErrNotFound             = errors.New("not found")
	ErrDuplicateApplication = errors.New("student has already applied to this job")
	ErrValidationFailed     = errors.New("validation failed")
	ErrOwnershipViolation   = errors.New("resource belongs to another college")

	// ErrJobExpired is a ValidationFailed raised when applying after the deadline
	ErrJobExpired = fmt.Errorf("%w: job deadline has passed", ErrValidationFailed)
)

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidationFailed, fmt.Sprintf(format, args...))
}

func notFound(what string, id uint) error {
	return fmt.Errorf("%w: %s %d", ErrNotFound, what, id)
}
