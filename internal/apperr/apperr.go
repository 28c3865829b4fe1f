// Package apperr defines the error kinds shared by every domain package.
// Domain errors wrap one of these sentinels so transport code can map them
// without knowing about each domain.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrValidation     = errors.New("validation failed")
	ErrAuthorization  = errors.New("not authorized")
	ErrNotFound       = errors.New("not found")
	ErrAuthentication = errors.New("authentication failed")

	// ErrUnavailable marks a transient dependency failure the caller should
	// retry, such as a gateway timeout or a contended lock.
	ErrUnavailable = errors.New("temporarily unavailable")
)

// Validation returns an error wrapping ErrValidation with a formatted detail.
func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Authorization returns an error wrapping ErrAuthorization with a formatted detail.
func Authorization(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrAuthorization, fmt.Sprintf(format, args...))
}

// IsDomain reports whether err belongs to the taxonomy above. Anything else
// is treated as an infrastructure failure.
func IsDomain(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrAuthorization) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrAuthentication)
}
