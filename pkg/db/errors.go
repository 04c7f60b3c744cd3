package db

import "errors"

// Store errors. Accessor implementations wrap every failure in one of these so
// callers can classify with errors.Is without knowing the driver.
var (
	ErrNotFound        = errors.New("record not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrUnavailable     = errors.New("store unavailable")
	ErrTimeout         = errors.New("store timeout")
	ErrInternal        = errors.New("store internal error")
)

// IsStoreError reports whether err already carries one of the store sentinels.
func IsStoreError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrInvalidArgument) ||
		errors.Is(err, ErrUnavailable) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrInternal)
}
