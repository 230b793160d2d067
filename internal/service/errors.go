package service

import "errors"

// Failure kinds returned by ReservationService. Each is wrapped with a
// detailed message, so match them with errors.Is. Any other error is an
// infrastructure failure from the store.
var (
	ErrNotFound        = errors.New("reservation not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrInvalidState    = errors.New("invalid reservation state")
	ErrConflict        = errors.New("reservation conflict")
)
