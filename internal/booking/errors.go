package booking

import "errors"

// Error kinds surfaced to callers; each booking failure maps to exactly one.
var (
	// ErrSlotNotFound is returned when the requested slot does not exist.
	ErrSlotNotFound = errors.New("slot not found")

	// ErrSlotAlreadyBooked is returned when the slot is taken, including when
	// a concurrent booking wins the race.
	ErrSlotAlreadyBooked = errors.New("slot already booked")

	// ErrPaymentMethodNotAllowed is returned when the method is not in the
	// appointment type's allowed set.
	ErrPaymentMethodNotAllowed = errors.New("payment method not allowed for this appointment type")

	// ErrPaymentFailed is returned when pre-payment is declined; no booking
	// state is left behind.
	ErrPaymentFailed = errors.New("payment failed")

	// ErrBookingFailed covers store I/O failures at the operation boundary.
	ErrBookingFailed = errors.New("booking failed")
)
