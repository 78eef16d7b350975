package slots

import "errors"

var (
	// ErrSlotNotFound is returned when a slot does not exist.
	ErrSlotNotFound = errors.New("slot not found")

	// ErrSlotConflict is returned when MarkBooked loses to a concurrent booking.
	ErrSlotConflict = errors.New("slot already booked")
)
