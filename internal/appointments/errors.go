package appointments

import "errors"

// ErrAppointmentNotFound is returned when an appointment does not exist.
var ErrAppointmentNotFound = errors.New("appointment not found")
