// Package slots owns the bookable time slot model and its stores.
package slots

import "time"

// Slot is a clinic-owned, time-bounded bookable unit.
type Slot struct {
	ID        string    `json:"id"`
	ClinicID  string    `json:"clinic_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	IsBooked  bool      `json:"is_booked"`
}
