// Package appointments owns the appointment model and its stores.
package appointments

import "time"

// Status is the lifecycle state of an appointment.
type Status string

const (
	StatusPending        Status = "PENDING"
	StatusConfirmed      Status = "CONFIRMED"
	StatusPendingPayment Status = "PENDING_PAYMENT"
	// StatusCancelled is terminal; no further mutation is permitted.
	StatusCancelled Status = "CANCELLED"
)

// PaymentStatus tracks the payment lifecycle independently of the
// appointment status.
type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "PENDING"
	PaymentProcessing PaymentStatus = "PROCESSING"
	PaymentCompleted  PaymentStatus = "COMPLETED"
	PaymentFailed     PaymentStatus = "FAILED"
	PaymentRefunded   PaymentStatus = "REFUNDED"
	PaymentWaived     PaymentStatus = "WAIVED"
)

// Appointment represents a scheduled clinical appointment.
type Appointment struct {
	ID              string        `json:"id"`
	UserID          string        `json:"user_id"`
	Title           string        `json:"title"`
	AppointmentTime time.Time     `json:"appointment_time"`
	AppointmentType string        `json:"appointment_type"`
	ClinicID        string        `json:"clinic_id,omitempty"`
	SlotID          string        `json:"slot_id,omitempty"`
	Status          Status        `json:"status"`
	Notes           string        `json:"notes,omitempty"`
	PaymentMethod   string        `json:"payment_method,omitempty"`
	PaymentStatus   PaymentStatus `json:"payment_status"`
	AmountCents     int64         `json:"amount_cents"`
	TransactionID   string        `json:"transaction_id,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
}

// PaymentDetails is the mutable payment slice of an appointment.
type PaymentDetails struct {
	PaymentStatus PaymentStatus
	AmountCents   int64
	TransactionID string
}
