package cancellation

import "time"

// RefundStatus is the tier selected by the time remaining until the appointment.
type RefundStatus string

const (
	FullRefund       RefundStatus = "FULL_REFUND"
	PartialRefund    RefundStatus = "PARTIAL_REFUND"
	NoRefund         RefundStatus = "NO_REFUND"
	LateCancellation RefundStatus = "LATE_CANCELLATION"
)

const (
	fullRefundWindow    = 24 * time.Hour
	partialRefundWindow = 2 * time.Hour
)

// RefundTier selects the refund tier and amount for a cancellation happening
// at `now` against an appointment at `appointmentTime`. Prices are the
// policy-table price for the type, not the amount originally charged.
func RefundTier(now, appointmentTime time.Time, priceCents int64) (RefundStatus, int64) {
	until := appointmentTime.Sub(now)
	switch {
	case until >= fullRefundWindow:
		return FullRefund, priceCents
	case until >= partialRefundWindow:
		return PartialRefund, priceCents / 2
	case until >= 0:
		return NoRefund, 0
	default:
		return LateCancellation, 0
	}
}

// Message renders the tier-specific guidance shown to the patient.
func (s RefundStatus) Message() string {
	switch s {
	case FullRefund:
		return "Your appointment has been cancelled. A full refund will be issued."
	case PartialRefund:
		return "Your appointment has been cancelled. A 50% refund will be issued for cancellations within 24 hours."
	case NoRefund:
		return "Your appointment has been cancelled. No refund is available for cancellations within 2 hours."
	case LateCancellation:
		return "Your appointment has been cancelled. The appointment time has already passed, so no refund is available."
	default:
		return "Your appointment has been cancelled."
	}
}
