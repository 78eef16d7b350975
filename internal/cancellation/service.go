// Package cancellation implements the appointment cancellation workflow and
// its tiered refund policy.
package cancellation

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/brightcare/booking-platform/internal/appointments"
	"github.com/brightcare/booking-platform/internal/observability/metrics"
	"github.com/brightcare/booking-platform/internal/payments"
	"github.com/brightcare/booking-platform/internal/slots"
	"github.com/brightcare/booking-platform/pkg/logging"
)

var cancellationTracer = otel.Tracer("brightcare.internal.cancellation")

// Result is the outcome of a cancellation attempt. Callers branch on Success;
// failures are per-request and never propagate as errors.
type Result struct {
	Success           bool         `json:"success"`
	Message           string       `json:"message"`
	RefundAmountCents int64        `json:"refund_amount_cents,omitempty"`
	RefundStatus      RefundStatus `json:"refund_status,omitempty"`
}

// Notifier is told about completed cancellations; failures never fail the flow.
type Notifier interface {
	AppointmentCancelled(ctx context.Context, appt *appointments.Appointment, refund RefundStatus, refundCents int64)
}

// Engine computes refunds and releases slots on cancellation.
type Engine struct {
	apptStore appointments.Store
	slotStore slots.Store
	policies  *payments.PolicyEngine
	notifier  Notifier
	metrics   *metrics.BookingMetrics
	logger    *logging.Logger

	// now is swapped in tests to pin the refund tier clock.
	now func() time.Time
}

// NewEngine wires the cancellation workflow. Notifier and metrics may be nil.
func NewEngine(
	apptStore appointments.Store,
	slotStore slots.Store,
	policies *payments.PolicyEngine,
	notifier Notifier,
	bookingMetrics *metrics.BookingMetrics,
	logger *logging.Logger,
) *Engine {
	if apptStore == nil {
		panic("cancellation: appointment store required")
	}
	if slotStore == nil {
		panic("cancellation: slot store required")
	}
	if policies == nil {
		policies = payments.NewPolicyEngine(nil)
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Engine{
		apptStore: apptStore,
		slotStore: slotStore,
		policies:  policies,
		notifier:  notifier,
		metrics:   bookingMetrics,
		logger:    logger,
		now:       time.Now,
	}
}

// WithClock overrides the engine's wall clock; used by tests.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Cancel cancels the appointment owned by userID. It never returns an error:
// every failure, including unexpected store faults, comes back as a Result
// with Success=false so the caller's contract stays uniform.
func (e *Engine) Cancel(ctx context.Context, appointmentID, userID string) *Result {
	ctx, span := cancellationTracer.Start(ctx, "cancellation.cancel")
	defer span.End()
	span.SetAttributes(
		attribute.String("brightcare.appointment_id", appointmentID),
		attribute.String("brightcare.user_id", userID),
	)

	appt, err := e.apptStore.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, appointments.ErrAppointmentNotFound) {
			e.metrics.ObserveCancellation("not_found")
			return &Result{Success: false, Message: "Appointment not found."}
		}
		e.logger.Error("appointment lookup failed", "appointment_id", appointmentID, "error", err)
		e.metrics.ObserveCancellation("error")
		return &Result{Success: false, Message: "Unable to cancel the appointment right now. Please try again."}
	}

	// Ownership is checked before any mutation; the message stays generic so
	// callers cannot probe other users' appointments.
	if appt.UserID != userID {
		e.metrics.ObserveCancellation("permission_denied")
		return &Result{Success: false, Message: "You do not have permission to cancel this appointment."}
	}

	// CANCELLED is terminal; retries land here instead of issuing a second refund.
	if appt.Status == appointments.StatusCancelled {
		e.metrics.ObserveCancellation("already_cancelled")
		return &Result{Success: false, Message: "This appointment has already been cancelled."}
	}

	priceCents := e.policies.PriceCents(appt.AppointmentType)
	refundStatus, refundCents := RefundTier(e.now(), appt.AppointmentTime, priceCents)

	if err := e.apptStore.UpdateStatus(ctx, appointmentID, appointments.StatusCancelled); err != nil {
		e.logger.Error("cancellation status update failed", "appointment_id", appointmentID, "error", err)
		e.metrics.ObserveCancellation("error")
		return &Result{Success: false, Message: "Unable to cancel the appointment right now. Please try again."}
	}

	// The status write and the slot release stand or fall together: a
	// cancelled appointment must not leave its slot claimed. On a failed
	// release the status is rolled back so a retry runs the whole sequence
	// again instead of hitting the terminal-status guard above.
	if appt.SlotID != "" {
		if err := e.slotStore.Release(ctx, appt.SlotID); err != nil && !errors.Is(err, slots.ErrSlotNotFound) {
			e.logger.Error("slot release failed", "slot_id", appt.SlotID, "appointment_id", appointmentID, "error", err)
			if rbErr := e.apptStore.UpdateStatus(ctx, appointmentID, appt.Status); rbErr != nil {
				e.logger.Error("cancellation rollback failed",
					"appointment_id", appointmentID,
					"restore_status", appt.Status,
					"error", rbErr,
				)
			}
			e.metrics.ObserveCancellation("error")
			return &Result{Success: false, Message: "Unable to cancel the appointment right now. Please try again."}
		}
	}

	if refundCents > 0 {
		details := appointments.PaymentDetails{
			PaymentStatus: appointments.PaymentRefunded,
			AmountCents:   refundCents,
			TransactionID: appt.TransactionID,
		}
		if err := e.apptStore.UpdatePaymentDetails(ctx, appointmentID, details); err != nil {
			// Status is already terminal and the slot is free; the refund
			// record is retried by support tooling instead of failing the
			// cancellation.
			e.logger.Error("refund details update failed", "appointment_id", appointmentID, "error", err)
		}
	}

	e.logger.Info("appointment cancelled",
		"appointment_id", appointmentID,
		"user_id", userID,
		"refund_status", refundStatus,
		"refund_cents", refundCents,
	)
	e.metrics.ObserveCancellation(string(refundStatus))

	if e.notifier != nil {
		e.notifier.AppointmentCancelled(ctx, appt, refundStatus, refundCents)
	}

	return &Result{
		Success:           true,
		Message:           refundStatus.Message(),
		RefundAmountCents: refundCents,
		RefundStatus:      refundStatus,
	}
}
