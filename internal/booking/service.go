// Package booking implements the appointment booking workflow.
package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/brightcare/booking-platform/internal/appointments"
	"github.com/brightcare/booking-platform/internal/observability/metrics"
	"github.com/brightcare/booking-platform/internal/payments"
	"github.com/brightcare/booking-platform/internal/slots"
	"github.com/brightcare/booking-platform/pkg/logging"
)

var bookingTracer = otel.Tracer("brightcare.internal.booking")

// Request carries everything needed to book a slot.
type Request struct {
	UserID          string `json:"-"`
	SlotID          string `json:"slot_id"`
	AppointmentType string `json:"appointment_type"`
	Title           string `json:"title"`
	PaymentMethod   string `json:"payment_method"`
	Notes           string `json:"notes,omitempty"`
}

// Result is returned to the caller after a successful booking.
type Result struct {
	AppointmentID       string                     `json:"appointment_id"`
	PaymentMethod       string                     `json:"payment_method"`
	PaymentStatus       appointments.PaymentStatus `json:"payment_status"`
	AmountCents         int64                      `json:"amount_cents"`
	TransactionID       string                     `json:"transaction_id,omitempty"`
	Message             string                     `json:"message"`
	PaymentInstructions string                     `json:"payment_instructions"`
}

// Notifier is told about confirmed bookings; failures never fail the booking.
type Notifier interface {
	BookingConfirmed(ctx context.Context, appt *appointments.Appointment)
}

// Orchestrator runs the fail-closed booking sequence: slot gate, policy
// gate, payment gate, then persist + slot commit.
type Orchestrator struct {
	slotStore slots.Store
	apptStore appointments.Store
	policies  *payments.PolicyEngine
	processor payments.Processor
	notifier  Notifier
	metrics   *metrics.BookingMetrics
	logger    *logging.Logger
}

// NewOrchestrator wires the booking workflow. Notifier and metrics may be nil.
func NewOrchestrator(
	slotStore slots.Store,
	apptStore appointments.Store,
	policies *payments.PolicyEngine,
	processor payments.Processor,
	notifier Notifier,
	bookingMetrics *metrics.BookingMetrics,
	logger *logging.Logger,
) *Orchestrator {
	if slotStore == nil {
		panic("booking: slot store required")
	}
	if apptStore == nil {
		panic("booking: appointment store required")
	}
	if policies == nil {
		policies = payments.NewPolicyEngine(nil)
	}
	if processor == nil {
		panic("booking: payment processor required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Orchestrator{
		slotStore: slotStore,
		apptStore: apptStore,
		policies:  policies,
		processor: processor,
		notifier:  notifier,
		metrics:   bookingMetrics,
		logger:    logger,
	}
}

// Book reserves the slot and commits the appointment atomically from the
// caller's perspective. Payment is attempted before any state is written, so
// a declined payment leaves the slot free and no appointment behind.
func (o *Orchestrator) Book(ctx context.Context, req Request) (*Result, error) {
	ctx, span := bookingTracer.Start(ctx, "booking.book")
	defer span.End()
	span.SetAttributes(
		attribute.String("brightcare.user_id", req.UserID),
		attribute.String("brightcare.slot_id", req.SlotID),
		attribute.String("brightcare.appointment_type", req.AppointmentType),
	)
	started := time.Now()

	result, err := o.book(ctx, req)
	if err != nil {
		span.RecordError(err)
		o.metrics.ObserveBooking(errorLabel(err), time.Since(started).Seconds())
		return nil, err
	}
	o.metrics.ObserveBooking("success", time.Since(started).Seconds())
	return result, nil
}

func (o *Orchestrator) book(ctx context.Context, req Request) (*Result, error) {
	slot, err := o.slotStore.GetByID(ctx, req.SlotID)
	if err != nil {
		if errors.Is(err, slots.ErrSlotNotFound) {
			return nil, ErrSlotNotFound
		}
		o.logger.Error("slot lookup failed", "slot_id", req.SlotID, "error", err)
		return nil, fmt.Errorf("%w: slot lookup", ErrBookingFailed)
	}
	if slot.IsBooked {
		return nil, ErrSlotAlreadyBooked
	}

	// The canonical method constants are upper case; persist and echo the
	// canonical form regardless of the casing the caller sent.
	method := strings.ToUpper(strings.TrimSpace(req.PaymentMethod))
	if !o.policies.Validate(req.AppointmentType, method) {
		return nil, ErrPaymentMethodNotAllowed
	}

	amountCents := o.policies.PriceCents(req.AppointmentType)
	appointmentID := uuid.NewString()

	paymentStatus := appointments.PaymentPending
	transactionID := ""
	if o.policies.RequiresPrePayment(req.AppointmentType) {
		payment, err := o.processor.Process(ctx, appointmentID, amountCents)
		o.metrics.ObservePayment(payment != nil && payment.Success)
		if err != nil {
			o.logger.Error("payment processing failed", "appointment_id", appointmentID, "error", err)
			return nil, fmt.Errorf("%w: processor error", ErrPaymentFailed)
		}
		if !payment.Success {
			// Aborts before any state is written; the slot stays free.
			return nil, fmt.Errorf("%w: %s", ErrPaymentFailed, payment.Message)
		}
		paymentStatus = appointments.PaymentCompleted
		transactionID = payment.TransactionID
	}

	status := appointments.StatusPendingPayment
	if paymentStatus == appointments.PaymentCompleted {
		status = appointments.StatusConfirmed
	}

	appt := &appointments.Appointment{
		ID:              appointmentID,
		UserID:          req.UserID,
		Title:           req.Title,
		AppointmentTime: slot.StartTime,
		AppointmentType: req.AppointmentType,
		ClinicID:        slot.ClinicID,
		SlotID:          slot.ID,
		Status:          status,
		Notes:           req.Notes,
		PaymentMethod:   method,
		PaymentStatus:   paymentStatus,
		AmountCents:     amountCents,
		TransactionID:   transactionID,
		CreatedAt:       time.Now().UTC(),
	}
	if err := o.apptStore.Insert(ctx, appt); err != nil {
		// Two racing bookings can both read the slot as free; the partial
		// unique index on appointments(slot_id) rejects the second insert.
		if isActiveSlotViolation(err) {
			return nil, ErrSlotAlreadyBooked
		}
		o.logger.Error("appointment insert failed", "appointment_id", appointmentID, "error", err)
		return nil, fmt.Errorf("%w: appointment insert", ErrBookingFailed)
	}

	// Commit point. The store's conditional update serializes concurrent
	// bookings for the same slot; the loser compensates by removing the
	// appointment it just wrote.
	// TODO: void the captured pre-payment here once the processor exposes
	// a refund call; today the simulated processor has nothing to void.
	if err := o.slotStore.MarkBooked(ctx, slot.ID); err != nil {
		if delErr := o.apptStore.Delete(ctx, appointmentID); delErr != nil {
			o.logger.Error("compensation delete failed",
				"appointment_id", appointmentID,
				"slot_id", slot.ID,
				"error", delErr,
			)
		}
		if errors.Is(err, slots.ErrSlotConflict) {
			return nil, ErrSlotAlreadyBooked
		}
		if errors.Is(err, slots.ErrSlotNotFound) {
			return nil, ErrSlotNotFound
		}
		o.logger.Error("slot commit failed", "slot_id", slot.ID, "error", err)
		return nil, fmt.Errorf("%w: slot commit", ErrBookingFailed)
	}

	o.logger.Info("appointment booked",
		"appointment_id", appointmentID,
		"user_id", req.UserID,
		"slot_id", slot.ID,
		"appointment_type", req.AppointmentType,
		"payment_status", paymentStatus,
		"amount_cents", amountCents,
	)

	if o.notifier != nil {
		o.notifier.BookingConfirmed(ctx, appt)
	}

	return &Result{
		AppointmentID:       appointmentID,
		PaymentMethod:       method,
		PaymentStatus:       paymentStatus,
		AmountCents:         amountCents,
		TransactionID:       transactionID,
		Message:             confirmationMessage(appt),
		PaymentInstructions: o.policies.Instructions(method, req.AppointmentType),
	}, nil
}

// isActiveSlotViolation reports whether err is the unique-violation raised
// when a second active appointment targets an already-claimed slot.
func isActiveSlotViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) &&
		pgErr.Code == "23505" &&
		pgErr.ConstraintName == "idx_appointments_active_slot"
}

func confirmationMessage(appt *appointments.Appointment) string {
	when := appt.AppointmentTime.Format("Monday, January 2 at 3:04 PM")
	if appt.Status == appointments.StatusConfirmed {
		return fmt.Sprintf("Your %s is confirmed for %s.", appt.AppointmentType, when)
	}
	return fmt.Sprintf("Your %s is reserved for %s pending payment.", appt.AppointmentType, when)
}

func errorLabel(err error) string {
	switch {
	case errors.Is(err, ErrSlotNotFound):
		return "slot_not_found"
	case errors.Is(err, ErrSlotAlreadyBooked):
		return "slot_already_booked"
	case errors.Is(err, ErrPaymentMethodNotAllowed):
		return "payment_method_not_allowed"
	case errors.Is(err, ErrPaymentFailed):
		return "payment_failed"
	default:
		return "error"
	}
}
