package notify

import (
	"context"
	"fmt"

	"github.com/brightcare/booking-platform/internal/appointments"
	"github.com/brightcare/booking-platform/internal/cancellation"
	"github.com/brightcare/booking-platform/pkg/logging"
)

// Service sends booking lifecycle notifications to the clinic operations
// inbox. Sends are best-effort: a failed email never fails the booking or
// cancellation that triggered it.
type Service struct {
	email      EmailSender
	recipients []string
	logger     *logging.Logger
}

// NewService creates a notification service. A nil sender or empty recipient
// list disables sending.
func NewService(email EmailSender, recipients []string, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{email: email, recipients: recipients, logger: logger}
}

// BookingConfirmed notifies operators about a new booking.
func (s *Service) BookingConfirmed(ctx context.Context, appt *appointments.Appointment) {
	if s == nil || s.email == nil || len(s.recipients) == 0 {
		return
	}

	subject := fmt.Sprintf("New booking: %s on %s", appt.AppointmentType, appt.AppointmentTime.Format("Jan 2"))
	body := fmt.Sprintf(`A new appointment has been booked.

Appointment: %s
When: %s
Clinic: %s
Status: %s
Payment: %s ($%.2f, %s)
`,
		appt.Title,
		appt.AppointmentTime.Format("Monday, January 2 at 3:04 PM"),
		appt.ClinicID,
		appt.Status,
		appt.PaymentMethod,
		float64(appt.AmountCents)/100,
		appt.PaymentStatus,
	)

	s.sendToAll(ctx, subject, body)
}

// AppointmentCancelled notifies operators about a cancellation and its refund tier.
func (s *Service) AppointmentCancelled(ctx context.Context, appt *appointments.Appointment, refund cancellation.RefundStatus, refundCents int64) {
	if s == nil || s.email == nil || len(s.recipients) == 0 {
		return
	}

	subject := fmt.Sprintf("Cancellation: %s on %s", appt.AppointmentType, appt.AppointmentTime.Format("Jan 2"))
	body := fmt.Sprintf(`An appointment has been cancelled.

Appointment: %s
When: %s
Clinic: %s
Refund: %s ($%.2f)

The slot has been released and is bookable again.
`,
		appt.Title,
		appt.AppointmentTime.Format("Monday, January 2 at 3:04 PM"),
		appt.ClinicID,
		refund,
		float64(refundCents)/100,
	)

	s.sendToAll(ctx, subject, body)
}

func (s *Service) sendToAll(ctx context.Context, subject, body string) {
	for _, recipient := range s.recipients {
		msg := EmailMessage{To: recipient, Subject: subject, Body: body}
		if err := s.email.Send(ctx, msg); err != nil {
			s.logger.Error("notification send failed", "to", recipient, "error", err)
		}
	}
}
