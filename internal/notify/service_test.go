package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/brightcare/booking-platform/internal/appointments"
	"github.com/brightcare/booking-platform/internal/cancellation"
)

type recordingSender struct {
	sent []EmailMessage
	err  error
}

func (r *recordingSender) Send(ctx context.Context, msg EmailMessage) error {
	r.sent = append(r.sent, msg)
	return r.err
}

func sampleAppointment() *appointments.Appointment {
	return &appointments.Appointment{
		ID:              "appt-1",
		UserID:          "user-1",
		Title:           "Consultation",
		AppointmentTime: time.Date(2026, time.April, 3, 14, 0, 0, 0, time.UTC),
		AppointmentType: "consultation",
		ClinicID:        "clinic-1",
		Status:          appointments.StatusConfirmed,
		PaymentMethod:   "ONLINE",
		PaymentStatus:   appointments.PaymentCompleted,
		AmountCents:     10000,
	}
}

func TestBookingConfirmedSendsToAllRecipients(t *testing.T) {
	sender := &recordingSender{}
	svc := NewService(sender, []string{"ops@clinic.test", "front-desk@clinic.test"}, nil)

	svc.BookingConfirmed(context.Background(), sampleAppointment())

	if len(sender.sent) != 2 {
		t.Fatalf("expected 2 emails, got %d", len(sender.sent))
	}
	if !strings.Contains(sender.sent[0].Body, "$100.00") {
		t.Fatalf("body missing amount: %q", sender.sent[0].Body)
	}
}

func TestAppointmentCancelledIncludesRefundTier(t *testing.T) {
	sender := &recordingSender{}
	svc := NewService(sender, []string{"ops@clinic.test"}, nil)

	svc.AppointmentCancelled(context.Background(), sampleAppointment(), cancellation.PartialRefund, 5000)

	if len(sender.sent) != 1 {
		t.Fatalf("expected 1 email, got %d", len(sender.sent))
	}
	if !strings.Contains(sender.sent[0].Body, "PARTIAL_REFUND") {
		t.Fatalf("body missing refund tier: %q", sender.sent[0].Body)
	}
}

func TestSendFailureIsSwallowed(t *testing.T) {
	sender := &recordingSender{err: errors.New("smtp down")}
	svc := NewService(sender, []string{"ops@clinic.test"}, nil)

	// Must not panic or propagate.
	svc.BookingConfirmed(context.Background(), sampleAppointment())
}

func TestDisabledServiceIsNoop(t *testing.T) {
	svc := NewService(nil, nil, nil)
	svc.BookingConfirmed(context.Background(), sampleAppointment())
	svc.AppointmentCancelled(context.Background(), sampleAppointment(), cancellation.NoRefund, 0)
}
