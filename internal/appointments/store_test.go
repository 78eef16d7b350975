package appointments

import (
	"context"
	"errors"
	"testing"
	"time"
)

func seedAppointment(t *testing.T, store *MemoryStore, id, userID string, status Status) *Appointment {
	t.Helper()
	appt := &Appointment{
		ID:              id,
		UserID:          userID,
		Title:           "Annual checkup",
		AppointmentTime: time.Now().Add(72 * time.Hour).UTC(),
		AppointmentType: "checkup",
		ClinicID:        "clinic-1",
		SlotID:          "slot-1",
		Status:          status,
		PaymentStatus:   PaymentPending,
		AmountCents:     7500,
		CreatedAt:       time.Now().UTC(),
	}
	if err := store.Insert(context.Background(), appt); err != nil {
		t.Fatalf("Insert returned error: %v", err)
	}
	return appt
}

func TestMemoryStoreGetByIDNotFound(t *testing.T) {
	store := NewMemoryStore()
	if _, err := store.GetByID(context.Background(), "missing"); !errors.Is(err, ErrAppointmentNotFound) {
		t.Fatalf("expected ErrAppointmentNotFound, got %v", err)
	}
}

func TestMemoryStoreUpdateStatus(t *testing.T) {
	store := NewMemoryStore()
	seedAppointment(t, store, "appt-1", "user-1", StatusConfirmed)

	if err := store.UpdateStatus(context.Background(), "appt-1", StatusCancelled); err != nil {
		t.Fatalf("UpdateStatus returned error: %v", err)
	}
	appt, err := store.GetByID(context.Background(), "appt-1")
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if appt.Status != StatusCancelled {
		t.Fatalf("expected CANCELLED, got %s", appt.Status)
	}
}

func TestMemoryStoreUpdatePaymentDetails(t *testing.T) {
	store := NewMemoryStore()
	seedAppointment(t, store, "appt-1", "user-1", StatusConfirmed)

	details := PaymentDetails{
		PaymentStatus: PaymentRefunded,
		AmountCents:   3750,
		TransactionID: "txn-abc",
	}
	if err := store.UpdatePaymentDetails(context.Background(), "appt-1", details); err != nil {
		t.Fatalf("UpdatePaymentDetails returned error: %v", err)
	}

	appt, err := store.GetByID(context.Background(), "appt-1")
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if appt.PaymentStatus != PaymentRefunded || appt.AmountCents != 3750 || appt.TransactionID != "txn-abc" {
		t.Fatalf("payment details not applied: %+v", appt)
	}
}

func TestMemoryStoreGetByPaymentStatus(t *testing.T) {
	store := NewMemoryStore()
	seedAppointment(t, store, "appt-1", "user-1", StatusConfirmed)
	second := seedAppointment(t, store, "appt-2", "user-2", StatusConfirmed)
	if err := store.UpdatePaymentDetails(context.Background(), second.ID, PaymentDetails{
		PaymentStatus: PaymentCompleted,
		AmountCents:   second.AmountCents,
	}); err != nil {
		t.Fatalf("UpdatePaymentDetails returned error: %v", err)
	}

	pending, err := store.GetByPaymentStatus(context.Background(), PaymentPending)
	if err != nil {
		t.Fatalf("GetByPaymentStatus returned error: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != "appt-1" {
		t.Fatalf("expected only appt-1 pending, got %+v", pending)
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	store := NewMemoryStore()
	seedAppointment(t, store, "appt-1", "user-1", StatusConfirmed)

	if err := store.Delete(context.Background(), "appt-1"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := store.GetByID(context.Background(), "appt-1"); !errors.Is(err, ErrAppointmentNotFound) {
		t.Fatalf("expected ErrAppointmentNotFound after delete, got %v", err)
	}
	if err := store.Delete(context.Background(), "appt-1"); !errors.Is(err, ErrAppointmentNotFound) {
		t.Fatalf("expected ErrAppointmentNotFound on double delete, got %v", err)
	}
}
