package appointments

import (
	"context"
	"sync"
)

// Store defines persistence for appointments.
type Store interface {
	Insert(ctx context.Context, appt *Appointment) error
	GetByID(ctx context.Context, id string) (*Appointment, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
	UpdatePaymentDetails(ctx context.Context, id string, details PaymentDetails) error
	GetByPaymentStatus(ctx context.Context, status PaymentStatus) ([]*Appointment, error)
	Delete(ctx context.Context, id string) error
}

// MemoryStore is an in-memory Store used in tests and dev mode.
type MemoryStore struct {
	mu           sync.Mutex
	appointments map[string]*Appointment
}

// NewMemoryStore creates an empty in-memory appointment store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{appointments: make(map[string]*Appointment)}
}

// Insert stores a new appointment.
func (s *MemoryStore) Insert(ctx context.Context, appt *Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *appt
	s.appointments[appt.ID] = &cp
	return nil
}

// GetByID returns a copy of the appointment.
func (s *MemoryStore) GetByID(ctx context.Context, id string) (*Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	appt, ok := s.appointments[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	cp := *appt
	return &cp, nil
}

// UpdateStatus sets the appointment lifecycle status.
func (s *MemoryStore) UpdateStatus(ctx context.Context, id string, status Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	appt, ok := s.appointments[id]
	if !ok {
		return ErrAppointmentNotFound
	}
	appt.Status = status
	return nil
}

// UpdatePaymentDetails sets the payment slice of the appointment.
func (s *MemoryStore) UpdatePaymentDetails(ctx context.Context, id string, details PaymentDetails) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	appt, ok := s.appointments[id]
	if !ok {
		return ErrAppointmentNotFound
	}
	appt.PaymentStatus = details.PaymentStatus
	appt.AmountCents = details.AmountCents
	appt.TransactionID = details.TransactionID
	return nil
}

// GetByPaymentStatus lists appointments in a given payment state.
func (s *MemoryStore) GetByPaymentStatus(ctx context.Context, status PaymentStatus) ([]*Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []*Appointment
	for _, appt := range s.appointments {
		if appt.PaymentStatus == status {
			cp := *appt
			matched = append(matched, &cp)
		}
	}
	return matched, nil
}

// Delete removes an appointment.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.appointments[id]; !ok {
		return ErrAppointmentNotFound
	}
	delete(s.appointments, id)
	return nil
}
