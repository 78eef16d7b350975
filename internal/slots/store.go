package slots

import (
	"context"
	"sort"
	"sync"
)

// Store defines persistence for appointment slots.
//
// MarkBooked must be atomic: of two concurrent calls for the same slot,
// exactly one succeeds and the other observes ErrSlotConflict.
type Store interface {
	GetByID(ctx context.Context, id string) (*Slot, error)
	GetAvailableByClinic(ctx context.Context, clinicID string) ([]*Slot, error)
	MarkBooked(ctx context.Context, id string) error
	Release(ctx context.Context, id string) error
	Create(ctx context.Context, slot *Slot) error
	Delete(ctx context.Context, id string) error
}

// MemoryStore is an in-memory Store used in tests and dev mode.
type MemoryStore struct {
	mu    sync.Mutex
	slots map[string]*Slot
}

// NewMemoryStore creates an empty in-memory slot store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{slots: make(map[string]*Slot)}
}

// GetByID returns a copy of the slot.
func (s *MemoryStore) GetByID(ctx context.Context, id string) (*Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot, ok := s.slots[id]
	if !ok {
		return nil, ErrSlotNotFound
	}
	cp := *slot
	return &cp, nil
}

// GetAvailableByClinic lists unbooked slots for a clinic ordered by start time.
func (s *MemoryStore) GetAvailableByClinic(ctx context.Context, clinicID string) ([]*Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var available []*Slot
	for _, slot := range s.slots {
		if slot.ClinicID == clinicID && !slot.IsBooked {
			cp := *slot
			available = append(available, &cp)
		}
	}
	sort.Slice(available, func(i, j int) bool {
		return available[i].StartTime.Before(available[j].StartTime)
	})
	return available, nil
}

// MarkBooked flips the booked flag under the store lock; the check and the
// write happen atomically so concurrent bookings serialize to one winner.
func (s *MemoryStore) MarkBooked(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot, ok := s.slots[id]
	if !ok {
		return ErrSlotNotFound
	}
	if slot.IsBooked {
		return ErrSlotConflict
	}
	slot.IsBooked = true
	return nil
}

// Release flips the booked flag back to available.
func (s *MemoryStore) Release(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot, ok := s.slots[id]
	if !ok {
		return ErrSlotNotFound
	}
	slot.IsBooked = false
	return nil
}

// Create stores a new slot.
func (s *MemoryStore) Create(ctx context.Context, slot *Slot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *slot
	s.slots[slot.ID] = &cp
	return nil
}

// Delete removes a slot.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.slots[id]; !ok {
		return ErrSlotNotFound
	}
	delete(s.slots, id)
	return nil
}
