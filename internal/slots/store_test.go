package slots

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func seedSlot(t *testing.T, store *MemoryStore, id, clinicID string, booked bool) *Slot {
	t.Helper()
	slot := &Slot{
		ID:        id,
		ClinicID:  clinicID,
		StartTime: time.Now().Add(48 * time.Hour).UTC(),
		EndTime:   time.Now().Add(48*time.Hour + 30*time.Minute).UTC(),
		IsBooked:  booked,
	}
	if err := store.Create(context.Background(), slot); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	return slot
}

func TestMemoryStoreGetByIDNotFound(t *testing.T) {
	store := NewMemoryStore()
	if _, err := store.GetByID(context.Background(), "missing"); !errors.Is(err, ErrSlotNotFound) {
		t.Fatalf("expected ErrSlotNotFound, got %v", err)
	}
}

func TestMemoryStoreMarkBookedConflict(t *testing.T) {
	store := NewMemoryStore()
	seedSlot(t, store, "slot-1", "clinic-1", false)

	if err := store.MarkBooked(context.Background(), "slot-1"); err != nil {
		t.Fatalf("first MarkBooked returned error: %v", err)
	}
	if err := store.MarkBooked(context.Background(), "slot-1"); !errors.Is(err, ErrSlotConflict) {
		t.Fatalf("expected ErrSlotConflict, got %v", err)
	}

	slot, err := store.GetByID(context.Background(), "slot-1")
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if !slot.IsBooked {
		t.Fatalf("expected slot to remain booked")
	}
}

func TestMemoryStoreMarkBookedSingleWinner(t *testing.T) {
	store := NewMemoryStore()
	seedSlot(t, store, "slot-1", "clinic-1", false)

	const attempts = 32
	var wg sync.WaitGroup
	wins := make(chan struct{}, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := store.MarkBooked(context.Background(), "slot-1"); err == nil {
				wins <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(wins)

	var count int
	for range wins {
		count++
	}
	if count != 1 {
		t.Fatalf("expected exactly one winner, got %d", count)
	}
}

func TestMemoryStoreReleaseFreesSlot(t *testing.T) {
	store := NewMemoryStore()
	seedSlot(t, store, "slot-1", "clinic-1", true)

	if err := store.Release(context.Background(), "slot-1"); err != nil {
		t.Fatalf("Release returned error: %v", err)
	}
	slot, err := store.GetByID(context.Background(), "slot-1")
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if slot.IsBooked {
		t.Fatalf("expected slot to be released")
	}
	if err := store.MarkBooked(context.Background(), "slot-1"); err != nil {
		t.Fatalf("expected released slot to be bookable again, got %v", err)
	}
}

func TestMemoryStoreGetAvailableByClinic(t *testing.T) {
	store := NewMemoryStore()
	later := seedSlot(t, store, "slot-2", "clinic-1", false)
	later.StartTime = later.StartTime.Add(2 * time.Hour)
	if err := store.Delete(context.Background(), "slot-2"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if err := store.Create(context.Background(), later); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	seedSlot(t, store, "slot-1", "clinic-1", false)
	seedSlot(t, store, "slot-3", "clinic-1", true)
	seedSlot(t, store, "slot-4", "clinic-2", false)

	available, err := store.GetAvailableByClinic(context.Background(), "clinic-1")
	if err != nil {
		t.Fatalf("GetAvailableByClinic returned error: %v", err)
	}
	if len(available) != 2 {
		t.Fatalf("expected 2 available slots, got %d", len(available))
	}
	if available[0].ID != "slot-1" || available[1].ID != "slot-2" {
		t.Fatalf("expected start-time ordering, got %s then %s", available[0].ID, available[1].ID)
	}
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	store := NewMemoryStore()
	seedSlot(t, store, "slot-1", "clinic-1", false)

	slot, err := store.GetByID(context.Background(), "slot-1")
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	slot.IsBooked = true

	fresh, err := store.GetByID(context.Background(), "slot-1")
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if fresh.IsBooked {
		t.Fatalf("mutating a returned slot must not affect the store")
	}
}
