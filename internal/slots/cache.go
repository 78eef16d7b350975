package slots

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/brightcare/booking-platform/pkg/logging"
)

const defaultCacheTTL = 30 * time.Second

// CachedStore decorates a Store with a Redis cache of the per-clinic
// availability listing. Mutations invalidate the clinic's entry so readers
// never see a booked slot as available for longer than the TTL.
type CachedStore struct {
	inner  Store
	client *redis.Client
	ttl    time.Duration
	logger *logging.Logger
}

// NewCachedStore wraps a store with a Redis availability cache. A nil client
// returns the inner store unchanged.
func NewCachedStore(inner Store, client *redis.Client, ttl time.Duration, logger *logging.Logger) Store {
	if client == nil {
		return inner
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &CachedStore{inner: inner, client: client, ttl: ttl, logger: logger}
}

func availabilityKey(clinicID string) string {
	return "slots:available:" + clinicID
}

// GetByID always goes to the inner store; booking decisions never trust the cache.
func (c *CachedStore) GetByID(ctx context.Context, id string) (*Slot, error) {
	return c.inner.GetByID(ctx, id)
}

// GetAvailableByClinic serves from Redis when possible.
func (c *CachedStore) GetAvailableByClinic(ctx context.Context, clinicID string) ([]*Slot, error) {
	key := availabilityKey(clinicID)
	if payload, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var cached []*Slot
		if err := json.Unmarshal(payload, &cached); err == nil {
			return cached, nil
		}
		// Corrupt entry; fall through and rewrite it.
		c.client.Del(ctx, key)
	}

	available, err := c.inner.GetAvailableByClinic(ctx, clinicID)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(available); err == nil {
		if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
			c.logger.Warn("slot cache write failed", "clinic_id", clinicID, "error", err)
		}
	}
	return available, nil
}

// MarkBooked invalidates the clinic's availability entry after booking.
func (c *CachedStore) MarkBooked(ctx context.Context, id string) error {
	if err := c.inner.MarkBooked(ctx, id); err != nil {
		return err
	}
	c.invalidateFor(ctx, id)
	return nil
}

// Release invalidates the clinic's availability entry after freeing a slot.
func (c *CachedStore) Release(ctx context.Context, id string) error {
	if err := c.inner.Release(ctx, id); err != nil {
		return err
	}
	c.invalidateFor(ctx, id)
	return nil
}

// Create invalidates the clinic's availability entry.
func (c *CachedStore) Create(ctx context.Context, slot *Slot) error {
	if err := c.inner.Create(ctx, slot); err != nil {
		return err
	}
	if err := c.client.Del(ctx, availabilityKey(slot.ClinicID)).Err(); err != nil {
		c.logger.Warn("slot cache invalidate failed", "clinic_id", slot.ClinicID, "error", err)
	}
	return nil
}

// Delete invalidates the clinic's availability entry.
func (c *CachedStore) Delete(ctx context.Context, id string) error {
	c.invalidateFor(ctx, id)
	return c.inner.Delete(ctx, id)
}

func (c *CachedStore) invalidateFor(ctx context.Context, id string) {
	slot, err := c.inner.GetByID(ctx, id)
	if err != nil {
		return
	}
	if err := c.client.Del(ctx, availabilityKey(slot.ClinicID)).Err(); err != nil {
		c.logger.Warn("slot cache invalidate failed", "clinic_id", slot.ClinicID, "error", err)
	}
}
