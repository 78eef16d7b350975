package slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the slice of pgxpool.Pool the store needs; pgxmock satisfies it.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore persists slots in the relational database.
type PostgresStore struct {
	db DBTX
}

// NewPostgresStore initializes a store backed by a pgx pool.
func NewPostgresStore(db DBTX) *PostgresStore {
	if db == nil {
		panic("slots: pgx pool required")
	}
	return &PostgresStore{db: db}
}

// GetByID fetches a slot row.
func (s *PostgresStore) GetByID(ctx context.Context, id string) (*Slot, error) {
	query := `
		SELECT id, clinic_id, start_time, end_time, is_booked
		FROM slots
		WHERE id = $1
	`
	var slot Slot
	if err := s.db.QueryRow(ctx, query, id).Scan(
		&slot.ID,
		&slot.ClinicID,
		&slot.StartTime,
		&slot.EndTime,
		&slot.IsBooked,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSlotNotFound
		}
		return nil, fmt.Errorf("slots: select failed: %w", err)
	}
	return &slot, nil
}

// GetAvailableByClinic lists unbooked slots for a clinic ordered by start time.
func (s *PostgresStore) GetAvailableByClinic(ctx context.Context, clinicID string) ([]*Slot, error) {
	query := `
		SELECT id, clinic_id, start_time, end_time, is_booked
		FROM slots
		WHERE clinic_id = $1 AND is_booked = FALSE
		ORDER BY start_time
	`
	rows, err := s.db.Query(ctx, query, clinicID)
	if err != nil {
		return nil, fmt.Errorf("slots: select available: %w", err)
	}
	defer rows.Close()

	var available []*Slot
	for rows.Next() {
		var slot Slot
		if err := rows.Scan(
			&slot.ID,
			&slot.ClinicID,
			&slot.StartTime,
			&slot.EndTime,
			&slot.IsBooked,
		); err != nil {
			return nil, fmt.Errorf("slots: scan available: %w", err)
		}
		available = append(available, &slot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("slots: iterate available: %w", err)
	}
	return available, nil
}

// MarkBooked performs the conditional update that makes double-booking
// impossible: the WHERE clause only matches an unbooked row, so the losing
// side of a race sees zero rows affected.
func (s *PostgresStore) MarkBooked(ctx context.Context, id string) error {
	query := `
		UPDATE slots
		SET is_booked = TRUE
		WHERE id = $1 AND is_booked = FALSE
	`
	tag, err := s.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("slots: mark booked: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Row missing or already booked; disambiguate for the caller.
		if _, err := s.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrSlotConflict
	}
	return nil
}

// Release makes the slot available again.
func (s *PostgresStore) Release(ctx context.Context, id string) error {
	query := `
		UPDATE slots
		SET is_booked = FALSE
		WHERE id = $1
	`
	tag, err := s.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("slots: release: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSlotNotFound
	}
	return nil
}

// Create inserts a new slot row.
func (s *PostgresStore) Create(ctx context.Context, slot *Slot) error {
	query := `
		INSERT INTO slots (id, clinic_id, start_time, end_time, is_booked)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := s.db.Exec(ctx, query,
		slot.ID,
		slot.ClinicID,
		slot.StartTime,
		slot.EndTime,
		slot.IsBooked,
	); err != nil {
		return fmt.Errorf("slots: insert failed: %w", err)
	}
	return nil
}

// Delete removes a slot row.
func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM slots WHERE id = $1`
	tag, err := s.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("slots: delete failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSlotNotFound
	}
	return nil
}
