package appointments

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

// PostgresStore persists appointments in the relational database.
type PostgresStore struct {
	db DBTX
}

// NewPostgresStore initializes a store backed by a pgx pool.
func NewPostgresStore(db DBTX) *PostgresStore {
	if db == nil {
		panic("appointments: pgx pool required")
	}
	return &PostgresStore{db: db}
}

const appointmentColumns = `id, user_id, title, appointment_time, appointment_type,
	clinic_id, slot_id, status, notes, payment_method, payment_status,
	amount_cents, transaction_id, created_at`

// Insert persists a new appointment row.
func (s *PostgresStore) Insert(ctx context.Context, appt *Appointment) error {
	query := `
		INSERT INTO appointments (id, user_id, title, appointment_time, appointment_type,
			clinic_id, slot_id, status, notes, payment_method, payment_status,
			amount_cents, transaction_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at
	`
	if err := s.db.QueryRow(ctx, query,
		appt.ID,
		appt.UserID,
		appt.Title,
		appt.AppointmentTime,
		appt.AppointmentType,
		appt.ClinicID,
		appt.SlotID,
		appt.Status,
		appt.Notes,
		appt.PaymentMethod,
		appt.PaymentStatus,
		appt.AmountCents,
		appt.TransactionID,
	).Scan(&appt.CreatedAt); err != nil {
		return fmt.Errorf("appointments: insert failed: %w", err)
	}
	return nil
}

// GetByID fetches an appointment row.
func (s *PostgresStore) GetByID(ctx context.Context, id string) (*Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`
	appt, err := scanAppointment(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("appointments: select failed: %w", err)
	}
	return appt, nil
}

// UpdateStatus sets the appointment lifecycle status.
func (s *PostgresStore) UpdateStatus(ctx context.Context, id string, status Status) error {
	query := `UPDATE appointments SET status = $2 WHERE id = $1`
	tag, err := s.db.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("appointments: update status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

// UpdatePaymentDetails sets the payment slice of the appointment.
func (s *PostgresStore) UpdatePaymentDetails(ctx context.Context, id string, details PaymentDetails) error {
	query := `
		UPDATE appointments
		SET payment_status = $2, amount_cents = $3, transaction_id = $4
		WHERE id = $1
	`
	tag, err := s.db.Exec(ctx, query, id, details.PaymentStatus, details.AmountCents, details.TransactionID)
	if err != nil {
		return fmt.Errorf("appointments: update payment details: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

// GetByPaymentStatus lists appointments in a given payment state.
func (s *PostgresStore) GetByPaymentStatus(ctx context.Context, status PaymentStatus) ([]*Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE payment_status = $1 ORDER BY created_at`
	rows, err := s.db.Query(ctx, query, status)
	if err != nil {
		return nil, fmt.Errorf("appointments: select by payment status: %w", err)
	}
	defer rows.Close()

	var matched []*Appointment
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("appointments: scan row: %w", err)
		}
		matched = append(matched, appt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("appointments: iterate rows: %w", err)
	}
	return matched, nil
}

// Delete removes an appointment row.
func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM appointments WHERE id = $1`
	tag, err := s.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("appointments: delete failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var appt Appointment
	if err := row.Scan(
		&appt.ID,
		&appt.UserID,
		&appt.Title,
		&appt.AppointmentTime,
		&appt.AppointmentType,
		&appt.ClinicID,
		&appt.SlotID,
		&appt.Status,
		&appt.Notes,
		&appt.PaymentMethod,
		&appt.PaymentStatus,
		&appt.AmountCents,
		&appt.TransactionID,
		&appt.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &appt, nil
}
