package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/medicab/booking-api/internal/model"
	"github.com/medicab/booking-api/internal/repository"
	apperrors "github.com/medicab/booking-api/pkg/errors"
)

type appointmentRepository struct {
	*BaseRepository
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *appointmentRepository) Create(ctx context.Context, appt *model.Appointment) error {
	query := `
		INSERT INTO appointments (id, doctor_id, patient_id, scheduled_at, status, reason, created_at, updated_at)
		VALUES (:id, :doctor_id, :patient_id, :scheduled_at, :status, :reason, :created_at, :updated_at)`

	if _, err := r.db.NamedExecContext(ctx, query, appt); err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	var appt model.Appointment
	err := r.db.GetContext(ctx, &appt, `SELECT * FROM appointments WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("appointment", err)
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appt, nil
}

func (r *appointmentRepository) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Appointment, error) {
	var appts []*model.Appointment
	query := `SELECT * FROM appointments WHERE doctor_id = $1 ORDER BY scheduled_at ASC`
	if err := r.db.SelectContext(ctx, &appts, query, doctorID); err != nil {
		return nil, fmt.Errorf("failed to list doctor appointments: %w", err)
	}
	return appts, nil
}

func (r *appointmentRepository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Appointment, error) {
	var appts []*model.Appointment
	query := `SELECT * FROM appointments WHERE patient_id = $1 ORDER BY scheduled_at ASC`
	if err := r.db.SelectContext(ctx, &appts, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list patient appointments: %w", err)
	}
	return appts, nil
}

func (r *appointmentRepository) ListOpen(ctx context.Context) ([]*model.Appointment, error) {
	var appts []*model.Appointment
	query := `SELECT * FROM appointments WHERE patient_id IS NULL ORDER BY scheduled_at ASC`
	if err := r.db.SelectContext(ctx, &appts, query); err != nil {
		return nil, fmt.Errorf("failed to list open appointments: %w", err)
	}
	return appts, nil
}

// Reserve claims the slot with a single conditional update so two
// concurrent patients can never both win the same slot. A zero row
// count means the slot is gone, whether missing or already taken.
func (r *appointmentRepository) Reserve(ctx context.Context, id, patientID uuid.UUID) (*model.Appointment, error) {
	query := `
		UPDATE appointments
		SET patient_id = $1, status = $2, updated_at = NOW()
		WHERE id = $3 AND patient_id IS NULL`

	result, err := r.db.ExecContext(ctx, query, patientID, model.AppointmentStatusPending, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reserve appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return nil, apperrors.NotFound("appointment", sql.ErrNoRows)
	}

	return r.Get(ctx, id)
}

func (r *appointmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus) error {
	query := `UPDATE appointments SET status = $1, updated_at = NOW() WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update appointment status: %w", err)
	}
	return checkAffected(result, "appointment")
}
