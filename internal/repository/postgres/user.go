package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/medicab/booking-api/internal/model"
	"github.com/medicab/booking-api/internal/repository"
	apperrors "github.com/medicab/booking-api/pkg/errors"
)

const uniqueViolation = "23505"

type userRepository struct {
	*BaseRepository
}

func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &userRepository{BaseRepository: NewBaseRepository(db)}
}

const insertUserQuery = `
	INSERT INTO users (id, username, email, password_hash, role, created_at, updated_at)
	VALUES (:id, :username, :email, :password_hash, :role, :created_at, :updated_at)`

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	_, err := r.db.NamedExecContext(ctx, insertUserQuery, user)
	if err != nil {
		return translateUserError(err)
	}
	return nil
}

func (r *userRepository) CreateWithPatientProfile(ctx context.Context, user *model.User, profile *model.PatientProfile) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.NamedExecContext(ctx, insertUserQuery, user); err != nil {
			return translateUserError(err)
		}
		query := `
			INSERT INTO patient_profiles (id, user_id, age, gender, blood_type, address, phone, created_at, updated_at)
			VALUES (:id, :user_id, :age, :gender, :blood_type, :address, :phone, :created_at, :updated_at)`
		if _, err := tx.NamedExecContext(ctx, query, profile); err != nil {
			return fmt.Errorf("failed to create patient profile: %w", err)
		}
		return nil
	})
}

func (r *userRepository) CreateWithDoctorProfile(ctx context.Context, user *model.User, profile *model.DoctorProfile) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.NamedExecContext(ctx, insertUserQuery, user); err != nil {
			return translateUserError(err)
		}
		query := `
			INSERT INTO doctor_profiles (id, user_id, age, specialty, experience, address, phone, created_at, updated_at)
			VALUES (:id, :user_id, :age, :specialty, :experience, :address, :phone, :created_at, :updated_at)`
		if _, err := tx.NamedExecContext(ctx, query, profile); err != nil {
			return fmt.Errorf("failed to create doctor profile: %w", err)
		}
		return nil
	})
}

func (r *userRepository) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	err := r.db.GetContext(ctx, &user, `SELECT * FROM users WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("user", err)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.GetContext(ctx, &user, `SELECT * FROM users WHERE email = $1`, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("user", err)
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

func translateUserError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return apperrors.Conflict("email already registered", err)
	}
	return fmt.Errorf("failed to create user: %w", err)
}
