package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/medicab/booking-api/internal/model"
)

// UserRepository manages user accounts. Registration creates the user
// and its role profile in a single transaction.
type UserRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	CreateWithPatientProfile(ctx context.Context, user *model.User, profile *model.PatientProfile) error
	CreateWithDoctorProfile(ctx context.Context, user *model.User, profile *model.DoctorProfile) error
	Create(ctx context.Context, user *model.User) error
}

type ProfileRepository interface {
	GetPatientByUser(ctx context.Context, userID uuid.UUID) (*model.PatientProfile, error)
	GetDoctorByUser(ctx context.Context, userID uuid.UUID) (*model.DoctorProfile, error)
	UpdatePatient(ctx context.Context, profile *model.PatientProfile) error
	UpdateDoctor(ctx context.Context, profile *model.DoctorProfile) error
}

type AppointmentRepository interface {
	Create(ctx context.Context, appt *model.Appointment) error
	Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.Appointment, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Appointment, error)
	ListOpen(ctx context.Context) ([]*model.Appointment, error)
	// Reserve atomically claims an open slot for the patient. It returns
	// a not-found error when the slot does not exist or is already taken.
	Reserve(ctx context.Context, id, patientID uuid.UUID) (*model.Appointment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus) error
}

type OutboxRepository interface {
	Create(ctx context.Context, event *model.OutboxEvent) error
	GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
	MarkProcessed(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error
}
