package appointment

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/medicab/booking-api/internal/email"
	"github.com/medicab/booking-api/internal/model"
	"github.com/medicab/booking-api/internal/repository"
	apperrors "github.com/medicab/booking-api/pkg/errors"
)

const (
	profileCacheTTL     = 5 * time.Minute
	profileCacheCleanup = 10 * time.Minute
)

// Service manages booking slots: doctors publish them, patients reserve
// them, doctors drive them through their lifecycle.
type Service interface {
	CreateSlot(ctx context.Context, doctorUserID uuid.UUID, req *model.CreateSlotRequest) (*model.Appointment, error)
	ListForUser(ctx context.Context, userID uuid.UUID, role string) ([]*model.Appointment, error)
	ListOpen(ctx context.Context, role string) ([]*model.Appointment, error)
	Reserve(ctx context.Context, patientUserID uuid.UUID, appointmentID uuid.UUID) (*model.Appointment, error)
	UpdateStatus(ctx context.Context, doctorUserID uuid.UUID, appointmentID uuid.UUID, status model.AppointmentStatus) (*model.Appointment, error)
}

type service struct {
	appointments repository.AppointmentRepository
	profiles     repository.ProfileRepository
	users        repository.UserRepository
	outbox       repository.OutboxRepository
	notifier     email.Notifier
	profileCache *cache.Cache
	logger       *zerolog.Logger
}

func NewService(
	appointments repository.AppointmentRepository,
	profiles repository.ProfileRepository,
	users repository.UserRepository,
	outbox repository.OutboxRepository,
	notifier email.Notifier,
	logger *zerolog.Logger,
) Service {
	return &service{
		appointments: appointments,
		profiles:     profiles,
		users:        users,
		outbox:       outbox,
		notifier:     notifier,
		profileCache: cache.New(profileCacheTTL, profileCacheCleanup),
		logger:       logger,
	}
}

// CreateSlot publishes an open slot owned by the calling doctor. The
// slot starts pending with no patient attached.
func (s *service) CreateSlot(ctx context.Context, doctorUserID uuid.UUID, req *model.CreateSlotRequest) (*model.Appointment, error) {
	if err := s.ensureDoctorProfile(ctx, doctorUserID); err != nil {
		return nil, err
	}

	now := time.Now()
	appt := &model.Appointment{
		Base: model.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		DoctorID:    doctorUserID,
		ScheduledAt: req.ScheduledAt,
		Status:      model.AppointmentStatusPending,
		Reason:      req.Reason,
	}

	if err := s.appointments.Create(ctx, appt); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, model.EventSlotCreated, appt)

	s.logger.Info().
		Str("appointment_id", appt.ID.String()).
		Str("doctor_id", doctorUserID.String()).
		Time("scheduled_at", appt.ScheduledAt).
		Msg("slot created")

	return appt, nil
}

// ListForUser returns the caller's own appointments. Patients see the
// slots they reserved, doctors the slots they published. Any other role
// gets an empty list.
func (s *service) ListForUser(ctx context.Context, userID uuid.UUID, role string) ([]*model.Appointment, error) {
	switch role {
	case model.RolePatient:
		return s.appointments.ListByPatient(ctx, userID)
	case model.RoleDoctor:
		return s.appointments.ListByDoctor(ctx, userID)
	default:
		return []*model.Appointment{}, nil
	}
}

func (s *service) ListOpen(ctx context.Context, role string) ([]*model.Appointment, error) {
	if role != model.RolePatient {
		return nil, apperrors.Forbidden("only patients may browse open slots", nil)
	}
	return s.appointments.ListOpen(ctx)
}

// Reserve claims an open slot for the calling patient. The repository
// performs the claim as one conditional update, so a lost race surfaces
// as not found, exactly like a slot that never existed.
func (s *service) Reserve(ctx context.Context, patientUserID uuid.UUID, appointmentID uuid.UUID) (*model.Appointment, error) {
	if err := s.ensurePatientProfile(ctx, patientUserID); err != nil {
		return nil, err
	}

	appt, err := s.appointments.Reserve(ctx, appointmentID, patientUserID)
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, model.EventSlotReserved, appt)
	s.sendConfirmation(ctx, patientUserID, appt)

	s.logger.Info().
		Str("appointment_id", appt.ID.String()).
		Str("patient_id", patientUserID.String()).
		Msg("slot reserved")

	return appt, nil
}

// UpdateStatus moves an appointment through its lifecycle. Only the
// owning doctor may do this; a foreign appointment looks like it does
// not exist.
func (s *service) UpdateStatus(ctx context.Context, doctorUserID uuid.UUID, appointmentID uuid.UUID, status model.AppointmentStatus) (*model.Appointment, error) {
	appt, err := s.appointments.Get(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if appt.DoctorID != doctorUserID {
		return nil, apperrors.NotFound("appointment", nil)
	}
	if !appt.Status.CanTransitionTo(status) {
		return nil, apperrors.BadRequest(
			fmt.Sprintf("cannot transition appointment from %s to %s", appt.Status, status), nil)
	}

	if err := s.appointments.UpdateStatus(ctx, appointmentID, status); err != nil {
		return nil, err
	}
	appt.Status = status
	appt.UpdatedAt = time.Now()

	s.publishEvent(ctx, model.EventStatusChanged, appt)

	s.logger.Info().
		Str("appointment_id", appt.ID.String()).
		Str("status", string(status)).
		Msg("appointment status changed")

	return appt, nil
}

// ensureDoctorProfile verifies the caller actually has a doctor profile,
// caching positive lookups to keep slot creation cheap.
func (s *service) ensureDoctorProfile(ctx context.Context, userID uuid.UUID) error {
	key := "doctor:" + userID.String()
	if _, found := s.profileCache.Get(key); found {
		return nil
	}

	profile, err := s.profiles.GetDoctorByUser(ctx, userID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.Forbidden("doctor profile required", err)
		}
		return err
	}

	s.profileCache.Set(key, profile.ID, cache.DefaultExpiration)
	return nil
}

func (s *service) ensurePatientProfile(ctx context.Context, userID uuid.UUID) error {
	key := "patient:" + userID.String()
	if _, found := s.profileCache.Get(key); found {
		return nil
	}

	profile, err := s.profiles.GetPatientByUser(ctx, userID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.Forbidden("patient profile required", err)
		}
		return err
	}

	s.profileCache.Set(key, profile.ID, cache.DefaultExpiration)
	return nil
}

// publishEvent records a lifecycle event in the outbox. Failures are
// logged, never propagated to the caller.
func (s *service) publishEvent(ctx context.Context, eventType string, appt *model.Appointment) {
	payload, err := json.Marshal(&model.AppointmentEvent{
		AppointmentID: appt.ID,
		DoctorID:      appt.DoctorID,
		PatientID:     appt.PatientID,
		ScheduledAt:   appt.ScheduledAt,
		Status:        appt.Status,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Msg("failed to marshal event payload")
		return
	}

	now := time.Now()
	event := &model.OutboxEvent{
		ID:        uuid.New(),
		EventType: eventType,
		Payload:   payload,
		Status:    model.OutboxStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.outbox.Create(ctx, event); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Msg("failed to enqueue outbox event")
	}
}

func (s *service) sendConfirmation(ctx context.Context, patientUserID uuid.UUID, appt *model.Appointment) {
	user, err := s.users.Get(ctx, patientUserID)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to load patient for confirmation email")
		return
	}

	if err := s.notifier.SendReservationConfirmation(user.Email, user.Username, appt.ScheduledAt); err != nil {
		s.logger.Warn().Err(err).
			Str("appointment_id", appt.ID.String()).
			Msg("failed to send reservation confirmation")
	}
}
