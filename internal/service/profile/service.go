package profile

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medicab/booking-api/internal/model"
	"github.com/medicab/booking-api/internal/repository"
)

// Service manages role profiles. Updates are partial: absent fields
// keep their stored values.
type Service interface {
	GetPatient(ctx context.Context, userID uuid.UUID) (*model.PatientProfile, error)
	GetDoctor(ctx context.Context, userID uuid.UUID) (*model.DoctorProfile, error)
	UpdatePatient(ctx context.Context, userID uuid.UUID, req *model.UpdatePatientProfileRequest) (*model.PatientProfile, error)
	UpdateDoctor(ctx context.Context, userID uuid.UUID, req *model.UpdateDoctorProfileRequest) (*model.DoctorProfile, error)
}

type service struct {
	profiles repository.ProfileRepository
	logger   *zerolog.Logger
}

func NewService(profiles repository.ProfileRepository, logger *zerolog.Logger) Service {
	return &service{profiles: profiles, logger: logger}
}

func (s *service) GetPatient(ctx context.Context, userID uuid.UUID) (*model.PatientProfile, error) {
	return s.profiles.GetPatientByUser(ctx, userID)
}

func (s *service) GetDoctor(ctx context.Context, userID uuid.UUID) (*model.DoctorProfile, error) {
	return s.profiles.GetDoctorByUser(ctx, userID)
}

func (s *service) UpdatePatient(ctx context.Context, userID uuid.UUID, req *model.UpdatePatientProfileRequest) (*model.PatientProfile, error) {
	profile, err := s.profiles.GetPatientByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Age != nil {
		profile.Age = req.Age
	}
	if req.Gender != nil {
		profile.Gender = req.Gender
	}
	if req.BloodType != nil {
		profile.BloodType = req.BloodType
	}
	if req.Address != nil {
		profile.Address = req.Address
	}
	if req.Phone != nil {
		profile.Phone = req.Phone
	}
	profile.UpdatedAt = time.Now()

	if err := s.profiles.UpdatePatient(ctx, profile); err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", userID.String()).Msg("patient profile updated")
	return profile, nil
}

func (s *service) UpdateDoctor(ctx context.Context, userID uuid.UUID, req *model.UpdateDoctorProfileRequest) (*model.DoctorProfile, error) {
	profile, err := s.profiles.GetDoctorByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Age != nil {
		profile.Age = req.Age
	}
	if req.Specialty != nil {
		profile.Specialty = *req.Specialty
	}
	if req.Experience != nil {
		profile.Experience = req.Experience
	}
	if req.Address != nil {
		profile.Address = req.Address
	}
	if req.Phone != nil {
		profile.Phone = req.Phone
	}
	profile.UpdatedAt = time.Now()

	if err := s.profiles.UpdateDoctor(ctx, profile); err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", userID.String()).Msg("doctor profile updated")
	return profile, nil
}
