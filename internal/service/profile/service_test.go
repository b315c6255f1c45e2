package profile

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medicab/booking-api/internal/model"
	apperrors "github.com/medicab/booking-api/pkg/errors"
)

type fakeProfileRepo struct {
	patients map[uuid.UUID]*model.PatientProfile
	doctors  map[uuid.UUID]*model.DoctorProfile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{
		patients: make(map[uuid.UUID]*model.PatientProfile),
		doctors:  make(map[uuid.UUID]*model.DoctorProfile),
	}
}

func (r *fakeProfileRepo) GetPatientByUser(_ context.Context, userID uuid.UUID) (*model.PatientProfile, error) {
	p, ok := r.patients[userID]
	if !ok {
		return nil, apperrors.NotFound("patient profile", nil)
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProfileRepo) GetDoctorByUser(_ context.Context, userID uuid.UUID) (*model.DoctorProfile, error) {
	p, ok := r.doctors[userID]
	if !ok {
		return nil, apperrors.NotFound("doctor profile", nil)
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProfileRepo) UpdatePatient(_ context.Context, profile *model.PatientProfile) error {
	r.patients[profile.UserID] = profile
	return nil
}

func (r *fakeProfileRepo) UpdateDoctor(_ context.Context, profile *model.DoctorProfile) error {
	r.doctors[profile.UserID] = profile
	return nil
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func TestUpdatePatientPartialPatch(t *testing.T) {
	repo := newFakeProfileRepo()
	userID := uuid.New()
	existingPhone := "0612345678"
	repo.patients[userID] = &model.PatientProfile{
		Base:   model.Base{ID: uuid.New()},
		UserID: userID,
		Phone:  &existingPhone,
	}

	logger := zerolog.Nop()
	svc := NewService(repo, &logger)

	updated, err := svc.UpdatePatient(context.Background(), userID, &model.UpdatePatientProfileRequest{
		Age:       intPtr(34),
		BloodType: strPtr("O+"),
	})
	require.NoError(t, err)

	assert.Equal(t, 34, *updated.Age)
	assert.Equal(t, "O+", *updated.BloodType)
	require.NotNil(t, updated.Phone, "absent fields keep their stored values")
	assert.Equal(t, existingPhone, *updated.Phone)
}

func TestUpdateDoctorPartialPatch(t *testing.T) {
	repo := newFakeProfileRepo()
	userID := uuid.New()
	repo.doctors[userID] = &model.DoctorProfile{
		Base:      model.Base{ID: uuid.New()},
		UserID:    userID,
		Specialty: model.DefaultSpecialty,
	}

	logger := zerolog.Nop()
	svc := NewService(repo, &logger)

	updated, err := svc.UpdateDoctor(context.Background(), userID, &model.UpdateDoctorProfileRequest{
		Specialty: strPtr("cardiology"),
	})
	require.NoError(t, err)

	assert.Equal(t, "cardiology", updated.Specialty)
	assert.Nil(t, updated.Age)
}

func TestGetMissingProfileNotFound(t *testing.T) {
	logger := zerolog.Nop()
	svc := NewService(newFakeProfileRepo(), &logger)

	_, err := svc.GetPatient(context.Background(), uuid.New())
	assert.True(t, apperrors.IsNotFound(err))

	_, err = svc.GetDoctor(context.Background(), uuid.New())
	assert.True(t, apperrors.IsNotFound(err))
}

func TestUpdateMissingProfileNotFound(t *testing.T) {
	logger := zerolog.Nop()
	svc := NewService(newFakeProfileRepo(), &logger)

	_, err := svc.UpdatePatient(context.Background(), uuid.New(), &model.UpdatePatientProfileRequest{Age: intPtr(30)})
	assert.True(t, apperrors.IsNotFound(err))
}
