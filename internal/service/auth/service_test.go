package auth

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/medicab/booking-api/internal/config"
	"github.com/medicab/booking-api/internal/model"
	"github.com/medicab/booking-api/pkg/auth"
	apperrors "github.com/medicab/booking-api/pkg/errors"
	"github.com/medicab/booking-api/pkg/security"
)

type fakeUserRepo struct {
	mu              sync.Mutex
	byID            map[uuid.UUID]*model.User
	byEmail         map[string]*model.User
	patientProfiles map[uuid.UUID]*model.PatientProfile
	doctorProfiles  map[uuid.UUID]*model.DoctorProfile
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:            make(map[uuid.UUID]*model.User),
		byEmail:         make(map[string]*model.User),
		patientProfiles: make(map[uuid.UUID]*model.PatientProfile),
		doctorProfiles:  make(map[uuid.UUID]*model.DoctorProfile),
	}
}

func (r *fakeUserRepo) store(user *model.User) error {
	if _, exists := r.byEmail[user.Email]; exists {
		return apperrors.Conflict("email already registered", nil)
	}
	r.byID[user.ID] = user
	r.byEmail[user.Email] = user
	return nil
}

func (r *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store(user)
}

func (r *fakeUserRepo) CreateWithPatientProfile(_ context.Context, user *model.User, profile *model.PatientProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.store(user); err != nil {
		return err
	}
	r.patientProfiles[user.ID] = profile
	return nil
}

func (r *fakeUserRepo) CreateWithDoctorProfile(_ context.Context, user *model.User, profile *model.DoctorProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.store(user); err != nil {
		return err
	}
	r.doctorProfiles[user.ID] = profile
	return nil
}

func (r *fakeUserRepo) Get(_ context.Context, id uuid.UUID) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.byID[id]
	if !ok {
		return nil, apperrors.NotFound("user", nil)
	}
	return user, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.byEmail[email]
	if !ok {
		return nil, apperrors.NotFound("user", nil)
	}
	return user, nil
}

func newTestService(repo *fakeUserRepo) Service {
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:             "test-secret",
		RefreshSecret:      "test-refresh-secret",
		ExpiryHours:        1,
		RefreshExpiryHours: 24,
	})
	logger := zerolog.Nop()
	return NewService(repo, jwtService, security.NewBcryptHasher(bcrypt.MinCost), &logger)
}

func TestRegisterPatientCreatesProfile(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)

	resp, err := svc.Register(context.Background(), &model.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password123",
		Role:     model.RolePatient,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, model.RolePatient, resp.User.Role)

	profile, ok := repo.patientProfiles[resp.User.ID]
	require.True(t, ok, "patient profile should be created at registration")
	assert.Equal(t, resp.User.ID, profile.UserID)
	assert.Nil(t, profile.Age)
}

func TestRegisterDoctorCreatesProfileWithDefaultSpecialty(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)

	resp, err := svc.Register(context.Background(), &model.RegisterRequest{
		Username: "drbob",
		Email:    "bob@example.com",
		Password: "password123",
		Role:     model.RoleDoctor,
	})
	require.NoError(t, err)

	profile, ok := repo.doctorProfiles[resp.User.ID]
	require.True(t, ok, "doctor profile should be created at registration")
	assert.Equal(t, model.DefaultSpecialty, profile.Specialty)
}

func TestRegisterAdminHasNoProfile(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)

	resp, err := svc.Register(context.Background(), &model.RegisterRequest{
		Username: "root",
		Email:    "admin@example.com",
		Password: "password123",
		Role:     model.RoleAdmin,
	})
	require.NoError(t, err)

	assert.Empty(t, repo.patientProfiles)
	assert.Empty(t, repo.doctorProfiles)
	assert.Equal(t, model.RoleAdmin, resp.User.Role)
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)

	req := &model.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password123",
		Role:     model.RolePatient,
	}
	_, err := svc.Register(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), req)
	assert.True(t, apperrors.IsConflict(err))
}

func TestLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)

	_, err := svc.Register(context.Background(), &model.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password123",
		Role:     model.RolePatient,
	})
	require.NoError(t, err)

	tokens, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "alice@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)

	_, err := svc.Register(context.Background(), &model.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password123",
		Role:     model.RolePatient,
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), &model.LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong-password",
	})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrUnauthorized, appErr.Code)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := newTestService(newFakeUserRepo())

	_, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "nobody@example.com",
		Password: "password123",
	})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrUnauthorized, appErr.Code)
}

func TestRefresh(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)

	resp, err := svc.Register(context.Background(), &model.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password123",
		Role:     model.RolePatient,
	})
	require.NoError(t, err)

	tokens, err := svc.Refresh(context.Background(), resp.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)

	resp, err := svc.Register(context.Background(), &model.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password123",
		Role:     model.RolePatient,
	})
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), resp.AccessToken)
	assert.Error(t, err)
}
