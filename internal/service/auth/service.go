package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medicab/booking-api/internal/model"
	"github.com/medicab/booking-api/internal/repository"
	"github.com/medicab/booking-api/pkg/auth"
	apperrors "github.com/medicab/booking-api/pkg/errors"
	"github.com/medicab/booking-api/pkg/security"
)

// Service handles registration, login and token refresh.
type Service interface {
	Register(ctx context.Context, req *model.RegisterRequest) (*model.RegisterResponse, error)
	Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*model.TokenResponse, error)
	GetUser(ctx context.Context, id uuid.UUID) (*model.User, error)
}

type service struct {
	users  repository.UserRepository
	jwt    auth.JWTService
	hasher security.Hasher
	logger *zerolog.Logger
}

func NewService(users repository.UserRepository, jwt auth.JWTService, hasher security.Hasher, logger *zerolog.Logger) Service {
	return &service{
		users:  users,
		jwt:    jwt,
		hasher: hasher,
		logger: logger,
	}
}

// Register creates the account and its role profile in one transaction,
// then issues a token pair so the client is logged in immediately.
func (s *service) Register(ctx context.Context, req *model.RegisterRequest) (*model.RegisterResponse, error) {
	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return nil, apperrors.Conflict("email already registered", nil)
	} else if !apperrors.IsNotFound(err) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	now := time.Now()
	user := &model.User{
		Base: model.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
	}

	switch req.Role {
	case model.RolePatient:
		profile := &model.PatientProfile{
			Base:   model.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
			UserID: user.ID,
		}
		err = s.users.CreateWithPatientProfile(ctx, user, profile)
	case model.RoleDoctor:
		profile := &model.DoctorProfile{
			Base:      model.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
			UserID:    user.ID,
			Specialty: model.DefaultSpecialty,
		}
		err = s.users.CreateWithDoctorProfile(ctx, user, profile)
	default:
		err = s.users.Create(ctx, user)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("user_id", user.ID.String()).
		Str("role", user.Role).
		Msg("user registered")

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	return &model.RegisterResponse{
		TokenResponse: *tokens,
		User:          user.Summary(),
	}, nil
}

func (s *service) Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.Unauthorized("invalid credentials", nil)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := s.hasher.Verify(user.PasswordHash, req.Password); err != nil {
		return nil, apperrors.Unauthorized("invalid credentials", nil)
	}

	return s.issueTokens(user)
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (*model.TokenResponse, error) {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid refresh token", err)
	}

	user, err := s.users.Get(ctx, claims.UserID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.Unauthorized("invalid refresh token", err)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return s.issueTokens(user)
}

func (s *service) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return s.users.Get(ctx, id)
}

func (s *service) issueTokens(user *model.User) (*model.TokenResponse, error) {
	access, err := s.jwt.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refresh, err := s.jwt.GenerateRefreshToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return &model.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}
