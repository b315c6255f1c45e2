package model

import (
	"github.com/google/uuid"
)

// DefaultSpecialty is assigned to doctor profiles created at registration,
// before the doctor fills in their own.
const DefaultSpecialty = "general"

// PatientProfile holds patient-specific attributes, one-to-one with User.
// Created empty at registration and filled in via partial patches.
type PatientProfile struct {
	Base
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Age       *int      `json:"age" db:"age"`
	Gender    *string   `json:"gender" db:"gender"`
	BloodType *string   `json:"blood_type" db:"blood_type"`
	Address   *string   `json:"address" db:"address"`
	Phone     *string   `json:"phone" db:"phone"`
}

// DoctorProfile holds doctor-specific attributes, one-to-one with User.
type DoctorProfile struct {
	Base
	UserID     uuid.UUID `json:"user_id" db:"user_id"`
	Age        *int      `json:"age" db:"age"`
	Specialty  string    `json:"specialty" db:"specialty"`
	Experience *string   `json:"experience" db:"experience"`
	Address    *string   `json:"address" db:"address"`
	Phone      *string   `json:"phone" db:"phone"`
}

// UpdatePatientProfileRequest represents a partial patient profile update.
// Only provided fields are validated and applied.
type UpdatePatientProfileRequest struct {
	Age       *int    `json:"age" binding:"omitempty,gte=0,lte=150"`
	Gender    *string `json:"gender" binding:"omitempty,oneof=male female"`
	BloodType *string `json:"blood_type" binding:"omitempty,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	Address   *string `json:"address" binding:"omitempty,max=255"`
	Phone     *string `json:"phone" binding:"omitempty,max=20"`
}

// UpdateDoctorProfileRequest represents a partial doctor profile update.
type UpdateDoctorProfileRequest struct {
	Age        *int    `json:"age" binding:"omitempty,gte=0,lte=150"`
	Specialty  *string `json:"specialty" binding:"omitempty,min=2,max=100"`
	Experience *string `json:"experience" binding:"omitempty,max=2000"`
	Address    *string `json:"address" binding:"omitempty,max=255"`
	Phone      *string `json:"phone" binding:"omitempty,max=20"`
}
