package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "PENDING"
	AppointmentStatusConfirmed AppointmentStatus = "CONFIRMED"
	AppointmentStatusCompleted AppointmentStatus = "COMPLETED"
	AppointmentStatusCancelled AppointmentStatus = "CANCELLED"
)

// statusTransitions is the closed set of legal state changes.
// COMPLETED and CANCELLED are terminal.
var statusTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentStatusPending:   {AppointmentStatusConfirmed, AppointmentStatusCancelled},
	AppointmentStatusConfirmed: {AppointmentStatusCompleted, AppointmentStatusCancelled},
}

// CanTransitionTo reports whether moving from s to next is legal.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Appointment is a booking slot published by a doctor. A nil PatientID
// means the slot is open for reservation.
type Appointment struct {
	Base
	DoctorID    uuid.UUID         `json:"doctor_id" db:"doctor_id"`
	PatientID   *uuid.UUID        `json:"patient_id" db:"patient_id"`
	ScheduledAt time.Time         `json:"scheduled_at" db:"scheduled_at"`
	Status      AppointmentStatus `json:"status" db:"status"`
	Reason      string            `json:"reason" db:"reason"`
}

// IsOpen reports whether the slot has no assigned patient yet.
func (a *Appointment) IsOpen() bool {
	return a.PatientID == nil
}

// CreateSlotRequest represents doctor slot creation parameters
type CreateSlotRequest struct {
	ScheduledAt time.Time `json:"scheduled_at" binding:"required"`
	Reason      string    `json:"reason" binding:"max=1000"`
}

// UpdateStatusRequest represents an appointment status transition
type UpdateStatusRequest struct {
	Status AppointmentStatus `json:"status" binding:"required,oneof=PENDING CONFIRMED COMPLETED CANCELLED"`
}

// AppointmentEvent is the outbox payload for appointment lifecycle events
type AppointmentEvent struct {
	AppointmentID uuid.UUID         `json:"appointment_id"`
	DoctorID      uuid.UUID         `json:"doctor_id"`
	PatientID     *uuid.UUID        `json:"patient_id,omitempty"`
	ScheduledAt   time.Time         `json:"scheduled_at"`
	Status        AppointmentStatus `json:"status"`
}

// Appointment event types published through the outbox
const (
	EventSlotCreated   = "appointment.slot_created"
	EventSlotReserved  = "appointment.slot_reserved"
	EventStatusChanged = "appointment.status_changed"
)
