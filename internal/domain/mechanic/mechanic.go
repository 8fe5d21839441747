package mechanic

import (
	"time"

	"autoservice-workflow/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrInactive        = errs.Wrap(errs.ErrInvalidMechanic, "mechanic is not active")
	ErrWrongCenter     = errs.Wrap(errs.ErrInvalidMechanic, "mechanic belongs to another service center")
	ErrBusy            = errs.Wrap(errs.ErrConflict, "mechanic already has an active assignment")
	ErrAlreadyAssigned = errs.Wrap(errs.ErrConflict, "appointment already has an active assignment")
	ErrNotAssignable   = errs.Wrap(errs.ErrConflict, "appointment status does not accept mechanic assignment")
)

type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
	StatusOnLeave  Status = "ON_LEAVE"
)

// Mechanic is the read projection the policy needs; mechanic CRUD lives elsewhere.
type Mechanic struct {
	ID              uuid.UUID
	ServiceCenterID uuid.UUID
	Name            string
	Status          Status
}

func (m Mechanic) IsActive() bool {
	return m.Status == StatusActive
}

// Assignment is the window [AssignedAt, UnassignedAt) during which a mechanic works an
// appointment. A nil UnassignedAt means the window is still open.
type Assignment struct {
	ID            uuid.UUID
	AppointmentID uuid.UUID
	MechanicID    uuid.UUID
	AssignedAt    time.Time
	UnassignedAt  *time.Time
}

func NewAssignment(appointmentID, mechanicID uuid.UUID, now time.Time) *Assignment {
	return &Assignment{
		ID:            uuid.New(),
		AppointmentID: appointmentID,
		MechanicID:    mechanicID,
		AssignedAt:    now,
	}
}

func (a *Assignment) IsActive() bool {
	return a.UnassignedAt == nil
}

func (a *Assignment) Close(now time.Time) {
	if a.UnassignedAt != nil {
		return
	}
	t := now
	a.UnassignedAt = &t
}
