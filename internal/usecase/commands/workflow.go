package commands

import (
	"context"
	"log/slog"
	"time"

	"autoservice-workflow/internal/domain/appointment"
	"autoservice-workflow/internal/domain/event"
	"autoservice-workflow/internal/domain/mechanic"
	"autoservice-workflow/internal/domain/notification"
	"autoservice-workflow/internal/pkg/clock"
	"autoservice-workflow/internal/usecase/shared"

	"github.com/google/uuid"
)

type CreateAppointmentRequest struct {
	CustomerID      uuid.UUID
	VehicleID       uuid.UUID
	ServiceCenterID uuid.UUID
	ServiceType     string
	RequestedDate   time.Time
	Urgency         appointment.Priority
	SLADeadline     time.Time
	IsAccidental    bool
	Photos          []string
}

// TransitionRequest is the caller's context for a status change. Priority is required where
// the transition records the triage decision; Source and Reason default to MANUAL and
// MANUAL_OVERRIDE. Precondition, when set, runs against the locked appointment and aborts the
// transition with its error.
type TransitionRequest struct {
	Status       appointment.Status
	Priority     *appointment.Priority
	Source       appointment.TriageSource
	Reason       appointment.TriageReason
	Precondition func(*appointment.Appointment) error
}

type WorkflowCommands interface {
	CreateAppointment(ctx context.Context, req CreateAppointmentRequest) (*appointment.Appointment, error)
	ApplyTransition(ctx context.Context, appointmentID uuid.UUID, req TransitionRequest) (*appointment.Appointment, error)
	AssignMechanic(ctx context.Context, appointmentID, mechanicID uuid.UUID) (*mechanic.Assignment, error)
}

type workflowUseCaseImpl struct {
	uow       shared.UnitOfWork
	table     *appointment.TransitionTable
	publisher EventPublisher
	directory shared.CustomerDirectory
	clock     clock.Clock
	logger    *slog.Logger
}

func NewWorkflowUseCase(
	uow shared.UnitOfWork,
	table *appointment.TransitionTable,
	publisher EventPublisher,
	directory shared.CustomerDirectory,
	clk clock.Clock,
	logger *slog.Logger,
) WorkflowCommands {
	return &workflowUseCaseImpl{
		uow:       uow,
		table:     table,
		publisher: publisher,
		directory: directory,
		clock:     clk,
		logger:    logger,
	}
}

func (uc *workflowUseCaseImpl) CreateAppointment(ctx context.Context, req CreateAppointmentRequest) (*appointment.Appointment, error) {
	appt, err := appointment.NewAppointment(appointment.NewAppointmentParams{
		CustomerID:      req.CustomerID,
		VehicleID:       req.VehicleID,
		ServiceCenterID: req.ServiceCenterID,
		ServiceType:     req.ServiceType,
		RequestedDate:   req.RequestedDate,
		Urgency:         req.Urgency,
		SLADeadline:     req.SLADeadline,
		IsAccidental:    req.IsAccidental,
		Photos:          req.Photos,
	}, uc.clock.Now())
	if err != nil {
		return nil, err
	}

	exists, err := uc.directory.Exists(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrCustomerNotFound
	}

	var events []event.Event
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		events = nil

		vehicle, derr := tx.Reads().VehicleByID(ctx, req.VehicleID)
		if derr != nil {
			return derr
		}
		if vehicle.OwnerID != req.CustomerID {
			return ErrVehicleNotOwned
		}
		if derr = tx.Appointments().Create(ctx, appt); derr != nil {
			return derr
		}

		snap, derr := buildSnapshot(ctx, tx.Reads(), appt)
		if derr != nil {
			return derr
		}
		events = append(events, event.New(event.AppointmentCreated{
			Appointment:     snap,
			ServiceCenterID: appt.ServiceCenterID(),
		}, appt.CreatedAt()))
		return nil
	})
	if err != nil {
		return nil, err
	}

	publishAll(uc.publisher, events)
	return appt, nil
}

// ApplyTransition moves the appointment to req.Status and runs every effect the transition
// table attaches to that move in one unit of work. Events are published after commit.
func (uc *workflowUseCaseImpl) ApplyTransition(ctx context.Context, appointmentID uuid.UUID, req TransitionRequest) (*appointment.Appointment, error) {
	if !req.Status.IsValid() {
		return nil, appointment.ErrInvalidStatus
	}

	var (
		updated *appointment.Appointment
		events  []event.Event
	)
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		events = nil

		appt, derr := tx.Appointments().GetForUpdate(ctx, appointmentID)
		if derr != nil {
			return derr
		}
		if req.Precondition != nil {
			if derr = req.Precondition(appt); derr != nil {
				return derr
			}
		}
		rule, derr := uc.table.Lookup(appt.Status(), req.Status)
		if derr != nil {
			return derr
		}

		if rule.Has(appointment.EffectRequireTriage) {
			triaged, terr := tx.Triages().Exists(ctx, appointmentID)
			if terr != nil {
				return terr
			}
			if !triaged {
				return appointment.ErrTriageMissing
			}
		}

		now := uc.clock.Now()
		if derr = appt.Apply(rule, req.Priority, now); derr != nil {
			return derr
		}

		if rule.Has(appointment.EffectRecordTriage) {
			triage, terr := appointment.NewTriage(appointmentID, *req.Priority, req.Source, req.Reason, now)
			if terr != nil {
				return terr
			}
			if terr = tx.Triages().Create(ctx, triage); terr != nil {
				return terr
			}
		}

		if rule.Has(appointment.EffectReleaseAssignments) {
			released, rerr := tx.Assignments().CloseActiveByAppointment(ctx, appointmentID, now)
			if rerr != nil {
				return rerr
			}
			uc.logger.DebugContext(ctx, "released mechanic assignments",
				slog.String("appointment_id", appointmentID.String()),
				slog.Int("count", released))
		}

		if derr = tx.Appointments().UpdateStatus(ctx, appt); derr != nil {
			return derr
		}
		uc.logger.DebugContext(ctx, "appointment transition applied",
			slog.String("appointment_id", appointmentID.String()),
			slog.String("rule", rule.String()))

		snap, derr := buildSnapshot(ctx, tx.Reads(), appt)
		if derr != nil {
			return derr
		}
		statusEvt := event.StatusUpdated{
			Appointment:   snap,
			AppointmentID: appointmentID,
			Status:        string(appt.Status()),
		}
		statusEvt.Message, statusEvt.NotificationType = notification.StatusMessage(
			string(appt.Status()), appt.ServiceType(), snap.Vehicle.Name, snap.Vehicle.Make)

		if rule.Has(appointment.EffectAutoAssign) {
			assigned, aerr := uc.autoAssign(ctx, tx, appt, now)
			if aerr != nil {
				return aerr
			}
			if assigned != nil {
				statusEvt.AssignedMechanics = append(statusEvt.AssignedMechanics, *assigned)
			}
		}
		events = append(events, event.New(statusEvt, now))

		updated = appt
		return nil
	})
	if err != nil {
		return nil, err
	}

	publishAll(uc.publisher, events)
	return updated, nil
}

// autoAssign binds the sole ACTIVE mechanic of the service center. It is a no-op when the
// choice is ambiguous, the mechanic is already working another appointment, or the
// appointment already has someone assigned.
func (uc *workflowUseCaseImpl) autoAssign(
	ctx context.Context,
	tx shared.Tx,
	appt *appointment.Appointment,
	now time.Time,
) (*event.AssignedMechanic, error) {
	candidates, err := tx.Mechanics().ListByServiceCenter(ctx, appt.ServiceCenterID(), mechanic.StatusActive)
	if err != nil {
		return nil, err
	}
	picked, ok := mechanic.AutoAssignee(appt.ServiceCenterID(), candidates)
	if !ok {
		uc.logger.DebugContext(ctx, "auto-assign skipped: no unique active mechanic",
			slog.String("appointment_id", appt.ID().String()),
			slog.Int("candidates", len(candidates)))
		return nil, nil
	}

	existing, err := tx.Assignments().ListActiveByAppointment(ctx, appt.ID())
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, nil
	}

	if _, err = tx.Mechanics().LockForAssignment(ctx, picked.ID); err != nil {
		return nil, err
	}
	busy, err := tx.Assignments().CountActiveByMechanic(ctx, picked.ID)
	if err != nil {
		return nil, err
	}
	if busy > 0 {
		uc.logger.InfoContext(ctx, "auto-assign skipped: mechanic busy",
			slog.String("appointment_id", appt.ID().String()),
			slog.String("mechanic_id", picked.ID.String()))
		return nil, nil
	}

	assignment := mechanic.NewAssignment(appt.ID(), picked.ID, now)
	if err = tx.Assignments().Create(ctx, assignment); err != nil {
		return nil, err
	}

	return &event.AssignedMechanic{
		MechanicID:   picked.ID,
		MechanicName: picked.Name,
		AssignedAt:   now,
	}, nil
}

func (uc *workflowUseCaseImpl) AssignMechanic(ctx context.Context, appointmentID, mechanicID uuid.UUID) (*mechanic.Assignment, error) {
	var (
		assignment *mechanic.Assignment
		events     []event.Event
	)
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		events = nil

		appt, derr := tx.Appointments().GetForUpdate(ctx, appointmentID)
		if derr != nil {
			return derr
		}
		m, derr := tx.Mechanics().LockForAssignment(ctx, mechanicID)
		if derr != nil {
			return derr
		}
		current, derr := tx.Assignments().ListActiveByAppointment(ctx, appointmentID)
		if derr != nil {
			return derr
		}
		busy, derr := tx.Assignments().CountActiveByMechanic(ctx, mechanicID)
		if derr != nil {
			return derr
		}

		if derr = mechanic.ValidateManual(mechanic.ManualCheck{
			Mechanic:               *m,
			AppointmentCenterID:    appt.ServiceCenterID(),
			MechanicActiveCount:    busy,
			AppointmentActiveCount: len(current),
			AppointmentAcceptsWork: !appt.Status().IsTerminal(),
		}); derr != nil {
			return derr
		}

		now := uc.clock.Now()
		a := mechanic.NewAssignment(appointmentID, mechanicID, now)
		if derr = tx.Assignments().Create(ctx, a); derr != nil {
			return derr
		}

		snap, derr := buildSnapshot(ctx, tx.Reads(), appt)
		if derr != nil {
			return derr
		}
		events = append(events, event.New(event.MechanicAssigned{
			Appointment:  snap,
			MechanicID:   m.ID,
			MechanicName: m.Name,
			AssignedAt:   now,
		}, now))
		assignment = a
		return nil
	})
	if err != nil {
		return nil, err
	}

	publishAll(uc.publisher, events)
	return assignment, nil
}
