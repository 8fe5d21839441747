//go:build unit || e2e

package builder

import (
	"time"

	"autoservice-workflow/internal/domain/appointment"
	reqdto "autoservice-workflow/internal/handler/dto/request"
	"autoservice-workflow/internal/usecase/commands"
	"autoservice-workflow/internal/usecase/queries"

	"github.com/google/uuid"
)

type AppointmentBuilder struct {
	ID              uuid.UUID
	CustomerID      uuid.UUID
	VehicleID       uuid.UUID
	ServiceCenterID uuid.UUID
	ServiceType     string
	RequestedDate   time.Time
	Status          appointment.Status
	Urgency         appointment.Priority
	DecidedPriority *appointment.Priority
	SLADeadline     time.Time
	IsAccidental    bool
	Photos          []string
	Now             time.Time
}

func NewAppointmentBuilder() *AppointmentBuilder {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	return &AppointmentBuilder{
		ID:              uuid.New(),
		CustomerID:      uuid.New(),
		VehicleID:       uuid.New(),
		ServiceCenterID: uuid.New(),
		ServiceType:     "General Service",
		RequestedDate:   now,
		Status:          appointment.StatusPending,
		Urgency:         appointment.PriorityMedium,
		SLADeadline:     now.Add(72 * time.Hour),
		Photos:          []string{"https://example.com/photo-1.jpg"},
		Now:             now,
	}
}

func (b *AppointmentBuilder) With(mutate func(*AppointmentBuilder)) *AppointmentBuilder {
	mutate(b)
	return b
}

func (b *AppointmentBuilder) WithStatus(s appointment.Status) *AppointmentBuilder {
	b.Status = s
	return b
}

func (b *AppointmentBuilder) WithWorkshop(customerID, vehicleID, serviceCenterID uuid.UUID) *AppointmentBuilder {
	b.CustomerID = customerID
	b.VehicleID = vehicleID
	b.ServiceCenterID = serviceCenterID
	return b
}

// Build methods
func (b *AppointmentBuilder) BuildParams() appointment.NewAppointmentParams {
	return appointment.NewAppointmentParams{
		CustomerID:      b.CustomerID,
		VehicleID:       b.VehicleID,
		ServiceCenterID: b.ServiceCenterID,
		ServiceType:     b.ServiceType,
		RequestedDate:   b.RequestedDate,
		Urgency:         b.Urgency,
		SLADeadline:     b.SLADeadline,
		IsAccidental:    b.IsAccidental,
		Photos:          b.Photos,
	}
}

func (b *AppointmentBuilder) BuildDomain() (*appointment.Appointment, error) {
	return appointment.NewAppointment(b.BuildParams(), b.Now)
}

// BuildReconstructed skips construction rules so tests can start from any status.
func (b *AppointmentBuilder) BuildReconstructed() *appointment.Appointment {
	return appointment.ReconstructAppointment(appointment.ReconstructParams{
		ID:              b.ID,
		CustomerID:      b.CustomerID,
		VehicleID:       b.VehicleID,
		ServiceCenterID: b.ServiceCenterID,
		ServiceType:     b.ServiceType,
		RequestedDate:   b.RequestedDate,
		Status:          b.Status,
		Urgency:         b.Urgency,
		DecidedPriority: b.DecidedPriority,
		SLADeadline:     b.SLADeadline,
		IsAccidental:    b.IsAccidental,
		Photos:          b.Photos,
		CreatedAt:       b.Now,
		UpdatedAt:       b.Now,
	})
}

func (b *AppointmentBuilder) BuildCommand() commands.CreateAppointmentRequest {
	return commands.CreateAppointmentRequest{
		CustomerID:      b.CustomerID,
		VehicleID:       b.VehicleID,
		ServiceCenterID: b.ServiceCenterID,
		ServiceType:     b.ServiceType,
		RequestedDate:   b.RequestedDate,
		Urgency:         b.Urgency,
		SLADeadline:     b.SLADeadline,
		IsAccidental:    b.IsAccidental,
		Photos:          b.Photos,
	}
}

func (b *AppointmentBuilder) BuildCreateRequestDTO() reqdto.CreateAppointmentRequest {
	return reqdto.CreateAppointmentRequest{
		CustomerID:      b.CustomerID,
		VehicleID:       b.VehicleID,
		ServiceCenterID: b.ServiceCenterID,
		ServiceType:     b.ServiceType,
		RequestedDate:   b.RequestedDate,
		Urgency:         string(b.Urgency),
		SLADeadline:     b.SLADeadline,
		IsAccidental:    b.IsAccidental,
		Photos:          b.Photos,
	}
}

func (b *AppointmentBuilder) BuildView() *queries.AppointmentView {
	view := &queries.AppointmentView{
		ID:                b.ID,
		CustomerID:        b.CustomerID,
		VehicleID:         b.VehicleID,
		ServiceCenterID:   b.ServiceCenterID,
		ServiceType:       b.ServiceType,
		RequestedDate:     b.RequestedDate,
		Status:            string(b.Status),
		Urgency:           string(b.Urgency),
		SLADeadline:       b.SLADeadline,
		IsAccidental:      b.IsAccidental,
		Photos:            append([]string(nil), b.Photos...),
		Triages:           []queries.TriageView{},
		ActiveAssignments: []queries.AssignmentView{},
		CreatedAt:         b.Now,
		UpdatedAt:         b.Now,
	}
	if b.DecidedPriority != nil {
		p := string(*b.DecidedPriority)
		view.DecidedPriority = &p
	}
	return view
}
