package request

import (
	"time"

	"autoservice-workflow/internal/domain/appointment"
	"autoservice-workflow/internal/usecase/commands"

	"github.com/google/uuid"
)

type CreateAppointmentRequest struct {
	CustomerID      uuid.UUID `json:"customer_id" binding:"required"`
	VehicleID       uuid.UUID `json:"vehicle_id" binding:"required"`
	ServiceCenterID uuid.UUID `json:"service_center_id" binding:"required"`
	ServiceType     string    `json:"service_type" binding:"required,max=100"`
	RequestedDate   time.Time `json:"requested_date" binding:"required"`
	Urgency         string    `json:"urgency" binding:"required,oneof=LOW MEDIUM HIGH CRITICAL"`
	SLADeadline     time.Time `json:"sla_deadline" binding:"required"`
	IsAccidental    bool      `json:"is_accidental"`
	Photos          []string  `json:"photos" binding:"omitempty,max=20,dive,url"`
}

func (r *CreateAppointmentRequest) ToCommand() (commands.CreateAppointmentRequest, error) {
	urgency, err := appointment.ParsePriority(r.Urgency)
	if err != nil {
		return commands.CreateAppointmentRequest{}, err
	}
	return commands.CreateAppointmentRequest{
		CustomerID:      r.CustomerID,
		VehicleID:       r.VehicleID,
		ServiceCenterID: r.ServiceCenterID,
		ServiceType:     r.ServiceType,
		RequestedDate:   r.RequestedDate,
		Urgency:         urgency,
		SLADeadline:     r.SLADeadline,
		IsAccidental:    r.IsAccidental,
		Photos:          r.Photos,
	}, nil
}

type TransitionRequest struct {
	Status   string  `json:"status" binding:"required"`
	Priority *string `json:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH CRITICAL"`
	Source   string  `json:"source" binding:"omitempty,oneof=MANUAL AUTOMATIC"`
	Reason   string  `json:"reason" binding:"omitempty,oneof=MANUAL_OVERRIDE CUSTOMER_URGENCY ACCIDENT"`
}

func (r *TransitionRequest) ToCommand() (commands.TransitionRequest, error) {
	status, err := appointment.ParseStatus(r.Status)
	if err != nil {
		return commands.TransitionRequest{}, err
	}
	cmd := commands.TransitionRequest{
		Status: status,
		Source: appointment.TriageSource(r.Source),
		Reason: appointment.TriageReason(r.Reason),
	}
	if r.Priority != nil {
		p, perr := appointment.ParsePriority(*r.Priority)
		if perr != nil {
			return commands.TransitionRequest{}, perr
		}
		cmd.Priority = &p
	}
	return cmd, nil
}

type AssignMechanicRequest struct {
	MechanicID uuid.UUID `json:"mechanic_id" binding:"required"`
}
