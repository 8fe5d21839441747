package response

import (
	"time"

	"autoservice-workflow/internal/domain/mechanic"
	"autoservice-workflow/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type AppointmentResponse struct {
	ID                   uuid.UUID            `json:"id"`
	CustomerID           uuid.UUID            `json:"customer_id"`
	VehicleID            uuid.UUID            `json:"vehicle_id"`
	ServiceCenterID      uuid.UUID            `json:"service_center_id"`
	ServiceType          string               `json:"service_type"`
	RequestedDate        time.Time            `json:"requested_date"`
	Status               string               `json:"status"`
	Urgency              string               `json:"urgency"`
	DecidedPriority      *string              `json:"decided_priority,omitempty"`
	SLADeadline          time.Time            `json:"sla_deadline"`
	SLABreached          bool                 `json:"sla_breached"`
	ActualCompletionDate *time.Time           `json:"actual_completion_date,omitempty"`
	IsAccidental         bool                 `json:"is_accidental"`
	Photos               []string             `json:"photos"`
	Triages              []TriageResponse     `json:"triages"`
	ActiveAssignments    []AssignmentResponse `json:"active_assignments"`
	Invoice              *InvoiceResponse     `json:"invoice,omitempty"`
	CreatedAt            time.Time            `json:"created_at"`
	UpdatedAt            time.Time            `json:"updated_at"`
}

type TriageResponse struct {
	ID              uuid.UUID `json:"id"`
	DecidedPriority string    `json:"decided_priority"`
	Source          string    `json:"source"`
	Reason          string    `json:"reason"`
	CreatedAt       time.Time `json:"created_at"`
}

type AssignmentResponse struct {
	ID            uuid.UUID  `json:"id"`
	AppointmentID uuid.UUID  `json:"appointment_id,omitempty"`
	MechanicID    uuid.UUID  `json:"mechanic_id"`
	AssignedAt    time.Time  `json:"assigned_at"`
	UnassignedAt  *time.Time `json:"unassigned_at,omitempty"`
}

func FromAppointmentView(v *queries.AppointmentView) (*AppointmentResponse, error) {
	res := &AppointmentResponse{}
	if err := copier.CopyWithOption(res, v, copier.Option{DeepCopy: true}); err != nil {
		return nil, err
	}
	if res.Photos == nil {
		res.Photos = []string{}
	}
	if res.Triages == nil {
		res.Triages = []TriageResponse{}
	}
	if res.ActiveAssignments == nil {
		res.ActiveAssignments = []AssignmentResponse{}
	}
	return res, nil
}

func FromAssignment(a *mechanic.Assignment) (*AssignmentResponse, error) {
	res := &AssignmentResponse{}
	if err := copier.Copy(res, a); err != nil {
		return nil, err
	}
	return res, nil
}
