package queries

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentView is the read model of one appointment with its workflow records.
type AppointmentView struct {
	ID                   uuid.UUID        `json:"id"`
	CustomerID           uuid.UUID        `json:"customer_id"`
	VehicleID            uuid.UUID        `json:"vehicle_id"`
	ServiceCenterID      uuid.UUID        `json:"service_center_id"`
	ServiceType          string           `json:"service_type"`
	RequestedDate        time.Time        `json:"requested_date"`
	Status               string           `json:"status"`
	Urgency              string           `json:"urgency"`
	DecidedPriority      *string          `json:"decided_priority,omitempty"`
	SLADeadline          time.Time        `json:"sla_deadline"`
	SLABreached          bool             `json:"sla_breached"`
	ActualCompletionDate *time.Time       `json:"actual_completion_date,omitempty"`
	IsAccidental         bool             `json:"is_accidental"`
	Photos               []string         `json:"photos"`
	Triages              []TriageView     `json:"triages"`
	ActiveAssignments    []AssignmentView `json:"active_assignments"`
	Invoice              *InvoiceView     `json:"invoice,omitempty"`
	CreatedAt            time.Time        `json:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at"`
}

type TriageView struct {
	ID              uuid.UUID `json:"id"`
	DecidedPriority string    `json:"decided_priority"`
	Source          string    `json:"source"`
	Reason          string    `json:"reason"`
	CreatedAt       time.Time `json:"created_at"`
}

type AssignmentView struct {
	ID         uuid.UUID `json:"id"`
	MechanicID uuid.UUID `json:"mechanic_id"`
	AssignedAt time.Time `json:"assigned_at"`
}

type InvoiceView struct {
	ID          uuid.UUID `json:"id"`
	Number      string    `json:"invoice_number"`
	Sequence    int64     `json:"sequence"`
	TotalCents  int64     `json:"total_amount_cents"`
	Status      string    `json:"status"`
	BillingDate time.Time `json:"billing_date"`
	DueDate     time.Time `json:"due_date"`
}

type NotificationView struct {
	ID            uuid.UUID `json:"id"`
	RecipientID   uuid.UUID `json:"recipient_id"`
	Type          string    `json:"type"`
	Message       string    `json:"message"`
	AppointmentID uuid.UUID `json:"appointment_id"`
	IsRead        bool      `json:"is_read"`
	CreatedAt     time.Time `json:"created_at"`
}
