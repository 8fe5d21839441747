package event

import (
	"time"

	"autoservice-workflow/internal/domain/notification"

	"github.com/google/uuid"
)

// Payload is implemented by every event body.
type Payload interface {
	EventType() Type
}

// Event is an immutable fact published after a committed state change.
type Event struct {
	ID         uuid.UUID `json:"id"`
	Type       Type      `json:"type"`
	OccurredAt time.Time `json:"occurredAt"`
	Payload    Payload   `json:"payload"`
}

func New(p Payload, now time.Time) Event {
	return Event{
		ID:         uuid.New(),
		Type:       p.EventType(),
		OccurredAt: now,
		Payload:    p,
	}
}

type VehicleInfo struct {
	Name  string `json:"vehicleName"`
	Make  string `json:"vehicleMake"`
	Model string `json:"vehicleModel"`
}

type CustomerInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type ServiceCenterInfo struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
}

// AppointmentSnapshot is denormalized inside the transaction so subscribers can render
// messages without further lookups.
type AppointmentSnapshot struct {
	ID                   uuid.UUID         `json:"id"`
	CustomerID           uuid.UUID         `json:"userId"`
	VehicleID            uuid.UUID         `json:"vehicleId"`
	ServiceCenterID      uuid.UUID         `json:"serviceCenterId"`
	ServiceType          string            `json:"serviceType"`
	Status               string            `json:"status"`
	Urgency              string            `json:"userUrgency"`
	DecidedPriority      string            `json:"decidedPriority,omitempty"`
	RequestedDate        time.Time         `json:"requestedDate"`
	SLADeadline          time.Time         `json:"slaDeadline"`
	SLABreached          bool              `json:"slaBreached"`
	ActualCompletionDate *time.Time        `json:"actualCompletionDate,omitempty"`
	IsAccidental         bool              `json:"isAccidental"`
	Photos               []string          `json:"photos"`
	Vehicle              VehicleInfo       `json:"vehicle"`
	Customer             CustomerInfo      `json:"owner"`
	ServiceCenter        ServiceCenterInfo `json:"serviceCenter"`
}

type AppointmentCreated struct {
	Appointment     AppointmentSnapshot `json:"appointment"`
	ServiceCenterID uuid.UUID           `json:"serviceCenterId"`
}

func (AppointmentCreated) EventType() Type { return TypeAppointmentCreated }

// AssignedMechanic is a mechanic bound to the appointment by the transition itself.
type AssignedMechanic struct {
	MechanicID   uuid.UUID `json:"mechanicId"`
	MechanicName string    `json:"mechanicName"`
	AssignedAt   time.Time `json:"assignedAt"`
}

type StatusUpdated struct {
	Appointment       AppointmentSnapshot `json:"appointment"`
	AppointmentID     uuid.UUID           `json:"appointmentId"`
	Message           string              `json:"message"`
	NotificationType  notification.Type   `json:"type"`
	Status            string              `json:"status"`
	AssignedMechanics []AssignedMechanic  `json:"assignedMechanics,omitempty"`
}

func (StatusUpdated) EventType() Type { return TypeStatusUpdated }

type PartSnapshot struct {
	Name           string `json:"name"`
	UnitPriceCents int64  `json:"unitPrice"`
	Quantity       int    `json:"quantity"`
}

type JobCardSnapshot struct {
	Name        string         `json:"jobName"`
	Description string         `json:"jobDescription"`
	PriceCents  int64          `json:"price"`
	Parts       []PartSnapshot `json:"parts"`
}

type InvoiceSnapshot struct {
	ID               uuid.UUID `json:"id"`
	AppointmentID    uuid.UUID `json:"appointmentId"`
	Sequence         int64     `json:"invoiceCount"`
	Number           string    `json:"invoiceNumber"`
	TotalAmountCents int64     `json:"totalAmount"`
	Status           string    `json:"status"`
	BillingDate      time.Time `json:"billingDate"`
	DueDate          time.Time `json:"dueDate"`
}

type InvoiceCreated struct {
	Appointment AppointmentSnapshot `json:"appointment"`
	JobCards    []JobCardSnapshot   `json:"jobCards"`
	Invoice     InvoiceSnapshot     `json:"invoice"`
}

func (InvoiceCreated) EventType() Type { return TypeInvoiceCreated }

type PaymentCompleted struct {
	ServiceCenterID uuid.UUID `json:"serviceCenterId"`
	AppointmentID   uuid.UUID `json:"appointmentId"`
	ServiceType     string    `json:"serviceType"`
	InvoiceID       uuid.UUID `json:"invoiceId"`
	TransactionID   uuid.UUID `json:"transactionId"`
	PaidAt          time.Time `json:"paidAt"`
}

func (PaymentCompleted) EventType() Type { return TypePaymentCompleted }

// MechanicAssigned is published for a manual assignment. Assignments made by a transition ride
// on its StatusUpdated.
type MechanicAssigned struct {
	Appointment  AppointmentSnapshot `json:"appointment"`
	MechanicID   uuid.UUID           `json:"mechanicId"`
	MechanicName string              `json:"mechanicName"`
	AssignedAt   time.Time           `json:"assignedAt"`
}

func (MechanicAssigned) EventType() Type { return TypeMechanicAssigned }

type DecisionEscalated struct {
	Appointment AppointmentSnapshot `json:"appointment"`
	Waited      time.Duration       `json:"waited"`
}

func (DecisionEscalated) EventType() Type { return TypeDecisionEscalated }

// PaymentReminderIssued carries a reminder already persisted by the sweep; subscribers only
// push it.
type PaymentReminderIssued struct {
	Notification notification.Notification `json:"notification"`
	InvoiceID    uuid.UUID                 `json:"invoiceId"`
	Kind         string                    `json:"kind"`
}

func (PaymentReminderIssued) EventType() Type { return TypePaymentReminderIssued }
