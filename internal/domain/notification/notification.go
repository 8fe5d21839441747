package notification

import (
	"strings"
	"time"

	"autoservice-workflow/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrEmptyMessage     = errs.Wrap(errs.ErrValidation, "notification message is empty")
	ErrInvalidRecipient = errs.Wrap(errs.ErrValidation, "invalid recipient kind")
)

type RecipientKind string

const (
	RecipientCustomer      RecipientKind = "CUSTOMER"
	RecipientServiceCenter RecipientKind = "SERVICE_CENTER"
)

func ParseRecipientKind(s string) (RecipientKind, error) {
	k := RecipientKind(strings.ToUpper(strings.TrimSpace(s)))
	switch k {
	case RecipientCustomer, RecipientServiceCenter:
		return k, nil
	default:
		return "", ErrInvalidRecipient
	}
}

type Type string

const (
	TypeAppointmentCreated   Type = "APPOINTMENT_CREATED"
	TypeAppointmentApproved  Type = "APPOINTMENT_APPROVED"
	TypeAppointmentRejected  Type = "APPOINTMENT_REJECTED"
	TypeAppointmentInService Type = "APPOINTMENT_IN_SERVICE"
	TypeAppointmentCompleted Type = "APPOINTMENT_COMPLETED"
	TypeInvoiceGenerated     Type = "INVOICE_GENERATED"
	TypePaymentPending       Type = "PAYMENT_PENDING"
	TypePaymentOverdue       Type = "PAYMENT_OVERDUE"
	TypePaymentCompleted     Type = "PAYMENT_COMPLETED"
	TypeMechanicAssigned     Type = "MECHANIC_ASSIGNED"
	TypeDecisionSLABreached  Type = "DECISION_SLA_BREACHED"
)

type Notification struct {
	ID            uuid.UUID     `json:"id"`
	RecipientKind RecipientKind `json:"recipientKind"`
	RecipientID   uuid.UUID     `json:"recipientId"`
	Type          Type          `json:"type"`
	Message       string        `json:"message"`
	AppointmentID uuid.UUID     `json:"appointmentId"`
	IsRead        bool          `json:"isRead"`
	CreatedAt     time.Time     `json:"createdAt"`
}

func New(kind RecipientKind, recipientID uuid.UUID, typ Type, message string, appointmentID uuid.UUID, now time.Time) (*Notification, error) {
	if message == "" {
		return nil, ErrEmptyMessage
	}
	return &Notification{
		ID:            uuid.New(),
		RecipientKind: kind,
		RecipientID:   recipientID,
		Type:          typ,
		Message:       message,
		AppointmentID: appointmentID,
		CreatedAt:     now,
	}, nil
}

// Topic is the real-time channel the notification is pushed on.
func (n *Notification) Topic() string {
	if n.RecipientKind == RecipientServiceCenter {
		return ServiceCenterNotificationTopic(n.RecipientID)
	}
	return CustomerNotificationTopic(n.RecipientID)
}
