package event

type Type string

const (
	TypeAppointmentCreated    Type = "appointment-created"
	TypeStatusUpdated         Type = "appointment-status-update"
	TypeInvoiceCreated        Type = "appointment-invoice-created"
	TypePaymentCompleted      Type = "appointment-payment-completed"
	TypeMechanicAssigned      Type = "appointment-mechanic-assigned"
	TypeDecisionEscalated     Type = "appointment-decision-escalated"
	TypePaymentReminderIssued Type = "invoice-payment-reminder"
)

var allTypes = []Type{
	TypeAppointmentCreated,
	TypeStatusUpdated,
	TypeInvoiceCreated,
	TypePaymentCompleted,
	TypeMechanicAssigned,
	TypeDecisionEscalated,
	TypePaymentReminderIssued,
}

func AllTypes() []Type {
	return append([]Type(nil), allTypes...)
}

func (t Type) String() string {
	return string(t)
}
