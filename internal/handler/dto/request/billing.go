package request

import (
	"autoservice-workflow/internal/usecase/commands"

	"github.com/google/uuid"
)

type CreateInvoiceRequest struct {
	TotalAmountCents int64 `json:"total_amount_cents" binding:"required,gt=0"`
}

type RecordPaymentRequest struct {
	InvoiceID   uuid.UUID `json:"invoice_id" binding:"required"`
	AmountCents int64     `json:"amount_cents" binding:"required,gt=0"`
	Method      string    `json:"method" binding:"required"`
}

func (r *RecordPaymentRequest) ToCommand(appointmentID uuid.UUID) commands.RecordPaymentRequest {
	return commands.RecordPaymentRequest{
		AppointmentID: appointmentID,
		InvoiceID:     r.InvoiceID,
		AmountCents:   r.AmountCents,
		Method:        r.Method,
	}
}
