package response

import (
	"time"

	"autoservice-workflow/internal/domain/invoice"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type InvoiceResponse struct {
	ID              uuid.UUID `json:"id"`
	AppointmentID   uuid.UUID `json:"appointment_id,omitempty"`
	Number          string    `json:"invoice_number"`
	Sequence        int64     `json:"sequence"`
	TotalCents      int64     `json:"total_amount_cents"`
	TotalAmountText string    `json:"total_amount,omitempty"`
	Status          string    `json:"status"`
	BillingDate     time.Time `json:"billing_date"`
	DueDate         time.Time `json:"due_date"`
}

type PaymentResponse struct {
	ID            uuid.UUID `json:"id"`
	AppointmentID uuid.UUID `json:"appointment_id"`
	InvoiceID     uuid.UUID `json:"invoice_id"`
	AmountCents   int64     `json:"amount_cents"`
	Method        string    `json:"method"`
	TransactionID uuid.UUID `json:"transaction_id"`
	Status        string    `json:"status"`
	PaidAt        time.Time `json:"paid_at"`
}

func FromInvoice(inv *invoice.Invoice) (*InvoiceResponse, error) {
	res := &InvoiceResponse{}
	if err := copier.Copy(res, inv); err != nil {
		return nil, err
	}
	res.TotalCents = inv.TotalAmount.Cents()
	res.TotalAmountText = inv.TotalAmount.String()
	return res, nil
}

func FromPayment(p *invoice.Payment) (*PaymentResponse, error) {
	res := &PaymentResponse{}
	if err := copier.Copy(res, p); err != nil {
		return nil, err
	}
	res.AmountCents = p.Amount.Cents()
	return res, nil
}
