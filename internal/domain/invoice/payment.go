package invoice

import (
	"strings"
	"time"

	"autoservice-workflow/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrInvalidMethod = errs.Wrap(errs.ErrValidation, "unsupported payment method")

type PaymentMethod string

const (
	MethodCash         PaymentMethod = "CASH"
	MethodCard         PaymentMethod = "CARD"
	MethodUPI          PaymentMethod = "UPI"
	MethodBankTransfer PaymentMethod = "BANK_TRANSFER"
)

func ParseMethod(s string) (PaymentMethod, error) {
	m := PaymentMethod(strings.ToUpper(strings.TrimSpace(s)))
	switch m {
	case MethodCash, MethodCard, MethodUPI, MethodBankTransfer:
		return m, nil
	default:
		return "", ErrInvalidMethod
	}
}

type PaymentStatus string

const (
	PaymentSuccess PaymentStatus = "SUCCESS"
	PaymentFailed  PaymentStatus = "FAILED"
)

type Payment struct {
	ID            uuid.UUID
	AppointmentID uuid.UUID
	InvoiceID     uuid.UUID
	Amount        Money
	Method        PaymentMethod
	TransactionID uuid.UUID
	Status        PaymentStatus
	PaidAt        time.Time
}

// Settle records a successful payment against inv and flips it to PAID.
func Settle(inv *Invoice, amount Money, method PaymentMethod, now time.Time) (*Payment, error) {
	if inv.Status == StatusPaid {
		return nil, ErrAlreadyPaid
	}
	if !amount.Equal(inv.TotalAmount) {
		return nil, ErrAmountMismatch
	}
	if err := inv.MarkPaid(); err != nil {
		return nil, err
	}
	return &Payment{
		ID:            uuid.New(),
		AppointmentID: inv.AppointmentID,
		InvoiceID:     inv.ID,
		Amount:        amount,
		Method:        method,
		TransactionID: uuid.New(),
		Status:        PaymentSuccess,
		PaidAt:        now,
	}, nil
}
