package invoice

import (
	"fmt"
	"time"

	"autoservice-workflow/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrAlreadyInvoiced = errs.Wrap(errs.ErrConflict, "invoice already exists for appointment")
	ErrAlreadyPaid     = errs.Wrap(errs.ErrConflict, "invoice is already paid")
	ErrInvalidSequence = errs.Wrap(errs.ErrValidation, "invoice sequence must be positive")
	ErrInvoiceMismatch = errs.Wrap(errs.ErrNotFound, "invoice does not belong to appointment")
	ErrAmountMismatch  = errs.Wrap(errs.ErrValidation, "payment amount does not match invoice total")
)

type Status string

const (
	StatusSent    Status = "SENT"
	StatusPaid    Status = "PAID"
	StatusOverdue Status = "OVERDUE"
)

const numberPrefix = "INV-"

// FormatNumber renders the human-readable invoice number: INV- and six zero-padded digits.
func FormatNumber(sequence int64) string {
	return fmt.Sprintf("%s%06d", numberPrefix, sequence)
}

type Invoice struct {
	ID            uuid.UUID
	AppointmentID uuid.UUID
	Sequence      int64
	Number        string
	TotalAmount   Money
	Status        Status
	BillingDate   time.Time
	DueDate       time.Time
}

// NewInvoice binds a freshly allocated sequence value. The sequence must come from the same
// transaction that will insert the row.
func NewInvoice(appointmentID uuid.UUID, sequence int64, total Money, billedAt time.Time, dueIn time.Duration) (*Invoice, error) {
	if sequence <= 0 {
		return nil, ErrInvalidSequence
	}
	if total.Cents() <= 0 {
		return nil, ErrNonPositiveAmount
	}
	return &Invoice{
		ID:            uuid.New(),
		AppointmentID: appointmentID,
		Sequence:      sequence,
		Number:        FormatNumber(sequence),
		TotalAmount:   total,
		Status:        StatusSent,
		BillingDate:   billedAt,
		DueDate:       billedAt.Add(dueIn),
	}, nil
}

func (i *Invoice) MarkPaid() error {
	if i.Status == StatusPaid {
		return ErrAlreadyPaid
	}
	i.Status = StatusPaid
	return nil
}

// MarkOverdue reports whether the status changed; only SENT invoices go overdue.
func (i *Invoice) MarkOverdue() bool {
	if i.Status != StatusSent {
		return false
	}
	i.Status = StatusOverdue
	return true
}
