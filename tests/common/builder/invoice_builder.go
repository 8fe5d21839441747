//go:build unit || e2e

package builder

import (
	"time"

	"autoservice-workflow/internal/domain/invoice"
	"autoservice-workflow/internal/domain/mechanic"

	"github.com/google/uuid"
)

type InvoiceBuilder struct {
	AppointmentID uuid.UUID
	Sequence      int64
	TotalCents    int64
	Status        invoice.Status
	BillingDate   time.Time
	DueIn         time.Duration
}

func NewInvoiceBuilder() *InvoiceBuilder {
	return &InvoiceBuilder{
		AppointmentID: uuid.New(),
		Sequence:      1,
		TotalCents:    125050,
		Status:        invoice.StatusSent,
		BillingDate:   time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC),
		DueIn:         7 * 24 * time.Hour,
	}
}

func (b *InvoiceBuilder) With(mutate func(*InvoiceBuilder)) *InvoiceBuilder {
	mutate(b)
	return b
}

func (b *InvoiceBuilder) BuildDomain() (*invoice.Invoice, error) {
	inv, err := invoice.NewInvoice(b.AppointmentID, b.Sequence, invoice.MoneyFromCents(b.TotalCents), b.BillingDate, b.DueIn)
	if err != nil {
		return nil, err
	}
	inv.Status = b.Status
	return inv, nil
}

type MechanicBuilder struct {
	ID              uuid.UUID
	ServiceCenterID uuid.UUID
	Name            string
	Status          mechanic.Status
}

func NewMechanicBuilder() *MechanicBuilder {
	return &MechanicBuilder{
		ID:              uuid.New(),
		ServiceCenterID: uuid.New(),
		Name:            "Ravi Kumar",
		Status:          mechanic.StatusActive,
	}
}

func (b *MechanicBuilder) With(mutate func(*MechanicBuilder)) *MechanicBuilder {
	mutate(b)
	return b
}

func (b *MechanicBuilder) Build() mechanic.Mechanic {
	return mechanic.Mechanic{
		ID:              b.ID,
		ServiceCenterID: b.ServiceCenterID,
		Name:            b.Name,
		Status:          b.Status,
	}
}
