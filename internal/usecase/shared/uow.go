package shared

import (
	"context"
	"time"

	"autoservice-workflow/internal/domain/appointment"
	"autoservice-workflow/internal/domain/invoice"
	"autoservice-workflow/internal/domain/mechanic"
	"autoservice-workflow/internal/domain/notification"

	"github.com/google/uuid"
)

// UnitOfWork scopes every multi-record write of one logical operation. Within commits when fn
// returns nil and rolls everything back otherwise.
type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: Read-only transaction for multi-table consistent reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

type Tx interface {
	Appointments() AppointmentRepository
	Triages() TriageRepository
	Mechanics() MechanicRepository
	Assignments() AssignmentRepository
	Invoices() InvoiceRepository
	Payments() PaymentRepository
	Notifications() NotificationRepository
	Reads() CommandReads
}

type AppointmentRepository interface {
	Create(ctx context.Context, a *appointment.Appointment) error
	Get(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error)
	// GetForUpdate locks the appointment row until the transaction ends.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error)
	UpdateStatus(ctx context.Context, a *appointment.Appointment) error
	// ListStalePending returns PENDING appointments requested before requestedBefore, oldest
	// first, skipping the ids in exclude.
	ListStalePending(ctx context.Context, requestedBefore time.Time, exclude []uuid.UUID, limit int) ([]uuid.UUID, error)
}

type TriageRepository interface {
	Create(ctx context.Context, t *appointment.Triage) error
	ListByAppointment(ctx context.Context, appointmentID uuid.UUID) ([]appointment.Triage, error)
	Exists(ctx context.Context, appointmentID uuid.UUID) (bool, error)
}

type MechanicRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*mechanic.Mechanic, error)
	// LockForAssignment serializes assignment decisions per mechanic.
	LockForAssignment(ctx context.Context, id uuid.UUID) (*mechanic.Mechanic, error)
	ListByServiceCenter(ctx context.Context, serviceCenterID uuid.UUID, status mechanic.Status) ([]mechanic.Mechanic, error)
}

type AssignmentRepository interface {
	Create(ctx context.Context, a *mechanic.Assignment) error
	ListActiveByAppointment(ctx context.Context, appointmentID uuid.UUID) ([]mechanic.Assignment, error)
	CountActiveByMechanic(ctx context.Context, mechanicID uuid.UUID) (int, error)
	CloseActiveByAppointment(ctx context.Context, appointmentID uuid.UUID, at time.Time) (int, error)
}

type InvoiceRepository interface {
	// NextSequence allocates a fresh value of the global invoice counter.
	NextSequence(ctx context.Context) (int64, error)
	Create(ctx context.Context, inv *invoice.Invoice) error
	GetByAppointment(ctx context.Context, appointmentID uuid.UUID) (*invoice.Invoice, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*invoice.Invoice, error)
	UpdateStatus(ctx context.Context, inv *invoice.Invoice) error
	ListDueBetween(ctx context.Context, status invoice.Status, from, to time.Time) ([]invoice.Invoice, error)
	// RecordReminder reports false when the reminder was already recorded.
	RecordReminder(ctx context.Context, invoiceID uuid.UUID, kind invoice.ReminderKind, at time.Time) (bool, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, p *invoice.Payment) error
}

type NotificationRepository interface {
	Create(ctx context.Context, n *notification.Notification) error
	MarkRead(ctx context.Context, kind notification.RecipientKind, id uuid.UUID) error
	MarkAllRead(ctx context.Context, kind notification.RecipientKind, recipientID uuid.UUID) (int, error)
	ListByRecipient(ctx context.Context, kind notification.RecipientKind, recipientID uuid.UUID, limit int) ([]notification.Notification, error)
}

// CommandReads exposes the read-only projections owned by neighbouring modules.
type CommandReads interface {
	CustomerByID(ctx context.Context, id uuid.UUID) (*CustomerSnapshot, error)
	VehicleByID(ctx context.Context, id uuid.UUID) (*VehicleSnapshot, error)
	ServiceCenterByID(ctx context.Context, id uuid.UUID) (*ServiceCenterSnapshot, error)
	JobCardsByAppointment(ctx context.Context, appointmentID uuid.UUID) ([]JobCardSnapshot, error)
}

// CustomerDirectory answers the customer existence check.
type CustomerDirectory interface {
	Exists(ctx context.Context, customerID uuid.UUID) (bool, error)
}
