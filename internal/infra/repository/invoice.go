package repository

import (
	"context"
	"time"

	"autoservice-workflow/internal/domain/invoice"
	"autoservice-workflow/internal/infra"
	"autoservice-workflow/internal/infra/db"
	"autoservice-workflow/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const invoiceColumns = `id, appointment_id, sequence, invoice_number, total_amount_cents, status, billing_date, due_date`

type InvoiceRepository struct {
	db db.DBTX
}

func NewInvoiceRepository(db db.DBTX) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// NextSequence draws from a Postgres sequence: values are never handed out twice, even to
// transactions that later roll back.
func (r *InvoiceRepository) NextSequence(ctx context.Context) (int64, error) {
	var seq int64
	if err := r.db.QueryRow(ctx, `SELECT nextval('invoice_sequence')`).Scan(&seq); err != nil {
		return 0, infra.WrapRepoErr("failed to allocate invoice sequence", err)
	}
	return seq, nil
}

func (r *InvoiceRepository) Create(ctx context.Context, inv *invoice.Invoice) error {
	_, err := r.db.Exec(ctx, `INSERT INTO invoices (`+invoiceColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		inv.ID, inv.AppointmentID, inv.Sequence, inv.Number, inv.TotalAmount.Cents(),
		string(inv.Status), inv.BillingDate, inv.DueDate)
	if err != nil {
		return infra.WrapRepoErr("failed to create invoice", err)
	}
	return nil
}

func (r *InvoiceRepository) GetByAppointment(ctx context.Context, appointmentID uuid.UUID) (*invoice.Invoice, error) {
	return r.get(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE appointment_id = $1`, appointmentID)
}

func (r *InvoiceRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*invoice.Invoice, error) {
	return r.get(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1 FOR UPDATE`, id)
}

func (r *InvoiceRepository) get(ctx context.Context, query string, arg uuid.UUID) (*invoice.Invoice, error) {
	inv, err := scanInvoice(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("invoice not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find invoice", err)
	}
	return &inv, nil
}

func (r *InvoiceRepository) UpdateStatus(ctx context.Context, inv *invoice.Invoice) error {
	tag, err := r.db.Exec(ctx, `UPDATE invoices SET status = $2 WHERE id = $1`, inv.ID, string(inv.Status))
	if err != nil {
		return infra.WrapRepoErr("failed to update invoice status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NotFound("invoice not found")
	}
	return nil
}

func (r *InvoiceRepository) ListDueBetween(ctx context.Context, status invoice.Status, from, to time.Time) ([]invoice.Invoice, error) {
	rows, err := r.db.Query(ctx, `SELECT `+invoiceColumns+` FROM invoices
		WHERE status = $1 AND due_date >= $2 AND due_date < $3
		ORDER BY sequence`, string(status), from, to)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list due invoices", err)
	}
	invoices, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (invoice.Invoice, error) {
		return scanInvoice(row)
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan invoices", err)
	}
	return invoices, nil
}

func (r *InvoiceRepository) RecordReminder(ctx context.Context, invoiceID uuid.UUID, kind invoice.ReminderKind, at time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, `INSERT INTO invoice_reminders (invoice_id, kind, sent_at)
		VALUES ($1, $2, $3) ON CONFLICT (invoice_id, kind) DO NOTHING`, invoiceID, string(kind), at)
	if err != nil {
		return false, infra.WrapRepoErr("failed to record reminder", err)
	}
	return tag.RowsAffected() == 1, nil
}

func scanInvoice(row pgx.Row) (invoice.Invoice, error) {
	var (
		inv    invoice.Invoice
		cents  int64
		status string
	)
	err := row.Scan(&inv.ID, &inv.AppointmentID, &inv.Sequence, &inv.Number, &cents, &status, &inv.BillingDate, &inv.DueDate)
	inv.TotalAmount = invoice.MoneyFromCents(cents)
	inv.Status = invoice.Status(status)
	return inv, err
}

type PaymentRepository struct {
	db db.DBTX
}

func NewPaymentRepository(db db.DBTX) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(ctx context.Context, p *invoice.Payment) error {
	_, err := r.db.Exec(ctx, `INSERT INTO payments
		(id, appointment_id, invoice_id, amount_cents, method, transaction_id, status, paid_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.AppointmentID, p.InvoiceID, p.Amount.Cents(), string(p.Method), p.TransactionID,
		string(p.Status), p.PaidAt)
	if err != nil {
		return infra.WrapRepoErr("failed to create payment", err)
	}
	return nil
}
