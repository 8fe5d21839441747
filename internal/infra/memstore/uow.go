package memstore

import (
	"context"
	"time"

	"autoservice-workflow/internal/usecase/shared"
)

type UnitOfWork struct {
	store   *Store
	timeout time.Duration
}

func NewUnitOfWork(store *Store, timeout time.Duration) *UnitOfWork {
	return &UnitOfWork{store: store, timeout: timeout}
}

func (u *UnitOfWork) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return u.run(ctx, false, fn)
}

func (u *UnitOfWork) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return u.run(ctx, true, fn)
}

func (u *UnitOfWork) run(ctx context.Context, readOnly bool, fn func(ctx context.Context, tx shared.Tx) error) error {
	if u.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, u.timeout)
		defer cancel()
	}

	if err := u.store.acquire(ctx); err != nil {
		return shared.ClassifyTxErr(ctx, err)
	}
	defer u.store.release()

	work := u.store.state.clone()
	if err := fn(ctx, &memTx{st: work}); err != nil {
		return shared.ClassifyTxErr(ctx, err)
	}
	if readOnly {
		return nil
	}
	// an overrun transaction is discarded even if fn itself succeeded
	if err := ctx.Err(); err != nil {
		return shared.ClassifyTxErr(ctx, err)
	}
	if err := u.store.failCommit; err != nil {
		u.store.failCommit = nil
		return shared.ClassifyTxErr(ctx, err)
	}
	u.store.state = work
	return nil
}

type memTx struct {
	st *state
}

func (t *memTx) Appointments() shared.AppointmentRepository   { return appointmentRepo{t.st} }
func (t *memTx) Triages() shared.TriageRepository             { return triageRepo{t.st} }
func (t *memTx) Mechanics() shared.MechanicRepository         { return mechanicRepo{t.st} }
func (t *memTx) Assignments() shared.AssignmentRepository     { return assignmentRepo{t.st} }
func (t *memTx) Invoices() shared.InvoiceRepository           { return invoiceRepo{t.st} }
func (t *memTx) Payments() shared.PaymentRepository           { return paymentRepo{t.st} }
func (t *memTx) Notifications() shared.NotificationRepository { return notificationRepo{t.st} }
func (t *memTx) Reads() shared.CommandReads                   { return commandReads{t.st} }
