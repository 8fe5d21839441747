package queries

import (
	"context"

	"autoservice-workflow/internal/domain/appointment"
	"autoservice-workflow/internal/pkg/errs"
	"autoservice-workflow/internal/usecase/shared"

	"github.com/google/uuid"
)

type AppointmentQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*AppointmentView, error)
}

type appointmentQueriesImpl struct {
	uow shared.UnitOfWork
}

func NewAppointmentQueries(uow shared.UnitOfWork) AppointmentQueries {
	return &appointmentQueriesImpl{uow: uow}
}

// GetByID reads the appointment and its workflow records from one consistent snapshot.
func (q *appointmentQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*AppointmentView, error) {
	var view *AppointmentView
	err := q.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		appt, err := tx.Appointments().Get(ctx, id)
		if err != nil {
			return err
		}
		view = toAppointmentView(appt)

		triages, err := tx.Triages().ListByAppointment(ctx, id)
		if err != nil {
			return err
		}
		for _, t := range triages {
			view.Triages = append(view.Triages, TriageView{
				ID:              t.ID,
				DecidedPriority: string(t.DecidedPriority),
				Source:          string(t.Source),
				Reason:          string(t.Reason),
				CreatedAt:       t.CreatedAt,
			})
		}

		assignments, err := tx.Assignments().ListActiveByAppointment(ctx, id)
		if err != nil {
			return err
		}
		for _, a := range assignments {
			view.ActiveAssignments = append(view.ActiveAssignments, AssignmentView{
				ID:         a.ID,
				MechanicID: a.MechanicID,
				AssignedAt: a.AssignedAt,
			})
		}

		inv, err := tx.Invoices().GetByAppointment(ctx, id)
		switch {
		case err == nil:
			view.Invoice = &InvoiceView{
				ID:          inv.ID,
				Number:      inv.Number,
				Sequence:    inv.Sequence,
				TotalCents:  inv.TotalAmount.Cents(),
				Status:      string(inv.Status),
				BillingDate: inv.BillingDate,
				DueDate:     inv.DueDate,
			}
		case !errs.Is(err, errs.ErrNotFound):
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func toAppointmentView(a *appointment.Appointment) *AppointmentView {
	view := &AppointmentView{
		ID:                   a.ID(),
		CustomerID:           a.CustomerID(),
		VehicleID:            a.VehicleID(),
		ServiceCenterID:      a.ServiceCenterID(),
		ServiceType:          a.ServiceType(),
		RequestedDate:        a.RequestedDate(),
		Status:               string(a.Status()),
		Urgency:              string(a.Urgency()),
		SLADeadline:          a.SLADeadline(),
		SLABreached:          a.SLABreached(),
		ActualCompletionDate: a.ActualCompletionDate(),
		IsAccidental:         a.IsAccidental(),
		Photos:               a.Photos(),
		Triages:              []TriageView{},
		ActiveAssignments:    []AssignmentView{},
		CreatedAt:            a.CreatedAt(),
		UpdatedAt:            a.UpdatedAt(),
	}
	if p := a.DecidedPriority(); p != nil {
		s := string(*p)
		view.DecidedPriority = &s
	}
	return view
}
