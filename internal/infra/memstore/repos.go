package memstore

import (
	"context"
	"sort"
	"time"

	"autoservice-workflow/internal/domain/appointment"
	"autoservice-workflow/internal/domain/invoice"
	"autoservice-workflow/internal/domain/mechanic"
	"autoservice-workflow/internal/domain/notification"
	"autoservice-workflow/internal/infra"
	"autoservice-workflow/internal/usecase/shared"

	"github.com/google/uuid"
)

type appointmentRepo struct{ st *state }

func (r appointmentRepo) Create(_ context.Context, a *appointment.Appointment) error {
	if _, ok := r.st.appointments[a.ID()]; ok {
		return infra.WrapRepoErr("appointment already exists", nil, infra.KindDuplicateKey)
	}
	r.st.appointments[a.ID()] = *a
	return nil
}

func (r appointmentRepo) Get(_ context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	a, ok := r.st.appointments[id]
	if !ok {
		return nil, infra.NotFound("appointment not found")
	}
	return &a, nil
}

func (r appointmentRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	return r.Get(ctx, id)
}

func (r appointmentRepo) UpdateStatus(_ context.Context, a *appointment.Appointment) error {
	if _, ok := r.st.appointments[a.ID()]; !ok {
		return infra.NotFound("appointment not found")
	}
	r.st.appointments[a.ID()] = *a
	return nil
}

func (r appointmentRepo) ListStalePending(_ context.Context, requestedBefore time.Time, exclude []uuid.UUID, limit int) ([]uuid.UUID, error) {
	skip := make(map[uuid.UUID]struct{}, len(exclude))
	for _, id := range exclude {
		skip[id] = struct{}{}
	}
	var stale []appointment.Appointment
	for _, a := range r.st.appointments {
		if _, ok := skip[a.ID()]; ok {
			continue
		}
		if a.Status() == appointment.StatusPending && a.RequestedDate().Before(requestedBefore) {
			stale = append(stale, a)
		}
	}
	sort.Slice(stale, func(i, j int) bool {
		if !stale[i].RequestedDate().Equal(stale[j].RequestedDate()) {
			return stale[i].RequestedDate().Before(stale[j].RequestedDate())
		}
		return stale[i].ID().String() < stale[j].ID().String()
	})
	if limit > 0 && len(stale) > limit {
		stale = stale[:limit]
	}
	ids := make([]uuid.UUID, 0, len(stale))
	for _, a := range stale {
		ids = append(ids, a.ID())
	}
	return ids, nil
}

type triageRepo struct{ st *state }

func (r triageRepo) Create(_ context.Context, t *appointment.Triage) error {
	r.st.triages = append(r.st.triages, *t)
	return nil
}

func (r triageRepo) ListByAppointment(_ context.Context, appointmentID uuid.UUID) ([]appointment.Triage, error) {
	var out []appointment.Triage
	for _, t := range r.st.triages {
		if t.AppointmentID == appointmentID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r triageRepo) Exists(ctx context.Context, appointmentID uuid.UUID) (bool, error) {
	rows, err := r.ListByAppointment(ctx, appointmentID)
	return len(rows) > 0, err
}

type mechanicRepo struct{ st *state }

func (r mechanicRepo) Get(_ context.Context, id uuid.UUID) (*mechanic.Mechanic, error) {
	m, ok := r.st.mechanics[id]
	if !ok {
		return nil, infra.NotFound("mechanic not found")
	}
	return &m, nil
}

func (r mechanicRepo) LockForAssignment(ctx context.Context, id uuid.UUID) (*mechanic.Mechanic, error) {
	return r.Get(ctx, id)
}

func (r mechanicRepo) ListByServiceCenter(_ context.Context, serviceCenterID uuid.UUID, status mechanic.Status) ([]mechanic.Mechanic, error) {
	var out []mechanic.Mechanic
	for _, m := range r.st.mechanics {
		if m.ServiceCenterID == serviceCenterID && (status == "" || m.Status == status) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type assignmentRepo struct{ st *state }

func (r assignmentRepo) Create(_ context.Context, a *mechanic.Assignment) error {
	for _, existing := range r.st.assignments {
		if existing.MechanicID == a.MechanicID && existing.IsActive() {
			return infra.WrapRepoErr("mechanic already has an open assignment", nil, infra.KindDuplicateKey)
		}
	}
	r.st.assignments = append(r.st.assignments, *a)
	return nil
}

func (r assignmentRepo) ListActiveByAppointment(_ context.Context, appointmentID uuid.UUID) ([]mechanic.Assignment, error) {
	var out []mechanic.Assignment
	for _, a := range r.st.assignments {
		if a.AppointmentID == appointmentID && a.IsActive() {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r assignmentRepo) CountActiveByMechanic(_ context.Context, mechanicID uuid.UUID) (int, error) {
	n := 0
	for _, a := range r.st.assignments {
		if a.MechanicID == mechanicID && a.IsActive() {
			n++
		}
	}
	return n, nil
}

func (r assignmentRepo) CloseActiveByAppointment(_ context.Context, appointmentID uuid.UUID, at time.Time) (int, error) {
	n := 0
	for i := range r.st.assignments {
		a := &r.st.assignments[i]
		if a.AppointmentID == appointmentID && a.IsActive() {
			a.Close(at)
			n++
		}
	}
	return n, nil
}

type invoiceRepo struct{ st *state }

func (r invoiceRepo) NextSequence(context.Context) (int64, error) {
	r.st.invoiceSeq++
	return r.st.invoiceSeq, nil
}

func (r invoiceRepo) Create(_ context.Context, inv *invoice.Invoice) error {
	for _, existing := range r.st.invoices {
		if existing.AppointmentID == inv.AppointmentID {
			return infra.WrapRepoErr("invoice already exists for appointment", nil, infra.KindDuplicateKey)
		}
		if existing.Sequence == inv.Sequence {
			return infra.WrapRepoErr("invoice sequence already used", nil, infra.KindDuplicateKey)
		}
	}
	r.st.invoices[inv.ID] = *inv
	return nil
}

func (r invoiceRepo) GetByAppointment(_ context.Context, appointmentID uuid.UUID) (*invoice.Invoice, error) {
	for _, inv := range r.st.invoices {
		if inv.AppointmentID == appointmentID {
			return &inv, nil
		}
	}
	return nil, infra.NotFound("invoice not found")
}

func (r invoiceRepo) GetForUpdate(_ context.Context, id uuid.UUID) (*invoice.Invoice, error) {
	inv, ok := r.st.invoices[id]
	if !ok {
		return nil, infra.NotFound("invoice not found")
	}
	return &inv, nil
}

func (r invoiceRepo) UpdateStatus(_ context.Context, inv *invoice.Invoice) error {
	existing, ok := r.st.invoices[inv.ID]
	if !ok {
		return infra.NotFound("invoice not found")
	}
	existing.Status = inv.Status
	r.st.invoices[inv.ID] = existing
	return nil
}

func (r invoiceRepo) ListDueBetween(_ context.Context, status invoice.Status, from, to time.Time) ([]invoice.Invoice, error) {
	var out []invoice.Invoice
	for _, inv := range r.st.invoices {
		if inv.Status == status && !inv.DueDate.Before(from) && inv.DueDate.Before(to) {
			out = append(out, inv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sequence < out[j].Sequence })
	return out, nil
}

func (r invoiceRepo) RecordReminder(_ context.Context, invoiceID uuid.UUID, kind invoice.ReminderKind, at time.Time) (bool, error) {
	key := reminderKey{invoiceID: invoiceID, kind: kind}
	if _, ok := r.st.reminders[key]; ok {
		return false, nil
	}
	r.st.reminders[key] = at
	return true, nil
}

type paymentRepo struct{ st *state }

func (r paymentRepo) Create(_ context.Context, p *invoice.Payment) error {
	r.st.payments = append(r.st.payments, *p)
	return nil
}

type notificationRepo struct{ st *state }

func (r notificationRepo) Create(_ context.Context, n *notification.Notification) error {
	r.st.notifications = append(r.st.notifications, *n)
	return nil
}

func (r notificationRepo) MarkRead(_ context.Context, kind notification.RecipientKind, id uuid.UUID) error {
	for i := range r.st.notifications {
		n := &r.st.notifications[i]
		if n.ID == id && n.RecipientKind == kind {
			n.IsRead = true
			return nil
		}
	}
	return infra.NotFound("notification not found")
}

func (r notificationRepo) MarkAllRead(_ context.Context, kind notification.RecipientKind, recipientID uuid.UUID) (int, error) {
	n := 0
	for i := range r.st.notifications {
		row := &r.st.notifications[i]
		if row.RecipientKind == kind && row.RecipientID == recipientID && !row.IsRead {
			row.IsRead = true
			n++
		}
	}
	return n, nil
}

func (r notificationRepo) ListByRecipient(_ context.Context, kind notification.RecipientKind, recipientID uuid.UUID, limit int) ([]notification.Notification, error) {
	var out []notification.Notification
	for i := len(r.st.notifications) - 1; i >= 0; i-- {
		n := r.st.notifications[i]
		if n.RecipientKind == kind && n.RecipientID == recipientID {
			out = append(out, n)
			if limit > 0 && len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

type commandReads struct{ st *state }

func (r commandReads) CustomerByID(_ context.Context, id uuid.UUID) (*shared.CustomerSnapshot, error) {
	c, ok := r.st.customers[id]
	if !ok {
		return nil, infra.NotFound("customer not found")
	}
	return &c, nil
}

func (r commandReads) VehicleByID(_ context.Context, id uuid.UUID) (*shared.VehicleSnapshot, error) {
	v, ok := r.st.vehicles[id]
	if !ok {
		return nil, infra.NotFound("vehicle not found")
	}
	return &v, nil
}

func (r commandReads) ServiceCenterByID(_ context.Context, id uuid.UUID) (*shared.ServiceCenterSnapshot, error) {
	c, ok := r.st.centers[id]
	if !ok {
		return nil, infra.NotFound("service center not found")
	}
	return &c, nil
}

func (r commandReads) JobCardsByAppointment(_ context.Context, appointmentID uuid.UUID) ([]shared.JobCardSnapshot, error) {
	return append([]shared.JobCardSnapshot(nil), r.st.jobCards[appointmentID]...), nil
}
