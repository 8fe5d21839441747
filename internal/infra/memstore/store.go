// Package memstore is an in-process implementation of the unit of work. Transactions are
// serialized on a single lock and run against a private copy of the state that replaces the
// committed state only when the transaction function succeeds.
package memstore

import (
	"context"
	"sort"
	"time"

	"autoservice-workflow/internal/domain/appointment"
	"autoservice-workflow/internal/domain/invoice"
	"autoservice-workflow/internal/domain/mechanic"
	"autoservice-workflow/internal/domain/notification"
	"autoservice-workflow/internal/usecase/shared"

	"github.com/google/uuid"
)

type reminderKey struct {
	invoiceID uuid.UUID
	kind      invoice.ReminderKind
}

type state struct {
	appointments  map[uuid.UUID]appointment.Appointment
	triages       []appointment.Triage
	mechanics     map[uuid.UUID]mechanic.Mechanic
	assignments   []mechanic.Assignment
	invoices      map[uuid.UUID]invoice.Invoice
	invoiceSeq    int64
	reminders     map[reminderKey]time.Time
	payments      []invoice.Payment
	notifications []notification.Notification
	customers     map[uuid.UUID]shared.CustomerSnapshot
	vehicles      map[uuid.UUID]shared.VehicleSnapshot
	centers       map[uuid.UUID]shared.ServiceCenterSnapshot
	jobCards      map[uuid.UUID][]shared.JobCardSnapshot
}

func newState() *state {
	return &state{
		appointments: map[uuid.UUID]appointment.Appointment{},
		mechanics:    map[uuid.UUID]mechanic.Mechanic{},
		invoices:     map[uuid.UUID]invoice.Invoice{},
		reminders:    map[reminderKey]time.Time{},
		customers:    map[uuid.UUID]shared.CustomerSnapshot{},
		vehicles:     map[uuid.UUID]shared.VehicleSnapshot{},
		centers:      map[uuid.UUID]shared.ServiceCenterSnapshot{},
		jobCards:     map[uuid.UUID][]shared.JobCardSnapshot{},
	}
}

func (s *state) clone() *state {
	c := &state{
		appointments:  make(map[uuid.UUID]appointment.Appointment, len(s.appointments)),
		triages:       append([]appointment.Triage(nil), s.triages...),
		mechanics:     make(map[uuid.UUID]mechanic.Mechanic, len(s.mechanics)),
		assignments:   append([]mechanic.Assignment(nil), s.assignments...),
		invoices:      make(map[uuid.UUID]invoice.Invoice, len(s.invoices)),
		invoiceSeq:    s.invoiceSeq,
		reminders:     make(map[reminderKey]time.Time, len(s.reminders)),
		payments:      append([]invoice.Payment(nil), s.payments...),
		notifications: append([]notification.Notification(nil), s.notifications...),
		customers:     s.customers,
		vehicles:      s.vehicles,
		centers:       s.centers,
		jobCards:      s.jobCards,
	}
	for k, v := range s.appointments {
		c.appointments[k] = v
	}
	for k, v := range s.mechanics {
		c.mechanics[k] = v
	}
	for k, v := range s.invoices {
		c.invoices[k] = v
	}
	for k, v := range s.reminders {
		c.reminders[k] = v
	}
	return c
}

type Store struct {
	sem        chan struct{}
	state      *state
	failCommit error
}

func New() *Store {
	return &Store{
		sem:   make(chan struct{}, 1),
		state: newState(),
	}
}

func (s *Store) acquire(ctx context.Context) error {
	select {
	case s.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) release() {
	<-s.sem
}

// view runs fn against the committed state. Seed and inspection helpers only.
func (s *Store) view(fn func(st *state)) {
	s.sem <- struct{}{}
	defer s.release()
	fn(s.state)
}

// FailNextCommit makes the next successful transaction fail at commit with err.
func (s *Store) FailNextCommit(err error) {
	s.view(func(*state) { s.failCommit = err })
}

func (s *Store) AddCustomer(c shared.CustomerSnapshot) {
	s.view(func(st *state) { st.customers[c.ID] = c })
}

func (s *Store) AddVehicle(v shared.VehicleSnapshot) {
	s.view(func(st *state) { st.vehicles[v.ID] = v })
}

func (s *Store) AddServiceCenter(c shared.ServiceCenterSnapshot) {
	s.view(func(st *state) { st.centers[c.ID] = c })
}

func (s *Store) AddMechanic(m mechanic.Mechanic) {
	s.view(func(st *state) { st.mechanics[m.ID] = m })
}

func (s *Store) AddJobCard(appointmentID uuid.UUID, jc shared.JobCardSnapshot) {
	s.view(func(st *state) { st.jobCards[appointmentID] = append(st.jobCards[appointmentID], jc) })
}

// PutAppointment stores an appointment as-is, bypassing the workflow.
func (s *Store) PutAppointment(a *appointment.Appointment) {
	s.view(func(st *state) { st.appointments[a.ID()] = *a })
}

func (s *Store) PutInvoice(inv invoice.Invoice) {
	s.view(func(st *state) {
		st.invoices[inv.ID] = inv
		if inv.Sequence > st.invoiceSeq {
			st.invoiceSeq = inv.Sequence
		}
	})
}

func (s *Store) PutNotification(n notification.Notification) {
	s.view(func(st *state) { st.notifications = append(st.notifications, n) })
}

// Exists implements the customer directory over the seeded customers.
func (s *Store) Exists(ctx context.Context, customerID uuid.UUID) (bool, error) {
	if err := s.acquire(ctx); err != nil {
		return false, err
	}
	defer s.release()
	_, ok := s.state.customers[customerID]
	return ok, nil
}

func (s *Store) Appointment(id uuid.UUID) (*appointment.Appointment, bool) {
	var (
		a  appointment.Appointment
		ok bool
	)
	s.view(func(st *state) { a, ok = st.appointments[id] })
	if !ok {
		return nil, false
	}
	return &a, true
}

func (s *Store) Triages(appointmentID uuid.UUID) []appointment.Triage {
	var out []appointment.Triage
	s.view(func(st *state) {
		for _, t := range st.triages {
			if t.AppointmentID == appointmentID {
				out = append(out, t)
			}
		}
	})
	return out
}

func (s *Store) Assignments(appointmentID uuid.UUID) []mechanic.Assignment {
	var out []mechanic.Assignment
	s.view(func(st *state) {
		for _, a := range st.assignments {
			if a.AppointmentID == appointmentID {
				out = append(out, a)
			}
		}
	})
	return out
}

func (s *Store) Invoices() []invoice.Invoice {
	var out []invoice.Invoice
	s.view(func(st *state) {
		for _, inv := range st.invoices {
			out = append(out, inv)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Sequence < out[j].Sequence })
	return out
}

func (s *Store) Payments() []invoice.Payment {
	var out []invoice.Payment
	s.view(func(st *state) { out = append(out, st.payments...) })
	return out
}

func (s *Store) Notifications() []notification.Notification {
	var out []notification.Notification
	s.view(func(st *state) { out = append(out, st.notifications...) })
	return out
}
