package appointment

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type NewAppointmentParams struct {
	CustomerID      uuid.UUID
	VehicleID       uuid.UUID
	ServiceCenterID uuid.UUID
	ServiceType     string
	RequestedDate   time.Time
	Urgency         Priority
	SLADeadline     time.Time
	IsAccidental    bool
	Photos          []string
}

type Appointment struct {
	id                   uuid.UUID
	customerID           uuid.UUID
	vehicleID            uuid.UUID
	serviceCenterID      uuid.UUID
	serviceType          string
	requestedDate        time.Time
	status               Status
	urgency              Priority
	decidedPriority      *Priority
	slaDeadline          time.Time
	slaBreached          bool
	actualCompletionDate *time.Time
	isAccidental         bool
	photos               []string
	createdAt            time.Time
	updatedAt            time.Time
}

func NewAppointment(p NewAppointmentParams, now time.Time) (*Appointment, error) {
	if p.CustomerID == uuid.Nil {
		return nil, ErrMissingCustomer
	}
	if p.VehicleID == uuid.Nil {
		return nil, ErrMissingVehicle
	}
	if p.ServiceCenterID == uuid.Nil {
		return nil, ErrMissingCenter
	}
	serviceType := strings.TrimSpace(p.ServiceType)
	if serviceType == "" {
		return nil, ErrMissingServiceType
	}
	if !p.Urgency.IsValid() {
		return nil, ErrInvalidPriority
	}
	if p.SLADeadline.IsZero() {
		return nil, ErrMissingSLADeadline
	}

	requested := p.RequestedDate
	if requested.IsZero() {
		requested = now
	}
	if p.SLADeadline.Before(requested) {
		return nil, ErrDeadlineBeforeStart
	}

	return &Appointment{
		id:              uuid.New(),
		customerID:      p.CustomerID,
		vehicleID:       p.VehicleID,
		serviceCenterID: p.ServiceCenterID,
		serviceType:     serviceType,
		requestedDate:   requested,
		status:          StatusPending,
		urgency:         p.Urgency,
		slaDeadline:     p.SLADeadline,
		isAccidental:    p.IsAccidental,
		photos:          append([]string(nil), p.Photos...),
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

type ReconstructParams struct {
	ID                   uuid.UUID
	CustomerID           uuid.UUID
	VehicleID            uuid.UUID
	ServiceCenterID      uuid.UUID
	ServiceType          string
	RequestedDate        time.Time
	Status               Status
	Urgency              Priority
	DecidedPriority      *Priority
	SLADeadline          time.Time
	SLABreached          bool
	ActualCompletionDate *time.Time
	IsAccidental         bool
	Photos               []string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func ReconstructAppointment(p ReconstructParams) *Appointment {
	return &Appointment{
		id:                   p.ID,
		customerID:           p.CustomerID,
		vehicleID:            p.VehicleID,
		serviceCenterID:      p.ServiceCenterID,
		serviceType:          p.ServiceType,
		requestedDate:        p.RequestedDate,
		status:               p.Status,
		urgency:              p.Urgency,
		decidedPriority:      p.DecidedPriority,
		slaDeadline:          p.SLADeadline,
		slaBreached:          p.SLABreached,
		actualCompletionDate: p.ActualCompletionDate,
		isAccidental:         p.IsAccidental,
		photos:               p.Photos,
		createdAt:            p.CreatedAt,
		updatedAt:            p.UpdatedAt,
	}
}

// Apply moves the appointment along rule. The caller has already looked the rule up for
// the current status; Apply re-checks it so a stale rule cannot be replayed.
func (a *Appointment) Apply(rule Rule, priority *Priority, now time.Time) error {
	if rule.From != a.status {
		return ErrTransitionNotAllowed
	}
	if rule.Has(EffectRecordTriage) {
		if priority == nil || !priority.IsValid() {
			return ErrPriorityRequired
		}
		p := *priority
		a.decidedPriority = &p
	}
	if rule.Has(EffectStampCompletion) {
		completed := now
		a.actualCompletionDate = &completed
		a.slaBreached = now.After(a.slaDeadline)
	}
	a.status = rule.To
	a.updatedAt = now
	return nil
}

// IsStaleDecision reports whether the appointment has waited for an approve/reject decision
// longer than after, counted from the requested date.
func (a *Appointment) IsStaleDecision(now time.Time, after time.Duration) bool {
	return a.status == StatusPending && now.Sub(a.requestedDate) > after
}

func (a *Appointment) ID() uuid.UUID                    { return a.id }
func (a *Appointment) CustomerID() uuid.UUID            { return a.customerID }
func (a *Appointment) VehicleID() uuid.UUID             { return a.vehicleID }
func (a *Appointment) ServiceCenterID() uuid.UUID       { return a.serviceCenterID }
func (a *Appointment) ServiceType() string              { return a.serviceType }
func (a *Appointment) RequestedDate() time.Time         { return a.requestedDate }
func (a *Appointment) Status() Status                   { return a.status }
func (a *Appointment) Urgency() Priority                { return a.urgency }
func (a *Appointment) DecidedPriority() *Priority       { return a.decidedPriority }
func (a *Appointment) SLADeadline() time.Time           { return a.slaDeadline }
func (a *Appointment) SLABreached() bool                { return a.slaBreached }
func (a *Appointment) ActualCompletionDate() *time.Time { return a.actualCompletionDate }
func (a *Appointment) IsAccidental() bool               { return a.isAccidental }
func (a *Appointment) Photos() []string                 { return append([]string(nil), a.photos...) }
func (a *Appointment) CreatedAt() time.Time             { return a.createdAt }
func (a *Appointment) UpdatedAt() time.Time             { return a.updatedAt }
