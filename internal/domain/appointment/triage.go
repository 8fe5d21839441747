package appointment

import (
	"time"

	"github.com/google/uuid"
)

// Triage is append-only: re-deciding a priority adds a row.
type Triage struct {
	ID              uuid.UUID
	AppointmentID   uuid.UUID
	DecidedPriority Priority
	Source          TriageSource
	Reason          TriageReason
	CreatedAt       time.Time
}

func NewTriage(appointmentID uuid.UUID, priority Priority, source TriageSource, reason TriageReason, now time.Time) (*Triage, error) {
	if !priority.IsValid() {
		return nil, ErrPriorityRequired
	}
	if source == "" {
		source = TriageSourceManual
	}
	if reason == "" {
		reason = TriageReasonManualOverride
	}
	return &Triage{
		ID:              uuid.New(),
		AppointmentID:   appointmentID,
		DecidedPriority: priority,
		Source:          source,
		Reason:          reason,
		CreatedAt:       now,
	}, nil
}
