package appointment

import "strings"

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
	StatusInService Status = "IN_SERVICE"
	StatusCompleted Status = "COMPLETED"
)

var allStatuses = []Status{StatusPending, StatusApproved, StatusRejected, StatusInService, StatusCompleted}

func AllStatuses() []Status {
	return append([]Status(nil), allStatuses...)
}

func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", ErrInvalidStatus
	}
	return st, nil
}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusInService, StatusCompleted:
		return true
	default:
		return false
	}
}

func (s Status) IsTerminal() bool {
	return s == StatusRejected || s == StatusCompleted
}

type Priority string

const (
	PriorityLow      Priority = "LOW"
	PriorityMedium   Priority = "MEDIUM"
	PriorityHigh     Priority = "HIGH"
	PriorityCritical Priority = "CRITICAL"
)

func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToUpper(strings.TrimSpace(s)))
	if !p.IsValid() {
		return "", ErrInvalidPriority
	}
	return p, nil
}

func (p Priority) String() string {
	return string(p)
}

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	default:
		return false
	}
}

type TriageSource string

const (
	TriageSourceManual    TriageSource = "MANUAL"
	TriageSourceAutomatic TriageSource = "AUTOMATIC"
)

type TriageReason string

const (
	TriageReasonManualOverride  TriageReason = "MANUAL_OVERRIDE"
	TriageReasonCustomerUrgency TriageReason = "CUSTOMER_URGENCY"
	TriageReasonAccident        TriageReason = "ACCIDENT"
)
