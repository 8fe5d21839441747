package appointment

import (
	"fmt"

	"autoservice-workflow/internal/pkg/errs"
)

// Effect is a side effect the coordinator must run inside the transition's transaction.
type Effect string

const (
	// record a Triage row from the request priority; missing priority rejects the transition
	EffectRecordTriage Effect = "RECORD_TRIAGE"
	// run the auto-assign-on-approval rule of the assignment policy
	EffectAutoAssign Effect = "AUTO_ASSIGN"
	// a Triage row must already exist for the appointment
	EffectRequireTriage Effect = "REQUIRE_TRIAGE"
	// compute slaBreached and actualCompletionDate
	EffectStampCompletion Effect = "STAMP_COMPLETION"
	// close every open mechanic assignment window on the appointment
	EffectReleaseAssignments Effect = "RELEASE_ASSIGNMENTS"
)

type Rule struct {
	From    Status
	To      Status
	Effects []Effect
}

func (r Rule) Has(e Effect) bool {
	for _, x := range r.Effects {
		if x == e {
			return true
		}
	}
	return false
}

type TransitionTable struct {
	triageAt Status
	rules    map[Status]map[Status]Rule
}

// NewTransitionTable builds the appointment lifecycle. triageAt selects the status whose
// transition records the priority decision; it must be APPROVED or IN_SERVICE.
func NewTransitionTable(triageAt Status) (*TransitionTable, error) {
	if triageAt != StatusApproved && triageAt != StatusInService {
		return nil, errs.Newf("triage trigger must be %s or %s, got %q", StatusApproved, StatusInService, triageAt)
	}

	t := &TransitionTable{
		triageAt: triageAt,
		rules:    make(map[Status]map[Status]Rule),
	}

	decide := []Effect{EffectRecordTriage, EffectAutoAssign}

	if triageAt == StatusApproved {
		t.permit(StatusPending, StatusApproved, decide...)
		t.permit(StatusApproved, StatusInService, EffectRequireTriage)
	} else {
		t.permit(StatusPending, StatusApproved)
		t.permit(StatusApproved, StatusInService, decide...)
	}
	t.permit(StatusPending, StatusRejected)
	t.permit(StatusInService, StatusCompleted, EffectRequireTriage, EffectStampCompletion, EffectReleaseAssignments)

	return t, nil
}

func MustTransitionTable(triageAt Status) *TransitionTable {
	t, err := NewTransitionTable(triageAt)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *TransitionTable) permit(from, to Status, effects ...Effect) {
	if t.rules[from] == nil {
		t.rules[from] = make(map[Status]Rule)
	}
	t.rules[from][to] = Rule{From: from, To: to, Effects: effects}
}

func (t *TransitionTable) TriageAt() Status {
	return t.triageAt
}

// Lookup returns the rule for from -> to. The error names the statuses that are reachable
// from `from`.
func (t *TransitionTable) Lookup(from, to Status) (Rule, error) {
	rule, ok := t.rules[from][to]
	if !ok {
		return Rule{}, errs.Wrapf(ErrTransitionNotAllowed, "%s -> %s (allowed: %v)", from, to, t.Targets(from))
	}
	return rule, nil
}

// Targets lists the statuses reachable from `from`, in lifecycle order.
func (t *TransitionTable) Targets(from Status) []Status {
	var out []Status
	for _, s := range allStatuses {
		if _, ok := t.rules[from][s]; ok {
			out = append(out, s)
		}
	}
	return out
}

func (r Rule) String() string {
	return fmt.Sprintf("%s->%s%v", r.From, r.To, r.Effects)
}
