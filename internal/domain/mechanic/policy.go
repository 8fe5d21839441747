package mechanic

import "github.com/google/uuid"

// AutoAssignee returns the mechanic to bind on approval: only when exactly one of the
// candidates is ACTIVE at the service center. Zero or several leave the choice to a human.
func AutoAssignee(serviceCenterID uuid.UUID, candidates []Mechanic) (Mechanic, bool) {
	var (
		picked Mechanic
		count  int
	)
	for _, m := range candidates {
		if !m.IsActive() || m.ServiceCenterID != serviceCenterID {
			continue
		}
		picked = m
		count++
	}
	if count != 1 {
		return Mechanic{}, false
	}
	return picked, true
}

// ManualCheck carries what the policy needs to judge a manual assignment.
type ManualCheck struct {
	Mechanic               Mechanic
	AppointmentCenterID    uuid.UUID
	MechanicActiveCount    int
	AppointmentActiveCount int
	AppointmentAcceptsWork bool
}

func ValidateManual(c ManualCheck) error {
	if !c.Mechanic.IsActive() {
		return ErrInactive
	}
	if c.Mechanic.ServiceCenterID != c.AppointmentCenterID {
		return ErrWrongCenter
	}
	if !c.AppointmentAcceptsWork {
		return ErrNotAssignable
	}
	if c.AppointmentActiveCount > 0 {
		return ErrAlreadyAssigned
	}
	if c.MechanicActiveCount > 0 {
		return ErrBusy
	}
	return nil
}
