package appointment

import "autoservice-workflow/internal/pkg/errs"

var (
	ErrInvalidStatus       = errs.Wrap(errs.ErrValidation, "invalid appointment status")
	ErrInvalidPriority     = errs.Wrap(errs.ErrValidation, "invalid priority")
	ErrMissingCustomer     = errs.Wrap(errs.ErrValidation, "customer id is required")
	ErrMissingVehicle      = errs.Wrap(errs.ErrValidation, "vehicle id is required")
	ErrMissingCenter       = errs.Wrap(errs.ErrValidation, "service center id is required")
	ErrMissingServiceType  = errs.Wrap(errs.ErrValidation, "service type is required")
	ErrMissingSLADeadline  = errs.Wrap(errs.ErrValidation, "sla deadline is required")
	ErrDeadlineBeforeStart = errs.Wrap(errs.ErrValidation, "sla deadline must not precede the requested date")

	ErrTransitionNotAllowed = errs.Wrap(errs.ErrInvalidTransition, "transition not allowed")
	ErrPriorityRequired     = errs.Wrap(errs.ErrInvalidTransition, "priority is required for triage")
	ErrTriageMissing        = errs.Wrap(errs.ErrInvalidTransition, "appointment has no triage decision")
)
