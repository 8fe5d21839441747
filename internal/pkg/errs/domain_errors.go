package errs

// Workflow error taxonomy. Every error returned by the coordinator, the assignment policy and
// the invoice sequencer is marked with exactly one of these.
var (
	// caller supplied missing or malformed fields; never retried
	ErrValidation = New("validation error")
	// referenced appointment, mechanic, invoice or notification is absent
	ErrNotFound = New("not found")
	// requested status unreachable from the current one, or required data (priority) missing
	ErrInvalidTransition = New("invalid status transition")
	// invoice already exists, mechanic already busy, invoice already paid
	ErrConflict = New("conflict")
	// inactive mechanic or mechanic from another service center
	ErrInvalidMechanic = New("invalid mechanic")
	// atomic commit could not complete; nothing was written
	ErrTransactionFailure = New("transaction failure")
	// transaction exceeded its time budget; safe to retry
	ErrTimeout = New("transaction timeout")
)
