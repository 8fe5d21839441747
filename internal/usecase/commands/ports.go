package commands

import (
	"autoservice-workflow/internal/domain/event"
	"autoservice-workflow/internal/pkg/errs"
)

var (
	ErrCustomerNotFound = errs.Wrap(errs.ErrNotFound, "customer not found")
	ErrVehicleNotOwned  = errs.Wrap(errs.ErrNotFound, "vehicle not found or not owned by customer")
)

// EventPublisher receives events only after the transaction that produced them committed.
// Publish must not block on subscribers.
type EventPublisher interface {
	Publish(evt event.Event)
}

func publishAll(p EventPublisher, events []event.Event) {
	for _, evt := range events {
		p.Publish(evt)
	}
}
