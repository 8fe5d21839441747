package commands

import (
	"context"

	"autoservice-workflow/internal/domain/appointment"
	"autoservice-workflow/internal/domain/event"
	"autoservice-workflow/internal/domain/invoice"
	"autoservice-workflow/internal/usecase/shared"
)

// buildSnapshot denormalizes the display fields of the appointment's neighbours. It runs inside
// the transaction so the event matches the committed state.
func buildSnapshot(ctx context.Context, reads shared.CommandReads, a *appointment.Appointment) (event.AppointmentSnapshot, error) {
	vehicle, err := reads.VehicleByID(ctx, a.VehicleID())
	if err != nil {
		return event.AppointmentSnapshot{}, err
	}
	customer, err := reads.CustomerByID(ctx, a.CustomerID())
	if err != nil {
		return event.AppointmentSnapshot{}, err
	}
	center, err := reads.ServiceCenterByID(ctx, a.ServiceCenterID())
	if err != nil {
		return event.AppointmentSnapshot{}, err
	}

	snap := event.AppointmentSnapshot{
		ID:                   a.ID(),
		CustomerID:           a.CustomerID(),
		VehicleID:            a.VehicleID(),
		ServiceCenterID:      a.ServiceCenterID(),
		ServiceType:          a.ServiceType(),
		Status:               string(a.Status()),
		Urgency:              string(a.Urgency()),
		RequestedDate:        a.RequestedDate(),
		SLADeadline:          a.SLADeadline(),
		SLABreached:          a.SLABreached(),
		ActualCompletionDate: a.ActualCompletionDate(),
		IsAccidental:         a.IsAccidental(),
		Photos:               a.Photos(),
		Vehicle:              event.VehicleInfo{Name: vehicle.Name, Make: vehicle.Make, Model: vehicle.Model},
		Customer:             event.CustomerInfo{Name: customer.Name, Email: customer.Email},
		ServiceCenter: event.ServiceCenterInfo{
			Name:        center.Name,
			Email:       center.Email,
			PhoneNumber: center.PhoneNumber,
		},
	}
	if p := a.DecidedPriority(); p != nil {
		snap.DecidedPriority = string(*p)
	}
	return snap, nil
}

func jobCardSnapshots(cards []shared.JobCardSnapshot) []event.JobCardSnapshot {
	out := make([]event.JobCardSnapshot, 0, len(cards))
	for _, jc := range cards {
		parts := make([]event.PartSnapshot, 0, len(jc.Parts))
		for _, p := range jc.Parts {
			parts = append(parts, event.PartSnapshot{Name: p.Name, UnitPriceCents: p.UnitPriceCents, Quantity: p.Quantity})
		}
		out = append(out, event.JobCardSnapshot{
			Name:        jc.Name,
			Description: jc.Description,
			PriceCents:  jc.PriceCents,
			Parts:       parts,
		})
	}
	return out
}

func invoiceSnapshot(inv *invoice.Invoice) event.InvoiceSnapshot {
	return event.InvoiceSnapshot{
		ID:               inv.ID,
		AppointmentID:    inv.AppointmentID,
		Sequence:         inv.Sequence,
		Number:           inv.Number,
		TotalAmountCents: inv.TotalAmount.Cents(),
		Status:           string(inv.Status),
		BillingDate:      inv.BillingDate,
		DueDate:          inv.DueDate,
	}
}
