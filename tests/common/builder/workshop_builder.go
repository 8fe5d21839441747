//go:build unit || e2e

package builder

import (
	"autoservice-workflow/internal/infra/memstore"
	"autoservice-workflow/internal/usecase/shared"

	"github.com/google/uuid"
)

// Workshop is the customer, vehicle and service center an appointment hangs off.
type Workshop struct {
	Customer      shared.CustomerSnapshot
	Vehicle       shared.VehicleSnapshot
	ServiceCenter shared.ServiceCenterSnapshot
}

func NewWorkshop() Workshop {
	customerID := uuid.New()
	return Workshop{
		Customer: shared.CustomerSnapshot{
			ID:    customerID,
			Name:  "Asha Rao",
			Email: "asha@example.com",
		},
		Vehicle: shared.VehicleSnapshot{
			ID:      uuid.New(),
			OwnerID: customerID,
			Name:    "Daily",
			Make:    "Maruti",
			Model:   "Swift",
		},
		ServiceCenter: shared.ServiceCenterSnapshot{
			ID:          uuid.New(),
			Name:        "Koramangala Auto Care",
			Email:       "care@example.com",
			PhoneNumber: "+91-80-5550-0101",
		},
	}
}

// Seed registers the workshop records in the in-memory store.
func (w Workshop) Seed(store *memstore.Store) Workshop {
	store.AddCustomer(w.Customer)
	store.AddVehicle(w.Vehicle)
	store.AddServiceCenter(w.ServiceCenter)
	return w
}

// Appointment returns an appointment builder bound to the workshop.
func (w Workshop) Appointment() *AppointmentBuilder {
	return NewAppointmentBuilder().WithWorkshop(w.Customer.ID, w.Vehicle.ID, w.ServiceCenter.ID)
}

// Mechanic returns a mechanic builder employed by the workshop's service center.
func (w Workshop) Mechanic(name string) *MechanicBuilder {
	return NewMechanicBuilder().With(func(b *MechanicBuilder) {
		b.ServiceCenterID = w.ServiceCenter.ID
		b.Name = name
	})
}
