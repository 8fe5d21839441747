package notification

import (
	"fmt"
	"time"
)

const displayTimeLayout = "02 Jan 2006, 03:04 PM"

// StatusMessage renders the customer-facing text for an appointment reaching status.
// status is the raw appointment status string.
func StatusMessage(status, serviceType, vehicleName, vehicleMake string) (string, Type) {
	prefix := fmt.Sprintf("Your appointment for %s on %s (%s)", serviceType, vehicleName, vehicleMake)
	switch status {
	case "APPROVED":
		return prefix + " has been approved.", TypeAppointmentApproved
	case "REJECTED":
		return prefix + " has been rejected.", TypeAppointmentRejected
	case "IN_SERVICE":
		return prefix + " is now in service.", TypeAppointmentInService
	default:
		return prefix + " is completed.", TypeAppointmentCompleted
	}
}

func AppointmentCreatedMessage(customerName, serviceType, vehicleMake, vehicleModel string, requested time.Time) string {
	return fmt.Sprintf("New appointment received: %s has requested %s for %s %s on %s.",
		customerName, serviceType, vehicleMake, vehicleModel, requested.Format(displayTimeLayout))
}

func InvoiceGeneratedMessage(due time.Time) string {
	return "You have received invoice for the service request kindly pay before " + due.Format(displayTimeLayout)
}

func PaymentCompletedMessage(serviceType string, paidAt time.Time) string {
	return fmt.Sprintf("The customer has successfully completed the payment for the %s appointment on %s",
		serviceType, paidAt.Format(displayTimeLayout))
}

func PaymentReminderMessage(kind, amount string) string {
	return fmt.Sprintf("%s. Amount: %s", kind, amount)
}

func MechanicAssignedMessage(mechanicName, serviceType string) string {
	return fmt.Sprintf("Mechanic %s has been assigned to the %s appointment.", mechanicName, serviceType)
}

func DecisionSLABreachedMessage(serviceType string, requested time.Time, waited time.Duration) string {
	return fmt.Sprintf("Appointment for %s requested on %s was auto-rejected: no decision within %s.",
		serviceType, requested.Format(displayTimeLayout), waited)
}
