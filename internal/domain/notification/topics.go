package notification

import "github.com/google/uuid"

func NewAppointmentTopic(recipientID uuid.UUID) string {
	return "new-appointment-" + recipientID.String()
}

func CustomerNotificationTopic(customerID uuid.UUID) string {
	return "notification-customer-" + customerID.String()
}

func ServiceCenterNotificationTopic(serviceCenterID uuid.UUID) string {
	return "notification-service-center-" + serviceCenterID.String()
}

func MechanicAssignmentTopic(serviceCenterID uuid.UUID) string {
	return "mechanic-assignment-" + serviceCenterID.String()
}

func StatusUpdateTopic(serviceCenterID uuid.UUID) string {
	return "status-update-appointment-" + serviceCenterID.String()
}

func NewInvoiceTopic(customerID uuid.UUID) string {
	return "new-invoice-" + customerID.String()
}
