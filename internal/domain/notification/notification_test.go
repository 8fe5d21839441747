//go:build unit

package notification_test

import (
	"testing"
	"time"

	"autoservice-workflow/internal/domain/notification"
	"autoservice-workflow/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	recipient := uuid.New()

	n, err := notification.New(notification.RecipientCustomer, recipient, notification.TypeInvoiceGenerated, "hello", uuid.New(), now)
	require.NoError(t, err)
	assert.False(t, n.IsRead)
	assert.Equal(t, "notification-customer-"+recipient.String(), n.Topic())

	n.RecipientKind = notification.RecipientServiceCenter
	assert.Equal(t, "notification-service-center-"+recipient.String(), n.Topic())

	_, err = notification.New(notification.RecipientCustomer, recipient, notification.TypeInvoiceGenerated, "", uuid.New(), now)
	assert.True(t, errs.Is(err, notification.ErrEmptyMessage))
}

func TestParseRecipientKind(t *testing.T) {
	k, err := notification.ParseRecipientKind(" service_center")
	require.NoError(t, err)
	assert.Equal(t, notification.RecipientServiceCenter, k)

	_, err = notification.ParseRecipientKind("MECHANIC")
	assert.True(t, errs.Is(err, errs.ErrValidation))
}

func TestStatusMessage(t *testing.T) {
	cases := []struct {
		status string
		suffix string
		typ    notification.Type
	}{
		{"APPROVED", "has been approved.", notification.TypeAppointmentApproved},
		{"REJECTED", "has been rejected.", notification.TypeAppointmentRejected},
		{"IN_SERVICE", "is now in service.", notification.TypeAppointmentInService},
		{"COMPLETED", "is completed.", notification.TypeAppointmentCompleted},
	}
	for _, tc := range cases {
		t.Run(tc.status, func(t *testing.T) {
			msg, typ := notification.StatusMessage(tc.status, "Oil Change", "Daily", "Maruti")
			assert.Equal(t, "Your appointment for Oil Change on Daily (Maruti) "+tc.suffix, msg)
			assert.Equal(t, tc.typ, typ)
		})
	}
}

func TestMessages(t *testing.T) {
	at := time.Date(2025, 3, 14, 15, 30, 0, 0, time.UTC)

	assert.Equal(t,
		"New appointment received: Asha has requested Oil Change for Maruti Swift on 14 Mar 2025, 03:30 PM.",
		notification.AppointmentCreatedMessage("Asha", "Oil Change", "Maruti", "Swift", at))
	assert.Equal(t,
		"You have received invoice for the service request kindly pay before 14 Mar 2025, 03:30 PM",
		notification.InvoiceGeneratedMessage(at))
	assert.Equal(t,
		"The customer has successfully completed the payment for the Oil Change appointment on 14 Mar 2025, 03:30 PM",
		notification.PaymentCompletedMessage("Oil Change", at))
	assert.Equal(t, "ONE_DAY_AFTER. Amount: 10.00", notification.PaymentReminderMessage("ONE_DAY_AFTER", "10.00"))
	assert.Equal(t, "Mechanic Ravi has been assigned to the Oil Change appointment.",
		notification.MechanicAssignedMessage("Ravi", "Oil Change"))
}

func TestTopics(t *testing.T) {
	id := uuid.MustParse("7b7c7f3e-4a4f-4b9b-9d2f-1f0b5f3c8a11")

	assert.Equal(t, "new-appointment-"+id.String(), notification.NewAppointmentTopic(id))
	assert.Equal(t, "mechanic-assignment-"+id.String(), notification.MechanicAssignmentTopic(id))
	assert.Equal(t, "status-update-appointment-"+id.String(), notification.StatusUpdateTopic(id))
	assert.Equal(t, "new-invoice-"+id.String(), notification.NewInvoiceTopic(id))
}
