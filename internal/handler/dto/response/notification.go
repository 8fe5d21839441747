package response

import (
	"time"

	"autoservice-workflow/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type NotificationResponse struct {
	ID            uuid.UUID `json:"id"`
	RecipientID   uuid.UUID `json:"recipient_id"`
	Type          string    `json:"type"`
	Message       string    `json:"message"`
	AppointmentID uuid.UUID `json:"appointment_id"`
	IsRead        bool      `json:"is_read"`
	CreatedAt     time.Time `json:"created_at"`
}

type MarkAllReadResponse struct {
	Updated int `json:"updated"`
}

func FromNotificationViews(views []queries.NotificationView) ([]NotificationResponse, error) {
	res := make([]NotificationResponse, 0, len(views))
	if err := copier.Copy(&res, &views); err != nil {
		return nil, err
	}
	return res, nil
}
