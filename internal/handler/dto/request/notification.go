package request

import (
	"github.com/google/uuid"
)

type MarkReadRequest struct {
	RecipientKind string `json:"recipient_kind" binding:"required,oneof=CUSTOMER SERVICE_CENTER"`
}

type MarkAllReadRequest struct {
	RecipientKind string    `json:"recipient_kind" binding:"required,oneof=CUSTOMER SERVICE_CENTER"`
	RecipientID   uuid.UUID `json:"recipient_id" binding:"required"`
}

type ListNotificationsQuery struct {
	RecipientKind string `form:"recipient_kind" binding:"required,oneof=CUSTOMER SERVICE_CENTER"`
	RecipientID   string `form:"recipient_id" binding:"required,uuid"`
	Limit         int    `form:"limit" binding:"omitempty,min=1"`
}
