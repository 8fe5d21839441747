package queries

import (
	"context"

	"autoservice-workflow/internal/domain/notification"
	"autoservice-workflow/internal/usecase/shared"

	"github.com/google/uuid"
)

type NotificationQueries interface {
	ListForRecipient(ctx context.Context, kind notification.RecipientKind, recipientID uuid.UUID, limit int) ([]NotificationView, error)
}

type notificationQueriesImpl struct {
	uow shared.UnitOfWork
}

func NewNotificationQueries(uow shared.UnitOfWork) NotificationQueries {
	return &notificationQueriesImpl{uow: uow}
}

// ListForRecipient returns the newest notifications first.
func (q *notificationQueriesImpl) ListForRecipient(ctx context.Context, kind notification.RecipientKind, recipientID uuid.UUID, limit int) ([]NotificationView, error) {
	limit = ValidateLimit(limit)

	views := []NotificationView{}
	err := q.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		rows, err := tx.Notifications().ListByRecipient(ctx, kind, recipientID, limit)
		if err != nil {
			return err
		}
		for _, n := range rows {
			views = append(views, NotificationView{
				ID:            n.ID,
				RecipientID:   n.RecipientID,
				Type:          string(n.Type),
				Message:       n.Message,
				AppointmentID: n.AppointmentID,
				IsRead:        n.IsRead,
				CreatedAt:     n.CreatedAt,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}
