package commands

import (
	"context"

	"autoservice-workflow/internal/domain/notification"
	"autoservice-workflow/internal/usecase/shared"

	"github.com/google/uuid"
)

type NotificationCommands interface {
	MarkRead(ctx context.Context, kind notification.RecipientKind, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, kind notification.RecipientKind, recipientID uuid.UUID) (int, error)
}

type notificationUseCaseImpl struct {
	uow shared.UnitOfWork
}

func NewNotificationUseCase(uow shared.UnitOfWork) NotificationCommands {
	return &notificationUseCaseImpl{uow: uow}
}

func (uc *notificationUseCaseImpl) MarkRead(ctx context.Context, kind notification.RecipientKind, notificationID uuid.UUID) error {
	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Notifications().MarkRead(ctx, kind, notificationID)
	})
}

func (uc *notificationUseCaseImpl) MarkAllRead(ctx context.Context, kind notification.RecipientKind, recipientID uuid.UUID) (int, error) {
	var updated int
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		n, derr := tx.Notifications().MarkAllRead(ctx, kind, recipientID)
		updated = n
		return derr
	})
	if err != nil {
		return 0, err
	}
	return updated, nil
}
