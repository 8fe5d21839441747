package repository

import (
	"context"

	"autoservice-workflow/internal/domain/notification"
	"autoservice-workflow/internal/infra"
	"autoservice-workflow/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type NotificationRepository struct {
	db db.DBTX
}

func NewNotificationRepository(db db.DBTX) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	_, err := r.db.Exec(ctx, `INSERT INTO notifications
		(id, recipient_kind, recipient_id, type, message, appointment_id, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		n.ID, string(n.RecipientKind), n.RecipientID, string(n.Type), n.Message, n.AppointmentID, n.IsRead, n.CreatedAt)
	if err != nil {
		return infra.WrapRepoErr("failed to create notification", err)
	}
	return nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, kind notification.RecipientKind, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `UPDATE notifications SET is_read = TRUE
		WHERE id = $1 AND recipient_kind = $2`, id, string(kind))
	if err != nil {
		return infra.WrapRepoErr("failed to mark notification read", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NotFound("notification not found")
	}
	return nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, kind notification.RecipientKind, recipientID uuid.UUID) (int, error) {
	tag, err := r.db.Exec(ctx, `UPDATE notifications SET is_read = TRUE
		WHERE recipient_kind = $1 AND recipient_id = $2 AND is_read = FALSE`, string(kind), recipientID)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to mark notifications read", err)
	}
	return int(tag.RowsAffected()), nil
}

func (r *NotificationRepository) ListByRecipient(ctx context.Context, kind notification.RecipientKind, recipientID uuid.UUID, limit int) ([]notification.Notification, error) {
	rows, err := r.db.Query(ctx, `SELECT id, recipient_kind, recipient_id, type, message, appointment_id, is_read, created_at
		FROM notifications
		WHERE recipient_kind = $1 AND recipient_id = $2
		ORDER BY created_at DESC, id DESC
		LIMIT $3`, string(kind), recipientID, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list notifications", err)
	}
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (notification.Notification, error) {
		var (
			n       notification.Notification
			rk, typ string
		)
		err := row.Scan(&n.ID, &rk, &n.RecipientID, &typ, &n.Message, &n.AppointmentID, &n.IsRead, &n.CreatedAt)
		n.RecipientKind = notification.RecipientKind(rk)
		n.Type = notification.Type(typ)
		return n, err
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan notifications", err)
	}
	return list, nil
}
