package repository

import (
	"context"

	"autoservice-workflow/internal/domain/appointment"
	"autoservice-workflow/internal/infra"
	"autoservice-workflow/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type TriageRepository struct {
	db db.DBTX
}

func NewTriageRepository(db db.DBTX) *TriageRepository {
	return &TriageRepository{db: db}
}

func (r *TriageRepository) Create(ctx context.Context, t *appointment.Triage) error {
	_, err := r.db.Exec(ctx, `INSERT INTO triages (id, appointment_id, decided_priority, source, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		t.ID, t.AppointmentID, string(t.DecidedPriority), string(t.Source), string(t.Reason), t.CreatedAt)
	if err != nil {
		return infra.WrapRepoErr("failed to create triage", err)
	}
	return nil
}

func (r *TriageRepository) ListByAppointment(ctx context.Context, appointmentID uuid.UUID) ([]appointment.Triage, error) {
	rows, err := r.db.Query(ctx, `SELECT id, appointment_id, decided_priority, source, reason, created_at
		FROM triages WHERE appointment_id = $1 ORDER BY created_at`, appointmentID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list triages", err)
	}
	triages, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (appointment.Triage, error) {
		var (
			t                        appointment.Triage
			priority, source, reason string
		)
		if err := row.Scan(&t.ID, &t.AppointmentID, &priority, &source, &reason, &t.CreatedAt); err != nil {
			return t, err
		}
		t.DecidedPriority = appointment.Priority(priority)
		t.Source = appointment.TriageSource(source)
		t.Reason = appointment.TriageReason(reason)
		return t, nil
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan triages", err)
	}
	return triages, nil
}

func (r *TriageRepository) Exists(ctx context.Context, appointmentID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM triages WHERE appointment_id = $1)`, appointmentID).Scan(&exists)
	if err != nil {
		return false, infra.WrapRepoErr("failed to check triage", err)
	}
	return exists, nil
}
