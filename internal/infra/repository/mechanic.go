package repository

import (
	"context"
	"time"

	"autoservice-workflow/internal/domain/mechanic"
	"autoservice-workflow/internal/infra"
	"autoservice-workflow/internal/infra/db"
	"autoservice-workflow/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type MechanicRepository struct {
	db db.DBTX
}

func NewMechanicRepository(db db.DBTX) *MechanicRepository {
	return &MechanicRepository{db: db}
}

func (r *MechanicRepository) Get(ctx context.Context, id uuid.UUID) (*mechanic.Mechanic, error) {
	return r.get(ctx, `SELECT id, service_center_id, name, status FROM mechanics WHERE id = $1`, id)
}

// LockForAssignment locks the mechanic row so concurrent assignments of the same mechanic
// queue up behind each other.
func (r *MechanicRepository) LockForAssignment(ctx context.Context, id uuid.UUID) (*mechanic.Mechanic, error) {
	return r.get(ctx, `SELECT id, service_center_id, name, status FROM mechanics WHERE id = $1 FOR UPDATE`, id)
}

func (r *MechanicRepository) get(ctx context.Context, query string, id uuid.UUID) (*mechanic.Mechanic, error) {
	var (
		m      mechanic.Mechanic
		status string
	)
	err := r.db.QueryRow(ctx, query, id).Scan(&m.ID, &m.ServiceCenterID, &m.Name, &status)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("mechanic not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find mechanic", err)
	}
	m.Status = mechanic.Status(status)
	return &m, nil
}

func (r *MechanicRepository) ListByServiceCenter(ctx context.Context, serviceCenterID uuid.UUID, status mechanic.Status) ([]mechanic.Mechanic, error) {
	rows, err := r.db.Query(ctx, `SELECT id, service_center_id, name, status FROM mechanics
		WHERE service_center_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY name`, serviceCenterID, string(status))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list mechanics", err)
	}
	mechanics, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (mechanic.Mechanic, error) {
		var (
			m  mechanic.Mechanic
			st string
		)
		err := row.Scan(&m.ID, &m.ServiceCenterID, &m.Name, &st)
		m.Status = mechanic.Status(st)
		return m, err
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan mechanics", err)
	}
	return mechanics, nil
}

type AssignmentRepository struct {
	db db.DBTX
}

func NewAssignmentRepository(db db.DBTX) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

func (r *AssignmentRepository) Create(ctx context.Context, a *mechanic.Assignment) error {
	_, err := r.db.Exec(ctx, `INSERT INTO mechanic_assignments (id, appointment_id, mechanic_id, assigned_at, unassigned_at)
		VALUES ($1, $2, $3, $4, $5)`,
		a.ID, a.AppointmentID, a.MechanicID, a.AssignedAt, pgconv.ToTimestamptz(a.UnassignedAt))
	if err != nil {
		return infra.WrapRepoErr("failed to create mechanic assignment", err)
	}
	return nil
}

func (r *AssignmentRepository) ListActiveByAppointment(ctx context.Context, appointmentID uuid.UUID) ([]mechanic.Assignment, error) {
	rows, err := r.db.Query(ctx, `SELECT id, appointment_id, mechanic_id, assigned_at, unassigned_at
		FROM mechanic_assignments
		WHERE appointment_id = $1 AND unassigned_at IS NULL
		ORDER BY assigned_at`, appointmentID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list assignments", err)
	}
	assignments, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (mechanic.Assignment, error) {
		var (
			a          mechanic.Assignment
			unassigned pgtype.Timestamptz
		)
		err := row.Scan(&a.ID, &a.AppointmentID, &a.MechanicID, &a.AssignedAt, &unassigned)
		a.UnassignedAt = pgconv.TimePtr(unassigned)
		return a, err
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan assignments", err)
	}
	return assignments, nil
}

func (r *AssignmentRepository) CountActiveByMechanic(ctx context.Context, mechanicID uuid.UUID) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM mechanic_assignments
		WHERE mechanic_id = $1 AND unassigned_at IS NULL`, mechanicID).Scan(&n)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to count assignments", err)
	}
	return n, nil
}

func (r *AssignmentRepository) CloseActiveByAppointment(ctx context.Context, appointmentID uuid.UUID, at time.Time) (int, error) {
	tag, err := r.db.Exec(ctx, `UPDATE mechanic_assignments SET unassigned_at = $2
		WHERE appointment_id = $1 AND unassigned_at IS NULL`, appointmentID, at)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to close assignments", err)
	}
	return int(tag.RowsAffected()), nil
}
