package repository

import (
	"context"
	"time"

	"autoservice-workflow/internal/domain/appointment"
	"autoservice-workflow/internal/infra"
	"autoservice-workflow/internal/infra/db"
	"autoservice-workflow/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const appointmentColumns = `id, customer_id, vehicle_id, service_center_id, service_type, requested_date,
	status, urgency, decided_priority, sla_deadline, sla_breached, actual_completion_date,
	is_accidental, photos, created_at, updated_at`

type AppointmentRepository struct {
	db db.DBTX
}

func NewAppointmentRepository(db db.DBTX) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

func (r *AppointmentRepository) Create(ctx context.Context, a *appointment.Appointment) error {
	_, err := r.db.Exec(ctx, `INSERT INTO appointments (`+appointmentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		a.ID(), a.CustomerID(), a.VehicleID(), a.ServiceCenterID(), a.ServiceType(), a.RequestedDate(),
		string(a.Status()), string(a.Urgency()), pgconv.ToText(a.DecidedPriority()), a.SLADeadline(),
		a.SLABreached(), pgconv.ToTimestamptz(a.ActualCompletionDate()), a.IsAccidental(), a.Photos(),
		a.CreatedAt(), a.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create appointment", err)
	}
	return nil
}

func (r *AppointmentRepository) Get(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	return r.get(ctx, `SELECT `+appointmentColumns+` FROM appointments WHERE id = $1`, id)
}

// GetForUpdate takes the row lock that serializes concurrent transitions of one appointment.
func (r *AppointmentRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	return r.get(ctx, `SELECT `+appointmentColumns+` FROM appointments WHERE id = $1 FOR UPDATE`, id)
}

func (r *AppointmentRepository) get(ctx context.Context, query string, id uuid.UUID) (*appointment.Appointment, error) {
	a, err := scanAppointment(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("appointment not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find appointment", err)
	}
	return a, nil
}

func (r *AppointmentRepository) UpdateStatus(ctx context.Context, a *appointment.Appointment) error {
	tag, err := r.db.Exec(ctx, `UPDATE appointments
		SET status = $2, decided_priority = $3, sla_breached = $4, actual_completion_date = $5, updated_at = $6
		WHERE id = $1`,
		a.ID(), string(a.Status()), pgconv.ToText(a.DecidedPriority()), a.SLABreached(),
		pgconv.ToTimestamptz(a.ActualCompletionDate()), a.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update appointment status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NotFound("appointment not found")
	}
	return nil
}

func (r *AppointmentRepository) ListStalePending(ctx context.Context, requestedBefore time.Time, exclude []uuid.UUID, limit int) ([]uuid.UUID, error) {
	if exclude == nil {
		// a NULL array would filter out every row
		exclude = []uuid.UUID{}
	}
	rows, err := r.db.Query(ctx, `SELECT id FROM appointments
		WHERE status = 'PENDING' AND requested_date < $1 AND NOT (id = ANY($2::uuid[]))
		ORDER BY requested_date, id
		LIMIT $3`, requestedBefore, exclude, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list stale appointments", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan stale appointments", err)
	}
	return ids, nil
}

func scanAppointment(row pgx.Row) (*appointment.Appointment, error) {
	var (
		p               appointment.ReconstructParams
		status, urgency string
		decided         pgtype.Text
		completed       pgtype.Timestamptz
	)
	err := row.Scan(
		&p.ID, &p.CustomerID, &p.VehicleID, &p.ServiceCenterID, &p.ServiceType, &p.RequestedDate,
		&status, &urgency, &decided, &p.SLADeadline, &p.SLABreached, &completed,
		&p.IsAccidental, &p.Photos, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Status = appointment.Status(status)
	p.Urgency = appointment.Priority(urgency)
	p.DecidedPriority = pgconv.TextPtr[appointment.Priority](decided)
	p.ActualCompletionDate = pgconv.TimePtr(completed)
	return appointment.ReconstructAppointment(p), nil
}
