package repository

import (
	"context"

	"autoservice-workflow/internal/infra"
	"autoservice-workflow/internal/infra/db"
	"autoservice-workflow/internal/pkg/pgconv"
	"autoservice-workflow/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CommandReads serves the neighbour projections the workflow renders into events.
type CommandReads struct {
	db db.DBTX
}

func NewCommandReads(db db.DBTX) *CommandReads {
	return &CommandReads{db: db}
}

func (r *CommandReads) CustomerByID(ctx context.Context, id uuid.UUID) (*shared.CustomerSnapshot, error) {
	var c shared.CustomerSnapshot
	err := r.db.QueryRow(ctx, `SELECT id, name, email FROM customers WHERE id = $1`, id).Scan(&c.ID, &c.Name, &c.Email)
	if err != nil {
		return nil, notFoundOr("customer", err)
	}
	return &c, nil
}

func (r *CommandReads) VehicleByID(ctx context.Context, id uuid.UUID) (*shared.VehicleSnapshot, error) {
	var v shared.VehicleSnapshot
	err := r.db.QueryRow(ctx, `SELECT id, owner_id, name, make, model FROM vehicles WHERE id = $1`, id).
		Scan(&v.ID, &v.OwnerID, &v.Name, &v.Make, &v.Model)
	if err != nil {
		return nil, notFoundOr("vehicle", err)
	}
	return &v, nil
}

func (r *CommandReads) ServiceCenterByID(ctx context.Context, id uuid.UUID) (*shared.ServiceCenterSnapshot, error) {
	var c shared.ServiceCenterSnapshot
	err := r.db.QueryRow(ctx, `SELECT id, name, email, phone_number FROM service_centers WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.Email, &c.PhoneNumber)
	if err != nil {
		return nil, notFoundOr("service center", err)
	}
	return &c, nil
}

func (r *CommandReads) JobCardsByAppointment(ctx context.Context, appointmentID uuid.UUID) ([]shared.JobCardSnapshot, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, description, price_cents FROM job_cards
		WHERE appointment_id = $1 ORDER BY name`, appointmentID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list job cards", err)
	}
	cards, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (shared.JobCardSnapshot, error) {
		var jc shared.JobCardSnapshot
		err := row.Scan(&jc.ID, &jc.Name, &jc.Description, &jc.PriceCents)
		return jc, err
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan job cards", err)
	}

	for i := range cards {
		partRows, err := r.db.Query(ctx, `SELECT name, unit_price_cents, quantity FROM job_card_parts
			WHERE job_card_id = $1 ORDER BY name`, cards[i].ID)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to list parts", err)
		}
		parts, err := pgx.CollectRows(partRows, func(row pgx.CollectableRow) (shared.PartUsage, error) {
			var p shared.PartUsage
			err := row.Scan(&p.Name, &p.UnitPriceCents, &p.Quantity)
			return p, err
		})
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan parts", err)
		}
		cards[i].Parts = parts
	}
	return cards, nil
}

func notFoundOr(entity string, err error) error {
	if pgconv.IsNoRows(err) {
		return infra.WrapRepoErr(entity+" not found", err, infra.KindNotFound)
	}
	return infra.WrapRepoErr("failed to find "+entity, err)
}

// CustomerDirectory answers existence checks straight from the pool, outside any unit of work.
type CustomerDirectory struct {
	db db.DBTX
}

func NewCustomerDirectory(db db.DBTX) *CustomerDirectory {
	return &CustomerDirectory{db: db}
}

func (d *CustomerDirectory) Exists(ctx context.Context, customerID uuid.UUID) (bool, error) {
	var exists bool
	err := d.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM customers WHERE id = $1)`, customerID).Scan(&exists)
	if err != nil {
		return false, infra.WrapRepoErr("failed to check customer", err)
	}
	return exists, nil
}
