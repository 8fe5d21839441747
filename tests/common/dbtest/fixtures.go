//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// DBLike is satisfied by *pgxpool.Pool and pgx.Tx.
type DBLike interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func CreateTestCustomer(t *testing.T, db DBLike, name, email string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := db.Exec(context.Background(),
		"INSERT INTO customers (id, name, email) VALUES ($1, $2, $3)", id, name, email)
	require.NoError(t, err)
	return id
}

func CreateTestServiceCenter(t *testing.T, db DBLike, name string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := db.Exec(context.Background(),
		"INSERT INTO service_centers (id, name, email, phone_number) VALUES ($1, $2, $3, $4)",
		id, name, strings.ToLower(strings.ReplaceAll(name, " ", "."))+"@example.com", "+1-555-0100")
	require.NoError(t, err)
	return id
}

func CreateTestVehicle(t *testing.T, db DBLike, ownerID uuid.UUID, name, vehicleMake, model string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := db.Exec(context.Background(),
		"INSERT INTO vehicles (id, owner_id, name, make, model) VALUES ($1, $2, $3, $4, $5)",
		id, ownerID, name, vehicleMake, model)
	require.NoError(t, err)
	return id
}

func CreateTestMechanic(t *testing.T, db DBLike, serviceCenterID uuid.UUID, name, status string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := db.Exec(context.Background(),
		"INSERT INTO mechanics (id, service_center_id, name, status) VALUES ($1, $2, $3, $4)",
		id, serviceCenterID, name, status)
	require.NoError(t, err)
	return id
}

// Workshop is the minimal graph an appointment needs.
type Workshop struct {
	CustomerID      uuid.UUID
	VehicleID       uuid.UUID
	ServiceCenterID uuid.UUID
}

func CreateTestWorkshop(t *testing.T, db DBLike) Workshop {
	t.Helper()

	customerID := CreateTestCustomer(t, db, "Asha Rao", "asha@example.com")
	return Workshop{
		CustomerID:      customerID,
		VehicleID:       CreateTestVehicle(t, db, customerID, "Daily", "Honda", "City"),
		ServiceCenterID: CreateTestServiceCenter(t, db, "Central Garage"),
	}
}

// CreateTestAppointment inserts an appointment in status without running the workflow.
func CreateTestAppointment(t *testing.T, db DBLike, w Workshop, status string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	now := time.Now().UTC()
	_, err := db.Exec(context.Background(), `
		INSERT INTO appointments (id, customer_id, vehicle_id, service_center_id, service_type,
		                          requested_date, status, urgency, sla_deadline, created_at, updated_at)
		VALUES ($1, $2, $3, $4, 'General Service', $5, $6, 'MEDIUM', $7, $5, $5)`,
		id, w.CustomerID, w.VehicleID, w.ServiceCenterID, now, status, now.Add(72*time.Hour))
	require.NoError(t, err)
	return id
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return nil
}
