//go:build unit

package pgconv_test

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"autoservice-workflow/internal/domain/appointment"
	"autoservice-workflow/internal/pkg/errs"
	"autoservice-workflow/internal/pkg/pgconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextConversions(t *testing.T) {
	assert.Nil(t, pgconv.TextPtr[appointment.Priority](pgtype.Text{}))
	assert.False(t, pgconv.ToText[appointment.Priority](nil).Valid)

	high := appointment.PriorityHigh
	txt := pgconv.ToText(&high)
	require.True(t, txt.Valid)
	assert.Equal(t, "HIGH", txt.String)

	back := pgconv.TextPtr[appointment.Priority](txt)
	require.NotNil(t, back)
	assert.Equal(t, appointment.PriorityHigh, *back)
}

func TestTimeConversions(t *testing.T) {
	assert.Nil(t, pgconv.TimePtr(pgtype.Timestamptz{}))
	assert.False(t, pgconv.ToTimestamptz(nil).Valid)

	completed := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	ts := pgconv.ToTimestamptz(&completed)
	require.True(t, ts.Valid)
	assert.Equal(t, completed, *pgconv.TimePtr(ts))
}

func TestIsNoRows(t *testing.T) {
	assert.True(t, pgconv.IsNoRows(pgx.ErrNoRows))
	assert.True(t, pgconv.IsNoRows(sql.ErrNoRows))
	assert.True(t, pgconv.IsNoRows(errs.Wrap(pgx.ErrNoRows, "load appointment")))
	assert.False(t, pgconv.IsNoRows(errors.New("other")))
}
