//go:build unit

package infra_test

import (
	"errors"
	"testing"

	"autoservice-workflow/internal/infra"
	"autoservice-workflow/internal/pkg/errs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestWrapRepoErr(t *testing.T) {
	cases := []struct {
		name string
		err  error
		kind infra.RepositoryErrorKind
		mark error
	}{
		{"no rows", pgx.ErrNoRows, infra.KindNotFound, errs.ErrNotFound},
		{"unique violation", &pgconn.PgError{Code: "23505", ConstraintName: "invoices_appointment_id_key"}, infra.KindDuplicateKey, errs.ErrConflict},
		{"foreign key violation", &pgconn.PgError{Code: "23503"}, infra.KindForeignKeyViolated, errs.ErrValidation},
		{"other pg error", &pgconn.PgError{Code: "40P01"}, infra.KindDBFailure, errs.ErrTransactionFailure},
		{"plain error", errors.New("connection reset"), infra.KindDBFailure, errs.ErrTransactionFailure},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := infra.WrapRepoErr("save invoice", tc.err)
			assert.True(t, infra.IsKind(err, tc.kind))
			assert.True(t, errs.Is(err, tc.mark), "want mark %v on %v", tc.mark, err)
			assert.True(t, errors.Is(err, tc.err), "cause is preserved")
			assert.Contains(t, err.Error(), "save invoice")
		})
	}
}

func TestWrapRepoErr_ExplicitKindWins(t *testing.T) {
	err := infra.WrapRepoErr("mechanic already has an open assignment", nil, infra.KindDuplicateKey)
	assert.True(t, infra.IsKind(err, infra.KindDuplicateKey))
	assert.True(t, errs.Is(err, errs.ErrConflict))
	assert.False(t, errs.Is(err, errs.ErrNotFound))
}

func TestNotFound(t *testing.T) {
	err := infra.NotFound("appointment not found")
	assert.True(t, infra.IsKind(err, infra.KindNotFound))
	assert.True(t, errs.Is(err, errs.ErrNotFound))
	assert.Equal(t, "NOT_FOUND: appointment not found", err.Error())
}
