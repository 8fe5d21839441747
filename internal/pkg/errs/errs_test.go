//go:build unit

package errs_test

import (
	"errors"
	"testing"

	"autoservice-workflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	assert.Nil(t, errs.Wrap(nil, "ignored"))
	assert.Nil(t, errs.Wrapf(nil, "ignored %d", 1))

	err := errs.Wrapf(errs.ErrNotFound, "appointment %s", "a1")
	assert.EqualError(t, err, "appointment a1: not found")
	assert.True(t, errs.Is(err, errs.ErrNotFound))
	assert.False(t, errs.Is(err, errs.ErrConflict))
}

func TestMark(t *testing.T) {
	base := errors.New("connection reset")
	marked := errs.Mark(base, errs.ErrTransactionFailure)

	assert.True(t, errs.Is(marked, errs.ErrTransactionFailure))
	assert.True(t, errs.Is(marked, base))
	assert.Equal(t, "connection reset", marked.Error())
	assert.Equal(t, errs.ErrTimeout, errs.Mark(nil, errs.ErrTimeout))
}

func TestTaxonomyIsDisjoint(t *testing.T) {
	kinds := []error{
		errs.ErrValidation,
		errs.ErrNotFound,
		errs.ErrInvalidTransition,
		errs.ErrConflict,
		errs.ErrInvalidMechanic,
		errs.ErrTransactionFailure,
		errs.ErrTimeout,
	}
	for i, a := range kinds {
		for j, b := range kinds {
			assert.Equal(t, i == j, errs.Is(a, b), "%v vs %v", a, b)
		}
	}
}

func TestExtractStackLines(t *testing.T) {
	assert.Nil(t, errs.ExtractStackLines(nil, 5))

	lines := errs.ExtractStackLines(errs.New("boom"), 3)
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "boom")
}
