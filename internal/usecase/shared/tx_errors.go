package shared

import (
	"context"
	"errors"

	"autoservice-workflow/internal/pkg/errs"
)

var taxonomy = []error{
	errs.ErrValidation,
	errs.ErrNotFound,
	errs.ErrInvalidTransition,
	errs.ErrConflict,
	errs.ErrInvalidMechanic,
	errs.ErrTransactionFailure,
	errs.ErrTimeout,
}

// ClassifyTxErr makes sure an error leaving a unit of work carries one taxonomy mark.
// Deadline overruns become ErrTimeout; anything unclassified is a TransactionFailure.
func ClassifyTxErr(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		if !errs.Is(err, errs.ErrTimeout) {
			return errs.Mark(err, errs.ErrTimeout)
		}
		return err
	}
	for _, kind := range taxonomy {
		if errs.Is(err, kind) {
			return err
		}
	}
	return errs.Mark(err, errs.ErrTransactionFailure)
}
