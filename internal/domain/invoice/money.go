package invoice

import (
	"fmt"

	"autoservice-workflow/internal/pkg/errs"
)

var ErrNonPositiveAmount = errs.Wrap(errs.ErrValidation, "amount must be positive")

// Money is an amount in minor units (paise/cents).
type Money struct {
	cents int64
}

func NewMoney(cents int64) (Money, error) {
	if cents <= 0 {
		return Money{}, ErrNonPositiveAmount
	}
	return Money{cents: cents}, nil
}

func MoneyFromCents(cents int64) Money {
	return Money{cents: cents}
}

func (m Money) Cents() int64 {
	return m.cents
}

func (m Money) Equal(other Money) bool {
	return m.cents == other.cents
}

func (m Money) String() string {
	return fmt.Sprintf("%d.%02d", m.cents/100, m.cents%100)
}
