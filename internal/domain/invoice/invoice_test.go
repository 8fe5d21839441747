//go:build unit

package invoice_test

import (
	"testing"
	"time"

	"autoservice-workflow/internal/domain/invoice"
	"autoservice-workflow/internal/pkg/errs"
	"autoservice-workflow/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatNumber(t *testing.T) {
	cases := map[int64]string{
		1:       "INV-000001",
		42:      "INV-000042",
		999999:  "INV-999999",
		1000000: "INV-1000000",
	}
	for seq, want := range cases {
		assert.Equal(t, want, invoice.FormatNumber(seq))
	}
}

func TestNewInvoice(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		b := builder.NewInvoiceBuilder().With(func(b *builder.InvoiceBuilder) { b.Sequence = 7 })
		inv, err := b.BuildDomain()
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, inv.ID)
		assert.Equal(t, "INV-000007", inv.Number)
		assert.Equal(t, invoice.StatusSent, inv.Status)
		assert.Equal(t, b.BillingDate.Add(b.DueIn), inv.DueDate)
		assert.Equal(t, int64(125050), inv.TotalAmount.Cents())
	})

	t.Run("rejects non-positive sequence", func(t *testing.T) {
		_, err := builder.NewInvoiceBuilder().With(func(b *builder.InvoiceBuilder) { b.Sequence = 0 }).BuildDomain()
		assert.True(t, errs.Is(err, invoice.ErrInvalidSequence))
	})

	t.Run("rejects non-positive total", func(t *testing.T) {
		_, err := builder.NewInvoiceBuilder().With(func(b *builder.InvoiceBuilder) { b.TotalCents = 0 }).BuildDomain()
		assert.True(t, errs.Is(err, invoice.ErrNonPositiveAmount))
		assert.True(t, errs.Is(err, errs.ErrValidation))
	})
}

func TestInvoice_StatusChanges(t *testing.T) {
	inv, err := builder.NewInvoiceBuilder().BuildDomain()
	require.NoError(t, err)

	assert.True(t, inv.MarkOverdue())
	assert.Equal(t, invoice.StatusOverdue, inv.Status)
	assert.False(t, inv.MarkOverdue(), "overdue only once")

	require.NoError(t, inv.MarkPaid())
	assert.Equal(t, invoice.StatusPaid, inv.Status)
	assert.False(t, inv.MarkOverdue(), "paid invoices never go overdue")

	err = inv.MarkPaid()
	assert.True(t, errs.Is(err, invoice.ErrAlreadyPaid))
	assert.True(t, errs.Is(err, errs.ErrConflict))
}

func TestMoney(t *testing.T) {
	_, err := invoice.NewMoney(-1)
	assert.True(t, errs.Is(err, invoice.ErrNonPositiveAmount))

	m, err := invoice.NewMoney(125050)
	require.NoError(t, err)
	assert.Equal(t, "1250.50", m.String())
	assert.Equal(t, "0.05", invoice.MoneyFromCents(5).String())
	assert.True(t, m.Equal(invoice.MoneyFromCents(125050)))
	assert.False(t, m.Equal(invoice.MoneyFromCents(125049)))
}

func TestSettle(t *testing.T) {
	now := time.Date(2025, 3, 13, 10, 0, 0, 0, time.UTC)

	t.Run("pays the invoice in full", func(t *testing.T) {
		inv, err := builder.NewInvoiceBuilder().BuildDomain()
		require.NoError(t, err)

		p, err := invoice.Settle(inv, inv.TotalAmount, invoice.MethodUPI, now)
		require.NoError(t, err)
		assert.Equal(t, invoice.StatusPaid, inv.Status)
		assert.Equal(t, inv.ID, p.InvoiceID)
		assert.Equal(t, inv.AppointmentID, p.AppointmentID)
		assert.Equal(t, invoice.PaymentSuccess, p.Status)
		assert.NotEqual(t, uuid.Nil, p.TransactionID)
		assert.Equal(t, now, p.PaidAt)
	})

	t.Run("overdue invoice can still be paid", func(t *testing.T) {
		inv, err := builder.NewInvoiceBuilder().With(func(b *builder.InvoiceBuilder) { b.Status = invoice.StatusOverdue }).BuildDomain()
		require.NoError(t, err)

		_, err = invoice.Settle(inv, inv.TotalAmount, invoice.MethodCash, now)
		require.NoError(t, err)
		assert.Equal(t, invoice.StatusPaid, inv.Status)
	})

	t.Run("partial amount is rejected", func(t *testing.T) {
		inv, err := builder.NewInvoiceBuilder().BuildDomain()
		require.NoError(t, err)

		_, err = invoice.Settle(inv, invoice.MoneyFromCents(100), invoice.MethodCard, now)
		assert.True(t, errs.Is(err, invoice.ErrAmountMismatch))
		assert.Equal(t, invoice.StatusSent, inv.Status)
	})

	t.Run("second payment is a conflict", func(t *testing.T) {
		inv, err := builder.NewInvoiceBuilder().With(func(b *builder.InvoiceBuilder) { b.Status = invoice.StatusPaid }).BuildDomain()
		require.NoError(t, err)

		_, err = invoice.Settle(inv, inv.TotalAmount, invoice.MethodCard, now)
		assert.True(t, errs.Is(err, errs.ErrConflict))
	})
}

func TestParseMethod(t *testing.T) {
	m, err := invoice.ParseMethod("bank_transfer")
	require.NoError(t, err)
	assert.Equal(t, invoice.MethodBankTransfer, m)

	_, err = invoice.ParseMethod("CHEQUE")
	assert.True(t, errs.Is(err, invoice.ErrInvalidMethod))
}

func TestReminderBucket_Window(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	// 20:00 UTC on the 10th is already the 11th in IST
	now := time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC)

	cases := []struct {
		kind invoice.ReminderKind
		from time.Time
	}{
		{invoice.ReminderTwoDaysBefore, time.Date(2025, 3, 13, 0, 0, 0, 0, ist)},
		{invoice.ReminderOneDayBefore, time.Date(2025, 3, 12, 0, 0, 0, 0, ist)},
		{invoice.ReminderOneDayAfter, time.Date(2025, 3, 10, 0, 0, 0, 0, ist)},
	}

	for i, bucket := range invoice.ReminderBuckets {
		tc := cases[i]
		t.Run(string(tc.kind), func(t *testing.T) {
			require.Equal(t, tc.kind, bucket.Kind)
			from, to := bucket.Window(now, ist)
			assert.True(t, tc.from.Equal(from), "from: want %s got %s", tc.from, from)
			assert.True(t, tc.from.AddDate(0, 0, 1).Equal(to))
		})
	}
	assert.True(t, invoice.ReminderBuckets[2].MarkOverdue)
	assert.False(t, invoice.ReminderBuckets[0].MarkOverdue)
}
