//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"autoservice-workflow/internal/domain/notification"
	"autoservice-workflow/internal/infra/memstore"
	"autoservice-workflow/internal/pkg/errs"
	"autoservice-workflow/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedNotification(t *testing.T, store *memstore.Store, kind notification.RecipientKind, recipientID uuid.UUID) notification.Notification {
	t.Helper()
	n, err := notification.New(kind, recipientID, notification.TypeInvoiceGenerated, "invoice ready", uuid.New(),
		time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	store.PutNotification(*n)
	return *n
}

func readFlags(store *memstore.Store) map[uuid.UUID]bool {
	out := map[uuid.UUID]bool{}
	for _, n := range store.Notifications() {
		out[n.ID] = n.IsRead
	}
	return out
}

func TestMarkRead(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	uc := commands.NewNotificationUseCase(memstore.NewUnitOfWork(store, time.Second))

	customer := uuid.New()
	mine := seedNotification(t, store, notification.RecipientCustomer, customer)
	other := seedNotification(t, store, notification.RecipientCustomer, customer)

	require.NoError(t, uc.MarkRead(ctx, notification.RecipientCustomer, mine.ID))
	flags := readFlags(store)
	assert.True(t, flags[mine.ID])
	assert.False(t, flags[other.ID])

	t.Run("marking again is a no-op", func(t *testing.T) {
		assert.NoError(t, uc.MarkRead(ctx, notification.RecipientCustomer, mine.ID))
	})

	t.Run("error: wrong recipient kind", func(t *testing.T) {
		err := uc.MarkRead(ctx, notification.RecipientServiceCenter, other.ID)
		assert.True(t, errs.Is(err, errs.ErrNotFound))
		assert.False(t, readFlags(store)[other.ID])
	})

	t.Run("error: unknown notification", func(t *testing.T) {
		err := uc.MarkRead(ctx, notification.RecipientCustomer, uuid.New())
		assert.True(t, errs.Is(err, errs.ErrNotFound))
	})
}

func TestMarkAllRead(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	uc := commands.NewNotificationUseCase(memstore.NewUnitOfWork(store, time.Second))

	center := uuid.New()
	a := seedNotification(t, store, notification.RecipientServiceCenter, center)
	b := seedNotification(t, store, notification.RecipientServiceCenter, center)
	otherCenter := seedNotification(t, store, notification.RecipientServiceCenter, uuid.New())
	// same id under the other recipient kind stays untouched
	customerSide := seedNotification(t, store, notification.RecipientCustomer, center)

	require.NoError(t, uc.MarkRead(ctx, notification.RecipientServiceCenter, a.ID))

	n, err := uc.MarkAllRead(ctx, notification.RecipientServiceCenter, center)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "only unread rows count")

	flags := readFlags(store)
	assert.True(t, flags[a.ID])
	assert.True(t, flags[b.ID])
	assert.False(t, flags[otherCenter.ID])
	assert.False(t, flags[customerSide.ID])

	n, err = uc.MarkAllRead(ctx, notification.RecipientServiceCenter, center)
	require.NoError(t, err)
	assert.Zero(t, n)
}
