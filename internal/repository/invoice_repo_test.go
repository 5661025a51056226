package repository

import (
	"context"
	"testing"
	"time"

	"backend/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newStoredInvoice(userID uuid.UUID) *model.StoredInvoice {
	now := time.Now().UTC()
	return &model.StoredInvoice{
		ID:        uuid.New(),
		UserID:    userID,
		Status:    model.StatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestInvoiceRepositoryListByUserKeepsInsertionOrder(t *testing.T) {
	repo := NewInvoiceRepository()
	ctx := context.Background()
	userID := uuid.New()

	first := newStoredInvoice(userID)
	second := newStoredInvoice(userID)
	other := newStoredInvoice(uuid.New())

	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, other))
	require.NoError(t, repo.Create(ctx, second))

	invoices := repo.ListByUser(ctx, userID)
	require.Len(t, invoices, 2)
	require.Equal(t, first.ID, invoices[0].ID)
	require.Equal(t, second.ID, invoices[1].ID)
}

func TestInvoiceRepositoryFindByIDMiss(t *testing.T) {
	repo := NewInvoiceRepository()

	_, ok := repo.FindByID(context.Background(), uuid.New())
	require.False(t, ok)
}

func TestInvoiceRepositoryDeleteIsIdempotent(t *testing.T) {
	repo := NewInvoiceRepository()
	ctx := context.Background()
	invoice := newStoredInvoice(uuid.New())
	require.NoError(t, repo.Create(ctx, invoice))
	require.Equal(t, 1, repo.Count(ctx))

	require.True(t, repo.Delete(ctx, invoice.ID))
	require.Equal(t, 0, repo.Count(ctx))

	// Second delete on the same id is a no-op
	require.False(t, repo.Delete(ctx, invoice.ID))
	require.Equal(t, 0, repo.Count(ctx))
}

func TestInvoiceRepositorySaveUnknownIDMutatesNothing(t *testing.T) {
	repo := NewInvoiceRepository()
	ctx := context.Background()

	require.False(t, repo.Save(ctx, newStoredInvoice(uuid.New())))
	require.Equal(t, 0, repo.Count(ctx))
}

func TestInvoiceRepositorySaveReplacesRecord(t *testing.T) {
	repo := NewInvoiceRepository()
	ctx := context.Background()
	invoice := newStoredInvoice(uuid.New())
	require.NoError(t, repo.Create(ctx, invoice))

	invoice.Status = model.StatusSent
	require.True(t, repo.Save(ctx, invoice))

	stored, ok := repo.FindByID(ctx, invoice.ID)
	require.True(t, ok)
	require.Equal(t, model.StatusSent, stored.Status)
}

func TestInvoiceRepositoryReturnsCopies(t *testing.T) {
	repo := NewInvoiceRepository()
	ctx := context.Background()
	invoice := newStoredInvoice(uuid.New())
	require.NoError(t, repo.Create(ctx, invoice))

	fetched, ok := repo.FindByID(ctx, invoice.ID)
	require.True(t, ok)
	fetched.Status = model.StatusPaid

	again, ok := repo.FindByID(ctx, invoice.ID)
	require.True(t, ok)
	require.Equal(t, model.StatusDraft, again.Status)
}
