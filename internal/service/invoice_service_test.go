package service

import (
	"context"
	"testing"
	"time"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func invoiceDataWithItems(amounts ...[2]int64) model.InvoiceData {
	items := make([]model.LineItem, 0, len(amounts))
	for _, pair := range amounts {
		quantity := decimal.NewFromInt(pair[0])
		rate := decimal.NewFromInt(pair[1])
		items = append(items, model.LineItem{
			Description: "work",
			Quantity:    quantity,
			Rate:        rate,
			Amount:      quantity.Mul(rate),
		})
	}
	return model.InvoiceData{
		Details: model.InvoiceDetails{
			InvoiceNumber: "INV-2026-1",
			Date:          "2026-09-01",
			DueDate:       "2026-10-01",
			Items:         items,
		},
	}
}

func newInvoiceFixture() (InvoiceService, repository.InvoiceRepository) {
	repo := repository.NewInvoiceRepository()
	return NewInvoiceService(repo, nil), repo
}

func TestCreateWithoutUserIsSilentNoop(t *testing.T) {
	svc, repo := newInvoiceFixture()
	ctx := context.Background()

	created, err := svc.Create(ctx, uuid.Nil, invoiceDataWithItems([2]int64{1, 10}), "")
	require.NoError(t, err)
	require.Nil(t, created)
	require.Equal(t, 0, repo.Count(ctx))
}

func TestCreateStampsDraftAndTimestamps(t *testing.T) {
	svc, repo := newInvoiceFixture()
	ctx := context.Background()
	userID := uuid.New()

	created, err := svc.Create(ctx, userID, invoiceDataWithItems([2]int64{2, 50}), "")
	require.NoError(t, err)
	require.NotNil(t, created)
	require.Equal(t, 1, repo.Count(ctx))
	require.Equal(t, model.StatusDraft, created.Status)
	require.Equal(t, userID.String(), created.UserID)
	require.Equal(t, created.CreatedAt, created.UpdatedAt)
	require.Equal(t, "100.00", created.Subtotal)
	require.Equal(t, "100.00", created.Total)
}

func TestMarkSentThenMarkPaid(t *testing.T) {
	svc, _ := newInvoiceFixture()
	ctx := context.Background()
	userID := uuid.New()

	created, err := svc.Create(ctx, userID, invoiceDataWithItems([2]int64{1, 30}), "")
	require.NoError(t, err)

	sent, err := svc.MarkSent(ctx, userID, created.ID)
	require.NoError(t, err)
	require.Equal(t, model.StatusSent, sent.Status)
	require.NotNil(t, sent.SentAt)

	paid, err := svc.MarkPaid(ctx, userID, created.ID)
	require.NoError(t, err)
	require.Equal(t, model.StatusPaid, paid.Status)
	require.NotNil(t, paid.PaidAt)

	snapshot, ok := svc.GetSnapshot(ctx, userID, created.ID)
	require.True(t, ok)
	require.NotNil(t, snapshot.SentAt)
	require.NotNil(t, snapshot.PaidAt)
	require.False(t, snapshot.UpdatedAt.Before(*snapshot.SentAt))
	require.False(t, snapshot.UpdatedAt.Before(*snapshot.PaidAt))
}

func TestMarkPaidOnDraftIsUnguarded(t *testing.T) {
	svc, _ := newInvoiceFixture()
	ctx := context.Background()
	userID := uuid.New()

	created, err := svc.Create(ctx, userID, invoiceDataWithItems([2]int64{1, 10}), "")
	require.NoError(t, err)

	// The store permits paid directly from draft; there is no transition guard.
	paid, err := svc.MarkPaid(ctx, userID, created.ID)
	require.NoError(t, err)
	require.Equal(t, model.StatusPaid, paid.Status)
	require.Nil(t, paid.SentAt)
}

func TestOperationsOnUnknownIDAreSilentNoops(t *testing.T) {
	svc, repo := newInvoiceFixture()
	ctx := context.Background()
	userID := uuid.New()

	unknown := uuid.NewString()

	updated, err := svc.Update(ctx, userID, unknown, UpdateInvoiceRequest{})
	require.NoError(t, err)
	require.Nil(t, updated)

	sent, err := svc.MarkSent(ctx, userID, unknown)
	require.NoError(t, err)
	require.Nil(t, sent)

	paid, err := svc.MarkPaid(ctx, userID, unknown)
	require.NoError(t, err)
	require.Nil(t, paid)

	require.NoError(t, svc.Delete(ctx, userID, unknown))
	require.NoError(t, svc.Delete(ctx, userID, "not-a-uuid"))
	require.Equal(t, 0, repo.Count(ctx))
}

func TestDeleteRemovesExactlyOne(t *testing.T) {
	svc, repo := newInvoiceFixture()
	ctx := context.Background()
	userID := uuid.New()

	first, err := svc.Create(ctx, userID, invoiceDataWithItems([2]int64{1, 10}), "")
	require.NoError(t, err)
	_, err = svc.Create(ctx, userID, invoiceDataWithItems([2]int64{1, 20}), "")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, userID, first.ID))
	require.Equal(t, 1, repo.Count(ctx))

	// Second delete on the same id is a no-op
	require.NoError(t, svc.Delete(ctx, userID, first.ID))
	require.Equal(t, 1, repo.Count(ctx))
}

func TestInvoicesAreScopedToOwner(t *testing.T) {
	svc, _ := newInvoiceFixture()
	ctx := context.Background()
	owner := uuid.New()
	intruder := uuid.New()

	created, err := svc.Create(ctx, owner, invoiceDataWithItems([2]int64{1, 10}), "")
	require.NoError(t, err)

	fetched, err := svc.GetByID(ctx, intruder, created.ID)
	require.NoError(t, err)
	require.Nil(t, fetched)

	paid, err := svc.MarkPaid(ctx, intruder, created.ID)
	require.NoError(t, err)
	require.Nil(t, paid)

	invoices, total := svc.ListByUser(ctx, intruder, 1, 20)
	require.Empty(t, invoices)
	require.Zero(t, total)
}

func TestUpdateMergesFieldsAndRefreshesUpdatedAt(t *testing.T) {
	svc, _ := newInvoiceFixture()
	ctx := context.Background()
	userID := uuid.New()

	created, err := svc.Create(ctx, userID, invoiceDataWithItems([2]int64{1, 10}), "")
	require.NoError(t, err)

	before, _ := time.Parse(time.RFC3339, created.UpdatedAt)
	signatureData := "data:image/png;base64,aGVsbG8="
	status := model.StatusSent

	updated, err := svc.Update(ctx, userID, created.ID, UpdateInvoiceRequest{
		Signature: &signatureData,
		Status:    &status,
	})
	require.NoError(t, err)
	require.NotNil(t, updated)
	require.Equal(t, model.StatusSent, updated.Status)
	require.Equal(t, signatureData, updated.Signature)

	after, _ := time.Parse(time.RFC3339, updated.UpdatedAt)
	require.False(t, after.Before(before))
}
