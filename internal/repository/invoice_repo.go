package repository

import (
	"context"
	"sync"

	"backend/internal/model"

	"github.com/google/uuid"
)

// InvoiceRepository is the application-state container for stored invoices.
// All mutations funnel through these operations; views never touch records
// directly. Lookups that miss report false instead of erroring so callers can
// keep the silent no-op contract.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *model.StoredInvoice) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.StoredInvoice, bool)
	Save(ctx context.Context, invoice *model.StoredInvoice) bool
	Delete(ctx context.Context, id uuid.UUID) bool
	ListByUser(ctx context.Context, userID uuid.UUID) []model.StoredInvoice
	Count(ctx context.Context) int
}

// memoryInvoiceRepository keeps invoices in process memory only. Restart loses
// all data. Insertion order is preserved for listing.
type memoryInvoiceRepository struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]*model.StoredInvoice
	ordered []uuid.UUID
}

func NewInvoiceRepository() InvoiceRepository {
	return &memoryInvoiceRepository{
		byID: make(map[uuid.UUID]*model.StoredInvoice),
	}
}

func (r *memoryInvoiceRepository) Create(_ context.Context, invoice *model.StoredInvoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *invoice
	r.byID[stored.ID] = &stored
	r.ordered = append(r.ordered, stored.ID)
	return nil
}

func (r *memoryInvoiceRepository) FindByID(_ context.Context, id uuid.UUID) (*model.StoredInvoice, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	invoice, ok := r.byID[id]
	if !ok {
		return nil, false
	}
	copied := *invoice
	return &copied, true
}

// Save replaces the record matching invoice.ID. Returns false without mutating
// anything when the id is unknown.
func (r *memoryInvoiceRepository) Save(_ context.Context, invoice *model.StoredInvoice) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[invoice.ID]; !ok {
		return false
	}
	stored := *invoice
	r.byID[stored.ID] = &stored
	return true
}

func (r *memoryInvoiceRepository) Delete(_ context.Context, id uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return false
	}
	delete(r.byID, id)
	for i, existing := range r.ordered {
		if existing == id {
			r.ordered = append(r.ordered[:i], r.ordered[i+1:]...)
			break
		}
	}
	return true
}

func (r *memoryInvoiceRepository) ListByUser(_ context.Context, userID uuid.UUID) []model.StoredInvoice {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]model.StoredInvoice, 0)
	for _, id := range r.ordered {
		invoice := r.byID[id]
		if invoice.UserID == userID {
			result = append(result, *invoice)
		}
	}
	return result
}

func (r *memoryInvoiceRepository) Count(_ context.Context) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.ordered)
}
