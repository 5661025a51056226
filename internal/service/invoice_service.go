package service

import (
	"context"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	ws "backend/internal/websocket"

	"github.com/google/uuid"
)

// --- DTOs ---

// UpdateInvoiceRequest merges the provided fields into a stored invoice.
// Nil fields are left untouched.
type UpdateInvoiceRequest struct {
	Data      *model.InvoiceData `json:"data"`
	Signature *string            `json:"signature"`
	Status    *string            `json:"status"`
}

type InvoiceResponse struct {
	ID        string            `json:"id"`
	UserID    string            `json:"user_id"`
	Data      model.InvoiceData `json:"data"`
	Status    string            `json:"status"`
	Signature string            `json:"signature,omitempty"`
	Subtotal  string            `json:"subtotal"`
	Total     string            `json:"total"`
	CreatedAt string            `json:"created_at"`
	UpdatedAt string            `json:"updated_at"`
	SentAt    *string           `json:"sent_at,omitempty"`
	PaidAt    *string           `json:"paid_at,omitempty"`
}

// --- Interface ---

// InvoiceService owns the stored-invoice collection. Operations on an unknown
// id, or creation without an authenticated user, are silent no-ops: they
// return a nil response and a nil error, and mutate nothing.
type InvoiceService interface {
	Create(ctx context.Context, userID uuid.UUID, data model.InvoiceData, signature string) (*InvoiceResponse, error)
	GetByID(ctx context.Context, userID uuid.UUID, id string) (*InvoiceResponse, error)
	GetSnapshot(ctx context.Context, userID uuid.UUID, id string) (*model.StoredInvoice, bool)
	ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]InvoiceResponse, int)
	Update(ctx context.Context, userID uuid.UUID, id string, req UpdateInvoiceRequest) (*InvoiceResponse, error)
	Delete(ctx context.Context, userID uuid.UUID, id string) error
	MarkSent(ctx context.Context, userID uuid.UUID, id string) (*InvoiceResponse, error)
	MarkPaid(ctx context.Context, userID uuid.UUID, id string) (*InvoiceResponse, error)
}

type invoiceService struct {
	invoiceRepo repository.InvoiceRepository
	hub         *ws.Hub
}

func NewInvoiceService(invoiceRepo repository.InvoiceRepository, hub *ws.Hub) InvoiceService {
	return &invoiceService{invoiceRepo: invoiceRepo, hub: hub}
}

// --- Implementation ---

func (s *invoiceService) Create(ctx context.Context, userID uuid.UUID, data model.InvoiceData, signature string) (*InvoiceResponse, error) {
	if userID == uuid.Nil {
		// No authenticated user: nothing is created.
		return nil, nil
	}

	now := time.Now().UTC()
	invoice := model.StoredInvoice{
		ID:        uuid.New(),
		UserID:    userID,
		Data:      data,
		Status:    model.StatusDraft,
		Signature: signature,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.invoiceRepo.Create(ctx, &invoice); err != nil {
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}

	s.notify(ws.EventInvoiceCreated, &invoice)
	resp := toInvoiceResponse(invoice)
	return &resp, nil
}

func (s *invoiceService) GetByID(ctx context.Context, userID uuid.UUID, id string) (*InvoiceResponse, error) {
	invoice, ok := s.findOwned(ctx, userID, id)
	if !ok {
		return nil, nil
	}
	resp := toInvoiceResponse(*invoice)
	return &resp, nil
}

// GetSnapshot exposes the raw stored record for document rendering.
func (s *invoiceService) GetSnapshot(ctx context.Context, userID uuid.UUID, id string) (*model.StoredInvoice, bool) {
	return s.findOwned(ctx, userID, id)
}

func (s *invoiceService) ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]InvoiceResponse, int) {
	invoices := s.invoiceRepo.ListByUser(ctx, userID)
	total := len(invoices)

	if page > 0 && limit > 0 {
		start := (page - 1) * limit
		if start > total {
			start = total
		}
		end := start + limit
		if end > total {
			end = total
		}
		invoices = invoices[start:end]
	}

	result := make([]InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		result = append(result, toInvoiceResponse(inv))
	}
	return result, total
}

func (s *invoiceService) Update(ctx context.Context, userID uuid.UUID, id string, req UpdateInvoiceRequest) (*InvoiceResponse, error) {
	invoice, ok := s.findOwned(ctx, userID, id)
	if !ok {
		return nil, nil
	}

	if req.Data != nil {
		invoice.Data = *req.Data
	}
	if req.Signature != nil {
		invoice.Signature = *req.Signature
	}
	if req.Status != nil {
		invoice.Status = *req.Status
	}
	invoice.UpdatedAt = time.Now().UTC()

	s.invoiceRepo.Save(ctx, invoice)
	resp := toInvoiceResponse(*invoice)
	return &resp, nil
}

func (s *invoiceService) Delete(ctx context.Context, userID uuid.UUID, id string) error {
	invoice, ok := s.findOwned(ctx, userID, id)
	if !ok {
		return nil
	}
	if s.invoiceRepo.Delete(ctx, invoice.ID) {
		s.notify(ws.EventInvoiceDeleted, invoice)
	}
	return nil
}

// MarkSent stamps status=sent and sentAt. There is deliberately no guard on
// the previous status; see MarkPaid.
func (s *invoiceService) MarkSent(ctx context.Context, userID uuid.UUID, id string) (*InvoiceResponse, error) {
	return s.transition(ctx, userID, id, model.StatusSent)
}

// MarkPaid stamps status=paid and paidAt. Transitions are unguarded: a draft
// invoice can be marked paid directly, matching the store contract.
func (s *invoiceService) MarkPaid(ctx context.Context, userID uuid.UUID, id string) (*InvoiceResponse, error) {
	return s.transition(ctx, userID, id, model.StatusPaid)
}

func (s *invoiceService) transition(ctx context.Context, userID uuid.UUID, id string, status string) (*InvoiceResponse, error) {
	invoice, ok := s.findOwned(ctx, userID, id)
	if !ok {
		return nil, nil
	}

	now := time.Now().UTC()
	invoice.Status = status
	invoice.UpdatedAt = now
	switch status {
	case model.StatusSent:
		invoice.SentAt = &now
	case model.StatusPaid:
		invoice.PaidAt = &now
	}

	s.invoiceRepo.Save(ctx, invoice)

	event := ws.EventInvoiceSent
	if status == model.StatusPaid {
		event = ws.EventInvoicePaid
	}
	s.notify(event, invoice)

	resp := toInvoiceResponse(*invoice)
	return &resp, nil
}

// findOwned resolves an id string to the caller's invoice. Malformed ids and
// invoices belonging to other users look identical to unknown ids.
func (s *invoiceService) findOwned(ctx context.Context, userID uuid.UUID, id string) (*model.StoredInvoice, bool) {
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return nil, false
	}
	invoice, ok := s.invoiceRepo.FindByID(ctx, invoiceID)
	if !ok || invoice.UserID != userID {
		return nil, false
	}
	return invoice, true
}

func (s *invoiceService) notify(eventType string, invoice *model.StoredInvoice) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastEvent(ws.Event{
		Type:      eventType,
		InvoiceID: invoice.ID.String(),
		UserID:    invoice.UserID.String(),
		Status:    invoice.Status,
	})
}

// --- Mapping ---

func toInvoiceResponse(inv model.StoredInvoice) InvoiceResponse {
	subtotal := inv.Data.Subtotal()
	resp := InvoiceResponse{
		ID:        inv.ID.String(),
		UserID:    inv.UserID.String(),
		Data:      inv.Data,
		Status:    inv.Status,
		Signature: inv.Signature,
		Subtotal:  subtotal.StringFixed(2),
		Total:     subtotal.StringFixed(2), // tax is fixed at 0%
		CreatedAt: inv.CreatedAt.Format(time.RFC3339),
		UpdatedAt: inv.UpdatedAt.Format(time.RFC3339),
	}
	if inv.SentAt != nil {
		s := inv.SentAt.Format(time.RFC3339)
		resp.SentAt = &s
	}
	if inv.PaidAt != nil {
		s := inv.PaidAt.Format(time.RFC3339)
		resp.PaidAt = &s
	}
	return resp
}
