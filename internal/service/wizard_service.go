package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Wizard step indices, in order. Navigation is clamped to [StepBusiness, StepReview].
const (
	StepBusiness = 0
	StepClient   = 1
	StepItems    = 2
	StepReview   = 3

	stepCount = 4
)

var (
	ErrDraftNotFound = errors.New("draft not found")
	ErrNotOnReview   = errors.New("send is only available on the review step")
)

// --- DTOs ---

type PartyRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
}

type PaymentRequest struct {
	BankName      string `json:"bank_name"`
	AccountNumber string `json:"account_number"`
	SwiftCode     string `json:"swift_code"`
}

type DetailsRequest struct {
	InvoiceNumber string `json:"invoice_number"`
	Date          string `json:"date"`
	DueDate       string `json:"due_date"`
}

// ItemRequest updates a single line item. Quantity and rate are decimal
// strings; whenever either is set, the amount is recomputed from the other
// current factor.
type ItemRequest struct {
	Description *string `json:"description"`
	Quantity    *string `json:"quantity"`
	Rate        *string `json:"rate"`
}

type WizardResponse struct {
	ID        string            `json:"id"`
	Step      int               `json:"step"`
	StepCount int               `json:"step_count"`
	Draft     model.InvoiceData `json:"draft"`
}

// --- Interface ---

// WizardService holds in-progress invoice drafts, one session per started
// wizard, and orchestrates step navigation, line-item editing and the final
// send. Sessions are scoped to the user who started them.
type WizardService interface {
	Start(ctx context.Context, userID uuid.UUID) (*WizardResponse, error)
	Get(ctx context.Context, userID uuid.UUID, id string) (*WizardResponse, error)
	Next(ctx context.Context, userID uuid.UUID, id string) (*WizardResponse, error)
	Previous(ctx context.Context, userID uuid.UUID, id string) (*WizardResponse, error)
	SetBusiness(ctx context.Context, userID uuid.UUID, id string, req PartyRequest) (*WizardResponse, error)
	SetClient(ctx context.Context, userID uuid.UUID, id string, req PartyRequest) (*WizardResponse, error)
	SetPayment(ctx context.Context, userID uuid.UUID, id string, req PaymentRequest) (*WizardResponse, error)
	SetDetails(ctx context.Context, userID uuid.UUID, id string, req DetailsRequest) (*WizardResponse, error)
	AddItem(ctx context.Context, userID uuid.UUID, id string) (*WizardResponse, error)
	RemoveItem(ctx context.Context, userID uuid.UUID, id string, index int) (*WizardResponse, error)
	UpdateItem(ctx context.Context, userID uuid.UUID, id string, index int, req ItemRequest) (*WizardResponse, error)
	Draft(ctx context.Context, userID uuid.UUID, id string) (*model.InvoiceData, error)
	Send(ctx context.Context, userID uuid.UUID, id string, signature string) (*InvoiceResponse, error)
}

type wizardSession struct {
	id     uuid.UUID
	userID uuid.UUID
	step   int
	draft  model.InvoiceData
}

type wizardService struct {
	invoiceService InvoiceService

	mu       sync.Mutex
	sessions map[uuid.UUID]*wizardSession
}

func NewWizardService(invoiceService InvoiceService) WizardService {
	return &wizardService{
		invoiceService: invoiceService,
		sessions:       make(map[uuid.UUID]*wizardSession),
	}
}

// --- Implementation ---

func (s *wizardService) Start(_ context.Context, userID uuid.UUID) (*WizardResponse, error) {
	session := &wizardSession{
		id:     uuid.New(),
		userID: userID,
		step:   StepBusiness,
		draft:  newDraft(time.Now()),
	}

	s.mu.Lock()
	s.sessions[session.id] = session
	s.mu.Unlock()

	return toWizardResponse(session), nil
}

func (s *wizardService) Get(_ context.Context, userID uuid.UUID, id string) (*WizardResponse, error) {
	return s.withSession(userID, id, func(*wizardSession) {})
}

func (s *wizardService) Next(_ context.Context, userID uuid.UUID, id string) (*WizardResponse, error) {
	return s.withSession(userID, id, func(session *wizardSession) {
		if session.step < stepCount-1 {
			session.step++
		}
	})
}

func (s *wizardService) Previous(_ context.Context, userID uuid.UUID, id string) (*WizardResponse, error) {
	return s.withSession(userID, id, func(session *wizardSession) {
		if session.step > 0 {
			session.step--
		}
	})
}

func (s *wizardService) SetBusiness(_ context.Context, userID uuid.UUID, id string, req PartyRequest) (*WizardResponse, error) {
	return s.withSession(userID, id, func(session *wizardSession) {
		session.draft.From = model.Party(req)
	})
}

func (s *wizardService) SetClient(_ context.Context, userID uuid.UUID, id string, req PartyRequest) (*WizardResponse, error) {
	return s.withSession(userID, id, func(session *wizardSession) {
		session.draft.To = model.Party(req)
	})
}

func (s *wizardService) SetPayment(_ context.Context, userID uuid.UUID, id string, req PaymentRequest) (*WizardResponse, error) {
	return s.withSession(userID, id, func(session *wizardSession) {
		session.draft.Payment = model.PaymentDetails(req)
	})
}

func (s *wizardService) SetDetails(_ context.Context, userID uuid.UUID, id string, req DetailsRequest) (*WizardResponse, error) {
	return s.withSession(userID, id, func(session *wizardSession) {
		if req.InvoiceNumber != "" {
			session.draft.Details.InvoiceNumber = req.InvoiceNumber
		}
		if req.Date != "" {
			session.draft.Details.Date = req.Date
		}
		if req.DueDate != "" {
			session.draft.Details.DueDate = req.DueDate
		}
	})
}

func (s *wizardService) AddItem(_ context.Context, userID uuid.UUID, id string) (*WizardResponse, error) {
	return s.withSession(userID, id, func(session *wizardSession) {
		session.draft.Details.Items = append(session.draft.Details.Items, blankItem())
	})
}

// RemoveItem deletes by position, not identity: indices of later items shift
// down. An out-of-range index is a silent no-op.
func (s *wizardService) RemoveItem(_ context.Context, userID uuid.UUID, id string, index int) (*WizardResponse, error) {
	return s.withSession(userID, id, func(session *wizardSession) {
		items := session.draft.Details.Items
		if index < 0 || index >= len(items) {
			return
		}
		session.draft.Details.Items = append(items[:index], items[index+1:]...)
	})
}

func (s *wizardService) UpdateItem(_ context.Context, userID uuid.UUID, id string, index int, req ItemRequest) (*WizardResponse, error) {
	// Parse before mutating: a half-applied update would leave the item's
	// amount out of sync with its factors.
	var quantity, rate decimal.Decimal
	if req.Quantity != nil {
		parsed, err := decimal.NewFromString(*req.Quantity)
		if err != nil {
			return nil, fmt.Errorf("invalid quantity: %w", err)
		}
		quantity = parsed
	}
	if req.Rate != nil {
		parsed, err := decimal.NewFromString(*req.Rate)
		if err != nil {
			return nil, fmt.Errorf("invalid rate: %w", err)
		}
		rate = parsed
	}

	return s.withSession(userID, id, func(session *wizardSession) {
		items := session.draft.Details.Items
		if index < 0 || index >= len(items) {
			return
		}
		item := &items[index]

		if req.Description != nil {
			item.Description = *req.Description
		}
		if req.Quantity != nil {
			item.Quantity = quantity
		}
		if req.Rate != nil {
			item.Rate = rate
		}
		// amount = quantity * rate, from the current values of both factors
		if req.Quantity != nil || req.Rate != nil {
			item.Amount = item.Quantity.Mul(item.Rate)
		}
	})
}

func (s *wizardService) Draft(_ context.Context, userID uuid.UUID, id string) (*model.InvoiceData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.find(userID, id)
	if err != nil {
		return nil, err
	}
	draft := session.draft
	return &draft, nil
}

// Send commits the draft: the invoice is stored, immediately marked sent, and
// the session is discarded. It is only available on the review step. When no
// authenticated user is present the store declines silently and the session
// is kept, so nothing is lost.
func (s *wizardService) Send(ctx context.Context, userID uuid.UUID, id string, signature string) (*InvoiceResponse, error) {
	// The lock is held across the commit so a draft can only be sent once:
	// a concurrent send of the same session blocks here and then fails the
	// lookup once the session is gone.
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.find(userID, id)
	if err != nil {
		return nil, err
	}
	if session.step != StepReview {
		return nil, ErrNotOnReview
	}

	created, err := s.invoiceService.Create(ctx, userID, session.draft, signature)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, nil
	}

	sent, err := s.invoiceService.MarkSent(ctx, userID, created.ID)
	if err != nil {
		return nil, err
	}

	delete(s.sessions, session.id)
	return sent, nil
}

// --- Helpers ---

func (s *wizardService) withSession(userID uuid.UUID, id string, apply func(*wizardSession)) (*WizardResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.find(userID, id)
	if err != nil {
		return nil, err
	}
	apply(session)
	return toWizardResponse(session), nil
}

func (s *wizardService) find(userID uuid.UUID, id string) (*wizardSession, error) {
	sessionID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrDraftNotFound
	}
	session, ok := s.sessions[sessionID]
	if !ok || session.userID != userID {
		return nil, ErrDraftNotFound
	}
	return session, nil
}

// newDraft seeds a fresh wizard draft: empty parties and payment details, an
// invoice number of the form INV-<year>-<random 0..999> (not guaranteed
// unique), today's date, a due date 30 days out, and one blank line item.
func newDraft(now time.Time) model.InvoiceData {
	return model.InvoiceData{
		Details: model.InvoiceDetails{
			InvoiceNumber: fmt.Sprintf("INV-%d-%d", now.Year(), rand.Intn(1000)),
			Date:          now.Format("2006-01-02"),
			DueDate:       now.AddDate(0, 0, 30).Format("2006-01-02"),
			Items:         []model.LineItem{blankItem()},
		},
	}
}

func blankItem() model.LineItem {
	return model.LineItem{
		Quantity: decimal.NewFromInt(1),
		Rate:     decimal.Zero,
		Amount:   decimal.Zero,
	}
}

func toWizardResponse(session *wizardSession) *WizardResponse {
	return &WizardResponse{
		ID:        session.id.String(),
		Step:      session.step,
		StepCount: stepCount,
		Draft:     session.draft,
	}
}
