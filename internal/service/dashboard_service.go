package service

import (
	"context"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DashboardSummary aggregates a user's invoices. TotalAmount sums line-item
// amounts across every listed invoice regardless of status.
type DashboardSummary struct {
	Total       int    `json:"total"`
	Sent        int    `json:"sent"`
	Paid        int    `json:"paid"`
	TotalAmount string `json:"total_amount"`
}

type DashboardService interface {
	GetSummary(ctx context.Context, userID uuid.UUID) (DashboardSummary, error)
}

type dashboardService struct {
	invoiceRepo repository.InvoiceRepository
}

func NewDashboardService(invoiceRepo repository.InvoiceRepository) DashboardService {
	return &dashboardService{invoiceRepo: invoiceRepo}
}

func (s *dashboardService) GetSummary(ctx context.Context, userID uuid.UUID) (DashboardSummary, error) {
	invoices := s.invoiceRepo.ListByUser(ctx, userID)

	summary := DashboardSummary{Total: len(invoices)}
	totalAmount := decimal.Zero
	for _, inv := range invoices {
		switch inv.Status {
		case model.StatusSent:
			summary.Sent++
		case model.StatusPaid:
			summary.Paid++
		}
		totalAmount = totalAmount.Add(inv.Data.Subtotal())
	}
	summary.TotalAmount = totalAmount.StringFixed(2)

	return summary, nil
}
