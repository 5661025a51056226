package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus enum constants
const (
	StatusDraft = "draft"
	StatusSent  = "sent"
	StatusPaid  = "paid"
)

// Party holds the free-text identity block of either side of an invoice.
// No validation is enforced on any field.
type Party struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
}

// PaymentDetails holds the bank coordinates printed on the invoice.
type PaymentDetails struct {
	BankName      string `json:"bank_name"`
	AccountNumber string `json:"account_number"`
	SwiftCode     string `json:"swift_code"`
}

// LineItem is one billable row. Amount is recomputed from quantity and rate
// whenever either factor changes; it is never edited directly.
type LineItem struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	Amount      decimal.Decimal `json:"amount"`
}

// InvoiceDetails carries the document header fields and the ordered line items.
// Date and DueDate are ISO dates (2006-01-02).
type InvoiceDetails struct {
	InvoiceNumber string     `json:"invoice_number"`
	Date          string     `json:"date"`
	DueDate       string     `json:"due_date"`
	Items         []LineItem `json:"items"`
}

// InvoiceData is the mutable draft collected by the wizard. Once committed it
// becomes an immutable snapshot inside a StoredInvoice.
type InvoiceData struct {
	From    Party          `json:"from"`
	To      Party          `json:"to"`
	Payment PaymentDetails `json:"payment"`
	Details InvoiceDetails `json:"details"`
}

// StoredInvoice wraps a committed InvoiceData snapshot plus lifecycle metadata.
// Status moves from draft to sent to paid; deletion removes the record with no tombstone.
type StoredInvoice struct {
	ID        uuid.UUID   `json:"id"`
	UserID    uuid.UUID   `json:"user_id"`
	Data      InvoiceData `json:"data"`
	Status    string      `json:"status"`
	Signature string      `json:"signature,omitempty"` // image data URL
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
	SentAt    *time.Time  `json:"sent_at,omitempty"`
	PaidAt    *time.Time  `json:"paid_at,omitempty"`
}

// Subtotal sums the line-item amounts of the snapshot. Tax is fixed at 0%, so
// the invoice total equals the subtotal.
func (d InvoiceData) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range d.Details.Items {
		sum = sum.Add(item.Amount)
	}
	return sum
}
