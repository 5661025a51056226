// Package render projects an invoice draft onto its printable form: a JSON
// preview with computed totals and a PDF document.
package render

import (
	"time"

	"backend/internal/model"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// ItemPreview is one rendered line of the items table.
type ItemPreview struct {
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	Rate        string `json:"rate"`
	Amount      string `json:"amount"`
}

// Preview is a pure projection of an invoice draft. Tax logic does not exist:
// the tax line always reads 0% / 0.00 and the total equals the subtotal.
type Preview struct {
	InvoiceNumber     string               `json:"invoice_number"`
	Date              string               `json:"date"`
	DueDate           string               `json:"due_date"`
	From              model.Party          `json:"from"`
	To                model.Party          `json:"to"`
	Payment           model.PaymentDetails `json:"payment"`
	Items             []ItemPreview        `json:"items"`
	Subtotal          string               `json:"subtotal"`
	TaxRate           string               `json:"tax_rate"`
	TaxAmount         string               `json:"tax_amount"`
	Total             string               `json:"total"`
	PaymentWindowDays int                  `json:"payment_window_days"`
	HasSignature      bool                 `json:"has_signature"`
}

// BuildPreview computes the rendered projection of a draft.
func BuildPreview(data model.InvoiceData, signature string) Preview {
	items := make([]ItemPreview, 0, len(data.Details.Items))
	for _, item := range data.Details.Items {
		items = append(items, ItemPreview{
			Description: item.Description,
			Quantity:    item.Quantity.String(),
			Rate:        item.Rate.StringFixed(2),
			Amount:      item.Amount.StringFixed(2),
		})
	}

	subtotal := data.Subtotal()
	return Preview{
		InvoiceNumber:     data.Details.InvoiceNumber,
		Date:              data.Details.Date,
		DueDate:           data.Details.DueDate,
		From:              data.From,
		To:                data.To,
		Payment:           data.Payment,
		Items:             items,
		Subtotal:          subtotal.StringFixed(2),
		TaxRate:           "0%",
		TaxAmount:         decimal.Zero.StringFixed(2),
		Total:             subtotal.StringFixed(2),
		PaymentWindowDays: PaymentWindowDays(data.Details.Date, data.Details.DueDate),
		HasSignature:      signature != "",
	}
}

// PaymentWindowDays returns the calendar-day span between the invoice date and
// the due date. Unparseable dates yield 0.
func PaymentWindowDays(date, dueDate string) int {
	from, err := time.Parse(dateLayout, date)
	if err != nil {
		return 0
	}
	to, err := time.Parse(dateLayout, dueDate)
	if err != nil {
		return 0
	}
	return int(to.Sub(from).Hours() / 24)
}
