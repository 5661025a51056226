package render

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/png"
	"testing"

	"backend/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func sampleData() model.InvoiceData {
	return model.InvoiceData{
		From: model.Party{Name: "Acme Ltd", Email: "billing@acme.test"},
		To:   model.Party{Name: "Client Co"},
		Payment: model.PaymentDetails{
			BankName:      "First Bank",
			AccountNumber: "12345",
		},
		Details: model.InvoiceDetails{
			InvoiceNumber: "INV-2026-7",
			Date:          "2026-09-01",
			DueDate:       "2026-10-01",
			Items: []model.LineItem{
				{Description: "design", Quantity: decimal.NewFromInt(2), Rate: decimal.NewFromInt(50), Amount: decimal.NewFromInt(100)},
				{Description: "review", Quantity: decimal.NewFromInt(1), Rate: decimal.NewFromInt(30), Amount: decimal.NewFromInt(30)},
			},
		},
	}
}

func TestBuildPreviewTotals(t *testing.T) {
	preview := BuildPreview(sampleData(), "")

	require.Equal(t, "130.00", preview.Subtotal)
	require.Equal(t, "0%", preview.TaxRate)
	require.Equal(t, "0.00", preview.TaxAmount)
	// total equals subtotal: no tax logic exists
	require.Equal(t, "130.00", preview.Total)
	require.Len(t, preview.Items, 2)
	require.Equal(t, "100.00", preview.Items[0].Amount)
	require.False(t, preview.HasSignature)
}

func TestPaymentWindowSpansMonthBoundaries(t *testing.T) {
	// a naive day-of-month subtraction would yield -20 here
	require.Equal(t, 11, PaymentWindowDays("2024-01-25", "2024-02-05"))
	require.Equal(t, 30, PaymentWindowDays("2026-09-01", "2026-10-01"))
	require.Equal(t, 0, PaymentWindowDays("garbage", "2026-10-01"))
	require.Equal(t, 0, PaymentWindowDays("2026-09-01", ""))
}

func TestPDFRendersDocument(t *testing.T) {
	document, err := PDF(sampleData(), "")
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(document, []byte("%PDF")))
}

func TestPDFEmbedsSignature(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 2))))
	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())

	document, err := PDF(sampleData(), dataURL)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(document, []byte("%PDF")))
}
