package render

import (
	"bytes"
	"fmt"

	"backend/internal/model"
	sig "backend/internal/signature"

	"github.com/jung-kurt/gofpdf"
)

// PDF renders the invoice as an A4 document mirroring the on-screen preview:
// header, from / bill-to blocks, items table, totals, payment details and, if
// present, the captured signature image.
func PDF(data model.InvoiceData, signatureDataURL string) ([]byte, error) {
	preview := BuildPreview(data, signatureDataURL)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 22)
	pdf.SetTextColor(37, 99, 235)
	pdf.CellFormat(0, 10, "INVOICE", "", 1, "R", false, 0, "")
	pdf.SetTextColor(0, 0, 0)

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 5, "Invoice No: "+preview.InvoiceNumber, "", 1, "R", false, 0, "")
	pdf.CellFormat(0, 5, "Date: "+preview.Date, "", 1, "R", false, 0, "")
	pdf.CellFormat(0, 5, "Due Date: "+preview.DueDate, "", 1, "R", false, 0, "")
	pdf.Ln(6)

	// From / Bill To
	colWidth := 90.0
	pdf.SetFont("Arial", "B", 9)
	pdf.SetTextColor(107, 114, 128)
	pdf.CellFormat(colWidth, 5, "FROM", "", 0, "L", false, 0, "")
	pdf.CellFormat(colWidth, 5, "BILL TO", "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Arial", "", 10)
	writePartyRow(pdf, colWidth, preview.From.Name, preview.To.Name)
	writePartyRow(pdf, colWidth, preview.From.Address, preview.To.Address)
	writePartyRow(pdf, colWidth, preview.From.Email, preview.To.Email)
	writePartyRow(pdf, colWidth, preview.From.Phone, preview.To.Phone)
	pdf.Ln(6)

	// Items table
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(249, 250, 251)
	pdf.CellFormat(90, 8, "Description", "B", 0, "L", true, 0, "")
	pdf.CellFormat(25, 8, "Quantity", "B", 0, "R", true, 0, "")
	pdf.CellFormat(30, 8, "Rate", "B", 0, "R", true, 0, "")
	pdf.CellFormat(35, 8, "Amount", "B", 1, "R", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, item := range preview.Items {
		pdf.CellFormat(90, 8, item.Description, "B", 0, "L", false, 0, "")
		pdf.CellFormat(25, 8, item.Quantity, "B", 0, "R", false, 0, "")
		pdf.CellFormat(30, 8, "$"+item.Rate, "B", 0, "R", false, 0, "")
		pdf.CellFormat(35, 8, "$"+item.Amount, "B", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	// Totals
	pdf.CellFormat(145, 6, "Subtotal:", "", 0, "R", false, 0, "")
	pdf.CellFormat(35, 6, "$"+preview.Subtotal, "", 1, "R", false, 0, "")
	pdf.CellFormat(145, 6, "Tax ("+preview.TaxRate+"):", "", 0, "R", false, 0, "")
	pdf.CellFormat(35, 6, "$"+preview.TaxAmount, "", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(145, 8, "Total:", "T", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, "$"+preview.Total, "T", 1, "R", false, 0, "")
	pdf.Ln(6)

	// Payment details
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 6, "Payment Details", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 5, "Bank Name: "+orNotSpecified(preview.Payment.BankName), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, "Account Number: "+orNotSpecified(preview.Payment.AccountNumber), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, "SWIFT Code: "+orNotSpecified(preview.Payment.SwiftCode), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	// Signature
	if signatureDataURL != "" {
		if image, err := sig.Parse(signatureDataURL); err == nil {
			pdf.SetFont("Arial", "", 9)
			pdf.SetTextColor(107, 114, 128)
			pdf.CellFormat(0, 5, "Authorized Signature:", "", 1, "L", false, 0, "")
			pdf.SetTextColor(0, 0, 0)

			name := "signature." + image.Type
			options := gofpdf.ImageOptions{ImageType: image.Type}
			pdf.RegisterImageOptionsReader(name, options, bytes.NewReader(image.Data))
			pdf.ImageOptions(name, 15, pdf.GetY(), 50, 0, true, options, 0, "")
			pdf.Ln(4)
		}
	}

	// Footer
	pdf.SetFont("Arial", "I", 8)
	pdf.SetTextColor(107, 114, 128)
	pdf.CellFormat(0, 5, "This invoice was generated electronically and is valid without a physical signature.", "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("All payments should be made within %d days of invoice date.", preview.PaymentWindowDays), "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render invoice pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func writePartyRow(pdf *gofpdf.Fpdf, colWidth float64, left, right string) {
	pdf.CellFormat(colWidth, 5, left, "", 0, "L", false, 0, "")
	pdf.CellFormat(colWidth, 5, right, "", 1, "L", false, 0, "")
}

func orNotSpecified(value string) string {
	if value == "" {
		return "Not specified"
	}
	return value
}
