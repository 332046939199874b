// Package render produces the printable GST tax invoice, including the
// legal amount-in-words line.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"github.com/narensv/vyapari/internal/invoice"
	"github.com/narensv/vyapari/internal/words"
)

// Seller is the issuing business printed on the invoice header.
type Seller struct {
	Name    string
	GSTIN   string
	Address string
	Phone   string
}

// Document is a finalized invoice ready for printing.
type Document struct {
	Number string
	Date   string
	Seller Seller
	Draft  invoice.Draft
}

// PDF writes the invoice as an A4 PDF. The draft must have passed
// validation; rendering does not re-check compliance.
func PDF(w io.Writer, doc Document) error {
	totals := doc.Draft.Totals()

	inWords, err := words.Rupees(totals.Total)
	if err != nil {
		return fmt.Errorf("amount in words: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, "TAX INVOICE", "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 6, doc.Seller.Name, "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 9)

	if doc.Seller.GSTIN != "" {
		pdf.CellFormat(0, 5, "GSTIN: "+doc.Seller.GSTIN, "", 1, "L", false, 0, "")
	}

	if doc.Seller.Address != "" {
		pdf.CellFormat(0, 5, doc.Seller.Address, "", 1, "L", false, 0, "")
	}

	pdf.Ln(3)
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(95, 5, "Invoice No: "+doc.Number, "", 0, "L", false, 0, "")
	pdf.CellFormat(95, 5, "Date: "+doc.Date, "", 1, "R", false, 0, "")

	pdf.CellFormat(95, 5, "Bill To: "+doc.Draft.CustomerName, "", 1, "L", false, 0, "")

	if doc.Draft.CustomerGSTIN != "" {
		pdf.CellFormat(95, 5, "Customer GSTIN: "+doc.Draft.CustomerGSTIN, "", 1, "L", false, 0, "")
	}

	pdf.Ln(4)

	// Item table.
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(70, 7, "Description", "1", 0, "L", true, 0, "")
	pdf.CellFormat(20, 7, "HSN", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 7, "Qty", "1", 0, "R", true, 0, "")
	pdf.CellFormat(15, 7, "Unit", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "Rate", "1", 0, "R", true, 0, "")
	pdf.CellFormat(30, 7, "Amount", "1", 1, "R", true, 0, "")

	pdf.SetFont("Arial", "", 9)

	for _, item := range doc.Draft.Items {
		pdf.CellFormat(70, 6, item.Description, "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 6, item.HSNCode, "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 6, item.Quantity.String(), "1", 0, "R", false, 0, "")
		pdf.CellFormat(15, 6, item.Unit, "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 6, money(item.UnitRate), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, money(item.Amount()), "1", 1, "R", false, 0, "")
	}

	pdf.Ln(2)

	totalRow(pdf, "Subtotal", totals.Subtotal)

	if totals.IGST.IsPositive() {
		totalRow(pdf, "IGST @ 18%", totals.IGST)
	} else {
		totalRow(pdf, "CGST @ 9%", totals.CGST)
		totalRow(pdf, "SGST @ 9%", totals.SGST)
	}

	pdf.SetFont("Arial", "B", 10)
	totalRow(pdf, "Total", totals.Total)

	pdf.Ln(4)
	pdf.SetFont("Arial", "I", 9)
	pdf.MultiCell(0, 5, "Amount in words: "+inWords, "", "L", false)

	if notes := strings.TrimSpace(doc.Draft.Notes); notes != "" {
		pdf.Ln(2)
		pdf.SetFont("Arial", "", 8)
		pdf.MultiCell(0, 4, notes, "", "L", false)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("writing pdf: %w", err)
	}

	return nil
}

func totalRow(pdf *gofpdf.Fpdf, label string, amount decimal.Decimal) {
	pdf.CellFormat(130, 6, "", "", 0, "L", false, 0, "")
	pdf.CellFormat(30, 6, label, "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 6, money(amount), "1", 1, "R", false, 0, "")
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
