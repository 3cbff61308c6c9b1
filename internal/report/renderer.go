package report

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/jung-kurt/gofpdf"

	"github.com/printberry/printberry/internal/quotes"
)

const (
	pageMargin = 12.0
	rowHeight  = 7.0
)

// RenderQuotePDF lays out a customer-facing quote on portrait A4. The
// supplier column only appears when the quote was created with the supplier
// toggle off.
func RenderQuotePDF(doc quotes.Document) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Quote "+doc.QuoteNumber, false)
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin+10)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 2*pageMargin

	// Header
	pdf.SetFont("Helvetica", "B", 24)
	pdf.CellFormat(contentW/2, 12, "QUOTE", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW/2, 12, doc.QuoteNumber, "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW/2, 6, "", "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW/2, 6, "Date: "+doc.Date.Format("02/01/2006"), "", 1, "R", false, 0, "")
	pdf.CellFormat(contentW/2, 6, "", "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW/2, 6, "Status: "+string(doc.Status), "", 1, "R", false, 0, "")
	pdf.Ln(4)

	// Customer block
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(contentW, 6, "To:", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 5, doc.CompanyName, "", 1, "L", false, 0, "")
	for _, line := range []string{doc.ContactPerson, doc.Address, doc.Email, doc.Phone} {
		if line != "" {
			pdf.CellFormat(contentW, 5, line, "", 1, "L", false, 0, "")
		}
	}
	pdf.Ln(6)

	writeLineTable(pdf, doc, contentW)

	// Totals box, right-aligned
	pdf.Ln(4)
	labelW := contentW - 70.0
	writeTotal := func(label string, amount float64, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 10)
		pdf.CellFormat(labelW, 6, "", "", 0, "L", false, 0, "")
		pdf.CellFormat(35, 6, label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(35, 6, money(amount), "1", 1, "R", false, 0, "")
	}
	writeTotal("Subtotal", doc.Subtotal, false)
	writeTotal(fmt.Sprintf("VAT (%s%%)", trimFloat(doc.VatPercent)), doc.Vat, false)
	writeTotal("Total", doc.Total, true)

	if doc.Notes != "" {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(contentW, 5, "Notes", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.MultiCell(contentW, 4.5, doc.Notes, "", "L", false)
	}
	if doc.Terms != "" {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(contentW, 5, "Terms", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.MultiCell(contentW, 4.5, doc.Terms, "", "L", false)
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, fmt.Errorf("render quote pdf: %w", err)
	}
	return out.Bytes(), nil
}

type tableColumn struct {
	title string
	width float64
	align string
}

func writeLineTable(pdf *gofpdf.Fpdf, doc quotes.Document, contentW float64) {
	cols := []tableColumn{
		{"Product", 0, "L"},
		{"Print Method", 40, "L"},
	}
	if !doc.HideSupplierInPDF {
		cols = append(cols, tableColumn{"Supplier", 32, "L"})
	}
	cols = append(cols,
		tableColumn{"Colours", 16, "C"},
		tableColumn{"Qty", 14, "R"},
		tableColumn{"Unit Price", 22, "R"},
		tableColumn{"Total", 24, "R"},
	)
	fixed := 0.0
	for _, c := range cols[1:] {
		fixed += c.width
	}
	cols[0].width = contentW - fixed

	header := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(235, 235, 235)
		for _, c := range cols {
			pdf.CellFormat(c.width, rowHeight, c.title, "1", 0, c.align, true, 0, "")
		}
		pdf.Ln(-1)
	}
	header()

	_, pageH := pdf.GetPageSize()
	pdf.SetFont("Helvetica", "", 9)
	for _, line := range doc.Lines {
		if pdf.GetY() > pageH-pageMargin-2*rowHeight {
			pdf.AddPage()
			header()
			pdf.SetFont("Helvetica", "", 9)
		}

		cells := []string{
			line.DisplayProduct(),
			line.DisplayPrintMethod(),
		}
		if !doc.HideSupplierInPDF {
			cells = append(cells, line.SupplierName)
		}
		colours := ""
		if line.Colours > 0 {
			colours = strconv.Itoa(line.Colours)
		}
		cells = append(cells,
			colours,
			strconv.Itoa(line.Quantity),
			money(line.UnitPrice()),
			money(line.SellingPrice),
		)
		for i, c := range cols {
			pdf.CellFormat(c.width, rowHeight, cells[i], "1", 0, c.align, false, 0, "")
		}
		pdf.Ln(-1)

		if line.LineDescription != nil && *line.LineDescription != "" {
			pdf.SetFont("Helvetica", "I", 8)
			pdf.CellFormat(contentW, 5, "    "+*line.LineDescription, "LR", 1, "L", false, 0, "")
			pdf.SetFont("Helvetica", "", 9)
		}
	}
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// trimFloat drops a trailing ".0" so whole-number VAT rates read naturally.
func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
