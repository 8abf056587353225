package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// WritePDF lays the document out on A4 pages and writes the PDF to w
func WritePDF(w io.Writer, d Document) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Invoice "+d.Number, true)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	// core fonts are cp1252
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	contentW := pageW - left - right

	// Header: title + number on the left, dates on the right
	pdf.SetFont("Helvetica", "B", 24)
	pdf.CellFormat(contentW/2, 10, "INVOICE", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW/2, 10, tr("Date: "+d.Date), "", 1, "R", false, 0, "")
	pdf.SetTextColor(90, 90, 90)
	pdf.CellFormat(contentW/2, 6, tr("#"+d.Number), "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW/2, 6, tr("Due Date: "+d.DueDate), "", 1, "R", false, 0, "")
	pdf.Ln(8)

	// From / Bill To columns
	colW := contentW / 2
	top := pdf.GetY()
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(colW, 7, "From", "", 0, "L", false, 0, "")
	pdf.CellFormat(colW, 7, "Bill To", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	fromLines := append([]string{d.From.Name}, d.From.Address...)
	if d.From.Email != "" {
		fromLines = append(fromLines, d.From.Email)
	}
	toLines := append([]string{d.BillTo.Name, d.BillTo.Email}, d.BillTo.Address...)
	y := pdf.GetY()
	for i, l := range fromLines {
		pdf.SetXY(left, y+float64(i)*5)
		pdf.CellFormat(colW, 5, tr(l), "", 0, "L", false, 0, "")
	}
	for i, l := range toLines {
		pdf.SetXY(left+colW, y+float64(i)*5)
		pdf.CellFormat(colW, 5, tr(l), "", 0, "L", false, 0, "")
	}
	rows := len(fromLines)
	if len(toLines) > rows {
		rows = len(toLines)
	}
	pdf.SetXY(left, top+7+float64(rows)*5+8)

	// Items table
	widths := []float64{contentW * 0.46, contentW * 0.14, contentW * 0.20, contentW * 0.20}
	headers := []string{"Description", "Quantity", "Price", "Amount"}
	aligns := []string{"L", "R", "R", "R"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(243, 244, 246)
	pdf.SetTextColor(107, 114, 128)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, strings.ToUpper(h), "B", 0, aligns[i], true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(17, 24, 39)
	for _, r := range d.Rows {
		cells := []string{
			r.Description,
			FormatQuantity(r.Quantity),
			FormatMoney(r.Price),
			FormatMoney(r.Amount),
		}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 8, tr(c), "B", 0, aligns[i], false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(widths[0]+widths[1]+widths[2], 9, "Total", "", 0, "R", false, 0, "")
	pdf.CellFormat(widths[3], 9, FormatMoney(d.Total), "", 1, "R", false, 0, "")

	if d.HasNotes() {
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(contentW, 7, "Notes", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(contentW, 5, tr(d.Notes), "", "L", false)
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("failed to lay out pdf: %w", err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}
