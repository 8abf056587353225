// Package render projects an invoice into a printable document. Nothing here
// mutates the invoice.
package render

import (
	"strings"

	"github.com/andy/invoicer/internal/domain"
	"github.com/shopspring/decimal"
)

// Issuer is who the invoice is from
type Issuer struct {
	Name    string
	Address []string
	Email   string
}

// Party is who the invoice is billed to
type Party struct {
	Name    string
	Email   string
	Address []string
}

// Row is one rendered line item
type Row struct {
	Description string
	Quantity    decimal.Decimal
	Price       decimal.Decimal
	Amount      decimal.Decimal
}

// Document is the printable projection of an invoice
type Document struct {
	Number  string
	Date    string
	DueDate string
	From    Issuer
	BillTo  Party
	Rows    []Row
	Total   decimal.Decimal
	Notes   string
}

// HasNotes reports whether the notes section is shown
func (d Document) HasNotes() bool {
	return d.Notes != ""
}

// Render builds the document for inv
func Render(inv domain.Invoice, from Issuer) Document {
	doc := Document{
		Number:  inv.Number,
		Date:    inv.Date,
		DueDate: inv.DueDate,
		From:    from,
		BillTo: Party{
			Name:    inv.ClientName,
			Email:   inv.ClientEmail,
			Address: splitLines(inv.ClientAddress),
		},
		Rows:  make([]Row, 0, len(inv.Items)),
		Total: domain.Total(inv.Items),
	}
	for _, it := range inv.Items {
		doc.Rows = append(doc.Rows, Row{
			Description: it.Description,
			Quantity:    it.Quantity,
			Price:       it.Price,
			Amount:      it.Amount(),
		})
	}
	doc.Notes = inv.Notes
	return doc
}

func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// FormatMoney formats an amount as "$X,XXX.XX", rounding to cents
func FormatMoney(amount decimal.Decimal) string {
	negative := amount.IsNegative()
	s := amount.Abs().StringFixed(2)

	// Split at decimal point
	dotPos := len(s) - 3
	intPart := s[:dotPos]
	decPart := s[dotPos:]

	// Add commas to integer part
	result := make([]byte, 0, len(intPart)+len(intPart)/3)
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			result = append(result, ',')
		}
		result = append(result, byte(c))
	}

	prefix := "$"
	if negative {
		prefix = "-$"
	}
	return prefix + string(result) + decPart
}

// FormatQuantity prints a quantity without trailing zeros
func FormatQuantity(q decimal.Decimal) string {
	return q.String()
}
