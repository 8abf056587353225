package render

import (
	"fmt"
	"strings"
)

const textWidth = 64

// Text renders the document as fixed-width plain text
func (d Document) Text() string {
	var b strings.Builder

	sep := strings.Repeat("=", textWidth)
	line := strings.Repeat("-", textWidth)

	b.WriteString("INVOICE\n")
	b.WriteString(sep + "\n")
	b.WriteString(fmt.Sprintf("Invoice #:  %s\n", d.Number))
	b.WriteString(fmt.Sprintf("Date:       %s\n", d.Date))
	if d.DueDate != "" {
		b.WriteString(fmt.Sprintf("Due Date:   %s\n", d.DueDate))
	}

	if d.From.Name != "" || len(d.From.Address) > 0 {
		b.WriteString("\nFrom:\n")
		if d.From.Name != "" {
			b.WriteString(fmt.Sprintf("  %s\n", d.From.Name))
		}
		for _, l := range d.From.Address {
			b.WriteString(fmt.Sprintf("  %s\n", l))
		}
		if d.From.Email != "" {
			b.WriteString(fmt.Sprintf("  %s\n", d.From.Email))
		}
	}

	b.WriteString("\nBill To:\n")
	b.WriteString(fmt.Sprintf("  %s\n", d.BillTo.Name))
	if d.BillTo.Email != "" {
		b.WriteString(fmt.Sprintf("  %s\n", d.BillTo.Email))
	}
	for _, l := range d.BillTo.Address {
		b.WriteString(fmt.Sprintf("  %s\n", l))
	}

	b.WriteString("\n" + line + "\n")
	b.WriteString(fmt.Sprintf("%-28s %8s %12s %13s\n", "Description", "Quantity", "Price", "Amount"))
	b.WriteString(line + "\n")

	for _, r := range d.Rows {
		b.WriteString(fmt.Sprintf("%-28s %8s %12s %13s\n",
			Truncate(r.Description, 28),
			FormatQuantity(r.Quantity),
			FormatMoney(r.Price),
			FormatMoney(r.Amount),
		))
	}

	b.WriteString(line + "\n")
	b.WriteString(fmt.Sprintf("%50s %13s\n", "Total", FormatMoney(d.Total)))
	b.WriteString(sep + "\n")

	if d.HasNotes() {
		b.WriteString("\nNotes:\n")
		for _, l := range strings.Split(d.Notes, "\n") {
			b.WriteString(fmt.Sprintf("  %s\n", l))
		}
	}

	return b.String()
}

// Truncate shortens s to maxLen runes, ending in "..." when cut
func Truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
