package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/andy/invoicer/internal/domain"
	"github.com/andy/invoicer/internal/editor"
	"github.com/shopspring/decimal"
)

// parseDate accepts YYYY-MM-DD, "today" or "yesterday" and returns YYYY-MM-DD
func parseDate(s string, now time.Time) (string, error) {
	switch s {
	case "today":
		return now.Format(domain.DateLayout), nil
	case "yesterday":
		return now.AddDate(0, 0, -1).Format(domain.DateLayout), nil
	default:
		t, err := time.Parse(domain.DateLayout, s)
		if err != nil {
			return "", fmt.Errorf("expected format: YYYY-MM-DD, 'today', or 'yesterday'")
		}
		return t.Format(domain.DateLayout), nil
	}
}

// parseItem turns "description;quantity;price" into a patch for a new item.
// Quantity and price may be left out.
func parseItem(s string) (editor.ItemPatch, error) {
	parts := strings.Split(s, ";")
	if len(parts) > 3 {
		return editor.ItemPatch{}, fmt.Errorf("item %q: expected description;quantity;price", s)
	}

	desc := strings.TrimSpace(parts[0])
	if desc == "" {
		return editor.ItemPatch{}, fmt.Errorf("item %q: description is required", s)
	}
	patch := editor.ItemPatch{Description: &desc}

	if len(parts) > 1 && strings.TrimSpace(parts[1]) != "" {
		q, err := decimal.NewFromString(strings.TrimSpace(parts[1]))
		if err != nil {
			return editor.ItemPatch{}, fmt.Errorf("item %q: invalid quantity: %w", s, err)
		}
		patch.Quantity = &q
	}
	if len(parts) > 2 && strings.TrimSpace(parts[2]) != "" {
		p, err := decimal.NewFromString(strings.TrimPrefix(strings.TrimSpace(parts[2]), "$"))
		if err != nil {
			return editor.ItemPatch{}, fmt.Errorf("item %q: invalid price: %w", s, err)
		}
		patch.Price = &p
	}
	return patch, nil
}

func confirmPrompt(in io.Reader, out io.Writer, message string) bool {
	fmt.Fprintf(out, "%s [y/N] ", message)
	reader := bufio.NewReader(in)
	input, err := reader.ReadString('\n')
	if err != nil && input == "" {
		return false
	}
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}
