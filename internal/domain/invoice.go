package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the ISO-8601 calendar date format used for invoice dates
const DateLayout = "2006-01-02"

const (
	DefaultNumberPrefix = "INV"
	DefaultDueDays      = 14
)

type Invoice struct {
	ID            string
	Number        string
	Date          string
	DueDate       string
	ClientName    string
	ClientEmail   string
	ClientAddress string
	Items         []Item
	Notes         string
}

type Item struct {
	ID          string
	Description string
	Quantity    decimal.Decimal
	Price       decimal.Decimal
}

// NewItem returns a blank line item: quantity 1, price 0
func NewItem(id string) Item {
	return Item{
		ID:       id,
		Quantity: decimal.NewFromInt(1),
		Price:    decimal.Zero,
	}
}

// Amount returns quantity * price
func (it Item) Amount() decimal.Decimal {
	return it.Quantity.Mul(it.Price)
}

// Total sums quantity * price over all items. No rounding is applied.
func Total(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Amount())
	}
	return total
}

// Total returns the invoice total, always derived from the items
func (i Invoice) Total() decimal.Decimal {
	return Total(i.Items)
}

// Clone returns a deep copy; the items slice is not shared
func (i Invoice) Clone() Invoice {
	out := i
	if i.Items != nil {
		out.Items = make([]Item, len(i.Items))
		copy(out.Items, i.Items)
	}
	return out
}

// ItemIndex returns the position of the item with the given ID, or -1
func (i Invoice) ItemIndex(id string) int {
	for idx, it := range i.Items {
		if it.ID == id {
			return idx
		}
	}
	return -1
}

// Defaults controls how a fresh invoice is seeded
type Defaults struct {
	Now          time.Time
	DueDays      int
	NumberPrefix string
	// Intn returns a pseudo-random number in [0,n)
	Intn func(n int) int
}

// NewInvoice creates a new invoice with generated defaults: today's date,
// due date after DueDays, a suggested (non-unique) number and empty fields.
func NewInvoice(id string, d Defaults) Invoice {
	now := d.Now
	if now.IsZero() {
		now = time.Now()
	}
	dueDays := d.DueDays
	if dueDays <= 0 {
		dueDays = DefaultDueDays
	}
	prefix := d.NumberPrefix
	if prefix == "" {
		prefix = DefaultNumberPrefix
	}
	seq := 0
	if d.Intn != nil {
		seq = d.Intn(1000)
	}

	return Invoice{
		ID:      id,
		Number:  fmt.Sprintf("%s-%d-%d", prefix, now.Year(), seq),
		Date:    now.Format(DateLayout),
		DueDate: now.AddDate(0, 0, dueDays).Format(DateLayout),
		Items:   make([]Item, 0),
	}
}

// Validate returns an error if a required field is missing or malformed.
// This is the input-surface check run before a draft is submitted.
func (i Invoice) Validate() error {
	if strings.TrimSpace(i.Number) == "" {
		return errors.New("invoice number is required")
	}
	if strings.TrimSpace(i.Date) == "" {
		return errors.New("invoice date is required")
	}
	if _, err := time.Parse(DateLayout, i.Date); err != nil {
		return fmt.Errorf("invoice date must be YYYY-MM-DD: %q", i.Date)
	}
	if i.DueDate != "" {
		if _, err := time.Parse(DateLayout, i.DueDate); err != nil {
			return fmt.Errorf("due date must be YYYY-MM-DD: %q", i.DueDate)
		}
	}
	if strings.TrimSpace(i.ClientName) == "" {
		return errors.New("client name is required")
	}
	if strings.TrimSpace(i.ClientEmail) == "" {
		return errors.New("client email is required")
	}
	if !strings.Contains(i.ClientEmail, "@") {
		return fmt.Errorf("client email is not an address: %q", i.ClientEmail)
	}
	if strings.TrimSpace(i.ClientAddress) == "" {
		return errors.New("client address is required")
	}
	for n, it := range i.Items {
		if err := it.Validate(); err != nil {
			return fmt.Errorf("item %d: %w", n+1, err)
		}
	}
	return nil
}

// Validate returns an error if the item is invalid
func (it Item) Validate() error {
	if strings.TrimSpace(it.Description) == "" {
		return errors.New("description is required")
	}
	if it.Quantity.IsNegative() {
		return errors.New("quantity cannot be negative")
	}
	if it.Price.IsNegative() {
		return errors.New("price cannot be negative")
	}
	return nil
}
