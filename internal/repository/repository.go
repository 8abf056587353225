package repository

import (
	"context"

	"github.com/andy/invoicer/internal/domain"
)

// InvoiceRepository reads and writes the whole invoice collection at once.
// There is no per-invoice addressed storage operation.
type InvoiceRepository interface {
	// LoadAll returns the persisted collection; no data (or unreadable data)
	// yields an empty collection
	LoadAll(ctx context.Context) ([]domain.Invoice, error)
	// SaveAll replaces the persisted collection with invoices, in order
	SaveAll(ctx context.Context, invoices []domain.Invoice) error
}
