package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/andy/invoicer/internal/domain"
	"github.com/andy/invoicer/internal/storage"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DefaultKey is the storage key the collection lives under
const DefaultKey = "invoices"

// InvoiceRepo stores the collection as one JSON array under a fixed key
type InvoiceRepo struct {
	store  storage.Store
	key    string
	logger *zap.Logger
}

// NewInvoiceRepo creates a new InvoiceRepo
func NewInvoiceRepo(store storage.Store, key string, logger *zap.Logger) *InvoiceRepo {
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvoiceRepo{store: store, key: key, logger: logger}
}

// invoiceRecord is the persisted shape of an invoice
type invoiceRecord struct {
	ID            string       `json:"id"`
	Number        string       `json:"number"`
	Date          string       `json:"date"`
	DueDate       string       `json:"dueDate"`
	ClientName    string       `json:"clientName"`
	ClientEmail   string       `json:"clientEmail"`
	ClientAddress string       `json:"clientAddress"`
	Items         []itemRecord `json:"items"`
	Notes         string       `json:"notes"`
}

type itemRecord struct {
	ID          string      `json:"id"`
	Description string      `json:"description"`
	Quantity    json.Number `json:"quantity"`
	Price       json.Number `json:"price"`
}

// LoadAll retrieves the full collection
func (r *InvoiceRepo) LoadAll(ctx context.Context) ([]domain.Invoice, error) {
	data, err := r.store.Load(ctx, r.key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return []domain.Invoice{}, nil
		}
		return nil, fmt.Errorf("failed to load invoices: %w", err)
	}

	invoices, err := decodeInvoices(data)
	if err != nil {
		r.logger.Warn("stored invoices are unreadable, starting empty",
			zap.String("key", r.key),
			zap.Error(err),
		)
		return []domain.Invoice{}, nil
	}

	r.logger.Debug("loaded invoices", zap.String("key", r.key), zap.Int("count", len(invoices)))
	return invoices, nil
}

// SaveAll overwrites the full collection
func (r *InvoiceRepo) SaveAll(ctx context.Context, invoices []domain.Invoice) error {
	data, err := encodeInvoices(invoices)
	if err != nil {
		return fmt.Errorf("failed to encode invoices: %w", err)
	}

	if err := r.store.Save(ctx, r.key, data); err != nil {
		return fmt.Errorf("failed to save invoices: %w", err)
	}

	r.logger.Info("saved invoices", zap.String("key", r.key), zap.Int("count", len(invoices)))
	return nil
}

func encodeInvoices(invoices []domain.Invoice) ([]byte, error) {
	records := make([]invoiceRecord, 0, len(invoices))
	for _, inv := range invoices {
		rec := invoiceRecord{
			ID:            inv.ID,
			Number:        inv.Number,
			Date:          inv.Date,
			DueDate:       inv.DueDate,
			ClientName:    inv.ClientName,
			ClientEmail:   inv.ClientEmail,
			ClientAddress: inv.ClientAddress,
			Items:         make([]itemRecord, 0, len(inv.Items)),
			Notes:         inv.Notes,
		}
		for _, it := range inv.Items {
			rec.Items = append(rec.Items, itemRecord{
				ID:          it.ID,
				Description: it.Description,
				Quantity:    json.Number(it.Quantity.String()),
				Price:       json.Number(it.Price.String()),
			})
		}
		records = append(records, rec)
	}
	return json.Marshal(records)
}

func decodeInvoices(data []byte) ([]domain.Invoice, error) {
	var records []invoiceRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}

	invoices := make([]domain.Invoice, 0, len(records))
	for _, rec := range records {
		inv := domain.Invoice{
			ID:            rec.ID,
			Number:        rec.Number,
			Date:          rec.Date,
			DueDate:       rec.DueDate,
			ClientName:    rec.ClientName,
			ClientEmail:   rec.ClientEmail,
			ClientAddress: rec.ClientAddress,
			Items:         make([]domain.Item, 0, len(rec.Items)),
			Notes:         rec.Notes,
		}
		for _, ir := range rec.Items {
			qty, err := parseNumber(ir.Quantity)
			if err != nil {
				return nil, fmt.Errorf("invoice %s item %s quantity: %w", rec.ID, ir.ID, err)
			}
			price, err := parseNumber(ir.Price)
			if err != nil {
				return nil, fmt.Errorf("invoice %s item %s price: %w", rec.ID, ir.ID, err)
			}
			inv.Items = append(inv.Items, domain.Item{
				ID:          ir.ID,
				Description: ir.Description,
				Quantity:    qty,
				Price:       price,
			})
		}
		invoices = append(invoices, inv)
	}
	return invoices, nil
}

// parseNumber treats a missing number as zero
func parseNumber(n json.Number) (decimal.Decimal, error) {
	if n == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(string(n))
}
