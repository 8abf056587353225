// Package editor holds a single in-progress invoice draft. The draft is a
// private copy; it only leaves the editor through Submit.
package editor

import (
	"fmt"

	"github.com/andy/invoicer/internal/domain"
	"github.com/andy/invoicer/internal/ident"
	"github.com/shopspring/decimal"
)

// Mode is how the editor was entered
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	switch m {
	case ModeCreate:
		return "create"
	case ModeEdit:
		return "edit"
	default:
		return "unknown"
	}
}

// Field names a scalar invoice field
type Field int

const (
	FieldNumber Field = iota
	FieldDate
	FieldDueDate
	FieldClientName
	FieldClientEmail
	FieldClientAddress
	FieldNotes
)

var fieldNames = map[Field]string{
	FieldNumber:        "number",
	FieldDate:          "date",
	FieldDueDate:       "dueDate",
	FieldClientName:    "clientName",
	FieldClientEmail:   "clientEmail",
	FieldClientAddress: "clientAddress",
	FieldNotes:         "notes",
}

func (f Field) String() string {
	if name, ok := fieldNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Field(%d)", int(f))
}

// ItemPatch carries the item fields to overwrite; nil fields are kept
type ItemPatch struct {
	Description *string
	Quantity    *decimal.Decimal
	Price       *decimal.Decimal
}

// Editor is the invoice form state machine
type Editor struct {
	mode   Mode
	draft  domain.Invoice
	ids    ident.Generator
	closed bool
}

// NewCreate starts a create-mode editor seeded with defaults
func NewCreate(defaults domain.Invoice, ids ident.Generator) *Editor {
	return &Editor{mode: ModeCreate, draft: defaults.Clone(), ids: ids}
}

// NewEdit starts an edit-mode editor on a deep copy of existing; the ID is kept
func NewEdit(existing domain.Invoice, ids ident.Generator) *Editor {
	return &Editor{mode: ModeEdit, draft: existing.Clone(), ids: ids}
}

func (e *Editor) Mode() Mode {
	return e.mode
}

// ID returns the draft's invoice identifier
func (e *Editor) ID() string {
	return e.draft.ID
}

// Closed reports whether Submit or Cancel has been called
func (e *Editor) Closed() bool {
	return e.closed
}

// Draft returns a copy of the current draft
func (e *Editor) Draft() domain.Invoice {
	return e.draft.Clone()
}

// Total is recomputed from the live draft's items
func (e *Editor) Total() decimal.Decimal {
	return domain.Total(e.draft.Items)
}

// UpdateField replaces one scalar field of the draft. No validation.
func (e *Editor) UpdateField(f Field, value string) {
	if e.closed {
		return
	}
	switch f {
	case FieldNumber:
		e.draft.Number = value
	case FieldDate:
		e.draft.Date = value
	case FieldDueDate:
		e.draft.DueDate = value
	case FieldClientName:
		e.draft.ClientName = value
	case FieldClientEmail:
		e.draft.ClientEmail = value
	case FieldClientAddress:
		e.draft.ClientAddress = value
	case FieldNotes:
		e.draft.Notes = value
	}
}

// AddItem appends a blank item (quantity 1, price 0) and returns its ID
func (e *Editor) AddItem() string {
	if e.closed {
		return ""
	}
	it := domain.NewItem(e.ids.NewID())
	e.draft.Items = append(e.draft.Items, it)
	return it.ID
}

// RemoveItem deletes the item with the given ID; unknown IDs are ignored
func (e *Editor) RemoveItem(id string) {
	if e.closed {
		return
	}
	idx := e.draft.ItemIndex(id)
	if idx < 0 {
		return
	}
	items := make([]domain.Item, 0, len(e.draft.Items)-1)
	items = append(items, e.draft.Items[:idx]...)
	items = append(items, e.draft.Items[idx+1:]...)
	e.draft.Items = items
}

// UpdateItem merges patch into the item with the given ID; unknown IDs are ignored
func (e *Editor) UpdateItem(id string, patch ItemPatch) {
	if e.closed {
		return
	}
	idx := e.draft.ItemIndex(id)
	if idx < 0 {
		return
	}
	it := e.draft.Items[idx]
	if patch.Description != nil {
		it.Description = *patch.Description
	}
	if patch.Quantity != nil {
		it.Quantity = *patch.Quantity
	}
	if patch.Price != nil {
		it.Price = *patch.Price
	}
	e.draft.Items[idx] = it
}

// Submit closes the editor and hands back the draft as currently set
func (e *Editor) Submit() domain.Invoice {
	e.closed = true
	return e.draft.Clone()
}

// Cancel closes the editor and discards the draft
func (e *Editor) Cancel() {
	e.closed = true
	e.draft = domain.Invoice{}
}
