// Package controller owns the invoice collection and moves the application
// between listing, creating, viewing and editing.
package controller

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/andy/invoicer/internal/domain"
	"github.com/andy/invoicer/internal/editor"
	"github.com/andy/invoicer/internal/ident"
	"github.com/andy/invoicer/internal/printer"
	"github.com/andy/invoicer/internal/render"
	"github.com/andy/invoicer/internal/repository"
	"go.uber.org/zap"
)

var (
	ErrInvalidTransition = errors.New("action not available in current state")
	ErrNotFound          = errors.New("invoice not found")
	ErrNoSelection       = errors.New("no invoice selected")
	ErrNoPrinter         = errors.New("no printer configured")
)

// Deps are the collaborators a Controller needs
type Deps struct {
	Repo    repository.InvoiceRepository
	IDs     ident.Generator
	Printer printer.Printer
	Issuer  render.Issuer
	Logger  *zap.Logger

	// Seeding for new invoices
	DueDays      int
	NumberPrefix string
	Now          func() time.Time
	Intn         func(n int) int
}

type Controller struct {
	deps     Deps
	invoices []domain.Invoice
	state    State
}

// NewController loads the collection once and starts in Listing
func NewController(ctx context.Context, deps Deps) (*Controller, error) {
	if deps.Repo == nil {
		return nil, errors.New("controller requires a repository")
	}
	if deps.IDs == nil {
		deps.IDs = ident.NewUUIDGenerator()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Intn == nil {
		deps.Intn = rand.Intn
	}

	invoices, err := deps.Repo.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load invoices: %w", err)
	}
	if invoices == nil {
		invoices = []domain.Invoice{}
	}

	return &Controller{
		deps:     deps,
		invoices: invoices,
		state:    Listing{},
	}, nil
}

// State returns the current state
func (c *Controller) State() State {
	return c.state
}

// Invoices returns a copy of the collection in stored order
func (c *Controller) Invoices() []domain.Invoice {
	out := make([]domain.Invoice, len(c.invoices))
	for i, inv := range c.invoices {
		out[i] = inv.Clone()
	}
	return out
}

// Find looks an invoice up by ID, then by number
func (c *Controller) Find(idOrNumber string) (domain.Invoice, bool) {
	if i := c.indexOf(idOrNumber); i >= 0 {
		return c.invoices[i].Clone(), true
	}
	for _, inv := range c.invoices {
		if inv.Number == idOrNumber {
			return inv.Clone(), true
		}
	}
	return domain.Invoice{}, false
}

func (c *Controller) indexOf(id string) int {
	for i, inv := range c.invoices {
		if inv.ID == id {
			return i
		}
	}
	return -1
}

// Editor returns the open editor while creating or editing, nil otherwise
func (c *Controller) Editor() *editor.Editor {
	switch s := c.state.(type) {
	case Creating:
		return s.Editor
	case Editing:
		return s.Editor
	}
	return nil
}

// Selected returns the stored invoice in focus while viewing or editing.
// Unsaved edits are not part of it.
func (c *Controller) Selected() (domain.Invoice, bool) {
	switch s := c.state.(type) {
	case Viewing:
		return s.Invoice.Clone(), true
	case Editing:
		if i := c.indexOf(s.OriginalID); i >= 0 {
			return c.invoices[i].Clone(), true
		}
	}
	return domain.Invoice{}, false
}

// New opens an editor on a freshly seeded draft (listing -> creating)
func (c *Controller) New() (*editor.Editor, error) {
	if _, ok := c.state.(Listing); !ok {
		return nil, c.invalid("new")
	}
	draft := domain.NewInvoice(c.deps.IDs.NewID(), domain.Defaults{
		Now:          c.deps.Now(),
		DueDays:      c.deps.DueDays,
		NumberPrefix: c.deps.NumberPrefix,
		Intn:         c.deps.Intn,
	})
	ed := editor.NewCreate(draft, c.deps.IDs)
	c.state = Creating{Editor: ed}
	return ed, nil
}

// Select previews an existing invoice (listing -> viewing)
func (c *Controller) Select(id string) error {
	if _, ok := c.state.(Listing); !ok {
		return c.invalid("select")
	}
	i := c.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	c.state = Viewing{Invoice: c.invoices[i].Clone()}
	return nil
}

// Edit opens an editor on the previewed invoice (viewing -> editing)
func (c *Controller) Edit() (*editor.Editor, error) {
	v, ok := c.state.(Viewing)
	if !ok {
		return nil, c.invalid("edit")
	}
	ed := editor.NewEdit(v.Invoice, c.deps.IDs)
	c.state = Editing{Editor: ed, OriginalID: v.Invoice.ID}
	return ed, nil
}

// Close leaves the preview (viewing -> listing)
func (c *Controller) Close() error {
	if _, ok := c.state.(Viewing); !ok {
		return c.invalid("close")
	}
	c.state = Listing{}
	return nil
}

// Cancel discards the open draft (creating/editing -> listing)
func (c *Controller) Cancel() error {
	ed := c.Editor()
	if ed == nil {
		return c.invalid("cancel")
	}
	ed.Cancel()
	c.state = Listing{}
	return nil
}

// Submit persists the draft and returns to listing. A draft whose ID is
// already in the collection replaces that entry in place; anything else is
// appended. If saving fails the collection and state are left as they were.
func (c *Controller) Submit(ctx context.Context) (domain.Invoice, error) {
	ed := c.Editor()
	if ed == nil {
		return domain.Invoice{}, c.invalid("submit")
	}

	draft := ed.Draft()
	updated := make([]domain.Invoice, len(c.invoices), len(c.invoices)+1)
	copy(updated, c.invoices)
	if i := c.indexOf(draft.ID); i >= 0 {
		updated[i] = draft
	} else {
		updated = append(updated, draft)
	}

	if err := c.deps.Repo.SaveAll(ctx, updated); err != nil {
		c.deps.Logger.Error("failed to save invoices", zap.String("id", draft.ID), zap.Error(err))
		return domain.Invoice{}, fmt.Errorf("failed to save invoice: %w", err)
	}

	c.invoices = updated
	c.state = Listing{}
	c.deps.Logger.Info("saved invoice",
		zap.String("id", draft.ID),
		zap.String("number", draft.Number),
		zap.Int("count", len(updated)),
	)
	return ed.Submit(), nil
}

// Document renders the selected invoice
func (c *Controller) Document() (render.Document, error) {
	inv, ok := c.Selected()
	if !ok {
		return render.Document{}, ErrNoSelection
	}
	return render.Render(inv, c.deps.Issuer), nil
}

// Print hands the rendered selection to the printer and returns where the
// printout went. State is never changed.
func (c *Controller) Print(ctx context.Context) (string, error) {
	doc, err := c.Document()
	if err != nil {
		return "", err
	}
	if c.deps.Printer == nil {
		return "", ErrNoPrinter
	}
	out, err := c.deps.Printer.Print(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("failed to print %s: %w", doc.Number, err)
	}
	c.deps.Logger.Info("printed invoice", zap.String("number", doc.Number), zap.String("output", out))
	return out, nil
}

func (c *Controller) invalid(action string) error {
	return fmt.Errorf("%w: %s while %s", ErrInvalidTransition, action, c.state.Name())
}
