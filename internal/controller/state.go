package controller

import (
	"github.com/andy/invoicer/internal/domain"
	"github.com/andy/invoicer/internal/editor"
)

// State is one of Listing, Creating, Viewing or Editing
type State interface {
	Name() string
	state()
}

// Listing shows the collection; nothing is selected
type Listing struct{}

// Creating has an editor open on a fresh draft
type Creating struct {
	Editor *editor.Editor
}

// Viewing previews the selected invoice
type Viewing struct {
	Invoice domain.Invoice
}

// Editing has an editor open on a copy of the selected invoice
type Editing struct {
	Editor     *editor.Editor
	OriginalID string
}

func (Listing) Name() string  { return "listing" }
func (Creating) Name() string { return "creating" }
func (Viewing) Name() string  { return "viewing" }
func (Editing) Name() string  { return "editing" }

func (Listing) state()  {}
func (Creating) state() {}
func (Viewing) state()  {}
func (Editing) state()  {}
