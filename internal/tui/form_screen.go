package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/andy/invoicer/internal/controller"
	"github.com/andy/invoicer/internal/domain"
	"github.com/andy/invoicer/internal/editor"
	"github.com/andy/invoicer/internal/render"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// scalar form fields, in focus order. Multiline fields use a textarea.
var formFields = []struct {
	field       editor.Field
	label       string
	placeholder string
	multiline   bool
}{
	{editor.FieldNumber, "Invoice #:", "INV-2026-1", false},
	{editor.FieldDate, "Date:", domain.DateLayout, false},
	{editor.FieldDueDate, "Due date:", domain.DateLayout, false},
	{editor.FieldClientName, "Client name:", "Client name", false},
	{editor.FieldClientEmail, "Client email:", "billing@example.com", false},
	{editor.FieldClientAddress, "Client address:", "Street\nCity", true},
	{editor.FieldNotes, "Notes:", "Optional notes", true},
}

// item row cells
const (
	cellDescription = iota
	cellQuantity
	cellPrice
	cellCount
)

type itemRow struct {
	id    string
	cells [cellCount]textinput.Model
	err   string
}

// FormModel edits the controller's open draft
type FormModel struct {
	ctrl *controller.Controller
	ed   *editor.Editor
	mode editor.Mode

	// one of inputs[i] or areas[i] is used, by formFields[i].multiline
	inputs     []textinput.Model
	areas      []textarea.Model
	rows       []itemRow
	fieldFocus int

	err    error
	status string
}

// NewFormModel builds inputs from the open editor's draft
func NewFormModel(ctrl *controller.Controller) tea.Model {
	m := &FormModel{ctrl: ctrl, ed: ctrl.Editor()}
	if m.ed == nil {
		m.err = controller.ErrInvalidTransition
		return m
	}
	m.mode = m.ed.Mode()
	draft := m.ed.Draft()

	m.inputs = make([]textinput.Model, len(formFields))
	m.areas = make([]textarea.Model, len(formFields))
	values := map[editor.Field]string{
		editor.FieldNumber:        draft.Number,
		editor.FieldDate:          draft.Date,
		editor.FieldDueDate:       draft.DueDate,
		editor.FieldClientName:    draft.ClientName,
		editor.FieldClientEmail:   draft.ClientEmail,
		editor.FieldClientAddress: draft.ClientAddress,
		editor.FieldNotes:         draft.Notes,
	}
	for i, f := range formFields {
		if f.multiline {
			ta := textarea.New()
			ta.CharLimit = 0
			ta.MaxHeight = 0
			ta.MaxWidth = 0
			ta.Placeholder = f.placeholder
			ta.ShowLineNumbers = false
			ta.SetWidth(40)
			ta.SetHeight(3)
			ta.SetValue(values[f.field])
			m.areas[i] = ta
			continue
		}
		in := textinput.New()
		in.CharLimit = 0
		in.Width = 40
		in.Placeholder = f.placeholder
		in.SetValue(values[f.field])
		m.inputs[i] = in
	}

	for _, it := range draft.Items {
		m.rows = append(m.rows, newItemRow(it))
	}
	return m
}

func newItemRow(it domain.Item) itemRow {
	r := itemRow{id: it.ID}
	widths := [cellCount]int{28, 6, 10}
	placeholders := [cellCount]string{"Description", "Qty", "Price"}
	for c := range r.cells {
		in := textinput.New()
		in.Prompt = ""
		in.Width = widths[c]
		in.CharLimit = 0
		in.Placeholder = placeholders[c]
		r.cells[c] = in
	}
	r.cells[cellDescription].SetValue(it.Description)
	r.cells[cellQuantity].SetValue(render.FormatQuantity(it.Quantity))
	r.cells[cellPrice].SetValue(it.Price.String())
	return r
}

// IsCapturingInput returns true while the form is open
func (m *FormModel) IsCapturingInput() bool {
	return m.ed != nil && !m.ed.Closed()
}

func (m *FormModel) Init() tea.Cmd {
	return m.focus(0)
}

func (m *FormModel) focusCount() int {
	return len(formFields) + len(m.rows)*cellCount
}

// rowCell maps a focus index onto an item row; ok is false for scalar fields
func (m *FormModel) rowCell(i int) (row, cell int, ok bool) {
	if i < len(formFields) {
		return 0, 0, false
	}
	i -= len(formFields)
	return i / cellCount, i % cellCount, true
}

func (m *FormModel) blur(i int) {
	if row, cell, ok := m.rowCell(i); ok {
		if row < len(m.rows) {
			m.rows[row].cells[cell].Blur()
		}
		return
	}
	if formFields[i].multiline {
		m.areas[i].Blur()
		return
	}
	m.inputs[i].Blur()
}

func (m *FormModel) focus(i int) tea.Cmd {
	if n := m.focusCount(); i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	m.fieldFocus = i
	if row, cell, ok := m.rowCell(i); ok {
		return m.rows[row].cells[cell].Focus()
	}
	if formFields[i].multiline {
		return m.areas[i].Focus()
	}
	return m.inputs[i].Focus()
}

func (m *FormModel) moveFocus(delta int) tea.Cmd {
	n := m.focusCount()
	m.blur(m.fieldFocus)
	return m.focus((m.fieldFocus + delta + n) % n)
}

func (m *FormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.ed == nil {
		return m, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		m.status = ""
		switch {
		case key.Matches(keyMsg, DefaultKeyMap.Cancel):
			m.ctrl.Cancel()
			return m, nil

		case key.Matches(keyMsg, DefaultKeyMap.Save):
			return m, m.save()

		case keyMsg.String() == "ctrl+p":
			return m, m.print()

		case key.Matches(keyMsg, DefaultKeyMap.NextField):
			return m, m.moveFocus(1)

		case key.Matches(keyMsg, DefaultKeyMap.PrevField):
			return m, m.moveFocus(-1)

		case key.Matches(keyMsg, DefaultKeyMap.AddItem):
			return m, m.addItem()

		case key.Matches(keyMsg, DefaultKeyMap.RemoveItem):
			return m, m.removeItem()

		case keyMsg.String() == "enter" && !m.inMultiline():
			// enter advances; in a multiline box it starts a new line
			return m, m.moveFocus(1)
		}
	}

	var cmd tea.Cmd
	i := m.fieldFocus
	if row, cell, ok := m.rowCell(i); ok {
		m.rows[row].cells[cell], cmd = m.rows[row].cells[cell].Update(msg)
		m.syncItem(row)
	} else if formFields[i].multiline {
		m.areas[i], cmd = m.areas[i].Update(msg)
		m.ed.UpdateField(formFields[i].field, m.areas[i].Value())
	} else {
		m.inputs[i], cmd = m.inputs[i].Update(msg)
		m.ed.UpdateField(formFields[i].field, m.inputs[i].Value())
	}
	return m, cmd
}

func (m *FormModel) inMultiline() bool {
	return m.fieldFocus < len(formFields) && formFields[m.fieldFocus].multiline
}

// syncItem pushes a row's cells into the draft. A cell that does not parse
// leaves the item's previous value in place and flags the row.
func (m *FormModel) syncItem(row int) {
	r := &m.rows[row]
	desc := r.cells[cellDescription].Value()
	patch := editor.ItemPatch{Description: &desc}
	r.err = ""

	if q, err := parseAmount(r.cells[cellQuantity].Value()); err != nil {
		r.err = "invalid quantity"
	} else {
		patch.Quantity = &q
	}
	if p, err := parseAmount(r.cells[cellPrice].Value()); err != nil {
		r.err = "invalid price"
	} else {
		patch.Price = &p
	}
	m.ed.UpdateItem(r.id, patch)
}

func (m *FormModel) addItem() tea.Cmd {
	id := m.ed.AddItem()
	draft := m.ed.Draft()
	idx := draft.ItemIndex(id)
	if idx < 0 {
		return nil
	}
	m.rows = append(m.rows, newItemRow(draft.Items[idx]))
	m.blur(m.fieldFocus)
	return m.focus(len(formFields) + (len(m.rows)-1)*cellCount)
}

// removeItem drops the item row that has focus
func (m *FormModel) removeItem() tea.Cmd {
	row, _, ok := m.rowCell(m.fieldFocus)
	if !ok {
		m.status = "Move to an item row to remove it"
		return nil
	}
	m.blur(m.fieldFocus)
	m.ed.RemoveItem(m.rows[row].id)
	m.rows = append(m.rows[:row], m.rows[row+1:]...)
	return m.focus(m.fieldFocus)
}

// save checks the required fields and submits through the controller. A
// failed save keeps the form open with the draft intact.
func (m *FormModel) save() tea.Cmd {
	for i, r := range m.rows {
		if r.err != "" {
			m.err = fmt.Errorf("item %d: %s", i+1, r.err)
			return nil
		}
	}
	if err := m.ed.Draft().Validate(); err != nil {
		m.err = err
		return nil
	}

	inv, err := m.ctrl.Submit(context.Background())
	if err != nil {
		m.err = err
		return nil
	}
	m.err = nil
	text := fmt.Sprintf("Saved %s (%s)", inv.Number, render.FormatMoney(inv.Total()))
	return func() tea.Msg { return StatusMsg{Text: text} }
}

// print sends the stored invoice being edited to the printer. Unsaved
// changes are not printed.
func (m *FormModel) print() tea.Cmd {
	path, err := m.ctrl.Print(context.Background())
	if err != nil {
		return func() tea.Msg { return ErrorMsg{Err: err} }
	}
	text := fmt.Sprintf("Printed saved invoice to %s", path)
	return func() tea.Msg { return StatusMsg{Text: text} }
}

func (m *FormModel) View() string {
	if m.ed == nil {
		return errorStyle.Render("No invoice open")
	}

	var s strings.Builder
	if m.mode == editor.ModeCreate {
		s.WriteString(titleStyle.Render("New Invoice") + "\n\n")
	} else {
		s.WriteString(titleStyle.Render("Edit Invoice") + "  " + draftStyle.Render("(unsaved changes are discarded on esc)") + "\n\n")
	}

	for i, f := range formFields {
		indicator := "  "
		style := subtitleStyle
		if i == m.fieldFocus {
			indicator = "> "
			style = labelStyle
		}
		var input string
		if f.multiline {
			input = m.areas[i].View()
		} else {
			input = m.inputs[i].View()
		}
		s.WriteString(fmt.Sprintf("%s%s\n  %s\n", indicator, style.Render(f.label), input))
	}

	s.WriteString("\n" + titleStyle.Render("Items") + "\n")
	if len(m.rows) == 0 {
		s.WriteString(subtitleStyle.Render("  No items. Press ctrl+n to add one.") + "\n")
	}
	draft := m.ed.Draft()
	for i, r := range m.rows {
		focusRow, _, ok := m.rowCell(m.fieldFocus)
		indicator := "  "
		if ok && focusRow == i {
			indicator = "> "
		}
		amount := ""
		if idx := draft.ItemIndex(r.id); idx >= 0 {
			amount = render.FormatMoney(draft.Items[idx].Amount())
		}
		line := fmt.Sprintf("%s%s  %s  x %s  = %s",
			indicator,
			r.cells[cellDescription].View(),
			r.cells[cellQuantity].View(),
			r.cells[cellPrice].View(),
			amount,
		)
		s.WriteString(line)
		if r.err != "" {
			s.WriteString("  " + errorStyle.Render(r.err))
		}
		s.WriteString("\n")
	}

	s.WriteString("\n" + totalStyle.Render("  Total: "+render.FormatMoney(m.ed.Total())) + "\n")

	if m.status != "" {
		s.WriteString("\n" + statusStyle.Render("  "+m.status) + "\n")
	}
	if m.err != nil {
		s.WriteString("\n" + errorStyle.Render(fmt.Sprintf("  Error: %v", m.err)) + "\n")
	}

	help := "  tab/shift+tab: fields  enter: next  ctrl+n: add item  ctrl+d: remove item  ctrl+s: save  esc: cancel"
	if m.mode == editor.ModeEdit {
		help += "  ctrl+p: print saved copy"
	}
	s.WriteString("\n" + helpStyle.Render(help))
	return s.String()
}
