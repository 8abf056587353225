package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/andy/invoicer/internal/controller"
	"github.com/andy/invoicer/internal/render"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// ListModel shows the invoice collection
type ListModel struct {
	ctrl   *controller.Controller
	cursor int
	err    error
}

// NewListModel creates the list screen
func NewListModel(ctrl *controller.Controller) tea.Model {
	return &ListModel{ctrl: ctrl}
}

func (m *ListModel) Init() tea.Cmd {
	return nil
}

func (m *ListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	m.err = nil

	invoices := m.ctrl.Invoices()
	switch {
	case key.Matches(keyMsg, DefaultKeyMap.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, DefaultKeyMap.Down):
		if m.cursor < len(invoices)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, DefaultKeyMap.New):
		if _, err := m.ctrl.New(); err != nil {
			m.err = err
		}
	case key.Matches(keyMsg, DefaultKeyMap.Select):
		if m.cursor < len(invoices) {
			if err := m.ctrl.Select(invoices[m.cursor].ID); err != nil {
				m.err = err
			}
		}
	case key.Matches(keyMsg, DefaultKeyMap.Print):
		if m.cursor < len(invoices) {
			return m, m.print(invoices[m.cursor].ID)
		}
	}
	return m, nil
}

// print selects the invoice, prints it and goes straight back to the list
func (m *ListModel) print(id string) tea.Cmd {
	if err := m.ctrl.Select(id); err != nil {
		return func() tea.Msg { return ErrorMsg{Err: err} }
	}
	path, err := m.ctrl.Print(context.Background())
	if cerr := m.ctrl.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return func() tea.Msg { return ErrorMsg{Err: err} }
	}
	text := fmt.Sprintf("Printed to %s", path)
	return func() tea.Msg { return StatusMsg{Text: text} }
}

func (m *ListModel) View() string {
	invoices := m.ctrl.Invoices()
	if m.cursor >= len(invoices) {
		m.cursor = max(0, len(invoices)-1)
	}

	var s strings.Builder
	s.WriteString(titleStyle.Render("Invoices") + "\n\n")

	if len(invoices) == 0 {
		s.WriteString(subtitleStyle.Render("  No invoices yet. Press 'n' to create one.") + "\n")
		return s.String()
	}

	s.WriteString(subtitleStyle.Render(fmt.Sprintf("  %-16s %-12s %-12s %-24s %12s", "Number", "Date", "Due", "Client", "Total")) + "\n")
	for i, inv := range invoices {
		line := fmt.Sprintf("%-16s %-12s %-12s %-24s %12s",
			render.Truncate(inv.Number, 16),
			inv.Date,
			inv.DueDate,
			render.Truncate(inv.ClientName, 24),
			render.FormatMoney(inv.Total()),
		)
		if i == m.cursor {
			s.WriteString(selectedStyle.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + line + "\n")
		}
	}

	if m.err != nil {
		s.WriteString("\n" + errorStyle.Render(fmt.Sprintf("  Error: %v", m.err)) + "\n")
	}

	s.WriteString("\n" + helpStyle.Render("  j/k: navigate  enter: preview  p: print  n: new invoice  ?: help"))
	return s.String()
}
