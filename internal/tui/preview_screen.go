package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/andy/invoicer/internal/controller"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// PreviewModel shows the selected invoice as it will be printed
type PreviewModel struct {
	ctrl   *controller.Controller
	err    error
	status string
}

// NewPreviewModel creates the preview screen
func NewPreviewModel(ctrl *controller.Controller) tea.Model {
	return &PreviewModel{ctrl: ctrl}
}

func (m *PreviewModel) Init() tea.Cmd {
	return nil
}

func (m *PreviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	m.err = nil
	m.status = ""

	switch {
	case key.Matches(keyMsg, DefaultKeyMap.Back):
		if err := m.ctrl.Close(); err != nil {
			m.err = err
		}
	case key.Matches(keyMsg, DefaultKeyMap.Edit):
		if _, err := m.ctrl.Edit(); err != nil {
			m.err = err
		}
	case key.Matches(keyMsg, DefaultKeyMap.Print):
		path, err := m.ctrl.Print(context.Background())
		if err != nil {
			m.err = err
			return m, nil
		}
		m.status = fmt.Sprintf("Printed to %s", path)
	}
	return m, nil
}

func (m *PreviewModel) View() string {
	doc, err := m.ctrl.Document()
	if err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", err))
	}

	var s strings.Builder
	s.WriteString(titleStyle.Render("Invoice "+doc.Number) + "\n\n")
	s.WriteString(paperStyle.Render(strings.TrimRight(doc.Text(), "\n")) + "\n")

	if m.status != "" {
		s.WriteString("\n" + statusStyle.Render("  "+m.status) + "\n")
	}
	if m.err != nil {
		s.WriteString("\n" + errorStyle.Render(fmt.Sprintf("  Error: %v", m.err)) + "\n")
	}

	s.WriteString("\n" + helpStyle.Render("  e: edit  p: print  esc: back to list"))
	return s.String()
}
