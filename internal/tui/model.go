package tui

import (
	"fmt"
	"strings"

	"github.com/andy/invoicer/internal/controller"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Screen represents the current active screen
type Screen int

const (
	ScreenList Screen = iota
	ScreenPreview
	ScreenForm
)

// String returns the screen name
func (s Screen) String() string {
	switch s {
	case ScreenList:
		return "Invoices"
	case ScreenPreview:
		return "Preview"
	case ScreenForm:
		return "Editor"
	default:
		return "Unknown"
	}
}

// screenFor maps a controller state onto the screen that presents it
func screenFor(s controller.State) Screen {
	switch s.(type) {
	case controller.Viewing:
		return ScreenPreview
	case controller.Creating, controller.Editing:
		return ScreenForm
	default:
		return ScreenList
	}
}

// Model is the root Bubble Tea model. The controller's state decides which
// screen is shown; screens act on the controller directly.
type Model struct {
	ctrl          *controller.Controller
	currentScreen Screen
	screen        tea.Model
	list          tea.Model
	width         int
	height        int

	showHelp bool
	err      error
	status   string
}

// New creates a new root model
func New(ctrl *controller.Controller) Model {
	list := NewListModel(ctrl)
	m := Model{ctrl: ctrl, list: list}
	m.currentScreen = screenFor(ctrl.State())
	m.screen = m.buildScreen(m.currentScreen)
	return m
}

// buildScreen creates a screen model. The list keeps its cursor between
// visits; preview and form are rebuilt from the controller each time.
func (m *Model) buildScreen(s Screen) tea.Model {
	switch s {
	case ScreenPreview:
		return NewPreviewModel(m.ctrl)
	case ScreenForm:
		return NewFormModel(m.ctrl)
	default:
		return m.list
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return m.screen.Init()
}

// InputCapturer is implemented by screens that capture keyboard input (e.g. text forms).
// When active, the global quit key is suppressed.
type InputCapturer interface {
	IsCapturingInput() bool
}

func (m *Model) activeScreenCapturingInput() bool {
	if ic, ok := m.screen.(InputCapturer); ok {
		return ic.IsCapturingInput()
	}
	return false
}

// Update implements tea.Model - routes keys to the current screen, then
// follows the controller to whichever screen its new state needs
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		m.status = ""
		m.err = nil
		if m.showHelp {
			// any key closes the help screen
			m.showHelp = false
			return m, nil
		}
		if !m.activeScreenCapturingInput() {
			switch {
			case key.Matches(msg, DefaultKeyMap.Quit):
				return m, tea.Quit
			case key.Matches(msg, DefaultKeyMap.Help):
				m.showHelp = true
				return m, nil
			}
		}

	case StatusMsg:
		m.status = msg.Text
		return m, nil

	case ErrorMsg:
		m.err = msg.Err
		return m, nil
	}

	var cmd tea.Cmd
	m.screen, cmd = m.screen.Update(msg)

	if next := screenFor(m.ctrl.State()); next != m.currentScreen {
		m.currentScreen = next
		m.screen = m.buildScreen(next)
		return m, tea.Batch(cmd, m.screen.Init())
	}
	return m, cmd
}

func (m Model) footer() string {
	if m.showHelp {
		return "Press any key to close help"
	}
	switch m.currentScreen {
	case ScreenPreview:
		return "[E]dit  [P]rint  [Esc] Back  [?] Help  [Q]uit"
	case ScreenForm:
		return "[Ctrl+S] Save  [Esc] Cancel"
	default:
		return "[N]ew  [Enter] Preview  [P]rint  [?] Help  [Q]uit"
	}
}

func (m Model) helpView() string {
	var s strings.Builder
	s.WriteString(titleStyle.Render("Keys") + "\n")
	for _, sec := range DefaultKeyMap.helpSections() {
		s.WriteString("\n" + labelStyle.Render(sec.title) + "\n")
		for _, b := range sec.bindings {
			h := b.Help()
			s.WriteString(fmt.Sprintf("  %-12s %s\n", h.Key, h.Desc))
		}
	}
	return s.String()
}

// View implements tea.Model - renders header + current screen + footer
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	header := headerStyle.Render(fmt.Sprintf("invoicer - %s", m.currentScreen.String()))
	footer := footerStyle.Render(m.footer())
	content := m.screen.View()
	if m.showHelp {
		content = m.helpView()
	}

	notice := ""
	if m.err != nil {
		notice = errorStyle.Render(fmt.Sprintf("\nError: %s", m.err.Error()))
	} else if m.status != "" {
		notice = statusStyle.Render("\n" + m.status)
	}

	innerWidth := m.width - 6 // account for border (2) + padding (4)
	if innerWidth < 20 {
		innerWidth = 20
	}
	dividerWidth := innerWidth - 12
	if dividerWidth < 10 {
		dividerWidth = 10
	}
	divider := lipgloss.NewStyle().Foreground(borderColor).Render(strings.Repeat("─", dividerWidth))

	body := fmt.Sprintf("%s\n%s\n\n%s%s\n\n%s\n%s", header, divider, content, notice, divider, footer)

	frame := appBorderStyle.
		Width(innerWidth).
		Height(m.height - 4)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, frame.Render(body))
}

// Run starts the TUI
func Run(ctrl *controller.Controller) error {
	p := tea.NewProgram(New(ctrl), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
