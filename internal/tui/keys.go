package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Quit key.Binding
	Help key.Binding
	Back key.Binding

	// Actions
	Select key.Binding
	New    key.Binding
	Edit   key.Binding
	Print  key.Binding

	// Form
	Save       key.Binding
	Cancel     key.Binding
	NextField  key.Binding
	PrevField  key.Binding
	AddItem    key.Binding
	RemoveItem key.Binding

	// Movement
	Up   key.Binding
	Down key.Binding
}

var DefaultKeyMap = KeyMap{
	Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Back:       key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back")),
	Select:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
	New:        key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
	Edit:       key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
	Print:      key.NewBinding(key.WithKeys("p", "ctrl+p"), key.WithHelp("p", "print")),
	Save:       key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
	Cancel:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	NextField:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
	PrevField:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous field")),
	AddItem:    key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "add item")),
	RemoveItem: key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "remove item")),
	Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
}

// helpSections groups the bindings shown on the help screen
func (k KeyMap) helpSections() []struct {
	title    string
	bindings []key.Binding
} {
	return []struct {
		title    string
		bindings []key.Binding
	}{
		{"General", []key.Binding{k.Up, k.Down, k.Help, k.Quit}},
		{"Invoices", []key.Binding{k.Select, k.New, k.Edit, k.Print, k.Back}},
		{"Form", []key.Binding{k.NextField, k.PrevField, k.AddItem, k.RemoveItem, k.Save, k.Cancel}},
	}
}
