package tui

// ErrorMsg carries error information
type ErrorMsg struct {
	Err error
}

// StatusMsg is shown under the current screen until the next key press
type StatusMsg struct {
	Text string
}
