package cli

import (
	"github.com/andy/invoicer/internal/app"
	"github.com/spf13/cobra"
)

var appInstance *app.App

var rootCmd = &cobra.Command{
	Use:   "invoicer",
	Short: "Create, edit and print invoices from the terminal",
	Long: `Invoicer keeps a small collection of client invoices, lets you edit their
line items and prints them as PDF or plain text.

By default, running invoicer without arguments launches the interactive TUI.
Use subcommands for CLI operations.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return launchTUI(cmd, args)
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetApp sets the app instance for commands to use
func SetApp(a *app.App) {
	appInstance = a
}

// NeedsApp reports whether the command line needs the full app (storage,
// keyring) before running. Help and config commands don't.
func NeedsApp(args []string) bool {
	for _, a := range args {
		if a == "-h" || a == "--help" || a == "help" {
			return false
		}
	}
	if len(args) > 0 && (args[0] == "config" || args[0] == "completion") {
		return false
	}
	return true
}

func init() {
	rootCmd.AddCommand(invoicesCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(tuiCmd)
}
