package cli

import (
	"fmt"

	"github.com/andy/invoicer/internal/tui"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the terminal UI",
	Long:  `Launch the interactive terminal user interface for invoicer.`,
	RunE:  launchTUI,
}

func launchTUI(cmd *cobra.Command, args []string) error {
	if appInstance == nil {
		return fmt.Errorf("app not initialized")
	}

	if err := tui.Run(appInstance.Controller); err != nil {
		return fmt.Errorf("tui failed: %w", err)
	}
	return nil
}
