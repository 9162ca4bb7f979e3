package cmd

import (
	"fmt"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"
)

// openURL is replaced in tests
var openURL = browser.OpenURL

// OpenCommand represents the open command
type OpenCommand struct {
	root *RootCommand
	cmd  *cobra.Command
}

// NewOpenCommand creates a new open command
func NewOpenCommand(root *RootCommand) *OpenCommand {
	o := &OpenCommand{
		root: root,
	}

	o.cmd = &cobra.Command{
		Use:   "open",
		Short: "Open the web back-office in a browser",
		Long: `Open the web back-office in your default browser.

The address comes from the web_url setting (RESTO_WEB_URL).

Example:
  resto open`,
		Args: cobra.NoArgs,
		RunE: o.Run,
	}

	return o
}

// Command returns the underlying cobra command
func (o *OpenCommand) Command() *cobra.Command {
	return o.cmd
}

// Run executes the open command
func (o *OpenCommand) Run(cmd *cobra.Command, args []string) error {
	webURL := o.root.Container().Settings().WebURL

	fmt.Printf("Opening %s\n", webURL)
	if err := openURL(webURL); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}
