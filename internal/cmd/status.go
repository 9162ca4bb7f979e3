package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// StatusCommand represents the status command
type StatusCommand struct {
	root *RootCommand
	cmd  *cobra.Command
}

// NewStatusCommand creates a new status command
func NewStatusCommand(root *RootCommand) *StatusCommand {
	s := &StatusCommand{
		root: root,
	}

	s.cmd = &cobra.Command{
		Use:   "status",
		Short: "Show the stored session",
		Long: `Show who is logged in and when the access token expires.

The token is decoded locally; the server is not contacted.

Examples:
  resto status
  resto status -o json`,
		RunE: s.Run,
	}

	return s
}

// Command returns the underlying cobra command
func (s *StatusCommand) Command() *cobra.Command {
	return s.cmd
}

// Run executes the status command
func (s *StatusCommand) Run(cmd *cobra.Command, args []string) error {
	status, err := s.root.Container().AuthService().Status(cmd.Context())
	if err != nil {
		return err
	}

	if outputFormat(cmd) == outputJSON {
		return printJSON(status)
	}

	if !status.LoggedIn {
		fmt.Println("Not logged in.")
		fmt.Println("\nLog in with: resto login")
		return nil
	}

	fmt.Printf("User:    %s\n", cell(status.Email))
	fmt.Printf("ID:      %s\n", cell(status.Subject))
	fmt.Printf("Role:    %s\n", cell(status.Role))
	if !status.ExpiresAt.IsZero() {
		state := "valid"
		if status.Expired {
			state = "expired"
		}
		fmt.Printf("Expires: %s (%s)\n", status.ExpiresAt.Local().Format(time.DateTime), state)
	}
	if status.HasRefreshToken {
		fmt.Println("Refresh: available")
	} else {
		fmt.Println("Refresh: none, log in again when the token expires")
	}

	return nil
}
