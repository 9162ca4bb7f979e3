// Package cmd provides the command-line interface for the resto CLI.
// It contains all cobra commands and their implementations.
package cmd

import (
	"fmt"
	"os"

	"github.com/restohub/resto-cli/internal/config"
	"github.com/restohub/resto-cli/internal/di"
	iface "github.com/restohub/resto-cli/internal/service/interface"
	"github.com/spf13/cobra"
)

var (
	// Version is set at build time via ldflags
	Version = "dev"
)

// RootCommand represents the root CLI command
type RootCommand struct {
	container *di.Container
	cmd       *cobra.Command

	// Subcommands
	loginCmd     *LoginCommand
	logoutCmd    *LogoutCommand
	statusCmd    *StatusCommand
	openCmd      *OpenCommand
	resourceCmds map[iface.Resource]*ResourceCommand
}

// NewRootCommand creates a new root command
func NewRootCommand() *RootCommand {
	r := &RootCommand{
		resourceCmds: map[iface.Resource]*ResourceCommand{},
	}

	r.cmd = &cobra.Command{
		Use:   "resto",
		Short: "resto - Command line back-office for the restaurant chain",
		Long: `resto is a command-line tool for the restaurant back-office API.

It manages categories, supplements, menus, restaurants, staff, customers,
comments and notifications. Your session is renewed automatically while
the refresh token is valid.

To get started, run:
  resto login           - Authenticate with your back-office account
  resto restaurants list - View your restaurants`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return r.initialize(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if r.container == nil {
				return nil
			}
			return r.container.Close()
		},
	}

	// Global flags
	r.cmd.PersistentFlags().StringP("output", "o", outputText, "Output format (text, json)")
	r.cmd.PersistentFlags().Bool("verbose", false, "Log HTTP exchanges and token refreshes")
	r.cmd.PersistentFlags().String("api-url", "", "Override the API base URL")

	// Initialize subcommands (will be wired after container init)
	r.loginCmd = NewLoginCommand(r)
	r.logoutCmd = NewLogoutCommand(r)
	r.statusCmd = NewStatusCommand(r)
	r.openCmd = NewOpenCommand(r)

	r.cmd.AddCommand(r.loginCmd.Command())
	r.cmd.AddCommand(r.logoutCmd.Command())
	r.cmd.AddCommand(r.statusCmd.Command())
	r.cmd.AddCommand(r.openCmd.Command())

	for _, resource := range iface.Resources {
		rc := NewResourceCommand(r, resource)
		r.resourceCmds[resource] = rc
		r.cmd.AddCommand(rc.Command())
	}

	// Collection-specific operations
	addSupplementCommands(r.resourceCmds[iface.Supplements])
	addRestaurantCommands(r.resourceCmds[iface.Restaurants])
	addUserCommands(r.resourceCmds[iface.Users])
	addNotificationCommands(r.resourceCmds[iface.Notifications])

	return r
}

// initialize sets up the DI container
func (r *RootCommand) initialize(cmd *cobra.Command) error {
	// Skip if container is already set (e.g., for testing)
	if r.container != nil {
		return nil
	}

	manager, err := config.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}

	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		manager.Set("log_level", "debug")
	}
	if apiURL, _ := cmd.Flags().GetString("api-url"); apiURL != "" {
		manager.Set("api_url", apiURL)
	}

	r.container, err = di.NewContainer(manager)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	return nil
}

// Execute runs the root command
func (r *RootCommand) Execute() error {
	return r.cmd.Execute()
}

// Command returns the underlying cobra command
func (r *RootCommand) Command() *cobra.Command {
	return r.cmd
}

// Container returns the DI container
func (r *RootCommand) Container() *di.Container {
	return r.container
}

// SetContainer sets a custom container (for testing)
func (r *RootCommand) SetContainer(c *di.Container) {
	r.container = c
}

// Execute is the main entry point for the CLI
func Execute() error {
	root := NewRootCommand()
	return root.Execute()
}

// ExitWithError prints an error message and exits with code 1
func ExitWithError(msg string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
	}
	os.Exit(1)
}
