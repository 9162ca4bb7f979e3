package cmd

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
)

// LoginCommand represents the login command
type LoginCommand struct {
	root *RootCommand
	cmd  *cobra.Command
}

// NewLoginCommand creates a new login command
func NewLoginCommand(root *RootCommand) *LoginCommand {
	l := &LoginCommand{
		root: root,
	}

	l.cmd = &cobra.Command{
		Use:   "login",
		Short: "Authenticate with the back-office",
		Long: `Authenticate with your back-office email and password.

Missing values are prompted for. After a successful login the access and
refresh tokens are stored locally and renewed automatically.

Example:
  resto login
  resto login --email chef@resto.fr`,
		RunE: l.Run,
	}

	l.cmd.Flags().String("email", "", "Account email")
	l.cmd.Flags().String("password", "", "Account password (prompted when omitted)")

	return l
}

// Command returns the underlying cobra command
func (l *LoginCommand) Command() *cobra.Command {
	return l.cmd
}

// Run executes the login command
func (l *LoginCommand) Run(cmd *cobra.Command, args []string) error {
	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")

	if email == "" {
		if err := survey.AskOne(&survey.Input{
			Message: "Email:",
		}, &email, survey.WithValidator(survey.Required)); err != nil {
			return err
		}
	}

	if password == "" {
		if err := survey.AskOne(&survey.Password{
			Message: "Password:",
		}, &password, survey.WithValidator(survey.Required)); err != nil {
			return err
		}
	}

	authService := l.root.Container().AuthService()

	user, err := authService.Login(cmd.Context(), email, password)
	if err != nil {
		return err
	}

	if outputFormat(cmd) == outputJSON {
		return printJSON(user)
	}

	fmt.Printf("✓ Logged in as %s", user.Email)
	if user.Role != "" {
		fmt.Printf(" (%s)", user.Role)
	}
	fmt.Println()
	return nil
}
