// Package main is the entry point for the resto CLI.
// resto provides command-line access to the restaurant back-office API.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/restohub/resto-cli/internal/api"
	"github.com/restohub/resto-cli/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		if errors.Is(err, api.ErrSessionExpired) {
			fmt.Fprintln(os.Stderr, "Run 'resto login' to start a new session.")
		}
		os.Exit(1)
	}
}
