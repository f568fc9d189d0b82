// Package cmd provides Cobra CLI commands for siteshell.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bnema/siteshell/internal/cli"
	"github.com/bnema/siteshell/internal/domain/build"
)

var (
	app       *cli.App
	buildInfo build.Info
	rootCmd   = &cobra.Command{
		Use:   "siteshell [url]",
		Short: "A dedicated shell around a single web site",
		Long: `Siteshell - one site, four isolated workspaces.

Siteshell wraps a single web application in a keyboard-driven shell:

  - Four workspaces, each with its own browser profile (cookies, storage)
  - Tabs with a closed-tab history per workspace
  - A notes panel per workspace, saved with the session
  - Navigation locked to an allowlist; unknown domains ask before loading
  - Idle workspaces are unloaded and restored on demand
  - The whole session is saved and restored across restarts

Run 'siteshell' to start the shell. An optional URL opens in a new tab of
the first workspace.`,
		Args: cobra.MaximumNArgs(1),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip initialization for commands that don't need app context
			switch cmd.Name() {
			case "help", "completion", "version":
				return nil
			}

			var err error
			app, err = cli.NewApp()
			if err != nil {
				return fmt.Errorf("initialize app: %w", err)
			}
			app.BuildInfo = buildInfo
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if app != nil {
				_ = app.Close()
			}
		},
		RunE: runShell,
	}
)

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// GetApp returns the initialized app (for use by subcommands).
func GetApp() *cli.App {
	return app
}

// SetBuildInfo sets the build information (called from main.go before Execute).
func SetBuildInfo(info build.Info) {
	buildInfo = info
}
