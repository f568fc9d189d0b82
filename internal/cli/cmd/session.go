package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/siteshell/internal/cli/styles"
	"github.com/bnema/siteshell/internal/infrastructure/persistence/filestore"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Inspect the saved session",
	Long: `Show the tabs, notes and layout saved for the four workspaces.

The shell writes the session while it runs and on exit; this command only
reads it.`,
	Args: cobra.NoArgs,
	RunE: runSessionShow,
}

var sessionShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the saved session",
	Args:  cobra.NoArgs,
	RunE:  runSessionShow,
}

var sessionBackupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Copy the session file aside",
	Args:  cobra.NoArgs,
	RunE:  runSessionBackup,
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionShowCmd)
	sessionCmd.AddCommand(sessionBackupCmd)
}

func runSessionShow(_ *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}
	renderer := styles.NewRenderer(app.Theme)

	snap := app.Sessions.Load(app.Ctx())
	fmt.Println(renderer.RenderSession(snap, app.Layout.SessionFile()))
	return nil
}

func runSessionBackup(_ *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}
	renderer := styles.NewRenderer(app.Theme)

	path, err := app.Sessions.Backup(app.Ctx())
	if errors.Is(err, filestore.ErrNoSessionFile) {
		fmt.Println(renderer.RenderInfo("no saved session yet"))
		return nil
	}
	if err != nil {
		fmt.Println(renderer.RenderError(err))
		return nil
	}
	fmt.Println(renderer.RenderSuccess("session backed up"))
	fmt.Println(renderer.RenderPath("backup", path))
	return nil
}
