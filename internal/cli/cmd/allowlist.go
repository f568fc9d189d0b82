package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/siteshell/internal/cli/styles"
)

var allowlistCmd = &cobra.Command{
	Use:     "allowlist",
	Aliases: []string{"domains"},
	Short:   "List allowed domains",
	Long: `List every domain the shell may navigate to without asking.

The list combines the built-in domains of the site, security.extra_domains
from the config file and the domains you chose "Always allow" for.`,
	Args: cobra.NoArgs,
	RunE: runAllowlist,
}

var allowlistListCmd = &cobra.Command{
	Use:   "list",
	Short: "List allowed domains",
	Args:  cobra.NoArgs,
	RunE:  runAllowlist,
}

var allowlistAddCmd = &cobra.Command{
	Use:   "add <domain>",
	Short: "Allow a domain permanently",
	Args:  cobra.ExactArgs(1),
	RunE:  runAllowlistAdd,
}

func init() {
	rootCmd.AddCommand(allowlistCmd)
	allowlistCmd.AddCommand(allowlistListCmd)
	allowlistCmd.AddCommand(allowlistAddCmd)
}

func runAllowlist(_ *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}
	renderer := styles.NewRenderer(app.Theme)

	if err := app.Allowlist.Load(app.Ctx()); err != nil {
		fmt.Println(renderer.RenderError(err))
	}
	fmt.Println(renderer.RenderAllowlist(app.Allowlist.Domains(), app.Allowlist.UserDomains()))
	fmt.Println(renderer.RenderPath("file", app.Layout.AllowlistFile()))
	return nil
}

func runAllowlistAdd(_ *cobra.Command, args []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}
	ctx := app.Ctx()
	renderer := styles.NewRenderer(app.Theme)

	if err := app.Allowlist.Load(ctx); err != nil {
		return fmt.Errorf("load allowlist: %w", err)
	}
	added, err := app.Allowlist.Add(ctx, args[0])
	if err != nil {
		return err
	}
	if !added {
		fmt.Println(renderer.RenderInfo(fmt.Sprintf("%s is already allowed", args[0])))
		return nil
	}
	fmt.Println(renderer.RenderSuccess(fmt.Sprintf("%s added to the allowlist", args[0])))
	return nil
}
