package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/siteshell/internal/cli"
	"github.com/bnema/siteshell/internal/cli/styles"
	"github.com/bnema/siteshell/internal/domain/entity"
	"github.com/bnema/siteshell/internal/domain/url"
)

var checkSubframe bool

var checkCmd = &cobra.Command{
	Use:   "check <url>",
	Short: "Show what the navigation guard does with a URL",
	Long: `Run a URL through the same policy chain the shell applies to every
navigation: security checks, the allowlist and OAuth routing.

Examples:
  siteshell check https://chatgpt.com/c/123
  siteshell check accounts.google.com/o/oauth2/auth
  siteshell check --subframe https://ads.example.net/frame`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().BoolVar(&checkSubframe, "subframe", false, "evaluate as a sub-frame navigation")
}

func runCheck(_ *cobra.Command, args []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}
	ctx := app.Ctx()
	renderer := styles.NewRenderer(app.Theme)

	if err := app.Allowlist.Load(ctx); err != nil {
		fmt.Println(renderer.RenderError(err))
	}

	target := url.Normalize(args[0])
	decision := app.Allowlist.Decide(entity.NavigationRequest{
		URL:      target,
		TopLevel: !checkSubframe,
	}, cli.OAuthPolicy(app.Config))

	fmt.Println(renderer.RenderCheck(target, decision))
	return nil
}
