package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/siteshell/internal/cli/styles"
	"github.com/bnema/siteshell/internal/infrastructure/config"
	"github.com/bnema/siteshell/internal/infrastructure/xdg"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `Show where siteshell keeps its files and print the effective configuration.`,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show config, data and log locations",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as TOML",
	Long: `Print the configuration after defaults and SITESHELL_* environment
overrides were applied.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configInitForce bool

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default config.toml",
	Long: `Write config.toml with every option at its default value.

The file is created automatically on first run; use --force to reset an
existing file to the defaults.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

var configSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Write the JSON schema next to config.toml",
	Long: `Regenerate config.schema.json for editor completion. Taplo and other
TOML language servers pick it up through the $schema key or their settings.`,
	Args: cobra.NoArgs,
	RunE: runConfigSchema,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSchemaCmd)

	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false, "overwrite an existing config file")
}

func runConfigPath(_ *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}
	renderer := styles.NewRenderer(app.Theme)

	fmt.Println(renderer.RenderPath("config", app.Manager.ConfigFile()))
	fmt.Println(renderer.RenderPath("schema", app.Manager.SchemaFile()))
	fmt.Println(renderer.RenderPath("data", app.Layout.DataDir))
	fmt.Println(renderer.RenderPath("session", app.Layout.SessionFile()))
	if logDir, err := xdg.LogDir(); err == nil {
		fmt.Println(renderer.RenderPath("logs", logDir))
	}
	return nil
}

func runConfigShow(_ *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	data, err := config.EncodeTOML(app.Config)
	if err != nil {
		return err
	}
	fmt.Print(string(data))
	return nil
}

func runConfigInit(_ *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}
	renderer := styles.NewRenderer(app.Theme)
	path := app.Manager.ConfigFile()

	if !app.Manager.Created() && !configInitForce {
		fmt.Println(renderer.RenderInfo("config file already exists, use --force to reset it"))
		fmt.Println(renderer.RenderPath("config", path))
		return nil
	}
	if err := config.WriteConfigOrdered(config.DefaultConfig(), path); err != nil {
		return err
	}
	fmt.Println(renderer.RenderSuccess("default config written"))
	fmt.Println(renderer.RenderPath("config", path))
	return nil
}

func runConfigSchema(_ *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}
	renderer := styles.NewRenderer(app.Theme)

	path := app.Manager.SchemaFile()
	if err := config.WriteSchemaFile(path); err != nil {
		return err
	}
	fmt.Println(renderer.RenderSuccess("schema written"))
	fmt.Println(renderer.RenderPath("schema", path))
	return nil
}
