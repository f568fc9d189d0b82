package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/siteshell/internal/cli/styles"
	"github.com/bnema/siteshell/internal/infrastructure/clipboard"
	"github.com/bnema/siteshell/internal/infrastructure/config"
	"github.com/bnema/siteshell/internal/infrastructure/deps"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check runtime requirements and diagnose issues",
	Long: `Doctor checks what the shell needs before it starts:

- the configuration file loads and validates
- the data directory is writable
- a Chrome or Chromium binary is available (engine.kind = "chromium")
- a clipboard tool is installed (optional, used to copy URLs)

Examples:
  siteshell doctor`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(_ *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}
	ctx := app.Ctx()

	report := styles.DoctorReport{}
	report.Checks = append(report.Checks, styles.DoctorCheck{
		Name:   "config",
		OK:     true,
		Detail: app.Manager.ConfigFile(),
	})

	dataCheck := styles.DoctorCheck{Name: "data", Detail: app.Layout.DataDir}
	if err := app.Layout.Ensure(); err != nil {
		dataCheck.Detail = err.Error()
	} else {
		dataCheck.OK = true
	}
	report.Checks = append(report.Checks, dataCheck)

	browserCheck := styles.DoctorCheck{Name: "browser"}
	if app.Config.Engine.Kind == config.EngineStub {
		browserCheck.OK = true
		browserCheck.Detail = "stub engine, no browser needed"
	} else if b, err := deps.NewBrowserProbe().Find(ctx, app.Config.Engine.ExecPath); err != nil {
		browserCheck.Detail = err.Error()
	} else {
		browserCheck.OK = true
		browserCheck.Detail = b.Path
		if b.Version != "" {
			browserCheck.Detail = b.Version + " (" + b.Path + ")"
		}
	}
	report.Checks = append(report.Checks, browserCheck)

	clipCheck := styles.DoctorCheck{Name: "clipboard", Optional: true}
	if tool := clipboard.New().Tool(); tool != "" {
		clipCheck.OK = true
		clipCheck.Detail = tool
	} else {
		clipCheck.Detail = clipboard.ErrUnavailable.Error()
	}
	report.Checks = append(report.Checks, clipCheck)

	renderer := styles.NewRenderer(app.Theme)
	fmt.Println(renderer.RenderDoctor(report))

	if !report.OK() {
		return fmt.Errorf("runtime requirements not met")
	}
	return nil
}
