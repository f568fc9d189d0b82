package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/siteshell/internal/cli/styles"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version and build information",
	Args:  cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		renderer := styles.NewRenderer(styles.NewTheme())
		fmt.Println(renderer.RenderVersion(buildInfo))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
