package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/treigua/caulk/internal/ui"
)

var lintRoot string

// lintCmd represents the lint command.
var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Compose the manifest in memory and report errors",
	Long: `Run a full render pass without writing anything.

Catches unbound variables, malformed expressions, and structural
errors (duplicate or dangling definitions) before a deploy.`,
	Run: runLint,
}

func init() {
	lintCmd.Flags().StringVar(&lintRoot, "root", ".", "Project root (searched upward for caulk.yml)")

	rootCmd.AddCommand(lintCmd)
}

func runLint(cmd *cobra.Command, args []string) {
	doc, _, err := composeProject(lintRoot)
	if err != nil {
		reportRenderError(err)
		os.Exit(1)
	}

	ui.Success("Manifest composes cleanly (%d services)", len(doc.Services))
	if len(doc.Services) > 0 {
		ui.Info("Services: %s", strings.Join(doc.Services, ", "))
	}
}
