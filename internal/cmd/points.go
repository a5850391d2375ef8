package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/treigua/caulk/internal/config"
	"github.com/treigua/caulk/internal/render"
	"github.com/treigua/caulk/internal/ui"
)

var pointsRoot string

// pointsCmd represents the points command.
var pointsCmd = &cobra.Command{
	Use:   "points",
	Short: "List patch points and registered fragments",
	Long: `Show every patch point referenced by the project's templates and
the plugin fragments registered against each. Points with no
fragments render as empty text; fragments whose point no template
references are flagged since they would never be emitted.`,
	Run: runPoints,
}

func init() {
	pointsCmd.Flags().StringVar(&pointsRoot, "root", ".", "Project root (searched upward for caulk.yml)")

	rootCmd.AddCommand(pointsCmd)
}

func runPoints(cmd *cobra.Command, args []string) {
	project, err := config.Find(pointsRoot)
	if err != nil {
		ui.Error("%v", err)
		os.Exit(1)
	}

	templates, err := project.Templates()
	if err != nil {
		reportRenderError(err)
		os.Exit(1)
	}

	reg := render.NewRegistry()
	if err := project.LoadPatches(reg); err != nil {
		ui.Error("%v", err)
		os.Exit(1)
	}
	reg.Seal()

	referenced := make(map[string]bool)
	ui.Header("Patch points")
	for _, tmpl := range templates {
		for _, point := range tmpl.Points() {
			referenced[point] = true
			frags := reg.Fragments(point)
			if len(frags) == 0 {
				fmt.Printf("  %s (%s): no fragments\n", point, tmpl.Name())
				continue
			}
			fmt.Printf("  %s (%s):\n", point, tmpl.Name())
			for _, f := range frags {
				fmt.Printf("    - %s\n", f.Origin)
			}
		}
	}

	for _, point := range reg.Points() {
		if !referenced[point] {
			ui.Warning("Point %q has fragments but no template references it", point)
		}
	}
}
