package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/treigua/caulk/internal/config"
	"github.com/treigua/caulk/internal/fileutil"
	"github.com/treigua/caulk/internal/render"
	"github.com/treigua/caulk/internal/ui"
)

var (
	renderRoot   string
	renderOut    string
	renderDryRun bool
	renderDiff   bool
)

// renderCmd represents the render command.
var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Compose and write the deployment manifest",
	Long: `Compose the deployment manifest from the project's templates,
variables, and plugin patches, then write it atomically.

The output is byte-reproducible for a fixed caulk.yml: run with
--diff to detect drift between the committed output and what the
current templates and plugins would produce.

Examples:
  # Render and write output/docker-compose.yml
  caulk render

  # Preview without writing
  caulk render --dry-run

  # Check the existing output for drift
  caulk render --diff`,
	Run: runRender,
}

func init() {
	renderCmd.Flags().StringVar(&renderRoot, "root", ".", "Project root (searched upward for caulk.yml)")
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "", "Output file (defaults to output/docker-compose.yml under the root)")
	renderCmd.Flags().BoolVarP(&renderDryRun, "dry-run", "n", false, "Print the composed manifest without writing")
	renderCmd.Flags().BoolVarP(&renderDiff, "diff", "d", false, "Report drift against the existing output file")

	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) {
	doc, project, err := composeProject(renderRoot)
	if err != nil {
		reportRenderError(err)
		os.Exit(1)
	}

	if renderDryRun {
		fmt.Print(doc.Text)
		return
	}

	outPath := renderOut
	if outPath == "" {
		outPath = project.OutputPath()
	}

	if renderDiff {
		if drifted, err := checkDrift(doc, outPath); err != nil {
			ui.Error("%v", err)
			os.Exit(1)
		} else if drifted {
			os.Exit(1)
		}
		return
	}

	if err := fileutil.WriteFileAtomic(outPath, []byte(doc.Text), 0644); err != nil {
		ui.Error("write manifest: %v", err)
		os.Exit(1)
	}
	ui.Success("Wrote %s", outPath)
	if len(doc.Services) > 0 {
		ui.Info("Services: %s", strings.Join(doc.Services, ", "))
	}
}

// checkDrift compares the composed document against the file at
// outPath and reports whether they differ.
func checkDrift(doc *render.Document, outPath string) (bool, error) {
	existing, ok, err := fileutil.ReadFileIfExists(outPath)
	if err != nil {
		return false, fmt.Errorf("read existing output: %w", err)
	}
	if !ok {
		ui.Warning("No existing output at %s", outPath)
		return true, nil
	}
	if bytes.Equal(existing, []byte(doc.Text)) {
		ui.Success("No drift: %s matches the composed manifest", outPath)
		return false, nil
	}
	ui.Error("Drift detected: %s differs from the composed manifest", outPath)
	return true, nil
}

// reportRenderError presents a render failure with its structured
// context when available.
func reportRenderError(err error) {
	var re *render.Error
	if errors.As(err, &re) {
		ui.Error("%v", re)
		switch {
		case errors.Is(re, render.ErrUnboundVariable):
			ui.Info("Set %s in %s or give the expression a default.", re.Name, config.VariablesFile)
		case errors.Is(re, render.ErrDanglingReference):
			ui.Info("Definition %q must be declared earlier in the document.", re.Name)
		case errors.Is(re, render.ErrIndentationConflict) && re.Origin != "":
			ui.Info("Fix the indentation of patch %q in plugin %s.", re.Name, re.Origin)
		}
		return
	}
	ui.Error("%v", err)
}
