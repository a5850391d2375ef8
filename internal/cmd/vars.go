package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/treigua/caulk/internal/config"
	"github.com/treigua/caulk/internal/ui"
)

var (
	varsRoot string
	varsSave bool
)

// varsCmd represents the vars command.
var varsCmd = &cobra.Command{
	Use:   "vars",
	Short: "Show the effective variable context",
	Long: `Print the variable context a render pass would see: built-in and
generated defaults overlaid by the values in caulk.yml.

Generated values (ids, secrets) are created fresh on every run until
persisted. Use --save to write the effective context back to
caulk.yml so later renders are byte-reproducible.`,
	Run: runVars,
}

func init() {
	varsCmd.Flags().StringVar(&varsRoot, "root", ".", "Project root (searched upward for caulk.yml)")
	varsCmd.Flags().BoolVar(&varsSave, "save", false, "Persist the effective context to caulk.yml")

	rootCmd.AddCommand(varsCmd)
}

func runVars(cmd *cobra.Command, args []string) {
	project, err := config.Find(varsRoot)
	if err != nil {
		ui.Error("%v", err)
		os.Exit(1)
	}

	ctx, err := project.Context()
	if err != nil {
		ui.Error("%v", err)
		os.Exit(1)
	}

	for _, name := range ctx.Names() {
		v, _ := ctx.Lookup(name)
		fmt.Printf("%s=%s\n", name, v)
	}

	if varsSave {
		values := make(map[string]string, ctx.Len())
		for _, name := range ctx.Names() {
			values[name], _ = ctx.Lookup(name)
		}
		if err := project.SaveVariables(values); err != nil {
			ui.Error("save variables: %v", err)
			os.Exit(1)
		}
		ui.Success("Saved %d variables to %s", len(values), config.VariablesFile)
	}
}
