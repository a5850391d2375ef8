// Package cmd provides the CLI commands for caulk.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

const version = "0.3.0"

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "caulk",
	Short: "Compose deployment manifests from templates and plugin patches",
	Long: `caulk - seal the seams of your deployment manifests

caulk renders a base manifest template, fills its variable expressions
from project configuration, and injects fragments contributed by
plugins at named patch points. The result is a single deterministic
docker-compose manifest, validated structurally before anything is
written.

MANIFEST COMMANDS
  render                Compose and write the manifest
    --dry-run, -n       Print the composed manifest without writing
    --diff, -d          Report drift against the existing output file
  lint                  Compose in memory and report structural errors

INSPECTION
  points                List patch points and registered fragments
  vars                  Show the effective variable context
    --save              Persist generated defaults to caulk.yml`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.SetVersionTemplate("caulk version {{.Version}}\n")
}
