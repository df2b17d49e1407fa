package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/theCapypara/nix-jetbrains-plugins/internal/logging"
)

var (
	verbose bool

	rootCmd = &cobra.Command{
		Use:           "jbpluggen",
		Short:         "Manifest generator for JetBrains plugins packaged with Nix",
		SilenceErrors: true,
		Long: `jbpluggen resolves JetBrains Marketplace plugins against IDE
releases and writes the manifest store consumed by nix-jetbrains-plugins:
one manifest per IDE version plus a shared download registry.

Commands:
  generate     Fetch IDE releases, resolve plugins, write the store
  lookup       Resolve one plugin for one IDE version from the store
  search       Fuzzy-search the download registry
  list         Show generated manifests and registry stats
  config       Manage configuration

Shortcuts (aliases):
  gen          = generate`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logging.SetVerbose(true)
			}
		},
	}
)

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Main commands
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(lookupCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(configCmd)
}
