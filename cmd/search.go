package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/theCapypara/nix-jetbrains-plugins/internal/config"
	"github.com/theCapypara/nix-jetbrains-plugins/internal/i18n"
	"github.com/theCapypara/nix-jetbrains-plugins/internal/manifest"
	"github.com/theCapypara/nix-jetbrains-plugins/internal/marketplace"
	"github.com/theCapypara/nix-jetbrains-plugins/internal/search"
	"github.com/theCapypara/nix-jetbrains-plugins/internal/tui"
)

var (
	searchOutput      string
	searchInteractive bool
)

var searchCmd = &cobra.Command{
	Use:   "search [keyword]",
	Short: "Fuzzy-search the download registry",
	Long: `Search pinned plugin versions in the generated registry using fuzzy
matching over plugin ids and versions.

With --interactive (or no keyword), an interactive browser opens instead.

Example:
  jbpluggen search rust
  jbpluggen search copilot
  jbpluggen search -i`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&searchOutput, "output", "o", "", "manifest store root (default from config)")
	searchCmd.Flags().BoolVarP(&searchInteractive, "interactive", "i", false, "browse the registry interactively")
}

func runSearch(cmd *cobra.Command, args []string) error {
	output := searchOutput
	if output == "" {
		output = config.Get().OutputPath
	}
	store := &manifest.Store{Root: output}

	registry, err := store.LoadRegistry()
	if err != nil {
		return err
	}

	if searchInteractive || len(args) == 0 {
		return runSearchInteractive(registry)
	}

	keyword := args[0]
	results := search.Registry(registry, keyword)

	if len(results) == 0 {
		fmt.Println(i18n.T("NoResults", map[string]any{"Keyword": keyword}))
		return nil
	}

	fmt.Println(i18n.T("SearchResults", map[string]any{"Count": len(results)}, len(results)))
	fmt.Println()
	for _, r := range results {
		id, version, _ := r.Key.Split()
		fmt.Printf("  %s %s\n", id, version)
	}
	return nil
}

func runSearchInteractive(registry *manifest.Registry) error {
	result, err := tui.RunRegistryBrowser(registry)
	if err != nil {
		return err
	}
	if result.Cancelled || result.Selected == nil {
		return nil
	}

	item := result.Selected
	prefix := config.Get().Marketplace.DownloadPrefix
	if prefix == "" {
		prefix = marketplace.DefaultDownloadPrefix
	}

	fmt.Printf("%s %s\n", item.PluginID(), item.Version())
	fmt.Printf("  url:    %s%s\n", prefix, item.Entry.Path)
	fmt.Printf("  sha256: %s\n", item.Entry.Hash)
	return nil
}
