package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/theCapypara/nix-jetbrains-plugins/internal/config"
	"github.com/theCapypara/nix-jetbrains-plugins/internal/i18n"
	"github.com/theCapypara/nix-jetbrains-plugins/internal/manifest"
)

var (
	listOutput string
	listAll    bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List generated IDE manifests",
	Long: `List the IDE manifests in the generated store with their plugin counts.

Example:
  jbpluggen list
  jbpluggen list --all  # Also show every pinned plugin per manifest`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVarP(&listOutput, "output", "o", "", "manifest store root (default from config)")
	listCmd.Flags().BoolVarP(&listAll, "all", "a", false, "show pinned plugins per manifest")
}

func runList(cmd *cobra.Command, args []string) error {
	output := listOutput
	if output == "" {
		output = config.Get().OutputPath
	}
	store := &manifest.Store{Root: output}

	manifests, err := store.LoadManifests()
	if err != nil {
		return err
	}

	fmt.Println(i18n.T("ListManifestsHeader", nil))
	fmt.Println(strings.Repeat("-", 40))

	if len(manifests) == 0 {
		fmt.Println(i18n.T("NoManifests", nil))
		return nil
	}

	sort.Slice(manifests, func(i, j int) bool {
		return manifests[i].IDE.String() < manifests[j].IDE.String()
	})

	for _, m := range manifests {
		fmt.Printf("  %s (%d plugins)\n", m.IDE, len(m.Plugins))

		if listAll {
			ids := make([]string, 0, len(m.Plugins))
			for id := range m.Plugins {
				ids = append(ids, id)
			}
			sort.Strings(ids)
			for _, id := range ids {
				_, version, _ := m.Plugins[id].Split()
				fmt.Printf("    - %s (%s)\n", id, version)
			}
		}
	}

	registry, err := store.LoadRegistry()
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Printf("Registry: %d pinned downloads\n", registry.Len())

	return nil
}
