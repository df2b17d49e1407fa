package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/theCapypara/nix-jetbrains-plugins/internal/config"
	"github.com/theCapypara/nix-jetbrains-plugins/internal/ide"
	"github.com/theCapypara/nix-jetbrains-plugins/internal/manifest"
	"github.com/theCapypara/nix-jetbrains-plugins/internal/marketplace"
)

var lookupOutput string

var lookupCmd = &cobra.Command{
	Use:   "lookup <ide> <ide-version> <plugin-id>",
	Short: "Resolve one plugin for one IDE version from the store",
	Long: `Look up the pinned plugin version for an IDE release in the generated
store and print its download URL and sha256 hash.

IDE names accept the same aliases the Nix side uses, so idea-ultimate,
idea-community and idea-oss all resolve against the idea manifests.

Example:
  jbpluggen lookup idea-ultimate 2025.2 org.rust.lang
  jbpluggen lookup goland 2025.1 com.github.copilot`,
	Args: cobra.ExactArgs(3),
	RunE: runLookup,
}

func init() {
	lookupCmd.Flags().StringVarP(&lookupOutput, "output", "o", "", "manifest store root (default from config)")
}

func runLookup(cmd *cobra.Command, args []string) error {
	ideName, ideVersion, pluginID := args[0], args[1], args[2]

	product, ok := ide.FromKey(ideName)
	if !ok {
		return fmt.Errorf("unknown IDE %q", ideName)
	}

	cfg := config.Get()
	output := lookupOutput
	if output == "" {
		output = cfg.OutputPath
	}
	store := &manifest.Store{Root: output}

	m, err := store.LoadManifest(ide.Version{Product: product, Version: ideVersion})
	if err != nil {
		return fmt.Errorf("no manifest for %s %s: %w", product.Key(), ideVersion, err)
	}

	key, ok := m.Plugins[pluginID]
	if !ok {
		return fmt.Errorf("plugin %q is not available for %s %s", pluginID, product.Key(), ideVersion)
	}

	registry, err := store.LoadRegistry()
	if err != nil {
		return err
	}
	entry, ok := registry.Get(key)
	if !ok {
		return fmt.Errorf("registry is missing entry %s", key)
	}

	prefix := cfg.Marketplace.DownloadPrefix
	if prefix == "" {
		prefix = marketplace.DefaultDownloadPrefix
	}

	_, pluginVersion, _ := key.Split()
	fmt.Printf("%s %s\n", pluginID, pluginVersion)
	fmt.Printf("  url:    %s%s\n", prefix, entry.Path)
	fmt.Printf("  sha256: %s\n", entry.Hash)
	return nil
}
