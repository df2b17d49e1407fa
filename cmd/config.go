package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/theCapypara/nix-jetbrains-plugins/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage jbpluggen configuration",
	Long: `Manage jbpluggen configuration settings.

Example:
  jbpluggen config show
  jbpluggen config set workers 8`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value.

Available keys:
  locale              - Language setting
                        Values: auto, en-US, ko-KR, etc.
  outputPath          - Manifest store root directory
  workers             - Concurrent plugin workers
  attempts            - Retry budget per plugin
  requestsPerSecond   - Outbound marketplace request cap
  freshnessPrefixes   - Comma-separated IDE version prefixes
                        (empty = computed from the current date)

Example:
  jbpluggen config set locale ko-KR
  jbpluggen config set workers 8
  jbpluggen config set freshnessPrefixes "2026.1,2025.,2024.3"`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	fmt.Println("Configuration:")
	fmt.Println("----------------------------------------")
	fmt.Printf("  locale: %s\n", cfg.Locale)
	fmt.Printf("  outputPath: %s\n", cfg.OutputPath)
	fmt.Printf("  workers: %d\n", cfg.Workers)
	fmt.Printf("  attempts: %d\n", cfg.Attempts)
	fmt.Printf("  requestsPerSecond: %g\n", cfg.RequestsPerSecond)

	fmt.Println()
	fmt.Println("Freshness window:")
	if len(cfg.FreshnessPrefixes) == 0 {
		fmt.Println("  computed from the current date")
	} else {
		fmt.Printf("  fixed prefixes: %s\n", strings.Join(cfg.FreshnessPrefixes, ", "))
	}

	if cfg.Marketplace.PluginsURL != "" || cfg.Marketplace.DownloadPrefix != "" || len(cfg.Marketplace.IndexURLs) > 0 {
		fmt.Println()
		fmt.Println("Marketplace overrides:")
		if cfg.Marketplace.PluginsURL != "" {
			fmt.Printf("  pluginsUrl: %s\n", cfg.Marketplace.PluginsURL)
		}
		if cfg.Marketplace.DownloadPrefix != "" {
			fmt.Printf("  downloadPrefix: %s\n", cfg.Marketplace.DownloadPrefix)
		}
		for _, u := range cfg.Marketplace.IndexURLs {
			fmt.Printf("  indexUrl: %s\n", u)
		}
	}

	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]
	cfg := config.Get()

	switch key {
	case "locale":
		cfg.Locale = value
	case "outputPath":
		cfg.OutputPath = value
	case "workers":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("workers must be a positive integer, got %q", value)
		}
		cfg.Workers = n
	case "attempts":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("attempts must be a positive integer, got %q", value)
		}
		cfg.Attempts = n
	case "requestsPerSecond":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("requestsPerSecond must be a positive number, got %q", value)
		}
		cfg.RequestsPerSecond = f
	case "freshnessPrefixes":
		if value == "" {
			cfg.FreshnessPrefixes = nil
			break
		}
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		cfg.FreshnessPrefixes = parts
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}

	if err := config.Save(cfg); err != nil {
		return err
	}

	fmt.Printf("Set %s = %s\n", key, value)
	return nil
}
