package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/theCapypara/nix-jetbrains-plugins/internal/config"
	"github.com/theCapypara/nix-jetbrains-plugins/internal/generator"
	"github.com/theCapypara/nix-jetbrains-plugins/internal/i18n"
	"github.com/theCapypara/nix-jetbrains-plugins/internal/ide"
	"github.com/theCapypara/nix-jetbrains-plugins/internal/logging"
	"github.com/theCapypara/nix-jetbrains-plugins/internal/manifest"
	"github.com/theCapypara/nix-jetbrains-plugins/internal/marketplace"
	"github.com/theCapypara/nix-jetbrains-plugins/internal/tui"
)

var (
	generateOutput   string
	generateWorkers  int
	generateAttempts int
	generatePrefixes []string
	generateDryRun   bool
	generateNoTUI    bool
)

var generateCmd = &cobra.Command{
	Use:     "generate",
	Aliases: []string{"gen"},
	Short:   "Fetch IDE releases, resolve plugins, and write the manifest store",
	Long: `Fetch current IDE releases and the marketplace plugin index, resolve
every plugin against every IDE release inside the freshness window, and
atomically rewrite the manifest store.

Example:
  jbpluggen generate
  jbpluggen generate --output ./data --workers 8
  jbpluggen generate --dry-run`,
	RunE: runGenerate,
}

// bindGenerateFlags declares the generate flags on the given flag set.
func bindGenerateFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&generateOutput, "output", "o", "", "manifest store root (default from config)")
	fs.IntVar(&generateWorkers, "workers", 0, "concurrent plugin workers (default from config)")
	fs.IntVar(&generateAttempts, "attempts", 0, "retry budget per plugin (default from config)")
	fs.StringArrayVar(&generatePrefixes, "prefix", nil, "explicit IDE version prefix, repeatable (overrides the computed window)")
	fs.BoolVar(&generateDryRun, "dry-run", false, "resolve everything but leave the store untouched")
	fs.BoolVar(&generateNoTUI, "no-tui", false, "plain log output instead of the progress display")
}

func init() {
	bindGenerateFlags(generateCmd.Flags())
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	output := generateOutput
	if output == "" {
		output = cfg.OutputPath
	}
	workers := generateWorkers
	if workers <= 0 {
		workers = cfg.Workers
	}
	attempts := generateAttempts
	if attempts <= 0 {
		attempts = cfg.Attempts
	}

	window := ide.DefaultWindow(time.Now())
	prefixes := generatePrefixes
	if len(prefixes) == 0 {
		prefixes = cfg.FreshnessPrefixes
	}
	if len(prefixes) > 0 {
		window = ide.WindowFromPrefixes(prefixes)
	}

	client := marketplace.New(marketplace.Options{
		PluginsURL:        cfg.Marketplace.PluginsURL,
		DownloadPrefix:    cfg.Marketplace.DownloadPrefix,
		IndexURLs:         cfg.Marketplace.IndexURLs,
		RequestsPerSecond: cfg.RequestsPerSecond,
	})

	gen := &generator.Generator{
		Client:   client,
		Feeds:    &ide.FeedClient{HTTPClient: client.HTTPClient()},
		Store:    &manifest.Store{Root: output},
		Window:   window,
		Workers:  workers,
		Attempts: attempts,
		DryRun:   generateDryRun,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.Infof("freshness window: %v", window.Prefixes())

	var (
		summary *generator.Summary
		err     error
	)
	if generateNoTUI || !stdoutIsTerminal() {
		gen.OnProgress = logProgress
		summary, err = gen.Run(ctx)
	} else {
		summary, err = tui.RunGenerate(gen, func() (*generator.Summary, error) {
			return gen.Run(ctx)
		})
	}

	if summary != nil {
		fmt.Println(summary.Render())
	}
	if err != nil {
		return err
	}

	if generateDryRun {
		fmt.Println(i18n.T("GenerateDryRun", nil))
	} else {
		fmt.Println(i18n.T("GenerateDone", nil))
	}
	return nil
}

// logProgress reports progress on the plain log path, throttled to
// every 100 plugins so huge runs stay readable.
func logProgress(p generator.Progress) {
	if p.Done%100 == 0 || p.Done == p.Total {
		logging.Infof("processed %d/%d plugins", p.Done, p.Total)
	}
}

func stdoutIsTerminal() bool {
	info, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
