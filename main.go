// Command ragdeck serves the "How to Build a RAG System" presentation page.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vesaa/ragdeck/internal/assets"
	"github.com/vesaa/ragdeck/internal/config"
	"github.com/vesaa/ragdeck/internal/deck"
	"github.com/vesaa/ragdeck/internal/export"
	"github.com/vesaa/ragdeck/internal/logging"
	"github.com/vesaa/ragdeck/internal/server"
)

const version = "v0.1.0"

func printBanner(mode string) {
	fmt.Printf("\n  ► ragdeck %s  |  %s  |  Mode: %s\n\n", version, deck.DeckTitle, mode)
}

// setup loads config, applies the shared CLI overrides and builds the
// logger and asset resolver every command needs.
func setup(cmd *cobra.Command) (*config.Config, *zap.Logger, *assets.Resolver, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading config: %w", err)
	}
	if dir, _ := cmd.Flags().GetString("asset-dir"); dir != "" {
		cfg.AssetDir = dir
	}
	if base, _ := cmd.Flags().GetString("base-url"); base != "" {
		cfg.BaseURL = strings.TrimRight(base, "/")
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return nil, nil, nil, err
	}
	resolver := assets.New(afero.NewOsFs(), cfg.AssetDir, cfg.BaseURL+"/assets")
	return cfg, log, resolver, nil
}

// allImages lists every image path any page references, once each.
func allImages() []string {
	var out []string
	seen := make(map[string]bool)
	for _, p := range deck.Pages() {
		for _, img := range p.Images() {
			if !seen[img.Path] {
				seen[img.Path] = true
				out = append(out, img.Path)
			}
		}
	}
	return out
}

func main() {
	root := &cobra.Command{
		Use:   "ragdeck",
		Short: "Serve or export the \"How to Build a RAG System\" presentation page",
		Long: `ragdeck renders a fixed presentation about Retrieval-Augmented Generation
and serves it over HTTP, or exports it as a static site.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().String("asset-dir", "", "Directory the page images are resolved against (overrides config)")
	root.PersistentFlags().String("base-url", "", "Path prefix for every link, e.g. /deck (overrides config)")

	// ── serve subcommand ──────────────────────────────────────────────────────
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the presentation page",
		RunE: func(cmd *cobra.Command, args []string) error {
			printBanner("SERVE")

			cfg, log, resolver, err := setup(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			if port, _ := cmd.Flags().GetInt("port"); port != 0 {
				cfg.Port = port
			}

			if err := resolver.Check(allImages()...); err != nil {
				log.Warn("some images are missing; pages using them will fail to render",
					zap.String("asset_dir", cfg.AssetDir), zap.Error(err))
			}

			var store *server.Store
			if cfg.DBPath != "" {
				store, err = server.OpenStore(cfg.DBPath)
				if err != nil {
					return fmt.Errorf("opening render log: %w", err)
				}
				defer store.Close()
				log.Info("render log opened", zap.String("db_path", cfg.DBPath))
			}

			gin.SetMode(gin.ReleaseMode)
			srv, err := server.New(cfg, log, resolver, store)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if cfg.WatchAssets {
				err := resolver.Watch(ctx, 500*time.Millisecond,
					func(name string) {
						log.Info("asset changed", zap.String("file", name))
						if err := resolver.Check(allImages()...); err != nil {
							log.Warn("images missing after change", zap.Error(err))
						}
					},
					func(err error) { log.Warn("asset watcher", zap.Error(err)) },
				)
				if err != nil {
					log.Warn("asset watch disabled", zap.Error(err))
				}
			}

			fmt.Printf("  ✓ Deck   → http://%s%s/\n", cfg.Addr(), cfg.BaseURL)
			fmt.Printf("  ✓ Assets → %s\n\n", cfg.AssetDir)
			return srv.Run(ctx)
		},
	}
	serveCmd.Flags().Int("port", 0, "Port to listen on (overrides config)")

	// ── export subcommand ─────────────────────────────────────────────────────
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write every page and its images as a static site",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, resolver, err := setup(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			out, _ := cmd.Flags().GetString("out")
			report, err := export.Site(afero.NewOsFs(), resolver, export.Options{OutDir: out, BaseURL: cfg.BaseURL}, log)
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}
			fmt.Printf("  ✓ %d pages, %d images → %s\n", len(report.Pages), len(report.Assets), out)
			return nil
		},
	}
	exportCmd.Flags().String("out", "public", "Output directory")

	// ── check subcommand ──────────────────────────────────────────────────────
	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Verify every image the pages reference resolves under the asset dir",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, resolver, err := setup(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			missing := 0
			for _, p := range allImages() {
				if _, err := resolver.Resolve(p); err != nil {
					fmt.Printf("  ✗ %v\n", err)
					missing++
					continue
				}
				fmt.Printf("  ✓ %s\n", p)
			}
			if missing > 0 {
				return fmt.Errorf("%d of %d images missing under %s", missing, len(allImages()), cfg.AssetDir)
			}
			return nil
		},
	}

	// ── pages subcommand ──────────────────────────────────────────────────────
	pagesCmd := &cobra.Command{
		Use:   "pages",
		Short: "List the page modules and their blocks",
		Run: func(cmd *cobra.Command, args []string) {
			for _, p := range deck.Pages() {
				fmt.Printf("%-10s %s\n", p.Slug(), p.Title())
				for i, b := range p.Blocks() {
					fmt.Printf("  %2d  %s\n", i, b.Kind)
				}
			}
		},
	}

	// ── version subcommand ────────────────────────────────────────────────────
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print ragdeck version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("ragdeck %s\n", version)
		},
	}

	root.AddCommand(serveCmd, exportCmd, checkCmd, pagesCmd, versionCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
