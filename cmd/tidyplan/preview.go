package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"tidyplan/internal/config"
	"tidyplan/internal/logger"
	"tidyplan/internal/preview"
	"tidyplan/internal/progress"
	"tidyplan/internal/resolver"
	"tidyplan/internal/rules"
	"tidyplan/internal/safety"
	"tidyplan/internal/scanner"
	"tidyplan/internal/tree"
)

func newPreviewCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "preview <directory>",
		Short: "Scan a directory and print the placement every file would get",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreview(args[0], configPath)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", ".tidyplan.yml", "Config file path")
	return cmd
}

func runPreview(directory, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log := logger.New(logger.Config{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: cfg.LogFormat,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	counter := progress.New()

	sc := scanner.New(scanner.Options{
		Skip:           cfg.Skip,
		FollowSymlinks: cfg.FollowSymlinks,
		Progress:       counter.Update,
	})
	root, err := sc.Scan(ctx, directory)
	counter.Finish()
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}
	stats := sc.Stats()
	log.Info("scan complete",
		slog.Int("files", stats.Files),
		slog.Int("dirs", stats.Dirs),
		slog.Int("errors", stats.Errors),
		slog.Int("permission_skips", stats.PermissionSkips),
		slog.Int("symlink_skips", stats.SymlinkSkips),
	)

	engine := rules.New()
	results := engine.ClassifyBatch(root.Files())

	res := resolver.New(resolver.Config{
		MinGroupSize:      cfg.MinGroupSize,
		MaxDepth:          cfg.MaxDepth,
		MergeThreshold:    cfg.MergeThreshold,
		MinRootConfidence: cfg.MinRootConfidence,
		RespectRoots:      cfg.RespectRoots,
		PreventRedundancy: cfg.PreventRedundancy,
	})
	decisions, err := res.Resolve(ctx, root, results, nil)
	if err != nil {
		return fmt.Errorf("resolve failed: %w", err)
	}

	summary := preview.Build(root, decisions, time.Since(start))
	fmt.Print(preview.FormatReport(summary, decisions))
	fmt.Printf("Snapshot fingerprint: %s\n", tree.Fingerprint(root))

	for _, d := range decisions {
		if !d.WillMove {
			continue
		}
		for _, v := range safety.Check(d.Target) {
			log.Warn("unsafe target", slog.String("target", v.Path), slog.String("reason", v.Reason))
		}
	}

	if summary.Conflicts > 0 {
		os.Exit(1)
	}
	return nil
}
