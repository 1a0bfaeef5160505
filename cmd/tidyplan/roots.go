package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"tidyplan/internal/config"
	"tidyplan/internal/roots"
	"tidyplan/internal/scanner"
)

func newRootsCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "roots <directory>",
		Short: "List the protected roots detection would exclude from organizing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoots(args[0], configPath)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", ".tidyplan.yml", "Config file path")
	return cmd
}

func runRoots(directory, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sc := scanner.New(scanner.Options{
		Skip:           cfg.Skip,
		FollowSymlinks: cfg.FollowSymlinks,
	})
	root, err := sc.Scan(ctx, directory)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	detected := roots.New(cfg.MinRootConfidence).Detect(root)
	if len(detected) == 0 {
		fmt.Println("No protected roots detected.")
		return nil
	}

	fmt.Printf("Protected roots (%d):\n", len(detected))
	for _, info := range detected {
		fmt.Printf("  %-16s %.2f  %s\n", info.Type, info.Confidence, info.Path)
		for _, m := range info.Markers {
			fmt.Printf("    - %s\n", m)
		}
	}
	return nil
}
