package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"dropsort/internal/platform"
	"dropsort/internal/stats"
)

func newStatsCommand(configFlag *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print per-platform dataset counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configFlag)
			if err != nil {
				return err
			}

			registry := platform.NewRegistry(cfg.Platforms)
			snapshot := stats.Collect(cfg.DatasetDir, registry, cfg.ImageExtension, cfg.LabelExtension)
			fmt.Println(stats.Render(snapshot))
			return nil
		},
	}
}
