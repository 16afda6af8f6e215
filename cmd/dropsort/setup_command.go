package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"dropsort/internal/layout"
	"dropsort/internal/platform"
)

func newSetupCommand(configFlag *string) *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Create the staging directory and destination tree without watching",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configFlag)
			if err != nil {
				return err
			}

			registry := platform.NewRegistry(cfg.Platforms)
			if err := layout.EnsureTree(cfg.DatasetDir, cfg.StagingDir, registry); err != nil {
				return err
			}

			fmt.Printf("Staging directory: %s\n", cfg.StagingDir)
			for _, label := range registry.Labels() {
				imagesDir, labelsDir := layout.LabelDirs(cfg.DatasetDir, label)
				fmt.Printf("%s:\n  %s\n  %s\n", label, imagesDir, labelsDir)
			}
			return nil
		},
	}
}
