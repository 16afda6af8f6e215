package main

import (
	"github.com/spf13/cobra"

	"dropsort/internal/config"
)

func newRootCommand() *cobra.Command {
	var configFlag string

	long := "dropsort watches a staging directory for files named\n" +
		"{platform}_{timestamp}_{counter}.{ext} and moves them into\n" +
		"{dataset}/{platform}/images/ or {dataset}/{platform}/labels/."

	rootCmd := &cobra.Command{
		Use:           "dropsort",
		Short:         "Organize collector output into a per-platform dataset tree",
		Long:          long,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	rootCmd.AddCommand(newWatchCommand(&configFlag))
	rootCmd.AddCommand(newStatsCommand(&configFlag))
	rootCmd.AddCommand(newSetupCommand(&configFlag))

	return rootCmd
}

// loadConfig resolves configuration for a command invocation. With no
// --config flag the stock defaults apply, so the minimal form runs flagless.
func loadConfig(configFlag *string) (*config.Configuration, error) {
	path := ""
	if configFlag != nil {
		path = *configFlag
	}
	if path != "" {
		return config.Load(path)
	}
	return config.LoadOrDefault("")
}
