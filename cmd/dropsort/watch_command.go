package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"dropsort/internal/daemon"
	"dropsort/internal/logging"
	"dropsort/internal/stats"
)

func newWatchCommand(configFlag *string) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Watch the staging directory and organize arrivals until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configFlag)
			if err != nil {
				return err
			}

			logger, err := logging.New(logging.Options{
				Level:  cfg.Log.Level,
				Format: cfg.Log.Format,
			})
			if err != nil {
				return err
			}

			d, err := daemon.New(cfg, logger)
			if err != nil {
				return err
			}
			if err := d.Start(); err != nil {
				return err
			}

			fmt.Printf("Watching %s\n", cfg.StagingDir)
			fmt.Printf("Organizing into %s/{platform}/{images|labels}/\n\n", cfg.DatasetDir)
			fmt.Println(stats.Render(d.Stats()))
			fmt.Println("\nPress Ctrl+C to stop")

			sigs := make(chan os.Signal, 1)
			signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
			<-sigs
			signal.Stop(sigs)

			summary := d.Stop()

			fmt.Printf("\nSession: %d placed, %d rejected, %d discarded, %d skipped in %s\n\n",
				summary.Placed, summary.Rejected, summary.Discarded, summary.Skipped,
				summary.Duration.Round(time.Second))
			fmt.Println(stats.Render(d.Stats()))
			return nil
		},
	}
}
