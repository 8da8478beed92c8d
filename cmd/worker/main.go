package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"library/internal/app/bootstrap"

	"github.com/spf13/cobra"
)

var configPath string

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// Worker process entrypoint.
// Data flow:
// 1) Load config.
// 2) Build app wiring.
// 3) Poll the publication announcer and the outbox relay.
var rootCmd = &cobra.Command{
	Use:          "worker",
	Short:        "Announce newly published articles and relay outbox events",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		log.Println("library worker starting")
		app, err := bootstrap.BuildWorker(configPath)
		if err != nil {
			return err
		}
		defer func() {
			if err := app.Close(); err != nil {
				log.Printf("worker shutdown close failed: %v", err)
			}
		}()
		return app.Run(ctx)
	},
}

func init() {
	rootCmd.SetContext(context.Background())
	rootCmd.Flags().StringVar(&configPath, "config", os.Getenv("LIBRARY_CONFIG"), "path to a YAML config file")
}
