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

// @title Library API
// @version 1.0
// @description Published articles, authors and tags, plus the staff admin API.
// @BasePath /
// @securityDefinitions.basic BasicAuth
func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// API process entrypoint.
// Data flow:
// 1) Load config.
// 2) Build app wiring (ports + adapters + use cases).
// 3) Serve HTTP until SIGINT/SIGTERM.
var rootCmd = &cobra.Command{
	Use:          "api",
	Short:        "Serve the library site, JSON API and admin API",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		log.Println("library api starting")
		app, err := bootstrap.BuildAPI(configPath)
		if err != nil {
			return err
		}
		defer func() {
			if err := app.Close(); err != nil {
				log.Printf("api shutdown close failed: %v", err)
			}
		}()
		return app.Run(ctx)
	},
}

func init() {
	rootCmd.SetContext(context.Background())
	rootCmd.Flags().StringVar(&configPath, "config", os.Getenv("LIBRARY_CONFIG"), "path to a YAML config file")
}
