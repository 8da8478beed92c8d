// Command libraryctl runs operator tasks against the library database:
// schema migration, account and tag creation, demo seeding and tailing the
// event bus.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	articlelibrary "library/contexts/publishing/article-library"
	postgresadapter "library/contexts/publishing/article-library/adapters/postgres"
	httptransport "library/contexts/publishing/article-library/transport/http"
	contractsv1 "library/contracts/gen/events/v1"
	"library/internal/app/bootstrap"
	"library/internal/platform/config"

	"github.com/spf13/cobra"
)

var configPath string

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "libraryctl",
	Short:        "Operator commands for the library service",
	SilenceUsage: true,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the library tables",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withStorage(cmd.Context(), func(ctx context.Context, repo *postgresadapter.Repository, _ articlelibrary.Module) error {
			if err := repo.Migrate(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		})
	},
}

var (
	authorUsername    string
	authorDisplayName string
	authorEmail       string
	authorPassword    string
	authorStaff       bool
)

var createAuthorCmd = &cobra.Command{
	Use:   "create-author",
	Short: "Create an author account",
	Long: `Create an author account. Staff accounts need a password and may use the admin API.

Examples:
  libraryctl create-author --username editor --password s3cret --staff
  libraryctl create-author --username guest --display-name "Guest Writer"`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withStorage(cmd.Context(), func(ctx context.Context, _ *postgresadapter.Repository, module articlelibrary.Module) error {
			resp, err := module.Handler.CreateAuthorHandler(ctx, httptransport.CreateAuthorRequest{
				Username:    authorUsername,
				DisplayName: authorDisplayName,
				Email:       authorEmail,
				IsStaff:     authorStaff,
				Password:    authorPassword,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd, resp)
		})
	},
}

var tagName string

var createTagCmd = &cobra.Command{
	Use:   "create-tag",
	Short: "Create a tag",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withStorage(cmd.Context(), func(ctx context.Context, _ *postgresadapter.Repository, module articlelibrary.Module) error {
			resp, err := module.Handler.CreateTagHandler(ctx, httptransport.TagRequest{Name: tagName})
			if err != nil {
				return err
			}
			return printJSON(cmd, resp)
		})
	},
}

var seedPassword string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load demo authors, tags and articles",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withStorage(cmd.Context(), func(ctx context.Context, repo *postgresadapter.Repository, module articlelibrary.Module) error {
			if err := repo.Migrate(ctx); err != nil {
				return err
			}
			summary, err := Seed(ctx, module.Handler, seedPassword)
			if err != nil {
				return err
			}
			return printJSON(cmd, summary)
		})
	},
}

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Print events relayed to NATS until interrupted",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if cfg.NATS.URL == "" {
			return errors.New("nats.url is required to tail events")
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		bus, err := bootstrap.NewEventBus(cfg, slog.Default())
		if err != nil {
			return err
		}
		defer bus.Close()

		subject := cfg.NATS.SubjectPrefix + ".>"
		if err := bus.Subscribe(ctx, subject, func(_ context.Context, event contractsv1.Envelope) error {
			return printJSON(cmd, event)
		}); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "listening on %s\n", subject)
		<-ctx.Done()
		return nil
	},
}

func init() {
	rootCmd.SetContext(context.Background())
	rootCmd.PersistentFlags().StringVar(&configPath, "config", os.Getenv("LIBRARY_CONFIG"), "path to a YAML config file")

	createAuthorCmd.Flags().StringVar(&authorUsername, "username", "", "login name (required)")
	createAuthorCmd.Flags().StringVar(&authorDisplayName, "display-name", "", "name shown on pages")
	createAuthorCmd.Flags().StringVar(&authorEmail, "email", "", "contact email")
	createAuthorCmd.Flags().StringVar(&authorPassword, "password", "", "admin password")
	createAuthorCmd.Flags().BoolVar(&authorStaff, "staff", false, "grant admin access")
	_ = createAuthorCmd.MarkFlagRequired("username")

	createTagCmd.Flags().StringVar(&tagName, "name", "", "tag name (required)")
	_ = createTagCmd.MarkFlagRequired("name")

	seedCmd.Flags().StringVar(&seedPassword, "password", "changeme", "password for the seeded staff account")

	rootCmd.AddCommand(migrateCmd, createAuthorCmd, createTagCmd, seedCmd, eventsCmd)
}

func withStorage(
	ctx context.Context,
	run func(context.Context, *postgresadapter.Repository, articlelibrary.Module) error,
) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger := slog.Default().With("service", cfg.Service.Name, "process", "libraryctl")
	database, repo, err := bootstrap.Storage(cfg, logger)
	if err != nil {
		return err
	}
	defer database.Close()
	return run(ctx, repo, bootstrap.NewLibraryModule(repo, logger))
}

func printJSON(cmd *cobra.Command, payload any) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}
