// Package cli defines the season-api command line: serve (the default), provision and version.
// It uses cobra, the same library behind kubectl and the GitHub CLI: each command is a
// *cobra.Command value with a RunE function, and subcommands are attached with AddCommand.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	// cobra builds the command tree and parses arguments; pflag is its POSIX-style flag set
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/dmv-footballheadz/season-api/internal/config"
	"github.com/dmv-footballheadz/season-api/internal/logging"
	"github.com/dmv-footballheadz/season-api/internal/server"
)

const (
	// Version of the season-api binary.
	Version = "1.0.0"
	// serviceName tags every log line.
	serviceName = "season-api"
)

// NewRootCmd builds the command tree. Running the root command without a subcommand serves.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "season-api",
		Short: "Fantasy football season records over HTTP",
		Long: fmt.Sprintf(`season-api (v%s)

A REST service storing one record per team per season, backed by DynamoDB,
Postgres or an in-memory store. Every flag can also be set through the
environment (PORT, STORE_BACKEND, LOG_LEVEL) or a .env file.`, Version),
		// SilenceUsage stops cobra from printing the help text when a command returns an
		// error at runtime (e.g. the store is unreachable) rather than a usage mistake.
		SilenceUsage: true,
		RunE:         runServe,
	}
	// Each command gets its own copy of the flags so "season-api --port 9000" and
	// "season-api serve --port 9000" both work.
	addStoreFlags(root.Flags())

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE:  runServe,
	}
	addStoreFlags(serveCmd.Flags())

	provisionCmd := &cobra.Command{
		Use:   "provision",
		Short: "Create the DynamoDB table or apply the Postgres migrations, then exit",
		RunE:  runProvision,
	}
	addStoreFlags(provisionCmd.Flags())

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number of season-api",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "season-api v%s\n", Version)
		},
	}

	// AddCommand attaches the subcommands: "season-api serve", "season-api provision", ...
	root.AddCommand(serveCmd, provisionCmd, versionCmd)
	return root
}

// Execute runs the command line. It is called by main.main.
func Execute() {
	// signal.NotifyContext returns a context that is cancelled on Ctrl+C (SIGINT) or when
	// the container runtime asks us to stop (SIGTERM). The server watches this context
	// to know when to shut down gracefully.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ExecuteContext makes ctx available to every command through cmd.Context().
	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		// os.Exit skips deferred calls, so release the signal handler first.
		stop()
		os.Exit(1)
	}
}

func addStoreFlags(flags *pflag.FlagSet) {
	flags.String("port", "8080", "TCP port the HTTP server listens on")
	flags.String("store", config.BackendDynamoDB, "store backend (dynamodb, postgres, memory)")
	flags.String("log-level", "info", "log level (trace, debug, info, warn, error)")
}

// setup loads the configuration and builds the root logger shared by every command.
func setup(cmd *cobra.Command) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("load config: %w", err)
	}
	logger := logging.NewWithWriter(logging.Config{
		Level:       cfg.LogLevel,
		Development: cfg.IsDevelopment(),
		Service:     serviceName,
		Version:     Version,
	}, cmd.OutOrStdout())
	return cfg, logger, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	// Open whichever store STORE_BACKEND selects (DynamoDB, Postgres or memory).
	backend, err := server.OpenBackend(ctx, cfg, logger)
	if err != nil {
		logger.Error().Err(err).Msg("failed to open store")
		return err
	}
	// defer runs when runServe returns, whether the server stopped cleanly or failed.
	defer func() {
		if err := backend.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close store")
		}
	}()

	// Create the DynamoDB table / apply the Postgres migrations before taking traffic,
	// so the first request never hits a missing table.
	if cfg.AutoProvision {
		if err := backend.Provision(ctx); err != nil {
			logger.Error().Err(err).Msg("failed to provision store")
			return err
		}
	}

	// Run blocks until ctx is cancelled (a shutdown signal) or the listener fails.
	if err := server.New(cfg, logger, backend.Repo).Run(ctx); err != nil {
		logger.Error().Err(err).Msg("server stopped")
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}

func runProvision(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	backend, err := server.OpenBackend(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer backend.Close()

	if err := backend.Provision(ctx); err != nil {
		return err
	}
	logger.Info().Str("store", cfg.StoreBackend).Msg("store provisioned")
	return nil
}
