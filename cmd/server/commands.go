package main

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/kofadam/asahi-x-family/internal/config"
	"github.com/kofadam/asahi-x-family/internal/platform/logger"
	"github.com/kofadam/asahi-x-family/internal/platform/migrations"
	"github.com/kofadam/asahi-x-family/internal/service/auth"
	"github.com/spf13/cobra"
)

// rootOptions are the flags shared by every command.
type rootOptions struct {
	envFile    string
	configFile string
}

func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadWithOptions(config.Options{EnvFile: o.envFile, ConfigFile: o.configFile})
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// load reads the configuration and sets up the process logger.
func (o *rootOptions) load() (*config.Config, *slog.Logger, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, nil, err
	}

	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	l.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"database_driver", cfg.Database.Driver)
	return cfg, l, nil
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:          "asahi",
		Short:        "Learning progression engine server",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "optional dotenv file")
	root.PersistentFlags().StringVar(&opts.configFile, "config", "config.yaml", "optional YAML config file")

	root.AddCommand(
		newServeCmd(opts),
		newMigrateCmd(opts),
		newTokenCmd(opts),
	)
	return root
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	var migrateFirst bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, l, err := opts.load()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			db, err := openDatabase(ctx, cfg.Database, l)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}

			if migrateFirst {
				if err := db.migrate(ctx, migrations.CommandUp); err != nil {
					_ = db.close()
					return err
				}
			}

			app, err := newApplication(cfg, l, db)
			if err != nil {
				_ = db.close()
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			return app.Run(ctx)
		},
	}
	cmd.Flags().BoolVar(&migrateFirst, "migrate", false, "apply pending migrations before serving")
	return cmd
}

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [command]",
		Short:     "Run database migrations (default: up)",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: migrations.Commands(),
		RunE: func(cmd *cobra.Command, args []string) error {
			command := migrations.CommandUp
			if len(args) == 1 {
				command = args[0]
			}

			cfg, l, err := opts.load()
			if err != nil {
				return err
			}

			db, err := openDatabase(cmd.Context(), cfg.Database, l)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer func() { _ = db.close() }()

			return db.migrate(cmd.Context(), command)
		},
	}
}

func newTokenCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "token <profile-id>",
		Short: "Issue an access token for a learner profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			profileID, err := uuid.Parse(args[0])
			if err != nil || profileID == uuid.Nil {
				return fmt.Errorf("invalid profile id %q", args[0])
			}

			// No logger setup: the token is the only output.
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			jwtService, err := auth.NewJWTService(cfg.Auth)
			if err != nil {
				return fmt.Errorf("failed to initialize JWT service: %w", err)
			}

			token, err := jwtService.GenerateToken(cmd.Context(), profileID)
			if err != nil {
				return fmt.Errorf("failed to generate token: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
}
