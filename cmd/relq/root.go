package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/bawdo/relq/internal/config"
)

// rootOptions is shared by every subcommand; cfg and logger are filled in
// by the root command's PersistentPreRunE.
type rootOptions struct {
	configFile string
	cfg        *config.Config
	configPath string
	logger     *slog.Logger
}

// NewRootCommand builds the relq command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "relq",
		Short: "Build SQL from a relational AST",
		Long: `relq - relational algebra SQL builder

Build SELECT, INSERT, UPDATE and DELETE statements one clause at a time,
render them for PostgreSQL, MySQL or SQLite, and run them against a live
database.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}
			cfg, path, err := config.Load(opts.configFile, cmd.Flags())
			if err != nil {
				return err
			}
			level, err := cfg.Level()
			if err != nil {
				return err
			}
			opts.cfg, opts.configPath = cfg, path
			opts.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			slog.SetDefault(opts.logger)
			if path != "" {
				opts.logger.Debug("loaded config", "path", path)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "config file (default: auto-discover relq.yaml)")
	flags.String("engine", "", "SQL dialect: postgres, mysql or sqlite")
	flags.String("dsn", "", "database connection string")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	flags.Bool("pretty", false, "render SQL over several lines")

	cmd.AddCommand(newShellCommand(opts))
	cmd.AddCommand(newSQLCommand(opts))
	return cmd
}
