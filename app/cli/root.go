package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/ydb-platform/clickhouse-adapter/app/adapter"
	"github.com/ydb-platform/clickhouse-adapter/app/adapter/clickhouse"
	"github.com/ydb-platform/clickhouse-adapter/app/config"
	"github.com/ydb-platform/clickhouse-adapter/app/utils"
	"github.com/ydb-platform/clickhouse-adapter/library/go/core/log"
)

// AdapterFactory builds the adapter a command connects through.
type AdapterFactory func(logger log.Logger, cfg *config.Config) adapter.Adapter

func NewClickHouseAdapter(logger log.Logger, cfg *config.Config) adapter.Adapter {
	return clickhouse.NewAdapter(logger, cfg.ConnectionStrings(), cfg.Connection, cfg.Logger)
}

func NewRootCommand(factory AdapterFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clickhouse-adapter",
		Short: "Query and explore a ClickHouse server",
		Long: `clickhouse-adapter connects to a ClickHouse server with either a DSN or
individual connection options and runs queries, prints the catalog, or starts
an interactive shell.

Options are read from flags, CLICKHOUSE_ADAPTER_* environment variables and
an optional clickhouse-adapter.yaml file, in that order of precedence.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	config.BindFlags(cmd.PersistentFlags())

	cmd.AddCommand(newQueryCommand(factory))
	cmd.AddCommand(newCatalogCommand(factory))
	cmd.AddCommand(newShellCommand(factory))

	return cmd
}

// session is everything a command needs once configuration is resolved.
type session struct {
	cfg    *config.Config
	logger log.Logger
	conn   adapter.Connection
}

func (s *session) Close() error { return s.conn.Close() }

func openSession(cmd *cobra.Command, factory AdapterFactory) (*session, error) {
	configPath, err := cmd.Flags().GetString(config.FlagConfig)
	if err != nil {
		return nil, fmt.Errorf("get flag `%s`: %w", config.FlagConfig, err)
	}

	cfg, err := config.Load(configPath, cmd.Flags())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := utils.NewLoggerFromConfig(cfg.Logger)
	if err != nil {
		return nil, err
	}

	logger = logger.WithName(cmd.Name())

	if cfg.Source != "" {
		logger.Debug("config file loaded", log.String("path", cfg.Source))
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	conn, err := factory(logger, cfg).Connect(ctx)
	if err != nil {
		return nil, err
	}

	return &session{cfg: cfg, logger: logger, conn: conn}, nil
}
