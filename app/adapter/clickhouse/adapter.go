package clickhouse

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"path/filepath"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ydb-platform/clickhouse-adapter/app/adapter"
	"github.com/ydb-platform/clickhouse-adapter/app/config"
	"github.com/ydb-platform/clickhouse-adapter/app/utils"
	"github.com/ydb-platform/clickhouse-adapter/library/go/core/log"
	"github.com/ydb-platform/clickhouse-adapter/library/go/core/log/nop"
)

var _ adapter.Adapter = (*Adapter)(nil)

type Adapter struct {
	logger             log.Logger
	connStrings        []string
	options            *config.ConnectionOptions
	queryLoggerFactory utils.QueryLoggerFactory
	driverDebug        bool
}

// NewAdapter prepares an adapter. A single connection string is treated as a
// ClickHouse DSN and takes over the individual options; otherwise options are
// used, falling back to defaults when nil. A nil logger discards output.
func NewAdapter(
	logger log.Logger,
	connStrings []string,
	options *config.ConnectionOptions,
	loggerCfg *config.LoggerConfig,
) *Adapter {
	if logger == nil {
		logger = &nop.Logger{}
	}

	if options == nil {
		options = config.DefaultConnectionOptions()
	}

	var driverDebug bool
	if loggerCfg != nil {
		driverDebug = loggerCfg.DriverDebug
	}

	return &Adapter{
		logger:             logger,
		connStrings:        connStrings,
		options:            options,
		queryLoggerFactory: utils.NewQueryLoggerFactory(loggerCfg),
		driverDebug:        driverDebug,
	}
}

func (a *Adapter) Connect(ctx context.Context) (adapter.Connection, error) {
	logger := utils.AnnotateLogger(a.logger, "Connect", a.connectionOptionsForLog())

	opts, err := a.driverOptions(logger)
	if err != nil {
		return nil, adapter.NewConnectionError(err)
	}

	db := clickhouse.OpenDB(opts)

	native, err := clickhouse.Open(opts)
	if err != nil {
		utils.LogCloserError(logger, db, "close clickhouse connection")

		return nil, adapter.NewConnectionError(fmt.Errorf("open connection: %w", err))
	}

	conn, err := newConnection(ctx, logger, native, db, a.queryLoggerFactory.Make(logger))
	if err != nil {
		logger.Error("connect", log.Error(err))

		return nil, err
	}

	logger.Debug("connected")

	return conn, nil
}

func (a *Adapter) connectionOptionsForLog() *config.ConnectionOptions {
	if len(a.connStrings) == 1 {
		return nil
	}

	return a.options
}

func (a *Adapter) driverOptions(logger log.Logger) (*clickhouse.Options, error) {
	var (
		opts *clickhouse.Options
		err  error
	)

	if len(a.connStrings) == 1 {
		opts, err = clickhouse.ParseDSN(a.connStrings[0])
		if err != nil {
			return nil, fmt.Errorf("parse dsn: %w", err)
		}
	} else {
		opts = makeDriverOptions(a.options)
	}

	opts.Debug = opts.Debug || a.driverDebug
	opts.Debugf = func(format string, v ...any) {
		logger.Debugf(format, v...)
	}

	return opts, nil
}

func makeDriverOptions(o *config.ConnectionOptions) *clickhouse.Options {
	opts := &clickhouse.Options{
		Protocol: clickhouse.Native,
		Addr:     []string{net.JoinHostPort(o.Host, o.Port)},
		Auth: clickhouse.Auth{
			Database: o.Database,
			Username: o.User,
			Password: o.Password,
		},
		DialTimeout: o.ConnectTimeout,
		ReadTimeout: o.SendReceiveTimeout,
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
	}

	if o.UsesUnixSocket() {
		socket := unixSocketPath(o)
		opts.Addr = []string{socket}
		opts.DialContext = func(ctx context.Context, _ string) (net.Conn, error) {
			dialer := net.Dialer{Timeout: o.ConnectTimeout}

			return dialer.DialContext(ctx, "unix", socket)
		}
	}

	if o.Secure {
		opts.TLS = &tls.Config{
			InsecureSkipVerify: !o.Verify, //nolint:gosec
		}
	}

	return opts
}

// unixSocketPath follows the libpq convention: the host is a directory and
// the port is the socket file suffix.
func unixSocketPath(o *config.ConnectionOptions) string {
	return filepath.Join(o.Host, ".s.clickhouse."+o.Port)
}
