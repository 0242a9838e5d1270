package clickhouse

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"reflect"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/ydb-platform/clickhouse-adapter/app/adapter"
	"github.com/ydb-platform/clickhouse-adapter/app/utils"
	"github.com/ydb-platform/clickhouse-adapter/library/go/core/log"
)

const (
	validationQuery = "SELECT 1"

	maxIdleConns    = 2
	connMaxLifetime = time.Hour

	initMessage = "Welcome to ClickHouse"
)

// nativeConn is the part of the native driver API used for user statements.
// Unlike database/sql it reports a stream without data blocks as io.EOF and
// never replays a statement on another session.
type nativeConn interface {
	Query(ctx context.Context, query string, args ...any) (driver.Rows, error)
	Exec(ctx context.Context, query string, args ...any) error
	Close() error
}

var _ nativeConn = (driver.Conn)(nil)

var _ adapter.Connection = (*Connection)(nil)

type Connection struct {
	native       nativeConn
	db           *sql.DB
	logger       log.Logger
	queryLogger  utils.QueryLogger
	introspector *introspector
}

// newConnection takes ownership of both driver handles: native runs user
// statements, db serves metadata queries. Both are closed if validation fails.
func newConnection(
	ctx context.Context,
	logger log.Logger,
	native nativeConn,
	db *sql.DB,
	queryLogger utils.QueryLogger,
) (*Connection, error) {
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	conn := &Connection{
		native:      native,
		db:          db,
		logger:      logger,
		queryLogger: queryLogger,
		introspector: &introspector{
			db:          db,
			logger:      logger,
			queryLogger: queryLogger,
		},
	}

	if err := conn.validate(ctx); err != nil {
		utils.LogCloserError(logger, conn, "close clickhouse connection")

		return nil, adapter.NewConnectionError(err)
	}

	return conn, nil
}

func (c *Connection) validate(ctx context.Context) error {
	c.queryLogger.Dump(validationQuery)

	if err := c.native.Exec(ctx, validationQuery); err != nil {
		return fmt.Errorf("validation query: %w", err)
	}

	return nil
}

// Execute runs the statement and buffers its whole result, so a Cursor
// never holds a server session.
func (c *Connection) Execute(ctx context.Context, query string) (adapter.Cursor, error) {
	c.queryLogger.Dump(query)

	rows, err := c.native.Query(ctx, query)
	if err != nil {
		// end of stream before the first data block: DDL, INSERT and the like
		if errors.Is(err, io.EOF) {
			return nil, nil
		}

		return nil, adapter.NewQueryError(err)
	}

	defer utils.LogCloserError(c.logger, rows, "close rows")

	columnTypes := rows.ColumnTypes()
	if len(columnTypes) == 0 {
		return nil, nil
	}

	columns := make([]adapter.Column, 0, len(columnTypes))
	for _, ct := range columnTypes {
		columns = append(columns, adapter.Column{Name: ct.Name(), Type: ct.DatabaseTypeName()})
	}

	buffered, err := scanRows(ctx, rows, columnTypes)
	if err != nil {
		return nil, adapter.NewQueryError(err)
	}

	c.logger.Debug("rows buffered", log.Int("count", len(buffered)))

	return newCursor(c.logger, columns, buffered), nil
}

func scanRows(ctx context.Context, rows driver.Rows, columnTypes []driver.ColumnType) ([][]any, error) {
	out := [][]any{}

	for rows.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		acceptors := make([]any, len(columnTypes))
		for i, ct := range columnTypes {
			acceptors[i] = reflect.New(ct.ScanType()).Interface()
		}

		if err := rows.Scan(acceptors...); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}

		row := make([]any, len(acceptors))
		for i, acceptor := range acceptors {
			row[i] = reflect.ValueOf(acceptor).Elem().Interface()
		}

		out = append(out, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}

	return out, nil
}

func (c *Connection) GetCatalog(ctx context.Context) (*adapter.Catalog, error) {
	builder := &catalogBuilder{introspector: c.introspector}

	catalog, err := builder.build(ctx)
	if err != nil {
		return nil, adapter.NewQueryError(err)
	}

	return catalog, nil
}

func (c *Connection) GetCompletions(ctx context.Context) ([]adapter.Completion, error) {
	functions, err := c.introspector.listFunctions(ctx)
	if err != nil {
		return nil, adapter.NewQueryError(err)
	}

	return append(keywordCompletions(), functions...), nil
}

func (c *Connection) InitMessage() string { return initMessage }

func (c *Connection) Close() error {
	return errors.Join(c.native.Close(), c.db.Close())
}
