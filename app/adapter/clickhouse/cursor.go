package clickhouse

import (
	"context"
	"errors"

	"github.com/ydb-platform/clickhouse-adapter/app/adapter"
	"github.com/ydb-platform/clickhouse-adapter/library/go/core/log"
)

var ErrCursorExhausted = errors.New("cursor has already been fetched")

var _ adapter.Cursor = (*Cursor)(nil)

// Cursor holds a result that Execute has already read in full.
type Cursor struct {
	columns []adapter.Column
	rows    [][]any
	logger  log.Logger
	// limit <= 0 means no limit
	limit   int
	fetched bool
}

func newCursor(logger log.Logger, columns []adapter.Column, rows [][]any) *Cursor {
	return &Cursor{columns: columns, rows: rows, logger: logger}
}

func (c *Cursor) Columns() []adapter.Column { return c.columns }

func (c *Cursor) SetLimit(limit int) adapter.Cursor {
	c.limit = limit

	return c
}

func (c *Cursor) FetchAll(ctx context.Context) ([][]any, error) {
	if c.fetched {
		return nil, adapter.NewQueryError(ErrCursorExhausted)
	}

	c.fetched = true

	if err := ctx.Err(); err != nil {
		return nil, adapter.NewQueryError(err)
	}

	out := c.rows
	c.rows = nil

	if c.limit > 0 && len(out) > c.limit {
		out = out[:c.limit]
	}

	c.logger.Debug("rows fetched", log.Int("count", len(out)), log.Int("limit", c.limit))

	return out, nil
}

// Close drops the result if it was never fetched.
func (c *Cursor) Close() error {
	c.fetched = true
	c.rows = nil

	return nil
}
