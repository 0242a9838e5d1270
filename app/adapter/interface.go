package adapter

import (
	"context"
)

// Adapter produces live connections to a database server.
type Adapter interface {
	// Connect opens the driver handles and validates them with a trivial query.
	// On failure it returns an error of KindConnection and no Connection.
	Connect(ctx context.Context) (Connection, error)
}

// Connection is a single validated session with the server.
// It is not safe for concurrent use.
type Connection interface {
	// Execute runs the query. It returns a nil Cursor for statements that
	// produce no result shape (DDL, DML).
	Execute(ctx context.Context, query string) (Cursor, error)

	// GetCatalog builds a fresh database -> relation -> column tree.
	GetCatalog(ctx context.Context) (*Catalog, error)

	// GetCompletions returns keywords and function names known to the server.
	GetCompletions(ctx context.Context) ([]Completion, error)

	// InitMessage is shown by hosts after the connection is established.
	InitMessage() string

	Close() error
}

// Cursor wraps exactly one result set.
type Cursor interface {
	// Columns describes the result shape with raw server type names.
	Columns() []Column

	// SetLimit caps the number of rows returned by the next FetchAll.
	SetLimit(limit int) Cursor

	// FetchAll materializes the rows and releases the result set.
	// A cursor can be fetched only once.
	FetchAll(ctx context.Context) ([][]any, error)

	Close() error
}

// Column is a name and the server's type name for one result column.
type Column struct {
	Name string `json:"name"`
	Type string `json:"type"`
}
