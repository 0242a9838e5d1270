package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/ydb-platform/clickhouse-adapter/app/adapter"
	"github.com/ydb-platform/clickhouse-adapter/app/config"
	"github.com/ydb-platform/clickhouse-adapter/app/utils"
	"github.com/ydb-platform/clickhouse-adapter/library/go/core/log"
)

type adapterMock struct {
	mock.Mock
}

func (m *adapterMock) Connect(ctx context.Context) (adapter.Connection, error) {
	args := m.Called()

	conn, _ := args.Get(0).(adapter.Connection)

	return conn, args.Error(1)
}

func factoryFor(a adapter.Adapter, seen **config.Config) AdapterFactory {
	return func(_ log.Logger, cfg *config.Config) adapter.Adapter {
		if seen != nil {
			*seen = cfg
		}

		return a
	}
}

func executeRoot(t *testing.T, factory AdapterFactory, stdin string, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCommand(factory)

	var out bytes.Buffer

	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append(args, "--log-level", "error"))

	err := cmd.Execute()

	return out.String(), err
}

func sampleCatalog() *adapter.Catalog {
	return &adapter.Catalog{
		Items: []*adapter.CatalogItem{
			{
				QualifiedIdentifier: `"default"`,
				QueryName:           `"default"`,
				Label:               "default",
				TypeLabel:           "s",
				Children: []*adapter.CatalogItem{
					{
						QualifiedIdentifier: `"default"."events"`,
						QueryName:           `"default"."events"`,
						Label:               "events",
						TypeLabel:           "t",
						Children: []*adapter.CatalogItem{
							{
								QualifiedIdentifier: `"default"."events"."id"`,
								QueryName:           `"id"`,
								Label:               "id",
								TypeLabel:           "##",
							},
						},
					},
				},
			},
			{
				QualifiedIdentifier: `"logs"`,
				QueryName:           `"logs"`,
				Label:               "logs",
				TypeLabel:           "s",
			},
		},
	}
}

func TestQueryCommand(t *testing.T) {
	t.Run("table output with limit", func(t *testing.T) {
		cursor := &adapter.CursorMock{}
		cursor.On("SetLimit", 2).Return()
		cursor.On("FetchAll").Return([][]any{{uint8(1), "x"}, {uint8(2), nil}}, nil)
		cursor.On("Columns").Return([]adapter.Column{{Name: "a", Type: "UInt8"}, {Name: "b", Type: "Nullable(String)"}})
		cursor.On("Close").Return(nil)

		conn := &adapter.ConnectionMock{}
		conn.On("Execute", "SELECT a, b FROM t").Return(cursor, nil)
		conn.On("Close").Return(nil)

		a := &adapterMock{}
		a.On("Connect").Return(conn, nil)

		var cfg *config.Config

		out, err := executeRoot(t, factoryFor(a, &cfg), "", "query", "--limit", "2", "SELECT a, b FROM t")
		require.NoError(t, err)
		require.Contains(t, out, "NULL")
		require.Contains(t, out, "UInt8")
		require.Contains(t, out, "(2 rows)")
		require.Equal(t, 2, cfg.Output.Limit)

		mock.AssertExpectationsForObjects(t, cursor, conn, a)
	})

	t.Run("statement without result", func(t *testing.T) {
		conn := &adapter.ConnectionMock{}
		conn.On("Execute", "DROP TABLE t").Return(nil, nil)
		conn.On("Close").Return(nil)

		a := &adapterMock{}
		a.On("Connect").Return(conn, nil)

		out, err := executeRoot(t, factoryFor(a, nil), "DROP TABLE t", "query")
		require.NoError(t, err)
		require.Equal(t, "OK\n", out)
	})

	t.Run("json output", func(t *testing.T) {
		cursor := &adapter.CursorMock{}
		cursor.On("FetchAll").Return([][]any{{uint8(1)}}, nil)
		cursor.On("Columns").Return([]adapter.Column{{Name: "a", Type: "UInt8"}})
		cursor.On("Close").Return(nil)

		conn := &adapter.ConnectionMock{}
		conn.On("Execute", "select 1 as a").Return(cursor, nil)
		conn.On("Close").Return(nil)

		a := &adapterMock{}
		a.On("Connect").Return(conn, nil)

		out, err := executeRoot(t, factoryFor(a, nil), "", "query", "--format", "json", "select 1 as a")
		require.NoError(t, err)
		require.JSONEq(t, `[{"a": 1}]`, out)
	})

	t.Run("query error", func(t *testing.T) {
		conn := &adapter.ConnectionMock{}
		conn.On("Execute", "selec;").Return(nil, adapter.NewQueryError(errors.New("Syntax error")))
		conn.On("Close").Return(nil)

		a := &adapterMock{}
		a.On("Connect").Return(conn, nil)

		_, err := executeRoot(t, factoryFor(a, nil), "", "query", "selec;")
		require.True(t, errors.Is(err, adapter.ErrQuery))
		require.Contains(t, DescribeError(err), "Syntax error")

		conn.AssertCalled(t, "Close")
	})

	t.Run("connection error", func(t *testing.T) {
		a := &adapterMock{}
		a.On("Connect").Return(nil, adapter.NewConnectionError(errors.New("connection refused")))

		_, err := executeRoot(t, factoryFor(a, nil), "", "query", "SELECT 1")
		require.True(t, errors.Is(err, adapter.ErrConnection))
	})

	t.Run("empty query", func(t *testing.T) {
		a := &adapterMock{}

		_, err := executeRoot(t, factoryFor(a, nil), "  ", "query")
		require.Error(t, err)
		a.AssertNotCalled(t, "Connect")
	})

	t.Run("connection flags reach the adapter", func(t *testing.T) {
		conn := &adapter.ConnectionMock{}
		conn.On("Execute", "SELECT 1").Return(nil, nil)
		conn.On("Close").Return(nil)

		a := &adapterMock{}
		a.On("Connect").Return(conn, nil)

		var cfg *config.Config

		_, err := executeRoot(t, factoryFor(a, &cfg), "", "query",
			"--host", "ch.internal", "-p", "9440", "-d", "analytics", "-u", "reader", "-s", "SELECT 1")
		require.NoError(t, err)
		require.Equal(t, "ch.internal", cfg.Connection.Host)
		require.Equal(t, "9440", cfg.Connection.Port)
		require.Equal(t, "analytics", cfg.Connection.Database)
		require.Equal(t, "reader", cfg.Connection.User)
		require.True(t, cfg.Connection.Secure)
	})
}

func TestCatalogCommand(t *testing.T) {
	newAdapter := func() *adapterMock {
		conn := &adapter.ConnectionMock{}
		conn.On("GetCatalog").Return(sampleCatalog(), nil)
		conn.On("Close").Return(nil)

		a := &adapterMock{}
		a.On("Connect").Return(conn, nil)

		return a
	}

	t.Run("tree", func(t *testing.T) {
		out, err := executeRoot(t, factoryFor(newAdapter(), nil), "", "catalog")
		require.NoError(t, err)
		require.Contains(t, out, "default [s]")
		require.Contains(t, out, "events [t]")
		require.Contains(t, out, "id [##]")
		require.Contains(t, out, "logs [s]")
		require.Less(t, strings.Index(out, "events"), strings.Index(out, "logs"))
	})

	t.Run("json", func(t *testing.T) {
		out, err := executeRoot(t, factoryFor(newAdapter(), nil), "", "catalog", "--format", "json")
		require.NoError(t, err)
		require.Contains(t, out, `"queryName": "\"default\".\"events\""`)
		require.Contains(t, out, `"typeLabel": "##"`)
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := executeRoot(t, factoryFor(newAdapter(), nil), "", "catalog", "--format", "xml")
		require.Error(t, err)
	})
}

func newTestShell(t *testing.T, conn adapter.Connection) (*shell, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	var out, errOut bytes.Buffer

	s := &session{
		cfg: &config.Config{
			Output: &config.OutputConfig{Format: formatTable},
		},
		logger: utils.NewTestLogger(t),
		conn:   conn,
	}

	return newShell(context.Background(), &out, &errOut, s), &out, &errOut
}

func TestShell(t *testing.T) {
	t.Run("multi-line statement", func(t *testing.T) {
		cursor := &adapter.CursorMock{}
		cursor.On("FetchAll").Return([][]any{{uint8(1)}}, nil)
		cursor.On("Columns").Return([]adapter.Column{{Name: "a", Type: "UInt8"}})
		cursor.On("Close").Return(nil)

		conn := &adapter.ConnectionMock{}
		conn.On("Execute", "SELECT 1\nAS a").Return(cursor, nil)

		sh, out, _ := newTestShell(t, conn)

		require.False(t, sh.handleLine("SELECT 1"))
		require.True(t, sh.pending())
		require.False(t, sh.handleLine("AS a;"))
		require.False(t, sh.pending())
		require.Contains(t, out.String(), "(1 rows)")

		conn.AssertExpectations(t)
	})

	t.Run("query error keeps the shell running", func(t *testing.T) {
		conn := &adapter.ConnectionMock{}
		conn.On("Execute", "selec").Return(nil, adapter.NewQueryError(errors.New("Syntax error")))

		sh, _, errOut := newTestShell(t, conn)

		require.False(t, sh.handleLine("selec;"))
		require.Contains(t, errOut.String(), "Syntax error")
	})

	t.Run("limit command", func(t *testing.T) {
		cursor := &adapter.CursorMock{}
		cursor.On("SetLimit", 5).Return()
		cursor.On("FetchAll").Return([][]any{}, nil)
		cursor.On("Columns").Return([]adapter.Column{{Name: "n", Type: "UInt64"}})
		cursor.On("Close").Return(nil)

		conn := &adapter.ConnectionMock{}
		conn.On("Execute", "SELECT n FROM t").Return(cursor, nil)

		sh, out, errOut := newTestShell(t, conn)

		require.False(t, sh.handleLine(".limit 5"))
		require.False(t, sh.handleLine(".limit"))
		require.Contains(t, out.String(), "limit: 5")

		require.False(t, sh.handleLine(".limit -1"))
		require.Contains(t, errOut.String(), "invalid limit")

		require.False(t, sh.handleLine("SELECT n FROM t;"))
		cursor.AssertExpectations(t)
	})

	t.Run("catalog command", func(t *testing.T) {
		conn := &adapter.ConnectionMock{}
		conn.On("GetCatalog").Return(sampleCatalog(), nil)

		sh, out, _ := newTestShell(t, conn)

		require.False(t, sh.handleLine(".catalog"))
		require.Contains(t, out.String(), "events [t]")
	})

	t.Run("format and help", func(t *testing.T) {
		sh, out, errOut := newTestShell(t, &adapter.ConnectionMock{})

		require.False(t, sh.handleLine(".format json"))
		require.Equal(t, formatJSON, sh.format)
		require.False(t, sh.handleLine(".format xml"))
		require.Contains(t, errOut.String(), "invalid format")

		require.False(t, sh.handleLine(".help"))
		require.Contains(t, out.String(), ".catalog")

		require.False(t, sh.handleLine(".bogus"))
		require.Contains(t, errOut.String(), "unknown command")
	})

	t.Run("quit", func(t *testing.T) {
		sh, _, _ := newTestShell(t, &adapter.ConnectionMock{})

		require.True(t, sh.handleLine(".quit"))
		require.True(t, sh.handleLine(".EXIT"))
	})
}

func TestWordCompleter(t *testing.T) {
	c := newWordCompleter([]string{"SELECT", "SETTINGS", "events", "events", "count", ".catalog", ".help"})

	t.Run("keyword", func(t *testing.T) {
		candidates, length := c.Do([]rune("sel"), 3)
		require.Equal(t, 3, length)
		require.Equal(t, [][]rune{[]rune("ECT")}, candidates)
	})

	t.Run("after qualifier", func(t *testing.T) {
		line := []rune(`SELECT * FROM default.ev`)
		candidates, length := c.Do(line, len(line))
		require.Equal(t, 2, length)
		require.Equal(t, [][]rune{[]rune("ents")}, candidates)
	})

	t.Run("dot command", func(t *testing.T) {
		candidates, length := c.Do([]rune(".ca"), 3)
		require.Equal(t, 3, length)
		require.Equal(t, [][]rune{[]rune("talog")}, candidates)
	})

	t.Run("several candidates", func(t *testing.T) {
		candidates, _ := c.Do([]rune("SE"), 2)
		require.Len(t, candidates, 2)
	})

	t.Run("empty word", func(t *testing.T) {
		candidates, length := c.Do([]rune("SELECT "), 7)
		require.Nil(t, candidates)
		require.Equal(t, 0, length)
	})
}
