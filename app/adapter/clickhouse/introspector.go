package clickhouse

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/ydb-platform/clickhouse-adapter/app/utils"
	"github.com/ydb-platform/clickhouse-adapter/library/go/core/log"
)

const listDatabasesQuery = "SELECT name FROM system.databases " +
	"WHERE name NOT IN ('INFORMATION_SCHEMA', 'system', 'information_schema')"

const relationKindView = "VIEW"

type relation struct {
	name string
	kind string
}

type column struct {
	name    string
	rawType string
}

var literalEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// quoteLiteral renders s as a ClickHouse string literal.
func quoteLiteral(s string) string {
	return "'" + literalEscaper.Replace(s) + "'"
}

func listRelationsQuery(database string) string {
	return "SELECT table_name, table_type FROM information_schema.tables " +
		"WHERE table_schema = " + quoteLiteral(database) + " ORDER BY table_name ASC"
}

func listColumnsQuery(database, relation string) string {
	return "SELECT column_name, data_type FROM information_schema.columns " +
		"WHERE table_schema = " + quoteLiteral(database) +
		" AND table_name = " + quoteLiteral(relation) +
		" ORDER BY ordinal_position ASC"
}

// introspector reads metadata; every call owns its result set and releases it
// before returning, so it never interferes with a user cursor.
type introspector struct {
	db          *sql.DB
	logger      log.Logger
	queryLogger utils.QueryLogger
}

func (i *introspector) listDatabases(ctx context.Context) ([]string, error) {
	var out []string

	err := i.query(ctx, listDatabasesQuery, func(rows *sql.Rows) error {
		var name string
		if err := rows.Scan(&name); err != nil {
			return err
		}

		out = append(out, name)

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list databases: %w", err)
	}

	return out, nil
}

func (i *introspector) listRelations(ctx context.Context, database string) ([]relation, error) {
	var out []relation

	err := i.query(ctx, listRelationsQuery(database), func(rows *sql.Rows) error {
		var r relation
		if err := rows.Scan(&r.name, &r.kind); err != nil {
			return err
		}

		out = append(out, r)

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list relations of `%s`: %w", database, err)
	}

	return out, nil
}

func (i *introspector) listColumns(ctx context.Context, database, relationName string) ([]column, error) {
	var out []column

	err := i.query(ctx, listColumnsQuery(database, relationName), func(rows *sql.Rows) error {
		var c column
		if err := rows.Scan(&c.name, &c.rawType); err != nil {
			return err
		}

		out = append(out, c)

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list columns of `%s`.`%s`: %w", database, relationName, err)
	}

	return out, nil
}

func (i *introspector) query(ctx context.Context, query string, scan func(rows *sql.Rows) error) error {
	i.queryLogger.Dump(query)

	rows, err := i.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("query context: %w", err)
	}

	defer utils.LogCloserError(i.logger, rows, "close introspection rows")

	for rows.Next() {
		if err := scan(rows); err != nil {
			return fmt.Errorf("rows scan: %w", err)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("rows err: %w", err)
	}

	return nil
}
