package clickhouse

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ydb-platform/clickhouse-adapter/app/adapter"
)

const listFunctionsQuery = "SELECT name, is_aggregate FROM system.functions ORDER BY name ASC"

const (
	keywordPriority  = 1000
	functionPriority = 2000
)

var keywords = []string{
	"ALTER", "ANTI", "ARRAY JOIN", "AS", "ASC", "ASOF", "ATTACH", "BETWEEN", "BY",
	"CASE", "CREATE", "CROSS", "DATABASE", "DELETE", "DESC", "DESCRIBE", "DETACH",
	"DICTIONARY", "DISTINCT", "DROP", "ELSE", "END", "ENGINE", "EXCHANGE", "EXISTS",
	"EXPLAIN", "FINAL", "FORMAT", "FROM", "FULL", "GLOBAL", "GROUP BY", "HAVING",
	"IF", "ILIKE", "IN", "INNER", "INSERT INTO", "INTERVAL", "INTO", "IS", "JOIN",
	"KILL", "LEFT", "LIKE", "LIMIT", "MATERIALIZED", "MODIFY", "NOT", "NULL",
	"OFFSET", "ON", "OPTIMIZE", "OR", "ORDER BY", "OUTER", "PARTITION BY",
	"PREWHERE", "PRIMARY KEY", "RENAME", "REPLACE", "RIGHT", "SAMPLE", "SELECT",
	"SEMI", "SET", "SETTINGS", "SHOW", "SYSTEM", "TABLE", "TEMPORARY", "THEN",
	"TO", "TOTALS", "TRUNCATE", "TTL", "UNION ALL", "UPDATE", "USE", "USING",
	"VALUES", "VIEW", "WHEN", "WHERE", "WINDOW", "WITH",
}

func keywordCompletions() []adapter.Completion {
	out := make([]adapter.Completion, 0, len(keywords))

	for _, kw := range keywords {
		out = append(out, adapter.Completion{
			Label:     kw,
			TypeLabel: adapter.CompletionTypeKeyword,
			Value:     kw,
			Priority:  keywordPriority,
		})
	}

	return out
}

func (i *introspector) listFunctions(ctx context.Context) ([]adapter.Completion, error) {
	var out []adapter.Completion

	err := i.query(ctx, listFunctionsQuery, func(rows *sql.Rows) error {
		var (
			name        string
			isAggregate uint8
		)

		if err := rows.Scan(&name, &isAggregate); err != nil {
			return err
		}

		typeLabel := adapter.CompletionTypeFunction
		if isAggregate != 0 {
			typeLabel = adapter.CompletionTypeAggregate
		}

		out = append(out, adapter.Completion{
			Label:     name,
			TypeLabel: typeLabel,
			Value:     name,
			Priority:  functionPriority,
		})

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list functions: %w", err)
	}

	return out, nil
}
