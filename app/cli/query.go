package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/ydb-platform/clickhouse-adapter/app/adapter"
	"github.com/ydb-platform/clickhouse-adapter/app/utils"
	"github.com/ydb-platform/clickhouse-adapter/library/go/core/log"
)

const (
	flagLimit  = "limit"
	flagFormat = "format"
)

func newQueryCommand(factory AdapterFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query [SQL]",
		Short: "Run a single statement and print its result",
		Example: `  clickhouse-adapter query "SELECT name FROM system.databases"
  clickhouse-adapter query --dsn clickhouse://localhost:9000/default --format json "SELECT 1 AS a"
  echo "SELECT 1" | clickhouse-adapter query --format arrow > out.arrow`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, args, factory)
		},
	}

	cmd.Flags().Int(flagLimit, 0, "maximum number of rows to fetch, 0 means all")
	cmd.Flags().StringP(flagFormat, "f", formatTable, "output format: table, json, csv, arrow")

	return cmd
}

func runQuery(cmd *cobra.Command, args []string, factory AdapterFactory) error {
	query := strings.Join(args, " ")

	if strings.TrimSpace(query) == "" {
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}

		query = string(content)
	}

	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("no query given")
	}

	s, err := openSession(cmd, factory)
	if err != nil {
		return err
	}

	defer utils.LogCloserError(s.logger, s, "close connection")

	return executeAndRender(cmd.Context(), cmd.OutOrStdout(), s, query, s.cfg.Output.Format, s.cfg.Output.Limit)
}

func executeAndRender(ctx context.Context, w io.Writer, s *session, query, format string, limit int) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cursor, err := s.conn.Execute(ctx, query)
	if err != nil {
		return err
	}

	if cursor == nil {
		_, _ = fmt.Fprintln(w, "OK")

		return nil
	}

	defer utils.LogCloserError(s.logger, cursor, "close cursor")

	if limit > 0 {
		cursor = cursor.SetLimit(limit)
	}

	rows, err := cursor.FetchAll(ctx)
	if err != nil {
		return err
	}

	s.logger.Debug("query finished", log.Int("rows", len(rows)))

	return renderResult(w, format, cursor.Columns(), rows)
}

// DescribeError renders adapter errors with their title on a separate line.
func DescribeError(err error) string {
	if adapterErr, ok := adapter.AsError(err); ok {
		return adapterErr.Title + "\n" + adapterErr.Msg
	}

	return err.Error()
}
