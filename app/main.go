package main

import (
	"fmt"
	"os"

	"github.com/ydb-platform/clickhouse-adapter/app/cli"
)

var rootCmd = cli.NewRootCommand(cli.NewClickHouseAdapter)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, cli.DescribeError(err))
		os.Exit(1)
	}
}
