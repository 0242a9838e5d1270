package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/ydb-platform/clickhouse-adapter/app/utils"
)

func newCatalogCommand(factory AdapterFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Print databases, relations and columns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := cmd.Flags().GetString(flagFormat)
			if err != nil {
				return fmt.Errorf("get flag `%s`: %w", flagFormat, err)
			}

			s, err := openSession(cmd, factory)
			if err != nil {
				return err
			}

			defer utils.LogCloserError(s.logger, s, "close connection")

			catalog, err := s.conn.GetCatalog(cmd.Context())
			if err != nil {
				return err
			}

			return renderCatalog(cmd.OutOrStdout(), format, catalog)
		},
	}

	cmd.Flags().StringP(flagFormat, "f", formatTree, "output format: tree, json")

	return cmd
}
