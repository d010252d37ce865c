package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the roster store schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := cfg.Validate("migrate"); err != nil {
			return err
		}

		st, err := initStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		if err := st.Migrate(ctx); err != nil {
			return err
		}
		zap.L().Info("migration complete", zap.String("driver", cfg.Store.Driver))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
