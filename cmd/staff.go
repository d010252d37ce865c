package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/roster-cli/internal/staff"
)

var staffCmd = &cobra.Command{
	Use:   "staff",
	Short: "Manage the canonical staff registry",
}

var staffImportCmd = &cobra.Command{
	Use:   "import <file.yaml|file.csv>",
	Short: "Load staff records into the store, updating existing ids",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := cfg.Validate("staff"); err != nil {
			return err
		}

		records, err := staff.LoadFile(args[0])
		if err != nil {
			return err
		}

		st, err := initStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		n, err := st.ImportStaff(ctx, records)
		if err != nil {
			return err
		}
		zap.L().Info("staff imported", zap.String("file", args[0]), zap.Int64("records", n))
		fmt.Fprintf(cmd.OutOrStdout(), "imported %d staff records\n", n)
		return nil
	},
}

var staffListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the active staff",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := cfg.Validate("staff"); err != nil {
			return err
		}

		st, err := initStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		active, err := st.ActiveStaff(ctx)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tPOSITION\tCOLOR")
		for _, s := range active {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.ID, s.FullName, s.Position, s.Color)
		}
		return w.Flush()
	},
}

func init() {
	staffCmd.AddCommand(staffImportCmd, staffListCmd)
	rootCmd.AddCommand(staffCmd)
}
