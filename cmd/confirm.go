package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/roster-cli/internal/ingest"
	"github.com/sells-group/roster-cli/internal/model"
)

var (
	confirmEventID       string
	confirmAnalysisPath  string
	confirmClearExisting bool
)

var confirmCmd = &cobra.Command{
	Use:   "confirm",
	Short: "Persist a reviewed analysis result for an event",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := cfg.Validate("confirm"); err != nil {
			return err
		}

		res, err := readAnalysis(confirmAnalysisPath)
		if err != nil {
			return err
		}

		st, err := initStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		report, err := ingest.Confirm(ctx, st, confirmEventID, res, ingest.ConfirmOptions{ClearExisting: confirmClearExisting})
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), report)
	},
}

func readAnalysis(path string) (*model.AnalysisResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "confirm: read analysis")
	}
	var res model.AnalysisResult
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, eris.Wrapf(err, "confirm: parse analysis %s", path)
	}
	return &res, nil
}

func init() {
	confirmCmd.Flags().StringVar(&confirmEventID, "event", "", "event id to persist the roster under")
	confirmCmd.Flags().StringVar(&confirmAnalysisPath, "analysis", "", "path to an .analysis.json file")
	confirmCmd.Flags().BoolVar(&confirmClearExisting, "clear-existing", false, "delete the event's existing groups and assignments first")
	_ = confirmCmd.MarkFlagRequired("event")
	_ = confirmCmd.MarkFlagRequired("analysis")
	rootCmd.AddCommand(confirmCmd)
}
