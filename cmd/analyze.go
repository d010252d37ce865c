package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/roster-cli/internal/ingest"
	"github.com/sells-group/roster-cli/internal/model"
	"github.com/sells-group/roster-cli/internal/sheet"
	"github.com/sells-group/roster-cli/internal/staff"
)

var (
	analyzeEventID string
	analyzeUseAI   bool
	analyzeOutDir  string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>...",
	Short: "Analyze roster spreadsheets and write the reviewed result as JSON",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := cfg.Validate("analyze"); err != nil {
			return err
		}

		var reg staff.Registry = staff.FileRegistry{Path: cfg.Staff.File}
		if cfg.Staff.File == "" {
			st, err := initStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck
			reg = st
		}

		res, err := runAnalyze(ctx, newAnalyzer(cfg, reg), analyzeOpts{
			EventID:     analyzeEventID,
			Files:       args,
			UseAI:       analyzeUseAI || cfg.AI.Enabled,
			OutDir:      analyzeOutDir,
			Concurrency: cfg.Analyze.MaxConcurrentFiles,
			Stdout:      cmd.OutOrStdout(),
		})
		if err != nil {
			return err
		}
		if res.Succeeded == 0 {
			return eris.Errorf("analyze: all %d files failed", res.Failed)
		}
		return nil
	},
}

type analyzeOpts struct {
	EventID     string
	Files       []string
	UseAI       bool
	OutDir      string
	Concurrency int
	Stdout      io.Writer
}

type analyzeResult struct {
	Succeeded int64
	Failed    int64
}

// runAnalyze processes every file as an independent ingestion run. A file
// that cannot be read or written is logged and counted; it never stops the
// other files.
func runAnalyze(ctx context.Context, a *ingest.Analyzer, opts analyzeOpts) (*analyzeResult, error) {
	if opts.OutDir != "" {
		if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
			return nil, eris.Wrap(err, "analyze: create output dir")
		}
	}
	limit := opts.Concurrency
	if limit <= 0 {
		limit = 1
	}

	var (
		succeeded, failed atomic.Int64
		stdoutMu          sync.Mutex
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	outPaths := resultPaths(opts.OutDir, opts.Files)
	for i, path := range opts.Files {
		g.Go(func() error {
			log := zap.L().With(zap.String("file", filepath.Base(path)), zap.String("event_id", opts.EventID))

			res, err := analyzeFile(gctx, a, opts.EventID, path, opts.UseAI)
			if err != nil {
				failed.Add(1)
				log.Error("analyze: file failed", zap.Error(err))
				return nil
			}

			if opts.OutDir == "" {
				stdoutMu.Lock()
				err = writeJSON(opts.Stdout, res)
				stdoutMu.Unlock()
			} else {
				err = writeResultFile(outPaths[i], res)
			}
			if err != nil {
				failed.Add(1)
				log.Error("analyze: write result failed", zap.Error(err))
				return nil
			}

			succeeded.Add(1)
			log.Info("analyze: file complete",
				zap.Int("groups", res.TotalGroups),
				zap.Int("unmatched", len(res.UnmatchedStaffNames)),
				zap.Int("warnings", len(res.Warnings)),
			)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &analyzeResult{Succeeded: succeeded.Load(), Failed: failed.Load()}
	zap.L().Info("analyze: complete",
		zap.Int("files", len(opts.Files)),
		zap.Int64("succeeded", out.Succeeded),
		zap.Int64("failed", out.Failed),
	)
	return out, nil
}

func analyzeFile(ctx context.Context, a *ingest.Analyzer, eventID, path string, useAI bool) (*model.AnalysisResult, error) {
	s, err := sheet.Load(path)
	if err != nil {
		return nil, err
	}
	return a.Analyze(ctx, eventID, s, useAI)
}

func resultPath(outDir, input string) string {
	base := filepath.Base(input)
	return filepath.Join(outDir, strings.TrimSuffix(base, filepath.Ext(base))+".analysis.json")
}

// resultPaths maps each input to its output file. Inputs that share a base
// name get -2, -3, ... suffixes in argument order.
func resultPaths(outDir string, inputs []string) []string {
	out := make([]string, len(inputs))
	taken := make(map[string]struct{}, len(inputs))
	for i, in := range inputs {
		p := resultPath(outDir, in)
		stem := strings.TrimSuffix(p, ".analysis.json")
		for n := 2; ; n++ {
			if _, dup := taken[p]; !dup {
				break
			}
			p = fmt.Sprintf("%s-%d.analysis.json", stem, n)
		}
		taken[p] = struct{}{}
		out[i] = p
	}
	return out
}

func writeResultFile(path string, res *model.AnalysisResult) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "analyze: create result file")
	}
	if err := writeJSON(f, res); err != nil {
		f.Close() //nolint:errcheck
		return err
	}
	return eris.Wrap(f.Close(), "analyze: close result file")
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(v), "encode json")
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeEventID, "event", "", "event id the roster belongs to")
	analyzeCmd.Flags().BoolVar(&analyzeUseAI, "ai", false, "also run the AI-assisted strategy")
	analyzeCmd.Flags().StringVar(&analyzeOutDir, "out-dir", "", "write <name>.analysis.json files here instead of stdout")
	_ = analyzeCmd.MarkFlagRequired("event")
	rootCmd.AddCommand(analyzeCmd)
}
