package ingest

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/roster-cli/internal/extract"
	"github.com/sells-group/roster-cli/internal/model"
	"github.com/sells-group/roster-cli/internal/sheet"
	"github.com/sells-group/roster-cli/internal/staff"
)

// Analyzer runs one ingestion: it fetches the active staff once, builds the
// matcher, runs every strategy over the sheet and reconciles the results.
// An Analyzer holds no per-run state and may serve concurrent runs.
type Analyzer struct {
	Registry staff.Registry
	// Classic strategies in precedence order.
	Strategies []extract.Strategy
	// AI is optional; it only runs when requested.
	AI extract.Strategy
}

// NewAnalyzer returns an Analyzer with the fixed-column and section-scan
// strategies. ai may be nil.
func NewAnalyzer(reg staff.Registry, fixed *extract.FixedColumn, ai extract.Strategy) *Analyzer {
	if fixed == nil {
		fixed = extract.NewFixedColumn()
	}
	return &Analyzer{
		Registry:   reg,
		Strategies: []extract.Strategy{fixed, extract.NewSectionScan()},
		AI:         ai,
	}
}

// Analyze produces the AnalysisResult for one sheet. Only a missing sheet,
// a registry failure or the caller's cancellation abort the run; strategy
// failures degrade to empty partial results.
func (a *Analyzer) Analyze(ctx context.Context, eventID string, s *sheet.Sheet, useAI bool) (*model.AnalysisResult, error) {
	if s == nil {
		return nil, eris.New("ingest: nil sheet")
	}
	log := zap.L().With(zap.String("event_id", eventID))
	start := time.Now()

	var roster []model.Staff
	if a.Registry != nil {
		var err error
		roster, err = a.Registry.ActiveStaff(ctx)
		if err != nil {
			return nil, eris.Wrap(err, "ingest: load active staff")
		}
	}

	in := extract.Input{
		Sheet:    s,
		Sections: sheet.DetectSections(s),
		Matcher:  staff.NewMatcher(roster),
		Colors:   extract.NewColorAllocator(nil),
	}

	strategies := a.Strategies
	if useAI && a.AI != nil {
		strategies = append(append([]extract.Strategy{}, a.Strategies...), a.AI)
	}

	partials := make([]*extract.PartialResult, 0, len(strategies))
	for _, st := range strategies {
		p, err := st.Extract(ctx, in)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, eris.Wrap(ctxErr, "ingest: analyze")
		}
		if err != nil {
			log.Warn("ingest: strategy failed",
				zap.String("strategy", string(st.Source())),
				zap.Error(err),
			)
			continue
		}
		if p == nil {
			continue
		}
		in.Colors = p.Colors
		partials = append(partials, p)
		log.Debug("ingest: strategy complete",
			zap.String("strategy", string(st.Source())),
			zap.Int("groups", len(p.Groups)),
			zap.Bool("parsed", p.Parsed),
		)
	}

	res := Reconcile(eventID, partials...)
	log.Info("ingest: analysis complete",
		zap.Int("rows", len(s.Rows)),
		zap.Int("staff", len(roster)),
		zap.Int("groups", res.TotalGroups),
		zap.Int("assignments", res.TotalAssignments),
		zap.Int("unmatched", len(res.UnmatchedStaffNames)),
		zap.Bool("ai_parsed", res.AIParsed),
		zap.Duration("elapsed", time.Since(start)),
	)
	return res, nil
}
