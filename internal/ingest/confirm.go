package ingest

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/roster-cli/internal/model"
)

// RosterWriter is the persistence surface Confirm needs.
type RosterWriter interface {
	DeleteEventRoster(ctx context.Context, eventID string) error
	CreateTableGroup(ctx context.Context, g model.TableGroupRecord) (*model.TableGroupRecord, error)
	CreateAssignment(ctx context.Context, a model.AssignmentRecord) (*model.AssignmentRecord, error)
}

// ConfirmOptions controls Confirm.
type ConfirmOptions struct {
	// ClearExisting deletes the event's groups and assignments first.
	ClearExisting bool `json:"clear_existing"`
}

// ConfirmFailure records one entry that could not be persisted.
type ConfirmFailure struct {
	Kind  string `json:"kind"`
	Name  string `json:"name"`
	Error string `json:"error"`
}

// ConfirmReport summarizes a Confirm call.
type ConfirmReport struct {
	SavedGroups      int              `json:"saved_groups"`
	SavedAssignments int              `json:"saved_assignments"`
	Skipped          int              `json:"skipped"`
	Failures         []ConfirmFailure `json:"failures"`
}

// Confirm persists a reviewed AnalysisResult for eventID. Every table group
// becomes one persisted group and every matched entry of a group, service
// point, captain, supervisor or loca captain becomes one assignment.
// Unmatched entries are skipped. A failing entry is recorded in the report
// and the batch continues; only the optional clear step aborts the call.
func Confirm(ctx context.Context, w RosterWriter, eventID string, res *model.AnalysisResult, opts ConfirmOptions) (*ConfirmReport, error) {
	if res == nil {
		return nil, eris.New("ingest: nil analysis result")
	}
	if eventID == "" {
		return nil, eris.New("ingest: event id is required")
	}
	log := zap.L().With(zap.String("event_id", eventID))

	if opts.ClearExisting {
		if err := w.DeleteEventRoster(ctx, eventID); err != nil {
			return nil, eris.Wrapf(err, "ingest: clear roster for event %s", eventID)
		}
		log.Info("ingest: cleared existing roster")
	}

	c := &confirmer{ctx: ctx, w: w, eventID: eventID, report: &ConfirmReport{Failures: []ConfirmFailure{}}}

	for i, g := range res.TableGroups {
		if err := ctx.Err(); err != nil {
			return c.report, eris.Wrap(err, "ingest: confirm")
		}
		rec, err := w.CreateTableGroup(ctx, model.TableGroupRecord{
			EventID:   eventID,
			Name:      g.Name,
			Color:     g.Color,
			TableIDs:  g.TableIDs,
			GroupType: g.GroupType,
			SortOrder: i,
		})
		if err != nil {
			c.fail("group", g.Name, err)
			c.report.Skipped += len(g.Assignments)
			continue
		}
		c.report.SavedGroups++

		for _, a := range g.Assignments {
			typ := a.AssignmentType
			if typ == "" {
				typ = model.AssignmentTable
			}
			c.save(string(typ), a.Entry, model.AssignmentRecord{
				GroupID:        rec.ID,
				AssignmentType: typ,
				TableIDs:       g.TableIDs,
				Color:          g.Color,
			})
		}
	}

	for _, sp := range res.ServicePoints {
		for _, a := range sp.Assignments {
			c.save(string(model.AssignmentServicePoint), a.Entry, model.AssignmentRecord{
				AssignmentType: model.AssignmentServicePoint,
				Color:          sp.Color,
			})
		}
	}
	for _, cp := range res.Captains {
		c.save(string(model.AssignmentCaptain), cp.Entry, model.AssignmentRecord{AssignmentType: model.AssignmentCaptain})
	}
	for _, s := range res.Supervisors {
		c.save(string(model.AssignmentSupervisor), s.Entry, model.AssignmentRecord{AssignmentType: model.AssignmentSupervisor})
	}
	for _, l := range res.LocaCaptains {
		c.save(string(model.AssignmentLocaCaptain), l.Entry, model.AssignmentRecord{AssignmentType: model.AssignmentLocaCaptain})
	}

	log.Info("ingest: roster confirmed",
		zap.Int("saved_groups", c.report.SavedGroups),
		zap.Int("saved_assignments", c.report.SavedAssignments),
		zap.Int("skipped", c.report.Skipped),
		zap.Int("failures", len(c.report.Failures)),
	)
	return c.report, nil
}

type confirmer struct {
	ctx     context.Context
	w       RosterWriter
	eventID string
	report  *ConfirmReport
}

func (c *confirmer) save(kind string, e model.Entry, rec model.AssignmentRecord) {
	if !e.Match.Matched() {
		c.report.Skipped++
		return
	}
	rec.EventID = c.eventID
	rec.StaffID = e.Match.StaffID
	rec.ShiftStart = e.ShiftStart
	rec.ShiftEnd = e.ShiftEnd
	rec.Notes = shiftNote(e)
	if _, err := c.w.CreateAssignment(c.ctx, rec); err != nil {
		c.fail(kind, e.StaffName, err)
		return
	}
	c.report.SavedAssignments++
}

func (c *confirmer) fail(kind, name string, err error) {
	zap.L().Warn("ingest: persist entry failed",
		zap.String("event_id", c.eventID),
		zap.String("kind", kind),
		zap.String("name", name),
		zap.Error(err),
	)
	c.report.Failures = append(c.report.Failures, ConfirmFailure{Kind: kind, Name: name, Error: err.Error()})
}

func shiftNote(e model.Entry) string {
	if e.ShiftStart == "" && e.ShiftEnd == "" {
		return ""
	}
	return fmt.Sprintf("Vardiya: %s - %s", e.ShiftStart, e.ShiftEnd)
}
