// Package extract holds the roster extraction strategies and the parsers
// they share. Every strategy reads the same normalized sheet and returns a
// PartialResult; merging is left to the ingest package.
package extract

import (
	"context"
	"fmt"

	"github.com/sells-group/roster-cli/internal/model"
	"github.com/sells-group/roster-cli/internal/sheet"
	"github.com/sells-group/roster-cli/internal/staff"
)

// Source names the strategy that produced a PartialResult.
type Source string

const (
	SourceFixedColumn Source = "fixed_column"
	SourceSectionScan Source = "section_scan"
	SourceAIAssisted  Source = "ai_assisted"
)

// Strategy extracts roster entries from a sheet.
type Strategy interface {
	Source() Source
	Extract(ctx context.Context, in Input) (*PartialResult, error)
}

// Input is the read-only data every strategy receives for one run.
type Input struct {
	Sheet    *sheet.Sheet
	Sections []sheet.Section
	Matcher  *staff.Matcher
	Colors   ColorAllocator
}

// PartialResult is one strategy's view of the roster. Colors is the
// allocator after this strategy created its groups.
type PartialResult struct {
	Source         Source
	Parsed         bool
	Groups         []model.TableGroup
	ServicePoints  []model.ServicePoint
	ExtraPersonnel []model.ExtraPersonnel
	SupportTeams   []model.SupportTeam
	Captains       []model.Captain
	Supervisors    []model.Supervisor
	LocaCaptains   []model.LocaCaptain
	Warnings       []string
	Colors         ColorAllocator
}

// Empty reports whether no category has any entry.
func (p *PartialResult) Empty() bool {
	return len(p.Groups) == 0 && len(p.ServicePoints) == 0 && len(p.ExtraPersonnel) == 0 &&
		len(p.SupportTeams) == 0 && len(p.Captains) == 0 && len(p.Supervisors) == 0 &&
		len(p.LocaCaptains) == 0
}

func entry(m *staff.Matcher, name string, sh Shift) model.Entry {
	e := model.Entry{StaffName: name, ShiftStart: sh.Start, ShiftEnd: sh.End}
	if m != nil {
		e.Match = m.Match(name)
	}
	return e
}

// groupBuilder merges table assignments into groups keyed by table set.
type groupBuilder struct {
	matcher *staff.Matcher
	colors  ColorAllocator
	index   map[string]int
	groups  []model.TableGroup
}

func newGroupBuilder(m *staff.Matcher, colors ColorAllocator) *groupBuilder {
	return &groupBuilder{matcher: m, colors: colors, index: make(map[string]int)}
}

// add assigns name to the group covering tables, creating the group when the
// table set is new. Loca rows without table numbers are keyed by their box
// numbers instead.
func (b *groupBuilder) add(name, position string, tables, locaNumbers []string, sh Shift, isLoca bool) model.TableAssignment {
	ids := tables
	if isLoca && len(ids) == 0 {
		ids = make([]string, len(locaNumbers))
		for i, n := range locaNumbers {
			ids[i] = "LOCA-" + n
		}
	}

	key := TableKey(ids)
	if isLoca {
		key = "loca:" + key
	}

	i, ok := b.index[key]
	if !ok {
		var color string
		color, b.colors = b.colors.Next()
		g := model.TableGroup{
			Name:      fmt.Sprintf("GRUP %d", len(b.groups)+1),
			Color:     color,
			GroupType: model.GroupStandard,
		}
		if isLoca {
			g.Name = fmt.Sprintf("LOCA %d", len(b.groups)+1)
			g.GroupType = model.GroupLoca
		}
		b.groups = append(b.groups, g)
		i = len(b.groups) - 1
		b.index[key] = i
	}

	g := &b.groups[i]
	for _, id := range ids {
		if !containsString(g.TableIDs, id) {
			g.TableIDs = append(g.TableIDs, id)
		}
	}

	a := model.TableAssignment{
		Entry:          entry(b.matcher, name, sh),
		TableIDs:       ids,
		GroupName:      g.Name,
		GroupColor:     g.Color,
		AssignmentType: model.AssignmentTable,
		Position:       position,
	}
	if isLoca {
		a.AssignmentType = model.AssignmentLoca
	}
	g.Assignments = append(g.Assignments, a)
	return a
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
