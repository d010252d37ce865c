// Package ingest turns a spreadsheet into a reviewed roster: it runs the
// extraction strategies, reconciles their partial results into one
// AnalysisResult and, once a human confirms it, persists the result.
package ingest

import (
	"go.uber.org/zap"

	"github.com/sells-group/roster-cli/internal/extract"
	"github.com/sells-group/roster-cli/internal/model"
	"github.com/sells-group/roster-cli/internal/staff"
	"github.com/sells-group/roster-cli/internal/textnorm"
)

// Reconcile merges partial results into the final AnalysisResult.
//
// Person categories take AI entries first and append classic entries whose
// normalized name is not yet present. Table groups come from the first
// non-AI partial that produced any, in argument order, so the fixed-column
// strategy should be passed before section scan. Service points come only
// from non-AI partials. Nil partials are ignored.
func Reconcile(eventID string, partials ...*extract.PartialResult) *model.AnalysisResult {
	var (
		ai      *extract.PartialResult
		classic []*extract.PartialResult
	)
	for _, p := range partials {
		switch {
		case p == nil:
		case p.Source == extract.SourceAIAssisted:
			ai = p
		default:
			classic = append(classic, p)
		}
	}

	// AI first, then classic partials in order.
	ordered := classic
	if ai != nil {
		ordered = append([]*extract.PartialResult{ai}, classic...)
	}

	res := &model.AnalysisResult{
		EventID:             eventID,
		TableGroups:         []model.TableGroup{},
		ServicePoints:       []model.ServicePoint{},
		ExtraPersonnel:      []model.ExtraPersonnel{},
		SupportTeams:        []model.SupportTeam{},
		Captains:            []model.Captain{},
		Supervisors:         []model.Supervisor{},
		LocaCaptains:        []model.LocaCaptain{},
		UnmatchedStaffNames: []string{},
		Warnings:            []string{},
	}
	if ai != nil {
		res.AIParsed = ai.Parsed
	}

	res.Captains = mergeByName(ordered, func(p *extract.PartialResult) []model.Captain { return p.Captains })
	res.Supervisors = mergeByName(ordered, func(p *extract.PartialResult) []model.Supervisor { return p.Supervisors })
	res.LocaCaptains = mergeByName(ordered, func(p *extract.PartialResult) []model.LocaCaptain { return p.LocaCaptains })
	res.ExtraPersonnel = mergeByName(ordered, func(p *extract.PartialResult) []model.ExtraPersonnel { return p.ExtraPersonnel })
	res.SupportTeams = mergeTeams(ordered)

	for _, p := range classic {
		if len(p.Groups) > 0 {
			res.TableGroups = keepValidGroups(p.Groups)
			break
		}
	}
	res.ServicePoints = mergeServicePoints(classic)

	var warnings []string
	for _, p := range ordered {
		warnings = append(warnings, p.Warnings...)
	}
	for _, e := range res.Entries() {
		warnings = append(warnings, e.Common().Match.Warnings...)
	}
	res.Warnings = appendUnique(res.Warnings, warnings...)
	res.UnmatchedStaffNames = unmatchedNames(res)

	summarize(res)
	return res
}

type named interface {
	Common() model.Entry
}

// mergeByName concatenates one category across partials, keeping the first
// entry for each normalized staff name.
func mergeByName[T named](partials []*extract.PartialResult, pick func(*extract.PartialResult) []T) []T {
	out := []T{}
	seen := make(map[string]struct{})
	for _, p := range partials {
		for _, e := range pick(p) {
			key := staff.Normalize(e.Common().StaffName)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, e)
		}
	}
	return out
}

// mergeTeams merges support teams by folded team name. Members are
// de-duplicated by normalized name across all teams. Teams are recolored in
// final order.
func mergeTeams(partials []*extract.PartialResult) []model.SupportTeam {
	out := []model.SupportTeam{}
	index := make(map[string]int)
	seen := make(map[string]struct{})
	for _, p := range partials {
		for _, t := range p.SupportTeams {
			teamKey := textnorm.Fold(t.Name)
			for _, m := range t.Members {
				key := staff.Normalize(m.StaffName)
				if _, ok := seen[key]; ok {
					continue
				}
				seen[key] = struct{}{}

				i, ok := index[teamKey]
				if !ok {
					i = len(out)
					index[teamKey] = i
					out = append(out, model.SupportTeam{Name: t.Name})
				}
				out[i].Members = append(out[i].Members, m)
			}
		}
	}
	for i := range out {
		out[i].Color = extract.SupportTeamPalette[i%len(extract.SupportTeamPalette)]
	}
	return out
}

// mergeServicePoints joins service points with the same folded name.
func mergeServicePoints(partials []*extract.PartialResult) []model.ServicePoint {
	out := []model.ServicePoint{}
	index := make(map[string]int)
	seen := make(map[string]map[string]struct{})
	for _, p := range partials {
		for _, sp := range p.ServicePoints {
			key := textnorm.Fold(sp.Name)
			i, ok := index[key]
			if !ok {
				i = len(out)
				index[key] = i
				seen[key] = make(map[string]struct{})
				out = append(out, model.ServicePoint{Name: sp.Name, PointType: sp.PointType, Color: sp.Color})
			}
			for _, a := range sp.Assignments {
				name := staff.Normalize(a.StaffName)
				if _, dup := seen[key][name]; dup {
					continue
				}
				seen[key][name] = struct{}{}
				out[i].Assignments = append(out[i].Assignments, a)
			}
		}
	}
	return out
}

// keepValidGroups drops standard groups with fewer than
// extract.MinStandardTables distinct tables. Loca groups have no minimum.
func keepValidGroups(groups []model.TableGroup) []model.TableGroup {
	out := make([]model.TableGroup, 0, len(groups))
	for _, g := range groups {
		if g.GroupType != model.GroupLoca && g.DistinctTableCount() < extract.MinStandardTables {
			zap.L().Debug("ingest: dropping small table group",
				zap.String("group", g.Name),
				zap.Strings("tables", g.TableIDs),
			)
			continue
		}
		out = append(out, g)
	}
	return out
}

// unmatchedNames lists the raw names of group members, service-point staff,
// captains, supervisors and loca captains that matched no staff record.
func unmatchedNames(res *model.AnalysisResult) []string {
	out := []string{}
	seen := make(map[string]struct{})
	for _, e := range assignable(res.Entries()) {
		c := e.Common()
		if c.Match.Matched() {
			continue
		}
		key := staff.Normalize(c.StaffName)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c.StaffName)
	}
	return out
}

// assignable drops extras and support members, which are never persisted as
// assignments.
func assignable(entries []model.RosterEntry) []model.RosterEntry {
	out := make([]model.RosterEntry, 0, len(entries))
	for _, e := range entries {
		switch e.Category() {
		case model.CategoryExtraPersonnel, model.CategorySupportMember:
			continue
		}
		out = append(out, e)
	}
	return out
}

// summarize fills the counts. MatchedStaff counts matched entries, so a
// person listed in two places counts twice.
func summarize(res *model.AnalysisResult) {
	s := model.Summary{
		ServicePoints:  len(res.ServicePoints),
		ExtraPersonnel: len(res.ExtraPersonnel),
		Captains:       len(res.Captains),
		Supervisors:    len(res.Supervisors),
		LocaCaptains:   len(res.LocaCaptains),
		UnmatchedStaff: len(res.UnmatchedStaffNames),
	}
	for _, g := range res.TableGroups {
		if g.GroupType == model.GroupLoca {
			s.LocaGroups++
		} else {
			s.TableGroups++
		}
	}
	for _, t := range res.SupportTeams {
		s.SupportTeamMembers += len(t.Members)
	}

	entries := res.Entries()
	for _, e := range assignable(entries) {
		if e.Common().Match.Matched() {
			s.MatchedStaff++
		}
	}

	res.Summary = s
	res.TotalGroups = len(res.TableGroups)
	res.TotalAssignments = len(entries)
}

func appendUnique(dst []string, values ...string) []string {
	seen := make(map[string]struct{}, len(dst))
	for _, v := range dst {
		seen[v] = struct{}{}
	}
	for _, v := range values {
		if _, ok := seen[v]; ok || v == "" {
			continue
		}
		seen[v] = struct{}{}
		dst = append(dst, v)
	}
	return dst
}
