package model

// AnalysisResult is the reconciled outcome of one ingestion run, returned to
// the caller for review before anything is persisted.
type AnalysisResult struct {
	EventID             string           `json:"event_id"`
	TableGroups         []TableGroup     `json:"table_groups"`
	ServicePoints       []ServicePoint   `json:"service_points"`
	ExtraPersonnel      []ExtraPersonnel `json:"extra_personnel"`
	SupportTeams        []SupportTeam    `json:"support_teams"`
	Captains            []Captain        `json:"captains"`
	Supervisors         []Supervisor     `json:"supervisors"`
	LocaCaptains        []LocaCaptain    `json:"loca_captains"`
	UnmatchedStaffNames []string         `json:"unmatched_staff_names"`
	Warnings            []string         `json:"warnings"`
	AIParsed            bool             `json:"ai_parsed"`
	TotalGroups         int              `json:"total_groups"`
	TotalAssignments    int              `json:"total_assignments"`
	Summary             Summary          `json:"summary"`
}

// Summary holds per-category counts for display.
type Summary struct {
	TableGroups        int `json:"table_groups"`
	LocaGroups         int `json:"loca_groups"`
	ServicePoints      int `json:"service_points"`
	ExtraPersonnel     int `json:"extra_personnel"`
	SupportTeamMembers int `json:"support_team_members"`
	Captains           int `json:"captains"`
	Supervisors        int `json:"supervisors"`
	LocaCaptains       int `json:"loca_captains"`
	MatchedStaff       int `json:"matched_staff"`
	UnmatchedStaff     int `json:"unmatched_staff"`
}

// Entries returns every roster entry in the result in a stable order:
// group members, service-point staff, captains, supervisors, loca captains,
// extra personnel, then support team members.
func (r *AnalysisResult) Entries() []RosterEntry {
	var out []RosterEntry
	for _, g := range r.TableGroups {
		for _, a := range g.Assignments {
			out = append(out, a)
		}
	}
	for _, sp := range r.ServicePoints {
		for _, a := range sp.Assignments {
			out = append(out, a)
		}
	}
	for _, c := range r.Captains {
		out = append(out, c)
	}
	for _, s := range r.Supervisors {
		out = append(out, s)
	}
	for _, l := range r.LocaCaptains {
		out = append(out, l)
	}
	for _, e := range r.ExtraPersonnel {
		out = append(out, e)
	}
	for _, t := range r.SupportTeams {
		for _, m := range t.Members {
			out = append(out, m)
		}
	}
	return out
}
