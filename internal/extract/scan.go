package extract

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/sells-group/roster-cli/internal/model"
	"github.com/sells-group/roster-cli/internal/sheet"
	"github.com/sells-group/roster-cli/internal/textnorm"
)

// DefaultSupportTeamName is used when a support block has no readable title.
const DefaultSupportTeamName = "CRYSTAL DESTEK EKİBİ"

// servicePointTitleWords extend the classifier keywords with the lounge and
// VIP titles that only appear as block headers.
var servicePointTitleWords = []string{"BAR", "DEPO", "FUAYE", "CASINO", "LOUNGE", "VIP"}

var locaNumberedRe = regexp.MustCompile(`LOCA\s*\d`)

type scanState int

const (
	stateNone scanState = iota
	stateSupport
	stateExtra
	stateTable
	stateLoca
	stateServicePoint
)

// SectionScan walks the sheet top to bottom, switching state on block titles
// and parsing each data row according to the active block.
type SectionScan struct{}

// NewSectionScan returns a SectionScan.
func NewSectionScan() *SectionScan { return &SectionScan{} }

// Source implements Strategy.
func (SectionScan) Source() Source { return SourceSectionScan }

// Extract implements Strategy.
func (SectionScan) Extract(ctx context.Context, in Input) (*PartialResult, error) {
	sc := &scanner{
		in:         in,
		groups:     newGroupBuilder(in.Matcher, in.Colors),
		pointIndex: make(map[string]int),
		teamIndex:  make(map[string]int),
		point:      -1,
		team:       -1,
		out:        &PartialResult{Source: SourceSectionScan},
	}
	if in.Sheet != nil {
		for _, r := range in.Sheet.Rows {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			sc.row(r)
		}
	}

	out := sc.out
	out.Groups = sc.groups.groups
	out.Colors = sc.groups.colors
	out.ServicePoints = sc.points
	out.SupportTeams = sc.teams
	return out, nil
}

type scanner struct {
	in     Input
	state  scanState
	groups *groupBuilder

	points     []model.ServicePoint
	pointIndex map[string]int
	point      int

	teams     []model.SupportTeam
	teamIndex map[string]int
	team      int

	out *PartialResult
}

func (sc *scanner) enter(s scanState) {
	sc.state = s
	if s != stateServicePoint {
		sc.point = -1
	}
	if s != stateSupport {
		sc.team = -1
	}
}

func (sc *scanner) row(r sheet.Row) {
	text := r.Folded()

	switch {
	case sc.state != stateSupport && textnorm.ContainsAll(text, "DESTEK", "EKİBİ"):
		sc.openSupportTeam(r)
		return
	case sc.state != stateExtra && textnorm.ContainsAll(text, "EXTRA", "PERSONEL") &&
		textnorm.ContainsAny(text, "POSTA", "SAAT"):
		sc.enter(stateExtra)
		return
	case isTableHeader(text):
		sc.enter(stateTable)
		return
	case isLocaTitle(r):
		sc.enter(stateLoca)
		return
	}

	if strings.Contains(text, "GENEL ALAN") || textnorm.ContainsAll(text, "KONTROL", "BACK") {
		return
	}

	// Runs before the per-state parsers, so a support row whose assignment is
	// BAR and carries no time opens a service point instead.
	if title, ok := servicePointTitle(r); ok {
		sc.openServicePoint(title)
		return
	}

	switch sc.state {
	case stateSupport:
		sc.supportRow(r)
	case stateExtra:
		if ex, ok := parseExtraRow(r, sc.in); ok && !ex.IsBackground {
			sc.out.ExtraPersonnel = append(sc.out.ExtraPersonnel, ex)
		}
	case stateTable:
		sc.tableRow(r)
	case stateServicePoint:
		sc.servicePointRow(r)
	case stateLoca:
		if lc, ok := parseLocaCaptain(r, sc.in); ok {
			sc.out.LocaCaptains = append(sc.out.LocaCaptains, lc)
		}
	case stateNone:
		switch {
		case isCaptainRow(r):
			if c, ok := parseCaptain(r, sc.in); ok {
				sc.out.Captains = append(sc.out.Captains, c)
			}
		case isSupervisorRow(r):
			if s, ok := parseSupervisor(r, sc.in); ok {
				sc.out.Supervisors = append(sc.out.Supervisors, s)
			}
		}
	}
}

func isTableHeader(folded string) bool {
	return textnorm.ContainsAll(folded, "POSTA", "SAAT") &&
		textnorm.ContainsAny(folded, "PERSONEL", "POZİSYON") &&
		!textnorm.ContainsAny(folded, "EXTRA", "DESTEK", "EKİBİ")
}

// isLocaTitle matches the short "LOCA" banner that opens the loca captain
// block. Numbered boxes ("LOCA 3") and column headers never qualify.
func isLocaTitle(r sheet.Row) bool {
	if textnorm.ContainsAny(r.Folded(), sheet.HeaderKeywords...) || r.Filled() > 3 {
		return false
	}
	for _, c := range r.Cells {
		v := textnorm.Fold(c.Value)
		if v == "LOCA" {
			return true
		}
		if strings.HasPrefix(v, "LOCA") && utf8.RuneCountInString(v) <= 6 && !locaNumberedRe.MatchString(v) {
			return true
		}
	}
	return false
}

// servicePointTitle returns the title cell when the row opens a service
// point block: a cell holding a venue keyword as a whole word, on a row with
// at most 2 filled cells or with no time-of-day token.
func servicePointTitle(r sheet.Row) (string, bool) {
	if r.Filled() > 2 && r.HasTime() {
		return "", false
	}
	for _, c := range r.Cells {
		if hasServicePointWord(c.Value) {
			return strings.TrimSpace(c.Value), true
		}
	}
	return "", false
}

func hasServicePointWord(v string) bool {
	folded := textnorm.Fold(v)
	for _, w := range servicePointTitleWords {
		if textnorm.ContainsWord(folded, w) {
			return true
		}
	}
	return false
}

// ServicePointType classifies a service point by its title.
func ServicePointType(name string) model.PointType {
	folded := textnorm.Fold(name)
	switch {
	case textnorm.ContainsWord(folded, "DEPO"):
		return model.PointDepo
	case textnorm.ContainsWord(folded, "CASINO"):
		return model.PointCasino
	case textnorm.ContainsWord(folded, "FUAYE"), textnorm.ContainsWord(folded, "LOUNGE"):
		return model.PointFuaye
	case textnorm.ContainsWord(folded, "BAR"):
		return model.PointBar
	default:
		return model.PointOther
	}
}

func (sc *scanner) openServicePoint(name string) {
	sc.enter(stateServicePoint)
	if i, ok := sc.pointIndex[name]; ok {
		sc.point = i
		return
	}
	t := ServicePointType(name)
	sc.points = append(sc.points, model.ServicePoint{Name: name, PointType: t, Color: servicePointColor(t)})
	sc.point = len(sc.points) - 1
	sc.pointIndex[name] = sc.point
}

func (sc *scanner) servicePointRow(r sheet.Row) {
	if sc.point < 0 || len(r.Cells) == 0 {
		return
	}
	name := r.Cells[0].Value
	if hasServicePointWord(name) || !LooksLikeName(name) {
		return
	}
	var shiftRaw string
	for _, c := range r.Cells[1:] {
		if isTimeOfDay(c.Value) {
			shiftRaw = c.Value
			break
		}
	}
	p := &sc.points[sc.point]
	p.Assignments = append(p.Assignments, model.ServicePointAssignment{
		Entry:            entry(sc.in.Matcher, name, ParseShift(shiftRaw)),
		ServicePointName: p.Name,
		PointType:        p.PointType,
	})
}

func (sc *scanner) openSupportTeam(r sheet.Row) {
	sc.enter(stateSupport)
	name := DefaultSupportTeamName
	for _, c := range r.Cells {
		if textnorm.ContainsAll(textnorm.Fold(c.Value), "DESTEK", "EKİBİ") {
			name = strings.TrimSpace(c.Value)
			break
		}
	}
	if i, ok := sc.teamIndex[name]; ok {
		sc.team = i
		return
	}
	sc.teams = append(sc.teams, model.SupportTeam{Name: name, Color: supportTeamColor(len(sc.teams))})
	sc.team = len(sc.teams) - 1
	sc.teamIndex[name] = sc.team
}

func (sc *scanner) supportRow(r sheet.Row) {
	if sc.team < 0 {
		return
	}
	t := &sc.teams[sc.team]
	m, ok := parseSupportMember(r, sc.in, t.Name)
	if !ok {
		return
	}
	if m.IsNotComing {
		zap.L().Debug("extract: skipping support member marked not coming", zap.String("name", m.StaffName))
		return
	}
	t.Members = append(t.Members, m)
}

func (sc *scanner) tableRow(r sheet.Row) {
	if r.Filled() < 2 {
		return
	}
	var name, position, tableRaw, shiftRaw string
	for _, c := range r.Cells {
		v := c.Value
		folded := textnorm.Fold(v)
		switch {
		case position == "" && isTablePosition(folded):
			position = strings.ToUpper(v)
		case folded == "POZISYON" || folded == "POSTA" || folded == "SAAT":
		case tableRaw == "" && isTableList(v):
			tableRaw = v
		case shiftRaw == "" && (isTimeOfDay(v) || folded == "K"):
			shiftRaw = v
		case name == "" && LooksLikeName(v):
			name = v
		}
	}
	if name == "" {
		return
	}
	ids := ParseTableIDs(tableRaw)
	if len(ids) == 0 {
		return
	}
	isLoca := hasLoca(name, position)
	if !isLoca && len(ids) < MinStandardTables {
		zap.L().Debug("extract: too few tables for a standard group",
			zap.String("name", name), zap.Strings("tables", ids))
		return
	}
	sc.groups.add(name, position, ids, nil, ParseShift(shiftRaw), isLoca)
}

func isTablePosition(folded string) bool {
	switch folded {
	case "PERSONEL", "CAPTAIN", "SPVR", "J. CAPTAIN":
		return true
	}
	return strings.Contains(folded, "J.CAPTAIN")
}

func parseSupportMember(r sheet.Row, in Input, team string) (model.SupportTeamMember, bool) {
	var name, position, assignment, shiftRaw string
	for _, c := range r.Range(0, 9) {
		v := c.Value
		folded := textnorm.Fold(v)
		switch {
		case folded == "POZISYON" || folded == "POSTA" || folded == "SAAT" ||
			strings.Contains(folded, "DESTEK") || strings.Contains(folded, "EKIBI"):
			return model.SupportTeamMember{}, false
		case position == "" && (folded == "SPVR" || folded == "CAPTAIN" || folded == "PERSONEL"):
			position = folded
		case strings.Contains(folded, "GELMEYECEK"):
			if name != "" {
				return model.SupportTeamMember{
					Entry:          entry(in.Matcher, name, ParseShift("")),
					TeamName:       team,
					Position:       positionOr(position),
					AssignmentText: "GELMEYECEK",
					TableIDs:       []string{},
					IsNotComing:    true,
				}, true
			}
		case name == "" && isPlainName(v):
			name = v
		case name != "" && assignment == "" && (strings.Contains(folded, "POSTA") || isDashedDigits(v) ||
			textnorm.ContainsAny(folded, "BAR", "GENEL", "KONTROL")):
			assignment = v
		case name != "" && shiftRaw == "" && isTimeOfDay(v):
			shiftRaw = v
		}
	}
	if name == "" {
		return model.SupportTeamMember{}, false
	}
	m := model.SupportTeamMember{
		Entry:          entry(in.Matcher, name, ParseShift(shiftRaw)),
		TeamName:       team,
		Position:       positionOr(position),
		AssignmentText: assignment,
		TableIDs:       ParseTableIDs(assignment),
	}
	if m.AssignmentText == "" {
		m.AssignmentText = "-"
	}
	return m, true
}

func positionOr(p string) string {
	if p == "" {
		return "PERSONEL"
	}
	return p
}

func parseExtraRow(r sheet.Row, in Input) (model.ExtraPersonnel, bool) {
	var name, tableRaw, shiftRaw string
	for _, c := range r.Range(0, 9) {
		v := c.Value
		switch {
		case name == "" && isPlainName(v) && strings.Contains(v, " "):
			if textnorm.ContainsAny(textnorm.Fold(v), "EXTRA", "PERSONEL", "POSTA", "SAAT") {
				return model.ExtraPersonnel{}, false
			}
			name = v
		case name != "" && tableRaw == "" && isDashedDigits(v):
			tableRaw = v
		case name != "" && IsBackground(v):
			return model.ExtraPersonnel{
				Entry:        model.Entry{StaffName: name, ShiftStart: DefaultShiftStart, ShiftEnd: DefaultShiftEnd},
				TableIDs:     []string{},
				IsBackground: true,
			}, true
		case name != "" && shiftRaw == "" && isTimeOfDay(v):
			shiftRaw = v
		}
	}
	if name == "" {
		return model.ExtraPersonnel{}, false
	}
	return model.ExtraPersonnel{
		Entry:        entry(in.Matcher, name, ParseShift(shiftRaw)),
		TableIDs:     ParseTableIDs(tableRaw),
		IsBackground: IsBackground(name),
	}, true
}

// isCaptainRow reports whether columns 6-9 carry a captain rank. Ranks in
// the left half of the sheet belong to other blocks.
func isCaptainRow(r sheet.Row) bool {
	for _, c := range r.Range(6, 9) {
		if _, ok := captainRank(textnorm.Fold(c.Value)); ok {
			return true
		}
	}
	return false
}

func captainRank(folded string) (model.CaptainRank, bool) {
	switch {
	case folded == "J. CAPTAIN" || strings.Contains(folded, "J.CAPTAIN"):
		return model.RankJCaptain, true
	case folded == "INCHARGE":
		return model.RankIncharge, true
	case folded == "CAPTAIN":
		return model.RankCaptain, true
	}
	return "", false
}

func parseCaptain(r sheet.Row, in Input) (model.Captain, bool) {
	rank := model.RankCaptain
	var name, area, shiftRaw string
	for _, c := range r.Range(6, 9) {
		v := c.Value
		folded := textnorm.Fold(v)
		if rk, ok := captainRank(folded); ok {
			rank = rk
			continue
		}
		switch {
		case strings.Contains(folded, "SALON"):
			area = "SALON"
		case strings.Contains(folded, "LOCA"):
			area = "LOCA"
		case name == "" && isDottedName(v):
			name = v
		case name != "" && shiftRaw == "" && isTimeOfDay(v):
			shiftRaw = v
		}
	}
	if name == "" {
		return model.Captain{}, false
	}
	return model.Captain{Entry: entry(in.Matcher, name, ParseShift(shiftRaw)), Rank: rank, Area: area}, true
}

// isSupervisorRow reports whether columns 0-5 hold an exact SPVR cell.
func isSupervisorRow(r sheet.Row) bool {
	for _, c := range r.Range(0, 5) {
		if textnorm.Fold(c.Value) == "SPVR" {
			return true
		}
	}
	return false
}

func parseSupervisor(r sheet.Row, in Input) (model.Supervisor, bool) {
	var name, area, shiftRaw string
	for _, c := range r.Range(0, 9) {
		v := c.Value
		folded := textnorm.Fold(v)
		switch {
		case folded == "SPVR":
		case strings.Contains(folded, "LOCA"):
			// "16:00--K (LOCA)" carries the shift in the same cell.
			area = "LOCA"
			if shiftRaw == "" && isTimeOfDay(v) {
				shiftRaw = v
			}
		case strings.Contains(folded, "SALON"):
			area = "SALON"
		case name == "" && isPlainName(v):
			name = v
		case name != "" && shiftRaw == "" && isTimeOfDay(v):
			shiftRaw = v
		}
	}
	if name == "" {
		return model.Supervisor{}, false
	}
	return model.Supervisor{Entry: entry(in.Matcher, name, ParseShift(shiftRaw)), Area: area}, true
}

func parseLocaCaptain(r sheet.Row, in Input) (model.LocaCaptain, bool) {
	var name, area, shiftRaw string
	for _, c := range r.Range(0, 9) {
		v := c.Value
		folded := textnorm.Fold(v)
		switch {
		case folded == "LOCA":
		case strings.Contains(folded, "SALON"):
			area = "SALON"
			if shiftRaw == "" && isTimeOfDay(v) {
				shiftRaw = v
			}
		case name == "" && isPlainName(v):
			name = v
		case name != "" && shiftRaw == "" && isTimeOfDay(v):
			shiftRaw = v
		}
	}
	if name == "" {
		return model.LocaCaptain{}, false
	}
	return model.LocaCaptain{Entry: entry(in.Matcher, name, ParseShift(shiftRaw)), Area: area}, true
}
