package sheet

import (
	"strings"

	"github.com/sells-group/roster-cli/internal/textnorm"
)

// SectionType is the kind of roster block a row belongs to.
type SectionType string

const (
	SectionHeader          SectionType = "header"
	SectionCaptain         SectionType = "captain"
	SectionSupervisor      SectionType = "supervisor"
	SectionLocaCaptain     SectionType = "loca_captain"
	SectionTableAssignment SectionType = "table_assignment"
	SectionExtraPersonnel  SectionType = "extra_personnel"
	SectionSupportTeam     SectionType = "support_team"
	SectionServicePoint    SectionType = "service_point"
	SectionUnknown         SectionType = "unknown"
)

// Keyword sets shared by the classifier and the extraction strategies.
var (
	CaptainKeywords      = []string{"CAPTAIN", "J. CAPTAIN", "INCHARGE"}
	SupervisorKeywords   = []string{"SPVR", "SUPERVISOR"}
	ServicePointKeywords = []string{"BAR", "DEPO", "FUAYE", "CASINO"}
	HeaderKeywords       = []string{"POZİSYON", "POSTA", "SAAT"}
)

// Classify tags a row with a section type using keyword priority. Rows that
// match nothing are table assignments.
func Classify(r Row) SectionType {
	text := r.Folded()
	switch {
	case textnorm.ContainsAny(text, CaptainKeywords...):
		return SectionCaptain
	case textnorm.ContainsAny(text, SupervisorKeywords...):
		return SectionSupervisor
	case HasLocaMarker(text):
		return SectionLocaCaptain
	case textnorm.ContainsAll(text, "EXTRA", "PERSONEL"):
		return SectionExtraPersonnel
	case textnorm.ContainsAll(text, "DESTEK", "EKİBİ"):
		return SectionSupportTeam
	case containsAnyWord(text, ServicePointKeywords):
		return SectionServicePoint
	case textnorm.ContainsAny(text, HeaderKeywords...):
		return SectionHeader
	default:
		return SectionTableAssignment
	}
}

// IsSectionHeader reports whether a row classified as t opens a new block.
// Only block titles qualify; data rows carrying the same keywords do not.
func IsSectionHeader(r Row, t SectionType) bool {
	text := r.Folded()
	switch t {
	case SectionExtraPersonnel:
		return textnorm.ContainsAll(text, "EXTRA", "PERSONEL")
	case SectionSupportTeam:
		return textnorm.ContainsAll(text, "DESTEK", "EKİBİ")
	case SectionServicePoint:
		return r.Filled() <= 3 && containsAnyWord(text, ServicePointKeywords)
	case SectionLocaCaptain:
		return strings.TrimSpace(text) == "LOCA" || (strings.Contains(text, "LOCA") && r.Filled() <= 2)
	default:
		return false
	}
}

// HasLocaMarker reports whether folded text contains "LOCA" that is not
// immediately followed by a number ("LOCA" and "LOCA KAPTANI" match,
// "LOCA 12" does not).
func HasLocaMarker(folded string) bool {
	for i := 0; i < len(folded); {
		j := strings.Index(folded[i:], "LOCA")
		if j < 0 {
			return false
		}
		rest := strings.TrimLeft(folded[i+j+4:], " \t")
		if rest == "" || rest[0] < '0' || rest[0] > '9' {
			return true
		}
		i += j + 4
	}
	return false
}

func containsAnyWord(folded string, keywords []string) bool {
	for _, k := range keywords {
		if textnorm.ContainsWord(folded, k) {
			return true
		}
	}
	return false
}

// Section is a contiguous block of rows sharing a section type.
type Section struct {
	Type  SectionType `json:"type"`
	Title string      `json:"title,omitempty"`
	Start int         `json:"start"`
	End   int         `json:"end"`
	Rows  []Row       `json:"rows"`
}

// DetectSections classifies every row and splits the sheet into blocks.
// A block lasts until the next section header; rows before the first header
// form an untitled table-assignment block. The sheet itself is not modified;
// the returned rows carry their Section tag.
func DetectSections(s *Sheet) []Section {
	if s.Empty() {
		return nil
	}
	var (
		sections []Section
		current  *Section
	)
	for i := range s.Rows {
		r := s.Rows[i]
		r.Section = Classify(r)

		switch {
		case IsSectionHeader(r, r.Section):
			if current != nil {
				sections = append(sections, *current)
			}
			current = &Section{Type: r.Section, Title: r.Text, Start: r.Index, End: r.Index, Rows: []Row{r}}
		case current != nil:
			current.Rows = append(current.Rows, r)
			current.End = r.Index
		default:
			current = &Section{Type: SectionTableAssignment, Start: r.Index, End: r.Index, Rows: []Row{r}}
		}
	}
	if current != nil {
		sections = append(sections, *current)
	}
	return sections
}
