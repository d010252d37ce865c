// Package staff matches free-text names from roster sheets against the
// canonical staff registry.
package staff

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/sells-group/roster-cli/internal/model"
	"github.com/sells-group/roster-cli/internal/textnorm"
)

const (
	// MinConfidence is the lowest word-overlap score accepted as a match.
	MinConfidence = 60
	// WarnConfidence is the score below which an accepted match is flagged.
	WarnConfidence = 90
)

// Normalize is the name form used for exact matching and de-duplication.
func Normalize(name string) string {
	return textnorm.Normalize(name)
}

type candidate struct {
	staff model.Staff
	words []string
}

// Matcher resolves names against a fixed roster. It is built once per
// ingestion run and is safe for concurrent reads.
type Matcher struct {
	exact      map[string]model.Staff
	candidates []candidate
}

// NewMatcher indexes roster by normalized full name. When two records share
// a normalized name the first one wins.
func NewMatcher(roster []model.Staff) *Matcher {
	m := &Matcher{
		exact:      make(map[string]model.Staff, len(roster)),
		candidates: make([]candidate, 0, len(roster)),
	}
	for _, s := range roster {
		key := Normalize(s.FullName)
		if key == "" {
			continue
		}
		if _, ok := m.exact[key]; !ok {
			m.exact[key] = s
		}
		m.candidates = append(m.candidates, candidate{staff: s, words: significantWords(key)})
	}
	return m
}

// Len returns the number of indexed staff records.
func (m *Matcher) Len() int {
	return len(m.candidates)
}

// Match finds the registry record for raw. An exact normalized match scores
// 100; otherwise the best word-overlap candidate scoring at least
// MinConfidence is returned, earliest candidate first on ties.
func (m *Matcher) Match(raw string) model.StaffMatch {
	key := Normalize(raw)
	if s, ok := m.exact[key]; ok && key != "" {
		return model.StaffMatch{StaffID: s.ID, FullName: s.FullName, Confidence: 100}
	}

	words := significantWords(key)
	var (
		best      *candidate
		bestScore int
	)
	for i := range m.candidates {
		c := &m.candidates[i]
		score := overlapScore(words, c.words)
		if score > bestScore && score >= MinConfidence {
			best, bestScore = c, score
		}
	}

	if best == nil {
		return model.StaffMatch{
			Warnings: []string{fmt.Sprintf(`"%s": no match found`, raw)},
		}
	}

	match := model.StaffMatch{StaffID: best.staff.ID, FullName: best.staff.FullName, Confidence: bestScore}
	if bestScore < WarnConfidence {
		match.Warnings = []string{fmt.Sprintf(`"%s" → "%s" (%d%%)`, raw, best.staff.FullName, bestScore)}
	}
	return match
}

// overlapScore is round(100 * matched / max(len(a), len(b))), where a word of
// a matches when some word of b equals it or one contains the other.
func overlapScore(a, b []string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	matched := 0
	for _, w1 := range a {
		for _, w2 := range b {
			if w1 == w2 || strings.Contains(w1, w2) || strings.Contains(w2, w1) {
				matched++
				break
			}
		}
	}
	return int(math.Round(100 * float64(matched) / float64(max(len(a), len(b)))))
}

func significantWords(normalized string) []string {
	var out []string
	for _, w := range strings.Fields(normalized) {
		if utf8.RuneCountInString(w) > 1 {
			out = append(out, w)
		}
	}
	return out
}
