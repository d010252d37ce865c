package extract

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	tableSplitRe  = regexp.MustCompile(`[-–,\s]+`)
	tableTokenRe  = regexp.MustCompile(`^\d+$`)
	tableListRe   = regexp.MustCompile(`^\d+(-\d+)*$`)
	dashedDigitRe = regexp.MustCompile(`^\d+[-\d]*$`)
)

// MinStandardTables is the smallest table set a non-loca group may cover.
const MinStandardTables = 3

// ParseTableIDs splits a dash, comma or space separated list and keeps the
// numeric tokens: "34-35-48-49" -> [34 35 48 49]. Numbers written after a
// LOCA marker are box numbers, not tables: "LOCA-1" -> [].
func ParseTableIDs(raw string) []string {
	ids, _ := splitTableTokens(raw)
	return ids
}

// ParseLocaNumbers returns the box numbers that follow a LOCA marker:
// "LOCA 3-4" -> [3 4].
func ParseLocaNumbers(raw string) []string {
	_, loca := splitTableTokens(raw)
	return loca
}

func splitTableTokens(raw string) (tables, loca []string) {
	tables = []string{}
	inLoca := false
	for _, tok := range tableSplitRe.Split(strings.TrimSpace(raw), -1) {
		switch {
		case tok == "":
		case tableTokenRe.MatchString(tok) && inLoca:
			loca = append(loca, tok)
		case tableTokenRe.MatchString(tok):
			tables = append(tables, tok)
		default:
			inLoca = strings.EqualFold(tok, "LOCA")
		}
	}
	return tables, loca
}

// TableKey is the group identity of a table set: distinct ids sorted
// numerically and joined with "-".
func TableKey(ids []string) string {
	seen := make(map[string]struct{}, len(ids))
	uniq := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		uniq = append(uniq, id)
	}
	sort.SliceStable(uniq, func(i, j int) bool {
		a, errA := strconv.Atoi(uniq[i])
		b, errB := strconv.Atoi(uniq[j])
		if errA != nil || errB != nil {
			return uniq[i] < uniq[j]
		}
		return a < b
	})
	return strings.Join(uniq, "-")
}

// isTableList reports whether v is a dash-separated number list such as
// "34-35-48-49" (spaces ignored).
func isTableList(v string) bool {
	return tableListRe.MatchString(whitespaceRe.ReplaceAllString(v, ""))
}

// isDashedDigits is the looser form accepted in support and extra blocks.
func isDashedDigits(v string) bool {
	return dashedDigitRe.MatchString(whitespaceRe.ReplaceAllString(v, ""))
}
