package extract

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sells-group/roster-cli/internal/textnorm"
)

var (
	letterNameRe  = regexp.MustCompile(`^[\p{L}\s]+$`)
	dottedNameRe  = regexp.MustCompile(`^[\p{L}.\s]+$`)
	anyDigitRe    = regexp.MustCompile(`\d`)
	timeOfDayRe   = regexp.MustCompile(`\d{1,2}[:.]\d{2}`)
	excludedWords = []string{
		"PERSONEL", "POZİSYON", "POSTA", "SAAT", "MASA", "LOCA", "BAR", "DEPO",
		"EXTRA", "DESTEK", "EKİBİ", "CAPTAIN", "SPVR", "INCHARGE", "ASST", "MNG", "FB",
	}
	headerTokens = []string{"PERSONEL", "POZİSYON", "EXTRA PERSONEL", "POSTA", "SAAT"}
)

// LooksLikeName reports whether v could be a person's name: no digits, at
// least one letter and none of the sheet's column or role keywords as a word.
func LooksLikeName(v string) bool {
	v = strings.TrimSpace(v)
	if utf8.RuneCountInString(v) < 2 || anyDigitRe.MatchString(v) {
		return false
	}
	folded := textnorm.Fold(v)
	for _, w := range excludedWords {
		if textnorm.ContainsWord(folded, w) {
			return false
		}
	}
	return strings.IndexFunc(v, unicode.IsLetter) >= 0
}

// IsHeaderToken reports whether v is a column title rather than data.
func IsHeaderToken(v string) bool {
	folded := strings.TrimSpace(textnorm.Fold(v))
	for _, h := range headerTokens {
		if folded == textnorm.Fold(h) {
			return true
		}
	}
	return false
}

// IsBackground reports whether a name or cell carries the background-staff
// marker (spelled either way on real sheets).
func IsBackground(v string) bool {
	return textnorm.ContainsAny(textnorm.Fold(v), "BACKROUND", "BACKGROUND")
}

// hasLoca reports whether any of the values mentions a loca.
func hasLoca(values ...string) bool {
	for _, v := range values {
		if strings.Contains(textnorm.Fold(v), "LOCA") {
			return true
		}
	}
	return false
}

// isPlainName matches cells made only of letters and spaces, longer than two
// characters.
func isPlainName(v string) bool {
	return letterNameRe.MatchString(v) && utf8.RuneCountInString(v) > 2
}

// isDottedName also allows initials such as "A. YILMAZ".
func isDottedName(v string) bool {
	return dottedNameRe.MatchString(v) && utf8.RuneCountInString(v) > 2
}

func isTimeOfDay(v string) bool {
	return timeOfDayRe.MatchString(v)
}
