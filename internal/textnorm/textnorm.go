// Package textnorm folds free-text names and spreadsheet keywords into
// comparable forms.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var multiSpaceRe = regexp.MustCompile(`\s+`)

// turkishASCII maps the Turkish letters that survive lowercasing to their
// ASCII base letters.
var turkishASCII = strings.NewReplacer(
	"ı", "i",
	"ğ", "g",
	"ü", "u",
	"ş", "s",
	"ö", "o",
	"ç", "c",
)

// Normalize lowercases name with Turkish casing rules, maps Turkish
// letters to ASCII, strips remaining combining marks and collapses
// whitespace. Normalize(Normalize(x)) == Normalize(x).
func Normalize(name string) string {
	s := cases.Lower(language.Turkish).String(name)
	s = turkishASCII.Replace(s)
	s = stripMarks(s)
	s = multiSpaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Fold returns the upper-case ASCII form of s used for keyword tests, so
// "Ekibi", "EKİBİ" and "EKIBI" all fold to "EKIBI". Whitespace is preserved.
func Fold(s string) string {
	s = cases.Lower(language.Turkish).String(s)
	s = turkishASCII.Replace(s)
	s = stripMarks(s)
	return strings.ToUpper(s)
}

// ContainsAll reports whether folded text contains every keyword. Keywords
// are folded before comparison.
func ContainsAll(folded string, keywords ...string) bool {
	for _, k := range keywords {
		if !strings.Contains(folded, Fold(k)) {
			return false
		}
	}
	return true
}

// ContainsAny reports whether folded text contains at least one keyword.
func ContainsAny(folded string, keywords ...string) bool {
	for _, k := range keywords {
		if strings.Contains(folded, Fold(k)) {
			return true
		}
	}
	return false
}

// ContainsWord reports whether folded text contains keyword as a whole word,
// so "BAR" matches "ANA BAR" but not "BARIS".
func ContainsWord(folded, keyword string) bool {
	k := Fold(keyword)
	if k == "" {
		return false
	}
	for i := 0; i < len(folded); {
		j := strings.Index(folded[i:], k)
		if j < 0 {
			return false
		}
		start := i + j
		end := start + len(k)
		if !letterBefore(folded, start) && !letterAt(folded, end) {
			return true
		}
		i = start + 1
	}
	return false
}

func letterBefore(s string, i int) bool {
	if i == 0 {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return unicode.IsLetter(r)
}

func letterAt(s string, i int) bool {
	if i >= len(s) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return unicode.IsLetter(r)
}

func stripMarks(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
