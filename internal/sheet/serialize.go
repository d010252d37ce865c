package sheet

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const serializeBanner = "=== EXCEL VERİSİ ===\n"

// Serialize renders sections in the compact text form sent to the language
// model:
//
//	--- TABLE_ASSIGNMENT (Satır 0-4) ---
//	[0] A:PERSONEL | B:POZİSYON
//
// The output is cut to at most maxChars runes when maxChars > 0.
func Serialize(sections []Section, maxChars int) string {
	var b strings.Builder
	b.WriteString(serializeBanner)
	for _, sec := range sections {
		fmt.Fprintf(&b, "\n--- %s (Satır %d-%d) ---\n", strings.ToUpper(string(sec.Type)), sec.Start, sec.End)
		if sec.Title != "" {
			fmt.Fprintf(&b, "Başlık: %s\n", sec.Title)
		}
		for _, r := range sec.Rows {
			b.WriteString(FormatRow(r))
			b.WriteByte('\n')
		}
	}
	return truncateRunes(b.String(), maxChars)
}

// FormatRow renders one row as "[<index>] <label>:<value> | ...".
func FormatRow(r Row) string {
	parts := make([]string, len(r.Cells))
	for i, c := range r.Cells {
		parts[i] = c.Label + ":" + c.Value
	}
	return fmt.Sprintf("[%d] %s", r.Index, strings.Join(parts, " | "))
}

func truncateRunes(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
