package sheet

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSerialize(t *testing.T) {
	s := FromGrid([][]any{
		{"PERSONEL", "POZİSYON", "POSTA", "SAAT"},
		{"Mehmet Öz", "PERSONEL", "11-12-21-22-23", "17:00-04:00"},
		{"ANA BAR"},
		{"ALİ VELİ", nil, "18:00"},
	})

	got := Serialize(DetectSections(s), 0)
	want := "=== EXCEL VERİSİ ===\n" +
		"\n--- TABLE_ASSIGNMENT (Satır 0-1) ---\n" +
		"[0] A:PERSONEL | B:POZİSYON | C:POSTA | D:SAAT\n" +
		"[1] A:Mehmet Öz | B:PERSONEL | C:11-12-21-22-23 | D:17:00-04:00\n" +
		"\n--- SERVICE_POINT (Satır 2-3) ---\n" +
		"Başlık: ANA BAR\n" +
		"[2] A:ANA BAR\n" +
		"[3] A:ALİ VELİ | C:18:00\n"
	assert.Equal(t, want, got)
}

func TestSerialize_Bounded(t *testing.T) {
	grid := make([][]any, 200)
	for i := range grid {
		grid[i] = []any{"ŞEYMA ÇAĞLAR", "PERSONEL", "1-2-3", "19:00-K"}
	}
	got := Serialize(DetectSections(FromGrid(grid)), 500)
	assert.Equal(t, 500, utf8.RuneCountInString(got))
	assert.True(t, strings.HasPrefix(got, "=== EXCEL VERİSİ ==="))
	assert.True(t, utf8.ValidString(got))
}

func TestFormatRow(t *testing.T) {
	r, _ := NewRow(7, []any{nil, "TULGA TOPKAÇ", nil, "34-35-48-49"})
	assert.Equal(t, "[7] B:TULGA TOPKAÇ | D:34-35-48-49", FormatRow(r))
}
