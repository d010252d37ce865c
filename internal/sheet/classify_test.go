package sheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(t *testing.T, index int, values ...any) Row {
	t.Helper()
	r, ok := NewRow(index, values)
	require.True(t, ok)
	return r
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		values []any
		want   SectionType
	}{
		{"captain", []any{"", "AHMET YILMAZ", "J. CAPTAIN", "17:00-K"}, SectionCaptain},
		{"incharge", []any{"INCHARGE", "ALİ VELİ"}, SectionCaptain},
		{"supervisor", []any{"SPVR", "AYŞE KARA"}, SectionSupervisor},
		{"loca title", []any{"LOCA"}, SectionLocaCaptain},
		{"loca with number is not a title", []any{"LOCA 12", "ZEYNEP AK"}, SectionTableAssignment},
		{"extra", []any{"EXTRA PERSONEL", "POSTA", "SAAT"}, SectionExtraPersonnel},
		{"support", []any{"CRYSTAL DESTEK EKİBİ"}, SectionSupportTeam},
		{"support lower case", []any{"Crystal Destek Ekibi"}, SectionSupportTeam},
		{"service point", []any{"ANA BAR"}, SectionServicePoint},
		{"name starting with bar", []any{"BARIŞ KAYA", "34-35-36"}, SectionTableAssignment},
		{"header", []any{"PERSONEL", "POZİSYON", "POSTA", "SAAT"}, SectionHeader},
		{"data row", []any{"Mehmet Öz", "PERSONEL", "11-12-21-22-23", "17:00-04:00"}, SectionTableAssignment},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(row(t, 0, tt.values...)))
		})
	}
}

func TestIsSectionHeader(t *testing.T) {
	assert.True(t, IsSectionHeader(row(t, 0, "ANA BAR"), SectionServicePoint))
	assert.False(t, IsSectionHeader(row(t, 0, "BAR", "ALİ", "VELİ", "17:00"), SectionServicePoint))
	assert.True(t, IsSectionHeader(row(t, 0, "LOCA"), SectionLocaCaptain))
	assert.True(t, IsSectionHeader(row(t, 0, "LOCA KAPTAN", "SALON"), SectionLocaCaptain))
	assert.True(t, IsSectionHeader(row(t, 0, "EXTRA PERSONEL"), SectionExtraPersonnel))
	assert.True(t, IsSectionHeader(row(t, 0, "CRYSTAL DESTEK EKİBİ"), SectionSupportTeam))
	assert.False(t, IsSectionHeader(row(t, 0, "CAPTAIN", "ALİ"), SectionCaptain))
	assert.False(t, IsSectionHeader(row(t, 0, "PERSONEL", "POSTA"), SectionHeader))
}

func TestHasLocaMarker(t *testing.T) {
	assert.True(t, HasLocaMarker("LOCA"))
	assert.True(t, HasLocaMarker("LOCA KAPTANI"))
	assert.False(t, HasLocaMarker("LOCA 3"))
	assert.False(t, HasLocaMarker("LOCA12"))
	assert.True(t, HasLocaMarker("LOCA 3 | LOCA"))
	assert.False(t, HasLocaMarker("SALON"))
}

func TestDetectSections(t *testing.T) {
	s := FromGrid([][]any{
		{"PERSONEL", "POZİSYON", "POSTA", "SAAT"},
		{"Mehmet Öz", "PERSONEL", "11-12-21-22-23", "17:00-04:00"},
		{"ANA BAR"},
		{"ALİ VELİ", "", "18:00"},
		{"CRYSTAL DESTEK EKİBİ"},
		{"AYŞE KARA", "PERSONEL", "BAR", "17:00"},
	})

	sections := DetectSections(s)
	require.Len(t, sections, 3)

	assert.Equal(t, SectionTableAssignment, sections[0].Type)
	assert.Empty(t, sections[0].Title)
	assert.Equal(t, 0, sections[0].Start)
	assert.Equal(t, 1, sections[0].End)

	assert.Equal(t, SectionServicePoint, sections[1].Type)
	assert.Equal(t, "ANA BAR", sections[1].Title)
	assert.Equal(t, 2, sections[1].Start)
	assert.Equal(t, 3, sections[1].End)
	assert.Len(t, sections[1].Rows, 2)

	assert.Equal(t, SectionSupportTeam, sections[2].Type)
	assert.Equal(t, 5, sections[2].End)

	assert.Equal(t, SectionHeader, sections[0].Rows[0].Section)
	assert.Empty(t, s.Rows[0].Section, "input sheet is left untouched")
}

func TestDetectSections_Empty(t *testing.T) {
	assert.Nil(t, DetectSections(&Sheet{}))
	assert.Nil(t, DetectSections(nil))
}
