package sheet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewCell(t *testing.T) {
	c, ok := NewCell(3, 27, "  19:00-K ")
	assert.True(t, ok)
	assert.Equal(t, 3, c.Row)
	assert.Equal(t, 27, c.Col)
	assert.Equal(t, "AB", c.Label)
	assert.Equal(t, "19:00-K", c.Value)
	assert.True(t, c.IsTime)
	assert.False(t, c.IsNumeric)

	_, ok = NewCell(0, 0, "   ")
	assert.False(t, ok)
	_, ok = NewCell(0, 0, nil)
	assert.False(t, ok)
}

func TestCellString(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want string
	}{
		{"string", " abc ", "abc"},
		{"integral float", float64(12), "12"},
		{"fraction", 12.5, "12.5"},
		{"int", 7, "7"},
		{"int64", int64(42), "42"},
		{"bool", true, "true"},
		{"time of day", time.Date(1899, 12, 30, 19, 30, 0, 0, time.UTC), "19:30"},
		{"date", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), "2024-05-01"},
		{"nil", nil, ""},
		{"other", []int{1}, "[1]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CellString(tt.raw))
		})
	}
}

func TestIsNumeric(t *testing.T) {
	assert.True(t, IsNumeric("34-35-48-49"))
	assert.True(t, IsNumeric("12 13"))
	assert.True(t, IsNumeric("7"))
	assert.False(t, IsNumeric("LOCA-1"))
	assert.False(t, IsNumeric("19:00"))
}

func TestIsTime(t *testing.T) {
	assert.True(t, IsTime("9:00"))
	assert.True(t, IsTime("19.00-K"))
	assert.True(t, IsTime("SALON 17:00--K"))
	assert.False(t, IsTime("34-35"))
	assert.False(t, IsTime("TULGA TOPKAÇ"))
}

func TestColumnLabel(t *testing.T) {
	assert.Equal(t, "A", ColumnLabel(0))
	assert.Equal(t, "Z", ColumnLabel(25))
	assert.Equal(t, "AA", ColumnLabel(26))
	assert.Equal(t, "AZ", ColumnLabel(51))
	assert.Equal(t, "BA", ColumnLabel(52))
	assert.Equal(t, "", ColumnLabel(-1))
}

func TestFromGrid_DropsEmptyRows(t *testing.T) {
	s := FromGrid([][]any{
		{"PERSONEL", nil, "POSTA"},
		{"", "  ", nil},
		{nil, "Mehmet Öz", float64(11)},
	})

	assert.Len(t, s.Rows, 2)
	assert.Equal(t, 0, s.Rows[0].Index)
	assert.Equal(t, 2, s.Rows[1].Index)
	assert.Equal(t, "PERSONEL | POSTA", s.Rows[0].Text)
	assert.Equal(t, "Mehmet Öz", s.Rows[1].At(1))
	assert.Equal(t, "11", s.Rows[1].At(2))
	assert.Equal(t, "", s.Rows[1].At(0))
	assert.Equal(t, 2, s.Rows[1].Filled())
}

func TestRow_Range(t *testing.T) {
	r, ok := NewRow(0, []any{"a", "b", "", "d", "e"})
	assert.True(t, ok)
	got := r.Range(1, 3)
	assert.Len(t, got, 2)
	assert.Equal(t, "b", got[0].Value)
	assert.Equal(t, "d", got[1].Value)
}

func TestSheet_Empty(t *testing.T) {
	var s *Sheet
	assert.True(t, s.Empty())
	assert.True(t, FromStrings([][]string{{"", " "}}).Empty())
	assert.False(t, FromStrings([][]string{{"x"}}).Empty())
}
