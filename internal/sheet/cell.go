// Package sheet turns raw spreadsheet grids into normalized rows, classifies
// rows into roster sections and serializes sections for the AI strategy.
package sheet

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	separatorRe = regexp.MustCompile(`[-\s]`)
	digitsRe    = regexp.MustCompile(`^\d+$`)
	leadTimeRe  = regexp.MustCompile(`^\d{1,2}[:.]\d{2}`)
	anyTimeRe   = regexp.MustCompile(`\d{1,2}:\d{2}`)
)

// Spreadsheet time-only values carry a date at or before the 1900 epoch.
const excelEpochYr = 1900

// Cell is a non-empty, trimmed spreadsheet cell.
type Cell struct {
	Row       int    `json:"row"`
	Col       int    `json:"col"`
	Label     string `json:"label"`
	Value     string `json:"value"`
	IsNumeric bool   `json:"is_numeric"`
	IsTime    bool   `json:"is_time"`
}

// NewCell normalizes a raw cell value. The second return value is false
// when the cell is empty after trimming.
func NewCell(row, col int, raw any) (Cell, bool) {
	v := CellString(raw)
	if v == "" {
		return Cell{}, false
	}
	return Cell{
		Row:       row,
		Col:       col,
		Label:     ColumnLabel(col),
		Value:     v,
		IsNumeric: IsNumeric(v),
		IsTime:    IsTime(v),
	}, true
}

// CellString stringifies a raw cell value and trims it. Unknown types are
// formatted with fmt.
func CellString(raw any) string {
	var s string
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		s = v
	case float64:
		s = formatFloat(v)
	case float32:
		s = formatFloat(float64(v))
	case int:
		s = strconv.Itoa(v)
	case int64:
		s = strconv.FormatInt(v, 10)
	case json.Number:
		s = v.String()
	case bool:
		s = strconv.FormatBool(v)
	case time.Time:
		s = formatTime(v)
	case fmt.Stringer:
		s = v.String()
	default:
		s = fmt.Sprint(v)
	}
	return strings.TrimSpace(s)
}

// IsNumeric reports whether v is all digits once dashes and spaces are removed.
func IsNumeric(v string) bool {
	return digitsRe.MatchString(separatorRe.ReplaceAllString(v, ""))
}

// IsTime reports whether v looks like a time of day ("9:00", "19.00-K").
func IsTime(v string) bool {
	return leadTimeRe.MatchString(v) || anyTimeRe.MatchString(v)
}

// ColumnLabel converts a zero-based column index to its spreadsheet letter
// label: 0 -> A, 25 -> Z, 26 -> AA.
func ColumnLabel(col int) string {
	if col < 0 {
		return ""
	}
	var b []byte
	for n := col + 1; n > 0; n = (n - 1) / 26 {
		b = append([]byte{byte('A' + (n-1)%26)}, b...)
	}
	return string(b)
}

func formatFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return ""
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatTime renders time-only cells (no calendar date) as HH:MM and dates
// without a clock as YYYY-MM-DD.
func formatTime(t time.Time) string {
	if t.Year() <= excelEpochYr {
		return t.Format("15:04")
	}
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format("2006-01-02 15:04")
}
