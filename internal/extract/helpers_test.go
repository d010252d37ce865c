package extract

import (
	"github.com/sells-group/roster-cli/internal/model"
	"github.com/sells-group/roster-cli/internal/sheet"
	"github.com/sells-group/roster-cli/internal/staff"
)

var testStaff = []model.Staff{
	{ID: "s1", FullName: "Mehmet Öz", IsActive: true},
	{ID: "s2", FullName: "Tulga Topkaç", IsActive: true},
	{ID: "s3", FullName: "Kerem Ertürk", IsActive: true},
	{ID: "s4", FullName: "Ahmet Yılmaz", IsActive: true},
}

func testInput(grid [][]any) Input {
	s := sheet.FromGrid(grid)
	return Input{
		Sheet:    s,
		Sections: sheet.DetectSections(s),
		Matcher:  staff.NewMatcher(testStaff),
	}
}

// wide places values at the given column indexes of an otherwise empty row.
func wide(cols map[int]string) []any {
	maxCol := 0
	for c := range cols {
		if c > maxCol {
			maxCol = c
		}
	}
	row := make([]any, maxCol+1)
	for c, v := range cols {
		row[c] = v
	}
	return row
}
