package extract

import (
	"context"
	"strings"

	"github.com/sells-group/roster-cli/internal/model"
	"github.com/sells-group/roster-cli/internal/sheet"
	"github.com/sells-group/roster-cli/internal/textnorm"
	"go.uber.org/zap"
)

// ColumnBlock is one side-by-side personnel block of the standard template.
type ColumnBlock struct {
	Name     string `mapstructure:"name" yaml:"name"`
	NameCol  int    `mapstructure:"name_col" yaml:"name_col"`
	TableCol int    `mapstructure:"table_col" yaml:"table_col"`
	ShiftCol int    `mapstructure:"shift_col" yaml:"shift_col"`
	IsExtra  bool   `mapstructure:"is_extra" yaml:"is_extra"`
}

// DefaultColumnBlocks is the layout of the venue's standard roster template.
var DefaultColumnBlocks = []ColumnBlock{
	{Name: "PERSONEL_1", NameCol: 1, TableCol: 3, ShiftCol: 4},
	{Name: "PERSONEL_2", NameCol: 5, TableCol: 8, ShiftCol: 9},
	{Name: "EXTRA_PERSONEL", NameCol: 17, TableCol: 20, ShiftCol: 21, IsExtra: true},
}

// Defaults for locating the template header row.
const (
	DefaultHeaderScanRows = 20
)

// DefaultHeaderProbeCols are the columns checked for the PERSONEL title.
var DefaultHeaderProbeCols = []int{2, 6}

// FixedColumn reads the standard template by column position.
type FixedColumn struct {
	Blocks          []ColumnBlock
	HeaderScanRows  int
	HeaderProbeCols []int
}

// NewFixedColumn returns a FixedColumn using the standard template layout.
func NewFixedColumn() *FixedColumn {
	return &FixedColumn{
		Blocks:          DefaultColumnBlocks,
		HeaderScanRows:  DefaultHeaderScanRows,
		HeaderProbeCols: DefaultHeaderProbeCols,
	}
}

// Source implements Strategy.
func (f *FixedColumn) Source() Source { return SourceFixedColumn }

// Extract implements Strategy.
func (f *FixedColumn) Extract(_ context.Context, in Input) (*PartialResult, error) {
	out := &PartialResult{Source: SourceFixedColumn, Colors: in.Colors}
	if in.Sheet.Empty() {
		return out, nil
	}

	start, found := f.headerRow(in.Sheet)
	if !found {
		zap.L().Debug("extract: fixed-column header row not found, reading every row")
	}

	b := newGroupBuilder(in.Matcher, in.Colors)
	for _, r := range in.Sheet.Rows {
		if r.Index <= start && found {
			continue
		}
		for _, blk := range f.Blocks {
			f.readBlock(r, blk, b, in, out)
		}
	}

	out.Groups = b.groups
	out.Colors = b.colors
	return out, nil
}

// headerRow returns the sheet index of the first row with PERSONEL in one of
// the probe columns.
func (f *FixedColumn) headerRow(s *sheet.Sheet) (int, bool) {
	limit := f.HeaderScanRows
	if limit <= 0 {
		limit = DefaultHeaderScanRows
	}
	for i, r := range s.Rows {
		if i >= limit {
			break
		}
		for _, col := range f.HeaderProbeCols {
			if textnorm.Fold(r.At(col)) == "PERSONEL" {
				return r.Index, true
			}
		}
	}
	return 0, false
}

func (f *FixedColumn) readBlock(r sheet.Row, blk ColumnBlock, b *groupBuilder, in Input, out *PartialResult) {
	name := strings.TrimSpace(r.At(blk.NameCol))
	if name == "" || IsHeaderToken(name) || !LooksLikeName(name) {
		return
	}
	tableText := strings.TrimSpace(r.At(blk.TableCol))
	if tableText == "" {
		return
	}
	ids := ParseTableIDs(tableText)
	locaNumbers := ParseLocaNumbers(tableText)
	isLoca := hasLoca(name, tableText)
	if len(ids) == 0 && (!isLoca || len(locaNumbers) == 0) {
		return
	}
	if !isLoca && len(ids) < MinStandardTables {
		return
	}
	sh := ParseShift(r.At(blk.ShiftCol))

	if blk.IsExtra {
		if IsBackground(name) {
			return
		}
		out.ExtraPersonnel = append(out.ExtraPersonnel, model.ExtraPersonnel{
			Entry:    entry(in.Matcher, name, sh),
			TableIDs: ids,
		})
		return
	}
	b.add(name, "PERSONEL", ids, locaNumbers, sh, isLoca)
}
