package sheet

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

var (
	// ErrEmptySheet is returned when a file has no worksheet or no data.
	ErrEmptySheet = eris.New("sheet: no data")
	// ErrUnsupportedFormat is returned for file extensions with no reader.
	ErrUnsupportedFormat = eris.New("sheet: unsupported file format")
)

// Load reads the first worksheet of an .xlsx or .csv file and normalizes it.
func Load(path string) (*Sheet, error) {
	var (
		grid [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		grid, err = ReadXLSX(path)
	case ".csv":
		grid, err = readCSVFile(path)
	default:
		return nil, eris.Wrapf(ErrUnsupportedFormat, "sheet: %s", filepath.Base(path))
	}
	if err != nil {
		return nil, err
	}

	s := FromStrings(grid)
	if s.Empty() {
		return nil, eris.Wrapf(ErrEmptySheet, "sheet: %s", filepath.Base(path))
	}
	return s, nil
}

// ReadXLSX returns the cells of the first worksheet as strings.
func ReadXLSX(path string) ([][]string, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "sheet: open xlsx")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.Wrap(ErrEmptySheet, "sheet: workbook has no worksheets")
	}

	ws := f.Sheets[0]
	rows := make([][]string, 0, len(ws.Rows))
	for _, row := range ws.Rows {
		rows = append(rows, rowToStrings(row))
	}
	return rows, nil
}

func rowToStrings(row *xlsx.Row) []string {
	if row == nil {
		return nil
	}
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		if cell == nil {
			continue
		}
		cells[j] = cell.String()
	}
	return cells
}

// ReadCSV reads every record from r. Records may have differing widths.
func ReadCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, eris.Wrap(err, "sheet: read csv row")
		}
		rows = append(rows, record)
	}
}

func readCSVFile(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "sheet: open csv")
	}
	defer f.Close() //nolint:errcheck

	return ReadCSV(f)
}
