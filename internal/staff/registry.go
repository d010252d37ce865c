package staff

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/roster-cli/internal/model"
	"github.com/sells-group/roster-cli/internal/sheet"
)

// Registry returns the canonical list of active staff.
type Registry interface {
	ActiveStaff(ctx context.Context) ([]model.Staff, error)
}

// StaticRegistry serves a fixed in-memory roster.
type StaticRegistry []model.Staff

// ActiveStaff returns the active records.
func (r StaticRegistry) ActiveStaff(_ context.Context) ([]model.Staff, error) {
	return activeOnly(r), nil
}

// FileRegistry reads the roster from a YAML or CSV fixture on every call.
type FileRegistry struct {
	Path string
}

// ActiveStaff loads the fixture and returns the active records.
func (r FileRegistry) ActiveStaff(_ context.Context) ([]model.Staff, error) {
	all, err := LoadFile(r.Path)
	if err != nil {
		return nil, err
	}
	return activeOnly(all), nil
}

// fileEntry mirrors model.Staff with an optional active flag that defaults
// to true when omitted.
type fileEntry struct {
	ID       string `yaml:"id"`
	FullName string `yaml:"full_name"`
	Position string `yaml:"position"`
	Color    string `yaml:"color"`
	Active   *bool  `yaml:"active"`
}

type staffFile struct {
	Staff []fileEntry `yaml:"staff"`
}

// LoadFile reads staff records from a .yaml/.yml file (a top-level "staff"
// list) or a .csv file with an id,full_name,position,color[,active] header.
func LoadFile(path string) ([]model.Staff, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return loadYAML(path)
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrap(err, "staff: open csv fixture")
		}
		defer f.Close() //nolint:errcheck
		return ParseCSV(f)
	default:
		return nil, eris.Errorf("staff: unsupported fixture format %q", filepath.Ext(path))
	}
}

func loadYAML(path string) ([]model.Staff, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "staff: read yaml fixture")
	}

	var doc staffFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, eris.Wrap(err, "staff: unmarshal yaml fixture")
	}

	out := make([]model.Staff, 0, len(doc.Staff))
	for i, e := range doc.Staff {
		if e.ID == "" || strings.TrimSpace(e.FullName) == "" {
			return nil, eris.Errorf("staff: yaml entry %d missing id or full_name", i)
		}
		out = append(out, model.Staff{
			ID:       e.ID,
			FullName: strings.TrimSpace(e.FullName),
			Position: e.Position,
			Color:    e.Color,
			IsActive: e.Active == nil || *e.Active,
		})
	}
	return out, nil
}

// ParseCSV reads staff records from CSV with a header row.
func ParseCSV(r io.Reader) ([]model.Staff, error) {
	rows, err := sheet.ReadCSV(r)
	if err != nil {
		return nil, eris.Wrap(err, "staff: read csv fixture")
	}
	if len(rows) == 0 {
		return nil, nil
	}

	cols := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	idCol, okID := cols["id"]
	nameCol, okName := cols["full_name"]
	if !okID || !okName {
		return nil, eris.New("staff: csv fixture needs id and full_name columns")
	}

	get := func(row []string, name string) string {
		if i, ok := cols[name]; ok && i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	var out []model.Staff
	for n, row := range rows[1:] {
		if idCol >= len(row) || nameCol >= len(row) {
			return nil, eris.Errorf("staff: csv row %d is short", n+2)
		}
		s := model.Staff{
			ID:       strings.TrimSpace(row[idCol]),
			FullName: strings.TrimSpace(row[nameCol]),
			Position: get(row, "position"),
			Color:    get(row, "color"),
			IsActive: true,
		}
		if s.ID == "" || s.FullName == "" {
			continue
		}
		if v := get(row, "active"); v != "" {
			active, err := strconv.ParseBool(v)
			if err != nil {
				return nil, eris.Wrapf(err, "staff: csv row %d active flag", n+2)
			}
			s.IsActive = active
		}
		out = append(out, s)
	}
	return out, nil
}

func activeOnly(all []model.Staff) []model.Staff {
	out := make([]model.Staff, 0, len(all))
	for _, s := range all {
		if s.IsActive {
			out = append(out, s)
		}
	}
	return out
}
