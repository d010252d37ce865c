package staff

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/roster-cli/internal/model"
)

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFile_YAML(t *testing.T) {
	path := writeFixture(t, "staff.yaml", `
staff:
  - id: s1
    full_name: Mehmet Öz
    position: PERSONEL
    color: "#FF6B6B"
  - id: s2
    full_name: Ahmet Yılmaz
    active: false
`)

	got, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, model.Staff{ID: "s1", FullName: "Mehmet Öz", Position: "PERSONEL", Color: "#FF6B6B", IsActive: true}, got[0])
	assert.False(t, got[1].IsActive)
}

func TestLoadFile_YAMLMissingID(t *testing.T) {
	path := writeFixture(t, "staff.yml", "staff:\n  - full_name: Nobody\n")
	_, err := LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing id")
}

func TestLoadFile_CSV(t *testing.T) {
	path := writeFixture(t, "staff.csv", "id,full_name,position,active\ns1,Mehmet Öz,PERSONEL,true\ns2,Ahmet Yılmaz,SPVR,false\n,,,\n")

	got, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "SPVR", got[1].Position)
	assert.False(t, got[1].IsActive)
}

func TestParseCSV_MissingColumns(t *testing.T) {
	_, err := ParseCSV(strings.NewReader("name\nAli\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "id and full_name")
}

func TestLoadFile_Unsupported(t *testing.T) {
	_, err := LoadFile("staff.json")
	require.Error(t, err)
}

func TestFileRegistry_ActiveOnly(t *testing.T) {
	path := writeFixture(t, "staff.yaml", `
staff:
  - id: s1
    full_name: Mehmet Öz
  - id: s2
    full_name: Ahmet Yılmaz
    active: false
`)

	got, err := FileRegistry{Path: path}.ActiveStaff(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "s1", got[0].ID)
}

func TestStaticRegistry(t *testing.T) {
	r := StaticRegistry{{ID: "a", FullName: "A", IsActive: true}, {ID: "b", FullName: "B"}}
	got, err := r.ActiveStaff(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
