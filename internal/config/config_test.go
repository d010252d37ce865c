package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sells-group/roster-cli/internal/extract"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) }) //nolint:errcheck
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "roster.db", cfg.Store.DatabaseURL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 4, cfg.Analyze.MaxConcurrentFiles)
	assert.False(t, cfg.AI.Enabled)
	assert.Equal(t, 60, cfg.AI.TimeoutSecs)
	assert.Equal(t, 4000, cfg.AI.MaxPromptChars)
	assert.InDelta(t, 0.1, cfg.AI.Temperature, 0.001)
	assert.Equal(t, int64(3000), cfg.AI.MaxTokens)
	assert.Equal(t, "claude-haiku-4-5-20251001", cfg.Anthropic.Model)
	assert.Equal(t, 20, cfg.Extract.HeaderScanRows)
	assert.Equal(t, []int{2, 6}, cfg.Extract.HeaderProbeColumns)
	assert.Equal(t, extract.DefaultColumnBlocks, cfg.Extract.FixedColumns)
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
store:
  driver: postgres
  database_url: postgres://localhost/roster
log:
  level: debug
  format: console
ai:
  enabled: true
extract:
  fixed_columns:
    - name: ONLY
      name_col: 0
      table_col: 2
      shift_col: 3
analyze:
  max_concurrent_files: 8
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.True(t, cfg.AI.Enabled)
	assert.Equal(t, 8, cfg.Analyze.MaxConcurrentFiles)
	require.Len(t, cfg.Extract.FixedColumns, 1)
	assert.Equal(t, extract.ColumnBlock{Name: "ONLY", NameCol: 0, TableCol: 2, ShiftCol: 3}, cfg.Extract.FixedColumns[0])
	// Defaults still apply for unset values
	assert.Equal(t, 60, cfg.AI.TimeoutSecs)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
store:
  driver: sqlite
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	t.Setenv("ROSTER_STORE_DRIVER", "postgres")
	t.Setenv("ROSTER_LOG_LEVEL", "warn")
	t.Setenv("ROSTER_ANTHROPIC_KEY", "sk-ant-test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "sk-ant-test", cfg.Anthropic.Key)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	chdirTemp(t)
	t.Setenv("ROSTER_SERVER_PORT", "3000")
	t.Setenv("ROSTER_AI_TIMEOUT_SECS", "5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, 5, cfg.AI.TimeoutSecs)
}

func TestLoadMalformedFile(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("store: [unclosed"), 0o644))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: read file")
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

// validDefaults returns a Config with all defaults populated for validation tests.
func validDefaults() *Config {
	cfg := &Config{}
	cfg.Store.Driver = "sqlite"
	cfg.Store.DatabaseURL = "roster.db"
	cfg.Analyze.MaxConcurrentFiles = 4
	cfg.AI.Temperature = 0.1
	cfg.Server.Port = 8080
	cfg.Extract.FixedColumns = extract.DefaultColumnBlocks
	return cfg
}

func TestValidate_AllModes(t *testing.T) {
	cfg := validDefaults()
	for _, mode := range []string{"analyze", "confirm", "staff", "migrate", "serve"} {
		assert.NoError(t, cfg.Validate(mode), mode)
	}
}

func TestValidate_AnalyzeWithStaffFileSkipsStore(t *testing.T) {
	cfg := validDefaults()
	cfg.Store.DatabaseURL = ""
	cfg.Staff.File = "staff.yaml"

	assert.NoError(t, cfg.Validate("analyze"))
	assert.Error(t, cfg.Validate("confirm"))
}

func TestValidate_AIRequiresKey(t *testing.T) {
	cfg := validDefaults()
	cfg.AI.Enabled = true

	err := cfg.Validate("analyze")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "anthropic.key is required")

	cfg.Anthropic.Key = "sk-ant-key"
	assert.NoError(t, cfg.Validate("analyze"))
}

func TestValidate_StoreDriver(t *testing.T) {
	cfg := validDefaults()
	cfg.Store.Driver = "mysql"

	err := cfg.Validate("confirm")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store.driver must be sqlite or postgres")
}

func TestValidateServe_InvalidPort(t *testing.T) {
	cfg := validDefaults()
	cfg.Server.Port = 0

	err := cfg.Validate("serve")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "server.port must be > 0")
}

func TestValidateUnknownMode(t *testing.T) {
	err := validDefaults().Validate("unknown")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}

func TestValidateBounds(t *testing.T) {
	cfg := validDefaults()
	cfg.Analyze.MaxConcurrentFiles = 0
	err := cfg.Validate("analyze")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "max_concurrent_files must be between 1 and 32")

	cfg.Analyze.MaxConcurrentFiles = 4
	cfg.AI.Temperature = 1.5
	err = cfg.Validate("analyze")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ai.temperature")

	cfg.AI.Temperature = 0.1
	cfg.Extract.FixedColumns = []extract.ColumnBlock{{Name: "BAD", NameCol: -1}}
	err = cfg.Validate("analyze")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "BAD")
}
