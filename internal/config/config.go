package config

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/roster-cli/internal/extract"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	AI        AIConfig        `yaml:"ai" mapstructure:"ai"`
	Extract   ExtractConfig   `yaml:"extract" mapstructure:"extract"`
	Staff     StaffConfig     `yaml:"staff" mapstructure:"staff"`
	Analyze   AnalyzeConfig   `yaml:"analyze" mapstructure:"analyze"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key               string `yaml:"key" mapstructure:"key"`
	Model             string `yaml:"model" mapstructure:"model"`
	RequestsPerMinute int    `yaml:"requests_per_minute" mapstructure:"requests_per_minute"`
	MaxRetries        int    `yaml:"max_retries" mapstructure:"max_retries"`
}

// AIConfig configures the AI-assisted extraction strategy.
type AIConfig struct {
	Enabled        bool    `yaml:"enabled" mapstructure:"enabled"`
	TimeoutSecs    int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxPromptChars int     `yaml:"max_prompt_chars" mapstructure:"max_prompt_chars"`
	Temperature    float64 `yaml:"temperature" mapstructure:"temperature"`
	MaxTokens      int64   `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// ExtractConfig configures the fixed-column template layout.
type ExtractConfig struct {
	HeaderScanRows     int                   `yaml:"header_scan_rows" mapstructure:"header_scan_rows"`
	HeaderProbeColumns []int                 `yaml:"header_probe_columns" mapstructure:"header_probe_columns"`
	FixedColumns       []extract.ColumnBlock `yaml:"fixed_columns" mapstructure:"fixed_columns"`
}

// StaffConfig points at an optional staff fixture used instead of the store.
type StaffConfig struct {
	File string `yaml:"file" mapstructure:"file"`
}

// AnalyzeConfig configures multi-file analysis.
type AnalyzeConfig struct {
	MaxConcurrentFiles int `yaml:"max_concurrent_files" mapstructure:"max_concurrent_files"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("ROSTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "roster.db")
	v.SetDefault("store.max_conns", 10)
	v.SetDefault("store.min_conns", 2)
	v.SetDefault("anthropic.key", "")
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.requests_per_minute", 50)
	v.SetDefault("anthropic.max_retries", 3)
	v.SetDefault("ai.enabled", false)
	v.SetDefault("ai.timeout_secs", 60)
	v.SetDefault("ai.max_prompt_chars", 4000)
	v.SetDefault("ai.temperature", 0.1)
	v.SetDefault("ai.max_tokens", 3000)
	v.SetDefault("extract.header_scan_rows", 20)
	v.SetDefault("extract.header_probe_columns", []int{2, 6})
	v.SetDefault("extract.fixed_columns", extract.DefaultColumnBlocks)
	v.SetDefault("staff.file", "")
	v.SetDefault("analyze.max_concurrent_files", 4)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a command needs. mode is one of analyze,
// confirm, staff, migrate or serve.
func (c *Config) Validate(mode string) error {
	var errs []string

	needStore := false
	switch mode {
	case "analyze":
		needStore = c.Staff.File == ""
		if c.AI.Enabled && c.Anthropic.Key == "" {
			errs = append(errs, "anthropic.key is required when ai.enabled is set")
		}
	case "confirm", "staff", "migrate":
		needStore = true
	case "serve":
		needStore = true
		if c.Server.Port <= 0 {
			errs = append(errs, "server.port must be > 0")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if needStore {
		switch c.Store.Driver {
		case "sqlite", "postgres":
		default:
			errs = append(errs, fmt.Sprintf("store.driver must be sqlite or postgres, got %q", c.Store.Driver))
		}
		if c.Store.DatabaseURL == "" {
			errs = append(errs, "store.database_url is required")
		}
	}

	if c.Analyze.MaxConcurrentFiles < 1 || c.Analyze.MaxConcurrentFiles > 32 {
		errs = append(errs, "analyze.max_concurrent_files must be between 1 and 32")
	}
	if c.AI.Temperature < 0 || c.AI.Temperature > 1 {
		errs = append(errs, "ai.temperature must be between 0 and 1")
	}
	for _, b := range c.Extract.FixedColumns {
		if b.NameCol < 0 || b.TableCol < 0 || b.ShiftCol < 0 {
			errs = append(errs, fmt.Sprintf("extract.fixed_columns %s: column indexes must be >= 0", b.Name))
		}
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
