package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/roster-cli/internal/config"
	"github.com/sells-group/roster-cli/internal/extract"
	"github.com/sells-group/roster-cli/internal/ingest"
	"github.com/sells-group/roster-cli/internal/llm"
	"github.com/sells-group/roster-cli/internal/resilience"
	"github.com/sells-group/roster-cli/internal/staff"
	"github.com/sells-group/roster-cli/internal/store"
	"github.com/sells-group/roster-cli/pkg/anthropic"
)

// initStore opens the configured roster store.
func initStore(ctx context.Context, c *config.Config) (store.Store, error) {
	switch c.Store.Driver {
	case "sqlite":
		dsn := c.Store.DatabaseURL
		if dsn == "" {
			dsn = "roster.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, c.Store.DatabaseURL, &store.PoolConfig{
			MaxConns: c.Store.MaxConns,
			MinConns: c.Store.MinConns,
		})
	default:
		return nil, eris.Errorf("unsupported store driver: %s", c.Store.Driver)
	}
}

// newRegistry prefers the staff fixture when one is configured.
func newRegistry(c *config.Config, st store.Store) staff.Registry {
	if c.Staff.File != "" {
		return staff.FileRegistry{Path: c.Staff.File}
	}
	return st
}

// newFixedColumn builds the fixed-column strategy from the extract config.
func newFixedColumn(c config.ExtractConfig) *extract.FixedColumn {
	f := extract.NewFixedColumn()
	if len(c.FixedColumns) > 0 {
		f.Blocks = c.FixedColumns
	}
	if c.HeaderScanRows > 0 {
		f.HeaderScanRows = c.HeaderScanRows
	}
	if len(c.HeaderProbeColumns) > 0 {
		f.HeaderProbeCols = c.HeaderProbeColumns
	}
	return f
}

// newAIStrategy returns nil when no API key is configured.
func newAIStrategy(c *config.Config) *extract.AIAssisted {
	if c.Anthropic.Key == "" {
		return nil
	}
	retry := resilience.DefaultRetryConfig()
	if c.Anthropic.MaxRetries > 0 {
		retry.MaxAttempts = c.Anthropic.MaxRetries
	}
	completer := llm.NewAnthropicCompleter(anthropic.NewClient(c.Anthropic.Key), llm.Options{
		Model:             c.Anthropic.Model,
		RequestsPerMinute: c.Anthropic.RequestsPerMinute,
		Retry:             retry,
		Breaker:           resilience.DefaultBreakerConfig("anthropic"),
	})

	ai := extract.NewAIAssisted(completer)
	if c.AI.TimeoutSecs > 0 {
		ai.Timeout = time.Duration(c.AI.TimeoutSecs) * time.Second
	}
	if c.AI.MaxPromptChars > 0 {
		ai.MaxPromptChars = c.AI.MaxPromptChars
	}
	if c.AI.MaxTokens > 0 {
		ai.MaxTokens = c.AI.MaxTokens
	}
	ai.Temperature = c.AI.Temperature
	return ai
}

// newAnalyzer wires the strategies for reg.
func newAnalyzer(c *config.Config, reg staff.Registry) *ingest.Analyzer {
	var ai extract.Strategy
	if s := newAIStrategy(c); s != nil {
		ai = s
	} else if c.AI.Enabled {
		zap.L().Warn("ai extraction enabled but anthropic.key is empty; using classic strategies only")
	}
	return ingest.NewAnalyzer(reg, newFixedColumn(c.Extract), ai)
}
