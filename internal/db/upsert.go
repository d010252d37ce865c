package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"
)

// UpsertConfig describes a bulk upsert.
type UpsertConfig struct {
	Table        string   // target table, optionally schema-qualified
	Columns      []string // columns being written
	ConflictKeys []string // columns of the unique constraint
	UpdateCols   []string // columns to overwrite on conflict; nil means every non-key column
}

// BulkUpsert copies rows into a temp table and merges them into the target
// with INSERT ... ON CONFLICT DO UPDATE, all in one transaction.
func BulkUpsert(ctx context.Context, pool Pool, cfg UpsertConfig, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	if len(cfg.Columns) == 0 {
		return 0, eris.New("db: upsert: no columns specified")
	}
	if len(cfg.ConflictKeys) == 0 {
		return 0, eris.New("db: upsert: no conflict keys specified")
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return 0, eris.Wrap(err, "db: upsert: begin tx")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	tempTable := "_tmp_upsert_" + strings.ReplaceAll(cfg.Table, ".", "_")
	createSQL := fmt.Sprintf(
		"CREATE TEMP TABLE %s (LIKE %s INCLUDING DEFAULTS) ON COMMIT DROP",
		pgx.Identifier{tempTable}.Sanitize(),
		sanitizeTable(cfg.Table),
	)
	if _, err := tx.Exec(ctx, createSQL); err != nil {
		return 0, eris.Wrapf(err, "db: upsert: create temp table for %s", cfg.Table)
	}

	if _, err := CopyFrom(ctx, tx, tempTable, cfg.Columns, rows); err != nil {
		return 0, eris.Wrapf(err, "db: upsert: stage rows for %s", cfg.Table)
	}

	tag, err := tx.Exec(ctx, upsertSQL(cfg, tempTable))
	if err != nil {
		return 0, eris.Wrapf(err, "db: upsert: INSERT ON CONFLICT for %s", cfg.Table)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, eris.Wrap(err, "db: upsert: commit tx")
	}
	return tag.RowsAffected(), nil
}

func upsertSQL(cfg UpsertConfig, tempTable string) string {
	updateCols := cfg.UpdateCols
	if updateCols == nil {
		keys := make(map[string]bool, len(cfg.ConflictKeys))
		for _, k := range cfg.ConflictKeys {
			keys[k] = true
		}
		for _, c := range cfg.Columns {
			if !keys[c] {
				updateCols = append(updateCols, c)
			}
		}
	}

	set := make([]string, len(updateCols))
	for i, col := range updateCols {
		id := pgx.Identifier{col}.Sanitize()
		set[i] = id + " = EXCLUDED." + id
	}

	cols := quoteAndJoin(cfg.Columns)
	return fmt.Sprintf(
		"INSERT INTO %s (%s) SELECT %s FROM %s ON CONFLICT (%s) DO UPDATE SET %s",
		sanitizeTable(cfg.Table),
		cols,
		cols,
		pgx.Identifier{tempTable}.Sanitize(),
		quoteAndJoin(cfg.ConflictKeys),
		strings.Join(set, ", "),
	)
}

func sanitizeTable(table string) string {
	return identifier(table).Sanitize()
}

func quoteAndJoin(cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = pgx.Identifier{c}.Sanitize()
	}
	return strings.Join(quoted, ", ")
}
