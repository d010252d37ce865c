package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/roster-cli/internal/db"
	"github.com/sells-group/roster-cli/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS staff (
	id         TEXT PRIMARY KEY,
	full_name  TEXT NOT NULL,
	position   TEXT NOT NULL DEFAULT '',
	color      TEXT NOT NULL DEFAULT '',
	is_active  BOOLEAN NOT NULL DEFAULT true,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS table_groups (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	event_id   TEXT NOT NULL,
	name       TEXT NOT NULL,
	color      TEXT NOT NULL DEFAULT '',
	table_ids  TEXT[] NOT NULL DEFAULT '{}',
	group_type TEXT NOT NULL DEFAULT 'standard',
	sort_order INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS assignments (
	id              TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	event_id        TEXT NOT NULL,
	staff_id        TEXT NOT NULL,
	group_id        TEXT REFERENCES table_groups(id) ON DELETE CASCADE,
	assignment_type TEXT NOT NULL,
	table_ids       TEXT[] NOT NULL DEFAULT '{}',
	color           TEXT NOT NULL DEFAULT '',
	shift_start     TEXT NOT NULL DEFAULT '',
	shift_end       TEXT NOT NULL DEFAULT '',
	notes           TEXT NOT NULL DEFAULT '',
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_staff_active ON staff(is_active);
CREATE INDEX IF NOT EXISTS idx_table_groups_event ON table_groups(event_id);
CREATE INDEX IF NOT EXISTS idx_assignments_event ON assignments(event_id);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) ActiveStaff(ctx context.Context) ([]model.Staff, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, full_name, position, color, is_active FROM staff WHERE is_active ORDER BY full_name`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list active staff")
	}
	defer rows.Close()

	var out []model.Staff
	for rows.Next() {
		var st model.Staff
		if err := rows.Scan(&st.ID, &st.FullName, &st.Position, &st.Color, &st.IsActive); err != nil {
			return nil, eris.Wrap(err, "postgres: scan staff")
		}
		out = append(out, st)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list active staff iterate")
}

func (s *PostgresStore) GetStaff(ctx context.Context, id string) (*model.Staff, error) {
	var st model.Staff
	err := s.pool.QueryRow(ctx,
		`SELECT id, full_name, position, color, is_active FROM staff WHERE id = $1`, id,
	).Scan(&st.ID, &st.FullName, &st.Position, &st.Color, &st.IsActive)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "postgres: staff %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get staff %s", id)
	}
	return &st, nil
}

var staffColumns = []string{"id", "full_name", "position", "color", "is_active", "updated_at"}

// ImportStaff upserts the records by id through a COPY-staged bulk upsert.
func (s *PostgresStore) ImportStaff(ctx context.Context, staff []model.Staff) (int64, error) {
	records, err := prepareStaff(staff, uuid.NewString)
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	rows := make([][]any, len(records))
	for i, r := range records {
		rows[i] = []any{r.ID, r.FullName, r.Position, r.Color, r.IsActive, now}
	}

	n, err := db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "staff",
		Columns:      staffColumns,
		ConflictKeys: []string{"id"},
	}, rows)
	return n, eris.Wrap(err, "postgres: import staff")
}

func (s *PostgresStore) DeleteEventRoster(ctx context.Context, eventID string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin roster delete")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `DELETE FROM assignments WHERE event_id = $1`, eventID); err != nil {
		return eris.Wrapf(err, "postgres: delete assignments for %s", eventID)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM table_groups WHERE event_id = $1`, eventID); err != nil {
		return eris.Wrapf(err, "postgres: delete table groups for %s", eventID)
	}
	return eris.Wrap(tx.Commit(ctx), "postgres: commit roster delete")
}

func (s *PostgresStore) CreateTableGroup(ctx context.Context, g model.TableGroupRecord) (*model.TableGroupRecord, error) {
	if err := validateGroup(g); err != nil {
		return nil, err
	}
	g.ID = uuid.NewString()
	g.CreatedAt = time.Now().UTC()
	if g.GroupType == "" {
		g.GroupType = model.GroupStandard
	}
	if g.TableIDs == nil {
		g.TableIDs = []string{}
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO table_groups (id, event_id, name, color, table_ids, group_type, sort_order, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		g.ID, g.EventID, g.Name, g.Color, g.TableIDs, string(g.GroupType), g.SortOrder, g.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: insert table group %s", g.Name)
	}
	return &g, nil
}

func (s *PostgresStore) CreateAssignment(ctx context.Context, a model.AssignmentRecord) (*model.AssignmentRecord, error) {
	if err := validateAssignment(a); err != nil {
		return nil, err
	}
	a.ID = uuid.NewString()
	a.CreatedAt = time.Now().UTC()
	if a.TableIDs == nil {
		a.TableIDs = []string{}
	}

	var groupID *string
	if a.GroupID != "" {
		groupID = &a.GroupID
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO assignments (id, event_id, staff_id, group_id, assignment_type, table_ids, color, shift_start, shift_end, notes, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		a.ID, a.EventID, a.StaffID, groupID, string(a.AssignmentType), a.TableIDs,
		a.Color, a.ShiftStart, a.ShiftEnd, a.Notes, a.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: insert assignment for staff %s", a.StaffID)
	}
	return &a, nil
}

func (s *PostgresStore) ListTableGroups(ctx context.Context, eventID string) ([]model.TableGroupRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, event_id, name, color, table_ids, group_type, sort_order, created_at
		 FROM table_groups WHERE event_id = $1 ORDER BY sort_order`, eventID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list table groups")
	}
	defer rows.Close()

	var out []model.TableGroupRecord
	for rows.Next() {
		var (
			g   model.TableGroupRecord
			typ string
		)
		if err := rows.Scan(&g.ID, &g.EventID, &g.Name, &g.Color, &g.TableIDs, &typ, &g.SortOrder, &g.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan table group")
		}
		g.GroupType = model.GroupType(typ)
		out = append(out, g)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list table groups iterate")
}

func (s *PostgresStore) ListAssignments(ctx context.Context, eventID string) ([]model.AssignmentRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, event_id, staff_id, group_id, assignment_type, table_ids, color, shift_start, shift_end, notes, created_at
		 FROM assignments WHERE event_id = $1 ORDER BY created_at, id`, eventID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list assignments")
	}
	defer rows.Close()

	var out []model.AssignmentRecord
	for rows.Next() {
		var (
			a       model.AssignmentRecord
			groupID *string
			typ     string
		)
		if err := rows.Scan(&a.ID, &a.EventID, &a.StaffID, &groupID, &typ, &a.TableIDs,
			&a.Color, &a.ShiftStart, &a.ShiftEnd, &a.Notes, &a.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan assignment")
		}
		if groupID != nil {
			a.GroupID = *groupID
		}
		a.AssignmentType = model.AssignmentType(typ)
		out = append(out, a)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list assignments iterate")
}
