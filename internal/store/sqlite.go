package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/roster-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS staff (
	id         TEXT PRIMARY KEY,
	full_name  TEXT NOT NULL,
	position   TEXT NOT NULL DEFAULT '',
	color      TEXT NOT NULL DEFAULT '',
	is_active  INTEGER NOT NULL DEFAULT 1,
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS table_groups (
	id         TEXT PRIMARY KEY,
	event_id   TEXT NOT NULL,
	name       TEXT NOT NULL,
	color      TEXT NOT NULL DEFAULT '',
	table_ids  TEXT NOT NULL DEFAULT '[]',
	group_type TEXT NOT NULL DEFAULT 'standard',
	sort_order INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS assignments (
	id              TEXT PRIMARY KEY,
	event_id        TEXT NOT NULL,
	staff_id        TEXT NOT NULL,
	group_id        TEXT,
	assignment_type TEXT NOT NULL,
	table_ids       TEXT NOT NULL DEFAULT '[]',
	color           TEXT NOT NULL DEFAULT '',
	shift_start     TEXT NOT NULL DEFAULT '',
	shift_end       TEXT NOT NULL DEFAULT '',
	notes           TEXT NOT NULL DEFAULT '',
	created_at      DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_staff_active ON staff(is_active);
CREATE INDEX IF NOT EXISTS idx_table_groups_event ON table_groups(event_id);
CREATE INDEX IF NOT EXISTS idx_assignments_event ON assignments(event_id);
CREATE INDEX IF NOT EXISTS idx_assignments_group ON assignments(group_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ActiveStaff(ctx context.Context) ([]model.Staff, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, full_name, position, color, is_active FROM staff WHERE is_active = 1 ORDER BY full_name`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list active staff")
	}
	defer rows.Close() //nolint:errcheck

	var out []model.Staff
	for rows.Next() {
		st, err := scanStaff(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *st)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list active staff iterate")
}

func (s *SQLiteStore) GetStaff(ctx context.Context, id string) (*model.Staff, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, full_name, position, color, is_active FROM staff WHERE id = ?`, id,
	)
	st, err := scanStaff(row)
	if eris.Is(err, sql.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "sqlite: staff %s", id)
	}
	return st, err
}

func (s *SQLiteStore) ImportStaff(ctx context.Context, staff []model.Staff) (int64, error) {
	records, err := prepareStaff(staff, uuid.NewString)
	if err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin staff import")
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO staff (id, full_name, position, color, is_active, updated_at) VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET full_name = excluded.full_name, position = excluded.position,
		 color = excluded.color, is_active = excluded.is_active, updated_at = excluded.updated_at`,
	)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare staff upsert")
	}
	defer stmt.Close() //nolint:errcheck

	now := time.Now().UTC()
	var n int64
	for _, r := range records {
		if _, err := stmt.ExecContext(ctx, r.ID, r.FullName, r.Position, r.Color, r.IsActive, now); err != nil {
			return 0, eris.Wrapf(err, "sqlite: upsert staff %s", r.ID)
		}
		n++
	}
	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit staff import")
	}
	return n, nil
}

func (s *SQLiteStore) DeleteEventRoster(ctx context.Context, eventID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin roster delete")
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM assignments WHERE event_id = ?`, eventID); err != nil {
		return eris.Wrapf(err, "sqlite: delete assignments for %s", eventID)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM table_groups WHERE event_id = ?`, eventID); err != nil {
		return eris.Wrapf(err, "sqlite: delete table groups for %s", eventID)
	}
	return eris.Wrap(tx.Commit(), "sqlite: commit roster delete")
}

func (s *SQLiteStore) CreateTableGroup(ctx context.Context, g model.TableGroupRecord) (*model.TableGroupRecord, error) {
	if err := validateGroup(g); err != nil {
		return nil, err
	}
	g.ID = uuid.NewString()
	g.CreatedAt = time.Now().UTC()
	if g.GroupType == "" {
		g.GroupType = model.GroupStandard
	}

	tables, err := marshalIDs(g.TableIDs)
	if err != nil {
		return nil, err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO table_groups (id, event_id, name, color, table_ids, group_type, sort_order, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.EventID, g.Name, g.Color, tables, string(g.GroupType), g.SortOrder, g.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: insert table group %s", g.Name)
	}
	return &g, nil
}

func (s *SQLiteStore) CreateAssignment(ctx context.Context, a model.AssignmentRecord) (*model.AssignmentRecord, error) {
	if err := validateAssignment(a); err != nil {
		return nil, err
	}
	a.ID = uuid.NewString()
	a.CreatedAt = time.Now().UTC()

	tables, err := marshalIDs(a.TableIDs)
	if err != nil {
		return nil, err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO assignments (id, event_id, staff_id, group_id, assignment_type, table_ids, color, shift_start, shift_end, notes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.EventID, a.StaffID, nullString(a.GroupID), string(a.AssignmentType), tables,
		a.Color, a.ShiftStart, a.ShiftEnd, a.Notes, a.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: insert assignment for staff %s", a.StaffID)
	}
	return &a, nil
}

func (s *SQLiteStore) ListTableGroups(ctx context.Context, eventID string) ([]model.TableGroupRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, event_id, name, color, table_ids, group_type, sort_order, created_at
		 FROM table_groups WHERE event_id = ? ORDER BY sort_order`, eventID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list table groups")
	}
	defer rows.Close() //nolint:errcheck

	var out []model.TableGroupRecord
	for rows.Next() {
		var (
			g      model.TableGroupRecord
			tables string
		)
		if err := rows.Scan(&g.ID, &g.EventID, &g.Name, &g.Color, &tables, &g.GroupType, &g.SortOrder, &g.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan table group")
		}
		if err := json.Unmarshal([]byte(tables), &g.TableIDs); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal table ids")
		}
		out = append(out, g)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list table groups iterate")
}

func (s *SQLiteStore) ListAssignments(ctx context.Context, eventID string) ([]model.AssignmentRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, event_id, staff_id, group_id, assignment_type, table_ids, color, shift_start, shift_end, notes, created_at
		 FROM assignments WHERE event_id = ? ORDER BY created_at, id`, eventID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list assignments")
	}
	defer rows.Close() //nolint:errcheck

	var out []model.AssignmentRecord
	for rows.Next() {
		var (
			a       model.AssignmentRecord
			groupID sql.NullString
			tables  string
		)
		if err := rows.Scan(&a.ID, &a.EventID, &a.StaffID, &groupID, &a.AssignmentType, &tables,
			&a.Color, &a.ShiftStart, &a.ShiftEnd, &a.Notes, &a.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan assignment")
		}
		a.GroupID = groupID.String
		if err := json.Unmarshal([]byte(tables), &a.TableIDs); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal table ids")
		}
		out = append(out, a)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list assignments iterate")
}

// helpers

type scannable interface {
	Scan(dest ...any) error
}

func scanStaff(row scannable) (*model.Staff, error) {
	var st model.Staff
	if err := row.Scan(&st.ID, &st.FullName, &st.Position, &st.Color, &st.IsActive); err != nil {
		if eris.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, eris.Wrap(err, "sqlite: scan staff")
	}
	return &st, nil
}

func marshalIDs(ids []string) (string, error) {
	if ids == nil {
		ids = []string{}
	}
	b, err := json.Marshal(ids)
	if err != nil {
		return "", eris.Wrap(err, "store: marshal table ids")
	}
	return string(b), nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
