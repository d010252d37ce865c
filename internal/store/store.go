// Package store persists the staff registry and confirmed event rosters.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/roster-cli/internal/model"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = eris.New("store: not found")

// Store defines the persistence interface for rosters.
type Store interface {
	// Staff registry
	ActiveStaff(ctx context.Context) ([]model.Staff, error)
	GetStaff(ctx context.Context, id string) (*model.Staff, error)
	ImportStaff(ctx context.Context, staff []model.Staff) (int64, error)

	// Event rosters
	DeleteEventRoster(ctx context.Context, eventID string) error
	CreateTableGroup(ctx context.Context, g model.TableGroupRecord) (*model.TableGroupRecord, error)
	CreateAssignment(ctx context.Context, a model.AssignmentRecord) (*model.AssignmentRecord, error)
	ListTableGroups(ctx context.Context, eventID string) ([]model.TableGroupRecord, error)
	ListAssignments(ctx context.Context, eventID string) ([]model.AssignmentRecord, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// prepareStaff assigns ids to records that lack one and rejects records
// without a name.
func prepareStaff(staff []model.Staff, newID func() string) ([]model.Staff, error) {
	out := make([]model.Staff, len(staff))
	for i, s := range staff {
		if s.FullName == "" {
			return nil, eris.Errorf("store: staff record %d has no full_name", i+1)
		}
		if s.ID == "" {
			s.ID = newID()
		}
		out[i] = s
	}
	return out, nil
}

func validateGroup(g model.TableGroupRecord) error {
	if g.EventID == "" || g.Name == "" {
		return eris.New("store: table group needs event_id and name")
	}
	return nil
}

func validateAssignment(a model.AssignmentRecord) error {
	if a.EventID == "" || a.StaffID == "" {
		return eris.New("store: assignment needs event_id and staff_id")
	}
	return nil
}
