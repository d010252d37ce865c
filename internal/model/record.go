package model

import "time"

// TableGroupRecord is a persisted table group for an event.
type TableGroupRecord struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	TableIDs  []string  `json:"table_ids"`
	GroupType GroupType `json:"group_type"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}

// AssignmentRecord is a persisted staff assignment for an event.
type AssignmentRecord struct {
	ID             string         `json:"id"`
	EventID        string         `json:"event_id"`
	StaffID        string         `json:"staff_id"`
	GroupID        string         `json:"group_id,omitempty"`
	AssignmentType AssignmentType `json:"assignment_type"`
	TableIDs       []string       `json:"table_ids"`
	Color          string         `json:"color,omitempty"`
	ShiftStart     string         `json:"shift_start"`
	ShiftEnd       string         `json:"shift_end"`
	Notes          string         `json:"notes,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}
