package model

// Staff is a canonical staff record from the registry.
type Staff struct {
	ID       string `json:"id" yaml:"id"`
	FullName string `json:"full_name" yaml:"full_name"`
	Position string `json:"position,omitempty" yaml:"position"`
	Color    string `json:"color,omitempty" yaml:"color"`
	IsActive bool   `json:"is_active" yaml:"is_active"`
}

// StaffMatch is the result of matching a free-text name against the registry.
// Confidence is 100 for an exact normalized match, 60-99 for a word-overlap
// match and 0 with an empty StaffID when nothing matched.
type StaffMatch struct {
	StaffID    string   `json:"matched_staff_id,omitempty"`
	FullName   string   `json:"matched_full_name,omitempty"`
	Confidence int      `json:"confidence_score"`
	Warnings   []string `json:"warnings,omitempty"`
}

// Matched reports whether a registry record was found.
func (m StaffMatch) Matched() bool {
	return m.StaffID != ""
}
