package model

// Category identifies a roster entry variant.
type Category string

const (
	CategoryTableAssignment Category = "table_assignment"
	CategoryCaptain         Category = "captain"
	CategorySupervisor      Category = "supervisor"
	CategoryLocaCaptain     Category = "loca_captain"
	CategoryExtraPersonnel  Category = "extra_personnel"
	CategorySupportMember   Category = "support_team_member"
	CategoryServicePoint    Category = "service_point"
)

// AssignmentType is how a persisted assignment attaches staff to the venue.
type AssignmentType string

const (
	AssignmentTable        AssignmentType = "table"
	AssignmentLoca         AssignmentType = "loca"
	AssignmentServicePoint AssignmentType = "service_point"
	AssignmentCaptain      AssignmentType = "captain"
	AssignmentSupervisor   AssignmentType = "supervisor"
	AssignmentLocaCaptain  AssignmentType = "loca_captain"
)

// CaptainRank is the rank printed next to a captain's name.
type CaptainRank string

const (
	RankCaptain  CaptainRank = "CAPTAIN"
	RankJCaptain CaptainRank = "J_CAPTAIN"
	RankIncharge CaptainRank = "INCHARGE"
)

// PointType classifies a service point.
type PointType string

const (
	PointBar    PointType = "bar"
	PointDepo   PointType = "depo"
	PointFuaye  PointType = "fuaye"
	PointCasino PointType = "casino"
	PointOther  PointType = "other"
)

// GroupType distinguishes regular table groups from loca (VIP box) groups.
type GroupType string

const (
	GroupStandard GroupType = "standard"
	GroupLoca     GroupType = "loca"
)

// RosterEntry is implemented by every entry variant.
type RosterEntry interface {
	Category() Category
	Common() Entry
}

// Entry holds the fields shared by every roster entry variant.
type Entry struct {
	StaffName  string     `json:"staff_name"`
	Match      StaffMatch `json:"staff_match"`
	ShiftStart string     `json:"shift_start"`
	ShiftEnd   string     `json:"shift_end"`
}

// Common returns the shared entry fields.
func (e Entry) Common() Entry { return e }

// TableAssignment places a staff member on a table group.
type TableAssignment struct {
	Entry
	TableIDs       []string       `json:"table_ids"`
	GroupName      string         `json:"group_name"`
	GroupColor     string         `json:"group_color"`
	AssignmentType AssignmentType `json:"assignment_type"`
	Position       string         `json:"position,omitempty"`
}

func (TableAssignment) Category() Category { return CategoryTableAssignment }

// Captain is a floor captain.
type Captain struct {
	Entry
	Rank CaptainRank `json:"rank"`
	Area string      `json:"area,omitempty"`
}

func (Captain) Category() Category { return CategoryCaptain }

// Supervisor is a supervisor (SPVR).
type Supervisor struct {
	Entry
	Area string `json:"area,omitempty"`
}

func (Supervisor) Category() Category { return CategorySupervisor }

// LocaCaptain is a captain responsible for loca boxes.
type LocaCaptain struct {
	Entry
	Area string `json:"area,omitempty"`
}

func (LocaCaptain) Category() Category { return CategoryLocaCaptain }

// ExtraPersonnel is an extra staff member hired for the event.
type ExtraPersonnel struct {
	Entry
	TableIDs     []string `json:"table_ids,omitempty"`
	IsBackground bool     `json:"is_background"`
}

func (ExtraPersonnel) Category() Category { return CategoryExtraPersonnel }

// SupportTeamMember belongs to a support team block.
type SupportTeamMember struct {
	Entry
	TeamName       string   `json:"team_name"`
	Position       string   `json:"position"`
	AssignmentText string   `json:"assignment_text,omitempty"`
	TableIDs       []string `json:"table_ids,omitempty"`
	IsNotComing    bool     `json:"is_not_coming"`
}

func (SupportTeamMember) Category() Category { return CategorySupportMember }

// ServicePointAssignment places a staff member at a bar, depot, foyer or casino.
type ServicePointAssignment struct {
	Entry
	ServicePointName string    `json:"service_point_name"`
	PointType        PointType `json:"point_type"`
}

func (ServicePointAssignment) Category() Category { return CategoryServicePoint }

// TableGroup is a set of tables served together.
type TableGroup struct {
	Name        string            `json:"name"`
	Color       string            `json:"color"`
	TableIDs    []string          `json:"table_ids"`
	GroupType   GroupType         `json:"group_type"`
	Assignments []TableAssignment `json:"assignments"`
}

// DistinctTableCount returns the number of distinct table ids in the group.
func (g TableGroup) DistinctTableCount() int {
	seen := make(map[string]struct{}, len(g.TableIDs))
	for _, id := range g.TableIDs {
		seen[id] = struct{}{}
	}
	return len(seen)
}

// ServicePoint is a bar, depot, foyer or casino with its staff.
type ServicePoint struct {
	Name        string                   `json:"name"`
	PointType   PointType                `json:"point_type"`
	Color       string                   `json:"color"`
	Assignments []ServicePointAssignment `json:"assignments"`
}

// SupportTeam is a named support crew.
type SupportTeam struct {
	Name    string              `json:"name"`
	Color   string              `json:"color"`
	Members []SupportTeamMember `json:"members"`
}
